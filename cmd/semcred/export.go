package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcred/export"
	"github.com/c360studio/semcred/shape"
)

func exportCmd(g *globals) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Re-serialize a shape file as Turtle, N-Triples or JSON-LD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// An output extension picks the format unless -f is given.
			if !cmd.Flags().Changed("format") && filepath.Ext(output) != "" {
				format = filepath.Ext(output)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			graph, err := shape.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			text, err := export.Export(graph, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(output, []byte(text), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			info, _ := export.GetFormatInfo(f)
			g.app.logger.Info("Exported graph", "source", args[0], "format", f, "mime", info.MIMEType, "path", output)
			return nil
		},
	}

	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "Output format ("+strings.Join(names, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
