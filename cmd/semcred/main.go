// Package main provides the semcred binary entry point.
// semcred compiles SHACL application profiles into JSON-LD contexts,
// JSON Schemas and SD-JWT schemas, and issues dual-track verifiable
// credentials from trade records.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcred/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semcred"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals are the persistent flags and the App they produce.
type globals struct {
	configPath string
	logLevel   string
	app        *App
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SHACL to dual-track verifiable credential compiler",
		Long: `semcred compiles SHACL application profiles into credential artifacts:

- JSON-LD @context documents
- JSON Schemas for W3C Verifiable Credentials
- SD-JWT schemas with a semantic mapping block
- Markdown documentation and credential templates
- an aggregated semantic registry linking SD-JWT claims to OWL properties

It also maps SAP trade documents to verifiable credentials, issues them in
JSON-LD and SD-JWT form, and serves a simulated SAP OData API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			logger := newLogger(cmd.ErrOrStderr(), g.logLevel)
			slog.SetDefault(logger)

			cfg, err := config.NewLoader(logger).Load(g.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			g.app = NewApp(cfg, logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		compileCmd(g),
		exportCmd(g),
		issueCmd(g),
		scenarioCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// newLogger builds the stderr text logger for level.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
