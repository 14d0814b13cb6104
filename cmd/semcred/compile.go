package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/watch"
)

func compileCmd(g *globals) *cobra.Command {
	var (
		outputDir string
		keepGoing bool
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "compile [patterns...]",
		Short: "Compile SHACL shapes into credential artifacts",
		Long: `Compile loads every shape file matching the glob patterns (** is
supported) and writes per-shape JSON-LD contexts, JSON Schemas, SD-JWT
schemas, documentation and templates, plus sdjwt/semantic-registry.json.

Without patterns the configured compile.inputs are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = g.app.cfg.Compile.Inputs
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no input patterns")
			}

			c, err := g.app.Compiler(outputDir, keepGoing)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			report, err := c.Compile(ctx, patterns)
			if report != nil {
				printReport(cmd, report)
			}
			if err != nil && !watchMode {
				return err
			}
			if err == nil && report.Failed() {
				err = fmt.Errorf("%d files failed", len(report.Failures))
				if !watchMode {
					return err
				}
			}
			if !watchMode {
				return nil
			}
			if err != nil {
				g.app.logger.Warn("Initial compile failed, watching for fixes", "error", err)
			}
			return watchAndRecompile(ctx, g, c, patterns)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue past files that fail")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Recompile when shape files change")
	return cmd
}

func printReport(cmd *cobra.Command, report *compiler.Report) {
	out := cmd.OutOrStdout()
	for _, f := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", f.Path, f.Err)
	}
	fmt.Fprintln(out, report.Summary())
}

// watchAndRecompile recompiles changed files until ctx is cancelled.
func watchAndRecompile(ctx context.Context, g *globals, c *compiler.Compiler, patterns []string) error {
	w, err := watch.New(watch.Config{
		Patterns: patterns,
		Loaders:  c.Loaders(),
		Debounce: g.app.cfg.Compile.Debounce,
		Logger:   g.app.logger,
	})
	if err != nil {
		return err
	}

	if paths, err := shape.Expand(patterns); err == nil {
		w.Seed(paths)
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for ev := range w.Events() {
		var report *compiler.Report
		var err error
		switch ev.Op {
		case watch.OpDelete:
			report, err = c.Forget(ev.Path)
		default:
			report, err = c.Recompile(ctx, ev.Path)
		}
		if err != nil {
			g.app.logger.Warn("Recompile failed", "path", ev.Path, "op", ev.Op, "error", err)
			continue
		}
		g.app.logger.Info("Recompiled",
			"path", ev.Path,
			"op", ev.Op,
			"shapes", len(report.Shapes),
			"artifacts", len(report.Artifacts))
	}
	return nil
}
