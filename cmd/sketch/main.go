package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inamate/whiteboard/internal/action"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/script"
)

// Build information (set by the release build)
var version = "dev"

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "sketch",
		Short: "Replay whiteboard gesture scripts headlessly",
		Long: `Sketch drives the whiteboard engine without a browser. Gesture scripts
are YAML lists of pointer, keyboard and panel inputs; the final frame is
rasterised to PNG.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity")

	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newActionsCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newReplayCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "replay <script.yaml>",
		Short:   "Replay a gesture script and write the final frame",
		Example: `  sketch replay board.yaml -o board.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return fmt.Errorf("load script: %w", err)
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			return renderTo(cmd.Context(), s, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG output path (default: script name with .png)")
	return cmd
}

func newRenderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the built-in demo scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Parse(strings.NewReader(script.Demo))
			if err != nil {
				return err
			}
			return renderTo(cmd.Context(), s, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "demo.png", "PNG output path")
	return cmd
}

// newActionsCommand lists the names usable in "action" script steps.
func newActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the built-in actions and their labels",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := action.Defaults()
			for _, name := range reg.Names() {
				a, _ := reg.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", name, a.Label)
			}
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func renderTo(ctx context.Context, s script.Script, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := script.RenderPNG(ctx, s, cfg.EngineOptions(slog.Default()))
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	slog.Info("wrote frame", "path", output, "bytes", len(data))
	return nil
}
