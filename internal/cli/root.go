// Package cli holds the ponto admin commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/ponto/internal/app"
	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ponto",
	Short: "Admin tool for the Ponto attendance service",
	Long: `Ponto records attendance by recognizing faces in webcam snapshots.
This tool works on the same gallery and attendance storage as the API server,
so summaries can be rebuilt and the gallery inspected without the server running.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log informational messages to stderr")
}

func initConfig() {
	if envFile == "" {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", envFile, err)
	}
}

// openApp loads configuration and wires the application with its gallery loaded.
func openApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, cliLogger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	if err := a.LoadGallery(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func cliLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
