package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavy/internal/config"
	"github.com/olivier-w/wavy/internal/logging"
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/ui"
	"go.uber.org/zap"
)

const usage = `wavy draws the amplitude envelope of an audio file.

Usage:
  wavy [flags] [file|url]          open the interactive viewer
  wavy view [flags] [file|url]     same as above
  wavy render [flags] <file|url>   write a PNG and print the debug text

Supported formats: %s

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	command := "view"
	if len(args) > 0 && (args[0] == "view" || args[0] == "render") {
		command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("wavy "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, media.SupportedExtsList())
		fs.PrintDefaults()
	}
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs, flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level,
		logging.WithDevelopment(cfg.Log.Development),
		logging.WithFields(map[string]interface{}{
			"command": command,
		}),
	)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if command == "render" {
		return runRender(ctx, cfg, logger, fs.Args(), stdout)
	}
	return runViewer(cfg, logger, fs.Args())
}

func runViewer(cfg *config.Config, logger *zap.Logger, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected at most one file, got %d", len(args))
	}

	var arg string
	if len(args) == 1 {
		arg = args[0]
		if err := checkLocalFile(arg); err != nil {
			return err
		}
	}

	program := tea.NewProgram(ui.New(cfg, logger, arg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// checkLocalFile rejects missing files, directories and unsupported
// extensions before any UI starts. URLs are checked once fetched.
func checkLocalFile(arg string) error {
	if media.IsURL(arg) {
		return nil
	}
	info, err := os.Stat(arg)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", arg)
	}
	ext := media.ExtOf(arg)
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}
