package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olivier-w/wavy/internal/canvas"
	"github.com/olivier-w/wavy/internal/config"
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/pipeline"
	"github.com/olivier-w/wavy/internal/render"
	"github.com/olivier-w/wavy/internal/util"
	"go.uber.org/zap"
)

// runRender decodes one file or URL, renders it onto a raster of the
// configured size and writes the PNG.
func runRender(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("render needs exactly one file or URL, got %d", len(args))
	}
	arg := args[0]
	if err := checkLocalFile(arg); err != nil {
		return err
	}

	src, err := media.Load(ctx, arg)
	if err != nil {
		return err
	}
	if !media.IsSupportedExt(src.Ext) {
		return fmt.Errorf("unsupported format %q (supported: %s)", src.Ext, media.SupportedExtsList())
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}

	raster := canvas.NewRaster(cfg.Width, cfg.Height)
	slot := render.NewSlot(raster, logger)
	ticket := slot.Acquire(ctx)
	defer slot.Release(ticket)

	res := pipeline.New(slot, logger).Run(ticket, pipeline.Request{
		Name:      src.Name,
		Ext:       src.Ext,
		Data:      src.Data,
		GroupSize: cfg.GroupSize,
		Spectrum:  cfg.Spectrum,
		Options:   opts,
	})
	if errors.Is(res.Err, render.ErrTooWide) {
		return fmt.Errorf("%w (try -policy clamp or a larger -group)", res.Err)
	}
	if res.Err != nil {
		return res.Err
	}
	fmt.Fprintln(stdout, res.Debug)

	out := cfg.Output
	if out == "" {
		base := strings.TrimSuffix(src.Name, filepath.Ext(src.Name))
		out = util.SanitizeFilename(base) + ".png"
	}
	if err := writePNG(raster, out); err != nil {
		return err
	}

	w, h := raster.Size()
	fmt.Fprintf(stdout, "Wrote %s (%dx%d, %s)\n", out, w, h, opts.Mode)
	logger.Info("rendered",
		zap.String("source", arg),
		zap.String("output", out),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return nil
}

func writePNG(raster *canvas.Raster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := raster.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
