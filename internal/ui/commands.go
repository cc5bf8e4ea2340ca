package ui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavy/internal/canvas"
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/pipeline"
	"github.com/olivier-w/wavy/internal/render"
	"github.com/olivier-w/wavy/internal/visualizer"
)

func loadCmd(ticket render.Ticket, path string) tea.Cmd {
	return func() tea.Msg {
		src, err := media.Load(ticket.Ctx, path)
		return loadedMsg{gen: ticket.Gen, src: src, err: err}
	}
}

func waitForStatus(gen uint64, statusCh chan float64) tea.Cmd {
	if statusCh == nil {
		return nil
	}
	return func() tea.Msg {
		fraction, ok := <-statusCh
		if !ok {
			return nil
		}
		return decodeProgressMsg{gen: gen, fraction: fraction}
	}
}

// decodeCmd runs the full pipeline for req and snapshots the result as a
// Braille preview while still holding the slot.
func decodeCmd(p *pipeline.Pipeline, raster *canvas.Raster, ticket render.Ticket, req pipeline.Request, cols, rows int, statusCh chan float64) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		req.Progress = func(f float64) {
			select {
			case statusCh <- f:
			default:
			}
		}

		msg := renderedMsg{gen: ticket.Gen, cols: cols, rows: rows}
		if err := fitRaster(p.Slot, raster, ticket, cols, rows); err != nil {
			msg.result = pipeline.Result{Err: err}
			return msg
		}
		msg.result = p.Run(ticket, req)
		if msg.result.Err != nil {
			return msg
		}
		preview, err := snapshot(p.Slot, raster, ticket, cols, rows)
		if err != nil {
			msg.result.Err = err
			return msg
		}
		msg.preview = preview
		return msg
	}
}

// rerenderCmd draws cached samples again, for a new mode or terminal size.
func rerenderCmd(p *pipeline.Pipeline, raster *canvas.Raster, ticket render.Ticket, samples []float64, opts render.Options, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		msg := previewMsg{gen: ticket.Gen, cols: cols, rows: rows}
		if msg.err = fitRaster(p.Slot, raster, ticket, cols, rows); msg.err != nil {
			return msg
		}
		if msg.err = p.Rerender(ticket, samples, opts); msg.err != nil {
			return msg
		}
		msg.preview, msg.err = snapshot(p.Slot, raster, ticket, cols, rows)
		return msg
	}
}

// fitRaster sizes the raster to the preview. Grow renders widen it, so
// every render starts from the terminal's size again.
func fitRaster(slot *render.Slot, raster *canvas.Raster, ticket render.Ticket, cols, rows int) error {
	return slot.Inspect(ticket, func(canvas.Canvas) error {
		w, h := cols*2*pixelsPerDot, rows*4*pixelsPerDot
		if rw, rh := raster.Size(); rw != w || rh != h {
			raster.Resize(w, h)
		}
		return nil
	})
}

func snapshot(slot *render.Slot, raster *canvas.Raster, ticket render.Ticket, cols, rows int) (string, error) {
	var preview string
	err := slot.Inspect(ticket, func(canvas.Canvas) error {
		preview = visualizer.Braille(raster.Image(), raster.Background(), cols, rows)
		return nil
	})
	return preview, err
}

// saveCmd renders samples onto a fresh full-size raster and writes it as
// PNG to the current directory.
func saveCmd(name string, samples []float64, opts render.Options, width, height int) tea.Cmd {
	return func() tea.Msg {
		if _, err := os.Stat(name); err == nil {
			return fileSavedMsg{err: fmt.Errorf("file %q already exists", name)}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fileSavedMsg{err: err}
		}

		raster := canvas.NewRaster(width, height)
		if err := render.Render(raster, samples, opts); err != nil {
			return fileSavedMsg{err: err}
		}

		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return fileSavedMsg{err: err}
		}
		if err := raster.EncodePNG(f); err != nil {
			f.Close()
			return fileSavedMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return fileSavedMsg{err: err}
		}
		return fileSavedMsg{destName: name}
	}
}
