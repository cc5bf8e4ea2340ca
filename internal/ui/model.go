package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavy/internal/canvas"
	"github.com/olivier-w/wavy/internal/config"
	"github.com/olivier-w/wavy/internal/decoder"
	"github.com/olivier-w/wavy/internal/layout"
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/pipeline"
	"github.com/olivier-w/wavy/internal/render"
	"github.com/olivier-w/wavy/internal/util"
	"go.uber.org/zap"
)

type phase uint8

const (
	phaseBrowse phase = iota
	phaseLoading
	phaseDecoding
	phaseViewing
)

// pixelsPerDot is the raster resolution behind one Braille dot.
const pixelsPerDot = 4

// chromeRows is the number of terminal rows the viewer uses around the
// preview.
const chromeRows = 15

const noticeTTL = 5 * time.Second

// Model is the Bubbletea model for the wavy TUI: a file browser, a loading
// screen and the waveform viewer with its debug panel.
type Model struct {
	cfg      *config.Config
	logger   *zap.Logger
	raster   *canvas.Raster
	slot     *render.Slot
	pipeline *pipeline.Pipeline

	phase   phase
	browser BrowserModel
	ticket  render.Ticket
	pending string

	source    media.Source
	meta      media.Metadata
	opts      render.Options
	groupSize int
	spectrum  bool

	result      pipeline.Result
	preview     string
	previewCols int
	previewRows int
	started     time.Time
	elapsed     time.Duration

	spinner  spinner.Model
	progress progress.Model
	fraction float64
	statusCh chan float64

	groupInput   textinput.Model
	editingGroup bool

	errMsg   string
	notice   string
	noticeID int
	saving   bool

	width    int
	height   int
	quitting bool
}

// New creates the TUI model. An empty arg starts in the file browser;
// otherwise arg is loaded as a path or URL.
func New(cfg *config.Config, logger *zap.Logger, arg string) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		opts = render.DefaultOptions()
	}

	raster := canvas.NewRaster(cfg.Width, cfg.Height)
	slot := render.NewSlot(raster, logger)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#1976D2", "#64B5F6"),
		progress.WithoutPercentage(),
	)

	gi := textinput.New()
	gi.Placeholder = strconv.Itoa(decoder.DefaultGroupSize)
	gi.CharLimit = 9
	gi.Width = 12
	gi.Prompt = "group size: "

	m := Model{
		cfg:        cfg,
		logger:     logger,
		raster:     raster,
		slot:       slot,
		pipeline:   pipeline.New(slot, logger),
		opts:       opts,
		groupSize:  cfg.GroupSize,
		spectrum:   cfg.Spectrum,
		spinner:    s,
		progress:   p,
		groupInput: gi,
	}

	if arg == "" {
		m.phase = phaseBrowse
		m.browser = NewBrowser(".")
		return m
	}
	m.phase = phaseLoading
	m.pending = arg
	m.ticket = slot.Acquire(context.Background())
	return m
}

func (m Model) Init() tea.Cmd {
	if m.phase == phaseLoading {
		return tea.Batch(m.spinner.Tick, loadCmd(m.ticket, m.pending), tea.SetWindowTitle("wavy"))
	}
	return m.browser.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		if m.phase == phaseBrowse {
			return m.updateBrowser(msg)
		}
		if m.phase == phaseViewing {
			return m.rerender()
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading && m.phase != phaseDecoding {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case BrowserSelectedMsg:
		return m.open(msg.Path)

	case BrowserCancelledMsg:
		if m.source.Data != nil {
			m.phase = phaseViewing
			return m.rerender()
		}
		return m.quit()

	case loadedMsg:
		return m.handleLoaded(msg)

	case decodeProgressMsg:
		if msg.gen != m.ticket.Gen {
			return m, nil
		}
		m.fraction = msg.fraction
		return m, waitForStatus(msg.gen, m.statusCh)

	case renderedMsg:
		return m.handleRendered(msg)

	case previewMsg:
		if msg.gen != m.ticket.Gen {
			return m, nil
		}
		if msg.err != nil {
			if !isStale(msg.err) {
				m.errMsg = msg.err.Error()
			}
			return m, nil
		}
		m.preview = msg.preview
		m.previewCols, m.previewRows = msg.cols, msg.rows
		return m, nil

	case fileSavedMsg:
		m.saving = false
		if msg.err != nil {
			return m.setNotice(fmt.Sprintf("Save failed: %v", msg.err))
		}
		return m.setNotice(fmt.Sprintf("Saved to %s", msg.destName))

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	if m.editingGroup {
		var cmd tea.Cmd
		m.groupInput, cmd = m.groupInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	if m.editingGroup {
		return m.updateGroupInput(msg)
	}
	if isQuit(msg) {
		return m.quit()
	}

	switch msg.String() {
	case "v":
		m.opts.Mode = m.opts.Mode.Next()
		switch m.phase {
		case phaseViewing:
			return m.rerender()
		case phaseDecoding:
			return m.startDecode()
		}
		return m, nil
	}

	if m.phase != phaseViewing {
		return m, nil
	}

	switch msg.String() {
	case "g":
		m.editingGroup = true
		m.groupInput.SetValue(strconv.Itoa(m.groupSize))
		m.groupInput.CursorEnd()
		return m, m.groupInput.Focus()
	case "f":
		m.spectrum = !m.spectrum
		return m.startDecode()
	case "r":
		return m.startDecode()
	case "w":
		if m.saving || len(m.result.Samples) == 0 {
			return m, nil
		}
		m.saving = true
		m.notice = "Saving..."
		name := util.SanitizeFilename(m.meta.Title) + ".png"
		return m, saveCmd(name, m.result.Samples, m.saveOptions(), m.cfg.Width, m.cfg.Height)
	case "o":
		dir := m.browser.Dir()
		if dir == "" {
			dir = "."
		}
		m.phase = phaseBrowse
		m.errMsg = ""
		m.browser = NewBrowser(dir)
		return m.updateBrowser(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m, nil
}

func (m Model) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

func (m Model) updateGroupInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editingGroup = false
		m.groupInput.Blur()
		size, ok := parseGroupSize(m.groupInput.Value())
		m.groupSize = size
		if !ok {
			m.notice = fmt.Sprintf("Invalid group size, using %d", size)
		}
		return m.startDecode()
	case "esc":
		m.editingGroup = false
		m.groupInput.Blur()
		return m, nil
	case "ctrl+c":
		return m.quit()
	}
	var cmd tea.Cmd
	m.groupInput, cmd = m.groupInput.Update(msg)
	return m, cmd
}

// parseGroupSize reads a positive integer, falling back to the default.
func parseGroupSize(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return decoder.DefaultGroupSize, false
	}
	return n, true
}

func (m Model) open(path string) (tea.Model, tea.Cmd) {
	m.ticket = m.slot.Acquire(context.Background())
	m.phase = phaseLoading
	m.pending = path
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, loadCmd(m.ticket, path))
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ticket.Gen {
		return m, nil
	}
	err := msg.err
	if err == nil && !media.IsSupportedExt(msg.src.Ext) {
		err = fmt.Errorf("unsupported format %q (supported: %s)", msg.src.Ext, media.SupportedExtsList())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return m, nil
		}
		m.logger.Warn("load failed", zap.String("path", m.pending), zap.Error(err))
		m.phase = phaseBrowse
		m.errMsg = err.Error()
		dir := m.browser.Dir()
		if dir == "" {
			dir = "."
		}
		m.browser = NewBrowser(dir)
		return m.updateBrowser(tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 0)})
	}

	m.source = msg.src
	m.meta = media.ReadMetadata(msg.src)
	return m.startDecode()
}

func (m Model) startDecode() (tea.Model, tea.Cmd) {
	m.ticket = m.slot.Acquire(context.Background())
	m.phase = phaseDecoding
	m.fraction = 0
	m.started = time.Now()
	m.statusCh = make(chan float64, 16)

	cols, rows := m.previewSize()
	req := pipeline.Request{
		Name:      m.source.Name,
		Ext:       m.source.Ext,
		Data:      m.source.Data,
		GroupSize: m.groupSize,
		Spectrum:  m.spectrum,
		Options:   m.renderOptions(),
	}
	return m, tea.Batch(
		m.spinner.Tick,
		waitForStatus(m.ticket.Gen, m.statusCh),
		decodeCmd(m.pipeline, m.raster, m.ticket, req, cols, rows, m.statusCh),
		tea.SetWindowTitle(m.meta.Title+" - wavy"),
	)
}

func (m Model) handleRendered(msg renderedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ticket.Gen || msg.result.Stale() {
		return m, nil
	}
	m.phase = phaseViewing
	m.result = msg.result
	m.preview = msg.preview
	m.previewCols, m.previewRows = msg.cols, msg.rows
	m.elapsed = time.Since(m.started)

	if cols, rows := m.previewSize(); cols != msg.cols || rows != msg.rows {
		return m.rerender()
	}
	return m, nil
}

func (m Model) rerender() (tea.Model, tea.Cmd) {
	if len(m.result.Samples) == 0 {
		return m, nil
	}
	m.ticket = m.slot.Acquire(context.Background())
	cols, rows := m.previewSize()
	return m, rerenderCmd(m.pipeline, m.raster, m.ticket, m.result.Samples, m.renderOptions(), cols, rows)
}

// saveOptions is m.opts with the policy dropped when the current mode
// cannot use it, which happens after cycling modes with v.
func (m Model) saveOptions() render.Options {
	opts := m.opts
	if !opts.Mode.Supports(opts.Policy) {
		opts.Policy = layout.PolicyDefault
	}
	return opts
}

// renderOptions adapts the options to the terminal. A preview has a fixed
// width, so modes that would widen the canvas are clamped.
func (m Model) renderOptions() render.Options {
	opts := m.saveOptions()
	if opts.Policy == layout.Grow || (opts.Policy == layout.PolicyDefault && opts.Mode.DefaultPolicy() == layout.Grow) {
		opts.Policy = layout.Clamp
	}
	return opts
}

func (m Model) previewSize() (int, int) {
	cols, rows := 76, 10
	if m.width > 0 {
		cols = max(m.width-4, 20)
	}
	if m.height > 0 {
		rows = max(m.height-chromeRows, 4)
	}
	return cols, rows
}

func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.slot.Release(m.ticket)
	m.quitting = true
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func isStale(err error) bool {
	return errors.Is(err, render.ErrStale) || errors.Is(err, context.Canceled)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseBrowse:
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  " + headerStyle.Render("wavy") + "\n\n  " + errorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
	case phaseLoading:
		return m.renderWaiting("Loading " + m.pending + "...")
	case phaseDecoding:
		return m.renderWaiting("Decoding...")
	}
	return m.renderViewer()
}

func (m Model) renderWaiting(label string) string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("wavy"))
	b.WriteString("\n\n")
	if m.meta.Title != "" && m.phase == phaseDecoding {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render(m.meta.Label()))
		b.WriteString("\n\n")
	}

	b.WriteString("  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(statusStyle.Render(label))
	b.WriteString("\n")
	if m.phase == phaseDecoding {
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(m.fraction))
		b.WriteString(fmt.Sprintf("  %.0f%%\n", m.fraction*100))
	}

	b.WriteString("\n  ")
	b.WriteString(helpStyle.Render(helpText(m.phase, false)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderViewer() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("wavy"))
	b.WriteString("\n\n  ")
	b.WriteString(titleStyle.Render(m.meta.Title))
	b.WriteString("\n")
	if sub := subtitle(m.meta); sub != "" {
		b.WriteString("  ")
		b.WriteString(artistStyle.Render(sub))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.result.Err != nil {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.result.Debug))
		b.WriteString("\n")
	} else {
		b.WriteString(indentBlock(m.preview, "  "))
		b.WriteString("\n\n")
		b.WriteString(indentBlock(debugStyle.Render(m.result.Debug), "  "))
		b.WriteString("\n")
	}

	if m.editingGroup {
		b.WriteString("\n  ")
		b.WriteString(m.groupInput.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")
	b.WriteString(helpStyle.Render(helpText(m.phase, m.editingGroup)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	parts := []string{
		modeStyle.Render(m.opts.Mode.String()),
		fmt.Sprintf("group %d", m.groupSize),
		util.FormatSize(m.source.Size()),
	}
	if m.spectrum {
		parts = append(parts, "spectrum")
	}
	if m.elapsed > 0 {
		parts = append(parts, "decoded in "+util.FormatElapsed(m.elapsed))
	}
	return statusStyle.Render(strings.Join(parts, "  ·  "))
}

func subtitle(meta media.Metadata) string {
	switch {
	case meta.Artist != "" && meta.Album != "":
		return fmt.Sprintf("%s - %s", meta.Artist, meta.Album)
	case meta.Artist != "":
		return meta.Artist
	default:
		return meta.Album
	}
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
