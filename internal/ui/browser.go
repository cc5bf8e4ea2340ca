package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavy/internal/media"
	"github.com/olivier-w/wavy/internal/util"
)

// BrowserSelectedMsg is sent when the user picks a file or enters a URL.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent when the user leaves the browser.
type BrowserCancelledMsg struct{}

type fileItem struct {
	name string
	ext  string
	size int64
}

func (i fileItem) Title() string { return i.name }
func (i fileItem) Description() string {
	return fmt.Sprintf("%s  %s", strings.TrimPrefix(i.ext, "."), util.FormatSize(i.size))
}
func (i fileItem) FilterValue() string { return i.name }

type dirItem struct {
	name string
}

func (i dirItem) Title() string       { return i.name + "/" }
func (i dirItem) Description() string { return "directory" }
func (i dirItem) FilterValue() string { return i.name }

type urlItem struct{}

func (i urlItem) Title() string       { return "Open URL..." }
func (i urlItem) Description() string { return "fetch audio over http(s)" }
func (i urlItem) FilterValue() string { return "url" }

// BrowserModel lists the audio files of a directory. It reports the outcome
// with BrowserSelectedMsg or BrowserCancelledMsg instead of quitting.
type BrowserModel struct {
	dir     string
	list    list.Model
	input   textinput.Model
	urlMode bool
	err     error
}

// NewBrowser creates a browser scanning dir.
func NewBrowser(dir string) BrowserModel {
	ti := textinput.New()
	ti.Placeholder = "https://..."
	ti.CharLimit = 2048
	ti.Width = 60

	m := BrowserModel{input: ti}
	m.load(dir)
	return m
}

func (m *BrowserModel) load(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		m.err = fmt.Errorf("cannot read directory: %w", err)
		return
	}
	m.dir = abs
	m.err = nil

	items := []list.Item{urlItem{}}
	if parent := filepath.Dir(abs); parent != abs {
		items = append(items, dirItem{name: ".."})
	}

	var dirs, files []list.Item
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, dirItem{name: e.Name()})
			continue
		}
		ext := media.ExtOf(e.Name())
		if !media.IsSupportedExt(ext) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, fileItem{
			name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			ext:  filepath.Ext(e.Name()),
			size: size,
		})
	}
	byTitle := func(items []list.Item) {
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].FilterValue()) < strings.ToLower(items[j].FilterValue())
		})
	}
	byTitle(dirs)
	byTitle(files)
	items = append(items, files...)
	items = append(items, dirs...)

	width, height := 80, 20
	if m.list.Width() > 0 {
		width, height = m.list.Width(), m.list.Height()
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#1976D2", Dark: "#64B5F6"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#1976D2", Dark: "#64B5F6"})

	l := list.New(items, delegate, width, height)
	l.Title = "wavy  " + abs
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	m.list = l
}

// Dir returns the directory being listed.
func (m BrowserModel) Dir() string { return m.dir }

// HasError returns true if the directory could not be read.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the scan error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("wavy")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.urlMode {
		return m.updateURLInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case urlItem:
				m.urlMode = true
				return m, tea.Batch(m.input.Focus(), tea.SetWindowTitle("wavy - enter URL"))
			case dirItem:
				m.load(filepath.Join(m.dir, item.name))
				return m, nil
			case fileItem:
				path := filepath.Join(m.dir, item.name+item.ext)
				return m, selectCmd(path)
			}
		case "backspace":
			m.load(filepath.Dir(m.dir))
			return m, nil
		case "q", "esc", "ctrl+c":
			return m, cancelCmd
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateURLInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			url := strings.TrimSpace(m.input.Value())
			if url != "" {
				return m, selectCmd(url)
			}
		case "esc":
			m.urlMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("wavy")
		case "ctrl+c":
			return m, cancelCmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "\n  " + headerStyle.Render("wavy") + "\n\n  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	if m.urlMode {
		s := "\n"
		s += "  " + headerStyle.Render("wavy") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Enter URL:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}

func selectCmd(path string) tea.Cmd {
	return func() tea.Msg { return BrowserSelectedMsg{Path: path} }
}

func cancelCmd() tea.Msg { return BrowserCancelledMsg{} }
