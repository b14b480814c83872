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

	"github.com/olivier-w/specgram/internal/capture"
)

// PickResult is the outcome of the source picker.
type PickResult struct {
	Path      string
	Cancelled bool
}

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string       { return i.name }
func (i fileItem) Description() string { return i.ext }
func (i fileItem) FilterValue() string { return i.name }

type pathItem struct{}

func (pathItem) Title() string       { return "Open path..." }
func (pathItem) Description() string { return "type the path of an audio file" }
func (pathItem) FilterValue() string { return "path" }

// PickerModel lists capturable audio files in a directory.
type PickerModel struct {
	dir      string
	list     list.Model
	input    textinput.Model
	pathMode bool
	result   *PickResult
	err      error
}

// NewPicker scans dir for files the capture source can decode.
func NewPicker(dir string) PickerModel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return PickerModel{dir: dir, err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var files []fileItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !capture.IsSupportedExt(ext) {
			continue
		}
		files = append(files, fileItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext})
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
	})

	items := []list.Item{pathItem{}}
	for _, f := range files {
		items = append(items, f)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "specgram"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "path/to/audio" + " (" + capture.SupportedExtsList() + ")"
	ti.CharLimit = 4096
	ti.Width = 60

	return PickerModel{dir: dir, list: l, input: ti}
}

// Err returns the scan error, if any.
func (m PickerModel) Err() error { return m.err }

// Result returns the picker outcome after the program finishes.
func (m PickerModel) Result() PickResult {
	if m.result != nil {
		return *m.result
	}
	return PickResult{Cancelled: true}
}

func (m PickerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("specgram")
}

func (m PickerModel) finish(r PickResult) (PickerModel, tea.Cmd) {
	m.result = &r
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, textinput.Blink
			case fileItem:
				return m.finish(PickResult{Path: filepath.Join(m.dir, item.name+item.ext)})
			}
		case "q", "esc", "ctrl+c":
			return m.finish(PickResult{Cancelled: true})
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

func (m PickerModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if path := strings.TrimSpace(m.input.Value()); path != "" {
				return m.finish(PickResult{Path: path})
			}
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			return m.finish(PickResult{Cancelled: true})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	if !m.pathMode {
		return m.list.View()
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("specgram") + "\n\n")
	b.WriteString("  " + statusStyle.Render("Audio file:") + "\n")
	b.WriteString("  " + m.input.View() + "\n\n")
	b.WriteString("  " + timeStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n")
	return b.String()
}
