package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func tempDirWith(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestPickerListsOnlyCapturableFiles(t *testing.T) {
	dir := tempDirWith(t, "b.wav", "A.mp3", "notes.txt", "clip.m4a")
	m := NewPicker(dir)
	if m.Err() != nil {
		t.Fatalf("NewPicker() error = %v", m.Err())
	}

	var names []string
	for _, item := range m.list.Items() {
		if f, ok := item.(fileItem); ok {
			names = append(names, f.name+f.ext)
		}
	}
	if len(names) != 2 || names[0] != "A.mp3" || names[1] != "b.wav" {
		t.Fatalf("listed files = %v, want [A.mp3 b.wav]", names)
	}
	if _, ok := m.list.Items()[0].(pathItem); !ok {
		t.Fatal("expected the path entry first")
	}
}

func TestPickerSelectionStoresResult(t *testing.T) {
	dir := tempDirWith(t, "tone.wav")
	m := NewPicker(dir)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(PickerModel)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(PickerModel)

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	result := m.Result()
	if result.Cancelled || result.Path != filepath.Join(dir, "tone.wav") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPickerPathEntry(t *testing.T) {
	m := NewPicker(tempDirWith(t))

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(PickerModel)
	if !m.pathMode {
		t.Fatal("expected path entry mode")
	}

	m.input.SetValue("  /music/live.flac ")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(PickerModel)
	if got := m.Result(); got.Path != "/music/live.flac" || got.Cancelled {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPickerPathEntryEscReturnsToList(t *testing.T) {
	m := NewPicker(tempDirWith(t))
	m.pathMode = true
	m.input.SetValue("x")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(PickerModel)
	if m.pathMode || m.input.Value() != "" {
		t.Fatalf("pathMode = %v, input = %q", m.pathMode, m.input.Value())
	}
	if m.result != nil {
		t.Fatal("esc in path mode should not finish")
	}
}

func TestPickerCancel(t *testing.T) {
	m := NewPicker(tempDirWith(t))
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = model.(PickerModel)
	if !m.Result().Cancelled {
		t.Fatal("expected cancelled result")
	}
}

func TestPickerMissingDir(t *testing.T) {
	m := NewPicker(filepath.Join(t.TempDir(), "gone"))
	if m.Err() == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if !m.Result().Cancelled {
		t.Fatal("expected an unfinished picker to report cancelled")
	}
}
