// ABOUTME: Tests for file picker TUI component
// ABOUTME: Validates navigation, selection, CSV filtering and state transitions

package filepicker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/painel-f1/painel/internal/tui/csvfiles"
)

func TestNew(t *testing.T) {
	fp := New([]string{"/path/to/file.csv"}, nil)

	if fp == nil {
		t.Fatal("New() returned nil")
	}
	if fp.state != stateList {
		t.Errorf("expected initial state stateList, got %d", fp.state)
	}
}

func TestNewWithNoRecentFiles(t *testing.T) {
	fp := New(nil, nil)

	if len(fp.recentFiles) != 0 {
		t.Errorf("expected empty recent files, got %d", len(fp.recentFiles))
	}
}

func TestNewWithFoundFiles(t *testing.T) {
	found := []csvfiles.File{
		{Name: "pilotos.csv", Path: "/dados/pilotos.csv", Size: 2048},
	}
	fp := New(nil, found)

	if fp.listItemCount() != 2 {
		t.Errorf("expected path entry plus found entry, got %d items", fp.listItemCount())
	}
}

func TestViewContainsRecentFiles(t *testing.T) {
	fp := New([]string{"/path/to/recent.csv"}, nil)
	fp.width = 80
	fp.height = 24

	view := fp.View()

	if view == "" {
		t.Error("View() returned empty string")
	}
}

func TestNavigateDown(t *testing.T) {
	fp := New([]string{"/path/to/file1.csv", "/path/to/file2.csv"}, nil)
	fp.width = 80
	fp.height = 24

	initialCursor := fp.cursor

	// Send down key
	msg := tea.KeyMsg{Type: tea.KeyDown}
	model, _ := fp.Update(msg)
	updated := model.(*FilePicker)

	if updated.cursor != initialCursor+1 {
		t.Errorf("expected cursor to move down, got %d", updated.cursor)
	}
}

func TestNavigateUp(t *testing.T) {
	fp := New([]string{"/path/to/file1.csv", "/path/to/file2.csv"}, nil)
	fp.width = 80
	fp.height = 24
	fp.cursor = 1

	// Send up key
	msg := tea.KeyMsg{Type: tea.KeyUp}
	model, _ := fp.Update(msg)
	updated := model.(*FilePicker)

	if updated.cursor != 0 {
		t.Errorf("expected cursor to move up to 0, got %d", updated.cursor)
	}
}

func TestSelectRecentFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.csv")
	os.WriteFile(testFile, []byte("driverref,code,forename,surname,dob,nationality,number,url\n"), 0644)

	fp := New([]string{testFile}, nil)
	fp.width = 80
	fp.height = 24
	fp.cursor = 0 // Select first recent file

	// Send enter key
	msg := tea.KeyMsg{Type: tea.KeyEnter}
	_, cmd := fp.Update(msg)

	if cmd == nil {
		t.Fatal("expected command to be returned")
	}

	// Execute the command to get the message
	resultMsg := cmd()
	if resultMsg == nil {
		t.Fatal("command returned nil message")
	}

	selected, ok := resultMsg.(FileSelectedMsg)
	if !ok {
		t.Fatalf("expected FileSelectedMsg, got %T", resultMsg)
	}

	if selected.Path != testFile {
		t.Errorf("expected path %s, got %s", testFile, selected.Path)
	}
	if len(selected.Data) == 0 {
		t.Error("expected file contents")
	}
}

func TestSelectRejectsNonCSV(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "drivers.json")
	os.WriteFile(testFile, []byte(`[]`), 0644)

	fp := New([]string{testFile}, nil)
	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for non-CSV file")
	}
	if fp.err == "" {
		t.Error("expected error for non-CSV file")
	}
}

func TestSelectMissingFile(t *testing.T) {
	fp := New([]string{filepath.Join(t.TempDir(), "gone.csv")}, nil)
	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for missing file")
	}
	if fp.err == "" {
		t.Error("expected not-found error")
	}
}

func TestSelectFoundFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "grid.csv")
	os.WriteFile(testFile, []byte("driverref\n"), 0644)

	fp := New(nil, []csvfiles.File{{Name: "grid.csv", Path: testFile, Size: 10}})
	fp.cursor = 1 // "Arquivos CSV encontrados..."

	fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if fp.state != stateFound {
		t.Fatalf("expected stateFound, got %d", fp.state)
	}
	if view := fp.View(); !strings.Contains(view, "grid.csv") || !strings.Contains(view, "10 B") {
		t.Errorf("expected file name and size in view:\n%s", view)
	}

	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	if selected, ok := cmd().(FileSelectedMsg); !ok || selected.Path != testFile {
		t.Errorf("expected FileSelectedMsg for %s, got %#v", testFile, cmd())
	}
}

func TestInputEmptyPath(t *testing.T) {
	fp := New(nil, nil)
	fp.state = stateInput

	fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if fp.err == "" {
		t.Error("expected error for empty path")
	}
}

func TestSelectEnterPath(t *testing.T) {
	fp := New([]string{"/path/to/file.csv"}, nil)
	fp.width = 80
	fp.height = 24
	// Move cursor to "Enter path..." option
	fp.cursor = 1 // After recent files

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	model, _ := fp.Update(msg)
	updated := model.(*FilePicker)

	if updated.state != stateInput {
		t.Errorf("expected state stateInput, got %d", updated.state)
	}
}

func TestBackFromInputReturnsToList(t *testing.T) {
	fp := New(nil, nil)
	fp.width = 80
	fp.height = 24
	fp.state = stateInput

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	model, _ := fp.Update(msg)
	updated := model.(*FilePicker)

	if updated.state != stateList {
		t.Errorf("expected state stateList after Esc, got %d", updated.state)
	}
}

func TestBackFromListReturnsCancelMsg(t *testing.T) {
	fp := New(nil, nil)
	fp.width = 80
	fp.height = 24
	fp.state = stateList

	msg := tea.KeyMsg{Type: tea.KeyEsc}
	_, cmd := fp.Update(msg)

	if cmd == nil {
		t.Fatal("expected command for cancel")
	}

	resultMsg := cmd()
	if _, ok := resultMsg.(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", resultMsg)
	}
}

func TestErrorState(t *testing.T) {
	fp := New(nil, nil)
	fp.width = 80
	fp.height = 24
	fp.SetError("Arquivo não encontrado")

	if fp.err != "Arquivo não encontrado" {
		t.Errorf("expected error message, got %s", fp.err)
	}

	view := fp.View()
	if view == "" {
		t.Error("View() should still render with error")
	}
}

func TestWindowSizeUpdate(t *testing.T) {
	fp := New(nil, nil)

	msg := tea.WindowSizeMsg{Width: 100, Height: 50}
	model, _ := fp.Update(msg)
	updated := model.(*FilePicker)

	if updated.width != 100 {
		t.Errorf("expected width 100, got %d", updated.width)
	}
	if updated.height != 50 {
		t.Errorf("expected height 50, got %d", updated.height)
	}
}

func TestViewWithZeroWidth(t *testing.T) {
	// Regression test: View() should not panic when width is 0
	// (before WindowSizeMsg is received)
	fp := New([]string{"/path/to/recent.csv"}, nil)
	// Deliberately leave width and height at 0

	// This should not panic
	view := fp.View()
	if view == "" {
		t.Error("View() returned empty string")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/Documents/test.csv", home + "/Documents/test.csv"},
		{"~", home},
		{"/absolute/path.csv", "/absolute/path.csv"},
		{"relative/path.csv", "relative/path.csv"},
		{"./local.csv", "./local.csv"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result := expandPath(tc.input)
			if result != tc.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}
