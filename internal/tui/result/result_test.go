// ABOUTME: Tests for the outcome view
// ABOUTME: Validates headline, detail lines and returned rows

package result

import (
	"strings"
	"testing"

	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/widgets"
)

func TestResultView(t *testing.T) {
	r := New(&Outcome{
		Title:   "Piloto inserido",
		Level:   widgets.StatusOK,
		Columns: []string{"driverref", "code"},
		Rows:    []client.Row{{"driverref": "bortoleto", "code": "BOR"}},
	}, 100)

	view := r.View()
	for _, expected := range []string{"Piloto inserido", "driverref", "bortoleto", "BOR", "voltar"} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestResultViewLines(t *testing.T) {
	r := New(&Outcome{
		Title: "Upload concluído",
		Level: widgets.StatusWarning,
		Lines: []string{"Inseridos: 2", "Erros: 1"},
	}, 100)

	view := r.View()
	if !strings.Contains(view, "Inseridos: 2") || !strings.Contains(view, "Erros: 1") {
		t.Errorf("expected detail lines in view\nView:\n%s", view)
	}
	if strings.Contains(view, present.EmptyData) {
		t.Error("expected no table without rows")
	}
}

func TestResultViewEmptyTable(t *testing.T) {
	r := New(&Outcome{Title: "Busca", Level: widgets.StatusInfo, Table: true}, 100)

	if !strings.Contains(r.View(), present.EmptyData) {
		t.Error("expected empty-state notice for an empty search")
	}
}

func TestResultViewNil(t *testing.T) {
	r := New(nil, 80)
	if !strings.Contains(r.View(), "Nenhum resultado") {
		t.Error("expected placeholder for nil outcome")
	}
}
