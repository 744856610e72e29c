// ABOUTME: Tests for role normalization and per-role actions
// ABOUTME: Table-driven over the API spellings of each role

package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
	}{
		{"admin", Administrador},
		{"Administrador", Administrador},
		{"escuderia", Escuderia},
		{"Escuderia", Escuderia},
		{"piloto", Piloto},
		{"Piloto", Piloto},
		{"Visitante", Role("Visitante")},
		{"", Role("")},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestActions(t *testing.T) {
	assert.Equal(t, []Action{ActionReports, ActionInsertDriver, ActionInsertConstructor}, Role("admin").Actions())
	assert.Equal(t, []Action{ActionReports, ActionSearchDrivers, ActionUploadDrivers}, Escuderia.Actions())
	assert.Equal(t, []Action{ActionReports}, Piloto.Actions())
	assert.Empty(t, Role("Visitante").Actions())
}

func TestCan(t *testing.T) {
	assert.True(t, Administrador.Can(ActionInsertConstructor))
	assert.False(t, Administrador.Can(ActionUploadDrivers))
	assert.True(t, Escuderia.Can(ActionUploadDrivers))
	assert.False(t, Piloto.Can(ActionSearchDrivers))
}

func TestKnown(t *testing.T) {
	assert.True(t, Piloto.Known())
	assert.False(t, Role("admin").Known())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Relatórios", ActionReports.String())
	assert.Equal(t, "Inserir Pilotos de Arquivo", ActionUploadDrivers.String())
	assert.Equal(t, "unknown", Action(99).String())
}
