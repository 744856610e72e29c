// ABOUTME: User roles reported by the data API and the actions each one offers
// ABOUTME: Normalizes API spellings to the canonical display names

package role

import "strings"

// Role is the API's classification of the logged-in user.
type Role string

const (
	Administrador Role = "Administrador"
	Escuderia     Role = "Escuderia"
	Piloto        Role = "Piloto"
)

// Normalize maps the spellings the API uses to a canonical Role.
// Unrecognized values pass through untouched.
func Normalize(s string) Role {
	switch strings.TrimSpace(s) {
	case "admin", "Administrador":
		return Administrador
	case "escuderia", "Escuderia":
		return Escuderia
	case "piloto", "Piloto":
		return Piloto
	default:
		return Role(s)
	}
}

// Known reports whether r is one of the three roles.
func (r Role) Known() bool {
	return r == Administrador || r == Escuderia || r == Piloto
}

// Action is something the dashboard offers.
type Action int

const (
	ActionReports Action = iota
	ActionInsertDriver
	ActionInsertConstructor
	ActionSearchDrivers
	ActionUploadDrivers
)

// String returns the label shown in menus.
func (a Action) String() string {
	switch a {
	case ActionReports:
		return "Relatórios"
	case ActionInsertDriver:
		return "Inserir Novo Piloto"
	case ActionInsertConstructor:
		return "Inserir Novo Construtor"
	case ActionSearchDrivers:
		return "Buscar Pilotos por Sobrenome"
	case ActionUploadDrivers:
		return "Inserir Pilotos de Arquivo"
	default:
		return "unknown"
	}
}

// Actions lists what r may do, in display order. Unknown roles get nothing.
func (r Role) Actions() []Action {
	switch Normalize(string(r)) {
	case Administrador:
		return []Action{ActionReports, ActionInsertDriver, ActionInsertConstructor}
	case Escuderia:
		return []Action{ActionReports, ActionSearchDrivers, ActionUploadDrivers}
	case Piloto:
		return []Action{ActionReports}
	default:
		return nil
	}
}

// Can reports whether a is among r's actions.
func (r Role) Can(a Action) bool {
	for _, allowed := range r.Actions() {
		if allowed == a {
			return true
		}
	}
	return false
}
