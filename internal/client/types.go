// ABOUTME: Request and response types for the F1 data API
// ABOUTME: Also defines APIError and its status classification

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/login
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// UserInfo describes the logged-in identity. Which fields are set depends on Tipo.
type UserInfo struct {
	Tipo string `json:"tipo"`

	// Piloto
	NomePiloto           string `json:"nomePiloto,omitempty"`
	PilotoEscuderiaAtual string `json:"pilotoEscuderiaAtual,omitempty"`

	// Escuderia
	NomeEscuderia     string `json:"nomeEscuderia,omitempty"`
	QuantidadePilotos *int   `json:"quantidadePilotos,omitempty"`
}

type userInfoResponse struct {
	UserInfo *UserInfo `json:"userInfo"`
}

// Row is one result row keyed by column name. Values keep their JSON types.
type Row map[string]any

// Record is a created entity as echoed back by the API
type Record map[string]any

// View is a named dataset. The list endpoint returns a preview in Data;
// the detail endpoint adds pagination totals.
type View struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	Data       []Row    `json:"data"`
	Error      string   `json:"error,omitempty"`
	TotalCount int      `json:"totalCount,omitempty"`
	TotalPages int      `json:"totalPages,omitempty"`
}

// ViewsResponse is returned by GET /api/views
type ViewsResponse struct {
	Views    []View `json:"views"`
	UserRole string `json:"userRole"`
}

// ViewResponse is returned by GET /api/view/:viewName
type ViewResponse struct {
	View     View   `json:"view"`
	UserRole string `json:"userRole"`
}

// DriverInput is the body of POST /api/drivers
type DriverInput struct {
	DriverRef   string `json:"driverRef"`
	Number      string `json:"number"`
	Code        string `json:"code"`
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
}

// ConstructorInput is the body of POST /api/constructors
type ConstructorInput struct {
	ConstructorRef string `json:"constructorRef"`
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	URL            string `json:"url"`
}

type driversResponse struct {
	Drivers []Row `json:"drivers"`
}

// UploadResult is returned by POST /api/upload-drivers
type UploadResult struct {
	Message       string `json:"message"`
	FileName      string `json:"fileName"`
	EstimatedRows int    `json:"estimatedRows"`
	Inserted      int    `json:"inserted"`
	Skipped       int    `json:"skipped"`
	UploadMethod  string `json:"uploadMethod"`
}

// ReportID identifies a report. The API may send it as a number or a
// string; it is echoed back exactly as received.
type ReportID struct {
	raw json.RawMessage
}

// NewReportID builds an ID from user input: digits become a JSON number,
// anything else a JSON string.
func NewReportID(s string) ReportID {
	if s != "" && json.Valid([]byte(s)) && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		return ReportID{raw: json.RawMessage(s)}
	}
	data, _ := json.Marshal(s)
	return ReportID{raw: data}
}

func (id ReportID) String() string {
	var s string
	if err := json.Unmarshal(id.raw, &s); err == nil {
		return s
	}
	return string(id.raw)
}

func (id ReportID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

func (id *ReportID) UnmarshalJSON(data []byte) error {
	id.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// ReportParam declares an input a report takes
type ReportParam struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Report is an executable report offered to the current role
type Report struct {
	ID             ReportID      `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	RequiresParams bool          `json:"requiresParams,omitempty"`
	Params         []ReportParam `json:"params,omitempty"`
}

// MissingParams returns the labels of required params absent from values.
func (r *Report) MissingParams(values map[string]string) []string {
	if !r.RequiresParams {
		return nil
	}
	var missing []string
	for _, p := range r.Params {
		if p.Required && strings.TrimSpace(values[p.Name]) == "" {
			label := p.Label
			if label == "" {
				label = p.Name
			}
			missing = append(missing, label)
		}
	}
	return missing
}

// ReportsResponse is returned by GET /api/reports
type ReportsResponse struct {
	Reports  []Report `json:"reports"`
	UserRole string   `json:"userRole"`
}

type executeRequest struct {
	ReportID ReportID          `json:"reportId"`
	Params   map[string]string `json:"params"`
}

// ReportResult is returned by POST /api/reports/execute
type ReportResult struct {
	Columns []string `json:"columns"`
	Data    []Row    `json:"data"`
}

// ErrorKind groups failing statuses the way they are reported to users
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindBadInput
	KindForbidden
	KindConflict
	KindServer
)

// APIError is a non-2xx response that did not end the session
type APIError struct {
	Status  int
	Message string
	Op      string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("API returned status %d", e.Status)
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, msg)
}

// Kind classifies the status
func (e *APIError) Kind() ErrorKind {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return KindBadInput
	case e.Status == http.StatusForbidden:
		return KindForbidden
	case e.Status == http.StatusConflict:
		return KindConflict
	case e.Status >= 500:
		return KindServer
	default:
		return KindOther
	}
}
