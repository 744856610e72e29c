// ABOUTME: Text formatting shared by the CLI and the TUI
// ABOUTME: Cell values, column names, user identity lines and upload messages

package present

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/gateway"
	"github.com/painel-f1/painel/internal/role"
)

// PreviewRows is how many rows the dashboard and report results show collapsed.
const PreviewRows = 5

// EmptyData is shown when a dataset has no rows.
const EmptyData = "Nenhum dado disponível"

// ExpectedCSVColumns is the header the driver upload endpoint accepts.
const ExpectedCSVColumns = "driverref,code,forename,surname,dob,nationality,number,url"

var intervalUnits = []struct {
	key    string
	suffix string
}{
	{"days", "d"},
	{"hours", "h"},
	{"minutes", "m"},
	{"seconds", "s"},
	{"milliseconds", "ms"},
}

// Cell renders a JSON value for display. Null is "-", interval objects become
// "1d 2h 3m", other objects and arrays are shown as compact JSON.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case map[string]any:
		if s, ok := interval(val); ok {
			return s
		}
		return compactJSON(val)
	default:
		return compactJSON(val)
	}
}

func interval(m map[string]any) (string, bool) {
	isInterval := false
	for _, k := range []string{"days", "hours", "minutes", "seconds"} {
		if _, ok := m[k]; ok {
			isInterval = true
		}
	}
	if !isInterval {
		return "", false
	}

	var parts []string
	for _, u := range intervalUnits {
		n, ok := m[u.key]
		if !ok || n == nil {
			continue
		}
		if f, isNum := n.(float64); isNum && f == 0 {
			continue
		}
		parts = append(parts, Cell(n)+u.suffix)
	}
	if len(parts) == 0 {
		return "0", true
	}
	return strings.Join(parts, " "), true
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Column turns a database identifier into a header: underscores become spaces.
func Column(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// Columns returns the declared columns, or the sorted keys of the first row
// when the API did not declare any.
func Columns(declared []string, rows []client.Row) []string {
	if len(declared) > 0 || len(rows) == 0 {
		return declared
	}
	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Records formats rows as string cells in column order.
func Records(columns []string, rows []client.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(columns))
		for j, col := range columns {
			rec[j] = Cell(row[col])
		}
		out[i] = rec
	}
	return out
}

// Preview returns at most PreviewRows rows.
func Preview(rows []client.Row) []client.Row {
	if len(rows) > PreviewRows {
		return rows[:PreviewRows]
	}
	return rows
}

// Identity returns the two header lines describing the logged-in user. A nil
// info falls back to "Painel <role>" built from fallbackRole.
func Identity(info *client.UserInfo, fallbackRole string) (title, subtitle string) {
	if info == nil {
		return "Painel " + string(role.Normalize(fallbackRole)), ""
	}

	switch role.Normalize(info.Tipo) {
	case role.Administrador:
		return "Administrador", "Acesso Total ao Sistema"
	case role.Piloto:
		title = orDefault(info.NomePiloto, "Piloto")
		subtitle = "Painel do Piloto"
		if info.PilotoEscuderiaAtual != "" {
			subtitle = "Última Equipe: " + info.PilotoEscuderiaAtual
		}
		return title, subtitle
	case role.Escuderia:
		title = orDefault(info.NomeEscuderia, "Escuderia")
		subtitle = "Painel da Escuderia"
		if n := info.QuantidadePilotos; n != nil {
			subtitle = fmt.Sprintf("%d Piloto", *n)
			if *n != 1 {
				subtitle += "s"
			}
		}
		return title, subtitle
	default:
		return "Painel " + string(role.Normalize(info.Tipo)), ""
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// UploadSummary describes a successful driver upload, one line per fact.
func UploadSummary(r *client.UploadResult) []string {
	lines := []string{
		r.Message,
		"",
		"Arquivo: " + orDefault(r.FileName, "arquivo"),
		"Linhas estimadas: " + humanize.Comma(int64(r.EstimatedRows)),
		"Pilotos inseridos: " + humanize.Comma(int64(r.Inserted)),
		"Registros ignorados: " + humanize.Comma(int64(r.Skipped)),
		"Método: " + orDefault(r.UploadMethod, "Upload padrão"),
		"",
	}
	if r.Inserted > 0 {
		lines = append(lines, fmt.Sprintf("Sucesso! %d piloto(s) adicionado(s) ao banco de dados.", r.Inserted))
	} else {
		lines = append(lines, "Nenhum piloto novo foi adicionado.")
	}
	return lines
}

// UploadError explains a failed driver upload by status class.
func UploadError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return Error(err)
	}
	msg := apiErr.Message
	switch apiErr.Status {
	case 409:
		return "Conflito de dados: " + msg + "\n\nAlguns pilotos podem já existir no banco de dados."
	case 400:
		if strings.Contains(msg, "format") {
			return "Formato inválido: " + msg + "\n\nVerifique se o arquivo CSV está no formato correto:\n" + ExpectedCSVColumns
		}
		return "Dados inválidos: " + msg
	case 403:
		return "Acesso negado: " + msg
	case 500:
		return "Erro do servidor: " + msg
	}
	return orDefault(msg, "Falha no upload do arquivo")
}

func transportError(te *gateway.TransportError) string {
	switch {
	case errors.Is(te.Err, context.Canceled):
		return "Erro de conexão: requisição cancelada"
	case errors.Is(te.Err, context.DeadlineExceeded):
		return "Erro de conexão: tempo de resposta esgotado"
	case te.URL != "":
		return "Erro de conexão: não foi possível acessar a API em " + te.URL
	}
	return "Erro de conexão: não foi possível acessar a API"
}

// Error turns any failure into a user-facing message.
func Error(err error) string {
	var apiErr *client.APIError
	var te *gateway.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gateway.ErrSessionExpired):
		return "Sessão expirada. Faça login novamente."
	case errors.As(err, &te):
		return transportError(te)
	case errors.As(err, &apiErr):
		prefix := ""
		switch apiErr.Kind() {
		case client.KindBadInput:
			prefix = "Dados inválidos"
		case client.KindForbidden:
			prefix = "Acesso negado"
		case client.KindConflict:
			prefix = "Conflito"
		case client.KindServer:
			prefix = "Erro do servidor"
		default:
			prefix = "Erro"
		}
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", apiErr.Status)
		}
		return prefix + ": " + msg
	default:
		return err.Error()
	}
}
