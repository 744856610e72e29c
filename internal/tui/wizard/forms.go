// ABOUTME: Wizard definitions for the data entry screens
// ABOUTME: Driver, constructor, surname search and report parameter forms

package wizard

import (
	"errors"
	"strconv"
	"time"

	"github.com/painel-f1/painel/internal/client"
)

// Wizard IDs
const (
	IDDriver       = "driver"
	IDConstructor  = "constructor"
	IDSearch       = "search"
	IDReportParams = "report-params"
)

// NewDriver collects a new driver in two steps
func NewDriver() *Wizard {
	return New(IDDriver, []Step{
		{
			Name:        "Identificação",
			Title:       "Etapa 1: Identificação",
			Description: "Referência, número e código do piloto",
			Fields: []Field{
				{Key: "driverRef", Title: "Referência", Placeholder: "ex: hamilton", CharLimit: 64, Required: true},
				{Key: "number", Title: "Número", Placeholder: "ex: 44", CharLimit: 3, Required: true, Validate: validateInteger},
				{Key: "code", Title: "Código", Placeholder: "ex: HAM", CharLimit: 3, Required: true},
			},
		},
		{
			Name:        "Dados Pessoais",
			Title:       "Etapa 2: Dados Pessoais",
			Description: "Nome, nascimento e nacionalidade",
			Fields: []Field{
				{Key: "forename", Title: "Nome", Placeholder: "ex: Lewis", Required: true},
				{Key: "surname", Title: "Sobrenome", Placeholder: "ex: Hamilton", Required: true},
				{Key: "dob", Title: "Data de Nascimento", Description: "Formato AAAA-MM-DD", Placeholder: "1985-01-07", CharLimit: 10, Required: true, Validate: validateDate},
				{Key: "nationality", Title: "Nacionalidade", Placeholder: "ex: British", Required: true},
			},
		},
	}, nil)
}

// NewConstructor collects a new constructor
func NewConstructor() *Wizard {
	return New(IDConstructor, []Step{{
		Name:  "Construtor",
		Title: "Inserir Novo Construtor",
		Fields: []Field{
			{Key: "constructorRef", Title: "Referência", Placeholder: "ex: mclaren", CharLimit: 64, Required: true},
			{Key: "name", Title: "Nome", Placeholder: "ex: McLaren", Required: true},
			{Key: "nationality", Title: "Nacionalidade", Placeholder: "ex: British", Required: true},
			{Key: "url", Title: "URL", Placeholder: "http://en.wikipedia.org/wiki/McLaren", Required: true},
		},
	}}, nil)
}

// NewSearch asks for the surname to search
func NewSearch() *Wizard {
	return New(IDSearch, []Step{{
		Name:        "Busca",
		Title:       "Buscar Pilotos por Sobrenome",
		Description: "Pilotos que já correram pela sua escuderia",
		Fields: []Field{
			{Key: "surname", Title: "Sobrenome", Placeholder: "ex: Senna", Required: true},
		},
	}}, nil)
}

// NewReportParams asks for the declared parameters of r
func NewReportParams(r *client.Report) *Wizard {
	fields := make([]Field, 0, len(r.Params))
	for _, p := range r.Params {
		title := p.Label
		if title == "" {
			title = p.Name
		}
		f := Field{
			Key:         p.Name,
			Title:       title,
			Placeholder: p.Placeholder,
			Required:    p.Required,
		}
		if p.Type == "number" {
			f.Validate = validateInteger
		}
		fields = append(fields, f)
	}

	return New(IDReportParams, []Step{{
		Name:        "Parâmetros",
		Title:       r.Name,
		Description: r.Description,
		Fields:      fields,
	}}, nil)
}

// DriverInput builds the request body from a completed driver wizard
func DriverInput(values map[string]string) *client.DriverInput {
	return &client.DriverInput{
		DriverRef:   values["driverRef"],
		Number:      values["number"],
		Code:        values["code"],
		Forename:    values["forename"],
		Surname:     values["surname"],
		DOB:         values["dob"],
		Nationality: values["nationality"],
	}
}

// ConstructorInput builds the request body from a completed constructor wizard
func ConstructorInput(values map[string]string) *client.ConstructorInput {
	return &client.ConstructorInput{
		ConstructorRef: values["constructorRef"],
		Name:           values["name"],
		Nationality:    values["nationality"],
		URL:            values["url"],
	}
}

func validateInteger(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("deve ser um número inteiro")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(client.DateLayout, s); err != nil {
		return errors.New("use o formato AAAA-MM-DD")
	}
	return nil
}
