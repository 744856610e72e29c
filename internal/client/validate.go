// ABOUTME: Local validation of data entry before it is sent to the API
// ABOUTME: Every form field is required; number and date of birth are checked for shape

package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date of birth format the API accepts.
const DateLayout = "2006-01-02"

// ValidationError lists the fields that failed local checks.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) []string {
	var problems []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is required")
		}
	}
	return problems
}

// Validate checks that every field is present, the number is an integer
// and the date of birth is YYYY-MM-DD.
func (d *DriverInput) Validate() error {
	problems := requireFields(
		field{"driverRef", d.DriverRef},
		field{"number", d.Number},
		field{"code", d.Code},
		field{"forename", d.Forename},
		field{"surname", d.Surname},
		field{"dob", d.DOB},
		field{"nationality", d.Nationality},
	)
	if n := strings.TrimSpace(d.Number); n != "" {
		if _, err := strconv.Atoi(n); err != nil {
			problems = append(problems, fmt.Sprintf("number must be an integer, got %q", d.Number))
		}
	}
	if dob := strings.TrimSpace(d.DOB); dob != "" {
		if _, err := time.Parse(DateLayout, dob); err != nil {
			problems = append(problems, fmt.Sprintf("dob must be YYYY-MM-DD, got %q", d.DOB))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Validate checks that every field is present.
func (c *ConstructorInput) Validate() error {
	problems := requireFields(
		field{"constructorRef", c.ConstructorRef},
		field{"name", c.Name},
		field{"nationality", c.Nationality},
		field{"url", c.URL},
	)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
