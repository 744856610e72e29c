// ABOUTME: Tests for the check command
// ABOUTME: Verifies verdict formatting, token clearing and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/painel-f1/painel/internal/session"
)

func TestFormatCheckHuman(t *testing.T) {
	if out := formatCheckHuman(session.Authenticated, true); !strings.Contains(out, "✓") {
		t.Errorf("expected checkmark for a valid session, got %q", out)
	}
	if out := formatCheckHuman(session.Unauthenticated, false); !strings.Contains(out, "Not logged in") {
		t.Errorf("expected not logged in, got %q", out)
	}
	if out := formatCheckHuman(session.Unauthenticated, true); !strings.Contains(out, "cleared") {
		t.Errorf("expected cleared notice, got %q", out)
	}
}

func TestFormatCheckJSON(t *testing.T) {
	output := formatCheckJSON(session.Authenticated, true)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["authenticated"] != true {
		t.Errorf("expected authenticated true, got %v", parsed["authenticated"])
	}
	if parsed["hadToken"] != true {
		t.Errorf("expected hadToken true, got %v", parsed["hadToken"])
	}
}

func TestCheckCommand_Valid(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	path := setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runCheck(context.Background(), &buf); code != exitOK {
		t.Errorf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if storedToken(t, path) != testToken {
		t.Error("expected token to be kept")
	}
}

func TestCheckCommand_RejectedClearsToken(t *testing.T) {
	api := &fakeAPI{role: "Administrador", rejected: true}
	path := setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runCheck(context.Background(), &buf); code != exitDenied {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if storedToken(t, path) != "" {
		t.Error("expected rejected token to be cleared")
	}
	if !strings.Contains(buf.String(), "cleared") {
		t.Errorf("expected cleared notice, got %q", buf.String())
	}
}

func TestCheckCommand_NoToken(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	setup(t, api, "")

	var buf bytes.Buffer
	if code := runCheck(context.Background(), &buf); code != exitDenied {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if api.checkAuth.Load() != 0 {
		t.Error("expected no request without a token")
	}
}

func TestCheckCommand_Unreachable(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	path := setup(t, api, testToken)
	apiURL = "http://127.0.0.1:1"

	var buf bytes.Buffer
	if code := runCheck(context.Background(), &buf); code != exitDenied {
		t.Errorf("expected exit code 1 when the API cannot confirm, got %d", code)
	}
	if storedToken(t, path) != "" {
		t.Error("expected token to be cleared when verification fails")
	}
}
