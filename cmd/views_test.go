// ABOUTME: Tests for the views and view commands
// ABOUTME: Verifies previews, pagination flags and expired sessions

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
)

func TestValidatePage(t *testing.T) {
	tests := []struct {
		page, limit int
		ok          bool
	}{
		{1, 10, true},
		{3, 100, true},
		{0, 10, false},
		{1, 15, false},
	}
	for _, tt := range tests {
		err := validatePage(tt.page, tt.limit)
		if (err == nil) != tt.ok {
			t.Errorf("validatePage(%d, %d) = %v, want ok=%v", tt.page, tt.limit, err, tt.ok)
		}
	}
}

func TestFormatViewsHuman_Empty(t *testing.T) {
	out := formatViewsHuman(&client.ViewsResponse{})
	if !strings.Contains(out, "No views") {
		t.Errorf("expected empty notice, got %q", out)
	}
}

func TestFormatViewsHuman_PreviewNotice(t *testing.T) {
	rows := make([]client.Row, present.PreviewRows+3)
	for i := range rows {
		rows[i] = client.Row{"n": i}
	}
	out := formatViewsHuman(&client.ViewsResponse{Views: []client.View{{Name: "vw_big", Data: rows}}})
	if !strings.Contains(out, "painel view vw_big") {
		t.Errorf("expected hint for the rest of the rows, got %q", out)
	}
}

func TestViews_ListsPreviews(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runViews(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"vw driver standings", "Ayrton Senna", "vw broken", "relation does not exist"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestViews_JSON(t *testing.T) {
	api := &fakeAPI{role: "Escuderia"}
	setup(t, api, testToken)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runViews(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var resp client.ViewsResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if resp.UserRole != "Escuderia" || len(resp.Views) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestViews_RejectedTokenIsDenied(t *testing.T) {
	api := &fakeAPI{role: "Administrador", rejected: true}
	path := setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runViews(context.Background(), &buf); code != exitDenied {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if storedToken(t, path) != "" {
		t.Error("expected token to be cleared")
	}
}

func TestView_Page(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runView(context.Background(), &buf, "vw_driver_standings", 2, 10); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Nelson Piquet") {
		t.Errorf("expected row in output:\n%s", out)
	}
	if !strings.Contains(out, "page 2 of 2") {
		t.Errorf("expected page position in output:\n%s", out)
	}
}

func TestView_InvalidLimitSkipsAPI(t *testing.T) {
	api := &fakeAPI{role: "Administrador"}
	setup(t, api, testToken)

	var buf bytes.Buffer
	if code := runView(context.Background(), &buf, "vw_driver_standings", 1, 7); code != exitError {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if api.checkAuth.Load() != 0 {
		t.Error("expected no request for invalid flags")
	}
}
