// ABOUTME: Fake data API shared by the command tests
// ABOUTME: Points the global flags at an httptest server and a temp token file

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const testToken = "abc123"

type fakeAPI struct {
	role     string
	rejected bool

	checkAuth atomic.Int32
	executed  atomic.Value // last execute request body
	uploaded  atomic.Value // last uploaded file name
}

func (f *fakeAPI) authorized(w http.ResponseWriter, r *http.Request) bool {
	if f.rejected || r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token inválido"}`))
		return false
	}
	return true
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Credenciais inválidas"}`))
			return
		}
		w.Write([]byte(`{"message":"Login realizado","token":"` + testToken + `"}`))
	})
	mux.HandleFunc("/check-auth", func(w http.ResponseWriter, r *http.Request) {
		f.checkAuth.Add(1)
		if !f.authorized(w, r) {
			return
		}
		w.Write([]byte(`{"isAuthenticated":true}`))
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"bye"}`))
	})
	mux.HandleFunc("/api/user-info", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		w.Write([]byte(`{"userInfo":{"tipo":"` + f.role + `","nomeEscuderia":"McLaren","quantidadePilotos":2}}`))
	})
	mux.HandleFunc("/api/views", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		w.Write([]byte(`{"userRole":"` + f.role + `","views":[
			{"name":"vw_driver_standings","columns":["driver_name","points"],"data":[{"driver_name":"Ayrton Senna","points":94}]},
			{"name":"vw_broken","error":"relation does not exist"}]}`))
	})
	mux.HandleFunc("/api/view/vw_driver_standings", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("limit") != "10" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"userRole":"` + f.role + `","view":{"name":"vw_driver_standings","columns":["driver_name"],
			"data":[{"driver_name":"Nelson Piquet"}],"totalCount":11,"totalPages":2}}`))
	})
	mux.HandleFunc("/api/search-drivers", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		if r.URL.Query().Get("surname") == "Norris" {
			w.Write([]byte(`{"drivers":[{"forename":"Lando","surname":"Norris"}]}`))
			return
		}
		w.Write([]byte(`{"drivers":[]}`))
	})
	mux.HandleFunc("/api/drivers", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Piloto já existe"}`))
	})
	mux.HandleFunc("/api/upload-drivers", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.uploaded.Store(header.Filename)
		w.Write([]byte(`{"message":"Upload concluído","fileName":"pilotos.csv","estimatedRows":2,"inserted":2,"skipped":0}`))
	})
	mux.HandleFunc("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		w.Write([]byte(`{"userRole":"` + f.role + `","reports":[
			{"id":1,"name":"Status dos resultados"},
			{"id":"aeroportos","name":"Aeroportos próximos","requiresParams":true,
			 "params":[{"name":"cidade","label":"Cidade","required":true}]}]}`))
	})
	mux.HandleFunc("/api/reports/execute", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.executed.Store(body)
		w.Write([]byte(`{"columns":["status","count"],"data":[{"status":"Finished","count":12}]}`))
	})
	return mux
}

// setup starts the fake API and points the command flags at it. token, when
// not empty, is written to the token file first.
func setup(t *testing.T, api *fakeAPI, token string) string {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if token != "" {
		if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv("PAINEL_CONFIG_DIR", dir)
	t.Setenv("PAINEL_HTTP_TIMEOUT", "")
	apiURL = server.URL
	tokenFile = path
	jsonOutput = false
	ephemeral = false
	t.Cleanup(func() {
		apiURL = ""
		tokenFile = ""
		jsonOutput = false
	})
	return path
}

func storedToken(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
