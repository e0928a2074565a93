package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lnmedico/lnmedico-backend/internal/collections"
	"github.com/lnmedico/lnmedico-backend/internal/dashboard"
	"github.com/lnmedico/lnmedico-backend/internal/inventory"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	"github.com/lnmedico/lnmedico-backend/internal/prescriptions"
	"github.com/lnmedico/lnmedico-backend/internal/reports"
	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/metrics"
	"github.com/lnmedico/lnmedico-backend/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	repo, err := collections.NewRepository(backend)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	reg := prometheus.NewRegistry()
	now := func() time.Time { return time.Date(2024, 5, 10, 14, 3, 9, 0, time.UTC) }

	inventorySvc, err := inventory.NewService(inventory.ServiceParams{Repo: repo, Logger: logg, Now: now})
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	patientSvc, err := patients.NewService(patients.ServiceParams{Repo: repo, Logger: logg, Now: now})
	if err != nil {
		t.Fatalf("patients: %v", err)
	}
	rxSvc, err := prescriptions.NewService(prescriptions.ServiceParams{Repo: repo, Logger: logg, Metrics: metrics.NewDispenseMetrics(reg), Now: now})
	if err != nil {
		t.Fatalf("prescriptions: %v", err)
	}
	dashSvc, err := dashboard.NewService(repo)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	gen := reports.NewGenerator(reports.BrandingFromConfig(cfg.Report), now)

	srv := httptest.NewServer(NewRouter(cfg, logg, repo, reg, inventorySvc, patientSvc, rxSvc, dashSvc, gen))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/pdf") && !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("expected pdf body for %s", path)
	}
	return resp, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/health/live", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected live 200, got %d", resp.StatusCode)
	}
	resp, body := do(t, srv, http.MethodGet, "/health/ready", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", resp.StatusCode)
	}
	if data := body["data"].(map[string]any); data["storage"] != "file" {
		t.Fatalf("unexpected readiness payload %v", data)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestDispensingFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/medicines", `{"id":"1","name":"Paracetamol","quantity":10,"price":"2.50"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create medicine: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/patients", `{"id":"5","name":"Asha","age":34,"gender":"Female"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create patient: %d", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodPost, "/api/v1/patients/5/prescriptions", `{"items":[{"medicine_id":"1","quantity":3}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create prescription: %d %v", resp.StatusCode, body)
	}
	rx := body["data"].(map[string]any)
	rxID := rx["id"].(string)
	if rx["receipt_no"] != "LNM-20240510140309" {
		t.Fatalf("unexpected receipt %v", rx["receipt_no"])
	}

	_, body = do(t, srv, http.MethodGet, "/api/v1/medicines/1", "")
	med := body["data"].(map[string]any)
	if med["quantity"].(float64) != 7 || med["low_stock"] != true {
		t.Fatalf("unexpected medicine after dispensing %v", med)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/v1/patients/5/prescriptions", `{"items":[{"medicine_id":"1","quantity":20}]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity || errorCode(body) != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected insufficient stock, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/v1/patients/5/prescriptions", `{"items":[{"medicine_id":"99","quantity":1}]}`)
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Fatalf("expected not found, got %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/patients/5/prescriptions", `{"items":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", resp.StatusCode)
	}

	_, body = do(t, srv, http.MethodGet, "/api/v1/patients/5/prescriptions", "")
	if history := body["data"].([]any); len(history) != 1 {
		t.Fatalf("expected one prescription in history, got %d", len(history))
	}

	_, body = do(t, srv, http.MethodGet, "/api/v1/dashboard", "")
	summary := body["data"].(map[string]any)
	if summary["total_prescriptions"].(float64) != 1 || summary["inventory_value"] != "17.5" {
		t.Fatalf("unexpected summary %v", summary)
	}

	for _, path := range []string{
		"/api/v1/patients/5/prescriptions/" + rxID + "/pdf",
		"/api/v1/patients/5/history.pdf",
		"/api/v1/reports/inventory.pdf",
		"/api/v1/reports/patients.pdf",
	} {
		resp, _ := do(t, srv, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
			t.Fatalf("%s: unexpected response %d %s", path, resp.StatusCode, resp.Header.Get("Content-Type"))
		}
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/patients/5/prescriptions/missing/pdf", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown prescription, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: %d", resp.StatusCode)
	}
}

func TestCRUDErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/medicines", `{"name":"Paracetamol","quantity":-1,"price":1}`)
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %d %v", resp.StatusCode, body)
	}

	do(t, srv, http.MethodPost, "/api/v1/medicines", `{"id":"1","name":"Paracetamol","quantity":10,"price":1}`)
	resp, body = do(t, srv, http.MethodPost, "/api/v1/medicines", `{"id":"1","name":"Other","quantity":1,"price":1}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodPatch, "/api/v1/medicines/1", `{"quantity":-5}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", resp.StatusCode)
	}
	_, body = do(t, srv, http.MethodGet, "/api/v1/medicines/1", "")
	if body["data"].(map[string]any)["quantity"].(float64) != 10 {
		t.Fatal("quantity changed after rejected update")
	}

	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/medicines/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/medicines/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/patients", `{"name":"Asha","age":130,"gender":"Female"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for age, got %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodGet, "/api/v1/patients/unknown", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
