package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
	"github.com/aymerigermain/dashboard-acadi/internal/models"
	"github.com/aymerigermain/dashboard-acadi/internal/providers"
	"github.com/aymerigermain/dashboard-acadi/internal/server"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
)

type stubCharges struct {
	charges []models.Charge
}

func (s *stubCharges) ListCharges(context.Context, string, providers.ChargeFilters) (providers.ChargePage, error) {
	return providers.ChargePage{Charges: s.charges}, nil
}

type stubRefunds struct{}

func (stubRefunds) ListRefunds(context.Context, string) (providers.RefundPage, error) {
	return providers.RefundPage{}, nil
}

// Test helper wiring the stats service with stub providers.
func newTestStats(logger *slog.Logger) *services.Stats {
	charges := &stubCharges{charges: []models.Charge{
		{ID: "ch_1", Amount: 15000, Currency: "eur", Status: models.ChargeSucceeded, Created: time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC).Unix()},
		{ID: "ch_2", Amount: 9900, Currency: "eur", Status: models.ChargeSucceeded, Created: time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC).Unix()},
	}}
	return services.NewStats(charges, stubRefunds{}, nil, &config.Config{}, logger)
}

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(newTestStats(logger), logger, templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/stats", http.StatusOK, "application/json"},
		{"/api/payments", http.StatusOK, "application/json"},
		{"/sse/stats", http.StatusOK, "text/event-stream"},
		{"/sse/weekly", http.StatusOK, "text/event-stream"},
		{"/sse/refresh-all", http.StatusOK, "text/event-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("expected content-type to contain %q, got %q", tt.contentType, ct)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	paths := []string{"/api/stats", "/api/payments", "/api/health", "/sse/weekly"}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
			}
		})
	}
}

func TestHandleDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected content-type to contain 'text/html', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
		t.Errorf("expected cache-control %q, got %q", cacheMaxAge, cc)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Dashboard Acadi") {
		t.Error("expected dashboard title in the rendered page")
	}
	if !strings.Contains(body, "weekly-content") {
		t.Error("expected weekly table mount point in the page")
	}
	if !strings.Contains(body, "/sse/refresh-all") {
		t.Error("expected the page to load data via the refresh endpoint")
	}
}

func TestServer_StatsEndpointPayload(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected stats object in response")
	}
	if gross, ok := data["grossRevenue"].(float64); !ok || gross != 249 {
		t.Errorf("grossRevenue = %v, want 249", data["grossRevenue"])
	}
	if customers, ok := data["totalCustomers"].(float64); !ok || customers != 2 {
		t.Errorf("totalCustomers = %v, want 2", data["totalCustomers"])
	}
}

func TestServer_PaymentsEndpointPayload(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].([]interface{})
	if !ok {
		t.Fatal("expected payments array in response")
	}
	if len(data) != 2 {
		t.Errorf("expected 2 payments, got %d", len(data))
	}
}
