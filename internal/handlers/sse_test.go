package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
	"github.com/aymerigermain/dashboard-acadi/internal/models"
	"github.com/aymerigermain/dashboard-acadi/internal/services"
)

func newTestSSEHandlers(charges *stubCharges, refunds *stubRefunds) *SSEHandlers {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	stats := services.NewStats(charges, refunds, nil, &config.Config{}, logger)
	return NewSSEHandlers(stats, logger)
}

func TestNewSSEHandlers(t *testing.T) {
	handlers := newTestSSEHandlers(testCharges(), &stubRefunds{})

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.stats == nil {
		t.Error("NewSSEHandlers() should set stats field")
	}
	if handlers.logger == nil {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestRenderWeeklyTable(t *testing.T) {
	weekly := []models.WeeklyStat{
		{Week: "2024-03-11", Sales: 2, GrossRevenue: 249, Refunds: 20, Fees: 7.5, NetRevenue: 221.5},
		{Week: "2024-03-18", Sales: 1, GrossRevenue: 100, Fees: 3, NetRevenue: 97},
	}

	html, err := renderWeeklyTable(weekly)
	if err != nil {
		t.Fatalf("renderWeeklyTable() failed: %v", err)
	}

	expectedContent := []string{
		`<div id="weekly-content">`,
		`<table class="modern-table">`,
		"<th>Semaine</th>",
		"<th>Ventes</th>",
		"<th>CA brut</th>",
		"<th>Remboursements</th>",
		"<th>Frais</th>",
		"<th>CA net</th>",
		"2024-03-11",
		"2024-03-18",
		"249.00",
		"221.50",
		"97.00",
	}

	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}

	// Most recent week renders first.
	if strings.Index(html, "2024-03-18") > strings.Index(html, "2024-03-11") {
		t.Error("expected most recent week first")
	}
}

func TestRenderWeeklyTable_LargeDataset(t *testing.T) {
	weekly := make([]models.WeeklyStat, 80)
	for i := range weekly {
		weekly[i] = models.WeeklyStat{
			Week:         fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
			Sales:        i,
			GrossRevenue: float64(i * 10),
		}
	}

	html, err := renderWeeklyTable(weekly)
	if err != nil {
		t.Fatalf("renderWeeklyTable() failed: %v", err)
	}

	rowCount := strings.Count(html, "<tr>") - 1 // subtract header row
	if rowCount > maxWeeklyRows {
		t.Errorf("expected max %d rows, got %d", maxWeeklyRows, rowCount)
	}
}

func TestSSEHandlers_HandleWeekly(t *testing.T) {
	handlers := newTestSSEHandlers(testCharges(), &stubRefunds{})

	req := httptest.NewRequest(http.MethodGet, "/sse/weekly", nil)
	w := httptest.NewRecorder()

	handlers.HandleWeekly(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// SSE headers come from the DataStar library.
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	if body == "" {
		t.Fatal("response should not be empty")
	}
	if !strings.Contains(body, "<table") {
		t.Error("response should contain the weekly HTML table")
	}
	if !strings.Contains(body, "2024-03-11") {
		t.Error("response should contain the week keys")
	}
}

func TestSSEHandlers_HandleStats(t *testing.T) {
	handlers := newTestSSEHandlers(testCharges(), &stubRefunds{})

	req := httptest.NewRequest(http.MethodGet, "/sse/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "statsData") {
		t.Error("response should patch the statsData signal")
	}
	if !strings.Contains(body, "grossRevenue") {
		t.Error("response should contain the stats payload")
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := newTestSSEHandlers(testCharges(), &stubRefunds{})

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<table") {
		t.Error("response should contain the weekly table patch")
	}
	if !strings.Contains(body, "statsData") {
		t.Error("response should contain the stats signal patch")
	}
}

func TestSSEHandlers_UpstreamErrorProducesNoPatch(t *testing.T) {
	charges := &stubCharges{err: fmt.Errorf("stripe unavailable")}
	handlers := newTestSSEHandlers(charges, &stubRefunds{})

	req := httptest.NewRequest(http.MethodGet, "/sse/weekly", nil)
	w := httptest.NewRecorder()

	handlers.HandleWeekly(w, req)

	if strings.Contains(w.Body.String(), "<table") {
		t.Error("failed aggregation should not patch the table")
	}
}
