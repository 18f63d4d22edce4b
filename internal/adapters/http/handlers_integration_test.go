//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	handler "github.com/Phoen1xxz/stillpark/internal/adapters/http"
	"github.com/Phoen1xxz/stillpark/internal/adapters/jsonstore"
	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/usecases"
)

// seedTestData writes a gazetteer file and returns a store over a temp
// dir with the campus catalog loaded.
func seedTestData(t *testing.T) (*jsonstore.Store, string) {
	t.Helper()
	dir := t.TempDir()

	places, err := json.Marshal(edmonLowPlaces())
	if err != nil {
		t.Fatalf("marshal places: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "places.json"), places, 0o644); err != nil {
		t.Fatalf("write places.json: %v", err)
	}

	store, err := jsonstore.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	lotRepo, err := jsonstore.NewLotRepo(store)
	if err != nil {
		t.Fatalf("lot repo: %v", err)
	}
	if err := lotRepo.UpsertBatch(context.Background(), campusLots()); err != nil {
		t.Fatalf("seed lots: %v", err)
	}

	return store, dir
}

// setupIntegrationDeps wires real repos over the store, no cache or bus.
func setupIntegrationDeps(t *testing.T, store *jsonstore.Store, dir string) *handler.Dependencies {
	t.Helper()

	lotRepo, err := jsonstore.NewLotRepo(store)
	if err != nil {
		t.Fatalf("lot repo: %v", err)
	}
	placeRepo, err := jsonstore.NewPlaceRepo(store)
	if err != nil {
		t.Fatalf("place repo: %v", err)
	}
	historyRepo, err := jsonstore.NewHistoryRepo(store)
	if err != nil {
		t.Fatalf("history repo: %v", err)
	}
	settingsRepo, err := jsonstore.NewSettingsRepo(store)
	if err != nil {
		t.Fatalf("settings repo: %v", err)
	}
	paramRepo, err := jsonstore.NewUserParamRepo(store)
	if err != nil {
		t.Fatalf("param repo: %v", err)
	}

	return &handler.Dependencies{
		Lots:         usecases.NewLotService(lotRepo, nil),
		Search:       usecases.NewSearchService(lotRepo, placeRepo, historyRepo, settingsRepo, nil),
		Availability: usecases.NewAvailabilityService(lotRepo, nil, nil),
		History:      usecases.NewHistoryService(historyRepo),
		Settings:     usecases.NewSettingsService(settingsRepo, paramRepo),
		DataDir:      dir,
	}
}

// TestSearchFlow_Integration runs a search against real flat-file repos
// and checks the query lands in the history file.
func TestSearchFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	store, dir := seedTestData(t)
	app := setupApp(setupIntegrationDeps(t, store, dir))

	req := httptest.NewRequest("GET", "/v1/search?q=library", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Destination domain.Destination `json:"destination"`
		Lots        []domain.RankedLot `json:"lots"`
		Recommended *domain.RankedLot  `json:"recommendation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(result.Destination.Label, "Edmon Low Library") {
		t.Errorf("unexpected destination: %s", result.Destination.Label)
	}
	if result.Recommended == nil || result.Recommended.ID != "drummond" {
		t.Errorf("expected drummond recommended, got %+v", result.Recommended)
	}

	// The search must be remembered.
	req = httptest.NewRequest("GET", "/v1/history", nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("history request: %v", err)
	}
	var entries []domain.HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "library" {
		t.Errorf("expected library in history, got %+v", entries)
	}
}

// TestAvailabilityFlow_Integration writes a count through the API and
// checks it survives a store reopen.
func TestAvailabilityFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	store, dir := seedTestData(t)
	app := setupApp(setupIntegrationDeps(t, store, dir))

	req := httptest.NewRequest("PUT", "/v1/lots/drummond/availability", strings.NewReader(`{"available": 500, "source": "sensor"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var lot domain.ParkingLot
	if err := json.NewDecoder(resp.Body).Decode(&lot); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if lot.Available != 500 {
		t.Errorf("expected available 500 unclamped, got %d", lot.Available)
	}

	// Fresh store over the same dir sees the write.
	reopened, err := jsonstore.Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	lotRepo, err := jsonstore.NewLotRepo(reopened)
	if err != nil {
		t.Fatalf("lot repo: %v", err)
	}
	persisted, err := lotRepo.GetByID(context.Background(), "drummond")
	if err != nil {
		t.Fatalf("get lot: %v", err)
	}
	if persisted.Available != 500 {
		t.Errorf("expected persisted available 500, got %d", persisted.Available)
	}
}

// TestSettingsFlow_Integration saves settings through the API and reads
// them back through a second app over the same data dir.
func TestSettingsFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	store, dir := seedTestData(t)
	app := setupApp(setupIntegrationDeps(t, store, dir))

	req := httptest.NewRequest("PUT", "/v1/settings", strings.NewReader(`{"silver_commuter": true, "show_nearest": true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	reopened, err := jsonstore.Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	app2 := setupApp(setupIntegrationDeps(t, reopened, dir))

	req = httptest.NewRequest("GET", "/v1/settings", nil)
	resp, err = app2.Test(req, -1)
	if err != nil {
		t.Fatalf("settings request: %v", err)
	}
	var settings domain.Settings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if !settings.SilverCommuter || !settings.ShowNearest {
		t.Errorf("expected saved settings, got %+v", settings)
	}
	if settings.Staff {
		t.Error("expected unset toggles to stay false")
	}

	// Saved settings now drive the ranking: the silver_commuter selection
	// drops the lot that only takes staff and green_commuter.
	req = httptest.NewRequest("GET", "/v1/recommendations?lat=36.1232&lon=-97.0697", nil)
	resp, err = app2.Test(req, -1)
	if err != nil {
		t.Fatalf("recommendations request: %v", err)
	}
	var result struct {
		Lots []domain.RankedLot `json:"lots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(result.Lots) != 2 {
		t.Fatalf("expected 2 silver_commuter lots, got %d", len(result.Lots))
	}
	for _, lot := range result.Lots {
		if lot.ID == "physci" {
			t.Error("expected physci filtered out by saved permits")
		}
	}
}
