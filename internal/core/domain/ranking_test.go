package domain_test

import (
	"math"
	"testing"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

var union = domain.GeoPoint{Lat: 36.1224, Lon: -97.0698}

// lotNorthOf places a lot due north of dest at an exact great-circle
// distance, which keeps the expected rank distances readable.
func lotNorthOf(dest domain.GeoPoint, km float64, name string, available int, permits ...string) domain.ParkingLot {
	dLat := km / 6371.0 * 180 / math.Pi
	return domain.ParkingLot{
		ID:        name,
		Name:      name,
		Location:  domain.GeoPoint{Lat: dest.Lat + dLat, Lon: dest.Lon},
		Capacity:  100,
		Available: available,
		Permits:   permits,
	}
}

func TestRank_SortedByDistance(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 1.8, "far", 20),
		lotNorthOf(union, 0.3, "near", 10),
		lotNorthOf(union, 0.9, "mid", 15),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{})
	if len(ranked) != 3 {
		t.Fatalf("expected 3 lots, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceKm < ranked[i-1].DistanceKm {
			t.Errorf("ranking not sorted at %d: %f < %f", i, ranked[i].DistanceKm, ranked[i-1].DistanceKm)
		}
	}
	if ranked[0].Name != "near" || ranked[2].Name != "far" {
		t.Errorf("unexpected order: %s %s %s", ranked[0].Name, ranked[1].Name, ranked[2].Name)
	}
}

func TestRank_Idempotent(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.7, "a", 8),
		lotNorthOf(union, 0.2, "b", 5),
	}

	first := domain.Rank(union, lots, domain.RankOptions{})
	second := domain.Rank(union, lots, domain.RankOptions{})
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].DistanceKm != second[i].DistanceKm {
			t.Errorf("entry %d differs between runs", i)
		}
	}
}

func TestRank_StableOnEqualDistance(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.5, "first", 10),
		lotNorthOf(union, 0.5, "second", 10),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 lots, got %d", len(ranked))
	}
	if ranked[0].Name != "first" || ranked[1].Name != "second" {
		t.Errorf("equal distances must keep input order, got %s then %s", ranked[0].Name, ranked[1].Name)
	}
}

func TestRank_ExcludesFullLotsByDefault(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.4, "full", 0),
		lotNorthOf(union, 0.8, "open", 6),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{})
	if len(ranked) != 1 || ranked[0].Name != "open" {
		t.Fatalf("expected only the open lot, got %d entries", len(ranked))
	}

	withFull := domain.Rank(union, lots, domain.RankOptions{IncludeFull: true})
	if len(withFull) != 2 {
		t.Fatalf("expected both lots with IncludeFull, got %d", len(withFull))
	}
	if withFull[0].Name != "full" {
		t.Errorf("expected the closer full lot first, got %s", withFull[0].Name)
	}
}

func TestRank_TopNTruncates(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.3, "a", 9),
		lotNorthOf(union, 0.6, "b", 9),
		lotNorthOf(union, 0.9, "c", 9),
		lotNorthOf(union, 1.2, "d", 9),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{TopN: 3})
	if len(ranked) != 3 {
		t.Fatalf("expected 3 lots, got %d", len(ranked))
	}
	if ranked[2].Name != "c" {
		t.Errorf("expected c last after truncation, got %s", ranked[2].Name)
	}
}

func TestRank_PermitFiltering(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.3, "staff-only", 10, "staff"),
		lotNorthOf(union, 0.5, "residence", 10, "residence_hall"),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{Permits: []string{"staff"}})
	if len(ranked) != 1 || ranked[0].Name != "staff-only" {
		t.Fatalf("expected only the staff lot, got %d entries", len(ranked))
	}

	all := domain.Rank(union, lots, domain.RankOptions{Permits: []string{"ada"}, AllPermits: true})
	if len(all) != 2 {
		t.Errorf("expected override to keep both lots, got %d", len(all))
	}
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := domain.Rank(union, nil, domain.RankOptions{})
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %d", len(ranked))
	}
	if rec := domain.Recommend(ranked); rec != nil {
		t.Errorf("expected no recommendation, got %s", rec.Name)
	}
}

func TestEligible_EmptyUserSetAdmitsEverything(t *testing.T) {
	if !domain.Eligible([]string{"staff"}, nil, false) {
		t.Error("empty user permit set must admit a restricted lot")
	}
	if !domain.Eligible(nil, nil, false) {
		t.Error("empty user permit set must admit an unrestricted lot")
	}
}

func TestEligible_Intersection(t *testing.T) {
	lot := []string{"staff", "silver_commuter"}
	if !domain.Eligible(lot, []string{"silver_commuter"}, false) {
		t.Error("overlapping permit sets must be eligible")
	}
	if domain.Eligible(lot, []string{"residence_hall"}, false) {
		t.Error("disjoint permit sets must not be eligible")
	}
	if !domain.Eligible(lot, []string{"residence_hall"}, true) {
		t.Error("override flag must admit any lot")
	}
}

func TestRecommend_ClosestWinsOutsideTieWindow(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.40, "near", 5),
		lotNorthOf(union, 0.80, "far", 30),
	}

	rec := domain.Recommend(domain.Rank(union, lots, domain.RankOptions{}))
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Name != "near" {
		t.Errorf("expected near, got %s", rec.Name)
	}
}

func TestRecommend_TieWindowPrefersAvailability(t *testing.T) {
	// Both green, 40 m apart: within the 0.05 km window the higher
	// availability wins even though it is farther.
	lots := []domain.ParkingLot{
		lotNorthOf(union, 1.000, "nine", 9),
		lotNorthOf(union, 1.040, "twelve", 12),
	}

	rec := domain.Recommend(domain.Rank(union, lots, domain.RankOptions{}))
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Name != "twelve" {
		t.Errorf("expected the availability-12 lot, got %s", rec.Name)
	}
}

func TestRecommend_GreenBeatsOrangeInTieWindow(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.500, "orange", 7),
		lotNorthOf(union, 0.530, "green", 8),
	}

	rec := domain.Recommend(domain.Rank(union, lots, domain.RankOptions{}))
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Name != "green" {
		t.Errorf("expected the green lot, got %s", rec.Name)
	}
}

func TestRecommend_RedExcludedFromCandidates(t *testing.T) {
	// The closer lot is red, so the orange one is the closest
	// candidate even though the 0.1 km gap exceeds the tie window.
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.5, "red", 2),
		lotNorthOf(union, 0.6, "orange", 5),
	}

	rec := domain.Recommend(domain.Rank(union, lots, domain.RankOptions{}))
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Name != "orange" {
		t.Errorf("expected the orange lot, got %s", rec.Name)
	}
}

func TestRecommend_SingleRedLot(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.3, "red", 3),
	}

	ranked := domain.Rank(union, lots, domain.RankOptions{})
	if len(ranked) != 1 {
		t.Fatalf("expected the red lot ranked, got %d entries", len(ranked))
	}
	if rec := domain.Recommend(ranked); rec != nil {
		t.Errorf("expected no recommendation, got %s", rec.Name)
	}
}

func TestRecommend_AvailabilityTieFallsBackToDistance(t *testing.T) {
	lots := []domain.ParkingLot{
		lotNorthOf(union, 0.500, "closer", 9),
		lotNorthOf(union, 0.540, "farther", 9),
	}

	rec := domain.Recommend(domain.Rank(union, lots, domain.RankOptions{}))
	if rec == nil {
		t.Fatal("expected a recommendation")
	}
	if rec.Name != "closer" {
		t.Errorf("expected the closer lot on equal availability, got %s", rec.Name)
	}
}

func TestBikeMinutes(t *testing.T) {
	// 15 km/h means one kilometer takes four minutes.
	if got := domain.BikeMinutes(1.0); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("expected 4 minutes for 1 km, got %f", got)
	}
	if got := domain.BikeMinutes(0); got != 0 {
		t.Errorf("expected 0 minutes for 0 km, got %f", got)
	}
}

func TestSettingsPermitSet(t *testing.T) {
	var s domain.Settings
	if got := s.PermitSet(); len(got) != 0 {
		t.Fatalf("expected empty permit set, got %v", got)
	}

	s.Staff = true
	s.ADA = true
	got := s.PermitSet()
	if len(got) != 2 || got[0] != "staff" || got[1] != "ada" {
		t.Errorf("unexpected permit set %v", got)
	}
}
