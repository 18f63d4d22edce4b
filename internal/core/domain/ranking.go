package domain

import (
	"sort"

	"github.com/Phoen1xxz/stillpark/internal/pkg/geospatial"
)

// tieWindowKm is the distance window within which candidate lots count
// as equally close during recommendation tie-breaks.
const tieWindowKm = 0.05

// bikeSpeedKmh is the assumed cycling speed for ETA display.
const bikeSpeedKmh = 15.0

// RankOptions carries the filter inputs of one ranking call.
type RankOptions struct {
	// Permits the user holds or has selected. Empty means no
	// restriction is applied and every lot is eligible.
	Permits []string
	// AllPermits skips the eligibility filter entirely.
	AllPermits bool
	// IncludeFull keeps lots with zero availability in the ranking.
	IncludeFull bool
	// TopN truncates the ranking when positive.
	TopN int
}

// Eligible reports whether a lot admits a user holding userPermits:
// true when the override flag is set, the user permit set is empty, or
// the two permit sets intersect.
func Eligible(lotPermits, userPermits []string, allPermits bool) bool {
	if allPermits || len(userPermits) == 0 {
		return true
	}
	for _, up := range userPermits {
		for _, lp := range lotPermits {
			if up == lp {
				return true
			}
		}
	}
	return false
}

// Rank filters lots by eligibility and availability, enriches each
// survivor with its distance from dest, and returns them closest
// first. Equal distances keep input order. The lot list is read as a
// snapshot; callers always get a fresh slice.
func Rank(dest GeoPoint, lots []ParkingLot, opts RankOptions) []RankedLot {
	ranked := make([]RankedLot, 0, len(lots))
	for _, lot := range lots {
		if !Eligible(lot.Permits, opts.Permits, opts.AllPermits) {
			continue
		}
		if lot.Available <= 0 && !opts.IncludeFull {
			continue
		}
		d := geospatial.Haversine(dest.Lat, dest.Lon, lot.Location.Lat, lot.Location.Lon)
		ranked = append(ranked, RankedLot{
			ParkingLot:  lot,
			DistanceKm:  d,
			Occupancy:   ClassifyOccupancy(lot.Available),
			BikeMinutes: BikeMinutes(d),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}
	return ranked
}

// Recommend picks at most one lot from a ranking. Candidates are the
// non-red entries in ranked order; the closest wins outright unless
// further candidates sit within the tie window, in which case greens
// beat oranges and, within a class, higher availability wins with
// distance as the final tie-break. Nil means no recommendation, a
// normal outcome.
func Recommend(ranked []RankedLot) *RankedLot {
	var candidates []RankedLot
	for _, lot := range ranked {
		if lot.Occupancy != OccupancyRed {
			candidates = append(candidates, lot)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	closest := candidates[0]
	var group []RankedLot
	for _, lot := range candidates {
		if lot.DistanceKm-closest.DistanceKm <= tieWindowKm {
			group = append(group, lot)
		}
	}
	if len(group) == 1 {
		pick := group[0]
		return &pick
	}

	for _, class := range []OccupancyClass{OccupancyGreen, OccupancyOrange} {
		var tier []RankedLot
		for _, lot := range group {
			if lot.Occupancy == class {
				tier = append(tier, lot)
			}
		}
		if len(tier) > 0 {
			pick := mostAvailable(tier)
			return &pick
		}
	}

	pick := mostAvailable(group)
	return &pick
}

// mostAvailable returns the entry with the highest availability,
// breaking ties by smallest distance.
func mostAvailable(lots []RankedLot) RankedLot {
	best := lots[0]
	for _, lot := range lots[1:] {
		if lot.Available > best.Available ||
			(lot.Available == best.Available && lot.DistanceKm < best.DistanceKm) {
			best = lot
		}
	}
	return best
}

// BikeMinutes estimates cycling time over a distance at 15 km/h.
func BikeMinutes(distanceKm float64) float64 {
	return distanceKm / bikeSpeedKmh * 60
}
