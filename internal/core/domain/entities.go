package domain

import (
	"time"
)

// ParkingLot is a parking location on or near campus.
//
// Available counts spaces currently free and may exceed Capacity; the
// value is passed through from the data source without clamping.
type ParkingLot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  GeoPoint  `json:"location"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	Permits   []string  `json:"permits"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Place is a campus gazetteer entry used to resolve search text to a
// destination coordinate.
type Place struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Location    GeoPoint `json:"location"`
	Type        string   `json:"type"`
}

// Destination is the resolved target of one search.
type Destination struct {
	Label    string   `json:"label"`
	Location GeoPoint `json:"location"`
}

// RankedLot is a ParkingLot enriched per search with its distance from
// the destination and derived display values. Never persisted.
type RankedLot struct {
	ParkingLot
	DistanceKm  float64        `json:"distance_km"`
	Occupancy   OccupancyClass `json:"occupancy"`
	BikeMinutes float64        `json:"bike_minutes"`
}

// HistoryEntry is one remembered search query.
type HistoryEntry struct {
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}

// Settings holds the permit selections and filter toggles a user has
// saved. The zero value (all false) means "no restriction applied".
type Settings struct {
	Staff          bool `json:"staff"`
	GreenCommuter  bool `json:"green_commuter"`
	SilverCommuter bool `json:"silver_commuter"`
	ResidenceHall  bool `json:"residence_hall"`
	ADA            bool `json:"ada"`
	ShowFull       bool `json:"show_full"`
	ShowNearest    bool `json:"show_nearest"`
	ShowAllPermits bool `json:"show_all_permits"`
}

// PermitSet returns the permit tags whose toggles are on, in a fixed
// order. An all-false Settings yields an empty set, which the
// eligibility filter treats as "show everything".
func (s Settings) PermitSet() []string {
	var permits []string
	if s.Staff {
		permits = append(permits, "staff")
	}
	if s.GreenCommuter {
		permits = append(permits, "green_commuter")
	}
	if s.SilverCommuter {
		permits = append(permits, "silver_commuter")
	}
	if s.ResidenceHall {
		permits = append(permits, "residence_hall")
	}
	if s.ADA {
		permits = append(permits, "ada")
	}
	return permits
}

// nearestTopN is how many lots the "show nearest" toggle keeps.
const nearestTopN = 3

// RankOptions derives the ranking inputs these settings select.
func (s Settings) RankOptions() RankOptions {
	opts := RankOptions{
		Permits:     s.PermitSet(),
		AllPermits:  s.ShowAllPermits,
		IncludeFull: s.ShowFull,
	}
	if s.ShowNearest {
		opts.TopN = nearestTopN
	}
	return opts
}

// AvailabilityUpdate sets a lot's free-space count. Published on the
// event bus and accepted on the write API.
type AvailabilityUpdate struct {
	LotID      string    `json:"lot_id"`
	Available  int       `json:"available"`
	Source     string    `json:"source,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// SearchResult is the outcome of one destination search.
type SearchResult struct {
	Destination Destination `json:"destination"`
	Lots        []RankedLot `json:"lots"`
	Recommended *RankedLot  `json:"recommendation"`
}
