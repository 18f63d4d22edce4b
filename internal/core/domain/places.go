package domain

import "strings"

// preferredPlaceTypes are favored when no candidate's display name
// contains the query text.
var preferredPlaceTypes = map[string]bool{
	"library":         true,
	"public_building": true,
	"building":        true,
	"amenity":         true,
	"place":           true,
}

// BestPlaceMatch picks the candidate a search resolves to: the first
// whose display name contains the query (case-insensitive), else the
// first of a preferred type, else the first candidate. Returns nil for
// an empty candidate list.
func BestPlaceMatch(query string, places []Place) *Place {
	if len(places) == 0 {
		return nil
	}

	q := strings.ToLower(query)
	for i := range places {
		if strings.Contains(strings.ToLower(places[i].DisplayName), q) {
			p := places[i]
			return &p
		}
	}
	for i := range places {
		if preferredPlaceTypes[places[i].Type] {
			p := places[i]
			return &p
		}
	}
	p := places[0]
	return &p
}
