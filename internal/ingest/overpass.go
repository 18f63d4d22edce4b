package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

const (
	defaultImportName     = "OSM Parking"
	defaultImportCapacity = 50

	// maxImportedLots caps how many export elements one run parses.
	maxImportedLots = 6

	// coordEpsilon is the duplicate threshold on each axis.
	coordEpsilon = 1e-5
)

var permitPool = []string{"staff", "green_commuter", "silver_commuter", "residence_hall"}

// overpassExport mirrors the wire shape of an Overpass API JSON export.
type overpassExport struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// coordinates returns the element position: nodes carry lat/lon
// directly, ways and relations carry a center.
func (el overpassElement) coordinates() (lat, lon float64, ok bool) {
	if el.Type == "node" {
		if el.Lat == nil || el.Lon == nil {
			return 0, 0, false
		}
		return *el.Lat, *el.Lon, true
	}
	if el.Center == nil {
		return 0, 0, false
	}
	return el.Center.Lat, el.Center.Lon, true
}

// ParseExport converts an Overpass JSON export into parking lots.
// Elements without coordinates are skipped; missing names and
// unparsable capacities fall back to defaults.
func ParseExport(data []byte) ([]domain.ParkingLot, error) {
	var export overpassExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse overpass export: %w", err)
	}

	var lots []domain.ParkingLot
	for _, el := range export.Elements {
		lat, lon, ok := el.coordinates()
		if !ok {
			continue
		}

		name := el.Tags["name"]
		if name == "" {
			name = defaultImportName
		}

		capacity := defaultImportCapacity
		if raw, ok := el.Tags["capacity"]; ok {
			if parsed, err := strconv.Atoi(raw); err == nil {
				capacity = parsed
			}
		}

		lots = append(lots, domain.ParkingLot{
			Name:      name,
			Location:  domain.GeoPoint{Lat: lat, Lon: lon},
			Capacity:  capacity,
			Available: derivedAvailable(capacity),
			Permits:   permitsForElement(el.ID),
			Source:    "overpass",
		})
		if len(lots) >= maxImportedLots {
			break
		}
	}
	return lots, nil
}

// derivedAvailable estimates free spaces for an imported lot; exports
// carry no live counts.
func derivedAvailable(capacity int) int {
	available := capacity / 10
	if available < 1 {
		available = 1
	}
	return available
}

// permitsForElement derives a stable 1-3 permit pick from the element
// id, so repeated imports of the same export agree. Imported lots are
// assumed to have ADA access.
func permitsForElement(id int64) []string {
	if id < 0 {
		id = -id
	}
	count := int(id%3) + 1
	start := int(id % int64(len(permitPool)))
	permits := make([]string, 0, count+1)
	for i := 0; i < count; i++ {
		permits = append(permits, permitPool[(start+i)%len(permitPool)])
	}
	return append(permits, "ada")
}

// Merge appends imported lots to the seed catalog, skipping imports
// that land within coordEpsilon of an existing entry on both axes.
// Seed entries win. Every merged lot without an id gets a UUID.
func Merge(seed, imported []domain.ParkingLot) []domain.ParkingLot {
	merged := make([]domain.ParkingLot, 0, len(seed)+len(imported))
	merged = append(merged, seed...)

	for _, lot := range imported {
		if hasDuplicate(merged, lot.Location) {
			continue
		}
		merged = append(merged, lot)
	}

	for i := range merged {
		if merged[i].ID == "" {
			merged[i].ID = uuid.NewString()
		}
	}
	return merged
}

func hasDuplicate(lots []domain.ParkingLot, loc domain.GeoPoint) bool {
	for _, existing := range lots {
		if math.Abs(existing.Location.Lat-loc.Lat) < coordEpsilon &&
			math.Abs(existing.Location.Lon-loc.Lon) < coordEpsilon {
			return true
		}
	}
	return false
}

// LoadSeed reads a seed catalog file.
func LoadSeed(path string) ([]domain.ParkingLot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	var lots []domain.ParkingLot
	if err := json.Unmarshal(data, &lots); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return lots, nil
}

// LoadExport reads and parses an Overpass export file.
func LoadExport(path string) ([]domain.ParkingLot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overpass export: %w", err)
	}
	return ParseExport(data)
}
