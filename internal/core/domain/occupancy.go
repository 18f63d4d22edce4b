package domain

// OccupancyClass buckets a lot's free-space count for ranking and display.
type OccupancyClass string

const (
	OccupancyGreen  OccupancyClass = "green"
	OccupancyOrange OccupancyClass = "orange"
	OccupancyRed    OccupancyClass = "red"
)

// ClassifyOccupancy maps an available-space count to its class.
// Boundaries are exact: above 7 is green, 4 through 7 is orange,
// anything below 4 is red.
func ClassifyOccupancy(available int) OccupancyClass {
	switch {
	case available > 7:
		return OccupancyGreen
	case available >= 4:
		return OccupancyOrange
	default:
		return OccupancyRed
	}
}
