package domain_test

import (
	"testing"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

func TestClassifyOccupancyBoundaries(t *testing.T) {
	cases := []struct {
		available int
		want      domain.OccupancyClass
	}{
		{8, domain.OccupancyGreen},
		{7, domain.OccupancyOrange},
		{4, domain.OccupancyOrange},
		{3, domain.OccupancyRed},
		{0, domain.OccupancyRed},
		{400, domain.OccupancyGreen},
	}

	for _, c := range cases {
		if got := domain.ClassifyOccupancy(c.available); got != c.want {
			t.Errorf("available=%d: expected %s, got %s", c.available, c.want, got)
		}
	}
}
