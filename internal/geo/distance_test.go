package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaamsetu/kaamsetu/internal/types"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := types.Coordinates{Latitude: 28.61, Longitude: 77.20}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_DelhiScenario(t *testing.T) {
	// Worker in central Delhi vs a job site to the northwest.
	worker := types.Coordinates{Latitude: 28.61, Longitude: 77.20}
	job := types.Coordinates{Latitude: 28.70, Longitude: 77.10}

	d := DistanceKm(worker, job)
	assert.InDelta(t, 13.4, d, 0.3)
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := types.Coordinates{Latitude: 19.07, Longitude: 72.87}
	b := types.Coordinates{Latitude: 12.97, Longitude: 77.59}
	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	// Mumbai to Bengaluru, roughly 840 km great-circle.
	mumbai := types.Coordinates{Latitude: 19.076, Longitude: 72.8777}
	bengaluru := types.Coordinates{Latitude: 12.9716, Longitude: 77.5946}
	assert.InDelta(t, 840, DistanceKm(mumbai, bengaluru), 15)
}
