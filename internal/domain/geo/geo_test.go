package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Point{Lat: 31.6295, Lng: -7.9811},
			b:         Point{Lat: 31.6295, Lng: -7.9811},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Marrakech airport to Jemaa el-Fnaa (~5km)",
			a:         Point{Lat: 31.6069, Lng: -8.0363},
			b:         Point{Lat: 31.6258, Lng: -7.9891},
			wantKm:    4.9,
			tolerance: 0.5,
		},
		{
			name:      "Marrakech to Casablanca (~195km)",
			a:         Point{Lat: 31.6295, Lng: -7.9811},
			b:         Point{Lat: 33.5731, Lng: -7.5898},
			wantKm:    219,
			tolerance: 5,
		},
		{
			name:      "New York to Los Angeles (~3936km)",
			a:         Point{Lat: 40.7128, Lng: -74.0060},
			b:         Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3936,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := Point{Lat: 31.6295, Lng: -7.9811}
	b := Point{Lat: 33.5731, Lng: -7.5898}
	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 0.0001)
}

func TestPointIsValid(t *testing.T) {
	assert.True(t, Point{Lat: 0, Lng: 0}.IsValid())
	assert.True(t, Point{Lat: -90, Lng: 180}.IsValid())
	assert.False(t, Point{Lat: 91, Lng: 0}.IsValid())
	assert.False(t, Point{Lat: 0, Lng: -181}.IsValid())
}
