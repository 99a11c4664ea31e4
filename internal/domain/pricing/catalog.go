// Package pricing implements the geospatial pricing resolution engine:
// zone and route matching against an immutable catalog snapshot, and the
// waterfall that turns a pickup/dropoff pair into a priced quote.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
)

// DistanceRange is a [MinKm, MaxKm] bucket within a zone. Active ranges in
// one zone do not overlap; that is enforced by the admin service at write
// time, so matching here simply takes the first range that contains the
// distance.
type DistanceRange struct {
	ID    int64
	Name  string
	MinKm float64
	MaxKm float64
}

// Contains reports whether the distance falls inside the range. Both bounds
// are inclusive.
func (r DistanceRange) Contains(distanceKm float64) bool {
	return distanceKm >= r.MinKm && distanceKm <= r.MaxKm
}

// Zone is a circular geographic region used for intra-zone, distance-tiered
// pricing. Ranges are ordered by MinKm.
type Zone struct {
	ID                int64
	Name              string
	Slug              string
	Center            *geo.Point
	RadiusKm          float64
	DepositPercentage decimal.Decimal
	DisplayOrder      int
	Ranges            []DistanceRange
}

// Contains reports whether the point lies within the zone's radius. Zones
// without a configured center never contain anything.
func (z *Zone) Contains(p geo.Point) bool {
	if z.Center == nil {
		return false
	}
	return geo.HaversineKm(p, *z.Center) <= z.RadiusKm
}

// RangeFor returns the first range containing the distance, or nil.
func (z *Zone) RangeFor(distanceKm float64) *DistanceRange {
	for i := range z.Ranges {
		if z.Ranges[i].Contains(distanceKm) {
			return &z.Ranges[i]
		}
	}
	return nil
}

// Subzone is a smaller circular region nested inside a route's origin or
// destination area, used for fine-grained price adjustments.
type Subzone struct {
	ID           int64
	Name         string
	Center       geo.Point
	RadiusKm     float64
	DisplayOrder int
}

// Contains reports whether the point lies within the sub-zone's radius.
func (s *Subzone) Contains(p geo.Point) bool {
	return geo.HaversineKm(p, s.Center) <= s.RadiusKm
}

// Route is a predefined corridor between an origin area and a destination
// area. Bidirectional routes also match trips running destination→origin.
type Route struct {
	ID                  int64
	Name                string
	Slug                string
	OriginName          string
	Origin              geo.Point
	OriginRadiusKm      float64
	DestinationName     string
	Destination         geo.Point
	DestinationRadiusKm float64
	DistanceKm          float64
	DurationMinutes     int
	Bidirectional       bool
	DepositPercentage   decimal.Decimal
	DisplayOrder        int
	PickupZones         []Subzone
	DropoffZones        []Subzone
}

// ZonePricing is the fixed price for a vehicle within a zone distance range.
type ZonePricing struct {
	VehicleID       int64
	RangeID         int64
	Price           decimal.Decimal
	Cost            *decimal.Decimal
	Deposit         *decimal.Decimal
	MinBookingHours *int
}

// RoutePricing is the price for a vehicle on a route. The resolver only
// consults the route-wide default row (no sub-zone pinned); sub-zone
// refinements ride on it as signed adjustment amounts keyed by sub-zone ID.
type RoutePricing struct {
	VehicleID          int64
	RouteID            int64
	PickupZoneID       *int64
	DropoffZoneID      *int64
	Price              decimal.Decimal
	Cost               *decimal.Decimal
	Deposit            *decimal.Decimal
	MinBookingHours    *int
	PickupAdjustments  map[int64]decimal.Decimal
	DropoffAdjustments map[int64]decimal.Decimal
}

// IsDefault reports whether this is the route-wide default row.
func (p RoutePricing) IsDefault() bool {
	return p.PickupZoneID == nil && p.DropoffZoneID == nil
}

// VehicleCategory groups vehicles by class. The multiplier is only used by
// the advisory estimate path, never by booking-grade resolution.
type VehicleCategory struct {
	ID              int64
	Name            string
	Slug            string
	MaxPassengers   int
	MaxLuggage      int
	PriceMultiplier decimal.Decimal
	DisplayOrder    int
}

// Vehicle is a bookable vehicle in the fleet.
type Vehicle struct {
	ID         int64
	CategoryID int64
	Name       string
	Passengers int
	Luggage    int
}

// Extra is an optional add-on (child seat, meet & greet, ...). Per-item
// extras multiply by the requested quantity.
type Extra struct {
	ID      int64
	Name    string
	Price   decimal.Decimal
	PerItem bool
}
