package pricing

import "github.com/atlas-transfers/service-pricing/internal/domain/geo"

// RouteMatch is the outcome of matching a pickup/dropoff pair against the
// route list. When Reversed is true the trip runs destination→origin and the
// sub-zone roles are already swapped: PickupSubzone comes from the route's
// dropoff-zone set and vice versa.
type RouteMatch struct {
	Route          *Route
	PickupSubzone  *Subzone
	DropoffSubzone *Subzone
	Reversed       bool
}

// FindZone returns the first zone in priority order whose radius contains the
// point, or nil. Overlapping zones are allowed; the priority order decides.
func (s *Snapshot) FindZone(p geo.Point) *Zone {
	for i := range s.zones {
		if s.zones[i].Contains(p) {
			return &s.zones[i]
		}
	}
	return nil
}

// FindRoute returns the first route in priority order whose origin and
// destination areas contain the pickup and dropoff points. Bidirectional
// routes are also checked in reverse. Returns false when no route matches.
func (s *Snapshot) FindRoute(pickup, dropoff geo.Point) (RouteMatch, bool) {
	for i := range s.routes {
		r := &s.routes[i]

		originDist := geo.HaversineKm(pickup, r.Origin)
		destDist := geo.HaversineKm(dropoff, r.Destination)
		if originDist <= r.OriginRadiusKm && destDist <= r.DestinationRadiusKm {
			return RouteMatch{
				Route:          r,
				PickupSubzone:  findSubzone(pickup, r.PickupZones),
				DropoffSubzone: findSubzone(dropoff, r.DropoffZones),
			}, true
		}

		if !r.Bidirectional {
			continue
		}
		revOriginDist := geo.HaversineKm(pickup, r.Destination)
		revDestDist := geo.HaversineKm(dropoff, r.Origin)
		if revOriginDist <= r.DestinationRadiusKm && revDestDist <= r.OriginRadiusKm {
			return RouteMatch{
				Route:          r,
				PickupSubzone:  findSubzone(pickup, r.DropoffZones),
				DropoffSubzone: findSubzone(dropoff, r.PickupZones),
				Reversed:       true,
			}, true
		}
	}
	return RouteMatch{}, false
}

func findSubzone(p geo.Point, zones []Subzone) *Subzone {
	for i := range zones {
		if zones[i].Contains(p) {
			return &zones[i]
		}
	}
	return nil
}
