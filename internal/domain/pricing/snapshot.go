package pricing

import (
	"sort"
	"time"
)

type zonePricingKey struct {
	vehicleID int64
	rangeID   int64
}

type routePricingKey struct {
	vehicleID int64
	routeID   int64
}

// Snapshot is an immutable copy of the active pricing catalog, taken once per
// load and shared across concurrent resolutions. Zones and routes are held as
// explicit priority lists sorted by (display order, name) — the first match
// in that order wins, so the ordering is part of the pricing contract, not a
// presentation detail.
type Snapshot struct {
	zones         []Zone
	routes        []Route
	zonePricing   map[zonePricingKey]ZonePricing
	routeDefaults map[routePricingKey]RoutePricing
	categories    map[int64]VehicleCategory
	vehicles      map[int64]Vehicle
	extras        map[int64]Extra
	loadedAt      time.Time
}

// NewSnapshot assembles a snapshot from active catalog rows. Input slices are
// copied and sorted; the caller may discard them afterwards. Route pricing
// rows pinned to a specific sub-zone pair are ignored — only route-wide
// default rows participate in resolution.
func NewSnapshot(
	zones []Zone,
	routes []Route,
	zonePricing []ZonePricing,
	routePricing []RoutePricing,
	categories []VehicleCategory,
	vehicles []Vehicle,
	extras []Extra,
) *Snapshot {
	s := &Snapshot{
		zones:         make([]Zone, len(zones)),
		routes:        make([]Route, len(routes)),
		zonePricing:   make(map[zonePricingKey]ZonePricing, len(zonePricing)),
		routeDefaults: make(map[routePricingKey]RoutePricing),
		categories:    make(map[int64]VehicleCategory, len(categories)),
		vehicles:      make(map[int64]Vehicle, len(vehicles)),
		extras:        make(map[int64]Extra, len(extras)),
		loadedAt:      time.Now().UTC(),
	}

	copy(s.zones, zones)
	sortByOrderThenName(s.zones, func(z Zone) (int, string) { return z.DisplayOrder, z.Name })
	for i := range s.zones {
		ranges := make([]DistanceRange, len(s.zones[i].Ranges))
		copy(ranges, s.zones[i].Ranges)
		sort.SliceStable(ranges, func(a, b int) bool { return ranges[a].MinKm < ranges[b].MinKm })
		s.zones[i].Ranges = ranges
	}

	copy(s.routes, routes)
	sortByOrderThenName(s.routes, func(r Route) (int, string) { return r.DisplayOrder, r.Name })
	for i := range s.routes {
		s.routes[i].PickupZones = sortedSubzones(s.routes[i].PickupZones)
		s.routes[i].DropoffZones = sortedSubzones(s.routes[i].DropoffZones)
	}

	for _, zp := range zonePricing {
		s.zonePricing[zonePricingKey{zp.VehicleID, zp.RangeID}] = zp
	}
	for _, rp := range routePricing {
		if rp.IsDefault() {
			s.routeDefaults[routePricingKey{rp.VehicleID, rp.RouteID}] = rp
		}
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	for _, v := range vehicles {
		s.vehicles[v.ID] = v
	}
	for _, e := range extras {
		s.extras[e.ID] = e
	}

	return s
}

func sortByOrderThenName[T any](items []T, key func(T) (int, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		oi, ni := key(items[i])
		oj, nj := key(items[j])
		if oi != oj {
			return oi < oj
		}
		return ni < nj
	})
}

func sortedSubzones(in []Subzone) []Subzone {
	out := make([]Subzone, len(in))
	copy(out, in)
	sortByOrderThenName(out, func(s Subzone) (int, string) { return s.DisplayOrder, s.Name })
	return out
}

// Zones returns the zones in priority order.
func (s *Snapshot) Zones() []Zone { return s.zones }

// Routes returns the routes in priority order.
func (s *Snapshot) Routes() []Route { return s.routes }

// ZonePricingFor looks up the pricing row for a vehicle and distance range.
func (s *Snapshot) ZonePricingFor(vehicleID, rangeID int64) (ZonePricing, bool) {
	zp, ok := s.zonePricing[zonePricingKey{vehicleID, rangeID}]
	return zp, ok
}

// RouteDefaultPricing looks up the route-wide default row for a vehicle.
func (s *Snapshot) RouteDefaultPricing(vehicleID, routeID int64) (RoutePricing, bool) {
	rp, ok := s.routeDefaults[routePricingKey{vehicleID, routeID}]
	return rp, ok
}

// Category returns a vehicle category by ID.
func (s *Snapshot) Category(id int64) (VehicleCategory, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// Vehicle returns a vehicle by ID.
func (s *Snapshot) Vehicle(id int64) (Vehicle, bool) {
	v, ok := s.vehicles[id]
	return v, ok
}

// Extra returns an extra by ID.
func (s *Snapshot) Extra(id int64) (Extra, bool) {
	e, ok := s.extras[id]
	return e, ok
}

// LoadedAt returns when the snapshot was assembled.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
