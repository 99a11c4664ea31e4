package pricing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
)

// ErrPricingNotFound signals that no zone or route covers the requested trip.
// The caller must reject the request rather than substitute an estimate.
var ErrPricingNotFound = errors.New("no pricing configured for this trip")

// Distance sources reported on quotes.
const (
	SourceExternal = "external"
	SourceFallback = "fallback"
)

// Estimate is a travel distance/duration figure with its provenance.
type Estimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
	Source          string  `json:"source"`
}

// DistanceEstimator resolves driving distance and duration between two
// points. Implementations must always return a usable estimate; external
// failures are absorbed into a deterministic fallback, never surfaced.
type DistanceEstimator interface {
	Estimate(ctx context.Context, origin, destination geo.Point) Estimate
}

// PricingType identifies which waterfall stage produced a price.
type PricingType string

const (
	PricingTypeZone  PricingType = "zone"
	PricingTypeRoute PricingType = "route"
)

// Request is a single resolution request. Distance, when set, is a
// pre-fetched estimate reused instead of calling the estimator again.
type Request struct {
	Pickup    geo.Point
	Dropoff   geo.Point
	VehicleID int64
	Distance  *Estimate
}

// Result is a successful resolution. Price excludes extras and round-trip
// multipliers; those are applied by the quote layer on top.
type Result struct {
	Price             decimal.Decimal
	DepositPercentage decimal.Decimal
	PricingType       PricingType
	DistanceKm        float64
	DurationMinutes   int
	DistanceSource    string
	ZoneID            *int64
	RangeID           *int64
	RouteID           *int64
	PickupSubzoneID   *int64
	DropoffSubzoneID  *int64
	MinBookingHours   *int
}

// Resolver runs the pricing waterfall over a catalog snapshot. It performs
// no writes; concurrent calls are independent.
type Resolver struct {
	distance DistanceEstimator
}

// NewResolver creates a Resolver backed by the given distance estimator.
func NewResolver(distance DistanceEstimator) *Resolver {
	return &Resolver{distance: distance}
}

// Resolve prices a trip against the snapshot. Stages run in fixed order:
// same-zone distance-tier pricing, then route pricing with sub-zone
// adjustments, then ErrPricingNotFound. The first stage to produce a price
// wins.
func (r *Resolver) Resolve(ctx context.Context, snap *Snapshot, req Request) (*Result, error) {
	var est *Estimate
	if req.Distance != nil {
		est = req.Distance
	}
	// The estimate is needed by the zone stage for range selection and by
	// every successful result for the response, so it is fetched at most once.
	ensureEstimate := func() Estimate {
		if est == nil {
			e := r.distance.Estimate(ctx, req.Pickup, req.Dropoff)
			est = &e
		}
		return *est
	}

	// Stage 1: both endpoints inside the same zone.
	pickupZone := snap.FindZone(req.Pickup)
	dropoffZone := snap.FindZone(req.Dropoff)
	if pickupZone != nil && dropoffZone != nil && pickupZone.ID == dropoffZone.ID {
		e := ensureEstimate()
		if rng := pickupZone.RangeFor(e.DistanceKm); rng != nil {
			if zp, ok := snap.ZonePricingFor(req.VehicleID, rng.ID); ok {
				zoneID, rangeID := pickupZone.ID, rng.ID
				return &Result{
					Price:             zp.Price,
					DepositPercentage: pickupZone.DepositPercentage,
					PricingType:       PricingTypeZone,
					DistanceKm:        e.DistanceKm,
					DurationMinutes:   e.DurationMinutes,
					DistanceSource:    e.Source,
					ZoneID:            &zoneID,
					RangeID:           &rangeID,
					MinBookingHours:   zp.MinBookingHours,
				}, nil
			}
		}
	}

	// Stage 2: predefined route corridor.
	if match, ok := snap.FindRoute(req.Pickup, req.Dropoff); ok {
		if rp, found := snap.RouteDefaultPricing(req.VehicleID, match.Route.ID); found {
			price := rp.Price.
				Add(adjustmentFor(rp.PickupAdjustments, match.PickupSubzone)).
				Add(adjustmentFor(rp.DropoffAdjustments, match.DropoffSubzone))

			e := ensureEstimate()
			routeID := match.Route.ID
			result := &Result{
				Price:             price,
				DepositPercentage: match.Route.DepositPercentage,
				PricingType:       PricingTypeRoute,
				DistanceKm:        e.DistanceKm,
				DurationMinutes:   e.DurationMinutes,
				DistanceSource:    e.Source,
				RouteID:           &routeID,
				MinBookingHours:   rp.MinBookingHours,
			}
			if match.PickupSubzone != nil {
				id := match.PickupSubzone.ID
				result.PickupSubzoneID = &id
			}
			if match.DropoffSubzone != nil {
				id := match.DropoffSubzone.ID
				result.DropoffSubzoneID = &id
			}
			return result, nil
		}
	}

	// Stage 3: fail closed. No estimate-based substitute here; the advisory
	// estimate lives on its own endpoint.
	return nil, ErrPricingNotFound
}

// adjustmentFor returns the signed adjustment for a matched sub-zone, or zero
// when no sub-zone matched or the map has no entry for it.
func adjustmentFor(adjustments map[int64]decimal.Decimal, sz *Subzone) decimal.Decimal {
	if sz == nil {
		return decimal.Zero
	}
	adj, ok := adjustments[sz.ID]
	if !ok {
		return decimal.Zero
	}
	return adj
}

// DepositAmount computes the deposit owed on a total at the given percentage,
// rounded to two decimal places.
func DepositAmount(total, percentage decimal.Decimal) decimal.Decimal {
	if percentage.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return total.Mul(percentage).Div(decimal.NewFromInt(100)).Round(2)
}
