package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
	"github.com/atlas-transfers/service-pricing/internal/platform/apperrors"
)

// ExtraSelection is one requested add-on. Quantity defaults to one when
// omitted; an explicit zero is honored (a zero-quantity per-item extra costs
// nothing).
type ExtraSelection struct {
	ExtraID  int64 `json:"extra_id" binding:"required"`
	Quantity *int  `json:"quantity"`
}

// QuoteRequest holds the data needed to price a trip.
type QuoteRequest struct {
	Pickup            geo.Point        `json:"pickup" binding:"required"`
	Dropoff           geo.Point        `json:"dropoff" binding:"required"`
	VehicleID         int64            `json:"vehicle_id" binding:"required"`
	VehicleCategoryID int64            `json:"vehicle_category_id" binding:"required"`
	IsRoundTrip       bool             `json:"is_round_trip"`
	Extras            []ExtraSelection `json:"extras"`
}

// QuoteDTO is the response representation of a priced trip.
type QuoteDTO struct {
	Price             decimal.Decimal `json:"price"`
	ExtrasTotal       decimal.Decimal `json:"extras_total"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Currency          string          `json:"currency"`
	DepositPercentage decimal.Decimal `json:"deposit_percentage"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	DistanceKm        float64         `json:"distance_km"`
	DurationMinutes   int             `json:"duration_minutes"`
	DistanceSource    string          `json:"distance_source"`
	PricingType       string          `json:"pricing_type"`
	ZoneID            *int64          `json:"matched_zone_id,omitempty"`
	RouteID           *int64          `json:"matched_route_id,omitempty"`
	PickupSubzoneID   *int64          `json:"matched_pickup_subzone_id,omitempty"`
	DropoffSubzoneID  *int64          `json:"matched_dropoff_subzone_id,omitempty"`
	MinBookingHours   *int            `json:"min_booking_hours,omitempty"`
	IsRoundTrip       bool            `json:"is_round_trip"`
	Multiplier        int             `json:"multiplier"`
}

// EstimateRequest holds the data for an advisory, non-bookable estimate.
type EstimateRequest struct {
	Pickup            geo.Point `json:"pickup" binding:"required"`
	Dropoff           geo.Point `json:"dropoff" binding:"required"`
	VehicleCategoryID int64     `json:"vehicle_category_id" binding:"required"`
}

// EstimateDTO is the advisory estimate response. It is informational only and
// never a bookable price.
type EstimateDTO struct {
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	DistanceKm      float64         `json:"distance_km"`
	DurationMinutes int             `json:"duration_minutes"`
	DistanceSource  string          `json:"distance_source"`
	PricingType     string          `json:"pricing_type"`
}

// CoverageDTO reports which catalog areas cover a point.
type CoverageDTO struct {
	Zone   *ZoneDTO   `json:"zone,omitempty"`
	Routes []RouteDTO `json:"routes"`
}

// ZoneDTO is the public representation of a zone.
type ZoneDTO struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug"`
	DepositPercentage decimal.Decimal    `json:"deposit_percentage"`
	Ranges            []DistanceRangeDTO `json:"ranges"`
}

// DistanceRangeDTO is the public representation of a zone distance range.
type DistanceRangeDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	MinKm float64 `json:"min_km"`
	MaxKm float64 `json:"max_km"`
}

// RouteDTO is the public representation of a route.
type RouteDTO struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	OriginName        string          `json:"origin_name"`
	DestinationName   string          `json:"destination_name"`
	DistanceKm        float64         `json:"distance_km"`
	DurationMinutes   int             `json:"duration_minutes"`
	Bidirectional     bool            `json:"bidirectional"`
	DepositPercentage decimal.Decimal `json:"deposit_percentage"`
}

// SnapshotSource yields the catalog snapshot requests are priced against.
type SnapshotSource interface {
	Current(ctx context.Context) (*pricing.Snapshot, error)
}

// QuoteService orchestrates quote, estimate, and coverage use cases.
type QuoteService struct {
	snapshots     SnapshotSource
	resolver      *pricing.Resolver
	distance      pricing.DistanceEstimator
	currency      string
	estimatePerKm decimal.Decimal
	logger        *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(
	snapshots SnapshotSource,
	resolver *pricing.Resolver,
	distance pricing.DistanceEstimator,
	currency string,
	estimatePerKm float64,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		snapshots:     snapshots,
		resolver:      resolver,
		distance:      distance,
		currency:      currency,
		estimatePerKm: decimal.NewFromFloat(estimatePerKm),
		logger:        logger,
	}
}

// Quote prices a trip through the resolution waterfall, then layers extras,
// the round-trip multiplier, and the deposit on top.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	if err := validatePoints(req.Pickup, req.Dropoff); err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	vehicle, ok := snap.Vehicle(req.VehicleID)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown vehicle: %d", req.VehicleID))
	}
	if _, ok := snap.Category(req.VehicleCategoryID); !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown vehicle category: %d", req.VehicleCategoryID))
	}
	if vehicle.CategoryID != req.VehicleCategoryID {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("vehicle %d does not belong to category %d", req.VehicleID, req.VehicleCategoryID))
	}

	extrasTotal, err := sumExtras(snap, req.Extras)
	if err != nil {
		return nil, err
	}

	result, err := s.resolver.Resolve(ctx, snap, pricing.Request{
		Pickup:    req.Pickup,
		Dropoff:   req.Dropoff,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		return nil, err
	}

	multiplier := 1
	if req.IsRoundTrip {
		multiplier = 2
	}

	// Extras join the base fare before the round-trip multiplier: a round trip
	// doubles the whole journey, add-ons included. Price and ExtrasTotal stay
	// un-multiplied in the response.
	total := result.Price.Add(extrasTotal).Mul(decimal.NewFromInt(int64(multiplier)))
	deposit := pricing.DepositAmount(total, result.DepositPercentage)

	s.logger.Info("quote resolved",
		zap.String("pricing_type", string(result.PricingType)),
		zap.String("total", total.String()),
		zap.Float64("distance_km", result.DistanceKm),
		zap.String("distance_source", result.DistanceSource),
	)

	return &QuoteDTO{
		Price:             result.Price,
		ExtrasTotal:       extrasTotal,
		TotalPrice:        total,
		Currency:          s.currency,
		DepositPercentage: result.DepositPercentage,
		DepositAmount:     deposit,
		DistanceKm:        result.DistanceKm,
		DurationMinutes:   result.DurationMinutes,
		DistanceSource:    result.DistanceSource,
		PricingType:       string(result.PricingType),
		ZoneID:            result.ZoneID,
		RouteID:           result.RouteID,
		PickupSubzoneID:   result.PickupSubzoneID,
		DropoffSubzoneID:  result.DropoffSubzoneID,
		MinBookingHours:   result.MinBookingHours,
		IsRoundTrip:       req.IsRoundTrip,
		Multiplier:        multiplier,
	}, nil
}

// Estimate returns the advisory distance-based figure: distance × per-km rate
// × category multiplier. It never consults the catalog waterfall.
func (s *QuoteService) Estimate(ctx context.Context, req EstimateRequest) (*EstimateDTO, error) {
	if err := validatePoints(req.Pickup, req.Dropoff); err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	category, ok := snap.Category(req.VehicleCategoryID)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown vehicle category: %d", req.VehicleCategoryID))
	}

	est := s.distance.Estimate(ctx, req.Pickup, req.Dropoff)
	price := decimal.NewFromFloat(est.DistanceKm).
		Mul(s.estimatePerKm).
		Mul(category.PriceMultiplier).
		Round(2)

	return &EstimateDTO{
		Price:           price,
		Currency:        s.currency,
		DistanceKm:      est.DistanceKm,
		DurationMinutes: est.DurationMinutes,
		DistanceSource:  est.Source,
		PricingType:     "estimate",
	}, nil
}

// Coverage reports the zone containing the point and the routes whose origin
// or destination area contains it.
func (s *QuoteService) Coverage(ctx context.Context, p geo.Point) (*CoverageDTO, error) {
	if !p.IsValid() {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	out := &CoverageDTO{Routes: []RouteDTO{}}
	if zone := snap.FindZone(p); zone != nil {
		dto := toZoneDTO(*zone)
		out.Zone = &dto
	}
	for _, route := range snap.Routes() {
		inOrigin := geo.HaversineKm(p, route.Origin) <= route.OriginRadiusKm
		inDestination := geo.HaversineKm(p, route.Destination) <= route.DestinationRadiusKm
		if inOrigin || inDestination {
			out.Routes = append(out.Routes, toRouteDTO(route))
		}
	}
	return out, nil
}

// ListZones returns the active zones in display order.
func (s *QuoteService) ListZones(ctx context.Context) ([]ZoneDTO, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	zones := snap.Zones()
	out := make([]ZoneDTO, len(zones))
	for i, z := range zones {
		out[i] = toZoneDTO(z)
	}
	return out, nil
}

// ListRoutes returns the active routes in display order.
func (s *QuoteService) ListRoutes(ctx context.Context) ([]RouteDTO, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	routes := snap.Routes()
	out := make([]RouteDTO, len(routes))
	for i, r := range routes {
		out[i] = toRouteDTO(r)
	}
	return out, nil
}

func validatePoints(pickup, dropoff geo.Point) error {
	if !pickup.IsValid() {
		return apperrors.NewValidationError("pickup coordinates out of range")
	}
	if !dropoff.IsValid() {
		return apperrors.NewValidationError("dropoff coordinates out of range")
	}
	return nil
}

// sumExtras totals the requested add-ons. Per-item extras multiply by the
// quantity; flat extras charge once regardless of it.
func sumExtras(snap *pricing.Snapshot, selections []ExtraSelection) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, sel := range selections {
		extra, ok := snap.Extra(sel.ExtraID)
		if !ok {
			return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("unknown extra: %d", sel.ExtraID))
		}
		qty := 1
		if sel.Quantity != nil {
			qty = *sel.Quantity
		}
		if qty < 0 {
			return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("negative quantity for extra %d", sel.ExtraID))
		}
		if extra.PerItem {
			total = total.Add(extra.Price.Mul(decimal.NewFromInt(int64(qty))))
		} else {
			total = total.Add(extra.Price)
		}
	}
	return total, nil
}

func toZoneDTO(z pricing.Zone) ZoneDTO {
	ranges := make([]DistanceRangeDTO, len(z.Ranges))
	for i, rng := range z.Ranges {
		ranges[i] = DistanceRangeDTO{ID: rng.ID, Name: rng.Name, MinKm: rng.MinKm, MaxKm: rng.MaxKm}
	}
	return ZoneDTO{
		ID:                z.ID,
		Name:              z.Name,
		Slug:              z.Slug,
		DepositPercentage: z.DepositPercentage,
		Ranges:            ranges,
	}
}

func toRouteDTO(r pricing.Route) RouteDTO {
	return RouteDTO{
		ID:                r.ID,
		Name:              r.Name,
		Slug:              r.Slug,
		OriginName:        r.OriginName,
		DestinationName:   r.DestinationName,
		DistanceKm:        r.DistanceKm,
		DurationMinutes:   r.DurationMinutes,
		Bidirectional:     r.Bidirectional,
		DepositPercentage: r.DepositPercentage,
	}
}
