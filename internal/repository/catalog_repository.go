package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

// GormCatalogRepository loads the active pricing catalog from PostgreSQL and
// assembles it into an immutable snapshot.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// LoadSnapshot reads all active catalog rows and builds a snapshot. Ordering
// of zones, routes, and sub-zones is applied by the snapshot itself; queries
// only filter on is_active.
func (r *GormCatalogRepository) LoadSnapshot(ctx context.Context) (*pricing.Snapshot, error) {
	zones, err := r.loadZones(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := r.loadRoutes(ctx)
	if err != nil {
		return nil, err
	}

	zonePricing, err := r.loadZonePricing(ctx)
	if err != nil {
		return nil, err
	}

	routePricing, err := r.loadRoutePricing(ctx)
	if err != nil {
		return nil, err
	}

	categories, vehicles, err := r.loadFleet(ctx)
	if err != nil {
		return nil, err
	}

	extras, err := r.loadExtras(ctx)
	if err != nil {
		return nil, err
	}

	return pricing.NewSnapshot(zones, routes, zonePricing, routePricing, categories, vehicles, extras), nil
}

func (r *GormCatalogRepository) loadZones(ctx context.Context) ([]pricing.Zone, error) {
	var zoneModels []ZoneModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&zoneModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load zones: %w", err)
	}

	var rangeModels []ZoneDistanceRangeModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rangeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load zone distance ranges: %w", err)
	}

	rangesByZone := make(map[int64][]pricing.DistanceRange)
	for _, m := range rangeModels {
		rangesByZone[m.ZoneID] = append(rangesByZone[m.ZoneID], pricing.DistanceRange{
			ID:    m.ID,
			Name:  m.Name,
			MinKm: m.MinKm,
			MaxKm: m.MaxKm,
		})
	}

	zones := make([]pricing.Zone, len(zoneModels))
	for i, m := range zoneModels {
		var center *geo.Point
		if m.CenterLat != nil && m.CenterLng != nil {
			center = &geo.Point{Lat: *m.CenterLat, Lng: *m.CenterLng}
		}
		zones[i] = pricing.Zone{
			ID:                m.ID,
			Name:              m.Name,
			Slug:              m.Slug,
			Center:            center,
			RadiusKm:          m.RadiusKm,
			DepositPercentage: m.DepositPercentage,
			DisplayOrder:      m.DisplayOrder,
			Ranges:            rangesByZone[m.ID],
		}
	}
	return zones, nil
}

func (r *GormCatalogRepository) loadRoutes(ctx context.Context) ([]pricing.Route, error) {
	var routeModels []RouteModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&routeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}

	var pickupModels []RoutePickupZoneModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&pickupModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load route pickup zones: %w", err)
	}

	var dropoffModels []RouteDropoffZoneModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&dropoffModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load route dropoff zones: %w", err)
	}

	pickupsByRoute := make(map[int64][]pricing.Subzone)
	for _, m := range pickupModels {
		pickupsByRoute[m.RouteID] = append(pickupsByRoute[m.RouteID], pricing.Subzone{
			ID:           m.ID,
			Name:         m.Name,
			Center:       geo.Point{Lat: m.Lat, Lng: m.Lng},
			RadiusKm:     m.RadiusKm,
			DisplayOrder: m.DisplayOrder,
		})
	}
	dropoffsByRoute := make(map[int64][]pricing.Subzone)
	for _, m := range dropoffModels {
		dropoffsByRoute[m.RouteID] = append(dropoffsByRoute[m.RouteID], pricing.Subzone{
			ID:           m.ID,
			Name:         m.Name,
			Center:       geo.Point{Lat: m.Lat, Lng: m.Lng},
			RadiusKm:     m.RadiusKm,
			DisplayOrder: m.DisplayOrder,
		})
	}

	routes := make([]pricing.Route, len(routeModels))
	for i, m := range routeModels {
		routes[i] = pricing.Route{
			ID:                  m.ID,
			Name:                m.Name,
			Slug:                m.Slug,
			OriginName:          m.OriginName,
			Origin:              geo.Point{Lat: m.OriginLat, Lng: m.OriginLng},
			OriginRadiusKm:      m.OriginRadiusKm,
			DestinationName:     m.DestinationName,
			Destination:         geo.Point{Lat: m.DestinationLat, Lng: m.DestinationLng},
			DestinationRadiusKm: m.DestinationRadiusKm,
			DistanceKm:          m.DistanceKm,
			DurationMinutes:     m.DurationMinutes,
			Bidirectional:       m.Bidirectional,
			DepositPercentage:   m.DepositPercentage,
			DisplayOrder:        m.DisplayOrder,
			PickupZones:         pickupsByRoute[m.ID],
			DropoffZones:        dropoffsByRoute[m.ID],
		}
	}
	return routes, nil
}

func (r *GormCatalogRepository) loadZonePricing(ctx context.Context) ([]pricing.ZonePricing, error) {
	var models []ZoneVehiclePricingModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load zone pricing: %w", err)
	}

	rows := make([]pricing.ZonePricing, len(models))
	for i, m := range models {
		rows[i] = pricing.ZonePricing{
			VehicleID:       m.VehicleID,
			RangeID:         m.RangeID,
			Price:           m.Price,
			Cost:            m.Cost,
			Deposit:         m.Deposit,
			MinBookingHours: m.MinBookingHours,
		}
	}
	return rows, nil
}

func (r *GormCatalogRepository) loadRoutePricing(ctx context.Context) ([]pricing.RoutePricing, error) {
	var models []RouteVehiclePricingModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load route pricing: %w", err)
	}

	rows := make([]pricing.RoutePricing, len(models))
	for i, m := range models {
		pickupAdj, err := decodeAdjustments(m.PickupAdjustments)
		if err != nil {
			return nil, fmt.Errorf("route pricing %d: bad pickup adjustments: %w", m.ID, err)
		}
		dropoffAdj, err := decodeAdjustments(m.DropoffAdjustments)
		if err != nil {
			return nil, fmt.Errorf("route pricing %d: bad dropoff adjustments: %w", m.ID, err)
		}
		rows[i] = pricing.RoutePricing{
			VehicleID:          m.VehicleID,
			RouteID:            m.RouteID,
			PickupZoneID:       m.PickupZoneID,
			DropoffZoneID:      m.DropoffZoneID,
			Price:              m.Price,
			Cost:               m.Cost,
			Deposit:            m.Deposit,
			MinBookingHours:    m.MinBookingHours,
			PickupAdjustments:  pickupAdj,
			DropoffAdjustments: dropoffAdj,
		}
	}
	return rows, nil
}

func (r *GormCatalogRepository) loadFleet(ctx context.Context) ([]pricing.VehicleCategory, []pricing.Vehicle, error) {
	var categoryModels []VehicleCategoryModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&categoryModels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load vehicle categories: %w", err)
	}

	var vehicleModels []VehicleModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&vehicleModels).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	categories := make([]pricing.VehicleCategory, len(categoryModels))
	for i, m := range categoryModels {
		categories[i] = pricing.VehicleCategory{
			ID:              m.ID,
			Name:            m.Name,
			Slug:            m.Slug,
			MaxPassengers:   m.MaxPassengers,
			MaxLuggage:      m.MaxLuggage,
			PriceMultiplier: m.PriceMultiplier,
			DisplayOrder:    m.DisplayOrder,
		}
	}

	vehicles := make([]pricing.Vehicle, len(vehicleModels))
	for i, m := range vehicleModels {
		vehicles[i] = pricing.Vehicle{
			ID:         m.ID,
			CategoryID: m.CategoryID,
			Name:       m.Name,
			Passengers: m.Passengers,
			Luggage:    m.Luggage,
		}
	}
	return categories, vehicles, nil
}

func (r *GormCatalogRepository) loadExtras(ctx context.Context) ([]pricing.Extra, error) {
	var models []TransferExtraModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load transfer extras: %w", err)
	}

	extras := make([]pricing.Extra, len(models))
	for i, m := range models {
		extras[i] = pricing.Extra{
			ID:      m.ID,
			Name:    m.Name,
			Price:   m.Price,
			PerItem: m.PerItem,
		}
	}
	return extras, nil
}

// decodeAdjustments parses a JSONB object of sub-zone ID → signed amount into
// a typed map. A missing or null column means no adjustments.
func decodeAdjustments(raw json.RawMessage) (map[int64]decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var byKey map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adjustments: %w", err)
	}

	out := make(map[int64]decimal.Decimal, len(byKey))
	for key, amount := range byKey {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("adjustment key %q is not a sub-zone ID: %w", key, err)
		}
		out[id] = amount
	}
	return out, nil
}
