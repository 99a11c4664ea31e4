package repository

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ZoneModel is the GORM model for the pricing_zones table.
type ZoneModel struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	Name              string          `gorm:"not null;size:120"`
	Slug              string          `gorm:"uniqueIndex;not null;size:140"`
	CenterLat         *float64        `gorm:""`
	CenterLng         *float64        `gorm:""`
	RadiusKm          float64         `gorm:"not null;default:0"`
	DepositPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	DisplayOrder      int             `gorm:"not null;default:0;index"`
	IsActive          bool            `gorm:"not null;default:true;index"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ZoneModel) TableName() string {
	return "pricing_zones"
}

// ZoneDistanceRangeModel is the GORM model for the zone_distance_ranges table.
type ZoneDistanceRangeModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ZoneID    int64     `gorm:"index;not null"`
	Name      string    `gorm:"not null;size:120"`
	MinKm     float64   `gorm:"not null"`
	MaxKm     float64   `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ZoneDistanceRangeModel) TableName() string {
	return "zone_distance_ranges"
}

// ZoneVehiclePricingModel is the GORM model for the zone_vehicle_pricing table.
type ZoneVehiclePricingModel struct {
	ID              int64            `gorm:"primaryKey;autoIncrement"`
	RangeID         int64            `gorm:"index:idx_zone_pricing_range_vehicle;not null"`
	VehicleID       int64            `gorm:"index:idx_zone_pricing_range_vehicle;not null"`
	Price           decimal.Decimal  `gorm:"type:numeric(10,2);not null"`
	Cost            *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Deposit         *decimal.Decimal `gorm:"type:numeric(10,2)"`
	MinBookingHours *int             `gorm:""`
	IsActive        bool             `gorm:"not null;default:true;index"`
	CreatedAt       time.Time        `gorm:"not null"`
	UpdatedAt       time.Time        `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ZoneVehiclePricingModel) TableName() string {
	return "zone_vehicle_pricing"
}

// RouteModel is the GORM model for the pricing_routes table.
type RouteModel struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	Name                string          `gorm:"not null;size:200"`
	Slug                string          `gorm:"uniqueIndex;not null;size:220"`
	OriginName          string          `gorm:"not null;size:120"`
	OriginLat           float64         `gorm:"not null"`
	OriginLng           float64         `gorm:"not null"`
	OriginRadiusKm      float64         `gorm:"not null"`
	DestinationName     string          `gorm:"not null;size:120"`
	DestinationLat      float64         `gorm:"not null"`
	DestinationLng      float64         `gorm:"not null"`
	DestinationRadiusKm float64         `gorm:"not null"`
	DistanceKm          float64         `gorm:"not null;default:0"`
	DurationMinutes     int             `gorm:"not null;default:0"`
	Bidirectional       bool            `gorm:"not null;default:true"`
	DepositPercentage   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	DisplayOrder        int             `gorm:"not null;default:0;index"`
	IsActive            bool            `gorm:"not null;default:true;index"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string {
	return "pricing_routes"
}

// RoutePickupZoneModel is the GORM model for the route_pickup_zones table.
type RoutePickupZoneModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	RouteID      int64     `gorm:"index;not null"`
	Name         string    `gorm:"not null;size:120"`
	Lat          float64   `gorm:"not null"`
	Lng          float64   `gorm:"not null"`
	RadiusKm     float64   `gorm:"not null"`
	DisplayOrder int       `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoutePickupZoneModel) TableName() string {
	return "route_pickup_zones"
}

// RouteDropoffZoneModel is the GORM model for the route_dropoff_zones table.
type RouteDropoffZoneModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	RouteID      int64     `gorm:"index;not null"`
	Name         string    `gorm:"not null;size:120"`
	Lat          float64   `gorm:"not null"`
	Lng          float64   `gorm:"not null"`
	RadiusKm     float64   `gorm:"not null"`
	DisplayOrder int       `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteDropoffZoneModel) TableName() string {
	return "route_dropoff_zones"
}

// RouteVehiclePricingModel is the GORM model for the route_vehicle_pricing
// table. Adjustment columns are JSONB objects keyed by sub-zone ID.
type RouteVehiclePricingModel struct {
	ID                 int64            `gorm:"primaryKey;autoIncrement"`
	RouteID            int64            `gorm:"index:idx_route_pricing_route_vehicle;not null"`
	VehicleID          int64            `gorm:"index:idx_route_pricing_route_vehicle;not null"`
	PickupZoneID       *int64           `gorm:"index"`
	DropoffZoneID      *int64           `gorm:"index"`
	Price              decimal.Decimal  `gorm:"type:numeric(10,2);not null"`
	Cost               *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Deposit            *decimal.Decimal `gorm:"type:numeric(10,2)"`
	MinBookingHours    *int             `gorm:""`
	PickupAdjustments  json.RawMessage  `gorm:"type:jsonb"`
	DropoffAdjustments json.RawMessage  `gorm:"type:jsonb"`
	IsActive           bool             `gorm:"not null;default:true;index"`
	CreatedAt          time.Time        `gorm:"not null"`
	UpdatedAt          time.Time        `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteVehiclePricingModel) TableName() string {
	return "route_vehicle_pricing"
}

// VehicleCategoryModel is the GORM model for the vehicle_categories table.
type VehicleCategoryModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Name            string          `gorm:"not null;size:120"`
	Slug            string          `gorm:"uniqueIndex;not null;size:140"`
	MaxPassengers   int             `gorm:"not null;default:0"`
	MaxLuggage      int             `gorm:"not null;default:0"`
	PriceMultiplier decimal.Decimal `gorm:"type:numeric(5,2);not null;default:1"`
	DisplayOrder    int             `gorm:"not null;default:0;index"`
	IsActive        bool            `gorm:"not null;default:true;index"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleCategoryModel) TableName() string {
	return "vehicle_categories"
}

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	CategoryID int64     `gorm:"index;not null"`
	Name       string    `gorm:"not null;size:120"`
	Passengers int       `gorm:"not null;default:0"`
	Luggage    int       `gorm:"not null;default:0"`
	IsActive   bool      `gorm:"not null;default:true;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// TransferExtraModel is the GORM model for the transfer_extras table.
type TransferExtraModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Name         string          `gorm:"not null;size:120"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	PerItem      bool            `gorm:"not null;default:false"`
	DisplayOrder int             `gorm:"not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true;index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TransferExtraModel) TableName() string {
	return "transfer_extras"
}

// CatalogModels lists every catalog model for migration.
func CatalogModels() []interface{} {
	return []interface{}{
		&ZoneModel{},
		&ZoneDistanceRangeModel{},
		&ZoneVehiclePricingModel{},
		&RouteModel{},
		&RoutePickupZoneModel{},
		&RouteDropoffZoneModel{},
		&RouteVehiclePricingModel{},
		&VehicleCategoryModel{},
		&VehicleModel{},
		&TransferExtraModel{},
	}
}
