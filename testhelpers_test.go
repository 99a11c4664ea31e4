//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
	"github.com/atlas-transfers/service-pricing/internal/repository"
)

// Test geography: a small city zone around the Medina and an airport route
// whose origin area covers the terminal sub-zone.
var (
	medinaPoint   = geo.Point{Lat: 31.6295, Lng: -7.9811}
	guelizPoint   = geo.Point{Lat: 31.6370, Lng: -8.0100}
	airportPoint  = geo.Point{Lat: 31.6069, Lng: -8.0363}
	terminalPoint = geo.Point{Lat: 31.6075, Lng: -8.0370}
)

// seededCatalog holds the generated IDs of the seeded rows.
type seededCatalog struct {
	ZoneID        int64
	RangeID       int64
	RouteID       int64
	TerminalID    int64
	CategoryID    int64
	VehicleID     int64
	ChildSeatID   int64
	ZonePricingID int64
}

// adjustableEstimator returns a settable fixed estimate.
type adjustableEstimator struct {
	estimate pricing.Estimate
}

func (a *adjustableEstimator) Estimate(_ context.Context, _, _ geo.Point) pricing.Estimate {
	return a.estimate
}

// setupPostgres starts a PostgreSQL testcontainer, connects GORM, and runs
// the catalog migrations.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_pricing",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_pricing sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(repository.CatalogModels()...))
	return db
}

// seedCatalog inserts a minimal catalog: one zone with one distance tier, one
// bidirectional route with a terminal pickup sub-zone and a +20 adjustment,
// one vehicle, and one per-item extra.
func seedCatalog(t *testing.T, db *gorm.DB) seededCatalog {
	t.Helper()

	dec := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return d
	}

	zone := repository.ZoneModel{
		Name:              "Marrakech",
		Slug:              "marrakech",
		CenterLat:         &medinaPoint.Lat,
		CenterLng:         &medinaPoint.Lng,
		RadiusKm:          3,
		DepositPercentage: dec("20"),
		IsActive:          true,
	}
	require.NoError(t, db.Create(&zone).Error)

	rng := repository.ZoneDistanceRangeModel{
		ZoneID:   zone.ID,
		Name:     "0-10 km",
		MinKm:    0,
		MaxKm:    10,
		IsActive: true,
	}
	require.NoError(t, db.Create(&rng).Error)

	category := repository.VehicleCategoryModel{
		Name:            "Sedan",
		Slug:            "sedan",
		MaxPassengers:   4,
		MaxLuggage:      3,
		PriceMultiplier: dec("1.5"),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&category).Error)

	vehicle := repository.VehicleModel{
		CategoryID: category.ID,
		Name:       "Dacia Logan",
		Passengers: 4,
		Luggage:    3,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&vehicle).Error)

	zonePricing := repository.ZoneVehiclePricingModel{
		RangeID:   rng.ID,
		VehicleID: vehicle.ID,
		Price:     dec("150.00"),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&zonePricing).Error)

	route := repository.RouteModel{
		Name:                "Airport - Medina",
		Slug:                "airport-medina",
		OriginName:          "Airport",
		OriginLat:           airportPoint.Lat,
		OriginLng:           airportPoint.Lng,
		OriginRadiusKm:      2,
		DestinationName:     "Medina",
		DestinationLat:      medinaPoint.Lat,
		DestinationLng:      medinaPoint.Lng,
		DestinationRadiusKm: 3,
		DistanceKm:          6,
		DurationMinutes:     15,
		Bidirectional:       true,
		DepositPercentage:   dec("30"),
		IsActive:            true,
	}
	require.NoError(t, db.Create(&route).Error)

	terminal := repository.RoutePickupZoneModel{
		RouteID:  route.ID,
		Name:     "Terminal",
		Lat:      terminalPoint.Lat,
		Lng:      terminalPoint.Lng,
		RadiusKm: 1,
		IsActive: true,
	}
	require.NoError(t, db.Create(&terminal).Error)

	routePricing := repository.RouteVehiclePricingModel{
		RouteID:           route.ID,
		VehicleID:         vehicle.ID,
		Price:             dec("200.00"),
		PickupAdjustments: json.RawMessage(fmt.Sprintf(`{"%d": 20}`, terminal.ID)),
		IsActive:          true,
	}
	require.NoError(t, db.Create(&routePricing).Error)

	childSeat := repository.TransferExtraModel{
		Name:     "Child seat",
		Price:    dec("50.00"),
		PerItem:  true,
		IsActive: true,
	}
	require.NoError(t, db.Create(&childSeat).Error)

	return seededCatalog{
		ZoneID:        zone.ID,
		RangeID:       rng.ID,
		RouteID:       route.ID,
		TerminalID:    terminal.ID,
		CategoryID:    category.ID,
		VehicleID:     vehicle.ID,
		ChildSeatID:   childSeat.ID,
		ZonePricingID: zonePricing.ID,
	}
}
