package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
	"github.com/atlas-transfers/service-pricing/internal/platform/apperrors"
)

var (
	medinaPoint  = geo.Point{Lat: 31.6295, Lng: -7.9811}
	guelizPoint  = geo.Point{Lat: 31.6370, Lng: -8.0100}
	airportPoint = geo.Point{Lat: 31.6069, Lng: -8.0363}
)

type fixedEstimator struct {
	estimate pricing.Estimate
}

func (f *fixedEstimator) Estimate(_ context.Context, _, _ geo.Point) pricing.Estimate {
	return f.estimate
}

type staticSnapshots struct {
	snap *pricing.Snapshot
}

func (s *staticSnapshots) Current(context.Context) (*pricing.Snapshot, error) {
	return s.snap, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func qty(n int) *int { return &n }

func citySnapshot() *pricing.Snapshot {
	center := medinaPoint
	zones := []pricing.Zone{{
		ID:                1,
		Name:              "Marrakech",
		Slug:              "marrakech",
		Center:            &center,
		RadiusKm:          30,
		DepositPercentage: dec("20"),
		Ranges: []pricing.DistanceRange{
			{ID: 10, Name: "0-10 km", MinKm: 0, MaxKm: 10},
		},
	}}
	routes := []pricing.Route{{
		ID:                  1,
		Name:                "Airport - Medina",
		Slug:                "airport-medina",
		OriginName:          "Airport",
		Origin:              airportPoint,
		OriginRadiusKm:      3,
		DestinationName:     "Medina",
		Destination:         medinaPoint,
		DestinationRadiusKm: 3,
		Bidirectional:       true,
		DepositPercentage:   dec("30"),
	}}
	zonePricing := []pricing.ZonePricing{
		{VehicleID: 7, RangeID: 10, Price: dec("150.00")},
	}
	routePricing := []pricing.RoutePricing{
		{VehicleID: 7, RouteID: 1, Price: dec("200.00")},
	}
	categories := []pricing.VehicleCategory{
		{ID: 3, Name: "Sedan", Slug: "sedan", PriceMultiplier: dec("1.5")},
		{ID: 4, Name: "Van", Slug: "van", PriceMultiplier: dec("1.8")},
	}
	vehicles := []pricing.Vehicle{
		{ID: 7, CategoryID: 3, Name: "Dacia Logan", Passengers: 4, Luggage: 3},
	}
	extras := []pricing.Extra{
		{ID: 1, Name: "Child seat", Price: dec("50.00"), PerItem: true},
		{ID: 2, Name: "Meet & greet", Price: dec("80.00"), PerItem: false},
	}
	return pricing.NewSnapshot(zones, routes, zonePricing, routePricing, categories, vehicles, extras)
}

func newTestQuoteService(est pricing.Estimate) *QuoteService {
	estimator := &fixedEstimator{estimate: est}
	return NewQuoteService(
		&staticSnapshots{snap: citySnapshot()},
		pricing.NewResolver(estimator),
		estimator,
		"MAD",
		7.5,
		zap.NewNop(),
	)
}

func TestQuoteSameZone(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	quote, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleID:         7,
		VehicleCategoryID: 3,
	})
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(dec("150.00")), "price = %s", quote.Price)
	assert.True(t, quote.ExtrasTotal.Equal(decimal.Zero))
	assert.True(t, quote.TotalPrice.Equal(dec("150.00")))
	assert.Equal(t, "MAD", quote.Currency)
	assert.True(t, quote.DepositAmount.Equal(dec("30.00")))
	assert.Equal(t, "zone", quote.PricingType)
	assert.Equal(t, 1, quote.Multiplier)
	require.NotNil(t, quote.ZoneID)
	assert.Equal(t, int64(1), *quote.ZoneID)
}

func TestQuoteRoundTripDoublesTotal(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	quote, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleID:         7,
		VehicleCategoryID: 3,
		IsRoundTrip:       true,
	})
	require.NoError(t, err)

	// Price stays the one-way fare; only the total carries the multiplier.
	assert.True(t, quote.Price.Equal(dec("150.00")), "price = %s", quote.Price)
	assert.True(t, quote.TotalPrice.Equal(dec("300.00")))
	assert.True(t, quote.DepositAmount.Equal(dec("60.00")))
	assert.Equal(t, 2, quote.Multiplier)
	assert.True(t, quote.IsRoundTrip)
}

func TestQuoteRoundTripDoublesExtras(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	// Extras join the fare before the multiplier: (150 + 80) × 2.
	quote, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleID:         7,
		VehicleCategoryID: 3,
		IsRoundTrip:       true,
		Extras:            []ExtraSelection{{ExtraID: 2}},
	})
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(dec("150.00")), "price = %s", quote.Price)
	assert.True(t, quote.ExtrasTotal.Equal(dec("80.00")))
	assert.True(t, quote.TotalPrice.Equal(dec("460.00")), "total = %s", quote.TotalPrice)
	assert.True(t, quote.DepositAmount.Equal(dec("92.00")))
}

func TestQuoteExtras(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	// Per-item extras multiply by quantity; flat extras charge once.
	quote, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleID:         7,
		VehicleCategoryID: 3,
		Extras: []ExtraSelection{
			{ExtraID: 1, Quantity: qty(2)},
			{ExtraID: 2, Quantity: qty(3)},
		},
	})
	require.NoError(t, err)

	assert.True(t, quote.ExtrasTotal.Equal(dec("180.00")), "extras = %s", quote.ExtrasTotal)
	assert.True(t, quote.TotalPrice.Equal(dec("330.00")))
	assert.True(t, quote.DepositAmount.Equal(dec("66.00")))
}

func TestQuoteExtraQuantities(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	quoteFor := func(t *testing.T, sel ExtraSelection) *QuoteDTO {
		t.Helper()
		quote, err := svc.Quote(context.Background(), QuoteRequest{
			Pickup:            guelizPoint,
			Dropoff:           medinaPoint,
			VehicleID:         7,
			VehicleCategoryID: 3,
			Extras:            []ExtraSelection{sel},
		})
		require.NoError(t, err)
		return quote
	}

	// Omitted quantity means one item.
	quote := quoteFor(t, ExtraSelection{ExtraID: 1})
	assert.True(t, quote.ExtrasTotal.Equal(dec("50.00")))

	// An explicit zero means the extra was deselected; it costs nothing.
	quote = quoteFor(t, ExtraSelection{ExtraID: 1, Quantity: qty(0)})
	assert.True(t, quote.ExtrasTotal.Equal(decimal.Zero), "extras = %s", quote.ExtrasTotal)
	assert.True(t, quote.TotalPrice.Equal(dec("150.00")))

	// Flat extras charge once whatever the quantity says.
	quote = quoteFor(t, ExtraSelection{ExtraID: 2, Quantity: qty(5)})
	assert.True(t, quote.ExtrasTotal.Equal(dec("80.00")))
}

func TestQuoteExtraNegativeQuantityRejected(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, DurationMinutes: 6, Source: pricing.SourceFallback})

	_, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleID:         7,
		VehicleCategoryID: 3,
		Extras:            []ExtraSelection{{ExtraID: 1, Quantity: qty(-1)}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestQuoteValidation(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, Source: pricing.SourceFallback})

	tests := []struct {
		name string
		req  QuoteRequest
	}{
		{
			name: "pickup latitude out of range",
			req:  QuoteRequest{Pickup: geo.Point{Lat: 91, Lng: 0}, Dropoff: medinaPoint, VehicleID: 7, VehicleCategoryID: 3},
		},
		{
			name: "dropoff longitude out of range",
			req:  QuoteRequest{Pickup: medinaPoint, Dropoff: geo.Point{Lat: 0, Lng: -181}, VehicleID: 7, VehicleCategoryID: 3},
		},
		{
			name: "unknown vehicle",
			req:  QuoteRequest{Pickup: guelizPoint, Dropoff: medinaPoint, VehicleID: 99, VehicleCategoryID: 3},
		},
		{
			name: "unknown category",
			req:  QuoteRequest{Pickup: guelizPoint, Dropoff: medinaPoint, VehicleID: 7, VehicleCategoryID: 99},
		},
		{
			name: "vehicle not in category",
			req:  QuoteRequest{Pickup: guelizPoint, Dropoff: medinaPoint, VehicleID: 7, VehicleCategoryID: 4},
		},
		{
			name: "unknown extra",
			req: QuoteRequest{Pickup: guelizPoint, Dropoff: medinaPoint, VehicleID: 7, VehicleCategoryID: 3,
				Extras: []ExtraSelection{{ExtraID: 42, Quantity: qty(1)}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Quote(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestQuoteUncoveredTripFailsClosed(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 240, DurationMinutes: 170, Source: pricing.SourceFallback})

	_, err := svc.Quote(context.Background(), QuoteRequest{
		Pickup:            geo.Point{Lat: 33.5731, Lng: -7.5898},
		Dropoff:           geo.Point{Lat: 34.0209, Lng: -6.8416},
		VehicleID:         7,
		VehicleCategoryID: 3,
	})
	require.ErrorIs(t, err, pricing.ErrPricingNotFound)
}

func TestEstimateUsesCategoryMultiplier(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 10, DurationMinutes: 12, Source: pricing.SourceExternal})

	est, err := svc.Estimate(context.Background(), EstimateRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleCategoryID: 3,
	})
	require.NoError(t, err)

	// 10 km × 7.5 MAD/km × 1.5 multiplier.
	assert.True(t, est.Price.Equal(dec("112.50")), "price = %s", est.Price)
	assert.Equal(t, "estimate", est.PricingType)
	assert.Equal(t, pricing.SourceExternal, est.DistanceSource)
}

func TestEstimateUnknownCategory(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 10, Source: pricing.SourceFallback})

	_, err := svc.Estimate(context.Background(), EstimateRequest{
		Pickup:            guelizPoint,
		Dropoff:           medinaPoint,
		VehicleCategoryID: 99,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCoverage(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, Source: pricing.SourceFallback})

	cov, err := svc.Coverage(context.Background(), airportPoint)
	require.NoError(t, err)

	// The airport point is inside the city zone and the route's origin area.
	require.NotNil(t, cov.Zone)
	assert.Equal(t, "marrakech", cov.Zone.Slug)
	require.Len(t, cov.Routes, 1)
	assert.Equal(t, "airport-medina", cov.Routes[0].Slug)
}

func TestCoverageOutsideEverything(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, Source: pricing.SourceFallback})

	cov, err := svc.Coverage(context.Background(), geo.Point{Lat: 35.7595, Lng: -5.8340})
	require.NoError(t, err)

	assert.Nil(t, cov.Zone)
	assert.Empty(t, cov.Routes)
}

func TestListCatalog(t *testing.T) {
	svc := newTestQuoteService(pricing.Estimate{DistanceKm: 4.9, Source: pricing.SourceFallback})

	zones, err := svc.ListZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Marrakech", zones[0].Name)
	require.Len(t, zones[0].Ranges, 1)

	routes, err := svc.ListRoutes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.True(t, routes[0].Bidirectional)
}
