// Package maps resolves driving distance and duration via the Google
// Distance Matrix API, with a deterministic haversine-based fallback so that
// pricing stays computable when the API is unreachable or unconfigured.
package maps

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

const (
	// roadFactor converts straight-line distance into an estimated driving
	// distance (empirical road-vs-crow-flies correction).
	roadFactor = 1.3
	// fallbackSpeedKmh is the assumed blended urban/highway average speed.
	fallbackSpeedKmh = 50.0

	defaultTimeout = 10 * time.Second
)

// Config holds the distance service settings.
type Config struct {
	APIKey  string
	Timeout time.Duration
	// BaseURL overrides the Google API endpoint (tests only).
	BaseURL string
}

// Service implements pricing.DistanceEstimator. A nil cache disables
// caching; an empty API key disables the external call entirely, leaving
// only the fallback path.
type Service struct {
	client  *maps.Client
	cache   *EstimateCache
	timeout time.Duration
	logger  *zap.Logger
}

// NewService creates a distance Service. It only fails on client
// construction errors; a missing API key is not an error, just a permanent
// fallback mode.
func NewService(cfg Config, cache *EstimateCache, logger *zap.Logger) (*Service, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	s := &Service{cache: cache, timeout: timeout, logger: logger}

	if cfg.APIKey == "" {
		logger.Warn("no distance API key configured, all estimates will use the fallback")
		return s, nil
	}

	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	s.client = client
	return s, nil
}

// Estimate returns driving distance/duration between two points. The
// external API gets a single attempt with a bounded timeout; any failure is
// absorbed into the fallback. This method never fails.
func (s *Service) Estimate(ctx context.Context, origin, destination geo.Point) pricing.Estimate {
	if s.cache != nil {
		if est, ok := s.cache.Get(ctx, origin, destination); ok {
			return est
		}
	}

	if s.client != nil {
		est, err := s.queryExternal(ctx, origin, destination)
		if err == nil {
			if s.cache != nil {
				s.cache.Put(ctx, origin, destination, est)
			}
			return est
		}
		s.logger.Warn("distance matrix call failed, using fallback estimate",
			zap.Float64("origin_lat", origin.Lat),
			zap.Float64("origin_lng", origin.Lng),
			zap.Float64("dest_lat", destination.Lat),
			zap.Float64("dest_lng", destination.Lng),
			zap.Error(err),
		)
	}

	return Fallback(origin, destination)
}

func (s *Service) queryExternal(ctx context.Context, origin, destination geo.Point) (pricing.Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		Destinations: []string{fmt.Sprintf("%f,%f", destination.Lat, destination.Lng)},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	})
	if err != nil {
		return pricing.Estimate{}, fmt.Errorf("distance matrix request: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return pricing.Estimate{}, fmt.Errorf("distance matrix returned no elements")
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return pricing.Estimate{}, fmt.Errorf("route not found: %s", element.Status)
	}

	return pricing.Estimate{
		DistanceKm:      roundKm(float64(element.Distance.Meters) / 1000),
		DurationMinutes: int(element.Duration.Minutes()),
		Source:          pricing.SourceExternal,
	}, nil
}

// Fallback computes the deterministic estimate: haversine distance scaled by
// the road factor, duration at the assumed average speed.
func Fallback(origin, destination geo.Point) pricing.Estimate {
	distanceKm := roundKm(geo.HaversineKm(origin, destination) * roadFactor)
	return pricing.Estimate{
		DistanceKm:      distanceKm,
		DurationMinutes: int(math.Round(distanceKm / fallbackSpeedKmh * 60)),
		Source:          pricing.SourceFallback,
	}
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
