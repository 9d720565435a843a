package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrZipcodeUnknown is returned when a zipcode is not part of the geo index,
// meaning the service does not operate there.
var ErrZipcodeUnknown = errors.New("zipcode not in geo index")

// zipGeoKey is the Redis key holding the GEOADD-ed zipcode index.
const zipGeoKey = "zipcodes"

// LocationRepository is the read-only geo-index collaborator: it answers
// which location tokens lie within a radius of a given token.
type LocationRepository interface {
	HasZipcode(ctx context.Context, zipcode string) (bool, error)
	NearbyZipcodes(ctx context.Context, zipcode string, radiusMeters float64) ([]string, error)
}

// RedisLocationRepository implements LocationRepository against a Redis
// geo set populated out-of-band.
type RedisLocationRepository struct {
	client *redis.Client
}

// NewRedisLocationRepository creates a new RedisLocationRepository
func NewRedisLocationRepository(client *redis.Client) *RedisLocationRepository {
	return &RedisLocationRepository{client: client}
}

// HasZipcode reports whether the zipcode exists in the geo index
func (r *RedisLocationRepository) HasZipcode(ctx context.Context, zipcode string) (bool, error) {
	pos, err := r.client.GeoPos(ctx, zipGeoKey, zipcode).Result()
	if err != nil {
		return false, fmt.Errorf("geo index lookup: %w", err)
	}
	return len(pos) > 0 && pos[0] != nil, nil
}

// NearbyZipcodes returns every zipcode within radiusMeters of the given
// zipcode, the given one included. The radius is already in meters here;
// any caller-facing unit conversion happens before this boundary.
func (r *RedisLocationRepository) NearbyZipcodes(ctx context.Context, zipcode string, radiusMeters float64) ([]string, error) {
	// GEOSEARCH FROMMEMBER errors opaquely when the member is missing, so
	// the existence check runs first to keep ErrZipcodeUnknown distinct.
	known, err := r.HasZipcode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrZipcodeUnknown
	}

	zips, err := r.client.GeoSearch(ctx, zipGeoKey, &redis.GeoSearchQuery{
		Member:     zipcode,
		Radius:     radiusMeters,
		RadiusUnit: "m",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo index search: %w", err)
	}
	return zips, nil
}
