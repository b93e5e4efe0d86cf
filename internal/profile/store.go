package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/strideworks/physioengine/internal/engine/threshold"
	"github.com/strideworks/physioengine/internal/engine/zones"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNotFound        = errors.New("athlete profile not found")
	ErrLowerConfidence = errors.New("new estimate has lower confidence than the current profile")
)

const (
	cacheExpireSeconds = 60 * 60
)

// Snapshot is the athlete's current threshold and zone picture. It is
// replaced as a whole when a new estimate supersedes the stored one.
type Snapshot struct {
	AthleteID string             `json:"athleteId"`
	LT1       threshold.Estimate `json:"lt1"`
	LT2       threshold.Estimate `json:"lt2"`
	Zones     zones.Table        `json:"zones"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Store keeps the current snapshot per athlete in redis, with a small
// in-process cache in front of it for the read-heavy zone lookups.
type Store struct {
	redisClient *redis.Client
	cache       *freecache.Cache
}

func NewStore(redisClient *redis.Client) *Store {
	megabyte := 1024 * 1024
	return &Store{
		redisClient: redisClient,
		cache:       freecache.NewCache(10 * megabyte),
	}
}

func snapshotKey(athleteID string) string {
	return fmt.Sprintf("athlete-profile::%s", athleteID)
}

// Get returns the athlete's current snapshot.
func (s *Store) Get(ctx context.Context, athleteID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.store.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("athlete_id", athleteID))

	key := snapshotKey(athleteID)
	if cached, err := s.cache.Get([]byte(key)); err == nil {
		span.SetAttributes(attribute.Bool("profile.from-cache", true))
		snap := &Snapshot{}
		if err := json.Unmarshal(cached, snap); err == nil {
			return snap, nil
		}
		log.Errorf("failed to unmarshal cached profile for %s, falling back to redis", athleteID)
	}
	span.SetAttributes(attribute.Bool("profile.from-cache", false))

	cmd := s.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, athleteID)
		}
		return nil, fmt.Errorf("get profile from redis: %w", err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal([]byte(cmd.Val()), snap); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	if err := s.cache.Set([]byte(key), []byte(cmd.Val()), cacheExpireSeconds); err != nil {
		log.Errorf("failed to cache profile for %s: %s", athleteID, err)
	}

	return snap, nil
}

// Apply replaces the athlete's snapshot with a new one. A new estimate
// only supersedes the stored one when its LT2 confidence rank is at least
// as high, unless force is set (e.g. the stored estimate is stale and the
// coach explicitly wants the fresher, lower-confidence one).
func (s *Store) Apply(ctx context.Context, snap Snapshot, force bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profile.store.apply")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("athlete_id", snap.AthleteID),
		attribute.Bool("force", force),
	)

	if snap.AthleteID == "" {
		return errors.New("athlete id empty")
	}

	if !force {
		current, err := s.Get(ctx, snap.AthleteID)
		switch {
		case err == nil:
			if snap.LT2.Confidence.Rank() < current.LT2.Confidence.Rank() {
				return fmt.Errorf(
					"%w: %s < %s",
					ErrLowerConfidence, snap.LT2.Confidence, current.LT2.Confidence,
				)
			}
		case errors.Is(err, ErrNotFound):
			// nothing stored yet, anything supersedes
		default:
			return err
		}
	}

	snapJson, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	key := snapshotKey(snap.AthleteID)
	if err := s.redisClient.Set(ctx, key, snapJson, 0).Err(); err != nil {
		return fmt.Errorf("store profile in redis: %w", err)
	}

	if err := s.cache.Set([]byte(key), snapJson, cacheExpireSeconds); err != nil {
		log.Errorf("failed to cache profile for %s: %s", snap.AthleteID, err)
	}

	log.Debugf(
		"profile applied for [%s]: lt2 %.1f @ %s confidence",
		snap.AthleteID, snap.LT2.Intensity, snap.LT2.Confidence,
	)
	return nil
}
