package usecase

import (
	"context"
	"time"
)

const MentorPoolCacheKey = "mentors:pool:v1"

// MentorPoolCache is the JSON cache consulted before the profile store.
type MentorPoolCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
