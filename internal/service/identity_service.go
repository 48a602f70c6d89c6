package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
)

type profileReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type cachedProfile struct {
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

// IdentityService resolves the authenticated caller into an Actor.
type IdentityService struct {
	profiles profileReader
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewIdentityService constructs an IdentityService. cache may be nil.
func NewIdentityService(profiles profileReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{profiles: profiles, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// CurrentActor maps token claims to an Actor through the profile's role.
func (s *IdentityService) CurrentActor(ctx context.Context, claims *models.JWTClaims) (*models.Actor, error) {
	if claims == nil || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "no authenticated user")
	}

	profile, err := s.lookup(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !profile.Role.Valid() {
		s.logger.Warn("profile has unknown role", zap.String("user_id", claims.UserID), zap.String("role", string(profile.Role)))
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "profile role is not recognised")
	}

	return &models.Actor{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}, nil
}

func (s *IdentityService) lookup(ctx context.Context, userID string) (*cachedProfile, error) {
	key := profileCacheKey(userID)
	var cached cachedProfile
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "profile not found")
		}
		return nil, appErrors.Repository(err, "failed to load profile")
	}

	cached = cachedProfile{FullName: profile.FullName, Role: profile.Role}
	if profile.Role.Valid() {
		_ = s.cache.Set(ctx, key, cached, s.cacheTTL)
	}
	return &cached, nil
}

func profileCacheKey(userID string) string {
	return "profile:" + userID
}

// RequireRole fails unless actor is present and holds role.
func RequireRole(actor *models.Actor, role models.Role) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrAuthenticationRequired, "")
	}
	if actor.Role != role {
		return appErrors.Clone(appErrors.ErrForbidden, "operation requires the "+string(role)+" role")
	}
	return nil
}
