package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
)

type stubProfiles struct {
	profiles map[string]*models.Profile
	err      error
	calls    int
}

func (s *stubProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type memCache struct {
	data   map[string]interface{}
	getErr error
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*cachedProfile)) = v.(cachedProfile)
	return nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func TestCurrentActorResolvesRoleAndCaches(t *testing.T) {
	profiles := &stubProfiles{profiles: map[string]*models.Profile{
		"u1": {UserID: "u1", FullName: "Ana", Role: models.RoleStudent},
	}}
	cache := NewCacheService(&memCache{data: map[string]interface{}{}}, NewMetricsService(), time.Minute, nil, true)
	svc := NewIdentityService(profiles, cache, time.Minute, nil)

	claims := &models.JWTClaims{UserID: "u1", Email: "ana@example.org"}
	actor, err := svc.CurrentActor(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, &models.Actor{ID: "u1", Email: "ana@example.org", FullName: "Ana", Role: models.RoleStudent}, actor)

	_, err = svc.CurrentActor(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.calls)
}

func TestCurrentActorFailures(t *testing.T) {
	profiles := &stubProfiles{profiles: map[string]*models.Profile{
		"odd": {UserID: "odd", FullName: "X", Role: models.Role("admin")},
	}}
	svc := NewIdentityService(profiles, nil, 0, nil)

	_, err := svc.CurrentActor(context.Background(), nil)
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationRequired)

	_, err = svc.CurrentActor(context.Background(), &models.JWTClaims{UserID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationRequired)

	_, err = svc.CurrentActor(context.Background(), &models.JWTClaims{UserID: "odd"})
	assert.ErrorIs(t, err, appErrors.ErrAuthenticationRequired)

	profiles.err = errors.New("timeout")
	_, err = svc.CurrentActor(context.Background(), &models.JWTClaims{UserID: "u1"})
	assert.ErrorIs(t, err, appErrors.ErrRepository)
}

func TestCurrentActorDegradesOnCacheError(t *testing.T) {
	profiles := &stubProfiles{profiles: map[string]*models.Profile{
		"u1": {UserID: "u1", FullName: "Bu Sari", Role: models.RoleTeacher},
	}}
	cache := NewCacheService(&memCache{data: map[string]interface{}{}, getErr: errors.New("redis down")}, nil, time.Minute, nil, true)
	svc := NewIdentityService(profiles, cache, time.Minute, nil)

	actor, err := svc.CurrentActor(context.Background(), &models.JWTClaims{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, actor.Role)
}

func TestRequireRole(t *testing.T) {
	assert.ErrorIs(t, RequireRole(nil, models.RoleTeacher), appErrors.ErrAuthenticationRequired)
	assert.ErrorIs(t, RequireRole(&models.Actor{Role: models.RoleStudent}, models.RoleTeacher), appErrors.ErrForbidden)
	assert.NoError(t, RequireRole(&models.Actor{Role: models.RoleTeacher}, models.RoleTeacher))
}
