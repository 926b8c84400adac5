package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opiniondesk/opiniondesk-backend/pkg/prefstore"
)

func TestPreferencesDefaultToEnglish(t *testing.T) {
	svc := NewPreferenceService(prefstore.NewMemoryStore())

	prefs, err := svc.Get(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.False(t, prefs.IsArabic)
}

func TestPreferencesRoundTrip(t *testing.T) {
	svc := NewPreferenceService(prefstore.NewMemoryStore())
	ctx := context.Background()

	err := svc.Set(ctx, "user-1", &Preferences{IsArabic: true})
	assert.NoError(t, err)

	prefs, err := svc.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.True(t, prefs.IsArabic)

	// another user is unaffected
	other, err := svc.Get(ctx, "user-2")
	assert.NoError(t, err)
	assert.False(t, other.IsArabic)
}

func TestPreferencesCanRevert(t *testing.T) {
	svc := NewPreferenceService(prefstore.NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, svc.Set(ctx, "user-1", &Preferences{IsArabic: true}))
	assert.NoError(t, svc.Set(ctx, "user-1", &Preferences{IsArabic: false}))

	prefs, err := svc.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.False(t, prefs.IsArabic)
}
