package service

import (
	"context"
	"errors"

	"github.com/opiniondesk/opiniondesk-backend/pkg/prefstore"
)

// Preferences are the per-user client preferences persisted server-side
type Preferences struct {
	IsArabic bool `json:"is_arabic"`
}

// PreferenceService stores per-user preferences behind the swappable
// prefstore adapter.
type PreferenceService struct {
	store prefstore.Store
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(store prefstore.Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// Get returns a user's preferences, defaulting when none are stored
func (s *PreferenceService) Get(ctx context.Context, userID string) (*Preferences, error) {
	val, err := s.store.Get(ctx, "lang:"+userID)
	if errors.Is(err, prefstore.ErrNotFound) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Preferences{IsArabic: val == "ar"}, nil
}

// Set stores a user's preferences
func (s *PreferenceService) Set(ctx context.Context, userID string, prefs *Preferences) error {
	lang := "en"
	if prefs.IsArabic {
		lang = "ar"
	}
	return s.store.Set(ctx, "lang:"+userID, lang)
}
