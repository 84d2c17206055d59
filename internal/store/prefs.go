package store

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/fastr/internal/fasting"
)

// GetPreferences returns the stored preferences merged shallowly over the
// built-in defaults. Read failures degrade to the defaults.
func (s *Store) GetPreferences() fasting.Preferences {
	prefs := fasting.DefaultPreferences()

	raw, ok, err := s.getValue(keyPreferences)
	if err != nil {
		s.logger.Error("load preferences", "err", err)
		return prefs
	}
	if !ok {
		return prefs
	}

	// Unmarshalling into the defaults-populated struct leaves absent keys
	// at their default values.
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.logger.Error("decode preferences", "err", err)
		return fasting.DefaultPreferences()
	}
	return prefs
}

// SavePreferences persists the full preference set.
func (s *Store) SavePreferences(prefs fasting.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return s.setValue(keyPreferences, string(data))
}
