package store

import (
	"strings"

	"khata-pos/internal/auth"
	"khata-pos/internal/feedback"
)

// Settings is the admin-visible configuration.
type Settings struct {
	TechCode     string `json:"techCode"`
	ManualCode   string `json:"manualCode"`
	NoBillNoExit bool   `json:"noBillNoExit"`
	SafeMode     bool   `json:"safeMode"`
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Settings{
		TechCode:     s.resolver.TechCode,
		ManualCode:   s.resolver.ManualCode,
		NoBillNoExit: s.noBillNoExit,
		SafeMode:     s.safeMode,
	}
}

// ChangeAdminPIN replaces the admin PIN after checking the current one.
func (s *Store) ChangeAdminPIN(current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := auth.RequireAdmin(s.pins, current); err != nil {
		return ErrAuthFailed
	}
	if auth.IsHash(strings.TrimSpace(next)) {
		return auth.ErrWeakPIN
	}
	if err := s.pins.SetAdminPIN(next); err != nil {
		return err
	}
	s.player.Play(feedback.Sync)
	return nil
}

func (s *Store) SetTechCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrInvalidTechCode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.TechCode = code
	return nil
}

func (s *Store) SetNoBillNoExit(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noBillNoExit = enabled
}
