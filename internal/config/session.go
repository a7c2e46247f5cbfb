package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is the stored auth state written by `linkverse login`. Kept apart
// from the user-edited config file so logging in never rewrites it.
type Session struct {
	AccessToken string `yaml:"access_token"`
	UserID      string `yaml:"user_id"`
	Email       string `yaml:"email,omitempty"`
}

// LoadSession reads the stored session. A missing file is not an error; the
// returned session is simply empty.
func LoadSession(path string) (Session, error) {
	if path == "" {
		path = SessionPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return s, nil
}

// SaveSession writes the session with owner-only permissions.
func SaveSession(path string, s Session) error {
	if path == "" {
		path = SessionPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// ClearSession removes the stored session, if any.
func ClearSession(path string) error {
	if path == "" {
		path = SessionPath()
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
