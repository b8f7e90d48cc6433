package settings

import (
	"context"
	"errors"
	"fmt"
)

// Theme is the app colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// NotificationTimes are the reminder times a user can pick.
var NotificationTimes = []string{"07:00", "08:00", "09:00", "10:00", "11:00", "12:00"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings are the user preferences shown on the settings screen.
type Settings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled" yaml:"notifications_enabled"`
	NotificationTime     string `json:"notificationTime" yaml:"notification_time"`
	Theme                Theme  `json:"theme" yaml:"theme"`
}

// Defaults returns the settings used before anything has been saved.
func Defaults() Settings {
	return Settings{
		NotificationsEnabled: true,
		NotificationTime:     "09:00",
		Theme:                ThemeSystem,
	}
}

// Validate checks the time against NotificationTimes and the theme against
// the known themes.
func (s Settings) Validate() error {
	if !isNotificationTime(s.NotificationTime) {
		return fmt.Errorf("%w: notificationTime %q must be one of %v", ErrInvalid, s.NotificationTime, NotificationTimes)
	}
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: theme %q must be light, dark or system", ErrInvalid, s.Theme)
	}
	return nil
}

func isNotificationTime(v string) bool {
	for _, t := range NotificationTimes {
		if t == v {
			return true
		}
	}
	return false
}

// Store persists a single Settings document. Load returns Defaults when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
	Ping(ctx context.Context) error
}
