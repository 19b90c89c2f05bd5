package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "")
		t.Setenv("TICKET_STAFF_ROLE_ID", "role-1")

		_, err := Load()
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %+v", err)
		}
	})

	t.Run("missing staff role", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("TICKET_STAFF_ROLE_ID", "")

		_, err := Load()
		if !errors.Is(err, ErrMissingStaffRole) {
			t.Errorf("Expected ErrMissingStaffRole, got %+v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("TICKET_STAFF_ROLE_ID", "role-1")
		t.Setenv("TICKET_PARENT_CATEGORY_ID", "")
		t.Setenv("TRANSCRIPT_LOG_CHANNEL_ID", "")
		t.Setenv("TICKET_CLOSE_DELAY_SECONDS", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if cfg.Token != "token" {
			t.Errorf("Expected token %q, got %q", "token", cfg.Token)
		}
		if cfg.StaffRoleID != "role-1" {
			t.Errorf("Expected staff role %q, got %q", "role-1", cfg.StaffRoleID)
		}
		if cfg.CloseDelay != 5*time.Second {
			t.Errorf("Expected the default close delay of 5s, got %v", cfg.CloseDelay)
		}
	})

	t.Run("full configuration", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("TICKET_STAFF_ROLE_ID", "role-1")
		t.Setenv("TICKET_PARENT_CATEGORY_ID", "cat-1")
		t.Setenv("TRANSCRIPT_LOG_CHANNEL_ID", "log-1")
		t.Setenv("TICKET_CLOSE_DELAY_SECONDS", "10")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if cfg.ParentCategoryID != "cat-1" {
			t.Errorf("Expected parent category %q, got %q", "cat-1", cfg.ParentCategoryID)
		}
		if cfg.TranscriptLogChannelID != "log-1" {
			t.Errorf("Expected log channel %q, got %q", "log-1", cfg.TranscriptLogChannelID)
		}
		if cfg.CloseDelay != 10*time.Second {
			t.Errorf("Expected a close delay of 10s, got %v", cfg.CloseDelay)
		}
	})

	t.Run("invalid close delay", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("TICKET_STAFF_ROLE_ID", "role-1")
		t.Setenv("TICKET_CLOSE_DELAY_SECONDS", "soon")

		if _, err := Load(); err == nil {
			t.Error("Expected an error for a non-numeric close delay")
		}
	})
}
