// Package config loads the bot's runtime configuration from environment
// variables, with .env file support for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	// Token is the Discord bot token.
	Token string

	// StaffRoleID is the role allowed to claim and close tickets.
	StaffRoleID string

	// ParentCategoryID is the channel category new ticket channels are
	// created under. Optional.
	ParentCategoryID string

	// TranscriptLogChannelID is where transcripts are delivered. Optional;
	// when empty, transcripts are rendered and discarded.
	TranscriptLogChannelID string

	// CloseDelay is the grace period between a close request and deletion.
	CloseDelay time.Duration
}

// ErrMissingToken indicates that DISCORD_TOKEN is not set.
var ErrMissingToken = errors.New("DISCORD_TOKEN must be set")

// ErrMissingStaffRole indicates that TICKET_STAFF_ROLE_ID is not set.
var ErrMissingStaffRole = errors.New("TICKET_STAFF_ROLE_ID must be set")

// Load reads configuration from environment variables, applying defaults
// where possible. A .env file in the working directory is honored when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, ErrMissingToken
	}

	staffRoleID := os.Getenv("TICKET_STAFF_ROLE_ID")
	if staffRoleID == "" {
		return nil, ErrMissingStaffRole
	}

	closeDelaySeconds, err := getEnvAsInt("TICKET_CLOSE_DELAY_SECONDS", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Token:                  token,
		StaffRoleID:            staffRoleID,
		ParentCategoryID:       os.Getenv("TICKET_PARENT_CATEGORY_ID"),
		TranscriptLogChannelID: os.Getenv("TRANSCRIPT_LOG_CHANNEL_ID"),
		CloseDelay:             time.Duration(closeDelaySeconds) * time.Second,
	}, nil
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
