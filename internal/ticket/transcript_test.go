package ticket

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func transcriptMessages() []*discordgo.Message {
	// The Discord API returns history newest-first.
	return []*discordgo.Message{
		{
			Content:   "third",
			Timestamp: time.Date(2026, 3, 1, 12, 2, 0, 0, time.UTC),
			Author:    &discordgo.User{ID: "staff-1", Username: "staff", Discriminator: "0"},
		},
		{
			Content:   "beep",
			Timestamp: time.Date(2026, 3, 1, 12, 1, 30, 0, time.UTC),
			Author:    &discordgo.User{ID: "bot-1", Username: "ticketbot", Bot: true},
		},
		{
			Content:   "second",
			Timestamp: time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC),
			Author:    &discordgo.User{ID: "owner-1", Username: "owner", Discriminator: "0"},
		},
		{
			Content:   "first",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Author:    &discordgo.User{ID: "owner-1", Username: "owner", Discriminator: "0"},
		},
	}
}

func TestRenderTranscript(t *testing.T) {
	t.Run("filters bots and orders oldest-first", func(t *testing.T) {
		text := renderTranscript(transcriptMessages())

		lines := strings.Split(text, "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected 3 lines, got %d: %q", len(lines), text)
		}

		if !strings.HasSuffix(lines[0], "owner: first") {
			t.Errorf("Expected the oldest message first, got %q", lines[0])
		}
		if !strings.HasSuffix(lines[2], "staff: third") {
			t.Errorf("Expected the newest message last, got %q", lines[2])
		}
		if !strings.HasPrefix(lines[0], "[2026-03-01 12:00:00]") {
			t.Errorf("Expected a formatted timestamp prefix, got %q", lines[0])
		}
		if strings.Contains(text, "beep") {
			t.Error("Expected bot-authored messages to be excluded")
		}
	})

	t.Run("placeholder when nothing qualifies", func(t *testing.T) {
		onlyBots := []*discordgo.Message{
			{Content: "beep", Author: &discordgo.User{ID: "bot-1", Bot: true}},
			{Content: "boop", Author: nil},
		}
		if text := renderTranscript(onlyBots); text != "Sin mensajes." {
			t.Errorf("Expected the placeholder line, got %q", text)
		}
	})
}

func TestArchiver_Archive(t *testing.T) {
	channel := &discordgo.Channel{ID: "chan-1", Name: "ticket-owner-1"}
	requester := &discordgo.User{ID: "owner-1", Username: "owner", Discriminator: "0"}

	t.Run("delivers the transcript and removes the scratch file", func(t *testing.T) {
		var sentChannelID string
		var sent *discordgo.MessageSend
		var fileContent string
		session := &fakeSession{
			channelMessagesFunc: func(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
				if limit != 100 {
					t.Errorf("Expected the fetch limit to be 100, got %d", limit)
				}
				return transcriptMessages(), nil
			},
			channelMessageSendComplexFunc: func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				sentChannelID = channelID
				sent = data
				if len(data.Files) == 1 {
					content, err := io.ReadAll(data.Files[0].Reader)
					if err != nil {
						t.Errorf("Failed to read the attachment: %+v", err)
					}
					fileContent = string(content)
				}
				return &discordgo.Message{}, nil
			},
		}

		archiver := NewArchiver(session, "log-chan")
		archiver.dir = t.TempDir()

		if err := archiver.Archive(channel, requester, "Compras"); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if sentChannelID != "log-chan" {
			t.Errorf("Expected delivery to log-chan, got %q", sentChannelID)
		}
		if sent == nil || len(sent.Files) != 1 {
			t.Fatal("Expected one file attachment")
		}
		if sent.Files[0].Name != "transcript-chan-1.txt" {
			t.Errorf("Expected attachment name %q, got %q", "transcript-chan-1.txt", sent.Files[0].Name)
		}
		if lineCount := len(strings.Split(fileContent, "\n")); lineCount != 3 {
			t.Errorf("Expected 3 transcript lines, got %d", lineCount)
		}

		entries, err := os.ReadDir(archiver.dir)
		if err != nil {
			t.Fatalf("Failed to read the scratch directory: %+v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected the scratch file to be removed, found %d entries", len(entries))
		}
	})

	t.Run("no log channel configured", func(t *testing.T) {
		session := &fakeSession{
			channelMessageSendComplexFunc: func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				t.Error("Expected no delivery attempt without a log channel")
				return nil, nil
			},
		}

		archiver := NewArchiver(session, "")
		archiver.dir = t.TempDir()

		err := archiver.Archive(channel, requester, "Compras")
		if !errors.Is(err, ErrDeliveryFailed) {
			t.Fatalf("Expected ErrDeliveryFailed, got %+v", err)
		}

		entries, _ := os.ReadDir(archiver.dir)
		if len(entries) != 0 {
			t.Errorf("Expected the scratch file to be removed, found %d entries", len(entries))
		}
	})

	t.Run("send failure still removes the scratch file", func(t *testing.T) {
		session := &fakeSession{
			channelMessageSendComplexFunc: func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				return nil, fmt.Errorf("50013: missing permissions")
			},
		}

		archiver := NewArchiver(session, "log-chan")
		archiver.dir = t.TempDir()

		err := archiver.Archive(channel, requester, "Compras")
		if !errors.Is(err, ErrDeliveryFailed) {
			t.Fatalf("Expected ErrDeliveryFailed, got %+v", err)
		}

		entries, _ := os.ReadDir(archiver.dir)
		if len(entries) != 0 {
			t.Errorf("Expected the scratch file to be removed, found %d entries", len(entries))
		}
	})

	t.Run("history fetch failure", func(t *testing.T) {
		session := &fakeSession{
			channelMessagesFunc: func(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
				return nil, fmt.Errorf("channel gone")
			},
		}

		archiver := NewArchiver(session, "log-chan")
		archiver.dir = t.TempDir()

		err := archiver.Archive(channel, requester, "Compras")
		if err == nil {
			t.Fatal("Expected an error when the history fetch fails")
		}
		if errors.Is(err, ErrDeliveryFailed) {
			t.Error("A fetch failure is not a delivery failure")
		}
	})

	t.Run("empty history delivers the placeholder", func(t *testing.T) {
		var fileContent string
		session := &fakeSession{
			channelMessageSendComplexFunc: func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				content, _ := io.ReadAll(data.Files[0].Reader)
				fileContent = string(content)
				return &discordgo.Message{}, nil
			},
		}

		archiver := NewArchiver(session, "log-chan")
		archiver.dir = t.TempDir()

		if err := archiver.Archive(channel, requester, "Compras"); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}
		if fileContent != "Sin mensajes." {
			t.Errorf("Expected the placeholder content, got %q", fileContent)
		}
	})
}
