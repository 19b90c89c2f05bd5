package ticket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/oklahomer/go-kasumi/logger"
)

const (
	embedColorGreen = 0x2ECC71

	// transcriptFetchLimit caps the archived history at the most recent 100
	// messages; older history is silently omitted.
	transcriptFetchLimit = 100

	// emptyTranscript is the placeholder body when no eligible message exists.
	emptyTranscript = "Sin mensajes."

	transcriptTimeLayout = "2006-01-02 15:04:05"
)

// Archiver renders a ticket channel's conversation to a text transcript and
// delivers it to the configured log channel. The transcript is written to a
// scratch file that never outlives the archiving call.
type Archiver struct {
	session      Session
	logChannelID string

	// dir is where scratch files are written. Defaults to os.TempDir().
	dir string
}

// NewArchiver creates an Archiver delivering to the given log channel.
// An empty logChannelID disables delivery; archiving then only renders and
// discards, which close still treats as an attempted transcript.
func NewArchiver(session Session, logChannelID string) *Archiver {
	return &Archiver{
		session:      session,
		logChannelID: logChannelID,
		dir:          os.TempDir(),
	}
}

// Archive fetches the channel's recent history, renders it oldest-first with
// bot-authored messages excluded, and sends it as a file attachment with a
// summary embed to the log channel. The scratch file is removed before
// returning regardless of delivery outcome.
func (a *Archiver) Archive(channel *discordgo.Channel, requester *discordgo.User, categoryName string) error {
	messages, err := a.session.ChannelMessages(channel.ID, transcriptFetchLimit, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to fetch messages of channel %s: %w", channel.ID, err)
	}

	text := renderTranscript(messages)

	// The scratch file carries a per-request token so two simultaneous
	// exports of one channel cannot clobber each other.
	path := filepath.Join(a.dir, fmt.Sprintf("transcript-%s-%s.txt", channel.ID, uuid.NewString()))
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.Warnf("Failed to remove transcript file %s: %+v", path, err)
		}
	}()

	if a.logChannelID == "" {
		logger.Warnf("No transcript log channel is configured; dropping the transcript of channel %s", channel.ID)
		return fmt.Errorf("%w: no log channel configured", ErrDeliveryFailed)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open transcript file: %w", err)
	}
	defer file.Close()

	_, err = a.session.ChannelMessageSendComplex(a.logChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "📄 Nuevo Transcript de Ticket",
				Description: fmt.Sprintf(
					"**Usuario:** <@%s> (%s)\n"+
						"**Categoría:** %s\n"+
						"**Canal:** #%s\n"+
						"**Ticket ID:** %s",
					requester.ID, requester.String(), categoryName, channel.Name, channel.ID,
				),
				Color:     embedColorGreen,
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
		Files: []*discordgo.File{
			{
				Name:        fmt.Sprintf("transcript-%s.txt", channel.ID),
				ContentType: "text/plain",
				Reader:      file,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// renderTranscript formats eligible messages oldest-first as one line each.
// The Discord API returns history newest-first, hence the reverse walk.
func renderTranscript(messages []*discordgo.Message) string {
	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Author == nil || m.Author.Bot {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format(transcriptTimeLayout), m.Author.String(), m.Content))
	}
	if len(lines) == 0 {
		return emptyTranscript
	}
	return strings.Join(lines, "\n")
}
