package ticket

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
)

// Component custom IDs shared between the welcome message and the
// interaction dispatcher.
const (
	CategoryMenuID     = "ticket-category"
	ClaimButtonID      = "ticket-claim"
	CloseButtonID      = "ticket-close"
	TranscriptButtonID = "ticket-transcript"
)

const (
	embedColorBlue = 0x0099FF

	// DefaultCloseDelay is the grace period between a close request and the
	// archive-and-delete step.
	DefaultCloseDelay = 5 * time.Second

	memberAccess = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionAttachFiles
)

// ControllerConfig carries the guild-level identifiers the controller needs.
type ControllerConfig struct {
	// StaffRoleID is the role allowed to claim and close tickets.
	StaffRoleID string

	// ParentCategoryID is the channel category new ticket channels are
	// created under. Optional; empty means the guild root.
	ParentCategoryID string

	// CloseDelay is the grace period before a closed ticket is archived and
	// deleted. Defaults to DefaultCloseDelay when zero.
	CloseDelay time.Duration
}

// Controller owns the ticket lifecycle: it creates ticket channels, applies
// the claim transition, and schedules the close grace period ending in
// archive-and-delete.
type Controller struct {
	session  Session
	store    *Store
	archiver *Archiver
	config   ControllerConfig

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewController creates a Controller operating through the given Session.
func NewController(session Session, store *Store, archiver *Archiver, config ControllerConfig) *Controller {
	if config.CloseDelay <= 0 {
		config.CloseDelay = DefaultCloseDelay
	}
	return &Controller{
		session:  session,
		store:    store,
		archiver: archiver,
		config:   config,
		timers:   map[string]*time.Timer{},
	}
}

// CloseDelay returns the configured close grace period.
func (c *Controller) CloseDelay() time.Duration {
	return c.config.CloseDelay
}

// Open creates a private ticket channel for the requester in the chosen
// category and posts the welcome message with the claim/close buttons.
// It returns ErrDuplicateTicket without side effects when the requester
// already has a live ticket.
func (c *Controller) Open(guildID string, requester *discordgo.User, categoryKey string) (*discordgo.Channel, error) {
	categoryName := CategoryName(categoryKey)

	if !c.store.Reserve(requester.ID) {
		return nil, ErrDuplicateTicket
	}

	record := &Ticket{
		OwnerID:      requester.ID,
		CategoryName: categoryName,
	}

	channel, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ChannelName(requester.ID),
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    record.Topic(requester.String()),
		ParentID: c.config.ParentCategoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    requester.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: memberAccess,
			},
			{
				ID:    c.config.StaffRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: memberAccess,
			},
		},
	})
	if err != nil {
		c.store.Release(requester.ID)
		return nil, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	record.ChannelID = channel.ID

	welcome, err := c.session.ChannelMessageSendComplex(channel.ID, welcomeMessage(requester.ID, c.config.StaffRoleID, categoryName))
	if err != nil {
		// The channel exists and is usable; the buttons are just missing.
		logger.Warnf("Failed to post welcome message to ticket channel %s: %+v", channel.ID, err)
	} else {
		record.WelcomeMessageID = welcome.ID
	}

	c.store.Put(record)
	return channel, nil
}

// Claim applies the claim transition: the actor takes ownership, uninvolved
// staff become read-only, and the welcome message's claim button is disabled.
// Returns ErrNotStaff or ErrAlreadyClaimed without side effects.
func (c *Controller) Claim(channelID string, actor *discordgo.Member) error {
	if !c.isStaff(actor) {
		return ErrNotStaff
	}

	record, channel, err := c.resolve(channelID)
	if err != nil {
		return err
	}

	// The topic marker check covers channels claimed before a restart.
	if record.Claimed() || claimedTopic(channel.Topic) {
		return ErrAlreadyClaimed
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   channel.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    c.config.StaffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel,
			Deny:  discordgo.PermissionSendMessages,
		},
		{
			ID:    actor.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAccess,
		},
	}

	owner := record.OwnerID
	if owner == "" {
		owner = ownerFromOverwrites(channel, c.config.StaffRoleID)
	}
	if owner == "" {
		// Requester not resolved; proceed without the explicit allow.
		logger.Warnf("Could not resolve the requester of ticket channel %s; claiming without a requester overwrite", channelID)
	} else if owner != actor.User.ID {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    owner,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAccess,
		})
	}

	topic := fmt.Sprintf("%s | %s: <@%s>", channel.Topic, claimMarker, actor.User.ID)
	_, err = c.session.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		Topic:                topic,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return fmt.Errorf("failed to apply claim to ticket channel %s: %w", channelID, err)
	}

	c.store.SetClaimed(channelID, actor.User.ID)
	c.disableClaimButton(channelID, record.WelcomeMessageID)
	return nil
}

// Close schedules the archive-and-delete step after the close grace period.
// A second close request while one is pending returns ErrClosePending; the
// already scheduled deletion stands.
func (c *Controller) Close(channelID string, actor *discordgo.Member) error {
	if !c.isStaff(actor) {
		return ErrNotStaff
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, pending := c.timers[channelID]; pending {
		return ErrClosePending
	}
	closer := actor.User
	c.timers[channelID] = time.AfterFunc(c.config.CloseDelay, func() {
		c.finalize(channelID, closer)
	})
	return nil
}

// CancelClose aborts a pending close, reporting whether one was scheduled.
func (c *Controller) CancelClose(channelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer, ok := c.timers[channelID]
	if !ok {
		return false
	}
	timer.Stop()
	delete(c.timers, channelID)
	return true
}

// Transcript exports the channel's conversation to the log destination
// without closing the ticket.
func (c *Controller) Transcript(channelID string, requester *discordgo.User) error {
	record, channel, err := c.resolve(channelID)
	if err != nil {
		return err
	}
	return c.archiver.Archive(channel, requester, record.CategoryName)
}

// finalize runs when the close grace period elapses: archive the transcript,
// delete the channel, drop the record. Failures are logged, never retried;
// deletion is attempted even when transcript delivery failed.
func (c *Controller) finalize(channelID string, closer *discordgo.User) {
	c.mu.Lock()
	delete(c.timers, channelID)
	c.mu.Unlock()

	record, channel, err := c.resolve(channelID)
	if err != nil {
		logger.Errorf("Failed to load ticket channel %s for archiving: %+v", channelID, err)
	} else if err := c.archiver.Archive(channel, closer, record.CategoryName); err != nil {
		logger.Warnf("Failed to archive ticket channel %s: %+v", channelID, err)
	}

	// Drop the record first so the owner can open a fresh ticket even when
	// the deletion below fails.
	c.store.Remove(channelID)
	if _, err := c.session.ChannelDelete(channelID); err != nil {
		logger.Errorf("Failed to delete ticket channel %s: %+v", channelID, err)
	}
}

func (c *Controller) isStaff(actor *discordgo.Member) bool {
	if actor == nil || actor.User == nil {
		return false
	}
	return slices.Contains(actor.Roles, c.config.StaffRoleID)
}

// resolve returns the ticket record and live channel for the given channel
// ID, reconstructing the record from channel metadata when the store has no
// entry, e.g. after a process restart.
func (c *Controller) resolve(channelID string) (Ticket, *discordgo.Channel, error) {
	channel, err := c.session.Channel(channelID)
	if err != nil {
		return Ticket{}, nil, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	if record, ok := c.store.Get(channelID); ok {
		return record, channel, nil
	}

	record := reconstruct(channel, c.config.StaffRoleID)
	c.store.Put(record)
	return *record, channel, nil
}

// reconstruct rebuilds a best-effort ticket record from live channel
// metadata. Topic parsing is lossy by design; anything unparsable degrades
// to a zero value or the fallback category label.
func reconstruct(channel *discordgo.Channel, staffRoleID string) *Ticket {
	record := &Ticket{
		ChannelID:    channel.ID,
		CategoryName: FallbackCategoryName,
	}

	if owner, ok := ownerFromChannelName(channel.Name); ok {
		record.OwnerID = owner
	} else {
		record.OwnerID = ownerFromOverwrites(channel, staffRoleID)
	}
	if name, ok := categoryFromTopic(channel.Topic); ok {
		record.CategoryName = name
	}
	if claimer, ok := claimerFromTopic(channel.Topic); ok {
		record.ClaimedBy = claimer
	}
	return record
}

// ownerFromOverwrites scans permission overwrites for a member subject with
// view access that is neither the staff role nor the guild itself. This is
// the last-resort owner recovery for malformed channels.
func ownerFromOverwrites(channel *discordgo.Channel, staffRoleID string) string {
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type != discordgo.PermissionOverwriteTypeMember {
			continue
		}
		if overwrite.ID == staffRoleID || overwrite.ID == channel.GuildID {
			continue
		}
		if overwrite.Allow&discordgo.PermissionViewChannel != 0 {
			return overwrite.ID
		}
	}
	return ""
}

// disableClaimButton rewrites the welcome message's components with the claim
// button disabled, leaving the close button active. Best effort: a missing
// welcome message only costs the visual cue, so failures are logged.
func (c *Controller) disableClaimButton(channelID, welcomeMessageID string) {
	messages, err := c.session.ChannelMessages(channelID, 10, "", "", "")
	if err != nil {
		logger.Warnf("Failed to fetch messages of ticket channel %s: %+v", channelID, err)
		return
	}

	var message *discordgo.Message
	for _, m := range messages {
		if welcomeMessageID != "" {
			if m.ID == welcomeMessageID {
				message = m
				break
			}
			continue
		}
		// Reconstructed record with no welcome message ID; take the most
		// recent message carrying components.
		if len(m.Components) > 0 {
			message = m
			break
		}
	}

	if message == nil {
		logger.Warnf("Welcome message of ticket channel %s not found; claim button left enabled", channelID)
		return
	}

	components := withClaimDisabled(message.Components)
	edit := discordgo.NewMessageEdit(channelID, message.ID)
	edit.Components = &components
	if _, err := c.session.ChannelMessageEditComplex(edit); err != nil {
		logger.Warnf("Failed to disable the claim button in ticket channel %s: %+v", channelID, err)
	}
}

// withClaimDisabled returns a copy of the component tree with the claim
// button disabled.
func withClaimDisabled(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	result := make([]discordgo.MessageComponent, 0, len(components))
	for _, component := range components {
		row, ok := component.(*discordgo.ActionsRow)
		if !ok {
			result = append(result, component)
			continue
		}

		rewritten := discordgo.ActionsRow{}
		for _, inner := range row.Components {
			if button, ok := inner.(*discordgo.Button); ok && button.CustomID == ClaimButtonID {
				disabled := *button
				disabled.Disabled = true
				rewritten.Components = append(rewritten.Components, &disabled)
				continue
			}
			rewritten.Components = append(rewritten.Components, inner)
		}
		result = append(result, rewritten)
	}
	return result
}

func welcomeMessage(requesterID, staffRoleID, categoryName string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s> <@&%s>", requesterID, staffRoleID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "🎫 Ticket Abierto - " + categoryName,
				Description: fmt.Sprintf(
					"¡Hola <@%s>! 👋\n\n"+
						"Has abierto un ticket en la categoría **%s**.\n\n"+
						"Un miembro del staff te atenderá pronto.\n\n"+
						"Por favor, explica tu situación con el mayor detalle posible.",
					requesterID, categoryName,
				),
				Color: embedColorBlue,
				Footer: &discordgo.MessageEmbedFooter{
					Text: "© Soporte | Tickets",
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Reclamar",
						Style:    discordgo.PrimaryButton,
						CustomID: ClaimButtonID,
					},
					discordgo.Button{
						Label:    "Cerrar",
						Style:    discordgo.DangerButton,
						CustomID: CloseButtonID,
					},
				},
			},
		},
	}
}
