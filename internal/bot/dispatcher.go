// Package bot wires Discord-facing surfaces to the ticket lifecycle: the
// panel command posting the category menu, and the dispatcher routing
// component interactions to the controller.
package bot

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"

	"github.com/nameserve/ticketbot/internal/ticket"
)

// responder abstracts the discordgo.Session methods used to acknowledge
// interactions, so the dispatcher can be tested against a fake.
// *discordgo.Session satisfies this interface.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Dispatcher routes component interactions to ticket lifecycle operations.
// Unrecognized component IDs are ignored, not errors: other features may
// share the same gateway connection.
type Dispatcher struct {
	responder  responder
	controller *ticket.Controller
}

// NewDispatcher creates a Dispatcher replying through the given session.
func NewDispatcher(session *discordgo.Session, controller *ticket.Controller) *Dispatcher {
	return &Dispatcher{
		responder:  session,
		controller: controller,
	}
}

// HandleInteraction is the discord.InteractionHandler entry point.
func (d *Dispatcher) HandleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	// Ticket interactions only make sense inside a guild.
	if i.Member == nil || i.Member.User == nil {
		return
	}

	data := i.MessageComponentData()
	switch data.CustomID {
	case ticket.CategoryMenuID:
		d.handleOpen(i, data.Values)
	case ticket.ClaimButtonID:
		d.handleClaim(i)
	case ticket.CloseButtonID:
		d.handleClose(i)
	case ticket.TranscriptButtonID:
		d.handleTranscript(i)
	}
}

func (d *Dispatcher) handleOpen(i *discordgo.InteractionCreate, values []string) {
	if len(values) == 0 {
		return
	}

	// Channel creation can outlast the interaction acknowledgement window,
	// so defer first and edit the reply afterwards.
	err := d.responder.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Errorf("Failed to acknowledge the ticket menu interaction: %+v", err)
		return
	}

	channel, err := d.controller.Open(i.GuildID, i.Member.User, values[0])
	switch {
	case errors.Is(err, ticket.ErrDuplicateTicket):
		d.editReply(i, "❗ Ya tienes un ticket abierto. Usa el ticket existente.")
	case err != nil:
		logger.Errorf("Failed to open a ticket for user %s: %+v", i.Member.User.ID, err)
		d.editReply(i, "❌ No se pudo crear el ticket. Inténtalo de nuevo más tarde.")
	default:
		d.editReply(i, fmt.Sprintf("✅ ¡Tu ticket ha sido creado! <#%s>", channel.ID))
	}
}

func (d *Dispatcher) handleClaim(i *discordgo.InteractionCreate) {
	err := d.controller.Claim(i.ChannelID, i.Member)
	switch {
	case errors.Is(err, ticket.ErrNotStaff):
		d.reply(i, "❌ Solo el staff puede reclamar tickets.", true)
	case errors.Is(err, ticket.ErrAlreadyClaimed):
		d.reply(i, "❗ Este ticket ya fue reclamado.", true)
	case err != nil:
		logger.Errorf("Failed to claim ticket channel %s: %+v", i.ChannelID, err)
		d.reply(i, "❌ No se pudo reclamar el ticket.", true)
	default:
		d.reply(i, fmt.Sprintf("🎟️ Ticket reclamado por <@%s>.", i.Member.User.ID), false)
	}
}

func (d *Dispatcher) handleClose(i *discordgo.InteractionCreate) {
	err := d.controller.Close(i.ChannelID, i.Member)
	switch {
	case errors.Is(err, ticket.ErrNotStaff):
		d.reply(i, "❌ Solo el staff puede cerrar los tickets.", true)
	case errors.Is(err, ticket.ErrClosePending):
		d.reply(i, "❗ El cierre de este ticket ya está en curso.", true)
	case err != nil:
		logger.Errorf("Failed to close ticket channel %s: %+v", i.ChannelID, err)
		d.reply(i, "❌ No se pudo cerrar el ticket.", true)
	default:
		seconds := int(d.controller.CloseDelay().Seconds())
		d.reply(i, fmt.Sprintf("✅ Este ticket se cerrará en %d segundos...", seconds), false)
	}
}

func (d *Dispatcher) handleTranscript(i *discordgo.InteractionCreate) {
	err := d.responder.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Errorf("Failed to acknowledge the transcript interaction: %+v", err)
		return
	}

	if err := d.controller.Transcript(i.ChannelID, i.Member.User); err != nil {
		logger.Errorf("Failed to export a transcript of channel %s: %+v", i.ChannelID, err)
		d.editReply(i, "❌ No se pudo enviar el transcript al canal de registros.")
		return
	}
	d.editReply(i, "📄 Transcript enviado al canal de registros.")
}

func (d *Dispatcher) reply(i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content: content,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := d.responder.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.Errorf("Failed to respond to an interaction in channel %s: %+v", i.ChannelID, err)
	}
}

func (d *Dispatcher) editReply(i *discordgo.InteractionCreate, content string) {
	_, err := d.responder.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		logger.Errorf("Failed to edit an interaction reply in channel %s: %+v", i.ChannelID, err)
	}
}
