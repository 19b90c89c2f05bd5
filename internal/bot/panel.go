package bot

import (
	"context"
	"regexp"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/nameserve/ticketbot/internal/discord"
	"github.com/nameserve/ticketbot/internal/ticket"
)

var panelPattern = regexp.MustCompile(`^!ticket`)

// RegisterPanelCommand registers the !ticket command, which posts the support
// panel: a branded embed plus the category select menu that opens tickets.
func RegisterPanelCommand() {
	props := sarah.NewCommandPropsBuilder().
		BotType(discord.DISCORD).
		Identifier("ticket-panel").
		MatchPattern(panelPattern).
		Func(func(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
			// The panel only works in a guild channel; a DM has nowhere to
			// create ticket channels.
			if in, ok := input.(*discord.Input); !ok || in.Event.GuildID == "" {
				return nil, nil
			}
			return discord.NewResponse(input, panelMessage())
		}).
		Instruction("Input !ticket to post the support panel with the category menu.").
		MustBuild()

	sarah.RegisterCommandProps(props)
}

func panelMessage() *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(ticket.Categories()))
	for _, category := range ticket.Categories() {
		options = append(options, discordgo.SelectMenuOption{
			Label:       category.Name,
			Value:       category.Key,
			Description: "Consulta relacionada a: " + category.Name,
			Emoji:       &discordgo.ComponentEmoji{Name: category.Emoji},
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "🎫 Soporte | Tickets",
				Description: "Bienvenido al sistema oficial de soporte.\n\n" +
					"Selecciona la categoría que mejor describa tu situación. " +
					"Nuestro equipo de soporte te atenderá lo antes posible.\n\n" +
					"> Recuerda: Abusar del sistema de tickets puede resultar en sanciones.",
				Color: 0x0099FF,
				Footer: &discordgo.MessageEmbedFooter{
					Text: "© Soporte | Tickets",
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    ticket.CategoryMenuID,
						Placeholder: "Selecciona una categoría...",
						Options:     options,
					},
				},
			},
		},
	}
}
