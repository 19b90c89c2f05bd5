// Package discord provides a sarah.Adapter implementation for Discord.
//
// This package bridges go-sarah's bot framework with Discord using discordgo
// for the underlying API integration. It converts Discord message events into
// sarah.Input, dispatches sarah.Output as Discord messages, and forwards
// component interactions (select menus, buttons) to a registered
// InteractionHandler since those never pass through sarah's message pipeline.
package discord
