package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/nameserve/ticketbot/internal/ticket"
)

func TestPanelPattern(t *testing.T) {
	if !panelPattern.MatchString("!ticket") {
		t.Error("Expected !ticket to match")
	}
	if panelPattern.MatchString("ticket please") {
		t.Error("Expected a plain message not to match")
	}
}

func TestPanelMessage(t *testing.T) {
	panel := panelMessage()

	if len(panel.Embeds) != 1 {
		t.Fatalf("Expected one embed, got %d", len(panel.Embeds))
	}
	if panel.Embeds[0].Title == "" {
		t.Error("Expected the embed to carry a title")
	}

	if len(panel.Components) != 1 {
		t.Fatalf("Expected one component row, got %d", len(panel.Components))
	}
	row, ok := panel.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("Expected an ActionsRow, got %T", panel.Components[0])
	}
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	if !ok {
		t.Fatalf("Expected a SelectMenu, got %T", row.Components[0])
	}

	if menu.CustomID != ticket.CategoryMenuID {
		t.Errorf("Expected custom ID %q, got %q", ticket.CategoryMenuID, menu.CustomID)
	}
	if len(menu.Options) != len(ticket.Categories()) {
		t.Fatalf("Expected %d options, got %d", len(ticket.Categories()), len(menu.Options))
	}
	for i, category := range ticket.Categories() {
		option := menu.Options[i]
		if option.Value != category.Key {
			t.Errorf("Expected option %d value %q, got %q", i, category.Key, option.Value)
		}
		if option.Label != category.Name {
			t.Errorf("Expected option %d label %q, got %q", i, category.Name, option.Label)
		}
		if option.Emoji == nil || option.Emoji.Name != category.Emoji {
			t.Errorf("Expected option %d to carry the category emoji", i)
		}
	}
}
