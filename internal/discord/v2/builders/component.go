package builders

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
)

// Profile select menu actions and values
const (
	ProfileDomain        = "profile"
	ProfileViewAction    = "view"
	ProfileExpiredAction = "expired"

	ProfileViewValue = "profile"
	ArmyViewValue    = "army"
)

var profileIDs = core.NewCustomIDBuilder(ProfileDomain)

// SelectBuilder builds a single select menu in its own action row
type SelectBuilder struct {
	menu discordgo.SelectMenu
}

// NewSelect starts a select menu routed to action in the profile domain
func NewSelect(action, placeholder string) *SelectBuilder {
	return &SelectBuilder{menu: discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    profileIDs.Select(action),
		Placeholder: placeholder,
	}}
}

// Option appends an option; emoji may be empty
func (b *SelectBuilder) Option(label, value, description, emoji string, selected bool) *SelectBuilder {
	option := discordgo.SelectMenuOption{
		Label:       label,
		Value:       value,
		Description: description,
		Default:     selected,
	}
	if emoji != "" {
		option.Emoji = &discordgo.ComponentEmoji{Name: emoji}
	}
	b.menu.Options = append(b.menu.Options, option)
	return b
}

// Single requires exactly one choice
func (b *SelectBuilder) Single() *SelectBuilder {
	one := 1
	b.menu.MinValues = &one
	b.menu.MaxValues = 1
	return b
}

func (b *SelectBuilder) Disabled(disabled bool) *SelectBuilder {
	b.menu.Disabled = disabled
	return b
}

func (b *SelectBuilder) Build() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{b.menu}},
	}
}

// ProfileSelect builds the view selector with active marked as the default option.
// A disabled selector is shown while a view is loading.
func ProfileSelect(active string, disabled bool) []discordgo.MessageComponent {
	return NewSelect(ProfileViewAction, "Select a view").
		Option("Profile", ProfileViewValue, "In-game stats and experience", "👤", active == ProfileViewValue).
		Option("Army", ArmyViewValue, "Heroes, troops and spells", "⚔️", active == ArmyViewValue).
		Single().
		Disabled(disabled).
		Build()
}

// ExpiredSelect replaces the view selector once its session has ended
func ExpiredSelect() []discordgo.MessageComponent {
	return NewSelect(ProfileExpiredAction, "This menu has expired").
		Option("Expired", "expired", "", "", true).
		Disabled(true).
		Build()
}
