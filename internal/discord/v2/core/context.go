package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext wraps a Discord interaction with the fields handlers route
// and reply on
type InteractionContext struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate

	UserID  string
	GuildID string

	// MessageID is the message a component is attached to (component interactions only)
	MessageID string

	Context context.Context

	subcommand string
	options    map[string]interface{}
	values     []string
}

// NewInteractionContext creates a new InteractionContext from a Discord interaction
func NewInteractionContext(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) *InteractionContext {
	ic := &InteractionContext{
		Session:     s,
		Interaction: i,
		GuildID:     i.GuildID,
		Context:     ctx,
		options:     make(map[string]interface{}),
	}

	// Member is set in guilds, User in DMs
	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}

	if i.Message != nil {
		ic.MessageID = i.Message.ID
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		ic.parseOptions(i.ApplicationCommandData().Options)
	case discordgo.InteractionMessageComponent:
		ic.values = i.MessageComponentData().Values
	}

	return ic
}

// parseOptions flattens subcommands and keeps the leaf option values
func (ic *InteractionContext) parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			// "/profile remove" has a subcommand without options
			ic.subcommand = opt.Name
			ic.parseOptions(opt.Options)
		default:
			ic.options[opt.Name] = opt.Value
		}
	}
}

// GetStringParam returns a string option, or "" when it was not given
func (ic *InteractionContext) GetStringParam(name string) string {
	s, _ := ic.options[name].(string)
	return s
}

// GetValues returns the selected values of a select menu interaction
func (ic *InteractionContext) GetValues() []string {
	return ic.values
}

func (ic *InteractionContext) IsCommand() bool {
	return ic.Interaction.Type == discordgo.InteractionApplicationCommand
}

func (ic *InteractionContext) IsComponent() bool {
	return ic.Interaction.Type == discordgo.InteractionMessageComponent
}

// GetCustomID returns the custom ID for component interactions
func (ic *InteractionContext) GetCustomID() string {
	if ic.IsComponent() {
		return ic.Interaction.MessageComponentData().CustomID
	}
	return ""
}

// GetCommandName returns the command name for slash commands
func (ic *InteractionContext) GetCommandName() string {
	if ic.IsCommand() {
		return ic.Interaction.ApplicationCommandData().Name
	}
	return ""
}

// GetSubcommand returns the innermost subcommand, if any
func (ic *InteractionContext) GetSubcommand() string {
	return ic.subcommand
}

type responderKey struct{}

// SetResponder stores the responder used to answer this interaction
func (ic *InteractionContext) SetResponder(r InteractionResponder) {
	ic.WithValue(responderKey{}, r)
}

// Responder returns the responder for this interaction, or nil outside a pipeline
func (ic *InteractionContext) Responder() InteractionResponder {
	r, _ := ic.Value(responderKey{}).(InteractionResponder)
	return r
}

// WithValue adds a value to the context
func (ic *InteractionContext) WithValue(key, val interface{}) {
	ic.Context = context.WithValue(ic.Context, key, val)
}

// Value retrieves a value from the context
func (ic *InteractionContext) Value(key interface{}) interface{} {
	return ic.Context.Value(key)
}
