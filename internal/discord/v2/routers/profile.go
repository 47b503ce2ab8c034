package routers

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/builders"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/selection"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
	"github.com/KirkDiggler/clash-profile-bot/internal/services/profile"
)

// User-facing replies of the profile command
const (
	NoDefaultMessage      = "You have not set a default profile. To do so type `/profile save <player tag>`"
	SavedMessageFormat    = "I have successfully saved your profile %s as the default one!"
	RemovedMessage        = "I have removed your default profile."
	NothingRemovedMessage = "You don't have a default profile to remove!"
	LookupErrorFormat     = "An error occured: %v"
)

// ProfileRouterConfig holds configuration for the profile router
type ProfileRouterConfig struct {
	Service  profile.Service    // Required
	Sessions *selection.Manager // Required
	Logger   *zap.Logger        // Optional
	// Middleware applied to the profile routes only, e.g. rate limiting
	Middleware []core.Middleware
}

// ProfileRouter handles the /profile command and its selector
type ProfileRouter struct {
	router   *core.Router
	service  profile.Service
	sessions *selection.Manager
	logger   *zap.Logger
}

// NewProfileRouter creates the router and registers it with the pipeline
func NewProfileRouter(pipeline *core.Pipeline, cfg *ProfileRouterConfig) *ProfileRouter {
	if cfg.Service == nil {
		panic("profile service is required")
	}
	if cfg.Sessions == nil {
		panic("session manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := core.NewRouter(builders.ProfileDomain, pipeline)
	router.Use(cfg.Middleware...)

	pr := &ProfileRouter{
		router:   router,
		service:  cfg.Service,
		sessions: cfg.Sessions,
		logger:   logger.Named("profile"),
	}

	pr.registerRoutes()
	router.Register()

	return pr
}

func (r *ProfileRouter) registerRoutes() {
	r.router.SubcommandFunc("show", r.handleShow)
	r.router.SubcommandFunc("save", r.handleSave)
	r.router.SubcommandFunc("remove", r.handleRemove)

	r.router.ComponentFunc(builders.ProfileViewAction, r.handleView)
}

// handleShow looks up a player and opens a selector on a public reply
func (r *ProfileRouter) handleShow(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	r.logInvocation(ctx)

	tag, err := r.service.ResolveTag(ctx.Context, ctx.UserID, ctx.GetStringParam("tag"))
	if err != nil {
		if apperr.IsNotFound(err) {
			return ephemeral(NoDefaultMessage), nil
		}
		return nil, core.NewInternalError(err)
	}

	found, result, err := r.lookup(ctx, tag)
	if found == nil {
		return result, err
	}

	responder := ctx.Responder()
	if responder == nil {
		return nil, core.NewInternalError(fmt.Errorf("no responder attached to interaction"))
	}
	if err := responder.Defer(false); err != nil {
		return nil, core.NewSilentError(fmt.Errorf("failed to defer profile reply: %w", err))
	}

	verified, err := r.service.IsVerified(ctx.Context, found.Tag, ctx.UserID)
	if err != nil {
		// Unverified is a display detail, the profile still renders
		r.logger.Warn("verification check failed",
			zap.String("tag", found.Tag),
			zap.String("user_id", ctx.UserID),
			zap.Error(err))
	}

	_, err = r.sessions.Start(ctx.Context, &selection.StartInput{
		Responder: responder,
		OwnerID:   ctx.UserID,
		Player:    found.Player,
		Verified:  verified,
	})
	if err != nil {
		return nil, core.NewSilentError(fmt.Errorf("failed to start profile selector: %w", err))
	}

	return nil, nil
}

// handleSave stores a validated tag as the user's default
func (r *ProfileRouter) handleSave(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	r.logInvocation(ctx)

	tag, err := r.service.SaveDefault(ctx.Context, ctx.UserID, ctx.GetStringParam("tag"))
	if err != nil {
		if result, ok := lookupFailure(err); ok {
			return result, nil
		}
		return nil, core.NewInternalError(err)
	}

	return ephemeral(fmt.Sprintf(SavedMessageFormat, entities.DisplayTag(tag))), nil
}

// handleRemove deletes the user's default
func (r *ProfileRouter) handleRemove(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	r.logInvocation(ctx)

	existed, err := r.service.RemoveDefault(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, core.NewInternalError(err)
	}

	if !existed {
		return ephemeral(NothingRemovedMessage), nil
	}
	return ephemeral(RemovedMessage), nil
}

// handleView forwards a selection to the session bound to the message
func (r *ProfileRouter) handleView(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	session, ok := r.sessions.Get(ctx.MessageID)
	if !ok {
		return ephemeral(selection.ExpiredMessage), nil
	}

	var value string
	if values := ctx.GetValues(); len(values) > 0 {
		value = values[0]
	}

	err := session.Submit(ctx.Context, &selection.Event{
		ActorID:   ctx.UserID,
		Value:     value,
		Responder: ctx.Responder(),
	})
	if errors.Is(err, selection.ErrSessionExpired) {
		return ephemeral(selection.ExpiredMessage), nil
	}
	if err != nil {
		return nil, core.NewSilentError(err)
	}

	return nil, nil
}

// lookup fetches the player, or returns the reply explaining why it could not
func (r *ProfileRouter) lookup(ctx *core.InteractionContext, tag string) (*profile.LookupOutput, *core.HandlerResult, error) {
	found, err := r.service.Lookup(ctx.Context, tag)
	if err == nil {
		return found, nil, nil
	}

	if result, ok := lookupFailure(err); ok {
		return nil, result, nil
	}
	return nil, nil, core.NewInternalError(err)
}

func (r *ProfileRouter) logInvocation(ctx *core.InteractionContext) {
	r.logger.Info("profile command",
		zap.String("user_id", ctx.UserID),
		zap.String("subcommand", ctx.GetSubcommand()))
}

// lookupFailure maps tag and lookup errors to the reply the user sees
func lookupFailure(err error) (*core.HandlerResult, bool) {
	switch {
	case apperr.IsInvalidArgument(err), apperr.IsNotFound(err):
		return &core.HandlerResult{
			Response: &core.Response{
				Embeds:    []*discordgo.MessageEmbed{builders.InvalidTagEmbed()},
				Ephemeral: true,
			},
		}, true
	case apperr.IsUnavailable(err):
		return ephemeral(fmt.Sprintf(LookupErrorFormat, err)), true
	default:
		return nil, false
	}
}

func ephemeral(content string) *core.HandlerResult {
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse(content),
	}
}

// ProfileCommand is the /profile definition registered with Discord
func ProfileCommand() *discordgo.ApplicationCommand {
	contexts := []discordgo.InteractionContextType{
		discordgo.InteractionContextGuild,
		discordgo.InteractionContextBotDM,
		discordgo.InteractionContextPrivateChannel,
	}
	integrations := []discordgo.ApplicationIntegrationType{
		discordgo.ApplicationIntegrationGuildInstall,
		discordgo.ApplicationIntegrationUserInstall,
	}

	return &discordgo.ApplicationCommand{
		Name:             builders.ProfileDomain,
		Description:      "Show or manage your Clash of Clans profile",
		Contexts:         &contexts,
		IntegrationTypes: &integrations,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "show",
				Description: "Show a player profile",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "tag",
						Description: "Player tag, defaults to your saved profile",
						Required:    false,
					},
				},
			},
			{
				Name:        "save",
				Description: "Save a player tag as your default profile",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "tag",
						Description: "Player tag",
						Required:    true,
					},
				},
			},
			{
				Name:        "remove",
				Description: "Remove your default profile",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}
