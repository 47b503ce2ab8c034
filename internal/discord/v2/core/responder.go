package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// InteractionResponder answers one interaction
type InteractionResponder interface {
	// Defer acknowledges a command; the reply is sent later with Edit
	Defer(ephemeral bool) error

	// DeferUpdate acknowledges a component interaction; the message it is attached
	// to becomes the response that Edit modifies
	DeferUpdate() error

	// Respond sends the first reply
	Respond(response *Response) error

	// Edit changes the reply (or the component's message after DeferUpdate)
	Edit(response *Response) (*discordgo.Message, error)

	// HasResponded reports whether a reply or acknowledgement was sent
	HasResponded() bool

	IsDeferred() bool
}

// DiscordResponder implements InteractionResponder with a discordgo session
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
	responded   bool
	deferred    bool
}

func NewDiscordResponder(s *discordgo.Session, i *discordgo.InteractionCreate) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

func (r *DiscordResponder) Defer(ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	return r.acknowledge(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
}

func (r *DiscordResponder) DeferUpdate() error {
	return r.acknowledge(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (r *DiscordResponder) acknowledge(resp *discordgo.InteractionResponse) error {
	if r.responded {
		return fmt.Errorf("interaction already responded to")
	}

	if err := r.session.InteractionRespond(r.interaction.Interaction, resp); err != nil {
		return err
	}

	r.deferred = true
	r.responded = true
	return nil
}

// Respond sends the first reply, or edits it when one was already sent
func (r *DiscordResponder) Respond(response *Response) error {
	if r.responded {
		_, err := r.Edit(response)
		return err
	}

	data := &discordgo.InteractionResponseData{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: response.Components,
		Files:      response.Files,
	}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err == nil {
		r.responded = true
	}

	return err
}

// Edit updates a previous response. Only the parts set on response are changed,
// so an edit carrying just Components leaves content and embeds alone.
func (r *DiscordResponder) Edit(response *Response) (*discordgo.Message, error) {
	if !r.responded {
		return nil, fmt.Errorf("cannot edit before responding")
	}

	return r.session.InteractionResponseEdit(r.interaction.Interaction, BuildWebhookEdit(response))
}

// BuildWebhookEdit converts a Response to a partial message edit
func BuildWebhookEdit(response *Response) *discordgo.WebhookEdit {
	webhook := &discordgo.WebhookEdit{
		Files: response.Files,
	}

	if response.Content != "" {
		webhook.Content = &response.Content
	}
	if response.Embeds != nil {
		webhook.Embeds = &response.Embeds
	}
	if response.Components != nil {
		webhook.Components = &response.Components
	}
	if response.ReplaceFiles {
		webhook.Attachments = &[]*discordgo.MessageAttachment{}
	}

	return webhook
}

func (r *DiscordResponder) HasResponded() bool {
	return r.responded
}

func (r *DiscordResponder) IsDeferred() bool {
	return r.deferred
}
