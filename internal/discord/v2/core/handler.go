package core

import (
	"github.com/bwmarrin/discordgo"
)

// Handler processes the interactions it accepts
type Handler interface {
	// CanHandle reports whether Handle should run for the interaction
	CanHandle(ctx *InteractionContext) bool

	Handle(ctx *InteractionContext) (*HandlerResult, error)
}

// HandlerFunc adapts a function to Handler. It accepts every interaction,
// so routing is left to whatever registered it.
type HandlerFunc func(ctx *InteractionContext) (*HandlerResult, error)

func (f HandlerFunc) CanHandle(*InteractionContext) bool {
	return true
}

func (f HandlerFunc) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return f(ctx)
}

// HandlerResult is what the pipeline sends back for a handler. A nil result,
// or one without a Response, means the handler answered on its own.
type HandlerResult struct {
	Response *Response

	// Deferred sends Response as an edit of the deferred reply
	Deferred bool
}

// Response is a reply or an edit of the interaction's message
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Files      []*discordgo.File

	// Ephemeral replies are only visible to the invoking user
	Ephemeral bool

	// ReplaceFiles drops attachments already on the message when editing,
	// so only Files remain
	ReplaceFiles bool
}

// NewResponse creates a public text reply
func NewResponse(content string) *Response {
	return &Response{Content: content}
}

// NewEphemeralResponse creates a text reply only the invoking user sees
func NewEphemeralResponse(content string) *Response {
	return &Response{Content: content, Ephemeral: true}
}

// NewEmbedResponse creates a public reply with one embed
func NewEmbedResponse(embed *discordgo.MessageEmbed) *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{embed}}
}

func (r *Response) WithComponents(components ...discordgo.MessageComponent) *Response {
	r.Components = components
	return r
}

func (r *Response) WithFiles(files ...*discordgo.File) *Response {
	r.Files = files
	return r
}

// WithReplacedFiles replaces every attachment on the edited message with files
func (r *Response) WithReplacedFiles(files ...*discordgo.File) *Response {
	r.Files = files
	r.ReplaceFiles = true
	return r
}
