package builders

import (
	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	ColorError   = 0xe74c3c
	ColorWarning = 0xf1c40f
	ColorInfo    = 0x3498db
	ColorPrimary = 0x7289da
	ColorGold    = 0xe8a824 // verified profiles
)

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new rich embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

// URL makes the title a link
func (b *EmbedBuilder) URL(url string) *EmbedBuilder {
	b.embed.URL = url
	return b
}

func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Image sets the large image, usually an attachment:// reference
func (b *EmbedBuilder) Image(url string) *EmbedBuilder {
	b.embed.Image = &discordgo.MessageEmbedImage{URL: url}
	return b
}

// Thumbnail sets the small top-right image
func (b *EmbedBuilder) Thumbnail(url string) *EmbedBuilder {
	b.embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	return b
}

// Field appends a field; empty values are skipped since Discord rejects them
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	if value == "" {
		return b
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

// ErrorEmbed starts a red notice
func ErrorEmbed(title, description string) *EmbedBuilder {
	return notice("❌ "+title, description, ColorError)
}

// WarningEmbed starts a yellow notice
func WarningEmbed(title, description string) *EmbedBuilder {
	return notice("⚠️ "+title, description, ColorWarning)
}

func notice(title, description string, color int) *EmbedBuilder {
	return NewEmbed().
		Title(title).
		Description(description).
		Color(color)
}
