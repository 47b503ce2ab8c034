package builders

import (
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// ProfileEmbedInput carries everything a profile or army embed renders
type ProfileEmbedInput struct {
	Player   *entities.Player
	Verified bool

	// ExpiresAt adds a live countdown when set
	ExpiresAt *time.Time

	// Attachment file names referenced by the embed images
	ImageFile     string
	ThumbnailFile string
}

// ProfileEmbed renders the profile view of a player
func ProfileEmbed(input *ProfileEmbedInput) *discordgo.MessageEmbed {
	p := input.Player

	b := NewEmbed().
		Title(profileTitle(p, input.Verified)).
		URL(openInGameURL(p)).
		Color(profileColor(input.Verified)).
		Description(profileDescription(p, input.ExpiresAt))

	b.Field("Town Hall", townHall(p), true)
	b.Field("Experience", fmt.Sprintf("Level %d", p.ExpLevel), true)
	b.Field("Trophies", fmt.Sprintf("%s (best %s)", number(p.Trophies), number(p.BestTrophies)), true)
	b.Field("War Stars", number(p.WarStars), true)
	b.Field("Attack Wins", number(p.AttackWins), true)
	b.Field("Defense Wins", number(p.DefenseWins), true)
	b.Field("Donations", fmt.Sprintf("%s given / %s received", number(p.Donations), number(p.DonationsReceived)), false)

	if p.InClan() {
		b.Field("Clan", clanLine(p), false)
	}
	if p.BuilderHallLevel > 0 {
		b.Field("Builder Base", fmt.Sprintf("BH%d • %s trophies", p.BuilderHallLevel, number(p.BuilderBaseTrophies)), false)
	}

	if input.ImageFile != "" {
		b.Image(AttachmentURL(input.ImageFile))
	}
	if input.ThumbnailFile != "" {
		b.Thumbnail(AttachmentURL(input.ThumbnailFile))
	}

	return b.Build()
}

// TroopShowcaseEmbed renders the army view of a player
func TroopShowcaseEmbed(input *ProfileEmbedInput) *discordgo.MessageEmbed {
	p := input.Player

	b := NewEmbed().
		Title(profileTitle(p, input.Verified)).
		URL(openInGameURL(p)).
		Color(profileColor(input.Verified)).
		Description(profileDescription(p, input.ExpiresAt))

	b.Field("Heroes", unitProgress(p.HomeHeroes()), true)
	b.Field("Troops", unitProgress(p.HomeTroops()), true)
	b.Field("Spells", unitProgress(p.HomeSpells()), true)

	if input.ImageFile != "" {
		b.Image(AttachmentURL(input.ImageFile))
	}

	return b.Build()
}

// LoadingEmbed is shown on the shared message while a view renders
func LoadingEmbed() *discordgo.MessageEmbed {
	return NewEmbed().
		Title("Loading...").
		Description("Fetching the latest images, this only takes a moment.").
		Color(ColorInfo).
		Build()
}

// InvalidTagEmbed tells the user a tag is malformed or unknown
func InvalidTagEmbed() *discordgo.MessageEmbed {
	return ErrorEmbed("Invalid tag",
		"That player tag does not exist. Player tags look like `#2PP` and can be found on your in-game profile.").
		Build()
}

// NotYourInteractionEmbed tells a user the menu belongs to someone else
func NotYourInteractionEmbed() *discordgo.MessageEmbed {
	return WarningEmbed("Not your profile",
		"Only the person who ran this command can switch views. Use `/profile show` to get your own.").
		Build()
}

// AttachmentURL references an uploaded file from inside an embed
func AttachmentURL(fileName string) string {
	return "attachment://" + fileName
}

func profileTitle(p *entities.Player, verified bool) string {
	title := fmt.Sprintf("%s (%s)", p.Name, p.Tag)
	if verified {
		title = "✅ " + title
	}
	return title
}

func profileColor(verified bool) int {
	if verified {
		return ColorGold
	}
	return ColorPrimary
}

func profileDescription(p *entities.Player, expiresAt *time.Time) string {
	var lines []string
	if p.League != nil && p.League.Name != "" {
		lines = append(lines, p.League.Name)
	}
	if expiresAt != nil {
		lines = append(lines, fmt.Sprintf("Menu expires <t:%d:R>", expiresAt.Unix()))
	}
	return strings.Join(lines, "\n")
}

func openInGameURL(p *entities.Player) string {
	return "https://link.clashofclans.com/en?action=OpenPlayerProfile&tag=" + p.SanitizedTag()
}

func townHall(p *entities.Player) string {
	if p.TownHallWeaponLevel > 0 {
		return fmt.Sprintf("TH%d (weapon %d)", p.TownHallLevel, p.TownHallWeaponLevel)
	}
	return fmt.Sprintf("TH%d", p.TownHallLevel)
}

func clanLine(p *entities.Player) string {
	line := fmt.Sprintf("%s (%s) • level %d", p.Clan.Name, p.Clan.Tag, p.Clan.ClanLevel)
	if p.Role != "" {
		line += " • " + clanRole(p.Role)
	}
	return line
}

// clanRole maps the API role names to the ones shown in game
func clanRole(role string) string {
	switch role {
	case "leader":
		return "Leader"
	case "coLeader":
		return "Co-Leader"
	case "admin":
		return "Elder"
	case "member":
		return "Member"
	default:
		return role
	}
}

func unitProgress(units []entities.Unit) string {
	if len(units) == 0 {
		return "None"
	}

	maxed := 0
	for _, u := range units {
		if u.IsMaxed() {
			maxed++
		}
	}
	return fmt.Sprintf("%d/%d maxed", maxed, len(units))
}

func number(n int) string {
	return numbers.Sprintf("%d", n)
}
