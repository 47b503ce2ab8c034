package entities

import (
	"regexp"
)

// Village identifies which base a unit belongs to
type Village string

const (
	VillageHome        Village = "home"
	VillageBuilderBase Village = "builderBase"
	VillageClanCapital Village = "clanCapital"
)

// IconURLs holds the sized icon variants served by the lookup API
type IconURLs struct {
	Tiny   string `json:"tiny,omitempty"`
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// PlayerClan is the clan summary embedded in a player profile
type PlayerClan struct {
	Tag       string   `json:"tag"`
	Name      string   `json:"name"`
	ClanLevel int      `json:"clanLevel"`
	BadgeURLs IconURLs `json:"badgeUrls"`
}

// League is the player's current trophy league
type League struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	IconURLs IconURLs `json:"iconUrls"`
}

// Label is a player-chosen profile label
type Label struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	IconURLs IconURLs `json:"iconUrls"`
}

// Unit is a troop, hero or spell with its upgrade level
type Unit struct {
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	MaxLevel int     `json:"maxLevel"`
	Village  Village `json:"village"`
}

// IsMaxed reports whether the unit is at its max level
func (u Unit) IsMaxed() bool {
	return u.MaxLevel > 0 && u.Level >= u.MaxLevel
}

// Player is a snapshot of a game profile returned by the lookup API
type Player struct {
	Tag                 string      `json:"tag"`
	Name                string      `json:"name"`
	TownHallLevel       int         `json:"townHallLevel"`
	TownHallWeaponLevel int         `json:"townHallWeaponLevel,omitempty"`
	ExpLevel            int         `json:"expLevel"`
	Trophies            int         `json:"trophies"`
	BestTrophies        int         `json:"bestTrophies"`
	WarStars            int         `json:"warStars"`
	AttackWins          int         `json:"attackWins"`
	DefenseWins         int         `json:"defenseWins"`
	BuilderHallLevel    int         `json:"builderHallLevel,omitempty"`
	BuilderBaseTrophies int         `json:"builderBaseTrophies,omitempty"`
	Role                string      `json:"role,omitempty"`
	WarPreference       string      `json:"warPreference,omitempty"`
	Donations           int         `json:"donations"`
	DonationsReceived   int         `json:"donationsReceived"`
	Clan                *PlayerClan `json:"clan,omitempty"`
	League              *League     `json:"league,omitempty"`
	Troops              []Unit      `json:"troops,omitempty"`
	Heroes              []Unit      `json:"heroes,omitempty"`
	Spells              []Unit      `json:"spells,omitempty"`
	Labels              []Label     `json:"labels,omitempty"`
}

var unsafeTagChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// SanitizedTag returns the tag with everything outside [a-zA-Z0-9-_] removed,
// which is the form used in image file names and image service paths
func (p *Player) SanitizedTag() string {
	if p == nil {
		return ""
	}
	return unsafeTagChars.ReplaceAllString(p.Tag, "")
}

// InClan reports whether the player currently belongs to a clan
func (p *Player) InClan() bool {
	return p != nil && p.Clan != nil && p.Clan.Tag != ""
}

// HomeTroops returns the home village troops
func (p *Player) HomeTroops() []Unit {
	return filterVillage(p.Troops, VillageHome)
}

// HomeHeroes returns the home village heroes
func (p *Player) HomeHeroes() []Unit {
	return filterVillage(p.Heroes, VillageHome)
}

// HomeSpells returns the home village spells
func (p *Player) HomeSpells() []Unit {
	return filterVillage(p.Spells, VillageHome)
}

func filterVillage(units []Unit, village Village) []Unit {
	var out []Unit
	for _, u := range units {
		// Spells carry no village in some payloads; they only exist at home
		if u.Village == village || (u.Village == "" && village == VillageHome) {
			out = append(out, u)
		}
	}
	return out
}
