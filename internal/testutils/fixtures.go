package testutils

import (
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

// Discord snowflakes used across tests
const (
	TestOwnerID    = "112233445566778899"
	TestStrangerID = "998877665544332211"
	TestMessageID  = "123456789012345678"
	TestChannelID  = "223456789012345678"
	TestGuildID    = "323456789012345678"
)

// CreateTestPlayer creates a player snapshot with a home army
func CreateTestPlayer(tag, name string) *entities.Player {
	return &entities.Player{
		Tag:               entities.DisplayTag(tag),
		Name:              name,
		TownHallLevel:     15,
		ExpLevel:          212,
		Trophies:          5123,
		BestTrophies:      5544,
		WarStars:          1337,
		AttackWins:        42,
		DefenseWins:       7,
		Donations:         12500,
		DonationsReceived: 8000,
		Clan: &entities.PlayerClan{
			Tag:       "#2Y8GRJ",
			Name:      "Test Clan",
			ClanLevel: 20,
		},
		League: &entities.League{ID: 29000022, Name: "Legend League"},
		Troops: []entities.Unit{
			{Name: "Barbarian", Level: 12, MaxLevel: 12, Village: entities.VillageHome},
			{Name: "Archer", Level: 11, MaxLevel: 12, Village: entities.VillageHome},
			{Name: "Raged Barbarian", Level: 18, MaxLevel: 20, Village: entities.VillageBuilderBase},
		},
		Heroes: []entities.Unit{
			{Name: "Barbarian King", Level: 90, MaxLevel: 95, Village: entities.VillageHome},
		},
		Spells: []entities.Unit{
			{Name: "Rage Spell", Level: 6, MaxLevel: 6},
		},
	}
}
