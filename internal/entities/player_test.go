package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_SanitizedTag(t *testing.T) {
	p := &Player{Tag: "#2PQ-L_V9!"}
	assert.Equal(t, "2PQ-L_V9", p.SanitizedTag())

	var nilPlayer *Player
	assert.Equal(t, "", nilPlayer.SanitizedTag())
}

func TestPlayer_HomeUnits(t *testing.T) {
	p := &Player{
		Troops: []Unit{
			{Name: "Barbarian", Level: 9, MaxLevel: 12, Village: VillageHome},
			{Name: "Raged Barbarian", Level: 18, MaxLevel: 20, Village: VillageBuilderBase},
		},
		Heroes: []Unit{
			{Name: "Barbarian King", Level: 80, MaxLevel: 95, Village: VillageHome},
			{Name: "Battle Machine", Level: 30, MaxLevel: 35, Village: VillageBuilderBase},
		},
		Spells: []Unit{
			{Name: "Lightning Spell", Level: 10, MaxLevel: 11},
		},
	}

	assert.Len(t, p.HomeTroops(), 1)
	assert.Equal(t, "Barbarian", p.HomeTroops()[0].Name)
	assert.Len(t, p.HomeHeroes(), 1)
	assert.Len(t, p.HomeSpells(), 1)
}

func TestUnit_IsMaxed(t *testing.T) {
	assert.True(t, Unit{Level: 12, MaxLevel: 12}.IsMaxed())
	assert.False(t, Unit{Level: 11, MaxLevel: 12}.IsMaxed())
	assert.False(t, Unit{Level: 1}.IsMaxed())
}

func TestPlayer_InClan(t *testing.T) {
	assert.False(t, (&Player{}).InClan())
	assert.True(t, (&Player{Clan: &PlayerClan{Tag: "#2Y"}}).InClan())
}
