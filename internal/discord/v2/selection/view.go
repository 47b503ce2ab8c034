// Package selection drives the interactive profile/army selector attached to a
// /profile show reply. Each reply gets one Session that owns the message until it expires.
package selection

import (
	"errors"

	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/builders"
)

// View is one of the renderable display modes of a session
type View string

const (
	ViewProfile View = builders.ProfileViewValue
	ViewArmy    View = builders.ArmyViewValue
)

// ParseView maps a select menu value to a View
func ParseView(value string) (View, bool) {
	switch View(value) {
	case ViewProfile, ViewArmy:
		return View(value), true
	default:
		return "", false
	}
}

// State is the lifecycle state of a session
type State int

const (
	StateActive State = iota
	StateExpired
)

func (s State) String() string {
	if s == StateExpired {
		return "expired"
	}
	return "active"
}

var (
	// ErrSessionExists is returned when a message already has a session bound to it
	ErrSessionExists = errors.New("a selection session is already bound to this message")

	// ErrSessionExpired is returned for events that arrive after the session expired
	ErrSessionExpired = errors.New("selection session has expired")

	// ErrManagerClosed is returned by Start after the manager shut down
	ErrManagerClosed = errors.New("selection manager is closed")
)

// Notices sent to the actor only
const (
	InvalidSelectionMessage = "Invalid selection."
	ExpiredMessage          = "This menu has expired."
)
