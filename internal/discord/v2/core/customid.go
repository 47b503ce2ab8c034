package core

import (
	"fmt"
	"strings"
)

// Custom IDs have the form domain:action[:target]. The target is opaque and
// may itself contain the separator.
const (
	customIDSeparator = ":"

	// MaxCustomIDLength is Discord's limit for component custom IDs
	MaxCustomIDLength = 100
)

// CustomID identifies the router (Domain) and route (Action) of a component
type CustomID struct {
	Domain string
	Action string
	Target string
}

func NewCustomID(domain, action string) *CustomID {
	return &CustomID{Domain: domain, Action: action}
}

// WithTarget sets the target, e.g. a player tag
func (c *CustomID) WithTarget(target string) *CustomID {
	c.Target = target
	return c
}

// Encode validates the parts and joins them
func (c *CustomID) Encode() (string, error) {
	for name, part := range map[string]string{"domain": c.Domain, "action": c.Action} {
		if part == "" {
			return "", fmt.Errorf("custom ID %s is empty", name)
		}
		if strings.Contains(part, customIDSeparator) {
			return "", fmt.Errorf("custom ID %s %q contains %q", name, part, customIDSeparator)
		}
	}

	id := c.Domain + customIDSeparator + c.Action
	if c.Target != "" {
		id += customIDSeparator + c.Target
	}

	if len(id) > MaxCustomIDLength {
		return "", fmt.Errorf("custom ID exceeds maximum length of %d characters", MaxCustomIDLength)
	}

	return id, nil
}

// MustEncode is Encode for IDs built from constants
func (c *CustomID) MustEncode() string {
	id, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return id
}

func (c *CustomID) String() string {
	id, err := c.Encode()
	if err != nil {
		return ""
	}
	return id
}

// ParseCustomID splits a custom ID produced by Encode
func ParseCustomID(customID string) (*CustomID, error) {
	parts := strings.SplitN(customID, customIDSeparator, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid custom ID %q: expected domain:action", customID)
	}

	id := NewCustomID(parts[0], parts[1])
	if len(parts) == 3 {
		id.Target = parts[2]
	}
	return id, nil
}

// CustomIDBuilder builds the custom IDs of one domain's components
type CustomIDBuilder struct {
	domain string
}

func NewCustomIDBuilder(domain string) *CustomIDBuilder {
	return &CustomIDBuilder{domain: domain}
}

// Select returns the custom ID of a select menu that routes to action
func (b *CustomIDBuilder) Select(action string) string {
	return NewCustomID(b.domain, action).MustEncode()
}
