package core

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// NewTestCommandContext builds the context of "/<command> [subcommand]" run by a
// fixed guild member, for middleware tests that never reach Discord
func NewTestCommandContext(command, subcommand string) *InteractionContext {
	ctx := NewInteractionContext(context.Background(), nil, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "323456789012345678",
			Member:  &discordgo.Member{User: &discordgo.User{ID: "112233445566778899"}},
			Data:    discordgo.ApplicationCommandInteractionData{Name: command},
		},
	})
	ctx.subcommand = subcommand
	return ctx
}

// MockResponder records what a handler sends. It is safe for concurrent use
// since sessions edit from their own goroutine.
type MockResponder struct {
	mu sync.Mutex

	DeferCalls       []bool // ephemeral flag of each Defer
	DeferUpdateCalls int
	Responses        []*Response
	Edits            []*Response
	EditError        error
	Deferred         bool
	Responded        bool

	// MessageID is returned on the message from Edit
	MessageID string

	// OnEdit, if set, runs after an edit is recorded
	OnEdit func(*Response)
}

func NewMockResponder() *MockResponder {
	return &MockResponder{MessageID: "test-message-123"}
}

func (m *MockResponder) Defer(ephemeral bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeferCalls = append(m.DeferCalls, ephemeral)
	m.Deferred = true
	m.Responded = true
	return nil
}

func (m *MockResponder) DeferUpdate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeferUpdateCalls++
	m.Deferred = true
	m.Responded = true
	return nil
}

func (m *MockResponder) Respond(response *Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Responses = append(m.Responses, response)
	m.Responded = true
	return nil
}

func (m *MockResponder) Edit(response *Response) (*discordgo.Message, error) {
	m.mu.Lock()
	m.Edits = append(m.Edits, response)
	err := m.EditError
	id := m.MessageID
	onEdit := m.OnEdit
	m.mu.Unlock()

	if onEdit != nil {
		onEdit(response)
	}
	if err != nil {
		return nil, err
	}
	return &discordgo.Message{ID: id}, nil
}

func (m *MockResponder) HasResponded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Responded
}

func (m *MockResponder) IsDeferred() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Deferred
}

// SetEditError changes the error returned by subsequent edits
func (m *MockResponder) SetEditError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EditError = err
}

// EditsSnapshot returns a copy of the recorded edits
func (m *MockResponder) EditsSnapshot() []*Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Response(nil), m.Edits...)
}

// ResponsesSnapshot returns a copy of the recorded responses
func (m *MockResponder) ResponsesSnapshot() []*Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Response(nil), m.Responses...)
}
