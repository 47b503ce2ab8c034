package selection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/imagegen"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/builders"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
	"github.com/KirkDiggler/clash-profile-bot/internal/metrics"
)

// DefaultTimeout is how long a selector accepts events
const DefaultTimeout = 300 * time.Second

// ManagerConfig holds configuration for the manager
type ManagerConfig struct {
	Images  imagegen.Client // Required
	Timeout time.Duration   // Optional, defaults to DefaultTimeout
	Logger  *zap.Logger     // Optional
	Metrics *metrics.Metrics
}

// Manager binds sessions to the messages they own
type Manager struct {
	images  imagegen.Client
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a new session manager
func NewManager(cfg *ManagerConfig) *Manager {
	if cfg.Images == nil {
		panic("image client is required")
	}

	m := &Manager{
		images:   cfg.Images,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		sessions: make(map[string]*Session),
	}

	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	return m
}

// StartInput contains data for starting a session
type StartInput struct {
	// Responder of the /profile show interaction, already deferred
	Responder core.InteractionResponder
	OwnerID   string
	Player    *entities.Player
	Verified  bool
}

// Start renders the profile view on the deferred reply, then the same view
// with the expiry countdown, and binds a session to the reply message.
func (m *Manager) Start(ctx context.Context, input *StartInput) (*Session, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input is required")
	}
	if input.Responder == nil {
		return nil, apperr.InvalidArgument("responder is required")
	}
	if input.OwnerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}
	if input.Player == nil {
		return nil, apperr.InvalidArgument("player is required")
	}

	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrManagerClosed
	}

	s := &Session{
		ownerID:   input.OwnerID,
		tag:       input.Player.SanitizedTag(),
		player:    input.Player,
		verified:  input.Verified,
		expiresAt: time.Now().Add(m.timeout),
		responder: input.Responder,
		images:    m.images,
		manager:   m,
		view:      ViewProfile,
		state:     StateActive,
		events:    make(chan queuedEvent),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	files, err := s.fetchFiles(ctx, ViewProfile)
	if err != nil {
		return nil, err
	}

	initial := core.NewEmbedResponse(s.embed(ViewProfile, nil)).
		WithComponents(builders.ProfileSelect(string(ViewProfile), false)...).
		WithFiles(files...)

	message, err := input.Responder.Edit(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to post profile view: %w", err)
	}
	if message == nil || message.ID == "" {
		return nil, fmt.Errorf("profile reply has no message id")
	}
	if _, exists := m.Get(message.ID); exists {
		return nil, ErrSessionExists
	}
	s.messageID = message.ID
	s.logger = m.logger.With(
		zap.String("message_id", s.messageID),
		zap.String("owner_id", s.ownerID),
		zap.String("tag", s.tag))

	timestamped := core.NewEmbedResponse(s.embed(ViewProfile, &s.expiresAt)).
		WithComponents(builders.ProfileSelect(string(ViewProfile), false)...)
	if _, err := input.Responder.Edit(timestamped); err != nil {
		return nil, fmt.Errorf("failed to post timestamped profile view: %w", err)
	}

	if err := m.register(s); err != nil {
		return nil, err
	}

	s.logger.Debug("selection session started", zap.Time("expires_at", s.expiresAt))

	return s, nil
}

// Get returns the session bound to a message
func (m *Manager) Get(messageID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[messageID]
	return s, ok
}

// Len returns the number of active sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Close stops every session without editing their messages. Selectors left
// on screen answer "This menu has expired." afterwards, and later Starts fail
// with ErrManagerClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
		<-s.done
	}

	if m.metrics != nil {
		m.metrics.ActiveSessions.Sub(float64(len(sessions)))
	}
}

// register binds s and starts its loop and expiry timer. Both happen under
// mu so Close either sees the session with its timer or rejects it.
func (m *Manager) register(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if _, exists := m.sessions[s.messageID]; exists {
		return ErrSessionExists
	}
	m.sessions[s.messageID] = s

	go s.run()
	s.timer = time.AfterFunc(time.Until(s.expiresAt), s.postExpire)

	if m.metrics != nil {
		m.metrics.ActiveSessions.Inc()
	}
	return nil
}

// remove unbinds an expired session
func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.sessions[s.messageID]; !ok || current != s {
		return
	}
	delete(m.sessions, s.messageID)

	if m.metrics != nil {
		m.metrics.ActiveSessions.Dec()
		m.metrics.SessionExpiries.Inc()
	}
}
