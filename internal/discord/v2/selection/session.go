package selection

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/imagegen"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/builders"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

// Event is a select menu submission on a session's message
type Event struct {
	ActorID string
	Value   string

	// Responder answers the component interaction that carried the event
	Responder core.InteractionResponder
}

type eventKind int

const (
	eventSelect eventKind = iota
	eventExpire
)

type queuedEvent struct {
	kind      eventKind
	ctx       context.Context
	view      View
	responder core.InteractionResponder
	result    chan error
}

// Session tracks one interactive message: its owner, the player snapshot
// and which view is displayed. Events are handled one at a time by run.
type Session struct {
	ownerID   string
	tag       string
	player    *entities.Player
	verified  bool
	expiresAt time.Time
	messageID string

	// responder of the originating command; the expiry edit goes through it
	responder core.InteractionResponder
	images    imagegen.Client
	manager   *Manager
	logger    *zap.Logger

	mu    sync.RWMutex
	view  View
	state State

	events   chan queuedEvent
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	timer    *time.Timer
}

// OwnerID returns the user allowed to drive the session
func (s *Session) OwnerID() string { return s.ownerID }

// Tag returns the sanitized tag of the displayed player
func (s *Session) Tag() string { return s.tag }

// MessageID returns the message the session is bound to
func (s *Session) MessageID() string { return s.messageID }

// ExpiresAt returns when the selector stops accepting events
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Verified reports whether the owner is a verified owner of the player
func (s *Session) Verified() bool { return s.verified }

// ActiveView returns the view currently displayed
func (s *Session) ActiveView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done is closed once the session stops processing events
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Submit handles a selection event. Events from anyone but the owner and
// unknown values are answered to the actor only. Accepted events are queued
// and Submit returns once the shared message shows the selected view. An
// event that loses the race against expiry is never acknowledged and gets
// ErrSessionExpired.
func (s *Session) Submit(ctx context.Context, ev *Event) error {
	if ev == nil || ev.Responder == nil {
		return fmt.Errorf("selection event requires a responder")
	}

	select {
	case <-s.done:
		return ErrSessionExpired
	default:
	}
	if s.State() == StateExpired {
		return ErrSessionExpired
	}

	if ev.ActorID != s.ownerID {
		s.logger.Debug("rejected selection from non-owner", zap.String("actor_id", ev.ActorID))
		return ev.Responder.Respond(&core.Response{
			Embeds:    []*discordgo.MessageEmbed{builders.NotYourInteractionEmbed()},
			Ephemeral: true,
		})
	}

	view, ok := ParseView(ev.Value)
	if !ok {
		return ev.Responder.Respond(core.NewEphemeralResponse(InvalidSelectionMessage))
	}

	queued := queuedEvent{
		kind:      eventSelect,
		ctx:       ctx,
		view:      view,
		responder: ev.Responder,
		result:    make(chan error, 1),
	}

	select {
	case s.events <- queued:
	case <-s.done:
		return ErrSessionExpired
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-queued.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drains the event queue until the expire event or a stop
func (s *Session) run() {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case ev := <-s.events:
			switch ev.kind {
			case eventSelect:
				ev.result <- s.handleSelection(ev)
			case eventExpire:
				s.handleExpire()
				return
			}
		}
	}
}

// postExpire queues the synthetic expire event behind any pending selections
func (s *Session) postExpire() {
	select {
	case s.events <- queuedEvent{kind: eventExpire}:
	case <-s.stop:
	}
}

// handleSelection acknowledges the event only once it is dequeued. Events
// left in the queue at expiry stay unacknowledged.
func (s *Session) handleSelection(ev queuedEvent) error {
	if err := ev.responder.DeferUpdate(); err != nil {
		return fmt.Errorf("failed to acknowledge selection: %w", err)
	}

	loading := core.NewEmbedResponse(builders.LoadingEmbed()).
		WithComponents(builders.ProfileSelect(string(ev.view), true)...).
		WithReplacedFiles()
	if _, err := ev.responder.Edit(loading); err != nil {
		return fmt.Errorf("failed to show loading view: %w", err)
	}

	final, err := s.render(ev.ctx, ev.view)
	if err != nil {
		return err
	}

	if _, err := ev.responder.Edit(final); err != nil {
		return fmt.Errorf("failed to show %s view: %w", ev.view, err)
	}

	s.mu.Lock()
	s.view = ev.view
	s.mu.Unlock()

	return nil
}

func (s *Session) handleExpire() {
	s.mu.Lock()
	s.state = StateExpired
	s.mu.Unlock()

	s.manager.remove(s)

	// Only the controls change; the last rendered embed stays
	_, err := s.responder.Edit(&core.Response{
		Components: builders.ExpiredSelect(),
	})
	if err != nil {
		s.logger.Warn("failed to disable expired selector", zap.Error(err))
		return
	}

	s.logger.Debug("selection session expired", zap.String("view", string(s.ActiveView())))
}

// render builds the timestamped view with freshly fetched images
func (s *Session) render(ctx context.Context, view View) (*core.Response, error) {
	files, err := s.fetchFiles(ctx, view)
	if err != nil {
		return nil, err
	}

	return core.NewEmbedResponse(s.embed(view, &s.expiresAt)).
		WithComponents(builders.ProfileSelect(string(view), false)...).
		WithReplacedFiles(files...), nil
}

// embed renders a view; a nil expiresAt omits the countdown
func (s *Session) embed(view View, expiresAt *time.Time) *discordgo.MessageEmbed {
	input := &builders.ProfileEmbedInput{
		Player:    s.player,
		Verified:  s.verified,
		ExpiresAt: expiresAt,
	}

	switch view {
	case ViewArmy:
		input.ImageFile = imagegen.FileName(imagegen.KindTroops, s.tag)
		return builders.TroopShowcaseEmbed(input)
	default:
		input.ImageFile = imagegen.FileName(imagegen.KindProfile, s.tag)
		input.ThumbnailFile = imagegen.FileName(imagegen.KindXP, s.tag)
		return builders.ProfileEmbed(input)
	}
}

// viewImages lists the renders attached to each view
var viewImages = map[View][]imagegen.Kind{
	ViewProfile: {imagegen.KindProfile, imagegen.KindXP},
	ViewArmy:    {imagegen.KindTroops},
}

// fetchFiles downloads a view's images concurrently. Nothing is cached, every
// render asks the image service again.
func (s *Session) fetchFiles(ctx context.Context, view View) ([]*discordgo.File, error) {
	kinds := viewImages[view]
	files := make([]*discordgo.File, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			data, err := s.images.FetchImage(gctx, kind, s.tag)
			if err != nil {
				return fmt.Errorf("failed to fetch %s image: %w", kind, err)
			}

			files[i] = &discordgo.File{
				Name:        imagegen.FileName(kind, s.tag),
				ContentType: "image/png",
				Reader:      bytes.NewReader(data),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// close stops the loop without touching the message. timer is only
// written under Manager.mu before the session is published.
func (s *Session) close() {
	if s.timer != nil {
		s.timer.Stop()
	}

	s.stopOnce.Do(func() { close(s.stop) })
}
