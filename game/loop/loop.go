package loop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/presentation"
	"github.com/gouripri/Digiware-Monopoly/game/service"
	"github.com/gouripri/Digiware-Monopoly/transport/controller"
)

// DefaultTick matches a 60 frames per second renderer
const DefaultTick = time.Second / 60

// Input is the controller surface the loop reads from and reports to
type Input interface {
	Poll(currentPlayer int) (controller.Input, bool)
	SetState(s controller.State)
	SendProperty(name string) error
}

// Broadcaster receives committed state and animation frames
type Broadcaster interface {
	BroadcastState(sessionID string, view presentation.Snapshot, tokens []presentation.TokenFrame)
	BroadcastFrames(sessionID string, tokens []presentation.TokenFrame)
}

// Option configures a Loop
type Option func(*Loop)

// WithTick sets the tick interval
func WithTick(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.tick = d
		}
	}
}

// WithAnimator replaces the default step animator
func WithAnimator(a *presentation.StepAnimator) Option {
	return func(l *Loop) {
		if a != nil {
			l.anim = a
		}
	}
}

// WithBroadcaster sends every step's output to b
func WithBroadcaster(b Broadcaster) Option {
	return func(l *Loop) {
		l.out = b
	}
}

// Loop is the single-threaded control loop for one session
type Loop struct {
	svc       service.GameService
	input     Input
	sessionID string
	anim      *presentation.StepAnimator
	out       Broadcaster
	tick      time.Duration

	started      bool
	lastPlayerID string
	lastPosition int
	lastTurn     int
	wasMoving    bool
}

// New creates a loop for sessionID
func New(svc service.GameService, input Input, sessionID string, opts ...Option) *Loop {
	l := &Loop{
		svc:       svc,
		input:     input,
		sessionID: sessionID,
		anim:      presentation.NewStepAnimator(presentation.DefaultTicksPerSpace),
		tick:      DefaultTick,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Animator exposes the token animator for renderers in the same process
func (l *Loop) Animator() *presentation.StepAnimator {
	return l.anim
}

// Run ticks until ctx is cancelled or the session disappears
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	log.Printf("[LOOP] session=%s tick=%v", l.sessionID, l.tick)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.Step(ctx); err != nil {
				return err
			}
		}
	}
}

// Step runs one tick. It only returns an error when the session can no longer be read.
func (l *Loop) Step(ctx context.Context) error {
	current, err := l.svc.CurrentPlayerNumber(ctx, l.sessionID)
	if err != nil {
		return fmt.Errorf("loop: %w", err)
	}

	changed := false
	if in, ok := l.input.Poll(current); ok {
		changed = l.handle(ctx, in)
	}

	snap, err := l.svc.Snapshot(ctx, l.sessionID)
	if err != nil {
		return fmt.Errorf("loop: %w", err)
	}

	first := !l.started
	l.started = true
	if snap.Turn < l.lastTurn {
		// reset: tokens jump back to GO instead of walking there
		l.anim.Forget()
	}
	l.report(snap)

	l.anim.Sync(snap)
	l.anim.Tick()
	moving := !l.anim.Idle()

	if l.out != nil {
		switch {
		case first || changed:
			l.out.BroadcastState(l.sessionID, snap, l.anim.Frames())
		case moving || l.wasMoving:
			l.out.BroadcastFrames(l.sessionID, l.anim.Frames())
		}
	}
	l.wasMoving = moving
	return nil
}

// handle applies one decoded input and reports whether state may have changed
func (l *Loop) handle(ctx context.Context, in controller.Input) bool {
	switch {
	case in.Err != nil:
		log.Printf("[INPUT] %v", in.Err)
		return false
	case in.Form == controller.FormLegacy:
		log.Printf("[INPUT] legacy %+v intent=%q, no structured action", in.Legacy, in.Intent)
		return false
	case !in.Accepted:
		log.Printf("[INPUT] dropped P%d,%s: not this player's turn", in.Player, in.Action)
		return false
	}

	var (
		result *service.ActionResult
		err    error
	)
	if in.Form == controller.FormAddressed {
		result, err = l.svc.ApplyForPlayer(ctx, l.sessionID, in.Player, in.Action)
	} else {
		result, err = l.svc.Apply(ctx, l.sessionID, in.Action)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotPlayersTurn) && result != nil {
			log.Printf("[INPUT] dropped P%d,%s: %s", in.Player, in.Action, result.Message)
		} else {
			log.Printf("[INPUT] %s failed: %v", in.Action, err)
		}
		return false
	}

	if !result.Success {
		log.Printf("[INPUT] %s rejected: %s", result.Action, result.Message)
	}
	return true
}

// report keeps the controller in step with the committed state, including
// changes made outside the loop through the API
func (l *Loop) report(snap presentation.Snapshot) {
	if snap.Phase == engine.AwaitingDecision {
		l.input.SetState(controller.StateLandedOnProperty)
	} else {
		l.input.SetState(controller.StateWaitingForRoll)
	}

	position, ok := snap.PlayerPosition(snap.CurrentPlayer)
	if !ok {
		return
	}
	if l.lastPlayerID == snap.CurrentPlayer && l.lastPosition == position && l.lastTurn == snap.Turn {
		return
	}
	l.lastPlayerID = snap.CurrentPlayer
	l.lastPosition = position
	l.lastTurn = snap.Turn

	space, ok := snap.Space(position)
	if !ok {
		return
	}
	if err := l.input.SendProperty(space.Name); err != nil && !errors.Is(err, controller.ErrNotConnected) {
		log.Printf("[INPUT] send property %s: %v", space.Name, err)
	}
}
