package presentation

import (
	"sort"
	"sync"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
)

// DefaultTicksPerSpace is how long a token pauses on each space while walking
const DefaultTicksPerSpace = 20

// TokenFrame is where a token should be drawn this tick
type TokenFrame struct {
	PlayerID string `json:"player_id"`
	Position int    `json:"position"`
	Target   int    `json:"target"`
	Moving   bool   `json:"moving"`
}

type token struct {
	visual    int
	target    int
	committed int
	timer     int
	moving    bool
}

// StepAnimator walks tokens forward one space every TicksPerSpace ticks until they
// reach their target. It only ever reads committed positions.
type StepAnimator struct {
	TicksPerSpace int

	mu     sync.Mutex
	tokens map[string]*token
}

// NewStepAnimator creates an animator; a non-positive value uses DefaultTicksPerSpace
func NewStepAnimator(ticksPerSpace int) *StepAnimator {
	if ticksPerSpace <= 0 {
		ticksPerSpace = DefaultTicksPerSpace
	}
	return &StepAnimator{
		TicksPerSpace: ticksPerSpace,
		tokens:        make(map[string]*token),
	}
}

// Start begins a walk for a player from start to target. A negative start continues
// from the token's current visual position.
func (a *StepAnimator) Start(playerID string, target, start int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.tokens[playerID]
	if !ok {
		t = &token{visual: target}
		a.tokens[playerID] = t
	}
	if start >= 0 {
		t.visual = wrap(start)
	}
	t.target = wrap(target)
	t.committed = t.target
	t.timer = 0
	t.moving = t.visual != t.target
}

// jailView is implemented by views that know who is in jail
type jailView interface {
	PlayerInJail(id string) bool
}

// Sync starts walks for every player whose committed position changed since the last
// Sync. Players seen for the first time are placed without animation, a player sent
// to jail jumps there, and tokens of players no longer in v are dropped.
func (a *StepAnimator) Sync(v View) {
	jail, _ := v.(jailView)
	ids := v.PlayerIDs()

	a.mu.Lock()
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	for id := range a.tokens {
		if !present[id] {
			delete(a.tokens, id)
		}
	}
	a.mu.Unlock()

	for _, id := range ids {
		pos, ok := v.PlayerPosition(id)
		if !ok {
			continue
		}

		a.mu.Lock()
		t, known := a.tokens[id]
		if !known {
			a.tokens[id] = &token{visual: pos, target: pos, committed: pos}
			a.mu.Unlock()
			continue
		}
		changed := t.committed != pos
		a.mu.Unlock()

		switch {
		case !changed:
		case jail != nil && jail.PlayerInJail(id):
			// a player only moves while jailed when sent there, never by walking
			a.Start(id, pos, pos)
		default:
			a.Start(id, pos, -1)
		}
	}
}

// Tick advances every moving token by one tick
func (a *StepAnimator) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, t := range a.tokens {
		if !t.moving {
			continue
		}
		t.timer++
		if t.timer < a.TicksPerSpace {
			continue
		}
		t.timer = 0
		t.visual = wrap(t.visual + 1)
		if t.visual == t.target {
			t.moving = false
		}
	}
}

// Position returns where a player's token is drawn
func (a *StepAnimator) Position(playerID string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tokens[playerID]
	if !ok {
		return 0, false
	}
	return t.visual, true
}

// Moving reports whether a player's token is still walking
func (a *StepAnimator) Moving(playerID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tokens[playerID]
	return ok && t.moving
}

// Idle reports whether no token is walking
func (a *StepAnimator) Idle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.tokens {
		if t.moving {
			return false
		}
	}
	return true
}

// Frames returns every token's draw position, sorted by player id
func (a *StepAnimator) Frames() []TokenFrame {
	a.mu.Lock()
	defer a.mu.Unlock()

	frames := make([]TokenFrame, 0, len(a.tokens))
	for id, t := range a.tokens {
		frames = append(frames, TokenFrame{
			PlayerID: id,
			Position: t.visual,
			Target:   t.target,
			Moving:   t.moving,
		})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].PlayerID < frames[j].PlayerID })
	return frames
}

// Forget drops all tokens, e.g. after a game reset
func (a *StepAnimator) Forget() {
	a.mu.Lock()
	a.tokens = make(map[string]*token)
	a.mu.Unlock()
}

func wrap(position int) int {
	position %= engine.BoardSize
	if position < 0 {
		position += engine.BoardSize
	}
	return position
}
