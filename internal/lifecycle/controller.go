package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// State is the lifecycle state of a game's estimate.
type State int

// Lifecycle states. The transition is one-directional: Live to Frozen only.
const (
	StateLive State = iota
	StateFrozen
)

func (s State) String() string {
	if s == StateFrozen {
		return "frozen"
	}
	return "live"
}

// Estimator produces a probability estimate for a game.
type Estimator interface {
	Estimate(ctx context.Context, game models.Game) models.ProbabilityEstimate
}

// Update is one estimate delivery to a subscriber.
type Update struct {
	GameKey  string
	State    State
	Estimate models.ProbabilityEstimate
}

// Subscription is a handle to one game's running lifecycle.
type Subscription struct {
	ID        uuid.UUID
	gameKey   string
	cancelled atomic.Bool
	quit      chan struct{}
}

// Cancel stops the subscription's timers. A cancelled subscription never
// writes into the controller's stored state again.
func (s *Subscription) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) {
		close(s.quit)
	}
}

// Controller drives when estimates are recomputed and whether the stored
// value is provisional (live) or authoritative (frozen). A game first
// observed more than the freeze lead before kickoff refreshes on a fixed
// cadence until the freeze instant, when one final computation is stored
// permanently. A game first observed inside the freeze lead is frozen
// immediately.
type Controller struct {
	estimator    Estimator
	clock        Clock
	freezeLead   time.Duration
	refreshEvery time.Duration
	logger       *logrus.Logger

	mu     sync.Mutex
	frozen map[string]models.ProbabilityEstimate
	live   map[string]models.ProbabilityEstimate
	active *Subscription
}

// NewController creates a new lifecycle controller
func NewController(estimator Estimator, clock Clock, freezeLead, refreshEvery time.Duration, logger *logrus.Logger) *Controller {
	return &Controller{
		estimator:    estimator,
		clock:        clock,
		freezeLead:   freezeLead,
		refreshEvery: refreshEvery,
		logger:       logger,
		frozen:       make(map[string]models.ProbabilityEstimate),
		live:         make(map[string]models.ProbabilityEstimate),
	}
}

// FreezeInstant returns the moment a game's estimate locks.
func (c *Controller) FreezeInstant(game models.Game) time.Time {
	return game.Kickoff.Add(-c.freezeLead)
}

// Current returns the authoritative estimate for a game key: the frozen
// value when one exists, otherwise the latest live value.
func (c *Controller) Current(gameKey string) (models.ProbabilityEstimate, State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if est, ok := c.frozen[gameKey]; ok {
		return est, StateFrozen, true
	}
	if est, ok := c.live[gameKey]; ok {
		return est, StateLive, true
	}
	return models.ProbabilityEstimate{}, StateLive, false
}

// Select makes a game the active selection, cancelling any previous
// subscription's outstanding timers, and begins its lifecycle. Updates are
// delivered on the returned subscription's behalf via onUpdate; deliveries
// stop permanently once the subscription is cancelled.
func (c *Controller) Select(ctx context.Context, game models.Game, onUpdate func(Update)) *Subscription {
	sub := &Subscription{
		ID:      uuid.New(),
		gameKey: game.Key(),
		quit:    make(chan struct{}),
	}

	c.mu.Lock()
	if c.active != nil {
		c.active.Cancel()
	}
	c.active = sub

	// Display rule: an existing frozen value is always shown and never
	// recomputed.
	if est, ok := c.frozen[sub.gameKey]; ok {
		c.mu.Unlock()
		onUpdate(Update{GameKey: sub.gameKey, State: StateFrozen, Estimate: est})
		return sub
	}
	c.mu.Unlock()

	go c.run(ctx, sub, game, onUpdate)
	return sub
}

func (c *Controller) run(ctx context.Context, sub *Subscription, game models.Game, onUpdate func(Update)) {
	freezeAt := c.FreezeInstant(game)
	now := c.clock.Now()

	if !now.Before(freezeAt) {
		// First observed inside the freeze window: compute once, freeze.
		est := c.estimator.Estimate(ctx, game)
		c.commitFrozen(sub, est, onUpdate)
		return
	}

	metrics.LiveSubscriptions.Inc()
	defer metrics.LiveSubscriptions.Dec()

	est := c.estimator.Estimate(ctx, game)
	c.commitLive(sub, est, onUpdate)

	ticker := c.clock.NewTicker(c.refreshEvery)
	defer ticker.Stop()
	freezeTimer := c.clock.NewTimer(freezeAt.Sub(now))
	defer freezeTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.quit:
			return
		case <-ticker.C():
			est := c.estimator.Estimate(ctx, game)
			c.commitLive(sub, est, onUpdate)
		case <-freezeTimer.C():
			// The freeze timer wins over any pending refresh: stop the
			// ticker before the final computation so nothing fires after
			// freezing.
			ticker.Stop()
			est := c.estimator.Estimate(ctx, game)
			c.commitFrozen(sub, est, onUpdate)
			return
		}
	}
}

// commitLive stores a provisional estimate unless the subscription was
// cancelled while the computation was in flight.
func (c *Controller) commitLive(sub *Subscription, est models.ProbabilityEstimate, onUpdate func(Update)) {
	if sub.cancelled.Load() {
		return
	}
	c.mu.Lock()
	c.live[sub.gameKey] = est
	c.mu.Unlock()
	onUpdate(Update{GameKey: sub.gameKey, State: StateLive, Estimate: est})
}

// commitFrozen stores the permanent estimate. A frozen value, once written,
// is immutable for the lifetime of the session.
func (c *Controller) commitFrozen(sub *Subscription, est models.ProbabilityEstimate, onUpdate func(Update)) {
	if sub.cancelled.Load() {
		return
	}
	c.mu.Lock()
	if _, exists := c.frozen[sub.gameKey]; !exists {
		c.frozen[sub.gameKey] = est
		metrics.RecordFreeze()
		c.logger.WithField("game", sub.gameKey).Info("Estimate frozen")
	}
	est = c.frozen[sub.gameKey]
	c.mu.Unlock()
	onUpdate(Update{GameKey: sub.gameKey, State: StateFrozen, Estimate: est})
}
