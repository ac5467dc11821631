// Package engine is the single-writer command dispatcher: a
// many-producers/one-consumer loop that owns the order book and balance
// ledger exclusively, applying reservation, matching, and settlement for
// one command at a time before dequeuing the next. Grounded on the
// teacher's app/engine.Engine (services/matching-engine/internal/app/
// engine) for the Options/constructor shape, and on
// original_source/src/engine/engine.rs for the dispatch-loop semantics
// and the "Running" / "Shutdown" states.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/raunit-dev/OrderBook/internal/engine/idgen"
	"github.com/raunit-dev/OrderBook/internal/orderbook"
	"github.com/raunit-dev/OrderBook/pkg/config"
	"github.com/raunit-dev/OrderBook/pkg/errors"
	"github.com/raunit-dev/OrderBook/pkg/logger"
)

// Options configures an Engine, following the teacher's functional
// Options/With* convention (pkg/logger.Options, app/engine.Options).
type Options struct {
	CommandQueueSize int
}

// DefaultOptions returns the options an Engine uses if none are given.
func DefaultOptions() Options {
	return Options{CommandQueueSize: 1024}
}

// systemClock reads the wall clock, used as the production matching.Clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine is the dispatcher: exclusive owner of the book, the id
// generator, and the command queue. No internal locking protects book or
// balances — serialization comes entirely from the single goroutine
// draining commands, per the concurrency model's "many producers, one
// consumer" rule.
type Engine struct {
	book     *orderbook.Book
	ids      *idgen.Generator
	clock    systemClock
	log      *logger.Logger
	commands chan Command
	done     chan struct{}
}

// New builds an Engine from configuration and a logger. The command
// queue is buffered per cfg.CommandQueueSize (0 falls back to
// DefaultOptions' size); Run must be called to start draining it.
func New(cfg *config.Config, log *logger.Logger) *Engine {
	size := DefaultOptions().CommandQueueSize
	if cfg != nil && cfg.CommandQueueSize > 0 {
		size = cfg.CommandQueueSize
	}
	return &Engine{
		book:     orderbook.New(),
		ids:      idgen.New(),
		log:      log,
		commands: make(chan Command, size),
		done:     make(chan struct{}),
	}
}

// Run drains the command queue until ctx is cancelled, applying exactly
// one command to completion before dequeuing the next. It is meant to be
// the body of the dispatcher goroutine; callers typically `go eng.Run(ctx)`
// once at process start.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("dispatcher started")
	defer close(e.done)
	defer e.log.Info("dispatcher stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.commands:
			e.dispatch(cmd)
		}
	}
}

// Done returns a channel closed once Run has returned, letting callers
// wait out a clean shutdown.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Submit enqueues cmd for the dispatcher. It blocks if the queue is full,
// giving backpressure to producers, and returns ctx's error if ctx is
// cancelled first.
func (e *Engine) Submit(ctx context.Context, cmd Command) error {
	select {
	case e.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case PlaceLimitCommand:
		e.handlePlaceLimit(c)
	case PlaceMarketCommand:
		e.handlePlaceMarket(c)
	case CancelCommand:
		e.handleCancel(c)
	case GetDepthCommand:
		e.handleGetDepth(c)
	case GetBalanceCommand:
		e.handleGetBalance(c)
	case AddFundsCommand:
		e.handleAddFunds(c)
	default:
		// An unreachable type switch arm is a programmer error, not a
		// command-local failure: no routine exists to apply this command,
		// so there is nothing to reply with or roll back.
		e.log.Error(errors.NewTracer(fmt.Sprintf("dispatch: unhandled command type %T", c)))
	}
}

// reply delivers resp on ch. Every command's Reply channel is created
// with buffer 1 (see newReply), so this never blocks even if the
// producer has already given up waiting: the state change it reports
// already stands regardless of delivery, per the "commands are not
// rolled back on reply-delivery failure" rule.
func reply(ch chan Response, resp Response) {
	ch <- resp
}

func newReply() chan Response {
	return make(chan Response, 1)
}
