// Package history keeps the back-navigation stack of activated scenes.
//
// The top of the stack is always the active scene. A back request pops the
// top, asks the loader for the revealed scene and marks the following load
// notification as its own so the stack is not pushed again.
package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/milk9111/rocketboost/scene"
)

var (
	ErrNoPreviousScene = errors.New("history: no previous scene")
	ErrInvalidTarget   = errors.New("history: previous scene is not loadable")
	ErrBackInFlight    = errors.New("history: back navigation already in flight")
)

// Loader is the part of the scene pipeline the history drives.
type Loader interface {
	Active() scene.Ref
	PathByIndex(ref scene.Ref) string
	Load(ref scene.Ref, mode scene.LoadMode) error
	LoadByName(name string, mode scene.LoadMode) error
}

// Subscriber registers load callbacks. *scene.Manager satisfies it.
type Subscriber interface {
	Subscribe(fn scene.LoadedFunc) *scene.Subscription
	SubscribeFailures(fn scene.FailedFunc) *scene.Subscription
}

type Option func(*History)

// WithFallback names the scene loaded when there is nothing to go back to.
func WithFallback(name string) Option {
	return func(h *History) { h.fallback = name }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithVerbose logs every push, pop and ignored notification at info level.
func WithVerbose(verbose bool) Option {
	return func(h *History) { h.verbose = verbose }
}

type History struct {
	loader   Loader
	stack    []scene.Ref
	fallback string

	// navigatingBack is set right before a back or fallback load is issued
	// and cleared by the next notification.
	navigatingBack bool
	// popped is the entry a back load removed, InvalidRef for a fallback.
	// It goes back on the stack if the load fails.
	popped scene.Ref

	sub     *scene.Subscription
	failSub *scene.Subscription
	logger  *slog.Logger
	verbose bool
}

func New(loader Loader, opts ...Option) *History {
	h := &History{loader: loader, popped: scene.InvalidRef, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Seed pushes the loader's active scene onto an empty history.
func (h *History) Seed() {
	if h == nil || h.loader == nil || len(h.stack) > 0 {
		return
	}
	active := h.loader.Active()
	if h.loader.PathByIndex(active) == "" {
		h.logger.Warn("history: active scene is not valid, not seeding", "index", int(active))
		return
	}
	h.stack = append(h.stack, active)
	h.debug("seed", active)
}

// Attach subscribes the history to the pipeline's load notifications.
// Close releases the subscription.
func (h *History) Attach(sub Subscriber) {
	if h == nil || sub == nil {
		return
	}
	h.Close()
	h.sub = sub.Subscribe(h.OnSceneLoaded)
	h.failSub = sub.SubscribeFailures(h.OnSceneLoadFailed)
}

func (h *History) Close() {
	if h == nil {
		return
	}
	h.sub.Close()
	h.failSub.Close()
	h.sub, h.failSub = nil, nil
}

// OnSceneLoaded is the pipeline callback. Only single-mode loads change the
// active scene, so additive loads are ignored.
func (h *History) OnSceneLoaded(ref scene.Ref, mode scene.LoadMode) {
	if mode != scene.Single {
		return
	}
	h.OnSceneBecameActive(ref)
}

func (h *History) OnSceneBecameActive(ref scene.Ref) {
	if h == nil {
		return
	}
	if h.navigatingBack {
		// The stack was adjusted before the back load was issued.
		h.navigatingBack = false
		h.popped = scene.InvalidRef
		h.debug("loaded via back", ref)
		return
	}
	if top, ok := h.Top(); ok && top == ref {
		h.debug("duplicate load ignored", ref)
		return
	}
	h.stack = append(h.stack, ref)
	h.debug("push", ref)
}

// OnSceneLoadFailed ends a back navigation whose load never completed. The
// active scene did not change, so the popped entry is restored.
func (h *History) OnSceneLoadFailed(ref scene.Ref, mode scene.LoadMode, err error) {
	if h == nil || mode != scene.Single || !h.navigatingBack {
		return
	}
	h.navigatingBack = false
	if h.popped != scene.InvalidRef {
		h.stack = append(h.stack, h.popped)
		h.popped = scene.InvalidRef
	}
	h.logger.Warn("history: back load failed", "scene", scene.Name(h.loader, ref), "err", err)
}

// GoBack reports whether a back navigation was initiated.
func (h *History) GoBack() bool {
	err := h.Back()
	if err != nil {
		h.logger.Debug("history: go back refused", "err", err)
	}
	return err == nil
}

// Back starts a back navigation. The stack is left untouched on every error.
func (h *History) Back() error {
	if h == nil || h.loader == nil {
		return ErrNoPreviousScene
	}
	if h.navigatingBack {
		return ErrBackInFlight
	}

	if len(h.stack) < 2 {
		if h.fallback == "" {
			return ErrNoPreviousScene
		}
		h.navigatingBack = true
		if err := h.loader.LoadByName(h.fallback, scene.Single); err != nil {
			h.navigatingBack = false
			return fmt.Errorf("history: load fallback %q: %w", h.fallback, err)
		}
		if h.verbose {
			h.logger.Info("history: no previous scene, loading fallback", "scene", h.fallback)
		}
		return nil
	}

	current := h.pop()
	previous := h.stack[len(h.stack)-1]
	if h.loader.PathByIndex(previous) == "" {
		h.logger.Warn("history: previous scene is invalid", "index", int(previous))
		h.stack = append(h.stack, current)
		return fmt.Errorf("history: back to %s: %w", previous, ErrInvalidTarget)
	}

	h.navigatingBack = true
	h.popped = current
	if err := h.loader.Load(previous, scene.Single); err != nil {
		h.navigatingBack = false
		h.popped = scene.InvalidRef
		h.stack = append(h.stack, current)
		return fmt.Errorf("history: back to %s: %w", previous, err)
	}
	h.debug("back", previous)
	return nil
}

func (h *History) pop() scene.Ref {
	top := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return top
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.stack)
}

func (h *History) Top() (scene.Ref, bool) {
	if h == nil || len(h.stack) == 0 {
		return scene.InvalidRef, false
	}
	return h.stack[len(h.stack)-1], true
}

// Entries returns a copy of the stack, bottom first.
func (h *History) Entries() []scene.Ref {
	if h == nil {
		return nil
	}
	return append([]scene.Ref(nil), h.stack...)
}

// Pending reports whether a back load has been issued and not yet completed.
func (h *History) Pending() bool {
	return h != nil && h.navigatingBack
}

// CanGoBack reports whether Back would currently issue a load.
func (h *History) CanGoBack() bool {
	if h == nil || h.navigatingBack {
		return false
	}
	return len(h.stack) >= 2 || h.fallback != ""
}

func (h *History) debug(msg string, ref scene.Ref) {
	if !h.verbose {
		return
	}
	h.logger.Info("history: "+msg, "scene", scene.Name(h.loader, ref), "index", int(ref), "depth", len(h.stack))
}
