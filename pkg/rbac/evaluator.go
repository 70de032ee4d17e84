package rbac

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Source fetches the permission list of an actor.
type Source interface {
	FetchPermissions(ctx context.Context, actorID string) ([]PermissionRecord, error)
}

// Credential reports whether a credential is currently held. A held company
// credential grants every capability.
type Credential interface {
	HasToken(ctx context.Context) bool
}

// Evaluator answers capability questions for the current actor. The
// permission list is loaded once per actor id; until the load for the current
// actor finishes every query answers false.
type Evaluator struct {
	source  Source
	company Credential
	log     *slog.Logger

	mu      sync.RWMutex
	actorID string
	records []PermissionRecord
	loaded  bool
	loading bool
	gen     uint64
}

func NewEvaluator(source Source, company Credential, l *slog.Logger) *Evaluator {
	if l == nil {
		l = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return &Evaluator{
		source:  source,
		company: company,
		log:     l.With("component", "rbac"),
	}
}

// Load fetches the permissions of actorID unless they are already loaded or
// loading. A result that arrives after the actor changed or after Reset is
// dropped. A failed fetch leaves the list empty and is not retried for the
// same actor.
func (e *Evaluator) Load(ctx context.Context, actorID string) error {
	e.mu.Lock()
	if actorID == e.actorID && (e.loaded || e.loading) {
		e.mu.Unlock()
		return nil
	}

	e.gen++
	gen := e.gen
	e.actorID = actorID
	e.records = nil
	e.loaded = false
	e.loading = true
	e.mu.Unlock()

	records, err := e.source.FetchPermissions(ctx, actorID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		e.log.Debug("dropping stale permission list", "actor_id", actorID)
		return nil
	}

	e.loading = false
	e.loaded = true

	if err != nil {
		e.log.Warn("failed to load permissions", "actor_id", actorID, "error", err)
		return fmt.Errorf("load permissions for %s: %w", actorID, err)
	}

	e.records = append([]PermissionRecord(nil), records...)
	return nil
}

// Reset forgets the current actor and its permissions.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	e.actorID = ""
	e.records = nil
	e.loaded = false
	e.loading = false
}

// Loading reports whether a fetch for the current actor is in flight.
func (e *Evaluator) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

func (e *Evaluator) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *Evaluator) ActorID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.actorID
}

// HasPermission applies, in order: a held company credential allows
// everything; otherwise the cached list must contain featureKey with the
// action flag set.
func (e *Evaluator) HasPermission(ctx context.Context, featureKey string, action Action) bool {
	if e.company != nil && e.company.HasToken(ctx) {
		return true
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return false
	}
	return Allows(e.records, featureKey, action)
}

func (e *Evaluator) CanView(ctx context.Context, featureKey string) bool {
	return e.HasPermission(ctx, featureKey, ActionView)
}

func (e *Evaluator) CanCreate(ctx context.Context, featureKey string) bool {
	return e.HasPermission(ctx, featureKey, ActionCreate)
}

func (e *Evaluator) CanEdit(ctx context.Context, featureKey string) bool {
	return e.HasPermission(ctx, featureKey, ActionEdit)
}

func (e *Evaluator) CanDelete(ctx context.Context, featureKey string) bool {
	return e.HasPermission(ctx, featureKey, ActionDelete)
}
