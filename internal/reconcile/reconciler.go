// Package reconcile keeps an in-memory snapshot of gathering state consistent
// with the persistent store by applying change-feed events, falling back to a
// full re-fetch whenever the feed cannot be trusted.
package reconcile

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/tushy123/minyan-now/internal/feed"
	"github.com/tushy123/minyan-now/internal/model"
)

// State is the reconciliation state machine's current phase.
type State string

const (
	StateSynced       State = "SYNCED"
	StateReconciling  State = "RECONCILING"
	StateDisconnected State = "DISCONNECTED"
)

// Loader re-fetches authoritative state for full refreshes.
type Loader interface {
	ListSpaces(ctx context.Context) ([]model.Space, error)
	ListOfficialMinyanim(ctx context.Context) ([]model.OfficialMinyan, error)
}

// Recounter receives the space ids whose membership sets need a targeted
// re-fetch. Membership events carry no row snapshots, so the count must be
// recomputed from the store rather than trusted from the payload.
type Recounter interface {
	Dispatch(spaceID string)
}

// Reconciler applies an ordered but possibly gappy, duplicated, or reordered
// event stream to its local cache. Every apply operation is idempotent.
type Reconciler struct {
	loader  Loader
	source  feed.Source
	recount Recounter

	mu        sync.RWMutex
	state     State
	spaces    map[string]model.Space
	officials []model.OfficialMinyan
}

// New creates a reconciler. It starts DISCONNECTED until the first refresh.
func New(loader Loader, source feed.Source) *Reconciler {
	return &Reconciler{
		loader: loader,
		source: source,
		state:  StateDisconnected,
		spaces: make(map[string]model.Space),
	}
}

// SetRecounter wires the membership recount pool. The pool needs the
// reconciler as its cache, so this is set after both are constructed and
// before Run is called.
func (r *Reconciler) SetRecounter(recount Recounter) {
	r.recount = recount
}

// State returns the current reconciliation phase.
func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Snapshot returns copies of the cached collections. Spaces are ordered by
// start time so identical cache contents always produce identical slices.
func (r *Reconciler) Snapshot() ([]model.OfficialMinyan, []model.Space) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	officials := make([]model.OfficialMinyan, len(r.officials))
	copy(officials, r.officials)

	spaces := make([]model.Space, 0, len(r.spaces))
	for _, sp := range r.spaces {
		spaces = append(spaces, sp)
	}
	sort.Slice(spaces, func(i, j int) bool {
		if !spaces[i].StartTime.Equal(spaces[j].StartTime) {
			return spaces[i].StartTime.Before(spaces[j].StartTime)
		}
		return spaces[i].ID < spaces[j].ID
	})
	return officials, spaces
}

// SetQuorum writes a recounted member count back into the cached space.
// Unknown ids are ignored; a future insert or refresh will carry the value.
func (r *Reconciler) SetQuorum(spaceID string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sp, ok := r.spaces[spaceID]; ok {
		sp.QuorumCount = count
		r.spaces[spaceID] = sp
	}
}

// Run performs the initial load and then consumes the feed until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	r.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reconciler shutting down.")
			return
		case event := <-r.source.Events():
			r.apply(ctx, event)
		case err := <-r.source.Errors():
			log.Printf("Change feed reported an outage: %v. Cache marked stale.", err)
			r.setState(StateDisconnected)
		}
	}
}

func (r *Reconciler) apply(ctx context.Context, event feed.Event) {
	switch event.Type {
	case feed.Connected:
		// The feed may have dropped events while down; re-sync everything.
		r.Refresh(ctx)

	case feed.SpaceInserted:
		if event.Space == nil {
			return
		}
		r.mu.Lock()
		if _, exists := r.spaces[event.Space.ID]; !exists {
			r.spaces[event.Space.ID] = *event.Space
		}
		r.mu.Unlock()

	case feed.SpaceUpdated:
		if event.Space == nil {
			return
		}
		r.mu.Lock()
		if _, known := r.spaces[event.Space.ID]; known {
			r.spaces[event.Space.ID] = *event.Space
		}
		// Unknown id: either an insert is still in flight or a refresh is
		// coming; do not fabricate a row from an update.
		r.mu.Unlock()

	case feed.SpaceDeleted:
		r.mu.Lock()
		delete(r.spaces, event.SpaceID)
		r.mu.Unlock()

	case feed.MembershipChanged:
		if r.recount != nil {
			r.recount.Dispatch(event.SpaceID)
		}
	}
}

// Refresh replaces the cache with authoritative store contents.
func (r *Reconciler) Refresh(ctx context.Context) {
	r.setState(StateReconciling)

	spaces, err := r.loader.ListSpaces(ctx)
	if err != nil {
		log.Printf("Full refresh failed listing spaces: %v", err)
		r.setState(StateDisconnected)
		return
	}
	officials, err := r.loader.ListOfficialMinyanim(ctx)
	if err != nil {
		log.Printf("Full refresh failed listing official minyanim: %v", err)
		r.setState(StateDisconnected)
		return
	}

	byID := make(map[string]model.Space, len(spaces))
	for _, sp := range spaces {
		byID[sp.ID] = sp
	}

	r.mu.Lock()
	r.spaces = byID
	r.officials = officials
	r.state = StateSynced
	r.mu.Unlock()
}

func (r *Reconciler) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}
