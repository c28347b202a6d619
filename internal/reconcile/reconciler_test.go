package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tushy123/minyan-now/internal/feed"
	"github.com/tushy123/minyan-now/internal/model"
)

// fakeLoader serves canned collections and can be told to fail.
type fakeLoader struct {
	mu        sync.Mutex
	spaces    []model.Space
	officials []model.OfficialMinyan
	fail      bool
	loads     int
}

func (l *fakeLoader) ListSpaces(ctx context.Context) ([]model.Space, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	if l.fail {
		return nil, fmt.Errorf("store unavailable")
	}
	return append([]model.Space(nil), l.spaces...), nil
}

func (l *fakeLoader) ListOfficialMinyanim(ctx context.Context) ([]model.OfficialMinyan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, fmt.Errorf("store unavailable")
	}
	return append([]model.OfficialMinyan(nil), l.officials...), nil
}

func (l *fakeLoader) setFail(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = fail
}

func (l *fakeLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// fakeSource is a hand-fed change feed.
type fakeSource struct {
	events chan feed.Event
	errs   chan error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		events: make(chan feed.Event, 16),
		errs:   make(chan error, 16),
	}
}

func (s *fakeSource) Events() <-chan feed.Event { return s.events }
func (s *fakeSource) Errors() <-chan error      { return s.errs }

// recorder captures recount dispatches.
type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) Dispatch(spaceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, spaceID)
}

func (r *recorder) dispatched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func testSpace(id string, start time.Time) model.Space {
	return model.Space{
		ID:        id,
		Tefillah:  model.TefillahMincha,
		StartTime: start,
		Status:    model.StatusOpen,
		Capacity:  10,
		HostID:    "host-" + id,
	}
}

func TestReconciler_StartsDisconnectedThenSyncs(t *testing.T) {
	loader := &fakeLoader{spaces: []model.Space{testSpace("a", time.Now())}}
	r := New(loader, newFakeSource())

	assert.Equal(t, StateDisconnected, r.State())

	r.Refresh(context.Background())
	assert.Equal(t, StateSynced, r.State())

	_, spaces := r.Snapshot()
	require.Len(t, spaces, 1)
	assert.Equal(t, "a", spaces[0].ID)
}

func TestReconciler_RefreshFailureMarksDisconnected(t *testing.T) {
	loader := &fakeLoader{fail: true}
	r := New(loader, newFakeSource())

	r.Refresh(context.Background())
	assert.Equal(t, StateDisconnected, r.State())
}

func TestReconciler_InsertIsIdempotent(t *testing.T) {
	r := New(&fakeLoader{}, newFakeSource())
	r.Refresh(context.Background())

	sp := testSpace("a", time.Now())
	insert := feed.Event{Type: feed.SpaceInserted, Space: &sp, SpaceID: sp.ID}

	r.apply(context.Background(), insert)
	// A duplicate delivery with a stale snapshot must not clobber local state.
	stale := sp
	stale.QuorumCount = 99
	r.apply(context.Background(), feed.Event{Type: feed.SpaceInserted, Space: &stale, SpaceID: sp.ID})

	_, spaces := r.Snapshot()
	require.Len(t, spaces, 1)
	assert.Equal(t, 0, spaces[0].QuorumCount, "re-delivered inserts are ignored for known ids")
}

func TestReconciler_UpdateForUnknownIDIsIgnored(t *testing.T) {
	r := New(&fakeLoader{}, newFakeSource())
	r.Refresh(context.Background())

	sp := testSpace("ghost", time.Now())
	r.apply(context.Background(), feed.Event{Type: feed.SpaceUpdated, Space: &sp, SpaceID: sp.ID})

	_, spaces := r.Snapshot()
	assert.Empty(t, spaces, "an update must never fabricate a row")
}

func TestReconciler_DeleteIsIdempotent(t *testing.T) {
	sp := testSpace("a", time.Now())
	loader := &fakeLoader{spaces: []model.Space{sp}}
	r := New(loader, newFakeSource())
	r.Refresh(context.Background())

	del := feed.Event{Type: feed.SpaceDeleted, SpaceID: "a"}
	r.apply(context.Background(), del)
	r.apply(context.Background(), del) // duplicate delivery
	r.apply(context.Background(), feed.Event{Type: feed.SpaceDeleted, SpaceID: "never-existed"})

	_, spaces := r.Snapshot()
	assert.Empty(t, spaces)
}

func TestReconciler_UpdateReplacesKnownRow(t *testing.T) {
	sp := testSpace("a", time.Now())
	loader := &fakeLoader{spaces: []model.Space{sp}}
	r := New(loader, newFakeSource())
	r.Refresh(context.Background())

	changed := sp
	changed.Status = model.StatusLocked
	changed.QuorumCount = 6
	r.apply(context.Background(), feed.Event{Type: feed.SpaceUpdated, Space: &changed, SpaceID: sp.ID})

	_, spaces := r.Snapshot()
	require.Len(t, spaces, 1)
	assert.Equal(t, model.StatusLocked, spaces[0].Status)
	assert.Equal(t, 6, spaces[0].QuorumCount)
}

func TestReconciler_MembershipEventDispatchesRecount(t *testing.T) {
	r := New(&fakeLoader{}, newFakeSource())
	rec := &recorder{}
	r.SetRecounter(rec)

	r.apply(context.Background(), feed.Event{Type: feed.MembershipChanged, SpaceID: "a"})
	r.apply(context.Background(), feed.Event{Type: feed.MembershipChanged, SpaceID: "a"})

	assert.Equal(t, []string{"a", "a"}, rec.dispatched(),
		"every membership event triggers a recount; the recount itself is idempotent")
}

func TestReconciler_SetQuorum(t *testing.T) {
	sp := testSpace("a", time.Now())
	loader := &fakeLoader{spaces: []model.Space{sp}}
	r := New(loader, newFakeSource())
	r.Refresh(context.Background())

	r.SetQuorum("a", 7)
	r.SetQuorum("unknown", 3) // ignored

	_, spaces := r.Snapshot()
	require.Len(t, spaces, 1)
	assert.Equal(t, 7, spaces[0].QuorumCount)
}

func TestReconciler_SnapshotIsDeterministicAndIsolated(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	loader := &fakeLoader{spaces: []model.Space{
		testSpace("z", now.Add(time.Hour)),
		testSpace("b", now),
		testSpace("a", now),
	}}
	r := New(loader, newFakeSource())
	r.Refresh(context.Background())

	_, first := r.Snapshot()
	_, second := r.Snapshot()
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "a", first[0].ID, "equal start times tie-break by id")
	assert.Equal(t, "b", first[1].ID)
	assert.Equal(t, "z", first[2].ID)

	// Mutating a returned slice must not leak into the cache.
	first[0].QuorumCount = 42
	_, third := r.Snapshot()
	assert.Equal(t, 0, third[0].QuorumCount)
}

func TestReconciler_RunHandlesOutageAndReconnect(t *testing.T) {
	loader := &fakeLoader{spaces: []model.Space{testSpace("a", time.Now())}}
	source := newFakeSource()
	r := New(loader, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		return r.State() == StateSynced
	}, time.Second, 5*time.Millisecond)
	initialLoads := loader.loadCount()

	// An outage marks the cache stale without dropping its contents.
	source.errs <- fmt.Errorf("connection lost")
	require.Eventually(t, func() bool {
		return r.State() == StateDisconnected
	}, time.Second, 5*time.Millisecond)
	_, spaces := r.Snapshot()
	assert.Len(t, spaces, 1, "stale data keeps serving while disconnected")

	// Reconnect triggers a full refresh.
	source.events <- feed.Event{Type: feed.Connected}
	require.Eventually(t, func() bool {
		return r.State() == StateSynced && loader.loadCount() > initialLoads
	}, time.Second, 5*time.Millisecond)
}
