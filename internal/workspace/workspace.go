// Package workspace hosts the bookmark graph of each authenticated user.
//
// The workspace owns the single current snapshot of every user it has seen,
// serializes that user's mutations, hands each one to the engine and saves the
// result right after it succeeds. Save failures are logged and never undo the
// in-memory state.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/engine"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
	"github.com/MrSnakeDoc/jump-spaces/internal/selector"
	"github.com/MrSnakeDoc/jump-spaces/internal/visibility"
)

// ShareIndex maps public collection ids to the user owning them. SetUser
// returns the ids it refused because another user already owns them.
type ShareIndex interface {
	SetUser(userID string, collectionIDs []string) (taken []string)
	RemoveUser(userID string)
	Owner(collectionID string) (string, bool)
}

// Service is the host of all user workspaces.
type Service struct {
	store   persistence.Store
	engine  *engine.Engine
	shares  ShareIndex
	log     logger.Logger
	baseURL string
	now     func() time.Time

	mu     sync.Mutex
	states map[string]*state
}

type state struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	loaded  bool
	evicted bool
	touched time.Time
}

// Options configures a Service.
type Options struct {
	Store         persistence.Store
	Engine        *engine.Engine // nil selects engine.New(nil, nil)
	Shares        ShareIndex
	Logger        logger.Logger
	PublicBaseURL string
	Now           func() time.Time
}

// New returns a workspace host.
func New(opts Options) *Service {
	if opts.Engine == nil {
		opts.Engine = engine.New(nil, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:   opts.Store,
		engine:  opts.Engine,
		shares:  opts.Shares,
		log:     opts.Logger.Named("workspace"),
		baseURL: opts.PublicBaseURL,
		now:     opts.Now,
		states:  make(map[string]*state),
	}
}

// acquire returns the user's state loaded and locked. The caller unlocks st.mu.
func (s *Service) acquire(ctx context.Context, userID string) (*state, error) {
	var st *state
	for {
		s.mu.Lock()
		cur, ok := s.states[userID]
		if !ok {
			cur = &state{}
			s.states[userID] = cur
		}
		s.mu.Unlock()

		cur.mu.Lock()
		if !cur.evicted {
			st = cur
			break
		}
		cur.mu.Unlock()
	}
	st.touched = s.now()
	if st.loaded {
		return st, nil
	}

	snap, err := s.store.Load(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrNotFound):
		snap = domain.Snapshot{}
	default:
		st.mu.Unlock()
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	g, created := s.engine.EnsureDefault(snap.Spaces)
	st.snap = domain.Snapshot{Spaces: g, CurrentSpace: selector.Reconcile(g, snap.CurrentSpace)}
	st.loaded = true
	if created {
		s.log.Info("created default space", logger.String("user", userID))
		s.persist(ctx, userID, "ensureDefault", st)
	}
	s.index(userID, st.snap.Spaces)
	return st, nil
}

// apply runs fn against the user's graph and commits the graph it returns.
// A returned error leaves the state untouched.
func (s *Service) apply(ctx context.Context, userID, op string, fn func(g domain.Graph) (domain.Graph, error)) error {
	return s.applySelect(ctx, userID, op, func(g domain.Graph, current string) (domain.Graph, string, error) {
		next, err := fn(g)
		return next, current, err
	})
}

// applySelect is apply for operations that also choose the next current space.
func (s *Service) applySelect(ctx context.Context, userID, op string, fn func(g domain.Graph, current string) (domain.Graph, string, error)) error {
	st, err := s.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer st.mu.Unlock()

	next, current, err := fn(st.snap.Spaces, st.snap.CurrentSpace)
	if err != nil {
		return err
	}
	s.commit(ctx, userID, op, st, next, current)
	return nil
}

// commit stores next as the current graph, keeping current when it still names a space.
// st.mu must be held.
func (s *Service) commit(ctx context.Context, userID, op string, st *state, next domain.Graph, current string) {
	next, created := s.engine.EnsureDefault(next)
	if created {
		s.log.Info("created default space", logger.String("user", userID), logger.String("op", op))
	}
	st.snap = domain.Snapshot{Spaces: next, CurrentSpace: selector.Reconcile(next, current)}
	s.persist(ctx, userID, op, st)
	s.index(userID, next)
}

// persist saves the user's latest snapshot. st.mu must be held.
func (s *Service) persist(ctx context.Context, userID, op string, st *state) {
	if err := s.store.Save(ctx, userID, st.snap); err != nil {
		s.log.Error("failed to save snapshot",
			logger.String("user", userID),
			logger.String("op", op),
			logger.Error(err))
		return
	}
	s.log.Debug("snapshot saved", logger.String("user", userID), logger.String("op", op))
}

func (s *Service) index(userID string, g domain.Graph) {
	if s.shares == nil {
		return
	}
	if taken := s.shares.SetUser(userID, PublicCollectionIDs(g)); len(taken) > 0 {
		s.log.Warn("public collection ids already shared by another user",
			logger.String("user", userID),
			logger.Strings("collections", taken))
	}
}

// PublicCollectionIDs lists the ids of every public collection of g.
func PublicCollectionIDs(g domain.Graph) []string {
	pubs := visibility.ResolvePublicCollectionsForUser(g)
	ids := make([]string, len(pubs))
	for i, p := range pubs {
		ids[i] = p.Collection.ID
	}
	return ids
}

// Snapshot returns a copy of the user's current state.
func (s *Service) Snapshot(ctx context.Context, userID string) (domain.Snapshot, error) {
	st, err := s.acquire(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer st.mu.Unlock()
	return cloneSnapshot(st.snap), nil
}

// view returns the user's graph without creating or saving anything. A cached
// state is used when present; otherwise the stored snapshot is read and not
// cached. A user with no snapshot has an empty graph.
func (s *Service) view(ctx context.Context, userID string) (domain.Graph, error) {
	s.mu.Lock()
	st, ok := s.states[userID]
	s.mu.Unlock()
	if ok {
		st.mu.Lock()
		if st.loaded && !st.evicted {
			g := st.snap.Spaces.Clone()
			st.mu.Unlock()
			return g, nil
		}
		st.mu.Unlock()
	}

	snap, err := s.store.Load(ctx, userID)
	switch {
	case err == nil:
		return snap.Spaces, nil
	case errors.Is(err, errs.ErrNotFound):
		return domain.Graph{}, nil
	default:
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
}

// CurrentSpace returns the user's current space.
func (s *Service) CurrentSpace(ctx context.Context, userID string) (domain.Space, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return domain.Space{}, err
	}
	sp, ok := selector.Current(snap.Spaces, snap.CurrentSpace)
	if !ok {
		return domain.Space{}, errs.NotFound("space", snap.CurrentSpace)
	}
	return *sp, nil
}

// SelectSpace makes spaceID the user's current space.
func (s *Service) SelectSpace(ctx context.Context, userID, spaceID string) (domain.Snapshot, error) {
	st, err := s.acquire(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer st.mu.Unlock()

	current, err := selector.Select(st.snap.Spaces, spaceID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	st.snap.CurrentSpace = current
	s.persist(ctx, userID, "selectSpace", st)
	return cloneSnapshot(st.snap), nil
}

// ClearAll replaces the user's graph with a fresh default space.
func (s *Service) ClearAll(ctx context.Context, userID string) (domain.Snapshot, error) {
	st, err := s.acquire(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer st.mu.Unlock()

	s.commit(ctx, userID, "clearAll", st, s.engine.Reset(), selector.None)
	s.log.Info("cleared all data", logger.String("user", userID))
	return cloneSnapshot(st.snap), nil
}

// Forget drops the user's cached state. The stored snapshot is kept.
func (s *Service) Forget(userID string) {
	s.mu.Lock()
	st, ok := s.states[userID]
	delete(s.states, userID)
	s.mu.Unlock()

	if ok {
		st.mu.Lock()
		st.evicted = true
		st.mu.Unlock()
	}
}

// EvictIdle drops cached states untouched for longer than idle and returns
// how many were dropped. Evicted users reload from the store on next access.
func (s *Service) EvictIdle(now time.Time, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, st := range s.states {
		if !st.mu.TryLock() {
			continue
		}
		if now.Sub(st.touched) > idle {
			st.evicted = true
			delete(s.states, id)
			n++
		}
		st.mu.Unlock()
	}
	return n
}

// Cached returns the number of users held in memory.
func (s *Service) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func cloneSnapshot(snap domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{Spaces: snap.Spaces.Clone(), CurrentSpace: snap.CurrentSpace}
}
