package usecase

import (
	"context"
	"fmt"
	"sync"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"
)

// StateNotifier receives every state a session commits.
type StateNotifier func(uid string, state studio.State)

// Session owns the orchestration state of one logged-in user. All mutation goes through
// Update, which applies a pure transition to the whole state under one lock.
type Session struct {
	uid    string
	mu     sync.Mutex
	state  studio.State
	notify StateNotifier

	ctx    context.Context
	cancel context.CancelFunc

	runMu     sync.Mutex
	cancelRun context.CancelFunc

	// connMu serializes read-modify-write of the persisted connections with the state update.
	connMu sync.Mutex
}

func (s *Session) UID() string { return s.uid }

// Context is cancelled when the session is closed or the process shuts down.
func (s *Session) Context() context.Context { return s.ctx }

// Snapshot returns the current state.
func (s *Session) Snapshot() studio.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn as one read-modify-write and returns the committed state. The notifier
// runs under the same lock so subscribers see states in commit order; it must not block.
func (s *Session) Update(fn func(studio.State) studio.State) studio.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.state)
	s.state = next
	if s.notify != nil {
		s.notify(s.uid, next)
	}
	return next
}

// beginRun derives a cancellable context for one orchestration run.
func (s *Session) beginRun() (context.Context, context.CancelFunc) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelRun = cancel
	return ctx, cancel
}

func (s *Session) endRun() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}

func (s *Session) close() {
	s.endRun()
	s.cancel()
}

// SessionStore keeps one Session per user. A session that is not in memory is rebuilt
// from the persisted identity and connections, never from abandoned timers.
type SessionStore struct {
	parent      context.Context
	identities  repository.IIdentity
	connections repository.IConnection
	notify      StateNotifier

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore(parent context.Context, identities repository.IIdentity, connections repository.IConnection, notify StateNotifier) *SessionStore {
	return &SessionStore{
		parent:      parent,
		identities:  identities,
		connections: connections,
		notify:      notify,
		sessions:    make(map[string]*Session),
	}
}

// Open starts a fresh session for user, closing any previous one.
func (st *SessionStore) Open(user model.User, connections []model.Connection) *Session {
	ctx, cancel := context.WithCancel(st.parent)
	sess := &Session{
		uid:    user.UID,
		state:  studio.New(user, connections),
		notify: st.notify,
		ctx:    ctx,
		cancel: cancel,
	}

	st.mu.Lock()
	prev := st.sessions[user.UID]
	st.sessions[user.UID] = sess
	st.mu.Unlock()

	if prev != nil {
		prev.close()
	}
	return sess
}

// Acquire returns the live session for uid, restoring it from persistence when needed.
func (st *SessionStore) Acquire(ctx context.Context, uid string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[uid]
	st.mu.RUnlock()
	if ok {
		return sess, nil
	}

	user, err := st.identities.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if user == nil {
		return nil, ErrNoSession
	}
	connections, err := st.connections.List(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}

	logger.GetLogger().WithField("uid", uid).Info("Restoring session from persisted state")
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[uid]; ok {
		return sess, nil
	}
	sessCtx, cancel := context.WithCancel(st.parent)
	sess = &Session{
		uid:    uid,
		state:  studio.New(*user, connections),
		notify: st.notify,
		ctx:    sessCtx,
		cancel: cancel,
	}
	st.sessions[uid] = sess
	return sess, nil
}

// Close tears the session down and cancels whatever run it owns.
func (st *SessionStore) Close(uid string) {
	st.mu.Lock()
	sess := st.sessions[uid]
	delete(st.sessions, uid)
	st.mu.Unlock()

	if sess != nil {
		sess.close()
	}
}
