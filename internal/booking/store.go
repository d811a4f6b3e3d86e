package booking

import (
	"errors"
	"sync"

	"flybooker/pkg/idgen"
	"flybooker/pkg/logger"
)

// Store owns every live booking session. Sessions are in-memory only and
// discarded when the process exits; there is no durable layer. All mutation
// goes through Dispatch so that no caller ever sees a partially updated
// session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	idgen    idgen.Generator
	logger   logger.Client
}

func NewStore(gen idgen.Generator, logger logger.Client) *Store {
	return &Store{
		sessions: make(map[string]Session),
		idgen:    gen,
		logger:   logger,
	}
}

// Create starts a fresh session and returns its initial state.
func (st *Store) Create() Session {
	s := NewSession(st.idgen.GenerateStringID())

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

// Get returns a snapshot of the session.
func (st *Store) Get(id string) (Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return Session{}, NewNotFoundError("session not found: " + id)
	}
	return s, nil
}

// Dispatch applies the actions in order under a single lock: either all of
// them commit or the session is left untouched. Unknown actions are logged
// as a warning and skipped rather than failing, so the action set can evolve
// without breaking older callers.
func (st *Store) Dispatch(id string, actions ...Action) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return Session{}, NewNotFoundError("session not found: " + id)
	}

	next := s
	for _, action := range actions {
		var err error
		next, err = Reduce(next, action)
		if err != nil {
			if errors.Is(err, ErrUnknownAction) {
				st.logger.Warn("ignoring unknown booking action",
					logger.Field{Key: "session_id", Value: id},
					logger.Err(err),
				)
				continue
			}
			return s, err
		}
	}

	st.sessions[id] = next
	return next, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
