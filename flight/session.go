package flight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugr-lab/aeroscope-go/auth"
	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/engine"
)

// session is one remote dashboard: an engine over a source, owned by the
// identity that created it. mu serializes every engine call.
type session struct {
	id      string
	source  catalog.Source
	owner   string
	created time.Time

	mu     sync.Mutex
	engine *engine.Engine
}

// do runs fn with the session's engine locked.
func (s *session) do(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// ErrTooManySessions is returned by create_session when the server already
// holds its maximum number of open sessions.
var ErrTooManySessions = errors.New("too many open sessions")

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	limit    int // 0 means unlimited
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) setLimit(n int) {
	r.mu.Lock()
	r.limit = n
	r.mu.Unlock()
}

func (r *sessionRegistry) create(ctx context.Context, src catalog.Source, opts ...engine.Option) (*session, error) {
	r.mu.RLock()
	full := r.limit > 0 && len(r.sessions) >= r.limit
	r.mu.RUnlock()
	if full {
		return nil, ErrTooManySessions
	}

	sess := &session{
		id:      uuid.NewString(),
		source:  src,
		owner:   auth.IdentityFromContext(ctx),
		created: time.Now(),
		engine:  engine.New(src.Data(), opts...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		return nil, ErrTooManySessions
	}
	r.sessions[sess.id] = sess
	return sess, nil
}

// get returns the session with the given id if it belongs to the caller.
func (r *sessionRegistry) get(ctx context.Context, id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || sess.owner != auth.IdentityFromContext(ctx) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (r *sessionRegistry) close(ctx context.Context, id string) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *sessionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
