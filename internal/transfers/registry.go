package transfers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry hands out one Session per partner account and evicts sessions
// nobody has touched for the TTL.
type Registry struct {
	mu            sync.Mutex
	sessions      map[string]*Session
	source        Source
	defaultStatus string
	ttl           time.Duration
	log           *zap.Logger
}

func NewRegistry(source Source, defaultStatus string, ttl time.Duration, log *zap.Logger) *Registry {
	r := &Registry{
		sessions:      make(map[string]*Session),
		source:        source,
		defaultStatus: defaultStatus,
		ttl:           ttl,
		log:           log,
	}

	go r.cleanupLoop()

	return r
}

// Session returns the account's session, creating an idle one on first use,
// and refreshes the CRM credential it carries.
func (r *Registry) Session(accountID, credential string) *Session {
	r.mu.Lock()
	session, exists := r.sessions[accountID]
	if !exists {
		session = NewSession(accountID, r.source, r.defaultStatus, r.log)
		r.sessions[accountID] = session
	}
	r.mu.Unlock()

	session.SetCredential(credential)
	session.touch()
	return session
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-r.ttl)

		r.mu.Lock()
		for accountID, session := range r.sessions {
			if session.idleSince(cutoff) {
				delete(r.sessions, accountID)
				r.log.Info("evicted idle portal session", zap.String("account", accountID))
			}
		}
		r.mu.Unlock()
	}
}
