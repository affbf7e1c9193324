package services

import (
	"sync"

	"gabinete-digital/models"
)

// DraftSessions holds each user's draft in progress.
type DraftSessions struct {
	mu       sync.RWMutex
	sessions map[string]models.DraftSession
}

func NewDraftSessions() *DraftSessions {
	return &DraftSessions{sessions: make(map[string]models.DraftSession)}
}

func (d *DraftSessions) Get(userID string) (models.DraftSession, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[userID]
	return s, ok
}

func (d *DraftSessions) Set(userID string, session models.DraftSession) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[userID] = session
}

func (d *DraftSessions) Clear(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, userID)
}
