package cache

import (
	"strings"
	"sync"

	"attendance-service/internal/models"
)

// SessionCache tracks which students already hold an attendance record in a
// given session, so a scanning burst does not hit the store for every repeat
// read. Values may carry a snapshot of the record itself when one is known;
// a nil snapshot means "member, record not cached".
//
// The cache is a pure read optimization. It is never persisted and may be
// dropped and rebuilt from the ledger at any time.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*models.AttendanceRecord
}

func New() *SessionCache {
	return &SessionCache{
		sessions: make(map[string]map[string]*models.AttendanceRecord),
	}
}

// Key normalizes a raw register number into the cache/store key form.
func Key(regNo string) string {
	return strings.ToUpper(strings.TrimSpace(regNo))
}

// Known reports whether the cache holds membership for the session at all.
// Negative lookups are only trusted once a session is known.
func (c *SessionCache) Known(sessionID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.sessions[sessionID]
	return ok
}

// Contains reports membership for a student key. known is false when the
// session has never been loaded, in which case present is meaningless.
func (c *SessionCache) Contains(sessionID, studentKey string) (present, known bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	members, ok := c.sessions[sessionID]
	if !ok {
		return false, false
	}

	_, present = members[studentKey]
	return present, true
}

// Record returns the cached record snapshot for a member, if one is held.
func (c *SessionCache) Record(sessionID, studentKey string) *models.AttendanceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	members, ok := c.sessions[sessionID]
	if !ok {
		return nil
	}

	return members[studentKey]
}

// Add marks a student as a member of the session, optionally with a record
// snapshot. The session entry is created if missing.
func (c *SessionCache) Add(sessionID, studentKey string, rec *models.AttendanceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	members, ok := c.sessions[sessionID]
	if !ok {
		members = make(map[string]*models.AttendanceRecord)
		c.sessions[sessionID] = members
	}

	members[studentKey] = rec
}

// Remove drops a student from the session entry. The entry itself is kept even
// when it becomes empty, so negatives for the session stay trusted.
func (c *SessionCache) Remove(sessionID, studentKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if members, ok := c.sessions[sessionID]; ok {
		delete(members, studentKey)
	}
}

// ReplaceSession swaps the full membership of a session with the given
// records, keyed by normalized register number.
func (c *SessionCache) ReplaceSession(sessionID string, records []*models.AttendanceRecord) {
	members := make(map[string]*models.AttendanceRecord, len(records))
	for _, rec := range records {
		members[Key(rec.RegNo)] = rec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[sessionID] = members
}

// Clear drops the session entry entirely; the next lookup goes to the store.
func (c *SessionCache) Clear(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, sessionID)
}

// Reset drops every session entry.
func (c *SessionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions = make(map[string]map[string]*models.AttendanceRecord)
}

// Size returns the number of members held for a session.
func (c *SessionCache) Size(sessionID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sessions[sessionID])
}
