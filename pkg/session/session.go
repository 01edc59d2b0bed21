// Package session keeps per-user dashboard state.
//
// Every dashboard visitor gets a [Session] identified by a random UUID. The
// session records which upload it owns and the current selection (key
// column, value columns, key value), so concurrent users never see each
// other's tables or selections.
//
// Two stores implement [Store]:
//   - [MemoryStore]: in-process map for the dashboard
//   - [FileStore]: JSON files, used by the CLI to remember the last
//     selection per input file
//
// # Usage
//
//	sess := session.New("survey.csv", tableHash, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeSessionExpired) {
//	    // ask for a new upload
//	}
package session

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 2 * time.Hour

// Selection is what the user currently looks at.
type Selection struct {
	KeyColumn    string   `json:"key_column"`
	ValueColumns []string `json:"value_columns"`
	KeyValue     string   `json:"key_value"`
}

// Session stores one user's dashboard state.
type Session struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"`
	TableHash  string    `json:"table_hash"`
	Encoding   string    `json:"encoding,omitempty"`
	Selection  Selection `json:"selection"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// New creates a session with a fresh random ID.
func New(sourceName, tableHash string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		SourceName: sourceName,
		TableHash:  tableHash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// HasTable reports whether an upload is attached.
func (s *Session) HasTable() bool {
	return s.TableHash != ""
}

// Clone returns a deep copy, so a stored session is never shared with a
// caller.
func (s *Session) Clone() *Session {
	c := *s
	c.Selection.ValueColumns = slices.Clone(s.Selection.ValueColumns)
	return &c
}

// ValidateID checks that id is a well-formed session ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeSessionNotFound, err, "malformed session id")
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session with id. It fails with SESSION_NOT_FOUND when
	// there is none and SESSION_EXPIRED when it has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a copy of sess.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns their IDs.
	Cleanup(ctx context.Context) ([]string, error)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
}

func expired(id string) error {
	return errors.New(errors.ErrCodeSessionExpired, "session %s expired", id)
}
