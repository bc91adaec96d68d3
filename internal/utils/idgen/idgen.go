package idgen

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const sessionPrefix = "sess_"

// NewSessionID returns a sess_* ULID string. The session id is the only credential for reading a
// transcript, so its 80 random bits come straight from crypto/rand and are not monotonic.
func NewSessionID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return sessionPrefix + strings.ToLower(id.String())
}

// IsSessionID reports whether value looks like an id produced by NewSessionID.
func IsSessionID(value string) bool {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, sessionPrefix) {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(strings.TrimPrefix(value, sessionPrefix)))
	return err == nil
}

// NewRowID returns a random UUID for relational rows.
func NewRowID() string {
	return uuid.NewString()
}

// NewMessageID returns the identifier of a transcript message.
func NewMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
