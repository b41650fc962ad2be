package event

import "github.com/openspell/sim/internal/model"

// PlayerLoggedIn fires once a session's authentication handshake (an
// out-of-scope collaborator) hands the core a ready-to-spawn user id.
type PlayerLoggedIn struct {
	UserID   int64
	Username string
}

// PlayerDisconnected fires when a session's inbound queue closes; the core
// keeps the PlayerState in memory (for a grace period the out-of-scope
// session layer owns) rather than destroying it immediately.
type PlayerDisconnected struct {
	Player model.EntityRef
}
