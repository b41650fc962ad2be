package boot

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/openspell/sim/internal/model"
	"github.com/openspell/sim/internal/net"
	"github.com/openspell/sim/internal/spatial"
)

// wirePacket is the JSON-over-framing stand-in for spec §6's real byte
// encoding: the wire codec itself is an out-of-scope collaborator
// (§1/§6), so this package only needs something that turns an
// OutboundPacket into bytes on Session.OutQueue — JSON keeps that seam
// honest without inventing a binary format nothing downstream reads.
type wirePacket struct {
	Kind    int    `json:"kind"`
	Subject string `json:"subject"`
	Level   int    `json:"level"`
	X       int32  `json:"x"`
	Y       int32  `json:"y"`
}

// SessionSink implements spatial.PacketSink by looking up the live
// net.Session bound to a viewer's player ref and pushing an encoded
// frame onto its OutQueue. Grounded on the teacher's per-session
// broadcast helpers (internal/system/visibility.go's SendPacket), which
// likewise resolved a player ref to a live connection before writing.
type SessionSink struct {
	mu       sync.RWMutex
	sessions map[model.EntityRef]*net.Session
	log      *zap.Logger
}

func NewSessionSink(log *zap.Logger) *SessionSink {
	return &SessionSink{sessions: make(map[model.EntityRef]*net.Session), log: log}
}

// Bind associates a player ref with its live session, called once on
// spawn. Unbind removes it, called on disconnect.
func (s *SessionSink) Bind(ref model.EntityRef, sess *net.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ref] = sess
}

func (s *SessionSink) Unbind(ref model.EntityRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ref)
}

func (s *SessionSink) Enqueue(viewer model.EntityRef, pkt spatial.OutboundPacket) error {
	s.mu.RLock()
	sess, ok := s.sessions[viewer]
	s.mu.RUnlock()
	if !ok {
		return nil // viewer has no live connection (NPC viewer, already disconnected)
	}
	data, err := json.Marshal(wirePacket{
		Kind:    int(pkt.Kind),
		Subject: pkt.Subject.String(),
		Level:   int(pkt.Pos.Level),
		X:       pkt.Pos.X,
		Y:       pkt.Pos.Y,
	})
	if err != nil {
		return err
	}
	sess.Send(data)
	return nil
}
