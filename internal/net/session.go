package net

import (
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Session is one connected bridge client. Outbound events go through a
// buffered channel so a slow client never blocks the broadcaster; when the
// buffer fills, the session is dropped.
type Session struct {
	ID      uint64
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	log     *zap.Logger
	closed  chan struct{}
}

func newSession(id uint64, conn *websocket.Conn, outSize int, perSecond, burst int, log *zap.Logger) *Session {
	return &Session{
		ID:      id,
		conn:    conn,
		send:    make(chan []byte, outSize),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		log:     log,
		closed:  make(chan struct{}),
	}
}

// writePump flushes the send buffer to the socket.
func (s *Session) writePump() {
	defer s.conn.Close()
	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-s.closed:
			return
		}
	}
}

// trySend queues a message, reporting false when the buffer is full.
func (s *Session) trySend(msg []byte) bool {
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	s.conn.Close()
}
