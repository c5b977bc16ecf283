package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/jaevor/go-nanoid"
)

var newSubscriberID func() string

func init() {
	generator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init subscriber id generator: %v", err)
	}
	newSubscriberID = generator
}

// ConnSubscriber adapts one websocket connection to the push subscriber
// contract. Writes are serialized, the underlying connection allows only
// one concurrent writer.
type ConnSubscriber struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewConnSubscriber(conn *websocket.Conn) *ConnSubscriber {
	return &ConnSubscriber{
		id:   newSubscriberID(),
		conn: conn,
	}
}

func (s *ConnSubscriber) ID() string {
	return s.id
}

func (s *ConnSubscriber) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
