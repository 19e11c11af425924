package feedbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/aydinworks/content-advisor/internal/domain/records"
)

// SubjectRecordCreated is the topic new search records are announced on
const SubjectRecordCreated = "advisor.records.created"

// Bus publishes and subscribes record-created events over NATS
type Bus struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// Connect dials NATS with reconnect behaviour suited to a long-lived feed channel
func Connect(natsURL string) (*Bus, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("feed bus connected to NATS at %s", natsURL)
	return &Bus{conn: conn}, nil
}

// PublishRecordCreated announces an appended record to all live-feed subscribers
func (b *Bus) PublishRecordCreated(ev *records.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.conn.Publish(SubjectRecordCreated, data)
}

// Subscribe registers a handler for record-created events. Malformed payloads
// are logged and dropped; the subscription stays up.
func (b *Bus) Subscribe(handler func(*records.Event)) error {
	sub, err := b.conn.Subscribe(SubjectRecordCreated, func(msg *nats.Msg) {
		var ev records.Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Printf("feed bus: failed to unmarshal record event: %v", err)
			return
		}
		handler(&ev)
	})
	if err != nil {
		return err
	}
	b.sub = sub
	return nil
}

// Close unsubscribes and drops the connection
func (b *Bus) Close() {
	if b.sub != nil {
		b.sub.Unsubscribe()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}

// IsConnected returns true when the NATS connection is live
func (b *Bus) IsConnected() bool {
	return b.conn != nil && b.conn.IsConnected()
}
