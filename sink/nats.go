package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vidtrack/vidtrack/constant"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/log"
)

// Publisher is the part of *nats.Conn the NATS sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATS publishes each event to "<prefix>.<type>".
type NATS struct {
	conn       Publisher
	prefix     string
	maxRetries int
	backoff    time.Duration
	sleep      func(time.Duration)
}

// NewNATS publishes on conn under the subject prefix.
func NewNATS(conn Publisher, prefix string, maxRetries int) *NATS {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &NATS{
		conn:       conn,
		prefix:     prefix,
		maxRetries: maxRetries,
		backoff:    100 * time.Millisecond,
		sleep:      time.Sleep,
	}
}

// ConnectNATS dials url with the client name set.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Name(constant.Vidtrack))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}

// Subject returns the subject ev is published on.
func (n *NATS) Subject(ev event.VideoEvent) string {
	if n.prefix == "" {
		return string(ev.Type)
	}
	return n.prefix + "." + string(ev.Type)
}

// Publish sends ev, retrying with a linear backoff between attempts.
func (n *NATS) Publish(ev event.VideoEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := n.Subject(ev)
	for i := 0; i < n.maxRetries; i++ {
		if err = n.conn.Publish(subject, data); err == nil {
			return nil
		}
		if i < n.maxRetries-1 {
			n.sleep(time.Duration(i+1) * n.backoff)
		}
	}

	return fmt.Errorf("publish after %d attempts: %w", n.maxRetries, err)
}

// Write is the event.Sink of the publisher. Failures are logged.
func (n *NATS) Write(ev event.VideoEvent) {
	if err := n.Publish(ev); err != nil {
		log.Errorf("nats sink: %s", err)
	}
}
