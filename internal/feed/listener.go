package feed

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
)

// Listener subscribes to the Postgres notification channel the database
// triggers publish on, and turns notifications into Events. The connection is
// long-lived; on failure the listener reconnects with backoff and reports the
// outage on Errors so the consumer can fall back to a full refresh.
type Listener struct {
	dsn     string
	channel string
	events  chan Event
	errs    chan error
}

// NewListener creates a listener for the given DSN and notification channel.
func NewListener(dsn, channel string) *Listener {
	return &Listener{
		dsn:     dsn,
		channel: channel,
		events:  make(chan Event, 64),
		errs:    make(chan error, 1),
	}
}

func (l *Listener) Events() <-chan Event { return l.events }
func (l *Listener) Errors() <-chan error { return l.errs }

// Run maintains the subscription until ctx is done.
func (l *Listener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			log.Println("Change-feed listener shutting down.")
			return
		}
		log.Printf("Change-feed connection lost: %v. Reconnecting in %s.", err, backoff)
		select {
		case l.errs <- err:
		default: // consumer already knows it is disconnected
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.deliver(ctx, Event{Type: Connected})

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		event, err := parsePayload(notification.Payload)
		if err != nil {
			log.Printf("Warning: dropping change notification: %v", err)
			continue
		}
		l.deliver(ctx, event)
	}
}

func (l *Listener) deliver(ctx context.Context, event Event) {
	select {
	case l.events <- event:
	case <-ctx.Done():
	}
}
