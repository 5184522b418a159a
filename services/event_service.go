package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	EventComplaintCreated       = "complaint.created"
	EventComplaintHidden        = "complaint.hidden"
	EventComplaintUnhidden      = "complaint.unhidden"
	EventComplaintStatusChanged = "complaint.status_changed"
	EventComplaintDeleted       = "complaint.deleted"
)

// complaintSubjects matches every subject produced by subjectFor.
const complaintSubjects = "awaz.complaints.>"

// Event describes something that happened to a complaint. UserID is set when
// someone other than the owner caused it.
type Event struct {
	Type        string    `json:"type"`
	ComplaintID uint      `json:"complaint_id"`
	OwnerID     uint      `json:"owner_id"`
	UserID      uint      `json:"user_id,omitempty"`
	WardID      *uint     `json:"ward_id,omitempty"`
	StatusID    *uint     `json:"status_id,omitempty"`
	At          time.Time `json:"at"`
}

func subjectFor(eventType string) string {
	return "awaz.complaints." + strings.TrimPrefix(eventType, "complaint.")
}

// EventBus fans complaint events out to live subscribers.
type EventBus interface {
	Publish(ctx context.Context, event Event)
	// Subscribe returns a stream of events and a function that ends the subscription.
	Subscribe() (<-chan Event, func(), error)
}

// NewEventBus publishes through NATS when nc is set, otherwise it delivers
// events in-process.
func NewEventBus(nc *nats.Conn) EventBus {
	if nc != nil {
		return &natsEventBus{nc: nc}
	}
	return &localEventBus{subscribers: make(map[chan Event]struct{})}
}

type natsEventBus struct {
	nc *nats.Conn
}

func (b *natsEventBus) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[events] failed to marshal %s: %v", event.Type, err)
		return
	}
	if err := b.nc.Publish(subjectFor(event.Type), data); err != nil {
		log.Printf("[events] failed to publish %s for complaint %d: %v", event.Type, event.ComplaintID, err)
	}
}

func (b *natsEventBus) Subscribe() (<-chan Event, func(), error) {
	events := make(chan Event, 64)
	done := make(chan struct{})
	sub, err := b.nc.Subscribe(complaintSubjects, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("[events] failed to unmarshal %s: %v", msg.Subject, err)
			return
		}
		select {
		case events <- event:
		case <-done:
		default:
			log.Printf("[events] subscriber is slow, dropping %s", event.Type)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := sub.Unsubscribe(); err != nil {
				log.Printf("[events] unsubscribe: %v", err)
			}
			close(done)
		})
	}
	return events, cancel, nil
}

type localEventBus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

func (b *localEventBus) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			log.Printf("[events] subscriber is slow, dropping %s", event.Type)
		}
	}
}

func (b *localEventBus) Subscribe() (<-chan Event, func(), error) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel, nil
}
