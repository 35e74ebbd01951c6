package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sayanchanda7290/roomradar/models"
)

// Channel is the redis channel domain events are published on.
const Channel = "roomradar-events"

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Event struct {
	Name    string       `json:"event"`
	Content models.Index `json:"content"`
}

// Emitter publishes domain events. With no publisher configured events are
// only logged.
type Emitter struct {
	pub Publisher
}

func NewEmitter(pub Publisher) *Emitter {
	return &Emitter{pub: pub}
}

// Emit never fails the caller; publish errors are logged.
func (e *Emitter) Emit(ctx context.Context, eventName string, content models.Index) {
	if e == nil || e.pub == nil {
		log.Printf("[Emit] %s %+v (no bus configured)", eventName, content)
		return
	}

	data, err := json.Marshal(Event{Name: eventName, Content: content})
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}
	if err := e.pub.Publish(ctx, Channel, data); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}
