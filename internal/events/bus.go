package events

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SearchCompleted is published after a search request finishes, successful
// or degraded. Subscribers run side effects (analytics, counters) without
// coupling them to the orchestrator.
type SearchCompleted struct {
	Query          string
	UserSession    string
	ResultsCount   int
	ResponseTimeMs int
	SearchMethod   string
	Timestamp      time.Time
}

// Handler consumes a SearchCompleted event.
type Handler func(event SearchCompleted)

// Bus is a minimal in-process publish/subscribe fan-out.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *logrus.Logger
}

func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers the event to every subscriber asynchronously. A panicking
// subscriber never affects the publisher or its request.
func (b *Bus) Publish(event SearchCompleted) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					b.logger.WithField("panic", r).Error("Event subscriber panicked")
				}
			}()
			h(event)
		}(handler)
	}
}
