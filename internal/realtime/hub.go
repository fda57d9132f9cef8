// Package realtime fans out document changes to connected clients.
//
// Services publish after every successful write; each subscriber receives
// the new state of the collections it cares about and re-renders from it.
package realtime

import (
	"sync"

	"github.com/mmynk/moneymates/internal/metrics"
)

// Topic names a collection clients can watch.
type Topic string

const (
	TopicProfiles     Topic = "profiles"
	TopicTransactions Topic = "transactions"
	TopicGoals        Topic = "goals"
	TopicTarget       Topic = "target"
	TopicPeriods      Topic = "periods"
	TopicGame         Topic = "game"
	TopicStats        Topic = "stats"
)

// Topics lists every topic.
var Topics = []Topic{TopicProfiles, TopicTransactions, TopicGoals, TopicTarget, TopicPeriods, TopicGame, TopicStats}

// Event carries the new state of one collection.
type Event struct {
	Topic Topic
	Data  any
}

const subscriberBuffer = 32

type subscriber struct {
	ch     chan Event
	topics map[Topic]bool
}

func (s *subscriber) wants(t Topic) bool {
	return len(s.topics) == 0 || s.topics[t]
}

// Hub manages change-stream subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*subscriber]struct{}),
	}
}

// Publish sends an event to all subscribers of its topic.
func (h *Hub) Publish(topic Topic, data any) {
	ev := Event{Topic: topic, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.clients {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Client too slow; drop the event.
			metrics.StreamDropped.WithLabelValues(string(topic)).Inc()
		}
	}
}

// Subscribe registers a new client for the given topics, or all topics when
// none are given. It returns the event channel and an unsubscribe func.
func (h *Hub) Subscribe(topics ...Topic) (<-chan Event, func()) {
	sub := &subscriber{
		ch:     make(chan Event, subscriberBuffer),
		topics: make(map[Topic]bool, len(topics)),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	h.mu.Lock()
	h.clients[sub] = struct{}{}
	h.mu.Unlock()
	metrics.StreamClients.Inc()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, sub)
			close(sub.ch)
			h.mu.Unlock()
			metrics.StreamClients.Dec()
		})
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
