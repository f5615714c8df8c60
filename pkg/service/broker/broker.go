// Playwarden
// Copyright (c) 2026 The Playwarden Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playwarden.
//
// Playwarden is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playwarden is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playwarden.  If not, see <http://www.gnu.org/licenses/>.

// Package broker fans monitor notifications out to front-ends. Sends to
// subscribers are non-blocking so a stalled front-end can never hold up
// the monitor loop.
package broker

import (
	"context"
	"sync"

	"github.com/playwarden/playwarden/pkg/notifications"
	"github.com/rs/zerolog/log"
)

// Broker reads from a single source channel (the monitor loop's sends)
// and broadcasts each notification to every subscriber.
type Broker struct {
	ctx         context.Context
	source      <-chan notifications.Notification
	subscribers map[int]chan notifications.Notification
	mu          sync.RWMutex
	nextID      int
}

func NewBroker(ctx context.Context, source <-chan notifications.Notification) *Broker {
	return &Broker{
		ctx:         ctx,
		source:      source,
		subscribers: make(map[int]chan notifications.Notification),
	}
}

// Start runs the broadcast loop in a goroutine. It exits, closing all
// subscriber channels, when the source channel closes or the context is
// cancelled.
func (b *Broker) Start() {
	go func() {
		for {
			select {
			case notif, ok := <-b.source:
				if !ok {
					log.Debug().Msg("broker: source channel closed")
					b.closeAllSubscribers()
					return
				}
				b.broadcast(notif)
			case <-b.ctx.Done():
				log.Debug().Msg("broker: context cancelled, shutting down")
				b.closeAllSubscribers()
				return
			}
		}
	}()
}

func (b *Broker) broadcast(notif notifications.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- notif:
		default:
			// Subscriber buffer full; drop rather than block the loop.
			log.Warn().
				Int("subscriber_id", id).
				Str("method", notif.Method).
				Msg("broker: subscriber channel full, dropping notification")
		}
	}
}

// Subscribe registers a new consumer and returns its channel and an ID
// for unsubscribing.
func (b *Broker) Subscribe(bufferSize int) (<-chan notifications.Notification, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan notifications.Notification, bufferSize)
	b.subscribers[id] = ch

	log.Debug().Int("subscriber_id", id).Msg("broker: new subscriber")
	return ch, id
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// more than once with the same ID.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Stop closes all subscriber channels.
func (b *Broker) Stop() {
	b.closeAllSubscribers()
}

func (b *Broker) closeAllSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		close(ch)
		log.Debug().Int("subscriber_id", id).Msg("broker: closed subscriber channel")
	}
	b.subscribers = make(map[int]chan notifications.Notification)
}
