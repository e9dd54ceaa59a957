// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sub

import (
	"sync"
	"time"

	"github.com/pepper-iot/pulsar-client-go/core/msg"
)

// unackedTracker is implemented by both the real time-wheel tracker and a
// disabled null object, so the Consumer Actor talks to one interface
// regardless of whether ack_timeout is set.
type unackedTracker interface {
	Add(id msg.ID)
	Remove(id msg.ID)
	Clear()
	Close()
	// Snapshot returns every id currently tracked, in no particular order.
	Snapshot() []msg.ID
}

// disabledUnackedTracker is used whenever Config.AckTimeout == 0.
type disabledUnackedTracker struct{}

func (disabledUnackedTracker) Add(msg.ID)         {}
func (disabledUnackedTracker) Remove(msg.ID)      {}
func (disabledUnackedTracker) Clear()             {}
func (disabledUnackedTracker) Close()             {}
func (disabledUnackedTracker) Snapshot() []msg.ID { return nil }

var _ unackedTracker = disabledUnackedTracker{}

// unackedMessageTracker is a fixed-size ring of time buckets. Each add()
// lands in the current head bucket; a ticker advances the ring every tick,
// and whatever was in the bucket being evicted is handed to onTimeout for
// redelivery.
type unackedMessageTracker struct {
	mu      sync.Mutex
	buckets []map[interface{}]msg.ID
	head    int

	onTimeout func(ids []msg.ID)

	stopc     chan struct{}
	closeOnce sync.Once
}

// newUnackedMessageTracker builds a tracker with enough buckets to span
// ackTimeout at tick-sized steps. A tick equal to ackTimeout yields a
// single-bucket ring; callers that want finer redelivery granularity pass
// a smaller tick explicitly.
func newUnackedMessageTracker(ackTimeout, tick time.Duration, onTimeout func([]msg.ID)) *unackedMessageTracker {
	if tick <= 0 {
		tick = ackTimeout
	}
	numBuckets := int(ackTimeout / tick)
	if numBuckets < 1 {
		numBuckets = 1
	}

	t := &unackedMessageTracker{
		buckets:   make([]map[interface{}]msg.ID, numBuckets),
		onTimeout: onTimeout,
		stopc:     make(chan struct{}),
	}
	for i := range t.buckets {
		t.buckets[i] = make(map[interface{}]msg.ID)
	}

	go t.run(tick)

	return t
}

func (t *unackedMessageTracker) run(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopc:
			return
		case <-ticker.C:
			t.advance()
		}
	}
}

// advance evicts the bucket one past the current head (the oldest bucket in
// the ring) and moves head forward into it, flushing whatever it held.
func (t *unackedMessageTracker) advance() {
	t.mu.Lock()
	next := (t.head + 1) % len(t.buckets)
	evicted := t.buckets[next]
	t.buckets[next] = make(map[interface{}]msg.ID)
	t.head = next
	t.mu.Unlock()

	if len(evicted) == 0 {
		return
	}
	ids := make([]msg.ID, 0, len(evicted))
	for _, id := range evicted {
		ids = append(ids, id)
	}
	if t.onTimeout != nil {
		t.onTimeout(ids)
	}
}

func (t *unackedMessageTracker) Add(id msg.ID) {
	t.mu.Lock()
	t.buckets[t.head][id.Key()] = id
	t.mu.Unlock()
}

// Remove searches every bucket and deletes the id on first hit.
func (t *unackedMessageTracker) Remove(id msg.ID) {
	k := id.Key()
	t.mu.Lock()
	for _, b := range t.buckets {
		if _, ok := b[k]; ok {
			delete(b, k)
			break
		}
	}
	t.mu.Unlock()
}

// Snapshot collects every id still tracked across all buckets.
func (t *unackedMessageTracker) Snapshot() []msg.ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]msg.ID, 0)
	for _, b := range t.buckets {
		for _, id := range b {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *unackedMessageTracker) Clear() {
	t.mu.Lock()
	for i := range t.buckets {
		t.buckets[i] = make(map[interface{}]msg.ID)
	}
	t.mu.Unlock()
}

func (t *unackedMessageTracker) Close() {
	t.closeOnce.Do(func() { close(t.stopc) })
}

var _ unackedTracker = (*unackedMessageTracker)(nil)
