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

	"github.com/golang/protobuf/proto"
	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
)

// maxGroupedAcks bounds how many individual acks accumulate before a flush
// is forced regardless of the window timer, so a burst of acks can't grow
// the pending set without limit.
const maxGroupedAcks = 1000

// ackDuplicateWindow bounds how long an acked id is remembered for
// IsDuplicate, keeping the duplicate set bounded to a recent window
// instead of growing without limit.
const ackDuplicateWindow = 2 * time.Minute

// ackGrouper batches application acks and answers duplicate queries for the
// Consumer Actor's MessageReceived handler.
type ackGrouper interface {
	Add(id msg.ID, ackType api.CommandAck_AckType)
	IsDuplicate(id msg.ID) bool
	Close()
}

// nonPersistentAckGrouper implements the Non-Persistent variant: acks are
// never sent to the broker (there is no cursor to advance), but duplicate
// tracking is pointless without acks being sent in the first place, so
// IsDuplicate always reports false.
type nonPersistentAckGrouper struct{}

func (nonPersistentAckGrouper) Add(msg.ID, api.CommandAck_AckType) {}
func (nonPersistentAckGrouper) IsDuplicate(msg.ID) bool            { return false }
func (nonPersistentAckGrouper) Close()                             {}

var _ ackGrouper = nonPersistentAckGrouper{}

// persistentAckGrouper implements the Persistent variant: individual acks
// accumulate and flush as one coalesced ACK frame per window; the latest
// cumulative ack replaces any earlier one and is sent alone.
type persistentAckGrouper struct {
	consumerID uint64
	send       func(api.BaseCommand) error
	log        log.Logger

	mu          sync.Mutex
	individual  map[interface{}]*api.MessageIdData
	cumulative  *api.MessageIdData
	dup         map[interface{}]time.Time

	stopc     chan struct{}
	closeOnce sync.Once
}

func newPersistentAckGrouper(consumerID uint64, groupTime time.Duration, send func(api.BaseCommand) error, l log.Logger) *persistentAckGrouper {
	g := &persistentAckGrouper{
		consumerID: consumerID,
		send:       send,
		log:        l,
		individual: make(map[interface{}]*api.MessageIdData),
		dup:        make(map[interface{}]time.Time),
		stopc:      make(chan struct{}),
	}
	go g.run(groupTime)
	return g
}

func (g *persistentAckGrouper) run(groupTime time.Duration) {
	ticker := time.NewTicker(groupTime)
	defer ticker.Stop()
	for {
		select {
		case <-g.stopc:
			return
		case <-ticker.C:
			g.flush()
			g.prune()
		}
	}
}

func (g *persistentAckGrouper) Add(id msg.ID, ackType api.CommandAck_AckType) {
	data := toMessageIdData(id)

	g.mu.Lock()
	if ackType == api.CommandAck_Cumulative {
		g.cumulative = data
	} else {
		g.individual[id.Key()] = data
	}
	g.dup[id.Key()] = time.Now()
	overflow := len(g.individual) >= maxGroupedAcks
	g.mu.Unlock()

	if overflow {
		g.flush()
	}
}

func (g *persistentAckGrouper) IsDuplicate(id msg.ID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.dup[id.Key()]
	return ok
}

// flush sends whatever is pending. On send failure the pending acks are
// left in place so the next tick retries them.
func (g *persistentAckGrouper) flush() {
	g.mu.Lock()
	cumulative := g.cumulative
	var individual []*api.MessageIdData
	if len(g.individual) > 0 {
		individual = make([]*api.MessageIdData, 0, len(g.individual))
		for _, d := range g.individual {
			individual = append(individual, d)
		}
	}
	g.mu.Unlock()

	if cumulative != nil {
		cmd := api.BaseCommand{
			Type: api.BaseCommand_ACK.Enum(),
			Ack: &api.CommandAck{
				ConsumerId: proto.Uint64(g.consumerID),
				AckType:    api.CommandAck_Cumulative.Enum(),
				MessageId:  []*api.MessageIdData{cumulative},
			},
		}
		if err := g.send(cmd); err != nil {
			g.log.WithError(err).Warn("failed to flush cumulative ack")
		} else {
			g.mu.Lock()
			if g.cumulative == cumulative {
				g.cumulative = nil
			}
			g.mu.Unlock()
		}
	}

	if len(individual) > 0 {
		cmd := api.BaseCommand{
			Type: api.BaseCommand_ACK.Enum(),
			Ack: &api.CommandAck{
				ConsumerId: proto.Uint64(g.consumerID),
				AckType:    api.CommandAck_Individual.Enum(),
				MessageId:  individual,
			},
		}
		if err := g.send(cmd); err != nil {
			g.log.WithError(err).Warn("failed to flush individual acks")
			return
		}
		g.mu.Lock()
		for _, d := range individual {
			delete(g.individual, idDataKey(d))
		}
		g.mu.Unlock()
	}
}

func (g *persistentAckGrouper) prune() {
	cutoff := time.Now().Add(-ackDuplicateWindow)
	g.mu.Lock()
	for k, t := range g.dup {
		if t.Before(cutoff) {
			delete(g.dup, k)
		}
	}
	g.mu.Unlock()
}

func (g *persistentAckGrouper) Close() {
	g.closeOnce.Do(func() {
		g.flush()
		close(g.stopc)
	})
}

var _ ackGrouper = (*persistentAckGrouper)(nil)

func toMessageIdData(id msg.ID) *api.MessageIdData {
	d := &api.MessageIdData{
		LedgerId:  proto.Uint64(id.LedgerID),
		EntryId:   proto.Uint64(id.EntryID),
		Partition: proto.Int32(id.Partition),
	}
	if id.Type == msg.Cumulative {
		d.BatchIndex = proto.Int32(id.BatchIndex)
	}
	return d
}

// idDataKey reconstructs the map key used by individual, since the flush
// path only has the *api.MessageIdData it already sent, not the original
// msg.ID.
func idDataKey(d *api.MessageIdData) interface{} {
	id := msg.ID{
		LedgerID:  d.GetLedgerId(),
		EntryID:   d.GetEntryId(),
		Partition: d.GetPartition(),
	}
	if d.BatchIndex != nil {
		id.Type = msg.Cumulative
		id.BatchIndex = d.GetBatchIndex()
	}
	return id.Key()
}
