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

// Package msg holds the data model shared by the producer and consumer
// sides of the client: message ids, decoded messages, and the monotonic
// counters used to mint producer sequence ids and request ids.
package msg

import (
	"fmt"
	"sync/atomic"
)

// IDType distinguishes a message id that stands alone from one that names a
// position inside a batched broker entry.
type IDType int

const (
	// Individual identifies a message that was not part of a batch.
	Individual IDType = iota
	// Cumulative identifies one logical message inside a batched entry;
	// BatchIndex and Acker are only meaningful for this variant.
	Cumulative
)

func (t IDType) String() string {
	if t == Cumulative {
		return "Cumulative"
	}
	return "Individual"
}

// ID identifies a single message on a partition. Two ids are Equal iff
// their (LedgerID, EntryID, Partition, BatchIndex-or-none) tuple matches;
// Acker is carried along for convenience but is deliberately excluded from
// identity, per the data model's invariant.
type ID struct {
	LedgerID  uint64
	EntryID   uint64
	Partition int32
	TopicName string

	Type       IDType
	BatchIndex int32 // only valid when Type == Cumulative
	Acker      *BatchAcker // only valid when Type == Cumulative
}

// Equal reports whether id and other name the same message.
func (id ID) Equal(other ID) bool {
	if id.LedgerID != other.LedgerID || id.EntryID != other.EntryID || id.Partition != other.Partition {
		return false
	}
	if id.Type != other.Type {
		return false
	}
	if id.Type == Cumulative && id.BatchIndex != other.BatchIndex {
		return false
	}
	return true
}

// key is the comparable projection of ID usable as a map key.
type key struct {
	ledgerID, entryID uint64
	partition         int32
	batchIdx          int32 // -1 when Type == Individual
}

// Key returns the comparable identity of id, suitable for use as a map key
// in the unacked tracker and ack grouping tracker's duplicate set.
func (id ID) Key() key {
	k := key{ledgerID: id.LedgerID, entryID: id.EntryID, partition: id.Partition, batchIdx: -1}
	if id.Type == Cumulative {
		k.batchIdx = id.BatchIndex
	}
	return k
}

func (id ID) String() string {
	if id.Type == Cumulative {
		return fmt.Sprintf("%d:%d:%d#%d", id.LedgerID, id.EntryID, id.Partition, id.BatchIndex)
	}
	return fmt.Sprintf("%d:%d:%d", id.LedgerID, id.EntryID, id.Partition)
}

// Less orders ids by (ledgerID, entryID, batchIndex), which matches cursor
// order on a single partition; used to detect cumulative-ack boundaries.
func (id ID) Less(other ID) bool {
	if id.LedgerID != other.LedgerID {
		return id.LedgerID < other.LedgerID
	}
	if id.EntryID != other.EntryID {
		return id.EntryID < other.EntryID
	}
	return id.BatchIndex < other.BatchIndex
}

// Metadata is the subset of the broker's per-entry MessageMetadata the
// application-facing Message carries.
type Metadata struct {
	NumMessages           int32
	CompressionType       int32
	UncompressedSize      uint32
	HasNumMessagesInBatch bool
	EventTimeUnixMillis   uint64
	PublishTimeUnixMillis uint64
}

// Message is a single logical message delivered to the application.
type Message struct {
	ID         ID
	Metadata   Metadata
	Payload    []byte
	Properties map[string]string
	Key        string // partition routing key, empty if unset

	RedeliveryCount uint32
}

// MonotonicID is a simple atomic counter used to mint producer sequence ids
// and request ids. The zero value starts counting from 0.
type MonotonicID struct {
	ID uint64
}

// Next atomically increments the counter and returns a pointer to the value
// it held before the increment, matching the `*uint64` shape the generated
// command structs expect for their required id fields.
func (m *MonotonicID) Next() *uint64 {
	v := atomic.AddUint64(&m.ID, 1) - 1
	return &v
}
