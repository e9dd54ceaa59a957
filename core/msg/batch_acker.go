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

package msg

import "sync"

// BatchAcker tracks which sub-messages of a single batched broker entry are
// still outstanding. One is created per batch frame (NewBatchAcker) and
// shared by every sub-message id that batch produces; it is released once
// the last outstanding ack clears it or the batch is redelivered wholesale.
//
// It carries its own mutex rather than relying on the Consumer Actor's
// single-writer discipline, since the acker pointer escapes into
// application-held message ids and could in principle be poked from
// outside the actor loop.
type BatchAcker struct {
	mu sync.Mutex

	acked      []bool
	outstanding int

	// prevBatchCumulativelyAcked records whether this batch has already
	// had a cumulative ack flushed for it, so the Consumer Actor only
	// sends the "close out the previous batch boundary" ack once.
	prevBatchCumulativelyAcked bool
}

// NewBatchAcker returns a tracker for a batch of the given cardinality.
func NewBatchAcker(size int) *BatchAcker {
	return &BatchAcker{
		acked:       make([]bool, size),
		outstanding: size,
	}
}

// AckIndividual clears bit i and reports whether every bit in the batch is
// now cleared.
func (b *BatchAcker) AckIndividual(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ackLocked(i, i)
}

// AckGroup clears bits [0, i] inclusive (a cumulative ack up to i) and
// reports whether every bit in the batch is now cleared.
func (b *BatchAcker) AckGroup(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ackLocked(0, i)
}

func (b *BatchAcker) ackLocked(from, to int) bool {
	for i := from; i <= to && i < len(b.acked); i++ {
		if i < 0 {
			continue
		}
		if !b.acked[i] {
			b.acked[i] = true
			b.outstanding--
		}
	}
	return b.outstanding <= 0
}

// OutstandingAcks returns how many sub-messages are still unacked.
func (b *BatchAcker) OutstandingAcks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outstanding
}

// BatchSize returns the batch's total cardinality.
func (b *BatchAcker) BatchSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.acked)
}

// MarkPrevBatchCumulativelyAcked records that a cumulative ack boundary for
// this batch has been sent, and reports whether it was already set (so the
// caller only acts on the first transition).
func (b *BatchAcker) MarkPrevBatchCumulativelyAcked() (already bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	already = b.prevBatchCumulativelyAcked
	b.prevBatchCumulativelyAcked = true
	return already
}
