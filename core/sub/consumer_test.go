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
	"bytes"
	"context"
	"encoding/binary"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pepper-iot/pulsar-client-go/core/frame"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
)

// encodeTestBatch builds an uncompressed batch payload: a sequence of
// (4-byte big-endian size, marshaled SingleMessageMetadata, raw bytes)
// tuples, one per entry in payloads.
func encodeTestBatch(t *testing.T, payloads []string) ([]byte, error) {
	t.Helper()
	var buf bytes.Buffer
	for _, p := range payloads {
		sm := &api.SingleMessageMetadata{
			PayloadSize: proto.Int32(int32(len(p))),
		}
		smBytes, err := proto.Marshal(sm)
		if err != nil {
			return nil, err
		}
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(smBytes)))
		buf.Write(size[:])
		buf.Write(smBytes)
		buf.WriteString(p)
	}
	return buf.Bytes(), nil
}

// mockConnection is a Connection that always succeeds requests immediately
// and records every frame it is asked to send, for use from a single test
// goroutine at a time (guarded by mu since the actor loop calls it
// concurrently with the test's own assertions).
type mockConnection struct {
	mu        sync.Mutex
	nextReqID uint64
	sent      []api.BaseCommand
	consumers map[uint64]chan<- frame.Frame
	closedc   chan struct{}
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		consumers: make(map[uint64]chan<- frame.Frame),
		closedc:   make(chan struct{}),
	}
}

func (m *mockConnection) SendSimpleCmd(cmd api.BaseCommand) error {
	m.mu.Lock()
	m.sent = append(m.sent, cmd)
	m.mu.Unlock()
	return nil
}

func (m *mockConnection) SendPayloadCmd(cmd api.BaseCommand, _ api.MessageMetadata, _ []byte) error {
	return m.SendSimpleCmd(cmd)
}

func (m *mockConnection) Closed() <-chan struct{} { return m.closedc }

func (m *mockConnection) NewRequestID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReqID++
	return m.nextReqID
}

func (m *mockConnection) SendAndWaitForReply(_ context.Context, requestID uint64, cmd api.BaseCommand) (frame.Frame, error) {
	m.mu.Lock()
	m.sent = append(m.sent, cmd)
	m.mu.Unlock()
	return frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type:    api.BaseCommand_SUCCESS.Enum(),
			Success: &api.CommandSuccess{RequestId: proto.Uint64(requestID)},
		},
	}, nil
}

func (m *mockConnection) AddConsumer(consumerID uint64, inbox chan<- frame.Frame) {
	m.mu.Lock()
	m.consumers[consumerID] = inbox
	m.mu.Unlock()
}

func (m *mockConnection) RemoveConsumer(consumerID uint64) {
	m.mu.Lock()
	delete(m.consumers, consumerID)
	m.mu.Unlock()
}

func (m *mockConnection) sentCommandsOfType(t api.BaseCommand_Type) []api.BaseCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []api.BaseCommand
	for _, c := range m.sent {
		if c.GetType() == t {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockConnection) frameInbox(consumerID uint64) chan<- frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consumers[consumerID]
}

func newTestConsumer(t *testing.T, cfg Config) (*Consumer, *mockConnection) {
	t.Helper()
	cnx := newMockConnection()
	dial := func(ctx context.Context) (Connection, error) { return cnx, nil }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := NewConsumer(ctx, 1, 0, cfg, dial, log.Nop())
	if err != nil {
		t.Fatalf("NewConsumer() err = %v", err)
	}
	return c, cnx
}

func nonBatchedMessageFrame(ledgerID, entryID uint64) frame.Frame {
	return frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_MESSAGE.Enum(),
			Message: &api.CommandMessage{
				ConsumerId: proto.Uint64(1),
				MessageId: &api.MessageIdData{
					LedgerId: proto.Uint64(ledgerID),
					EntryId:  proto.Uint64(entryID),
				},
			},
		},
		Metadata: &api.MessageMetadata{
			ProducerName: proto.String("p"),
			SequenceId:   proto.Uint64(entryID),
			PublishTime:  proto.Uint64(0),
		},
		Payload: []byte("hello"),
	}
}

// TestConsumer_FlowControl covers a queue_size=4 subscription receiving 4
// non-batched messages: the initial flow of 4 is sent on subscribe, and a
// replenishment flow of 2 follows every 2 receives.
func TestConsumer_FlowControl(t *testing.T) {
	cfg := Config{
		Topic:             "persistent://public/default/t",
		SubscriptionName:  "sub",
		SubscriptionType:  Exclusive,
		ReceiverQueueSize: 4,
		IsPersistentTopic: true,
	}
	c, cnx := newTestConsumer(t, cfg)
	defer c.Close(context.Background())

	inbox := cnx.frameInbox(1)
	if inbox == nil {
		t.Fatal("consumer never registered with connection")
	}

	for i := 0; i < 4; i++ {
		inbox <- nonBatchedMessageFrame(0, uint64(i))
	}
	time.Sleep(50 * time.Millisecond)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		m, err := c.Receive(ctx)
		if err != nil {
			t.Fatalf("Receive() err = %v", err)
		}
		if m.ID.EntryID != uint64(i) {
			t.Fatalf("Receive() got entry %d; expected %d", m.ID.EntryID, i)
		}
	}
	time.Sleep(50 * time.Millisecond)

	flows := cnx.sentCommandsOfType(api.BaseCommand_FLOW)
	if len(flows) != 3 {
		t.Fatalf("got %d flow frames; expected 3 (initial + 2 replenishments)", len(flows))
	}
	if got := flows[0].GetFlow().GetMessagePermits(); got != 4 {
		t.Fatalf("initial flow permits = %d; expected 4", got)
	}
	for _, f := range flows[1:] {
		if got := f.GetFlow().GetMessagePermits(); got != 2 {
			t.Fatalf("replenishment flow permits = %d; expected 2", got)
		}
	}
}

// TestConsumer_DuplicateMessageSuppressed covers re-delivery of an
// already-acked message id: it is dropped without ever reaching the
// application.
func TestConsumer_DuplicateMessageSuppressed(t *testing.T) {
	cfg := Config{
		Topic:             "persistent://public/default/t",
		SubscriptionName:  "sub",
		SubscriptionType:  Exclusive,
		ReceiverQueueSize: 10,
		IsPersistentTopic: true,
	}
	c, cnx := newTestConsumer(t, cfg)
	defer c.Close(context.Background())

	inbox := cnx.frameInbox(1)

	inbox <- nonBatchedMessageFrame(0, 1)
	time.Sleep(20 * time.Millisecond)

	ctx := context.Background()
	m, err := c.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive() err = %v", err)
	}
	if err := c.Acknowledge(ctx, m.ID); err != nil {
		t.Fatalf("Acknowledge() err = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	// Redeliver the same id: it should be recognized as a duplicate and
	// never reach a Receive call.
	inbox <- nonBatchedMessageFrame(0, 1)
	time.Sleep(20 * time.Millisecond)

	rctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := c.Receive(rctx); err == nil {
		t.Fatal("Receive() returned a duplicate message; expected it to be suppressed")
	}
}

// TestConsumer_BatchAckSuppressedUntilComplete covers a 3-message batch
// whose sub-messages 1 and 2 are acked individually out of order (no ack
// frame yet), then sub-message 0 is acked, completing the batch and
// triggering exactly one ack frame.
func TestConsumer_BatchAckSuppressedUntilComplete(t *testing.T) {
	cfg := Config{
		Topic:             "persistent://public/default/t",
		SubscriptionName:  "sub",
		SubscriptionType:  Shared,
		ReceiverQueueSize: 10,
		IsPersistentTopic: true,
	}
	c, cnx := newTestConsumer(t, cfg)
	defer c.Close(context.Background())

	inbox := cnx.frameInbox(1)

	payload, err := encodeTestBatch(t, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("encodeTestBatch() err = %v", err)
	}

	inbox <- frame.Frame{
		BaseCmd: &api.BaseCommand{
			Type: api.BaseCommand_MESSAGE.Enum(),
			Message: &api.CommandMessage{
				ConsumerId: proto.Uint64(1),
				MessageId: &api.MessageIdData{
					LedgerId: proto.Uint64(0),
					EntryId:  proto.Uint64(0),
				},
			},
		},
		Metadata: &api.MessageMetadata{
			ProducerName:       proto.String("p"),
			SequenceId:         proto.Uint64(0),
			PublishTime:        proto.Uint64(0),
			NumMessagesInBatch: proto.Int32(3),
		},
		Payload: payload,
	}
	time.Sleep(20 * time.Millisecond)

	ctx := context.Background()
	m0, err := c.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive() err = %v", err)
	}
	if m0.ID.BatchIndex != 0 {
		t.Fatalf("first Receive() batch index = %d; expected 0", m0.ID.BatchIndex)
	}

	id1 := m0.ID
	id1.BatchIndex = 1
	id2 := m0.ID
	id2.BatchIndex = 2

	if err := c.Acknowledge(ctx, id1); err != nil {
		t.Fatalf("Acknowledge(1) err = %v", err)
	}
	if err := c.Acknowledge(ctx, id2); err != nil {
		t.Fatalf("Acknowledge(2) err = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if got := len(cnx.sentCommandsOfType(api.BaseCommand_ACK)); got != 0 {
		t.Fatalf("got %d ack frames before batch completion; expected 0", got)
	}

	if err := c.Acknowledge(ctx, m0.ID); err != nil {
		t.Fatalf("Acknowledge(0) err = %v", err)
	}
	// The ack grouper's own window flush needs to elapse.
	time.Sleep(cfg.SetDefaults().AckGroupTime + 20*time.Millisecond)

	acks := cnx.sentCommandsOfType(api.BaseCommand_ACK)
	if len(acks) != 1 {
		t.Fatalf("got %d ack frames after batch completion; expected 1", len(acks))
	}
}

// TestConsumer_RedeliverAllClearsQueue exercises
// RedeliverUnacknowledgedMessages: the broker gets a whole-queue redeliver
// (no explicit ids) and the locally buffered, not-yet-delivered messages
// are dropped so they don't reach the application a second time.
func TestConsumer_RedeliverAllClearsQueue(t *testing.T) {
	cfg := Config{
		Topic:             "persistent://public/default/t",
		SubscriptionName:  "sub",
		SubscriptionType:  Exclusive,
		ReceiverQueueSize: 10,
		IsPersistentTopic: true,
	}
	c, cnx := newTestConsumer(t, cfg)
	defer c.Close(context.Background())

	inbox := cnx.frameInbox(1)
	inbox <- nonBatchedMessageFrame(0, 1)
	inbox <- nonBatchedMessageFrame(0, 2)
	time.Sleep(20 * time.Millisecond)

	ctx := context.Background()
	if err := c.RedeliverUnacknowledgedMessages(ctx); err != nil {
		t.Fatalf("RedeliverUnacknowledgedMessages() err = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	redelivers := cnx.sentCommandsOfType(api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES)
	if len(redelivers) != 1 {
		t.Fatalf("got %d redeliver frames; expected 1", len(redelivers))
	}
	if ids := redelivers[0].GetRedeliverUnacknowledgedMessages().GetMessageIds(); len(ids) != 0 {
		t.Fatalf("redeliver-all frame carried %d explicit ids; expected 0 (whole-queue redeliver)", len(ids))
	}

	rctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := c.Receive(rctx); err == nil {
		t.Fatal("Receive() succeeded after redeliver-all; expected the queue to have been cleared")
	}
}

// TestConsumer_RedeliverSharedChunksByMax exercises
// RedeliverUnacknowledgedMessages on a Shared subscription: rather than one
// whole-queue redeliver, the currently unacked ids are redelivered in
// frames no larger than maxRedeliverPerFrame.
func TestConsumer_RedeliverSharedChunksByMax(t *testing.T) {
	const total = 2*maxRedeliverPerFrame + 500
	cfg := Config{
		Topic:             "persistent://public/default/t",
		SubscriptionName:  "sub",
		SubscriptionType:  Shared,
		ReceiverQueueSize: total + 100,
		AckTimeout:        time.Hour,
		IsPersistentTopic: true,
	}
	c, cnx := newTestConsumer(t, cfg)
	defer c.Close(context.Background())

	inbox := cnx.frameInbox(1)
	for i := 0; i < total; i++ {
		inbox <- nonBatchedMessageFrame(0, uint64(i))
	}

	ctx := context.Background()
	for i := 0; i < total; i++ {
		if _, err := c.Receive(ctx); err != nil {
			t.Fatalf("Receive() err = %v", err)
		}
	}
	time.Sleep(20 * time.Millisecond)

	if err := c.RedeliverUnacknowledgedMessages(ctx); err != nil {
		t.Fatalf("RedeliverUnacknowledgedMessages() err = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	redelivers := cnx.sentCommandsOfType(api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES)
	if len(redelivers) != 3 {
		t.Fatalf("got %d redeliver frames; expected 3", len(redelivers))
	}

	sizes := make([]int, len(redelivers))
	for i, r := range redelivers {
		sizes[i] = len(r.GetRedeliverUnacknowledgedMessages().GetMessageIds())
	}
	sort.Ints(sizes)
	want := []int{500, maxRedeliverPerFrame, maxRedeliverPerFrame}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("redeliver frame sizes = %v; expected a 500/%d/%d split", sizes, maxRedeliverPerFrame, maxRedeliverPerFrame)
		}
	}
}
