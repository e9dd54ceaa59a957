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

// Package sub implements a client-side consumer for a single partition of a
// topic: a long-lived subscription that receives a stream of messages
// (possibly batched and compressed), delivers them to the application one at
// a time, and coordinates acknowledgment, redelivery and flow control back
// to the broker. All mutable state lives behind a single-threaded actor
// loop (Consumer.run); every exported method translates to one inbox
// message and waits for a single-shot reply.
package sub

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/pepper-iot/pulsar-client-go/core/frame"
	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
	"github.com/pepper-iot/pulsar-client-go/utils"
)

// maxRedeliverPerFrame bounds how many ids one REDELIVER_UNACKNOWLEDGED_
// MESSAGES frame may carry.
const maxRedeliverPerFrame = utils.MAX_REDELIVER_UNACKNOWLEDGED

// receiveResult is the reply to a Receive request.
type receiveResult struct {
	message msg.Message
	err     error
}

type receiveRequest struct {
	reply chan receiveResult
}

type ackRequest struct {
	id      msg.ID
	ackType api.CommandAck_AckType
	reply   chan error
}

type redeliverIDsRequest struct {
	ids   []msg.ID
	reply chan error
}

type redeliverAllRequest struct {
	reply chan error
}

type closeRequest struct {
	reply chan error
}

type unsubscribeRequest struct {
	reply chan error
}

// Consumer is a single-partition consumer. Construct with NewConsumer.
type Consumer struct {
	cfg        Config
	consumerID uint64
	logger     log.Logger

	connHandler *connectionHandler
	unacked     unackedTracker
	acker       ackGrouper

	decompressors map[api.CompressionType]decompressor

	inbox   chan interface{}
	frameCh chan frame.Frame

	closedc           chan struct{}
	reachedEndOfTopic int32 // atomic bool

	initialSubscribed chan struct{}
	initialErr        error

	partitionIdx int32
}

// NewConsumer builds and starts a Consumer, returning only once the first
// subscribe response has been received (success or failure).
func NewConsumer(ctx context.Context, consumerID uint64, partitionIdx int32, cfg Config, dial Dialer, logger log.Logger) (*Consumer, error) {
	cfg = cfg.SetDefaults()

	decompressors := make(map[api.CompressionType]decompressor)

	c := &Consumer{
		cfg:               cfg,
		consumerID:        consumerID,
		partitionIdx:      partitionIdx,
		logger:            logger.SubLogger(log.Fields{"consumer_id": consumerID, "name": cfg.ConsumerName, "partition": partitionIdx}),
		decompressors:     decompressors,
		inbox:             make(chan interface{}, 256),
		frameCh:           make(chan frame.Frame, 256),
		closedc:           make(chan struct{}),
		initialSubscribed: make(chan struct{}),
	}

	if cfg.AckTimeout > 0 {
		c.unacked = newUnackedMessageTracker(cfg.AckTimeout, cfg.AckTimeoutTick, c.onUnackedTimeout)
	} else {
		c.unacked = disabledUnackedTracker{}
	}

	if cfg.IsPersistentTopic {
		c.acker = newPersistentAckGrouper(consumerID, cfg.AckGroupTime, c.sendCommand, c.logger)
	} else {
		c.acker = nonPersistentAckGrouper{}
	}

	c.connHandler = newConnectionHandler(dial, cfg.InitialReconnectDelay, cfg.MaxReconnectDelay, c.postEvent)

	go c.run()
	c.connHandler.GrabConnection()

	select {
	case <-c.initialSubscribed:
		return c, c.initialErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// postEvent is passed to connectionHandler as its post callback; it bounces
// connection lifecycle callbacks onto the actor's own inbox.
func (c *Consumer) postEvent(event interface{}) {
	select {
	case c.inbox <- event:
	case <-c.closedc:
	}
}

func (c *Consumer) decompressorFor(ct api.CompressionType) decompressor {
	if d, ok := c.decompressors[ct]; ok {
		return d
	}
	d, err := newDecompressor(ct)
	if err != nil {
		c.logger.WithError(err).Warn("unsupported compression type, falling back to passthrough")
		d = noopDecompressor{}
	}
	c.decompressors[ct] = d
	return d
}

// run is the single-threaded actor loop. It is the sole writer of every
// field below this point in the file.
func (c *Consumer) run() {
	var (
		queue            []msg.Message
		waitingReceiver  chan receiveResult
		availablePermits int
		flowThreshold    = c.cfg.ReceiverQueueSize / 2
		subscribeDeadline = time.Now().Add(c.cfg.OperationTimeout)
		closed           bool
	)
	if flowThreshold < 1 {
		flowThreshold = 1
	}

	completeInitial := func(err error) {
		select {
		case <-c.initialSubscribed:
		default:
			c.initialErr = err
			close(c.initialSubscribed)
		}
	}

	maybeFlushFlow := func() {
		if availablePermits >= flowThreshold {
			n := availablePermits
			availablePermits = 0
			c.sendFlow(uint32(n))
		}
	}

	fail := func(err error) {
		closed = true
		c.connHandler.SetState(stateFailed)
		completeInitial(err)
	}

	teardown := func() {
		c.unacked.Close()
		c.acker.Close()
		c.connHandler.Close()
		if cnx := c.connHandler.Connection(); cnx != nil {
			cnx.RemoveConsumer(c.consumerID)
		}
		close(c.closedc)
	}

	for {
		select {
		case raw := <-c.frameCh:
			c.handleBrokerFrame(raw, &queue, &waitingReceiver, &availablePermits, maybeFlushFlow)

		case ev := <-c.inbox:
			switch e := ev.(type) {

			case connectionOpenedEvent:
				cnx := e.cnx
				cnx.AddConsumer(c.consumerID, c.frameCh)

				reqID := cnx.NewRequestID()
				cmd := api.BaseCommand{
					Type: api.BaseCommand_SUBSCRIBE.Enum(),
					Subscribe: &api.CommandSubscribe{
						Topic:           proto.String(c.cfg.Topic),
						Subscription:    proto.String(c.cfg.SubscriptionName),
						SubType:         subTypeOf(c.cfg.SubscriptionType).Enum(),
						ConsumerId:      proto.Uint64(c.consumerID),
						RequestId:       proto.Uint64(reqID),
						ConsumerName:    proto.String(c.cfg.ConsumerName),
						ReadCompacted:   proto.Bool(c.cfg.ReadCompacted),
						InitialPosition: initialPositionOf(c.cfg.InitialPosition).Enum(),
					},
				}

				ctx, cancel := context.WithTimeout(context.Background(), c.cfg.OperationTimeout)
				resp, err := cnx.SendAndWaitForReply(ctx, reqID, cmd)
				cancel()

				if err != nil {
					cnx.RemoveConsumer(c.consumerID)
					c.onSubscribeFailure(err, subscribeDeadline, fail)
					if closed {
						teardown()
						return
					}
					continue
				}

				if resp.BaseCmd.GetType() == api.BaseCommand_ERROR {
					cnx.RemoveConsumer(c.consumerID)
					berr := &BrokerError{Code: resp.BaseCmd.GetError().GetError(), Message: resp.BaseCmd.GetError().GetMessage()}
					c.onSubscribeFailure(berr, subscribeDeadline, fail)
					if closed {
						teardown()
						return
					}
					continue
				}

				firstConnect := false
				select {
				case <-c.initialSubscribed:
				default:
					firstConnect = true
				}

				c.connHandler.ResetBackoff()
				completeInitial(nil)
				// A parent aggregator sends the initial flow command itself
				// on first connect; it isn't notified of a later reconnect,
				// so this consumer must resend flow permits then.
				if !c.cfg.HasParentConsumer || !firstConnect {
					c.sendFlow(uint32(c.cfg.ReceiverQueueSize))
				}

			case connectionFailedEvent:
				retriable := c.connHandler.IsRetriableError(e.err)
				if retriable && time.Now().Before(subscribeDeadline) {
					c.connHandler.ReconnectLater(e.err)
					continue
				}
				fail(e.err)
				teardown()
				return

			case receiveRequest:
				if closed {
					e.reply <- receiveResult{err: ErrAlreadyClosed}
					continue
				}
				if len(queue) > 0 {
					m := queue[0]
					queue = queue[1:]
					if !c.cfg.HasParentConsumer {
						c.unacked.Add(m.ID)
					}
					availablePermits++
					maybeFlushFlow()
					e.reply <- receiveResult{message: m}
					continue
				}
				waitingReceiver = e.reply

			case ackRequest:
				if c.connHandler.State() != stateReady {
					e.reply <- ErrNotConnected
					continue
				}
				c.handleAck(e.id, e.ackType)
				e.reply <- nil

			case redeliverIDsRequest:
				e.reply <- c.handleRedeliverIDs(e.ids, &queue, &availablePermits, maybeFlushFlow)

			case redeliverAllRequest:
				e.reply <- c.handleRedeliverAll(&queue, &availablePermits, maybeFlushFlow)

			case closeRequest:
				if closed {
					e.reply <- nil
					continue
				}
				c.handleClose()
				closed = true
				if waitingReceiver != nil {
					waitingReceiver <- receiveResult{err: ErrAlreadyClosed}
					waitingReceiver = nil
				}
				e.reply <- nil
				teardown()
				return

			case unsubscribeRequest:
				if c.connHandler.State() != stateReady {
					e.reply <- ErrNotConnected
					continue
				}
				err := c.handleUnsubscribe()
				e.reply <- err
				if err == nil {
					closed = true
					teardown()
					return
				}
			}
		}
	}
}

func subTypeOf(t SubscriptionType) api.CommandSubscribe_SubType {
	switch t {
	case Shared:
		return api.CommandSubscribe_Shared
	case Failover:
		return api.CommandSubscribe_Failover
	case KeyShared:
		return api.CommandSubscribe_KeyShared
	default:
		return api.CommandSubscribe_Exclusive
	}
}

func initialPositionOf(p SubscriptionInitialPosition) api.CommandSubscribe_InitialPosition {
	if p == Earliest {
		return api.CommandSubscribe_Earliest
	}
	return api.CommandSubscribe_Latest
}

func (c *Consumer) onSubscribeFailure(err error, deadline time.Time, fail func(error)) {
	retriable := c.connHandler.IsRetriableError(err)
	if retriable && time.Now().Before(deadline) {
		c.connHandler.ReconnectLater(err)
		return
	}
	fail(err)
}

// sendCommand writes cmd on the current connection, or returns
// ErrNotConnected/ConnectionFailedOnSend. Used as the ackGrouper's send
// callback.
func (c *Consumer) sendCommand(cmd api.BaseCommand) error {
	cnx := c.connHandler.Connection()
	if cnx == nil {
		return ErrNotConnected
	}
	if err := cnx.SendSimpleCmd(cmd); err != nil {
		return &ConnectionFailedOnSend{Op: cmd.GetType().String(), Err: err}
	}
	return nil
}

func (c *Consumer) sendFlow(n uint32) {
	if n == 0 {
		return
	}
	cmd := api.BaseCommand{
		Type: api.BaseCommand_FLOW.Enum(),
		Flow: &api.CommandFlow{
			ConsumerId:     proto.Uint64(c.consumerID),
			MessagePermits: proto.Uint32(n),
		},
	}
	if err := c.sendCommand(cmd); err != nil {
		c.logger.WithError(err).Warn("failed to send flow permits; broker will re-grant on reconnect")
	}
}

// handleBrokerFrame dispatches a frame handed to this consumer by the
// connection: MESSAGE, CLOSE_CONSUMER or REACHED_END_OF_TOPIC.
func (c *Consumer) handleBrokerFrame(f frame.Frame, queue *[]msg.Message, waitingReceiver *chan receiveResult, availablePermits *int, maybeFlushFlow func()) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_MESSAGE:
		c.handleMessageReceived(f, queue, waitingReceiver, availablePermits, maybeFlushFlow)
	case api.BaseCommand_REACHED_END_OF_TOPIC:
		atomic.StoreInt32(&c.reachedEndOfTopic, 1)
	case api.BaseCommand_CLOSE_CONSUMER:
		if cnx := c.connHandler.Connection(); cnx != nil {
			cnx.RemoveConsumer(c.consumerID)
		}
		c.connHandler.ConnectionClosed()
	}
}

func (c *Consumer) handleMessageReceived(f frame.Frame, queue *[]msg.Message, waitingReceiver *chan receiveResult, availablePermits *int, maybeFlushFlow func()) {
	cmdMsg := f.BaseCmd.GetMessage()
	if cmdMsg == nil {
		return
	}

	numMessages := int(f.Metadata.GetNumMessagesInBatch())
	if numMessages <= 0 {
		c.logger.Warnf("dropping message with non-positive num_messages: %d", numMessages)
		return
	}

	baseID := msg.ID{
		LedgerID:  cmdMsg.GetMessageId().GetLedgerId(),
		EntryID:   cmdMsg.GetMessageId().GetEntryId(),
		Partition: c.partitionIdx,
		TopicName: c.cfg.Topic,
		Type:      msg.Individual,
	}

	if c.acker.IsDuplicate(baseID) {
		*availablePermits += numMessages
		maybeFlushFlow()
		return
	}

	messages, err := decodeMessages(baseID, f.Metadata, f.Payload, c.decompressorFor(f.Metadata.GetCompression()))
	if err != nil {
		c.logger.WithError(err).Warn("failed to decode message frame")
		return
	}

	for _, m := range messages {
		m.RedeliveryCount = cmdMsg.GetRedeliveryCount()
		if *waitingReceiver != nil {
			if !c.cfg.HasParentConsumer {
				c.unacked.Add(m.ID)
			}
			*availablePermits++
			(*waitingReceiver) <- receiveResult{message: m}
			*waitingReceiver = nil
			continue
		}
		*queue = append(*queue, m)
	}
	maybeFlushFlow()
}

func (c *Consumer) onUnackedTimeout(ids []msg.ID) {
	reply := make(chan error, 1)
	select {
	case c.inbox <- redeliverIDsRequest{ids: ids, reply: reply}:
	case <-c.closedc:
		return
	}
	select {
	case err := <-reply:
		if err != nil {
			c.logger.WithError(err).Warn("ack-timeout redeliver failed")
		}
	case <-c.closedc:
	}
}

// handleAck applies an ack to the unacked tracker and the ack grouper,
// resolving a batch's shared acker when every sub-message clears.
func (c *Consumer) handleAck(id msg.ID, ackType api.CommandAck_AckType) {
	if id.Type == msg.Cumulative && id.Acker != nil {
		c.unacked.Remove(id)

		var complete bool
		if ackType == api.CommandAck_Cumulative {
			complete = id.Acker.AckGroup(int(id.BatchIndex))
		} else {
			complete = id.Acker.AckIndividual(int(id.BatchIndex))
		}
		if !complete {
			// A cumulative ack inside an incomplete batch closes out the
			// previous entry once, so the broker's cursor reaches this batch.
			if ackType == api.CommandAck_Cumulative && id.EntryID > 0 && !id.Acker.MarkPrevBatchCumulativelyAcked() {
				prev := msg.ID{LedgerID: id.LedgerID, EntryID: id.EntryID - 1, Partition: id.Partition}
				c.acker.Add(prev, api.CommandAck_Cumulative)
			}
			return
		}
		entryID := id
		entryID.Type = msg.Individual
		entryID.Acker = nil
		c.acker.Add(entryID, ackType)
		return
	}

	c.unacked.Remove(id)
	c.acker.Add(id, ackType)
}

// handleRedeliverIDs purges any of ids still sitting in the local queue,
// then asks the broker to redeliver whatever's left, chunked to
// maxRedeliverPerFrame. Exclusive and Failover subscriptions don't support
// per-id redelivery, so the request is promoted to a full redeliver.
func (c *Consumer) handleRedeliverIDs(ids []msg.ID, queue *[]msg.Message, availablePermits *int, maybeFlushFlow func()) error {
	if c.cfg.SubscriptionType == Exclusive || c.cfg.SubscriptionType == Failover {
		return c.handleRedeliverAll(queue, availablePermits, maybeFlushFlow)
	}

	pending := make(map[interface{}]struct{}, len(ids))
	for _, id := range ids {
		pending[id.Key()] = struct{}{}
	}

	purged := make(map[interface{}]struct{}, len(ids))
	remaining := (*queue)[:0:0]
	for _, m := range *queue {
		if _, ok := pending[m.ID.Key()]; ok {
			purged[m.ID.Key()] = struct{}{}
			continue
		}
		remaining = append(remaining, m)
	}
	*queue = remaining
	if len(purged) > 0 {
		*availablePermits += len(purged)
		maybeFlushFlow()
	}

	toSend := make([]msg.ID, 0, len(ids))
	for _, id := range ids {
		if _, wasPurged := purged[id.Key()]; !wasPurged {
			toSend = append(toSend, id)
		}
	}
	if len(toSend) == 0 {
		return nil
	}

	for len(toSend) > 0 {
		n := maxRedeliverPerFrame
		if n > len(toSend) {
			n = len(toSend)
		}
		chunk := toSend[:n]
		toSend = toSend[n:]

		chunkIDs := make([]*api.MessageIdData, 0, len(chunk))
		for _, id := range chunk {
			chunkIDs = append(chunkIDs, toMessageIdData(id))
		}
		cmd := api.BaseCommand{
			Type: api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES.Enum(),
			RedeliverUnacknowledgedMessages: &api.CommandRedeliverUnacknowledgedMessages{
				ConsumerId: proto.Uint64(c.consumerID),
				MessageIds: chunkIDs,
			},
		}
		if err := c.sendCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

// handleRedeliverAll asks the broker to redeliver everything outstanding
// on this subscription and clears the local queue and unacked tracker.
func (c *Consumer) handleRedeliverAll(queue *[]msg.Message, availablePermits *int, maybeFlushFlow func()) error {
	cmd := api.BaseCommand{
		Type: api.BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES.Enum(),
		RedeliverUnacknowledgedMessages: &api.CommandRedeliverUnacknowledgedMessages{
			ConsumerId: proto.Uint64(c.consumerID),
		},
	}
	if err := c.sendCommand(cmd); err != nil {
		return err
	}

	*availablePermits += len(*queue)
	*queue = nil
	maybeFlushFlow()
	c.unacked.Clear()
	return nil
}

func (c *Consumer) handleClose() {
	if c.connHandler.State() == stateReady {
		c.connHandler.SetState(stateClosing)
		cnx := c.connHandler.Connection()
		reqID := cnx.NewRequestID()
		cmd := api.BaseCommand{
			Type: api.BaseCommand_CLOSE_CONSUMER.Enum(),
			CloseConsumer: &api.CommandCloseConsumer{
				ConsumerId: proto.Uint64(c.consumerID),
				RequestId:  proto.Uint64(reqID),
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.OperationTimeout)
		_, _ = cnx.SendAndWaitForReply(ctx, reqID, cmd)
		cancel()
		cnx.RemoveConsumer(c.consumerID)
	}
	c.connHandler.SetState(stateClosed)
}

func (c *Consumer) handleUnsubscribe() error {
	cnx := c.connHandler.Connection()
	reqID := cnx.NewRequestID()
	cmd := api.BaseCommand{
		Type: api.BaseCommand_UNSUBSCRIBE.Enum(),
		Unsubscribe: &api.CommandUnsubscribe{
			ConsumerId: proto.Uint64(c.consumerID),
			RequestId:  proto.Uint64(reqID),
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.OperationTimeout)
	resp, err := cnx.SendAndWaitForReply(ctx, reqID, cmd)
	cancel()
	if err != nil {
		return &ConnectionFailedOnSend{Op: "UNSUBSCRIBE", Err: err}
	}
	if resp.BaseCmd.GetType() == api.BaseCommand_ERROR {
		return &BrokerError{Code: resp.BaseCmd.GetError().GetError(), Message: resp.BaseCmd.GetError().GetMessage()}
	}
	cnx.RemoveConsumer(c.consumerID)
	c.connHandler.SetState(stateClosed)
	return nil
}

// Receive blocks until a message is available, the consumer is closed, or
// ctx is done.
func (c *Consumer) Receive(ctx context.Context) (msg.Message, error) {
	reply := make(chan receiveResult, 1)
	select {
	case c.inbox <- receiveRequest{reply: reply}:
	case <-c.closedc:
		return msg.Message{}, ErrAlreadyClosed
	case <-ctx.Done():
		return msg.Message{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.message, r.err
	case <-c.closedc:
		select {
		case r := <-reply:
			return r.message, r.err
		default:
			return msg.Message{}, ErrAlreadyClosed
		}
	case <-ctx.Done():
		return msg.Message{}, ctx.Err()
	}
}

// Acknowledge acknowledges a single message.
func (c *Consumer) Acknowledge(ctx context.Context, id msg.ID) error {
	return c.ack(ctx, id, api.CommandAck_Individual)
}

// AcknowledgeCumulative acknowledges id and every message delivered before
// it on this subscription's cursor.
func (c *Consumer) AcknowledgeCumulative(ctx context.Context, id msg.ID) error {
	return c.ack(ctx, id, api.CommandAck_Cumulative)
}

func (c *Consumer) ack(ctx context.Context, id msg.ID, ackType api.CommandAck_AckType) error {
	reply := make(chan error, 1)
	select {
	case c.inbox <- ackRequest{id: id, ackType: ackType, reply: reply}:
	case <-c.closedc:
		return ErrAlreadyClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RedeliverUnacknowledgedMessages asks the broker to redeliver every
// message this consumer has received but not yet acked. Exclusive and
// Failover subscriptions don't support per-id redelivery and always
// redeliver everything outstanding; Shared and KeyShared subscriptions
// redeliver only the currently unacked ids, chunked to
// maxRedeliverPerFrame.
func (c *Consumer) RedeliverUnacknowledgedMessages(ctx context.Context) error {
	reply := make(chan error, 1)
	var req interface{}
	switch c.cfg.SubscriptionType {
	case Shared, KeyShared:
		req = redeliverIDsRequest{ids: c.unacked.Snapshot(), reply: reply}
	default:
		req = redeliverAllRequest{reply: reply}
	}
	select {
	case c.inbox <- req:
	case <-c.closedc:
		return ErrAlreadyClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the consumer down. Idempotent.
func (c *Consumer) Close(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case c.inbox <- closeRequest{reply: reply}:
	case <-c.closedc:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unsubscribe deletes this subscription from the broker, then closes the
// consumer. Fails with ErrNotConnected if the connection isn't Ready.
func (c *Consumer) Unsubscribe(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case c.inbox <- unsubscribeRequest{reply: reply}:
	case <-c.closedc:
		return ErrAlreadyClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasReachedEndOfTopic reports whether the broker has signalled that this
// partition has no further messages.
func (c *Consumer) HasReachedEndOfTopic() bool {
	return atomic.LoadInt32(&c.reachedEndOfTopic) == 1
}

// ConsumerID returns the consumer id this Consumer registered with the
// broker, stable for its whole lifetime.
func (c *Consumer) ConsumerID() uint64 { return c.consumerID }

// Done is closed once the consumer has fully shut down.
func (c *Consumer) Done() <-chan struct{} { return c.closedc }
