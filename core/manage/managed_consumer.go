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

package manage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/core/sub"
	"github.com/pepper-iot/pulsar-client-go/utils"
)

// SubscriptionMode represents Pulsar's three subscription models.
type SubscriptionMode int

const (
	// SubscriptionModeExclusive allows only one consumer to be bound to a
	// subscription; a second attempt fails.
	SubscriptionModeExclusive SubscriptionMode = iota + 1
	// SubscriptionModeShard round-robins messages across every consumer
	// bound to the subscription.
	SubscriptionModeShard
	// SubscriptionModeFailover binds multiple consumers to the same
	// subscription, ordered lexicographically by name; only the first
	// (the master) receives messages until it disconnects.
	SubscriptionModeFailover
)

// ErrorInvalidSubMode is returned when SubMode isn't one of the three
// SubscriptionMode constants.
var ErrorInvalidSubMode = errors.New("invalid subscription mode")

// ConsumerConfig configures a ManagedConsumer.
type ConsumerConfig struct {
	ClientConfig

	Topic     string
	Name      string // subscription name
	SubMode   SubscriptionMode
	Earliest  bool // if true, subscription cursor starts at the beginning
	QueueSize int  // Consumer's receiver queue size / initial flow permits

	NewConsumerTimeout    time.Duration // maximum duration to create a Consumer
	InitialReconnectDelay time.Duration // initial delay before recreating a failed Consumer
	MaxReconnectDelay     time.Duration // maximum delay between recreate attempts
}

// SetDefaults returns a modified config with zero-valued fields replaced by
// sensible defaults.
func (m ConsumerConfig) SetDefaults() ConsumerConfig {
	if m.NewConsumerTimeout <= 0 {
		m.NewConsumerTimeout = 5 * time.Second
	}
	if m.InitialReconnectDelay <= 0 {
		m.InitialReconnectDelay = 1 * time.Second
	}
	if m.MaxReconnectDelay <= 0 {
		m.MaxReconnectDelay = 5 * time.Minute
	}
	if m.QueueSize <= 0 {
		m.QueueSize = 1000
	}
	return m
}

// NewManagedConsumer returns an initialized ManagedConsumer. It creates, and
// recreates on unrecoverable failure, a Consumer for the given topic on a
// background goroutine. A single Consumer reconnects its own physical
// connection when the broker sends it CLOSE_CONSUMER (see core/sub's
// connection handler); it does not watch the connection's Closed channel,
// so a dropped socket does not by itself start a reconnect. ManagedConsumer
// only steps in once a Consumer has given up for good.
func NewManagedConsumer(cp *ClientPool, cfg ConsumerConfig) *ManagedConsumer {
	cfg = cfg.SetDefaults()

	m := &ManagedConsumer{
		clientPool:     cp,
		cfg:            cfg,
		asyncErrs:      utils.AsyncErrors(cfg.Errs),
		waitc:          make(chan struct{}),
		stopManageChan: make(chan struct{}),
	}

	go m.manage()

	return m
}

// ManagedConsumer wraps a Consumer with reconnect logic.
type ManagedConsumer struct {
	clientPool *ClientPool
	cfg        ConsumerConfig
	asyncErrs  utils.AsyncErrors

	mu             sync.RWMutex  // protects following
	consumer       *sub.Consumer // either consumer is nil and wait isn't, or vice versa
	waitc          chan struct{} // if consumer is nil, this unblocks once it's been re-set
	stopManageChan chan struct{}
}

// acquire blocks until a live Consumer is available, ctx is done, or the
// ManagedConsumer has been asked to stop.
func (m *ManagedConsumer) acquire(ctx context.Context) (*sub.Consumer, error) {
	for {
		m.mu.RLock()
		consumer := m.consumer
		wait := m.waitc
		m.mu.RUnlock()

		if consumer != nil {
			return consumer, nil
		}

		select {
		case <-wait:
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Unactive reports whether this ManagedConsumer currently has no live
// Consumer (between a failure and its replacement being established).
func (m *ManagedConsumer) Unactive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consumer == nil
}

// ConsumerID returns the current Consumer's broker-assigned id.
func (m *ManagedConsumer) ConsumerID(ctx context.Context) (uint64, error) {
	consumer, err := m.acquire(ctx)
	if err != nil {
		return 0, err
	}
	return consumer.ConsumerID(), nil
}

// Ack acquires a consumer and acknowledges the given message.
func (m *ManagedConsumer) Ack(ctx context.Context, message msg.Message) error {
	consumer, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	return consumer.Acknowledge(ctx, message.ID)
}

// Receive returns a single Message, reacquiring the current Consumer across
// a reconnect if necessary. A reasonable context should be provided to
// bound the wait for an incoming message.
func (m *ManagedConsumer) Receive(ctx context.Context) (msg.Message, error) {
	for {
		consumer, err := m.acquire(ctx)
		if err != nil {
			return msg.Message{}, err
		}

		message, err := consumer.Receive(ctx)
		switch {
		case err == nil:
			return message, nil
		case ctx.Err() != nil:
			return msg.Message{}, ctx.Err()
		case errors.Is(err, sub.ErrAlreadyClosed):
			// this Consumer gave up for good; manage() is already
			// building its replacement.
			continue
		default:
			return msg.Message{}, err
		}
	}
}

// Consumer returns the currently active Consumer, or nil if none is set.
func (m *ManagedConsumer) Consumer() *sub.Consumer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consumer
}

// ReceiveAsync blocks until ctx is done, continuously reading messages from
// the current (and, across reconnects, each subsequent) Consumer and
// sending them to msgs.
func (m *ManagedConsumer) ReceiveAsync(ctx context.Context, msgs chan<- msg.Message) error {
	for {
		message, err := m.Receive(ctx)
		if err != nil {
			return err
		}
		select {
		case msgs <- message:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// set unblocks the "wait" channel (if not nil), and sets the consumer under
// lock.
func (m *ManagedConsumer) set(c *sub.Consumer) {
	m.mu.Lock()
	m.consumer = c
	if m.waitc != nil {
		close(m.waitc)
		m.waitc = nil
	}
	m.mu.Unlock()
}

// unset creates the "wait" channel (if nil), and clears the consumer under
// lock.
func (m *ManagedConsumer) unset() {
	m.mu.Lock()
	if m.waitc == nil {
		m.waitc = make(chan struct{})
	}
	m.consumer = nil
	m.mu.Unlock()
}

// newConsumer attempts to create a Consumer.
func (m *ManagedConsumer) newConsumer(ctx context.Context) (*sub.Consumer, error) {
	mc, err := m.clientPool.ForTopic(ctx, m.cfg.ClientConfig, m.cfg.Topic)
	if err != nil {
		return nil, err
	}

	cl, err := mc.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch m.cfg.SubMode {
	case SubscriptionModeExclusive:
		return cl.NewExclusiveConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.cfg.QueueSize)
	case SubscriptionModeFailover:
		return cl.NewFailoverConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.cfg.QueueSize)
	case SubscriptionModeShard:
		return cl.NewSharedConsumer(ctx, m.cfg.Topic, m.cfg.Name, m.cfg.Earliest, m.cfg.QueueSize)
	default:
		return nil, ErrorInvalidSubMode
	}
}

// reconnect blocks while a new Consumer is created, retrying with
// exponentially increasing delay (capped at MaxReconnectDelay) on failure.
func (m *ManagedConsumer) reconnect(initial bool) *sub.Consumer {
	retryDelay := m.cfg.InitialReconnectDelay

	for attempt := 1; ; attempt++ {
		if initial {
			initial = false
		} else {
			<-time.After(retryDelay)
			if retryDelay < m.cfg.MaxReconnectDelay {
				if retryDelay *= 2; retryDelay > m.cfg.MaxReconnectDelay {
					retryDelay = m.cfg.MaxReconnectDelay
				}
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.NewConsumerTimeout)
		newConsumer, err := m.newConsumer(ctx)
		cancel()
		if err != nil {
			m.asyncErrs.Send(err)
			continue
		}

		return newConsumer
	}
}

// manage recreates the Consumer whenever it gives up for good.
func (m *ManagedConsumer) manage() {
	defer m.unset()

	consumer := m.reconnect(true)
	m.set(consumer)

	for {
		select {
		case <-consumer.Done():
			// the Consumer has exhausted its own reconnect attempts, been
			// explicitly closed, or had its subscription deleted. Build a
			// replacement unless we were asked to stop.
			select {
			case <-m.stopManageChan:
				return
			default:
			}

		case <-m.stopManageChan:
			return
		}

		m.unset()
		consumer = m.reconnect(false)
		m.set(consumer)
	}
}

// RedeliverUnacknowledged asks the broker to redeliver every message on
// this subscription that hasn't yet been acked.
func (m *ManagedConsumer) RedeliverUnacknowledged(ctx context.Context) error {
	consumer, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	return consumer.RedeliverUnacknowledgedMessages(ctx)
}

// Unsubscribe deletes this subscription from the broker and stops the
// ManagedConsumer.
func (m *ManagedConsumer) Unsubscribe(ctx context.Context) error {
	consumer, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	return consumer.Unsubscribe(ctx)
}

// HasReachedEndOfTopic reports whether the broker has signalled that the
// current Consumer's partition has no further messages.
func (m *ManagedConsumer) HasReachedEndOfTopic() bool {
	m.mu.RLock()
	consumer := m.consumer
	m.mu.RUnlock()
	return consumer != nil && consumer.HasReachedEndOfTopic()
}

// Monitor returns a scoped, deferrable lock over the ManagedConsumer's
// state, for callers that need to read Consumer() and act on it without a
// reconnect racing in between.
func (m *ManagedConsumer) Monitor() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

// Close stops the manage loop and closes the current Consumer.
func (m *ManagedConsumer) Close(ctx context.Context) error {
	consumer, err := m.acquire(ctx)
	if err != nil {
		return err
	}
	select {
	case <-m.stopManageChan:
	default:
		close(m.stopManageChan)
	}
	return consumer.Close(ctx)
}
