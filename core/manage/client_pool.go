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

// Package manage provides a reconnecting, auto-recreating wrapper around a
// single-partition Consumer, plus the connection factory it's built from.
package manage

import (
	"context"
	"sync"

	"github.com/pepper-iot/pulsar-client-go/core/client"
	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/core/sub"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
)

// ClientConfig configures how a ManagedConsumer reaches a broker. Topic
// lookup (the LOOKUP command, which would resolve a topic name to its
// owning broker) is out of scope: Addr names the broker to dial directly.
type ClientConfig struct {
	client.ClientConfig

	// Errs, if set, receives errors encountered on the background
	// reconnect loop that isn't otherwise returned to a caller.
	Errs chan<- error
}

// ClientPool hands out a *ManagedClient per broker address, so every
// ManagedConsumer pointed at the same Addr shares one entry.
type ClientPool struct {
	logger log.Logger

	mu      sync.Mutex
	clients map[string]*ManagedClient
}

// NewClientPool returns a ready-to-use pool.
func NewClientPool(logger log.Logger) *ClientPool {
	return &ClientPool{
		logger:  logger,
		clients: make(map[string]*ManagedClient),
	}
}

// ForTopic returns the ManagedClient for cfg's broker address, creating one
// if this is the first request for it. topic is accepted for symmetry with
// a lookup-capable client but does not affect which entry is returned.
func (p *ClientPool) ForTopic(ctx context.Context, cfg ClientConfig, topic string) (*ManagedClient, error) {
	p.mu.Lock()
	mc, ok := p.clients[cfg.Addr]
	if !ok {
		mc = newManagedClient(cfg, p.logger)
		p.clients[cfg.Addr] = mc
	}
	p.mu.Unlock()
	return mc, nil
}

// ManagedClient lazily validates that its broker address is reachable, then
// hands out Client values bound to it. It does not itself hold a live
// socket: each Consumer built from a returned Client dials (and, on
// disconnect, redials) its own physical connection, per core/sub.Dialer's
// contract.
type ManagedClient struct {
	cfg         client.ClientConfig
	logger      log.Logger
	consumerIDs *msg.MonotonicID
}

func newManagedClient(cfg ClientConfig, logger log.Logger) *ManagedClient {
	return &ManagedClient{
		cfg:         cfg.ClientConfig,
		logger:      logger,
		consumerIDs: &msg.MonotonicID{},
	}
}

// Get probes the broker address with a throwaway connection and, if it
// succeeds, returns a Client usable to build consumers against it.
func (mc *ManagedClient) Get(ctx context.Context) (*Client, error) {
	probe, err := client.Dial(ctx, mc.cfg, mc.logger)
	if err != nil {
		return nil, err
	}
	_ = probe.Close()
	return &Client{cfg: mc.cfg, logger: mc.logger, consumerIDs: mc.consumerIDs}, nil
}

// Client builds Consumers bound to one broker address, one per Pulsar
// subscription mode. Each Consumer dials its own physical connection
// through core/client.Dial and manages its own reconnects independently.
type Client struct {
	cfg         client.ClientConfig
	logger      log.Logger
	consumerIDs *msg.MonotonicID
}

func (c *Client) dialer() sub.Dialer {
	return func(ctx context.Context) (sub.Connection, error) {
		return client.Dial(ctx, c.cfg, c.logger)
	}
}

func (c *Client) newConsumer(ctx context.Context, topic, name string, earliest bool, queueSize int, subType sub.SubscriptionType) (*sub.Consumer, error) {
	pos := sub.Latest
	if earliest {
		pos = sub.Earliest
	}
	cfg := sub.Config{
		Topic:             topic,
		SubscriptionName:  name,
		SubscriptionType:  subType,
		InitialPosition:   pos,
		ReceiverQueueSize: queueSize,
		IsPersistentTopic: true,
		// the connection-level trace controlled by c.cfg.PacketTrace
		// covers every consumer built from this Client; mirrored here so
		// a caller inspecting the resulting sub.Config sees it reflected.
		PacketTrace: c.cfg.PacketTrace,
	}
	consumerID := *c.consumerIDs.Next()
	return sub.NewConsumer(ctx, consumerID, 0, cfg, c.dialer(), c.logger)
}

// NewExclusiveConsumer creates a consumer that is the only one allowed to
// hold the named subscription; a second attempt fails.
func (c *Client) NewExclusiveConsumer(ctx context.Context, topic, name string, earliest bool, queueSize int) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, name, earliest, queueSize, sub.Exclusive)
}

// NewFailoverConsumer creates a consumer that competes for master status on
// the named subscription; only the current master receives messages.
func (c *Client) NewFailoverConsumer(ctx context.Context, topic, name string, earliest bool, queueSize int) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, name, earliest, queueSize, sub.Failover)
}

// NewSharedConsumer creates a consumer that round-robins messages with
// every other consumer on the named subscription.
func (c *Client) NewSharedConsumer(ctx context.Context, topic, name string, earliest bool, queueSize int) (*sub.Consumer, error) {
	return c.newConsumer(ctx, topic, name, earliest, queueSize, sub.Shared)
}
