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

import "time"

// SubscriptionType mirrors the broker's four subscription models.
type SubscriptionType int

const (
	Exclusive SubscriptionType = iota
	Shared
	Failover
	KeyShared
)

// SubscriptionInitialPosition controls where a brand new subscription's
// cursor starts.
type SubscriptionInitialPosition int

const (
	Latest SubscriptionInitialPosition = iota
	Earliest
)

// Config is the immutable-once-constructed configuration of a Consumer.
type Config struct {
	Topic               string
	SubscriptionName    string
	SubscriptionType    SubscriptionType
	InitialPosition     SubscriptionInitialPosition
	ReceiverQueueSize   int // 0 disables initial permits
	AckTimeout          time.Duration // zero disables the unacked tracker
	AckTimeoutTick      time.Duration
	AckGroupTime        time.Duration
	ReadCompacted       bool
	ConsumerName        string
	IsPersistentTopic   bool

	// HasParentConsumer suppresses the initial flow command on first
	// connect: a parent aggregator (e.g. a multi-partition consumer) is
	// responsible for sending it instead.
	HasParentConsumer bool

	InitialReconnectDelay time.Duration
	MaxReconnectDelay     time.Duration
	OperationTimeout      time.Duration

	// PacketTrace turns on the gopacket-based frame-boundary tracer in
	// pkg/netdiag for this consumer's connection. Off by default.
	PacketTrace bool
}

// SetDefaults returns a copy of c with zero-valued fields replaced by
// sensible defaults, matching core/manage's ConsumerConfig.SetDefaults
// pattern. ReceiverQueueSize is only defaulted when negative, since 0
// disables initial permits.
func (c Config) SetDefaults() Config {
	if c.ReceiverQueueSize < 0 {
		c.ReceiverQueueSize = 1000
	}
	if c.AckTimeoutTick <= 0 {
		c.AckTimeoutTick = c.AckTimeout
	}
	if c.AckGroupTime <= 0 {
		c.AckGroupTime = 10 * time.Millisecond
	}
	if c.InitialReconnectDelay <= 0 {
		c.InitialReconnectDelay = 100 * time.Millisecond
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = 60 * time.Second
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 30 * time.Second
	}
	return c
}
