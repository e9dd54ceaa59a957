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
	"context"

	"github.com/pepper-iot/pulsar-client-go/core/frame"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// Connection is the subset of a broker connection the Consumer Actor needs:
// send a command, send one and wait for its reply, and register/deregister
// as the consumer_id owning this connection's inbound MESSAGE/
// CLOSE_CONSUMER/REACHED_END_OF_TOPIC frames. core/client.Client implements
// this; it is kept as an interface here so the actor can be driven in tests
// without a socket.
type Connection interface {
	frame.CmdSender

	// NewRequestID mints the next request id to use for a request/response
	// exchange on this connection.
	NewRequestID() uint64

	// SendAndWaitForReply sends cmd and blocks for the SUCCESS/ERROR frame
	// carrying the given request id, or until ctx is done.
	SendAndWaitForReply(ctx context.Context, requestID uint64, cmd api.BaseCommand) (frame.Frame, error)

	// AddConsumer registers inbox as the recipient of frames addressed to
	// consumerID (MESSAGE, CLOSE_CONSUMER, REACHED_END_OF_TOPIC).
	AddConsumer(consumerID uint64, inbox chan<- frame.Frame)

	// RemoveConsumer undoes AddConsumer.
	RemoveConsumer(consumerID uint64)
}

// Dialer establishes (or re-establishes) the shared Connection a Consumer
// drives its protocol over. Supplied at construction so core/sub never
// imports core/client directly, keeping the dependency pointed the other
// way (core/manage imports core/sub and core/client; core/sub imports
// neither).
type Dialer func(ctx context.Context) (Connection, error)
