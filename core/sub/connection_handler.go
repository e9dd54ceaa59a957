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
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// connState is the Connection Handler's state machine.
type connState int32

const (
	stateInitial connState = iota
	stateConnecting
	stateReady
	stateClosing
	stateClosed
	stateFailed
	stateTerminated
)

func (s connState) String() string {
	switch s {
	case stateInitial:
		return "Initial"
	case stateConnecting:
		return "Connecting"
	case stateReady:
		return "Ready"
	case stateClosing:
		return "Closing"
	case stateClosed:
		return "Closed"
	case stateFailed:
		return "Failed"
	case stateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

func (s connState) terminal() bool {
	return s == stateClosed || s == stateFailed || s == stateTerminated
}

// BrokerError wraps a broker-reported CommandError so callers can tell a
// protocol-fatal rejection apart from a transport failure.
type BrokerError struct {
	Code    api.ServerError
	Message string
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("sub: broker error %s: %s", e.Code, e.Message)
}

// Retriable reports whether this rejection is worth retrying, per
// api.ServerError.IsRetriable.
func (e *BrokerError) Retriable() bool { return e.Code.IsRetriable() }

// connectionOpenedEvent and friends are the events the Connection Handler
// bounces back into the Consumer Actor's own inbox: callbacks from the
// Connection Handler are delivered as inbox messages so the actor remains
// the single writer of its own state.
type connectionOpenedEvent struct{ cnx Connection }
type connectionFailedEvent struct{ err error }

// connectionHandler owns the reconnect state machine and exponential
// backoff; the Consumer Actor is the only caller of its exported methods
// and is the sole recipient of the events it posts.
type connectionHandler struct {
	dial Dialer
	post func(event interface{})

	initialDelay time.Duration
	maxDelay     time.Duration

	mu      sync.Mutex
	state   connState
	cnx     Connection
	backoff time.Duration

	stopc     chan struct{}
	closeOnce sync.Once
}

func newConnectionHandler(dial Dialer, initialDelay, maxDelay time.Duration, post func(interface{})) *connectionHandler {
	return &connectionHandler{
		dial:         dial,
		post:         post,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		state:        stateInitial,
		backoff:      initialDelay,
		stopc:        make(chan struct{}),
	}
}

// GrabConnection triggers an asynchronous connect attempt. The result is
// delivered later as a connectionOpenedEvent or connectionFailedEvent via
// post.
func (h *connectionHandler) GrabConnection() {
	h.mu.Lock()
	if h.state.terminal() {
		h.mu.Unlock()
		return
	}
	h.state = stateConnecting
	h.mu.Unlock()

	go h.connect()
}

func (h *connectionHandler) connect() {
	cnx, err := h.dial(context.Background())
	if err != nil {
		h.post(connectionFailedEvent{err: err})
		return
	}

	h.mu.Lock()
	terminal := h.state.terminal()
	if !terminal {
		h.cnx = cnx
		h.state = stateReady
	}
	h.mu.Unlock()

	if terminal {
		return
	}
	h.post(connectionOpenedEvent{cnx: cnx})
}

// ConnectionClosed reports that a previously-Ready connection dropped:
// state moves back to Connecting and a reconnect is scheduled under
// backoff.
func (h *connectionHandler) ConnectionClosed() {
	h.mu.Lock()
	if h.state.terminal() {
		h.mu.Unlock()
		return
	}
	h.state = stateConnecting
	h.cnx = nil
	h.mu.Unlock()

	h.ReconnectLater(errors.New("sub: connection closed"))
}

// ReconnectLater schedules a reconnect attempt after the current backoff
// delay. err is accepted for call-site symmetry with the caller; this
// implementation always retries since protocol-fatal rejections are
// handled by the caller failing the consumer outright rather than calling
// ReconnectLater.
func (h *connectionHandler) ReconnectLater(_ error) {
	h.mu.Lock()
	if h.state.terminal() {
		h.mu.Unlock()
		return
	}
	h.state = stateConnecting
	delay := h.nextBackoffLocked()
	h.mu.Unlock()

	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			h.GrabConnection()
		case <-h.stopc:
		}
	}()
}

// nextBackoffLocked must be called with h.mu held. It doubles the backoff
// (capped at maxDelay) and returns a jittered delay derived from the
// pre-doubling value.
func (h *connectionHandler) nextBackoffLocked() time.Duration {
	cur := h.backoff
	next := cur * 2
	if next > h.maxDelay {
		next = h.maxDelay
	}
	h.backoff = next

	jitterRange := int64(cur/2) + 1
	jitter := time.Duration(rand.Int63n(jitterRange))
	return cur/2 + jitter
}

// ResetBackoff restores the initial backoff delay, called after a
// successful subscribe.
func (h *connectionHandler) ResetBackoff() {
	h.mu.Lock()
	h.backoff = h.initialDelay
	h.mu.Unlock()
}

// CheckIfActive fails with ErrAlreadyClosed once the handler has reached a
// terminal state.
func (h *connectionHandler) CheckIfActive() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.terminal() {
		return ErrAlreadyClosed
	}
	return nil
}

// IsRetriableError distinguishes transport failures (retriable) from
// protocol-fatal broker rejections.
func (h *connectionHandler) IsRetriableError(err error) bool {
	var be *BrokerError
	if errors.As(err, &be) {
		return be.Retriable()
	}
	return true
}

func (h *connectionHandler) SetState(s connState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *connectionHandler) State() connState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *connectionHandler) Connection() Connection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cnx
}

// Close stops the handler's pending reconnect timers. It does not itself
// close the underlying Connection, which is shared with other consumers
// and producers.
func (h *connectionHandler) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.state = stateTerminated
		h.mu.Unlock()
		close(h.stopc)
	})
}
