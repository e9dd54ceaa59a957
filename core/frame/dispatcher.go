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

package frame

import (
	"errors"
	"sync"

	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// CmdSender is the subset of *conn.Conn a request/response actor (producer,
// connector, consumer) needs: write a frame and learn when the underlying
// connection has gone away. Kept as an interface so tests can substitute
// MockSender.
type CmdSender interface {
	SendSimpleCmd(cmd api.BaseCommand) error
	SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error
	Closed() <-chan struct{}
}

// MockSender is a CmdSender that records every frame it's asked to send
// instead of writing to a socket, for use in unit tests.
type MockSender struct {
	mu      sync.Mutex
	Frames  []Frame
	closedc chan struct{}

	// SendErr, if set, is returned by both Send* methods instead of
	// recording the frame.
	SendErr error
}

func (m *MockSender) SendSimpleCmd(cmd api.BaseCommand) error {
	return m.record(Frame{BaseCmd: &cmd})
}

func (m *MockSender) SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error {
	return m.record(Frame{BaseCmd: &cmd, Metadata: &metadata, Payload: payload})
}

func (m *MockSender) record(f Frame) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	m.Frames = append(m.Frames, f)
	m.mu.Unlock()
	return nil
}

func (m *MockSender) Closed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	return m.closedc
}

// Close unblocks Closed(), simulating the underlying connection going away.
func (m *MockSender) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	select {
	case <-m.closedc:
	default:
		close(m.closedc)
	}
}

var (
	// ErrDispatcherClosed is returned by Register* once the Dispatcher has
	// been told the connection is gone.
	ErrDispatcherClosed = errors.New("frame: dispatcher closed")
)

type prodSeqKey struct {
	producerID, sequenceID uint64
}

// Dispatcher routes response frames back to the goroutine that is awaiting
// them, keyed either by request id (SUBSCRIBE/ACK-adjacent commands that
// carry a RequestId), by (producerID, sequenceID) (SEND_RECEIPT/SEND_ERROR),
// or, for the one frame type that precedes having a connection-scoped
// identity at all (CONNECTED), globally. Exactly one Notify call answers
// exactly one Register call; unmatched notifications are dropped (the
// registrant has either already been answered or given up).
type Dispatcher struct {
	mu sync.Mutex

	reqID   map[uint64]chan Frame
	prodSeq map[prodSeqKey]chan Frame
	global  chan Frame

	closed bool
}

// NewFrameDispatcher returns a ready-to-use Dispatcher.
func NewFrameDispatcher() *Dispatcher {
	return &Dispatcher{
		reqID:   make(map[uint64]chan Frame),
		prodSeq: make(map[prodSeqKey]chan Frame),
	}
}

// RegisterReqID registers interest in the response to the given request id.
// The returned cancel func must be called (typically deferred) once the
// caller stops waiting, whether or not a response arrived, to release the
// registration.
func (d *Dispatcher) RegisterReqID(id uint64) (<-chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, nil, ErrDispatcherClosed
	}
	ch := make(chan Frame, 1)
	d.reqID[id] = ch
	cancel := func() {
		d.mu.Lock()
		delete(d.reqID, id)
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// RegisterProdSeqIDs registers interest in the SEND_RECEIPT/SEND_ERROR for
// the given (producerID, sequenceID) pair.
func (d *Dispatcher) RegisterProdSeqIDs(producerID, sequenceID uint64) (<-chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, nil, ErrDispatcherClosed
	}
	key := prodSeqKey{producerID, sequenceID}
	ch := make(chan Frame, 1)
	d.prodSeq[key] = ch
	cancel := func() {
		d.mu.Lock()
		delete(d.prodSeq, key)
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// RegisterGlobal registers interest in the next connection-wide frame not
// tied to a request id (used for CONNECT's CONNECTED response).
func (d *Dispatcher) RegisterGlobal() (<-chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, nil, ErrDispatcherClosed
	}
	ch := make(chan Frame, 1)
	d.global = ch
	cancel := func() {
		d.mu.Lock()
		if d.global == ch {
			d.global = nil
		}
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// NotifyReqID delivers f to whoever registered for id, if anyone. It is not
// an error for nobody to be listening.
func (d *Dispatcher) NotifyReqID(id uint64, f Frame) error {
	d.mu.Lock()
	ch, ok := d.reqID[id]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case ch <- f:
	default:
	}
	return nil
}

// NotifyProdSeqIDs delivers f to whoever registered for (producerID,
// sequenceID), if anyone.
func (d *Dispatcher) NotifyProdSeqIDs(producerID, sequenceID uint64, f Frame) error {
	d.mu.Lock()
	ch, ok := d.prodSeq[prodSeqKey{producerID, sequenceID}]
	d.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case ch <- f:
	default:
	}
	return nil
}

// NotifyGlobal delivers f to the current global registrant, if any.
func (d *Dispatcher) NotifyGlobal(f Frame) error {
	d.mu.Lock()
	ch := d.global
	d.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case ch <- f:
	default:
	}
	return nil
}

// Close marks the dispatcher closed; subsequent Register* calls fail with
// ErrDispatcherClosed. Already-registered channels are left for their
// owners to notice via their own connection-closed signal.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// RequestIDOf extracts the RequestId carried by response frame types that
// have one, for routing received frames to NotifyReqID. Returns ok=false
// for frame types that don't carry a request id (e.g. MESSAGE).
func RequestIDOf(f Frame) (id uint64, ok bool) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_SUCCESS:
		return f.BaseCmd.GetSuccess().GetRequestId(), true
	case api.BaseCommand_ERROR:
		return f.BaseCmd.GetError().GetRequestId(), true
	default:
		return 0, false
	}
}
