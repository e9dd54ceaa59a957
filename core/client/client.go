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

// Package client ties the transport (core/conn), the wire codec and
// request/response dispatcher (core/frame), and the per-partition consumer
// actor (core/sub) together into a single physical broker connection: one
// TCP/TLS socket, demultiplexed by consumer id and request id to however
// many consumers and producers share it.
package client

import (
	"context"
	"crypto/tls"
	"sync"
	"time"

	"github.com/pepper-iot/pulsar-client-go/core/conn"
	"github.com/pepper-iot/pulsar-client-go/core/frame"
	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
	"github.com/pepper-iot/pulsar-client-go/pkg/netdiag"
)

// ClientConfig configures a single broker connection. Broker discovery
// (the LOOKUP command) is out of scope here: Addr is dialed directly, as
// if it were already the owning broker for every topic this Client is used
// for.
type ClientConfig struct {
	Addr        string
	DialTimeout time.Duration
	TLSConfig   *tls.Config // nil for a plaintext connection

	AuthConfig conn.AuthConfig

	// ProxyBrokerURL is passed through to the CONNECT handshake; it is
	// optional.
	ProxyBrokerURL string

	// PacketTrace turns on pkg/netdiag's raw-packet frame-boundary tracer
	// for this connection. Off by default; purely diagnostic, never
	// required for normal operation.
	PacketTrace bool
	// NetdiagIface names the interface to sniff when PacketTrace is set.
	// Defaults to netdiag.LoopbackIfaceHint when empty.
	NetdiagIface string
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	return c
}

// Client owns one physical broker connection. It implements
// core/sub.Connection, so a Dial-wrapping closure can be handed to
// core/sub.NewConsumer directly as its Dialer.
type Client struct {
	cnx        *conn.Conn
	dispatcher *frame.Dispatcher
	reqID      *msg.MonotonicID
	logger     log.Logger
	tracer     *netdiag.Tracer

	mu        sync.Mutex
	consumers map[uint64]chan<- frame.Frame
}

// Dial opens a new broker connection and completes the CONNECT handshake.
func Dial(ctx context.Context, cfg ClientConfig, logger log.Logger) (*Client, error) {
	cfg = cfg.withDefaults()

	var cnx *conn.Conn
	var err error
	if cfg.TLSConfig != nil {
		cnx, err = conn.NewTLSConn(cfg.Addr, cfg.TLSConfig, cfg.DialTimeout)
	} else {
		cnx, err = conn.NewTCPConn(cfg.Addr, cfg.DialTimeout)
	}
	if err != nil {
		return nil, err
	}

	c := &Client{
		cnx:        cnx,
		dispatcher: frame.NewFrameDispatcher(),
		reqID:      &msg.MonotonicID{},
		logger:     logger.SubLogger(log.Fields{"addr": cfg.Addr}),
		consumers:  make(map[uint64]chan<- frame.Frame),
	}

	if cfg.PacketTrace {
		iface := cfg.NetdiagIface
		if iface == "" {
			iface = netdiag.LoopbackIfaceHint
		}
		c.tracer = netdiag.Start(iface, cfg.Addr, c.logger)
	}

	go c.readLoop()

	connector := conn.NewConnector(c.cnx, c.dispatcher, cfg.AuthConfig)
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if _, err := connector.Connect(connectCtx, cfg.AuthConfig.AuthMethod, cfg.ProxyBrokerURL); err != nil {
		_ = c.cnx.Close()
		return nil, err
	}

	return c, nil
}

// Dialer returns a dial function bound to cfg. It yields a *Client, so it is
// not itself a core/sub.Dialer; passing it to core/sub.NewConsumer takes a
// closure that returns the *Client as a core/sub.Connection. Every call
// opens a fresh physical connection;
// callers that want connection sharing across consumers should keep the
// returned *Client and close over it instead.
func Dialer(cfg ClientConfig, logger log.Logger) func(ctx context.Context) (*Client, error) {
	return func(ctx context.Context) (*Client, error) {
		return Dial(ctx, cfg, logger)
	}
}

func (c *Client) readLoop() {
	err := c.cnx.Read(c.handleFrame)
	if err != nil {
		c.logger.WithError(err).Debug("connection read loop exited")
	}
	c.dispatcher.Close()
}

func (c *Client) handleFrame(f frame.Frame) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_CONNECTED:
		_ = c.dispatcher.NotifyGlobal(f)

	case api.BaseCommand_MESSAGE:
		c.routeToConsumer(f.BaseCmd.GetMessage().GetConsumerId(), f)
	case api.BaseCommand_CLOSE_CONSUMER:
		c.routeToConsumer(f.BaseCmd.GetCloseConsumer().GetConsumerId(), f)
	case api.BaseCommand_REACHED_END_OF_TOPIC:
		c.routeToConsumer(f.BaseCmd.GetReachedEndOfTopic().GetConsumerId(), f)

	case api.BaseCommand_SEND_RECEIPT:
		r := f.BaseCmd.GetSendReceipt()
		_ = c.dispatcher.NotifyProdSeqIDs(r.GetProducerId(), r.GetSequenceId(), f)
	case api.BaseCommand_SEND_ERROR:
		e := f.BaseCmd.GetSendError()
		_ = c.dispatcher.NotifyProdSeqIDs(e.GetProducerId(), e.GetSequenceId(), f)

	case api.BaseCommand_SUCCESS, api.BaseCommand_ERROR:
		if id, ok := frame.RequestIDOf(f); ok {
			_ = c.dispatcher.NotifyReqID(id, f)
		}

	case api.BaseCommand_PING:
		if err := c.SendSimpleCmd(api.BaseCommand{
			Type: api.BaseCommand_PONG.Enum(),
			Pong: &api.CommandPong{},
		}); err != nil {
			c.logger.WithError(err).Warn("failed to reply to PING")
		}

	case api.BaseCommand_PONG:
		// no keepalive round-trip is tracked in this client.

	default:
		c.logger.Debugf("unhandled frame type %s", f.BaseCmd.GetType())
	}
}

func (c *Client) routeToConsumer(consumerID uint64, f frame.Frame) {
	c.mu.Lock()
	ch := c.consumers[consumerID]
	c.mu.Unlock()
	if ch == nil {
		c.logger.Debugf("frame for unknown consumer_id %d dropped", consumerID)
		return
	}
	select {
	case ch <- f:
	default:
		c.logger.Warnf("consumer_id %d's frame channel is full; dropping frame", consumerID)
	}
}

// SendSimpleCmd implements frame.CmdSender.
func (c *Client) SendSimpleCmd(cmd api.BaseCommand) error { return c.cnx.SendSimpleCmd(cmd) }

// SendPayloadCmd implements frame.CmdSender.
func (c *Client) SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error {
	return c.cnx.SendPayloadCmd(cmd, metadata, payload)
}

// Closed implements frame.CmdSender.
func (c *Client) Closed() <-chan struct{} { return c.cnx.Closed() }

// NewRequestID mints the next request id for a request/response exchange
// on this connection.
func (c *Client) NewRequestID() uint64 { return *c.reqID.Next() }

// SendAndWaitForReply implements core/sub.Connection.
func (c *Client) SendAndWaitForReply(ctx context.Context, requestID uint64, cmd api.BaseCommand) (frame.Frame, error) {
	resp, cancel, err := c.dispatcher.RegisterReqID(requestID)
	if err != nil {
		return frame.Frame{}, err
	}
	defer cancel()

	if err := c.SendSimpleCmd(cmd); err != nil {
		return frame.Frame{}, err
	}

	select {
	case f := <-resp:
		return f, nil
	case <-c.Closed():
		return frame.Frame{}, ErrConnectionClosed
	case <-ctx.Done():
		return frame.Frame{}, ctx.Err()
	}
}

// AddConsumer implements core/sub.Connection.
func (c *Client) AddConsumer(consumerID uint64, inbox chan<- frame.Frame) {
	c.mu.Lock()
	c.consumers[consumerID] = inbox
	c.mu.Unlock()
}

// RemoveConsumer implements core/sub.Connection.
func (c *Client) RemoveConsumer(consumerID uint64) {
	c.mu.Lock()
	delete(c.consumers, consumerID)
	c.mu.Unlock()
}

// Close tears down the physical connection, which in turn unblocks every
// consumer and producer sharing it.
func (c *Client) Close() error {
	if c.tracer != nil {
		c.tracer.Stop()
	}
	return c.cnx.Close()
}
