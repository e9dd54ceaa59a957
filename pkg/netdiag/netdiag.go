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

// Package netdiag is an optional, strictly read-only diagnostic: it watches
// the raw TCP bytes carrying a broker connection with gopacket/pcap and logs
// where it sees a frame boundary, as a cross-check against core/frame's own
// decode when a connection looks stuck or is dropping partial reads in the
// field. It never feeds anything back into a Consumer or Client; it only
// logs.
package netdiag

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"github.com/pepper-iot/pulsar-client-go/pkg/log"
)

// Tracer sniffs one TCP connection's segments, in both directions, off the wire and logs
// the totalSize each apparent frame boundary implies, independent of
// whatever core/frame decodes from the same bytes over the socket API.
type Tracer struct {
	handle *pcap.Handle
	logger log.Logger
	done   chan struct{}
}

// Start opens a BPF-filtered pcap handle on iface and begins tracing TCP
// segments to/from addr (host:port, as dialed). Returns a no-op Tracer
// (Stop is a no-op) if pcap can't be opened, logging the reason instead of
// failing the caller: this is a diagnostic aid, never a hard dependency for
// connecting to a broker.
func Start(iface, addr string, logger log.Logger) *Tracer {
	logger = logger.SubLogger(log.Fields{"component": "netdiag", "addr": addr})

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		logger.WithError(err).Warn("netdiag: invalid addr, tracing disabled")
		return &Tracer{logger: logger}
	}

	handle, err := pcap.OpenLive(iface, 65536, false, pcap.BlockForever)
	if err != nil {
		logger.WithError(err).Warn("netdiag: pcap open failed, tracing disabled")
		return &Tracer{logger: logger}
	}

	filter := "tcp and port " + port
	if ip := net.ParseIP(host); ip != nil {
		filter = "tcp and host " + host + " and port " + port
	}
	if err := handle.SetBPFFilter(filter); err != nil {
		logger.WithError(err).Warn("netdiag: BPF filter rejected, tracing disabled")
		handle.Close()
		return &Tracer{logger: logger}
	}

	t := &Tracer{
		handle: handle,
		logger: logger,
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Tracer) run() {
	defer close(t.done)
	src := gopacket.NewPacketSource(t.handle, t.handle.LinkType())
	for packet := range src.Packets() {
		appLayer := packet.ApplicationLayer()
		if appLayer == nil {
			continue
		}
		payload := appLayer.Payload()
		t.logFrameBoundaries(packet.Metadata().Timestamp, payload)
	}
}

// logFrameBoundaries logs every point in payload that looks like a valid
// Pulsar frame header (a plausible big-endian totalSize prefix), purely as
// an observational aid: TCP segmentation means a logged offset is not
// guaranteed to be an actual frame start, only a candidate one.
func (t *Tracer) logFrameBoundaries(ts time.Time, payload []byte) {
	const maxFrameSize = 5 * 1024 * 1024
	for i := 0; i+4 <= len(payload); i++ {
		totalSize := binary.BigEndian.Uint32(payload[i : i+4])
		if totalSize == 0 || totalSize > maxFrameSize {
			continue
		}
		t.logger.Debugf("candidate frame boundary at offset %d: totalSize=%d ts=%s",
			i, totalSize, ts.Format(time.RFC3339Nano))
	}
}

// Stop closes the pcap handle, if one was opened, and waits for the
// capture loop to exit.
func (t *Tracer) Stop() {
	if t.handle == nil {
		return
	}
	t.handle.Close()
	<-t.done
}

// LoopbackIfaceHint is a best-effort default interface name for tracing
// broker connections on localhost, where callers don't otherwise know
// their platform's loopback interface name. Connections to a non-loopback
// broker need the real outbound interface name instead.
const LoopbackIfaceHint = "lo0"
