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

// Package utils holds small cross-cutting helpers shared by every layer of
// the client: protocol constants, a non-blocking async error sink, and the
// unexpected-response-message error used by every request/response actor.
package utils

import (
	"fmt"
	"os"
	"testing"

	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// ClientVersion is reported to the broker on CONNECT.
const ClientVersion = "pulsar-client-go"

// ProtoVersion is the highest binary-protocol version this client speaks.
const ProtoVersion = int32(api.ProtocolVersion_v13)

// UndefRequestID is used for responses (notably CONNECT's ERROR case) that
// aren't associated with a particular request id.
const UndefRequestID = ^uint64(0)

// MAX_REDELIVER_UNACKNOWLEDGED is the largest number of message ids the
// broker accepts in a single REDELIVER_UNACKNOWLEDGED_MESSAGES frame.
const MAX_REDELIVER_UNACKNOWLEDGED = 1000

// AsyncErrors is a fire-and-forget sink for errors that occur on background
// goroutines (reconnects, flow sends) that no caller is blocked waiting on.
// A nil AsyncErrors silently discards.
type AsyncErrors chan<- error

// Send delivers err without blocking. If the channel is nil or full, the
// error is dropped.
func (a AsyncErrors) Send(err error) {
	if a == nil || err == nil {
		return
	}
	select {
	case a <- err:
	default:
	}
}

// UnexpectedErrMsg is returned when a response frame's type doesn't match
// any of the types a request/response actor was prepared to handle.
type UnexpectedErrMsg struct {
	ActualType api.BaseCommand_Type
	ReqID      uint64
	ExtraCtx   []interface{}
}

func (e *UnexpectedErrMsg) Error() string {
	if len(e.ExtraCtx) > 0 {
		return fmt.Sprintf("unexpected %q message received for request id %d: %v", e.ActualType, e.ReqID, e.ExtraCtx)
	}
	return fmt.Sprintf("unexpected %q message received for request id %d", e.ActualType, e.ReqID)
}

// NewUnexpectedErrMsg builds an UnexpectedErrMsg, recording any additional
// identifying context (producer/consumer/sequence ids) for diagnostics.
func NewUnexpectedErrMsg(actualType api.BaseCommand_Type, reqID uint64, extraCtx ...interface{}) error {
	return &UnexpectedErrMsg{
		ActualType: actualType,
		ReqID:      reqID,
		ExtraCtx:   extraCtx,
	}
}

// PulsarAddr returns the broker address to use for integration tests, read
// from the PULSAR_TEST_ADDR environment variable. Tests call this and skip
// themselves when it's unset, since no broker is assumed to be running in
// this repo's unit test environment.
func PulsarAddr(t testing.TB) string {
	t.Helper()
	addr := os.Getenv("PULSAR_TEST_ADDR")
	if addr == "" {
		t.Skip("PULSAR_TEST_ADDR not set; skipping integration test")
	}
	return addr
}
