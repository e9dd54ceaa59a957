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
	"errors"
	"fmt"
)

var (
	// ErrAlreadyClosed is returned by any API call made against a consumer
	// that has already transitioned to Closed/Failed.
	ErrAlreadyClosed = errors.New("sub: consumer already closed")

	// ErrNotConnected is returned when an operation that requires a Ready
	// connection is attempted while the consumer is reconnecting.
	ErrNotConnected = errors.New("sub: consumer not connected")

	// ErrInvalidSubMode names an unrecognized SubscriptionType. No code in
	// this package returns it: subscribe maps an unrecognized type to
	// Exclusive.
	ErrInvalidSubMode = errors.New("sub: invalid subscription type")
)

// ConnectionFailedOnSend wraps a transport error encountered while trying to
// write a request frame for the named operation.
type ConnectionFailedOnSend struct {
	Op  string
	Err error
}

func (e *ConnectionFailedOnSend) Error() string {
	return fmt.Sprintf("sub: connection failed on send (%s): %v", e.Op, e.Err)
}

func (e *ConnectionFailedOnSend) Unwrap() error { return e.Err }
