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
	"encoding/binary"
	"fmt"

	"github.com/golang/protobuf/proto"
	"github.com/pepper-iot/pulsar-client-go/core/msg"
	"github.com/pepper-iot/pulsar-client-go/pkg/api"
)

// decodeMessages turns one MESSAGE frame's (metadata, possibly-compressed
// payload) into the one or more application messages it carries. A
// single-message entry (num_messages_in_batch <= 1) decompresses straight to
// a payload with an Individual id; a batched entry's payload unpacks into a
// length-prefixed sequence of (SingleMessageMetadata, payload) tuples, one
// per logical message, each given a Cumulative id sharing one BatchAcker.
func decodeMessages(baseID msg.ID, md *api.MessageMetadata, payload []byte, decompress decompressor) ([]msg.Message, error) {
	raw, err := decompress.Decompress(payload, int(md.GetUncompressedSize()))
	if err != nil {
		return nil, fmt.Errorf("sub: decompress: %w", err)
	}

	numMessages := int(md.GetNumMessagesInBatch())
	if numMessages <= 1 {
		return []msg.Message{{
			ID:         baseID,
			Metadata:   toMetadata(md, numMessages),
			Payload:    raw,
			Properties: keyValuesToMap(md.GetProperties()),
			Key:        md.GetPartitionKey(),
		}}, nil
	}

	acker := msg.NewBatchAcker(numMessages)
	messages := make([]msg.Message, 0, numMessages)

	buf := raw
	for i := 0; i < numMessages; i++ {
		if len(buf) < 4 {
			return nil, fmt.Errorf("sub: batch entry %d/%d: truncated single-message-metadata size", i, numMessages)
		}
		smSize := binary.BigEndian.Uint32(buf[:4])
		buf = buf[4:]
		if uint32(len(buf)) < smSize {
			return nil, fmt.Errorf("sub: batch entry %d/%d: truncated single-message-metadata", i, numMessages)
		}

		sm := new(api.SingleMessageMetadata)
		if err := proto.Unmarshal(buf[:smSize], sm); err != nil {
			return nil, fmt.Errorf("sub: batch entry %d/%d: unmarshal single-message-metadata: %w", i, numMessages, err)
		}
		buf = buf[smSize:]

		payloadSize := int(sm.GetPayloadSize())
		if payloadSize < 0 || len(buf) < payloadSize {
			return nil, fmt.Errorf("sub: batch entry %d/%d: truncated payload", i, numMessages)
		}
		body := buf[:payloadSize]
		buf = buf[payloadSize:]

		id := baseID
		id.Type = msg.Cumulative
		id.BatchIndex = int32(i)
		id.Acker = acker

		key := sm.GetPartitionKey()
		if key == "" {
			key = md.GetPartitionKey()
		}

		messages = append(messages, msg.Message{
			ID:         id,
			Metadata:   toMetadata(md, numMessages),
			Payload:    body,
			Properties: keyValuesToMap(sm.GetProperties()),
			Key:        key,
		})
	}

	return messages, nil
}

func toMetadata(md *api.MessageMetadata, numMessages int) msg.Metadata {
	return msg.Metadata{
		NumMessages:           int32(numMessages),
		CompressionType:       int32(md.GetCompression()),
		UncompressedSize:      md.GetUncompressedSize(),
		HasNumMessagesInBatch: numMessages > 1,
		EventTimeUnixMillis:   md.GetEventTime(),
		PublishTimeUnixMillis: md.GetPublishTime(),
	}
}

func keyValuesToMap(kvs []*api.KeyValue) map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[kv.GetKey()] = kv.GetValue()
	}
	return out
}
