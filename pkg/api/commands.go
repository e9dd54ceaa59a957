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

// Package api holds the protobuf-described commands of the Pulsar binary
// protocol. It is hand-maintained rather than protoc-generated (no
// pulsar_api.proto ships in this repo), but follows the same proto2,
// pointer-field shape that protoc-gen-go would emit (without the XXX_
// bookkeeping fields), so
// that core/frame's use of golang/protobuf (Marshal/Unmarshal/Equal) against
// these types behaves the way it would against real generated code.
//
// https://pulsar.apache.org/docs/next/developing-binary-protocol/
package api

import "fmt"

// BaseCommand_Type enumerates every frame kind in the binary protocol.
type BaseCommand_Type int32

const (
	BaseCommand_CONNECT                          BaseCommand_Type = 2
	BaseCommand_CONNECTED                        BaseCommand_Type = 3
	BaseCommand_SUBSCRIBE                        BaseCommand_Type = 4
	BaseCommand_PRODUCER                         BaseCommand_Type = 5
	BaseCommand_SEND                             BaseCommand_Type = 6
	BaseCommand_SEND_RECEIPT                     BaseCommand_Type = 7
	BaseCommand_SEND_ERROR                       BaseCommand_Type = 8
	BaseCommand_MESSAGE                          BaseCommand_Type = 9
	BaseCommand_ACK                               BaseCommand_Type = 10
	BaseCommand_FLOW                              BaseCommand_Type = 11
	BaseCommand_UNSUBSCRIBE                      BaseCommand_Type = 12
	BaseCommand_SUCCESS                           BaseCommand_Type = 13
	BaseCommand_ERROR                             BaseCommand_Type = 14
	BaseCommand_CLOSE_PRODUCER                   BaseCommand_Type = 15
	BaseCommand_CLOSE_CONSUMER                   BaseCommand_Type = 16
	BaseCommand_PRODUCER_SUCCESS                 BaseCommand_Type = 17
	BaseCommand_PING                              BaseCommand_Type = 18
	BaseCommand_PONG                              BaseCommand_Type = 19
	BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES BaseCommand_Type = 20
	BaseCommand_LOOKUP                            BaseCommand_Type = 21
	BaseCommand_LOOKUP_RESPONSE                   BaseCommand_Type = 22
	BaseCommand_REACHED_END_OF_TOPIC              BaseCommand_Type = 30
	BaseCommand_GET_LAST_MESSAGE_ID               BaseCommand_Type = 31
	BaseCommand_GET_LAST_MESSAGE_ID_RESPONSE      BaseCommand_Type = 32
)

var baseCommandTypeName = map[BaseCommand_Type]string{
	BaseCommand_CONNECT:                            "CONNECT",
	BaseCommand_CONNECTED:                           "CONNECTED",
	BaseCommand_SUBSCRIBE:                           "SUBSCRIBE",
	BaseCommand_PRODUCER:                            "PRODUCER",
	BaseCommand_SEND:                                "SEND",
	BaseCommand_SEND_RECEIPT:                        "SEND_RECEIPT",
	BaseCommand_SEND_ERROR:                          "SEND_ERROR",
	BaseCommand_MESSAGE:                             "MESSAGE",
	BaseCommand_ACK:                                 "ACK",
	BaseCommand_FLOW:                                "FLOW",
	BaseCommand_UNSUBSCRIBE:                         "UNSUBSCRIBE",
	BaseCommand_SUCCESS:                             "SUCCESS",
	BaseCommand_ERROR:                               "ERROR",
	BaseCommand_CLOSE_PRODUCER:                      "CLOSE_PRODUCER",
	BaseCommand_CLOSE_CONSUMER:                      "CLOSE_CONSUMER",
	BaseCommand_PRODUCER_SUCCESS:                    "PRODUCER_SUCCESS",
	BaseCommand_PING:                                "PING",
	BaseCommand_PONG:                                "PONG",
	BaseCommand_REDELIVER_UNACKNOWLEDGED_MESSAGES:   "REDELIVER_UNACKNOWLEDGED_MESSAGES",
	BaseCommand_LOOKUP:                              "LOOKUP",
	BaseCommand_LOOKUP_RESPONSE:                     "LOOKUP_RESPONSE",
	BaseCommand_REACHED_END_OF_TOPIC:                "REACHED_END_OF_TOPIC",
	BaseCommand_GET_LAST_MESSAGE_ID:                 "GET_LAST_MESSAGE_ID",
	BaseCommand_GET_LAST_MESSAGE_ID_RESPONSE:        "GET_LAST_MESSAGE_ID_RESPONSE",
}

func (t BaseCommand_Type) String() string {
	if s, ok := baseCommandTypeName[t]; ok {
		return s
	}
	return fmt.Sprintf("BaseCommand_Type(%d)", int32(t))
}

func (t BaseCommand_Type) Enum() *BaseCommand_Type {
	return &t
}

// BaseCommand is the envelope for every frame on the wire: exactly one of
// the pointer fields below is set, selected by Type.
type BaseCommand struct {
	Type *BaseCommand_Type `protobuf:"varint,1,req,name=type,enum=pulsar.proto.BaseCommand_Type" json:"type,omitempty"`

	Connect       *CommandConnect       `protobuf:"bytes,2,opt,name=connect" json:"connect,omitempty"`
	Connected     *CommandConnected     `protobuf:"bytes,3,opt,name=connected" json:"connected,omitempty"`
	Subscribe     *CommandSubscribe     `protobuf:"bytes,4,opt,name=subscribe" json:"subscribe,omitempty"`
	Send          *CommandSend          `protobuf:"bytes,6,opt,name=send" json:"send,omitempty"`
	SendReceipt   *CommandSendReceipt   `protobuf:"bytes,7,opt,name=send_receipt" json:"send_receipt,omitempty"`
	SendError     *CommandSendError     `protobuf:"bytes,8,opt,name=send_error" json:"send_error,omitempty"`
	Message       *CommandMessage       `protobuf:"bytes,9,opt,name=message" json:"message,omitempty"`
	Ack           *CommandAck           `protobuf:"bytes,10,opt,name=ack" json:"ack,omitempty"`
	Flow          *CommandFlow          `protobuf:"bytes,11,opt,name=flow" json:"flow,omitempty"`
	Unsubscribe   *CommandUnsubscribe   `protobuf:"bytes,12,opt,name=unsubscribe" json:"unsubscribe,omitempty"`
	Success       *CommandSuccess       `protobuf:"bytes,13,opt,name=success" json:"success,omitempty"`
	Error         *CommandError         `protobuf:"bytes,14,opt,name=error" json:"error,omitempty"`
	CloseProducer *CommandCloseProducer `protobuf:"bytes,15,opt,name=close_producer" json:"close_producer,omitempty"`
	CloseConsumer *CommandCloseConsumer `protobuf:"bytes,16,opt,name=close_consumer" json:"close_consumer,omitempty"`

	Ping *CommandPing `protobuf:"bytes,18,opt,name=ping" json:"ping,omitempty"`
	Pong *CommandPong `protobuf:"bytes,19,opt,name=pong" json:"pong,omitempty"`

	RedeliverUnacknowledgedMessages *CommandRedeliverUnacknowledgedMessages `protobuf:"bytes,20,opt,name=redeliverUnacknowledgedMessages" json:"redeliverUnacknowledgedMessages,omitempty"`

	Lookup         *CommandLookupTopic     `protobuf:"bytes,21,opt,name=lookupTopic" json:"lookupTopic,omitempty"`
	LookupResponse *CommandLookupTopicResponse `protobuf:"bytes,22,opt,name=lookupTopicResponse" json:"lookupTopicResponse,omitempty"`

	ReachedEndOfTopic *CommandReachedEndOfTopic `protobuf:"bytes,30,opt,name=reachedEndOfTopic" json:"reachedEndOfTopic,omitempty"`
}

func (m *BaseCommand) Reset()         { *m = BaseCommand{} }
func (m *BaseCommand) String() string { return fmt.Sprintf("%+v", *m) }
func (*BaseCommand) ProtoMessage()    {}

func (m *BaseCommand) GetType() BaseCommand_Type {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return 0
}
func (m *BaseCommand) GetConnect() *CommandConnect {
	if m != nil {
		return m.Connect
	}
	return nil
}
func (m *BaseCommand) GetConnected() *CommandConnected {
	if m != nil {
		return m.Connected
	}
	return nil
}
func (m *BaseCommand) GetSubscribe() *CommandSubscribe {
	if m != nil {
		return m.Subscribe
	}
	return nil
}
func (m *BaseCommand) GetSend() *CommandSend {
	if m != nil {
		return m.Send
	}
	return nil
}
func (m *BaseCommand) GetSendReceipt() *CommandSendReceipt {
	if m != nil {
		return m.SendReceipt
	}
	return nil
}
func (m *BaseCommand) GetSendError() *CommandSendError {
	if m != nil {
		return m.SendError
	}
	return nil
}
func (m *BaseCommand) GetMessage() *CommandMessage {
	if m != nil {
		return m.Message
	}
	return nil
}
func (m *BaseCommand) GetAck() *CommandAck {
	if m != nil {
		return m.Ack
	}
	return nil
}
func (m *BaseCommand) GetFlow() *CommandFlow {
	if m != nil {
		return m.Flow
	}
	return nil
}
func (m *BaseCommand) GetUnsubscribe() *CommandUnsubscribe {
	if m != nil {
		return m.Unsubscribe
	}
	return nil
}
func (m *BaseCommand) GetSuccess() *CommandSuccess {
	if m != nil {
		return m.Success
	}
	return nil
}
func (m *BaseCommand) GetError() *CommandError {
	if m != nil {
		return m.Error
	}
	return nil
}
func (m *BaseCommand) GetCloseProducer() *CommandCloseProducer {
	if m != nil {
		return m.CloseProducer
	}
	return nil
}
func (m *BaseCommand) GetCloseConsumer() *CommandCloseConsumer {
	if m != nil {
		return m.CloseConsumer
	}
	return nil
}
func (m *BaseCommand) GetRedeliverUnacknowledgedMessages() *CommandRedeliverUnacknowledgedMessages {
	if m != nil {
		return m.RedeliverUnacknowledgedMessages
	}
	return nil
}
func (m *BaseCommand) GetLookup() *CommandLookupTopic {
	if m != nil {
		return m.Lookup
	}
	return nil
}
func (m *BaseCommand) GetLookupResponse() *CommandLookupTopicResponse {
	if m != nil {
		return m.LookupResponse
	}
	return nil
}
func (m *BaseCommand) GetReachedEndOfTopic() *CommandReachedEndOfTopic {
	if m != nil {
		return m.ReachedEndOfTopic
	}
	return nil
}

// --- CONNECT / CONNECTED -----------------------------------------------

type AuthMethod int32

const (
	AuthMethod_AuthMethodNone  AuthMethod = 0
	AuthMethod_AuthMethodToken AuthMethod = 2
)

func (a AuthMethod) Enum() *AuthMethod { return &a }

type ProtocolVersion int32

const (
	ProtocolVersion_v0  ProtocolVersion = 0
	ProtocolVersion_v12 ProtocolVersion = 12
	ProtocolVersion_v13 ProtocolVersion = 13
)

type CommandConnect struct {
	ClientVersion    *string     `protobuf:"bytes,1,req,name=client_version" json:"client_version,omitempty"`
	AuthMethod       *AuthMethod `protobuf:"varint,2,opt,name=auth_method,enum=pulsar.proto.AuthMethod" json:"auth_method,omitempty"`
	AuthMethodName   *string     `protobuf:"bytes,5,opt,name=auth_method_name" json:"auth_method_name,omitempty"`
	AuthData         []byte      `protobuf:"bytes,3,opt,name=auth_data" json:"auth_data,omitempty"`
	ProtocolVersion  *int32      `protobuf:"varint,4,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
	ProxyToBrokerUrl *string     `protobuf:"bytes,6,opt,name=proxy_to_broker_url" json:"proxy_to_broker_url,omitempty"`
}

func (m *CommandConnect) Reset()         { *m = CommandConnect{} }
func (m *CommandConnect) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandConnect) ProtoMessage()    {}

func (m *CommandConnect) GetProtocolVersion() int32 {
	if m != nil && m.ProtocolVersion != nil {
		return *m.ProtocolVersion
	}
	return 0
}

type CommandConnected struct {
	ServerVersion   *string `protobuf:"bytes,1,req,name=server_version" json:"server_version,omitempty"`
	ProtocolVersion *int32  `protobuf:"varint,2,opt,name=protocol_version,def=0" json:"protocol_version,omitempty"`
}

func (m *CommandConnected) Reset()         { *m = CommandConnected{} }
func (m *CommandConnected) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandConnected) ProtoMessage()    {}

func (m *CommandConnected) GetServerVersion() string {
	if m != nil && m.ServerVersion != nil {
		return *m.ServerVersion
	}
	return ""
}
func (m *CommandConnected) GetProtocolVersion() int32 {
	if m != nil && m.ProtocolVersion != nil {
		return *m.ProtocolVersion
	}
	return 0
}

// --- SUBSCRIBE -----------------------------------------------------------

type CommandSubscribe_SubType int32

const (
	CommandSubscribe_Exclusive CommandSubscribe_SubType = 0
	CommandSubscribe_Shared    CommandSubscribe_SubType = 1
	CommandSubscribe_Failover  CommandSubscribe_SubType = 2
	CommandSubscribe_KeyShared CommandSubscribe_SubType = 3
)

func (t CommandSubscribe_SubType) Enum() *CommandSubscribe_SubType { return &t }

type CommandSubscribe_InitialPosition int32

const (
	CommandSubscribe_Latest   CommandSubscribe_InitialPosition = 0
	CommandSubscribe_Earliest CommandSubscribe_InitialPosition = 1
)

func (p CommandSubscribe_InitialPosition) Enum() *CommandSubscribe_InitialPosition { return &p }

type CommandSubscribe struct {
	Topic           *string                           `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	Subscription    *string                           `protobuf:"bytes,2,req,name=subscription" json:"subscription,omitempty"`
	SubType         *CommandSubscribe_SubType         `protobuf:"varint,3,req,name=subType,enum=pulsar.proto.CommandSubscribe_SubType" json:"subType,omitempty"`
	ConsumerId      *uint64                           `protobuf:"varint,4,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId       *uint64                           `protobuf:"varint,5,req,name=request_id" json:"request_id,omitempty"`
	ConsumerName    *string                           `protobuf:"bytes,6,opt,name=consumer_name" json:"consumer_name,omitempty"`
	PriorityLevel   *int32                            `protobuf:"varint,7,opt,name=priority_level" json:"priority_level,omitempty"`
	Durable         *bool                             `protobuf:"varint,8,opt,name=durable,def=1" json:"durable,omitempty"`
	Metadata        []*KeyValue                       `protobuf:"bytes,10,rep,name=metadata" json:"metadata,omitempty"`
	ReadCompacted   *bool                             `protobuf:"varint,11,opt,name=read_compacted" json:"read_compacted,omitempty"`
	InitialPosition *CommandSubscribe_InitialPosition `protobuf:"varint,13,opt,name=initialPosition,enum=pulsar.proto.CommandSubscribe_InitialPosition,def=0" json:"initialPosition,omitempty"`
	StartMessageId  *MessageIdData                    `protobuf:"bytes,12,opt,name=start_message_id" json:"start_message_id,omitempty"`
}

func (m *CommandSubscribe) Reset()         { *m = CommandSubscribe{} }
func (m *CommandSubscribe) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandSubscribe) ProtoMessage()    {}

func (m *CommandSubscribe) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandSubscribe) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}
func (m *CommandSubscribe) GetTopic() string {
	if m != nil && m.Topic != nil {
		return *m.Topic
	}
	return ""
}
func (m *CommandSubscribe) GetSubscription() string {
	if m != nil && m.Subscription != nil {
		return *m.Subscription
	}
	return ""
}

// --- FLOW / ACK / REDELIVER ----------------------------------------------

type CommandFlow struct {
	ConsumerId     *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessagePermits *uint32 `protobuf:"varint,2,req,name=messagePermits" json:"messagePermits,omitempty"`
}

func (m *CommandFlow) Reset()         { *m = CommandFlow{} }
func (m *CommandFlow) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandFlow) ProtoMessage()    {}

func (m *CommandFlow) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandFlow) GetMessagePermits() uint32 {
	if m != nil && m.MessagePermits != nil {
		return *m.MessagePermits
	}
	return 0
}

type CommandAck_AckType int32

const (
	CommandAck_Individual CommandAck_AckType = 0
	CommandAck_Cumulative CommandAck_AckType = 1
)

func (t CommandAck_AckType) Enum() *CommandAck_AckType { return &t }

type CommandAck_ValidationError int32

const (
	CommandAck_UncompressedSizeCorruption CommandAck_ValidationError = 0
	CommandAck_DecompressionError         CommandAck_ValidationError = 1
	CommandAck_ChecksumMismatch           CommandAck_ValidationError = 2
	CommandAck_BatchDeSerializeError      CommandAck_ValidationError = 3
	CommandAck_DecryptionError            CommandAck_ValidationError = 4
)

func (v CommandAck_ValidationError) Enum() *CommandAck_ValidationError { return &v }

type CommandAck struct {
	ConsumerId      *uint64                     `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	AckType         *CommandAck_AckType         `protobuf:"varint,2,req,name=ack_type,enum=pulsar.proto.CommandAck_AckType" json:"ack_type,omitempty"`
	MessageId       []*MessageIdData            `protobuf:"bytes,3,rep,name=message_id" json:"message_id,omitempty"`
	ValidationError *CommandAck_ValidationError `protobuf:"varint,4,opt,name=validation_error,enum=pulsar.proto.CommandAck_ValidationError" json:"validation_error,omitempty"`
}

func (m *CommandAck) Reset()         { *m = CommandAck{} }
func (m *CommandAck) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandAck) ProtoMessage()    {}

func (m *CommandAck) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandAck) GetAckType() CommandAck_AckType {
	if m != nil && m.AckType != nil {
		return *m.AckType
	}
	return CommandAck_Individual
}
func (m *CommandAck) GetMessageId() []*MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}

type CommandRedeliverUnacknowledgedMessages struct {
	ConsumerId *uint64          `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessageIds []*MessageIdData `protobuf:"bytes,2,rep,name=message_ids" json:"message_ids,omitempty"`
}

func (m *CommandRedeliverUnacknowledgedMessages) Reset() {
	*m = CommandRedeliverUnacknowledgedMessages{}
}
func (m *CommandRedeliverUnacknowledgedMessages) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandRedeliverUnacknowledgedMessages) ProtoMessage()    {}

func (m *CommandRedeliverUnacknowledgedMessages) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandRedeliverUnacknowledgedMessages) GetMessageIds() []*MessageIdData {
	if m != nil {
		return m.MessageIds
	}
	return nil
}

// --- MESSAGE / METADATA ---------------------------------------------------

type CommandMessage struct {
	ConsumerId      *uint64        `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	MessageId       *MessageIdData `protobuf:"bytes,2,req,name=message_id" json:"message_id,omitempty"`
	RedeliveryCount *uint32        `protobuf:"varint,3,opt,name=redelivery_count,def=0" json:"redelivery_count,omitempty"`
}

func (m *CommandMessage) Reset()         { *m = CommandMessage{} }
func (m *CommandMessage) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandMessage) ProtoMessage()    {}

func (m *CommandMessage) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}
func (m *CommandMessage) GetRedeliveryCount() uint32 {
	if m != nil && m.RedeliveryCount != nil {
		return *m.RedeliveryCount
	}
	return 0
}
func (m *CommandMessage) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}

type CompressionType int32

const (
	CompressionType_NONE   CompressionType = 0
	CompressionType_LZ4    CompressionType = 1
	CompressionType_ZLIB   CompressionType = 2
	CompressionType_ZSTD   CompressionType = 3
	CompressionType_SNAPPY CompressionType = 4
)

func (c CompressionType) Enum() *CompressionType { return &c }

func (c CompressionType) String() string {
	switch c {
	case CompressionType_NONE:
		return "NONE"
	case CompressionType_LZ4:
		return "LZ4"
	case CompressionType_ZLIB:
		return "ZLIB"
	case CompressionType_ZSTD:
		return "ZSTD"
	case CompressionType_SNAPPY:
		return "SNAPPY"
	default:
		return fmt.Sprintf("CompressionType(%d)", int32(c))
	}
}

type MessageMetadata struct {
	ProducerName           *string         `protobuf:"bytes,1,req,name=producer_name" json:"producer_name,omitempty"`
	SequenceId             *uint64         `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	PublishTime            *uint64         `protobuf:"varint,3,req,name=publish_time" json:"publish_time,omitempty"`
	Properties             []*KeyValue     `protobuf:"bytes,4,rep,name=properties" json:"properties,omitempty"`
	PartitionKey           *string         `protobuf:"bytes,5,opt,name=partition_key" json:"partition_key,omitempty"`
	Compression            *CompressionType `protobuf:"varint,7,opt,name=compression,enum=pulsar.proto.CompressionType,def=0" json:"compression,omitempty"`
	UncompressedSize       *uint32         `protobuf:"varint,8,opt,name=uncompressed_size,def=0" json:"uncompressed_size,omitempty"`
	NumMessagesInBatch     *int32          `protobuf:"varint,11,opt,name=num_messages_in_batch,def=1" json:"num_messages_in_batch,omitempty"`
	EventTime              *uint64         `protobuf:"varint,12,opt,name=event_time,def=0" json:"event_time,omitempty"`
}

func (m *MessageMetadata) Reset()         { *m = MessageMetadata{} }
func (m *MessageMetadata) String() string { return fmt.Sprintf("%+v", *m) }
func (*MessageMetadata) ProtoMessage()    {}

func (m *MessageMetadata) GetCompression() CompressionType {
	if m != nil && m.Compression != nil {
		return *m.Compression
	}
	return CompressionType_NONE
}
func (m *MessageMetadata) GetUncompressedSize() uint32 {
	if m != nil && m.UncompressedSize != nil {
		return *m.UncompressedSize
	}
	return 0
}
func (m *MessageMetadata) GetNumMessagesInBatch() int32 {
	if m != nil && m.NumMessagesInBatch != nil {
		return *m.NumMessagesInBatch
	}
	return 1
}
func (m *MessageMetadata) GetPublishTime() uint64 {
	if m != nil && m.PublishTime != nil {
		return *m.PublishTime
	}
	return 0
}
func (m *MessageMetadata) GetEventTime() uint64 {
	if m != nil && m.EventTime != nil {
		return *m.EventTime
	}
	return 0
}
func (m *MessageMetadata) GetPartitionKey() string {
	if m != nil && m.PartitionKey != nil {
		return *m.PartitionKey
	}
	return ""
}
func (m *MessageMetadata) GetProducerName() string {
	if m != nil && m.ProducerName != nil {
		return *m.ProducerName
	}
	return ""
}
func (m *MessageMetadata) GetProperties() []*KeyValue {
	if m != nil {
		return m.Properties
	}
	return nil
}

// SingleMessageMetadata describes one logical message inside a batch.
type SingleMessageMetadata struct {
	Properties   []*KeyValue `protobuf:"bytes,1,rep,name=properties" json:"properties,omitempty"`
	PartitionKey *string     `protobuf:"bytes,2,opt,name=partition_key" json:"partition_key,omitempty"`
	PayloadSize  *int32      `protobuf:"varint,3,req,name=payload_size" json:"payload_size,omitempty"`
	CompactedOut *bool       `protobuf:"varint,4,opt,name=compacted_out,def=0" json:"compacted_out,omitempty"`
	EventTime    *uint64     `protobuf:"varint,5,opt,name=event_time,def=0" json:"event_time,omitempty"`
}

func (m *SingleMessageMetadata) Reset()         { *m = SingleMessageMetadata{} }
func (m *SingleMessageMetadata) String() string { return fmt.Sprintf("%+v", *m) }
func (*SingleMessageMetadata) ProtoMessage()    {}

func (m *SingleMessageMetadata) GetPartitionKey() string {
	if m != nil && m.PartitionKey != nil {
		return *m.PartitionKey
	}
	return ""
}
func (m *SingleMessageMetadata) GetPayloadSize() int32 {
	if m != nil && m.PayloadSize != nil {
		return *m.PayloadSize
	}
	return 0
}
func (m *SingleMessageMetadata) GetEventTime() uint64 {
	if m != nil && m.EventTime != nil {
		return *m.EventTime
	}
	return 0
}
func (m *SingleMessageMetadata) GetProperties() []*KeyValue {
	if m != nil {
		return m.Properties
	}
	return nil
}

type KeyValue struct {
	Key   *string `protobuf:"bytes,1,req,name=key" json:"key,omitempty"`
	Value *string `protobuf:"bytes,2,req,name=value" json:"value,omitempty"`
}

func (m *KeyValue) Reset()         { *m = KeyValue{} }
func (m *KeyValue) String() string { return fmt.Sprintf("%+v", *m) }
func (*KeyValue) ProtoMessage()    {}

func (m *KeyValue) GetKey() string {
	if m != nil && m.Key != nil {
		return *m.Key
	}
	return ""
}
func (m *KeyValue) GetValue() string {
	if m != nil && m.Value != nil {
		return *m.Value
	}
	return ""
}

type MessageIdData struct {
	LedgerId   *uint64 `protobuf:"varint,1,req,name=ledgerId" json:"ledgerId,omitempty"`
	EntryId    *uint64 `protobuf:"varint,2,req,name=entryId" json:"entryId,omitempty"`
	Partition  *int32  `protobuf:"varint,3,opt,name=partition,def=-1" json:"partition,omitempty"`
	BatchIndex *int32  `protobuf:"varint,4,opt,name=batch_index,def=-1" json:"batch_index,omitempty"`
}

func (m *MessageIdData) Reset()         { *m = MessageIdData{} }
func (m *MessageIdData) String() string { return fmt.Sprintf("%+v", *m) }
func (*MessageIdData) ProtoMessage()    {}

func (m *MessageIdData) GetLedgerId() uint64 {
	if m != nil && m.LedgerId != nil {
		return *m.LedgerId
	}
	return 0
}
func (m *MessageIdData) GetEntryId() uint64 {
	if m != nil && m.EntryId != nil {
		return *m.EntryId
	}
	return 0
}
func (m *MessageIdData) GetPartition() int32 {
	if m != nil && m.Partition != nil {
		return *m.Partition
	}
	return -1
}
func (m *MessageIdData) GetBatchIndex() int32 {
	if m != nil && m.BatchIndex != nil {
		return *m.BatchIndex
	}
	return -1
}

// --- SUCCESS / ERROR -------------------------------------------------------

type ServerError int32

const (
	ServerError_UnknownError            ServerError = 0
	ServerError_MetadataError            ServerError = 1
	ServerError_PersistenceError         ServerError = 2
	ServerError_AuthenticationError      ServerError = 3
	ServerError_AuthorizationError       ServerError = 4
	ServerError_ConsumerBusy             ServerError = 5
	ServerError_ServiceNotReady          ServerError = 6
	ServerError_ProducerBlockedQuotaExceededError ServerError = 7
	ServerError_TopicNotFound            ServerError = 8
	ServerError_SubscriptionNotFound     ServerError = 9
	ServerError_ConsumerNotFound         ServerError = 10
	ServerError_TooManyRequests          ServerError = 11
	ServerError_TopicTerminatedError     ServerError = 12
	ServerError_ChecksumError            ServerError = 15
)

func (s ServerError) Enum() *ServerError { return &s }

var serverErrorName = map[ServerError]string{
	ServerError_UnknownError:       "UnknownError",
	ServerError_MetadataError:      "MetadataError",
	ServerError_PersistenceError:   "PersistenceError",
	ServerError_AuthenticationError: "AuthenticationError",
	ServerError_AuthorizationError: "AuthorizationError",
	ServerError_ConsumerBusy:       "ConsumerBusy",
	ServerError_ServiceNotReady:    "ServiceNotReady",
	ServerError_TopicNotFound:      "TopicNotFound",
	ServerError_SubscriptionNotFound: "SubscriptionNotFound",
	ServerError_ConsumerNotFound:   "ConsumerNotFound",
	ServerError_TooManyRequests:    "TooManyRequests",
	ServerError_TopicTerminatedError: "TopicTerminatedError",
	ServerError_ChecksumError:      "ChecksumError",
}

func (s ServerError) String() string {
	if n, ok := serverErrorName[s]; ok {
		return n
	}
	return fmt.Sprintf("ServerError(%d)", int32(s))
}

// IsRetriable reports whether a ServerError represents a transient broker
// condition worth retrying, as opposed to a protocol-fatal rejection.
func (s ServerError) IsRetriable() bool {
	switch s {
	case ServerError_ServiceNotReady, ServerError_TooManyRequests, ServerError_ConsumerBusy:
		return true
	default:
		return false
	}
}

type CommandSuccess struct {
	RequestId *uint64 `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandSuccess) Reset()         { *m = CommandSuccess{} }
func (m *CommandSuccess) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandSuccess) ProtoMessage()    {}

func (m *CommandSuccess) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandError struct {
	RequestId *uint64      `protobuf:"varint,1,req,name=request_id" json:"request_id,omitempty"`
	Error     *ServerError `protobuf:"varint,2,req,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message   *string      `protobuf:"bytes,3,req,name=message" json:"message,omitempty"`
}

func (m *CommandError) Reset()         { *m = CommandError{} }
func (m *CommandError) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandError) ProtoMessage()    {}

func (m *CommandError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandError) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

// --- CLOSE / UNSUBSCRIBE / REACHED_END_OF_TOPIC ---------------------------

type CommandCloseConsumer struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseConsumer) Reset()         { *m = CommandCloseConsumer{} }
func (m *CommandCloseConsumer) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandCloseConsumer) ProtoMessage()    {}

func (m *CommandCloseConsumer) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandCloseConsumer) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandUnsubscribe struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandUnsubscribe) Reset()         { *m = CommandUnsubscribe{} }
func (m *CommandUnsubscribe) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandUnsubscribe) ProtoMessage()    {}

func (m *CommandUnsubscribe) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}
func (m *CommandUnsubscribe) GetRequestId() uint64 {
	if m != nil && m.RequestId != nil {
		return *m.RequestId
	}
	return 0
}

type CommandReachedEndOfTopic struct {
	ConsumerId *uint64 `protobuf:"varint,1,req,name=consumer_id" json:"consumer_id,omitempty"`
}

func (m *CommandReachedEndOfTopic) Reset()         { *m = CommandReachedEndOfTopic{} }
func (m *CommandReachedEndOfTopic) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandReachedEndOfTopic) ProtoMessage()    {}

func (m *CommandReachedEndOfTopic) GetConsumerId() uint64 {
	if m != nil && m.ConsumerId != nil {
		return *m.ConsumerId
	}
	return 0
}

// --- PRODUCER SEND ---------------------------------------------------------

type CommandSend struct {
	ProducerId  *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId  *uint64 `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	NumMessages *int32  `protobuf:"varint,3,opt,name=num_messages,def=1" json:"num_messages,omitempty"`
}

func (m *CommandSend) Reset()         { *m = CommandSend{} }
func (m *CommandSend) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandSend) ProtoMessage()    {}

type CommandSendReceipt struct {
	ProducerId *uint64        `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64        `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	MessageId  *MessageIdData `protobuf:"bytes,3,opt,name=message_id" json:"message_id,omitempty"`
}

func (m *CommandSendReceipt) Reset()         { *m = CommandSendReceipt{} }
func (m *CommandSendReceipt) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandSendReceipt) ProtoMessage()    {}

func (m *CommandSendReceipt) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}
func (m *CommandSendReceipt) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}
func (m *CommandSendReceipt) GetMessageId() *MessageIdData {
	if m != nil {
		return m.MessageId
	}
	return nil
}

type CommandSendError struct {
	ProducerId *uint64      `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	SequenceId *uint64      `protobuf:"varint,2,req,name=sequence_id" json:"sequence_id,omitempty"`
	Error      *ServerError `protobuf:"varint,3,req,name=error,enum=pulsar.proto.ServerError" json:"error,omitempty"`
	Message    *string      `protobuf:"bytes,4,req,name=message" json:"message,omitempty"`
}

func (m *CommandSendError) Reset()         { *m = CommandSendError{} }
func (m *CommandSendError) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandSendError) ProtoMessage()    {}

func (m *CommandSendError) GetError() ServerError {
	if m != nil && m.Error != nil {
		return *m.Error
	}
	return ServerError_UnknownError
}
func (m *CommandSendError) GetMessage() string {
	if m != nil && m.Message != nil {
		return *m.Message
	}
	return ""
}
func (m *CommandSendError) GetProducerId() uint64 {
	if m != nil && m.ProducerId != nil {
		return *m.ProducerId
	}
	return 0
}
func (m *CommandSendError) GetSequenceId() uint64 {
	if m != nil && m.SequenceId != nil {
		return *m.SequenceId
	}
	return 0
}

type CommandCloseProducer struct {
	ProducerId *uint64 `protobuf:"varint,1,req,name=producer_id" json:"producer_id,omitempty"`
	RequestId  *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandCloseProducer) Reset()         { *m = CommandCloseProducer{} }
func (m *CommandCloseProducer) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandCloseProducer) ProtoMessage()    {}

// --- PING / PONG ------------------------------------------------------------

type CommandPing struct{}

func (m *CommandPing) Reset()         { *m = CommandPing{} }
func (m *CommandPing) String() string { return "CommandPing{}" }
func (*CommandPing) ProtoMessage()    {}

type CommandPong struct{}

func (m *CommandPong) Reset()         { *m = CommandPong{} }
func (m *CommandPong) String() string { return "CommandPong{}" }
func (*CommandPong) ProtoMessage()    {}

// --- LOOKUP (kept minimal; real service discovery is out of scope here) ----

type CommandLookupTopic struct {
	Topic     *string `protobuf:"bytes,1,req,name=topic" json:"topic,omitempty"`
	RequestId *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandLookupTopic) Reset()         { *m = CommandLookupTopic{} }
func (m *CommandLookupTopic) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandLookupTopic) ProtoMessage()    {}

type CommandLookupTopicResponse struct {
	BrokerServiceUrl *string `protobuf:"bytes,1,opt,name=brokerServiceUrl" json:"brokerServiceUrl,omitempty"`
	RequestId        *uint64 `protobuf:"varint,2,req,name=request_id" json:"request_id,omitempty"`
}

func (m *CommandLookupTopicResponse) Reset()         { *m = CommandLookupTopicResponse{} }
func (m *CommandLookupTopicResponse) String() string { return fmt.Sprintf("%+v", *m) }
func (*CommandLookupTopicResponse) ProtoMessage()    {}
