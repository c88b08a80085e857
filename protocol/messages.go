/*
Copyright 2026, The ptpd Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import (
	"github.com/dragosmaftei/ptpd/codec"
)

// Body is message specific part following the header. Implemented only by types of this package
type Body interface {
	MessageType() MessageType
	encode(w *codec.Writer) error
	decode(r *codec.Reader) error
	// Release drops buffers owned by the body. Calling it more than once is safe
	Release()
}

// Sync message body
type Sync struct {
	OriginTimestamp Timestamp
}

// DelayReq message body
type DelayReq struct {
	OriginTimestamp Timestamp
}

// FollowUp message body
type FollowUp struct {
	PreciseOriginTimestamp Timestamp
}

// DelayResp message body
type DelayResp struct {
	ReceiveTimestamp       Timestamp
	RequestingPortIdentity PortIdentity
}

// PdelayReq message body
type PdelayReq struct {
	OriginTimestamp Timestamp
}

// PdelayResp message body
type PdelayResp struct {
	RequestReceiptTimestamp Timestamp
	RequestingPortIdentity  PortIdentity
}

// PdelayRespFollowUp message body
type PdelayRespFollowUp struct {
	ResponseOriginTimestamp Timestamp
	RequestingPortIdentity  PortIdentity
}

// Announce message body
type Announce struct {
	OriginTimestamp         Timestamp
	CurrentUtcOffset        int16
	GrandmasterPriority1    uint8
	GrandmasterClockQuality ClockQuality
	GrandmasterPriority2    uint8
	GrandmasterIdentity     ClockIdentity
	StepsRemoved            uint16
	TimeSource              TimeSource
}

var syncSchema = codec.Schema[Sync]{
	timestampField("originTimestamp", func(m *Sync) *Timestamp { return &m.OriginTimestamp }),
}

var delayReqSchema = codec.Schema[DelayReq]{
	timestampField("originTimestamp", func(m *DelayReq) *Timestamp { return &m.OriginTimestamp }),
}

var followUpSchema = codec.Schema[FollowUp]{
	timestampField("preciseOriginTimestamp", func(m *FollowUp) *Timestamp { return &m.PreciseOriginTimestamp }),
}

var delayRespSchema = codec.Schema[DelayResp]{
	timestampField("receiveTimestamp", func(m *DelayResp) *Timestamp { return &m.ReceiveTimestamp }),
	portIdentityField("requestingPortIdentity", func(m *DelayResp) *PortIdentity { return &m.RequestingPortIdentity }),
}

var pdelayReqSchema = codec.Schema[PdelayReq]{
	timestampField("originTimestamp", func(m *PdelayReq) *Timestamp { return &m.OriginTimestamp }),
	codec.Reserved[PdelayReq]("reserved", 10),
}

var pdelayRespSchema = codec.Schema[PdelayResp]{
	timestampField("requestReceiptTimestamp", func(m *PdelayResp) *Timestamp { return &m.RequestReceiptTimestamp }),
	portIdentityField("requestingPortIdentity", func(m *PdelayResp) *PortIdentity { return &m.RequestingPortIdentity }),
}

var pdelayRespFollowUpSchema = codec.Schema[PdelayRespFollowUp]{
	timestampField("responseOriginTimestamp", func(m *PdelayRespFollowUp) *Timestamp { return &m.ResponseOriginTimestamp }),
	portIdentityField("requestingPortIdentity", func(m *PdelayRespFollowUp) *PortIdentity { return &m.RequestingPortIdentity }),
}

var announceSchema = codec.Schema[Announce]{
	timestampField("originTimestamp", func(m *Announce) *Timestamp { return &m.OriginTimestamp }),
	codec.I16("currentUtcOffset", func(m *Announce) *int16 { return &m.CurrentUtcOffset }),
	codec.Reserved[Announce]("reserved", 1),
	codec.U8("grandmasterPriority1", func(m *Announce) *uint8 { return &m.GrandmasterPriority1 }),
	clockQualityField("grandmasterClockQuality", func(m *Announce) *ClockQuality { return &m.GrandmasterClockQuality }),
	codec.U8("grandmasterPriority2", func(m *Announce) *uint8 { return &m.GrandmasterPriority2 }),
	clockIdentityField("grandmasterIdentity", func(m *Announce) *ClockIdentity { return &m.GrandmasterIdentity }),
	codec.U16("stepsRemoved", func(m *Announce) *uint16 { return &m.StepsRemoved }),
	codec.U8("timeSource", func(m *Announce) *uint8 { return (*uint8)(&m.TimeSource) }),
}

// MessageType implementation of Body
func (m *Sync) MessageType() MessageType { return MessageSync }

func (m *Sync) encode(w *codec.Writer) error { syncSchema.Encode(w, m); return nil }
func (m *Sync) decode(r *codec.Reader) error { return syncSchema.Decode(r, m) }

// Release implementation of Body
func (m *Sync) Release() {}

// MessageType implementation of Body
func (m *DelayReq) MessageType() MessageType { return MessageDelayReq }

func (m *DelayReq) encode(w *codec.Writer) error { delayReqSchema.Encode(w, m); return nil }
func (m *DelayReq) decode(r *codec.Reader) error { return delayReqSchema.Decode(r, m) }

// Release implementation of Body
func (m *DelayReq) Release() {}

// MessageType implementation of Body
func (m *FollowUp) MessageType() MessageType { return MessageFollowUp }

func (m *FollowUp) encode(w *codec.Writer) error { followUpSchema.Encode(w, m); return nil }
func (m *FollowUp) decode(r *codec.Reader) error { return followUpSchema.Decode(r, m) }

// Release implementation of Body
func (m *FollowUp) Release() {}

// MessageType implementation of Body
func (m *DelayResp) MessageType() MessageType { return MessageDelayResp }

func (m *DelayResp) encode(w *codec.Writer) error { delayRespSchema.Encode(w, m); return nil }
func (m *DelayResp) decode(r *codec.Reader) error { return delayRespSchema.Decode(r, m) }

// Release implementation of Body
func (m *DelayResp) Release() {}

// MessageType implementation of Body
func (m *PdelayReq) MessageType() MessageType { return MessagePdelayReq }

func (m *PdelayReq) encode(w *codec.Writer) error { pdelayReqSchema.Encode(w, m); return nil }
func (m *PdelayReq) decode(r *codec.Reader) error { return pdelayReqSchema.Decode(r, m) }

// Release implementation of Body
func (m *PdelayReq) Release() {}

// MessageType implementation of Body
func (m *PdelayResp) MessageType() MessageType { return MessagePdelayResp }

func (m *PdelayResp) encode(w *codec.Writer) error { pdelayRespSchema.Encode(w, m); return nil }
func (m *PdelayResp) decode(r *codec.Reader) error { return pdelayRespSchema.Decode(r, m) }

// Release implementation of Body
func (m *PdelayResp) Release() {}

// MessageType implementation of Body
func (m *PdelayRespFollowUp) MessageType() MessageType { return MessagePdelayRespFollowUp }

func (m *PdelayRespFollowUp) encode(w *codec.Writer) error {
	pdelayRespFollowUpSchema.Encode(w, m)
	return nil
}
func (m *PdelayRespFollowUp) decode(r *codec.Reader) error {
	return pdelayRespFollowUpSchema.Decode(r, m)
}

// Release implementation of Body
func (m *PdelayRespFollowUp) Release() {}

// MessageType implementation of Body
func (m *Announce) MessageType() MessageType { return MessageAnnounce }

func (m *Announce) encode(w *codec.Writer) error { announceSchema.Encode(w, m); return nil }
func (m *Announce) decode(r *codec.Reader) error { return announceSchema.Decode(r, m) }

// Release implementation of Body
func (m *Announce) Release() {}

// newBody returns empty body for message type or nil for unknown types
func newBody(messageType MessageType) Body {
	switch messageType {
	case MessageSync:
		return &Sync{}
	case MessageDelayReq:
		return &DelayReq{}
	case MessageFollowUp:
		return &FollowUp{}
	case MessageDelayResp:
		return &DelayResp{}
	case MessagePdelayReq:
		return &PdelayReq{}
	case MessagePdelayResp:
		return &PdelayResp{}
	case MessagePdelayRespFollowUp:
		return &PdelayRespFollowUp{}
	case MessageAnnounce:
		return &Announce{}
	case MessageSignaling:
		return &Signaling{}
	case MessageManagement:
		return &Management{}
	}
	return nil
}

// BodyLength returns length of header and fixed body part of message type, or 0 for unknown type
func BodyLength(messageType MessageType) int {
	switch messageType {
	case MessageSync, MessageDelayReq, MessageFollowUp:
		return SyncLength
	case MessageDelayResp, MessagePdelayReq, MessagePdelayResp, MessagePdelayRespFollowUp:
		return DelayRespLength
	case MessageAnnounce:
		return AnnounceLength
	case MessageSignaling:
		return SignalingLength
	case MessageManagement:
		return ManagementLength
	}
	return 0
}

// ControlField returns control field value for message type
func ControlField(messageType MessageType) uint8 {
	switch messageType {
	case MessageSync:
		return ControlSync
	case MessageDelayReq:
		return ControlDelayReq
	case MessageFollowUp:
		return ControlFollowUp
	case MessageDelayResp:
		return ControlDelayResp
	case MessageManagement:
		return ControlManagement
	}
	return ControlOther
}
