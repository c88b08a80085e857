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
	"fmt"

	"github.com/dragosmaftei/ptpd/codec"
)

// Signaling message body
type Signaling struct {
	TargetPortIdentity PortIdentity
	TLVs               []SignalingTLV
}

// SignalingTLV is one TLV of signaling message
type SignalingTLV struct {
	TLVType     TLVType
	LengthField uint16
	// Value is nil for unsupported TLV types
	Value SignalingValue
}

// Supported reports whether TLV type is known to the registry
func (t *SignalingTLV) Supported() bool { return t.Value != nil }

// SignalingValue is one value shape of signaling TLV. Implemented only by types of this package
type SignalingValue interface {
	TLVType() TLVType
	encode(w *codec.Writer)
	decode(r *codec.Reader) error
	Release()
}

type signalingEntry struct {
	name    string
	factory func() SignalingValue
}

var signalingRegistry = map[TLVType]signalingEntry{
	TLVRequestUnicastTransmission:           {"REQUEST_UNICAST_TRANSMISSION", func() SignalingValue { return &RequestUnicastTransmission{} }},
	TLVGrantUnicastTransmission:             {"GRANT_UNICAST_TRANSMISSION", func() SignalingValue { return &GrantUnicastTransmission{} }},
	TLVCancelUnicastTransmission:            {"CANCEL_UNICAST_TRANSMISSION", func() SignalingValue { return &CancelUnicastTransmission{} }},
	TLVAcknowledgeCancelUnicastTransmission: {"ACKNOWLEDGE_CANCEL_UNICAST_TRANSMISSION", func() SignalingValue { return &AcknowledgeCancelUnicastTransmission{} }},
}

// SignalingName returns registry name of TLV type
func SignalingName(tlvType TLVType) string {
	if entry, ok := signalingRegistry[tlvType]; ok {
		return entry.name
	}
	return fmt.Sprintf("UNKNOWN(0x%04x)", uint16(tlvType))
}

// RequestUnicastTransmission asks a master to grant unicast transmission of message type
type RequestUnicastTransmission struct {
	MessageType           MessageType
	LogInterMessagePeriod int8
	DurationField         uint32
}

// GrantUnicastTransmission answers unicast transmission request
type GrantUnicastTransmission struct {
	MessageType           MessageType
	LogInterMessagePeriod int8
	DurationField         uint32
	Renewal               bool
}

// CancelUnicastTransmission cancels granted transmission
type CancelUnicastTransmission struct {
	MessageType MessageType
}

// AcknowledgeCancelUnicastTransmission acknowledges cancellation
type AcknowledgeCancelUnicastTransmission struct {
	MessageType MessageType
}

var requestUnicastSchema = codec.Schema[RequestUnicastTransmission]{
	codec.Nibbles("messageType", func(v *RequestUnicastTransmission) *uint8 { return (*uint8)(&v.MessageType) }, nil),
	codec.I8("logInterMessagePeriod", func(v *RequestUnicastTransmission) *int8 { return &v.LogInterMessagePeriod }),
	codec.U32("durationField", func(v *RequestUnicastTransmission) *uint32 { return &v.DurationField }),
}

var grantUnicastSchema = codec.Schema[GrantUnicastTransmission]{
	codec.Nibbles("messageType", func(v *GrantUnicastTransmission) *uint8 { return (*uint8)(&v.MessageType) }, nil),
	codec.I8("logInterMessagePeriod", func(v *GrantUnicastTransmission) *int8 { return &v.LogInterMessagePeriod }),
	codec.U32("durationField", func(v *GrantUnicastTransmission) *uint32 { return &v.DurationField }),
	codec.Reserved[GrantUnicastTransmission]("reserved", 1),
	codec.Flags("renewal", codec.Bit[GrantUnicastTransmission]{Mask: 0x01, Get: func(v *GrantUnicastTransmission) *bool { return &v.Renewal }}),
}

var cancelUnicastSchema = codec.Schema[CancelUnicastTransmission]{
	codec.Nibbles("messageType", func(v *CancelUnicastTransmission) *uint8 { return (*uint8)(&v.MessageType) }, nil),
	codec.Reserved[CancelUnicastTransmission]("reserved", 1),
}

var acknowledgeCancelUnicastSchema = codec.Schema[AcknowledgeCancelUnicastTransmission]{
	codec.Nibbles("messageType", func(v *AcknowledgeCancelUnicastTransmission) *uint8 { return (*uint8)(&v.MessageType) }, nil),
	codec.Reserved[AcknowledgeCancelUnicastTransmission]("reserved", 1),
}

// TLVType implementation of SignalingValue
func (v *RequestUnicastTransmission) TLVType() TLVType       { return TLVRequestUnicastTransmission }
func (v *RequestUnicastTransmission) encode(w *codec.Writer) { requestUnicastSchema.Encode(w, v) }
func (v *RequestUnicastTransmission) decode(r *codec.Reader) error {
	return requestUnicastSchema.Decode(r, v)
}
func (v *RequestUnicastTransmission) Release() {}

// TLVType implementation of SignalingValue
func (v *GrantUnicastTransmission) TLVType() TLVType       { return TLVGrantUnicastTransmission }
func (v *GrantUnicastTransmission) encode(w *codec.Writer) { grantUnicastSchema.Encode(w, v) }
func (v *GrantUnicastTransmission) decode(r *codec.Reader) error {
	return grantUnicastSchema.Decode(r, v)
}
func (v *GrantUnicastTransmission) Release() {}

// TLVType implementation of SignalingValue
func (v *CancelUnicastTransmission) TLVType() TLVType       { return TLVCancelUnicastTransmission }
func (v *CancelUnicastTransmission) encode(w *codec.Writer) { cancelUnicastSchema.Encode(w, v) }
func (v *CancelUnicastTransmission) decode(r *codec.Reader) error {
	return cancelUnicastSchema.Decode(r, v)
}
func (v *CancelUnicastTransmission) Release() {}

// TLVType implementation of SignalingValue
func (v *AcknowledgeCancelUnicastTransmission) TLVType() TLVType {
	return TLVAcknowledgeCancelUnicastTransmission
}
func (v *AcknowledgeCancelUnicastTransmission) encode(w *codec.Writer) {
	acknowledgeCancelUnicastSchema.Encode(w, v)
}
func (v *AcknowledgeCancelUnicastTransmission) decode(r *codec.Reader) error {
	return acknowledgeCancelUnicastSchema.Decode(r, v)
}
func (v *AcknowledgeCancelUnicastTransmission) Release() {}

var signalingHeadSchema = codec.Schema[Signaling]{
	portIdentityField("targetPortIdentity", func(m *Signaling) *PortIdentity { return &m.TargetPortIdentity }),
}

// MessageType implementation of Body
func (m *Signaling) MessageType() MessageType { return MessageSignaling }

// Release implementation of Body
func (m *Signaling) Release() {
	for i := range m.TLVs {
		if m.TLVs[i].Value != nil {
			m.TLVs[i].Value.Release()
		}
	}
}

func (m *Signaling) encode(w *codec.Writer) error {
	signalingHeadSchema.Encode(w, m)
	for i := range m.TLVs {
		tlv := &m.TLVs[i]
		if tlv.Value == nil {
			return fmt.Errorf("%w: signaling TLV 0x%04x without value", ErrInvalidTLV, uint16(tlv.TLVType))
		}
		tlv.TLVType = tlv.Value.TLVType()
		start := w.Offset()
		w.Uint16(uint16(tlv.TLVType))
		w.Uint16(0)
		tlv.Value.encode(w)
		tlv.LengthField = padTLV(w, start)
	}
	return nil
}

func (m *Signaling) decode(r *codec.Reader) error {
	if err := signalingHeadSchema.Decode(r, m); err != nil {
		return err
	}
	for r.Remaining() > 0 {
		start := r.Offset()
		tlv := SignalingTLV{TLVType: TLVType(r.Uint16())}
		if tlv.TLVType == TLVAuthentication && r.Err() == nil {
			r.Seek(start)
			break
		}
		tlv.LengthField = r.Uint16()
		payload := r.Sub(int(tlv.LengthField))
		if err := r.Err(); err != nil {
			m.Release()
			return fmt.Errorf("signaling TLV at offset %d: %w", start, err)
		}
		if entry, ok := signalingRegistry[tlv.TLVType]; ok {
			value := entry.factory()
			if err := value.decode(payload); err != nil {
				value.Release()
				m.Release()
				return fmt.Errorf("%s: %w", entry.name, err)
			}
			tlv.Value = value
		}
		m.TLVs = append(m.TLVs, tlv)
	}
	return nil
}
