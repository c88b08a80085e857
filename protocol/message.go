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

// Package protocol implements IEEE 1588 v2 message codec: common header, message bodies, derived data types and
// management/signaling TLV registries.
package protocol

import (
	"fmt"
	"math"

	"github.com/dragosmaftei/ptpd/codec"
)

// Message is decoded PTP message. Body type matches Header.MessageType
type Message struct {
	Header Header
	Body   Body
}

// Release frees buffers owned by message body
func (m *Message) Release() {
	if m.Body != nil {
		m.Body.Release()
	}
}

// UnsupportedTLVs returns count of TLVs skipped because their type or id is unknown
func (m *Message) UnsupportedTLVs() int {
	count := 0
	switch body := m.Body.(type) {
	case *Management:
		if body.TLV != nil && !body.TLV.Supported() {
			count++
		}
	case *Signaling:
		for i := range body.TLVs {
			if !body.TLVs[i].Supported() {
				count++
			}
		}
	}
	return count
}

// Marshal encodes message. Header MessageType is taken from body and MessageLength is computed; other header fields
// are written as given
func Marshal(m *Message) ([]byte, error) {
	if m.Body == nil {
		return nil, ErrMissingBody
	}
	m.Header.MessageType = m.Body.MessageType()
	w := codec.NewWriter(AnnounceLength)
	w.Seek(HeaderLength)
	if err := m.Body.encode(w); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Header.MessageType, err)
	}
	if w.Len() > math.MaxUint16 {
		return nil, ErrMessageTooLong
	}
	m.Header.MessageLength = uint16(w.Len())
	w.Seek(0)
	headerSchema.Encode(w, &m.Header)
	return w.Bytes(), nil
}

// Unmarshal decodes message from buf. Header declared length is trusted only if buf holds that many octets
func Unmarshal(buf []byte) (*Message, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	declared := int(header.MessageLength)
	if declared > len(buf) {
		return nil, fmt.Errorf("%w: declared %d, received %d", ErrLengthMismatch, declared, len(buf))
	}
	body := newBody(header.MessageType)
	if body == nil {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMessageType, uint8(header.MessageType))
	}
	if declared < BodyLength(header.MessageType) {
		return nil, fmt.Errorf("%w: %s requires %d octets, declared %d", ErrLengthMismatch, header.MessageType, BodyLength(header.MessageType), declared)
	}
	r := codec.NewReader(buf, declared)
	r.Seek(HeaderLength)
	if err := body.decode(r); err != nil {
		body.Release()
		return nil, fmt.Errorf("%s: %w", header.MessageType, err)
	}
	return &Message{Header: header, Body: body}, nil
}

// TLVOffset returns absolute offset of first TLV with tlvType following the fixed body of message in buf, walking
// TLVs up to the declared message length. ok is false if no such TLV exists; err reports malformed TLV chain
func TLVOffset(buf []byte, tlvType TLVType) (offset int, ok bool, err error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return 0, false, err
	}
	bodyLength := BodyLength(header.MessageType)
	if bodyLength == 0 {
		return 0, false, fmt.Errorf("%w: 0x%x", ErrUnknownMessageType, uint8(header.MessageType))
	}
	r := codec.NewReader(buf, int(header.MessageLength))
	r.Seek(bodyLength)
	for r.Remaining() > 0 {
		start := r.Offset()
		current := TLVType(r.Uint16())
		length := r.Uint16()
		if r.Err() != nil {
			return 0, false, r.Err()
		}
		if current == tlvType {
			return start, true, nil
		}
		r.Skip(int(length))
		if r.Err() != nil {
			return 0, false, r.Err()
		}
	}
	if r.Err() != nil {
		return 0, false, r.Err()
	}
	return 0, false, nil
}
