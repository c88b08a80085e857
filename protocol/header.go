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

// Header is the common 34 octet header of every PTP message
type Header struct {
	TransportSpecific  uint8
	MessageType        MessageType
	VersionPTP         uint8
	MessageLength      uint16
	DomainNumber       uint8
	FlagField          uint16
	CorrectionField    TimeInterval
	SourcePortIdentity PortIdentity
	SequenceID         uint16
	ControlField       uint8
	LogMessageInterval int8
}

// HasFlag reports whether every bit of flag is set
func (h *Header) HasFlag(flag uint16) bool {
	return h.FlagField&flag == flag
}

// SetFlag sets or clears flag bits
func (h *Header) SetFlag(flag uint16, on bool) {
	if on {
		h.FlagField |= flag
		return
	}
	h.FlagField &^= flag
}

var headerSchema = codec.Schema[Header]{
	codec.Nibbles("transportSpecific/messageType",
		func(h *Header) *uint8 { return &h.TransportSpecific },
		func(h *Header) *uint8 { return (*uint8)(&h.MessageType) }),
	codec.Nibbles("versionPTP", nil, func(h *Header) *uint8 { return &h.VersionPTP }),
	codec.U16("messageLength", func(h *Header) *uint16 { return &h.MessageLength }),
	codec.U8("domainNumber", func(h *Header) *uint8 { return &h.DomainNumber }),
	codec.Reserved[Header]("reserved", 1),
	codec.U16("flagField", func(h *Header) *uint16 { return &h.FlagField }),
	timeIntervalField("correctionField", func(h *Header) *TimeInterval { return &h.CorrectionField }),
	codec.Reserved[Header]("reserved", 4),
	portIdentityField("sourcePortIdentity", func(h *Header) *PortIdentity { return &h.SourcePortIdentity }),
	codec.U16("sequenceId", func(h *Header) *uint16 { return &h.SequenceID }),
	codec.U8("controlField", func(h *Header) *uint8 { return &h.ControlField }),
	codec.I8("logMessageInterval", func(h *Header) *int8 { return &h.LogMessageInterval }),
}

// DecodeHeader reads header from the first HeaderLength octets of buf
func DecodeHeader(buf []byte) (Header, error) {
	var header Header
	err := headerSchema.Decode(codec.NewReader(buf, HeaderLength), &header)
	return header, err
}

// PeekMessageType returns message type without decoding the rest of the header
func PeekMessageType(buf []byte) (MessageType, bool) {
	if len(buf) == 0 {
		return 0, false
	}
	return MessageType(codec.LowerNibble(buf[0])), true
}
