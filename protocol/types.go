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
	"time"

	"github.com/dragosmaftei/ptpd/codec"
)

// ClockIdentity is EUI-64 like clock identifier
type ClockIdentity [8]byte

// String formats identity the way ptp4l and pmc print it
func (c ClockIdentity) String() string {
	return fmt.Sprintf("%02x%02x%02x.%02x%02x.%02x%02x%02x", c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7])
}

// PortIdentity identifies a port of a clock
type PortIdentity struct {
	ClockIdentity ClockIdentity
	PortNumber    uint16
}

func (p PortIdentity) String() string {
	return fmt.Sprintf("%s-%d", p.ClockIdentity, p.PortNumber)
}

// MaxTimestampSeconds is the largest value of 48 bit seconds field
const MaxTimestampSeconds = 1<<48 - 1

// Timestamp with 48 bit seconds and 32 bit nanoseconds
type Timestamp struct {
	Seconds     uint64
	Nanoseconds uint32
}

// NewTimestamp converts time to PTP timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: uint64(t.Unix()) & MaxTimestampSeconds, Nanoseconds: uint32(t.Nanosecond())}
}

// Time converts timestamp to time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t.Seconds), int64(t.Nanoseconds))
}

// TimeInterval is nanoseconds multiplied by 2^16
type TimeInterval int64

// NewTimeInterval converts duration into scaled nanoseconds
func NewTimeInterval(d time.Duration) TimeInterval {
	return TimeInterval(int64(d) << 16)
}

// Nanoseconds returns interval in nanoseconds with fraction
func (t TimeInterval) Nanoseconds() float64 {
	return float64(t) / 65536.0
}

// ClockQuality of a clock
type ClockQuality struct {
	ClockClass              uint8
	ClockAccuracy           uint8
	OffsetScaledLogVariance uint16
}

// PortAddress is protocol address of a port
type PortAddress struct {
	NetworkProtocol uint16
	Address         []byte
}

// Release drops address buffer
func (p *PortAddress) Release() { p.Address = nil }

// PhysicalAddress is hardware address of a port
type PhysicalAddress struct {
	Address []byte
}

// Release drops address buffer
func (p *PhysicalAddress) Release() { p.Address = nil }

// MaxPTPTextLength is the most text one length octet can describe
const MaxPTPTextLength = 255

// PTPText is length prefixed text
type PTPText struct {
	Text []byte
}

// NewPTPText returns text truncated to MaxPTPTextLength
func NewPTPText(s string) PTPText {
	if len(s) > MaxPTPTextLength {
		s = s[:MaxPTPTextLength]
	}
	return PTPText{Text: []byte(s)}
}

func (t PTPText) String() string { return string(t.Text) }

// Release drops text buffer
func (t *PTPText) Release() { t.Text = nil }

var portIdentitySchema = codec.Schema[PortIdentity]{
	codec.Octets("clockIdentity", 8, func(v *PortIdentity) []byte { return v.ClockIdentity[:] }),
	codec.U16("portNumber", func(v *PortIdentity) *uint16 { return &v.PortNumber }),
}

var timestampSchema = codec.Schema[Timestamp]{
	codec.U48("secondsField", func(v *Timestamp) *uint64 { return &v.Seconds }),
	codec.U32("nanosecondsField", func(v *Timestamp) *uint32 { return &v.Nanoseconds }),
}

var clockQualitySchema = codec.Schema[ClockQuality]{
	codec.U8("clockClass", func(v *ClockQuality) *uint8 { return &v.ClockClass }),
	codec.U8("clockAccuracy", func(v *ClockQuality) *uint8 { return &v.ClockAccuracy }),
	codec.U16("offsetScaledLogVariance", func(v *ClockQuality) *uint16 { return &v.OffsetScaledLogVariance }),
}

func clockIdentityField[T any](name string, get func(*T) *ClockIdentity) codec.Field[T] {
	return codec.Octets(name, 8, func(v *T) []byte { return get(v)[:] })
}

func portIdentityField[T any](name string, get func(*T) *PortIdentity) codec.Field[T] {
	return codec.Nested(name, portIdentitySchema, get)
}

func timestampField[T any](name string, get func(*T) *Timestamp) codec.Field[T] {
	return codec.Nested(name, timestampSchema, get)
}

func clockQualityField[T any](name string, get func(*T) *ClockQuality) codec.Field[T] {
	return codec.Nested(name, clockQualitySchema, get)
}

func timeIntervalField[T any](name string, get func(*T) *TimeInterval) codec.Field[T] {
	return codec.I64(name, func(v *T) *int64 { return (*int64)(get(v)) })
}

func ptpTextField[T any](name string, get func(*T) *PTPText) codec.Field[T] {
	return codec.Field[T]{Name: name, Width: codec.VariableWidth,
		Encode: func(w *codec.Writer, rec *T) {
			text := get(rec).Text
			if len(text) > MaxPTPTextLength {
				text = text[:MaxPTPTextLength]
			}
			w.Uint8(uint8(len(text)))
			w.Write(text)
		},
		Decode: func(r *codec.Reader, rec *T) {
			length := r.Uint8()
			text := r.Bytes(int(length))
			if r.Err() == nil {
				get(rec).Text = text
			}
		},
	}
}

func physicalAddressField[T any](name string, get func(*T) *PhysicalAddress) codec.Field[T] {
	return codec.Field[T]{Name: name, Width: codec.VariableWidth,
		Encode: func(w *codec.Writer, rec *T) {
			address := get(rec).Address
			w.Uint16(uint16(len(address)))
			w.Write(address)
		},
		Decode: func(r *codec.Reader, rec *T) {
			length := r.Uint16()
			address := r.Bytes(int(length))
			if r.Err() == nil {
				get(rec).Address = address
			}
		},
	}
}

func portAddressField[T any](name string, get func(*T) *PortAddress) codec.Field[T] {
	return codec.Field[T]{Name: name, Width: codec.VariableWidth,
		Encode: func(w *codec.Writer, rec *T) {
			address := get(rec)
			w.Uint16(address.NetworkProtocol)
			w.Uint16(uint16(len(address.Address)))
			w.Write(address.Address)
		},
		Decode: func(r *codec.Reader, rec *T) {
			protocol := r.Uint16()
			length := r.Uint16()
			address := r.Bytes(int(length))
			if r.Err() == nil {
				*get(rec) = PortAddress{NetworkProtocol: protocol, Address: address}
			}
		},
	}
}
