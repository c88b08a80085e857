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

// Management message body
type Management struct {
	TargetPortIdentity   PortIdentity
	StartingBoundaryHops uint8
	BoundaryHops         uint8
	ActionField          Action
	// TLV is nil when message carries no management TLV
	TLV *ManagementTLV
}

// ManagementTLV carries management data or error status
type ManagementTLV struct {
	TLVType     TLVType
	LengthField uint16
	// ManagementID selects Data shape. For error status TLV it repeats ErrorStatus.RequestedID
	ManagementID ManagementID
	// Data is nil for requests without payload, for ids without data and for unsupported ids
	Data        ManagementData
	unsupported bool
}

// Supported reports whether TLV id was known to the registry when decoded
func (t *ManagementTLV) Supported() bool { return !t.unsupported }

// Release frees data owned by TLV
func (t *ManagementTLV) Release() {
	if t.Data != nil {
		t.Data.Release()
	}
}

// ManagementData is one record shape of management TLV. Implemented only by types of this package
type ManagementData interface {
	ManagementID() ManagementID
	encode(w *codec.Writer)
	decode(r *codec.Reader) error
	Release()
}

var managementHeadSchema = codec.Schema[Management]{
	portIdentityField("targetPortIdentity", func(m *Management) *PortIdentity { return &m.TargetPortIdentity }),
	codec.U8("startingBoundaryHops", func(m *Management) *uint8 { return &m.StartingBoundaryHops }),
	codec.U8("boundaryHops", func(m *Management) *uint8 { return &m.BoundaryHops }),
	codec.Nibbles("actionField", nil, func(m *Management) *uint8 { return (*uint8)(&m.ActionField) }),
	codec.Reserved[Management]("reserved", 1),
}

// MessageType implementation of Body
func (m *Management) MessageType() MessageType { return MessageManagement }

// Release implementation of Body
func (m *Management) Release() {
	if m.TLV != nil {
		m.TLV.Release()
	}
}

func (m *Management) encode(w *codec.Writer) error {
	managementHeadSchema.Encode(w, m)
	if m.TLV == nil {
		return nil
	}
	return m.TLV.encode(w)
}

func (m *Management) decode(r *codec.Reader) error {
	if err := managementHeadSchema.Decode(r, m); err != nil {
		return err
	}
	if r.Remaining() == 0 {
		return nil
	}
	start := r.Offset()
	if TLVType(r.Uint16()) == TLVAuthentication {
		r.Seek(start)
		return nil
	}
	r.Seek(start)
	tlv := &ManagementTLV{}
	if err := tlv.decode(r); err != nil {
		tlv.Release()
		return err
	}
	m.TLV = tlv
	return nil
}

func (t *ManagementTLV) encode(w *codec.Writer) error {
	start := w.Offset()
	w.Uint16(uint16(t.TLVType))
	w.Uint16(0)
	switch t.TLVType {
	case TLVManagement:
		w.Uint16(uint16(t.ManagementID))
		if t.Data != nil {
			if t.Data.ManagementID() != t.ManagementID {
				return fmt.Errorf("%w: data of 0x%04x in TLV with id 0x%04x", ErrInvalidTLV, uint16(t.Data.ManagementID()), uint16(t.ManagementID))
			}
			t.Data.encode(w)
		}
	case TLVManagementErrorStatus:
		status, ok := t.Data.(*ErrorStatus)
		if !ok {
			return fmt.Errorf("%w: error status TLV without ErrorStatus data", ErrInvalidTLV)
		}
		status.encode(w)
	default:
		return fmt.Errorf("%w: type 0x%04x in management message", ErrInvalidTLV, uint16(t.TLVType))
	}
	length := padTLV(w, start)
	t.LengthField = length
	return nil
}

func (t *ManagementTLV) decode(r *codec.Reader) error {
	t.TLVType = TLVType(r.Uint16())
	t.LengthField = r.Uint16()
	payload := r.Sub(int(t.LengthField))
	if err := r.Err(); err != nil {
		return fmt.Errorf("management TLV: %w", err)
	}
	switch t.TLVType {
	case TLVManagement:
		t.ManagementID = ManagementID(payload.Uint16())
		if err := payload.Err(); err != nil {
			return fmt.Errorf("managementId: %w", err)
		}
		entry, ok := managementRegistry[t.ManagementID]
		if !ok {
			t.unsupported = true
			return nil
		}
		if entry.factory == nil || payload.Remaining() == 0 {
			return nil
		}
		data := entry.factory()
		if err := data.decode(payload); err != nil {
			data.Release()
			return fmt.Errorf("%s: %w", entry.name, err)
		}
		t.Data = data
	case TLVManagementErrorStatus:
		status := &ErrorStatus{}
		if err := status.decode(payload); err != nil {
			status.Release()
			return fmt.Errorf("ERROR_STATUS: %w", err)
		}
		t.ManagementID = status.RequestedID
		t.Data = status
	default:
		t.unsupported = true
	}
	return nil
}

// padTLV appends pad octet for odd payload and patches length field of TLV started at start
func padTLV(w *codec.Writer, start int) uint16 {
	length := w.Offset() - start - TLVHeadLength
	if length%2 == 1 {
		w.Zero(1)
		length++
	}
	w.PutUint16At(start+2, uint16(length))
	return uint16(length)
}

// ManagementName returns registry name of management id
func ManagementName(id ManagementID) string {
	if entry, ok := managementRegistry[id]; ok {
		return entry.name
	}
	return fmt.Sprintf("UNKNOWN(0x%04x)", uint16(id))
}
