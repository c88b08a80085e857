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

package security

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/dragosmaftei/ptpd/codec"
	"github.com/dragosmaftei/ptpd/protocol"
)

// TLVConstantLength is the length of type, length, SPP, keyID and secParamIndicator fields
const TLVConstantLength = 10

// SPIDisclosedKey bit of secParamIndicator marks a disclosed key between constant fields and ICV
const SPIDisclosedKey byte = 0x01

// Errors of security TLV processing
var (
	ErrMalformedSecurityTLV = fmt.Errorf("%w: malformed security TLV", codec.ErrFormat)
	ErrMissingSecurityTLV   = errors.New("security TLV expected")
	ErrICVMismatch          = errors.New("ICV mismatch")
)

// Params are values written into security TLV of one message
type Params struct {
	SPP   uint8
	KeyID uint32
	// Delayed marks TESLA processing. Delayed messages never cover correction field
	Delayed bool
	// ImmIgnoreCorrection excludes correction field in immediate mode
	ImmIgnoreCorrection bool
	DisclosedKey        []byte
}

func (p Params) ignoreCorrection() bool {
	return p.Delayed || p.ImmIgnoreCorrection
}

// TLV is decoded security TLV
type TLV struct {
	Offset       int
	LengthField  uint16
	SPP          uint8
	KeyID        uint32
	SPI          uint8
	DisclosedKey []byte
	ICV          []byte
}

// HasDisclosedKey reports whether SPI marks a disclosed key
func (t *TLV) HasDisclosedKey() bool { return t.SPI&SPIDisclosedKey != 0 }

// TLVLength returns total length of security TLV with type and length fields
func TLVLength(icvLength, disclosedKeyLength int) int {
	return TLVConstantLength + disclosedKeyLength + icvLength
}

func declaredLength(buf []byte) (int, error) {
	if len(buf) < protocol.HeaderLength {
		return 0, fmt.Errorf("%w: %d octets is shorter than header", codec.ErrInsufficientData, len(buf))
	}
	declared := int(binary.BigEndian.Uint16(buf[protocol.MessageLengthOffset:]))
	if declared < protocol.HeaderLength || declared > len(buf) {
		return 0, fmt.Errorf("%w: declared %d, received %d", protocol.ErrLengthMismatch, declared, len(buf))
	}
	return declared, nil
}

// zeroCorrection clears correction field of buf if ignore is set and returns function restoring it
func zeroCorrection(buf []byte, ignore bool) func() {
	if !ignore {
		return func() {}
	}
	field := buf[protocol.CorrectionFieldOffset : protocol.CorrectionFieldOffset+protocol.CorrectionFieldLength]
	var saved [protocol.CorrectionFieldLength]byte
	copy(saved[:], field)
	for i := range field {
		field[i] = 0
	}
	return func() { copy(field, saved[:]) }
}

// AddSecurityTLV returns copy of encoded message buf with security TLV appended, security flag set, message length
// grown and ICV calculated with key over everything preceding the ICV
func AddSecurityTLV(buf []byte, params Params, mac *MAC, key []byte) ([]byte, error) {
	declared, err := declaredLength(buf)
	if err != nil {
		return nil, err
	}
	tlvLength := TLVLength(mac.ICVLength(), len(params.DisclosedKey))
	total := declared + tlvLength
	if total > math.MaxUint16 {
		return nil, protocol.ErrMessageTooLong
	}
	spi := byte(0)
	if len(params.DisclosedKey) > 0 {
		spi |= SPIDisclosedKey
	}

	w := codec.NewWriter(total)
	w.Write(buf[:declared])
	w.Uint16(uint16(protocol.TLVAuthentication))
	w.Uint16(uint16(tlvLength - protocol.TLVHeadLength))
	w.Uint8(params.SPP)
	w.Uint32(params.KeyID)
	w.Uint8(spi)
	w.Write(params.DisclosedKey)
	icvOffset := w.Offset()
	w.Zero(mac.ICVLength())
	w.PutUint16At(protocol.MessageLengthOffset, uint16(total))
	out := w.Bytes()
	out[protocol.FlagFieldOffset] |= protocol.SecurityFlag

	restore := zeroCorrection(out, params.ignoreCorrection())
	err = mac.Sum(key, out[:icvOffset], out[icvOffset:])
	restore()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyICV reports whether trailing ICV of buf matches key. buf is left as it was given
func VerifyICV(buf []byte, params Params, mac *MAC, key []byte) bool {
	declared, err := declaredLength(buf)
	if err != nil {
		return false
	}
	icvOffset := declared - mac.ICVLength()
	if icvOffset < protocol.HeaderLength+TLVConstantLength {
		return false
	}
	restore := zeroCorrection(buf, params.ignoreCorrection())
	defer restore()
	return mac.Verify(key, buf[:icvOffset], buf[icvOffset:declared])
}

// ParseSecurityTLV decodes security TLV of buf. The TLV must end the message
func ParseSecurityTLV(buf []byte, icvLength int) (*TLV, error) {
	offset, ok, err := protocol.TLVOffset(buf, protocol.TLVAuthentication)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSecurityTLV, err)
	}
	if !ok {
		return nil, ErrMissingSecurityTLV
	}
	declared, err := declaredLength(buf)
	if err != nil {
		return nil, err
	}
	r := codec.NewReader(buf, declared)
	r.Seek(offset + 2)
	tlv := &TLV{Offset: offset}
	tlv.LengthField = r.Uint16()
	body := r.Sub(int(tlv.LengthField))
	tlv.SPP = body.Uint8()
	tlv.KeyID = body.Uint32()
	tlv.SPI = body.Uint8()
	if err := body.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSecurityTLV, err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d octets follow security TLV", ErrMalformedSecurityTLV, r.Remaining())
	}
	keyLength := body.Remaining() - icvLength
	if keyLength < 0 {
		return nil, fmt.Errorf("%w: length %d can't hold ICV", ErrMalformedSecurityTLV, tlv.LengthField)
	}
	if tlv.HasDisclosedKey() {
		tlv.DisclosedKey = body.Bytes(keyLength)
	} else {
		body.Skip(keyLength)
	}
	tlv.ICV = body.Bytes(icvLength)
	if err := body.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSecurityTLV, err)
	}
	return tlv, nil
}
