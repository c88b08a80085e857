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

package codec

import (
	"encoding/binary"
)

// Writer appends big-endian fields to a growing buffer. Reserved space is always zeroed
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns writer with preallocated capacity
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns everything written so far
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns length of written data
func (w *Writer) Len() int { return len(w.buf) }

// Offset returns absolute offset of next write
func (w *Writer) Offset() int { return w.pos }

// Seek moves to absolute offset, growing the buffer with zeroes if needed
func (w *Writer) Seek(offset int) {
	if offset > len(w.buf) {
		w.grow(offset - len(w.buf))
	}
	w.pos = offset
}

func (w *Writer) grow(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

func (w *Writer) reserve(n int) []byte {
	if end := w.pos + n; end > len(w.buf) {
		w.grow(end - len(w.buf))
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b
}

// Uint8 writes one octet
func (w *Writer) Uint8(v uint8) { w.reserve(1)[0] = v }

// Int8 writes one signed octet
func (w *Writer) Int8(v int8) { w.Uint8(uint8(v)) }

// Bool writes one octet with bit 0 set for true
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
		return
	}
	w.Uint8(0)
}

// Nibbles writes two 4-bit values into one octet
func (w *Writer) Nibbles(upper, lower uint8) {
	w.Uint8(SetLowerNibble(SetUpperNibble(0, upper), lower))
}

// Uint16 writes big-endian uint16
func (w *Writer) Uint16(v uint16) { binary.BigEndian.PutUint16(w.reserve(2), v) }

// Int16 writes big-endian int16
func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

// Uint32 writes big-endian uint32
func (w *Writer) Uint32(v uint32) { binary.BigEndian.PutUint32(w.reserve(4), v) }

// Int32 writes big-endian int32
func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

// Uint48 writes lower 48 bits of v as 16 bit high part and 32 bit low part
func (w *Writer) Uint48(v uint64) {
	b := w.reserve(6)
	binary.BigEndian.PutUint16(b, uint16(v>>32))
	binary.BigEndian.PutUint32(b[2:], uint32(v))
}

// Uint64 writes big-endian uint64
func (w *Writer) Uint64(v uint64) { binary.BigEndian.PutUint64(w.reserve(8), v) }

// Int64 writes big-endian int64
func (w *Writer) Int64(v int64) { w.Uint64(uint64(v)) }

// Write copies data
func (w *Writer) Write(data []byte) { copy(w.reserve(len(data)), data) }

// Zero writes n zero octets
func (w *Writer) Zero(n int) {
	b := w.reserve(n)
	for i := range b {
		b[i] = 0
	}
}

// PutUint16At overwrites two octets at absolute offset without moving
func (w *Writer) PutUint16At(offset int, v uint16) {
	pos := w.pos
	w.Seek(offset)
	w.Uint16(v)
	w.pos = pos
}
