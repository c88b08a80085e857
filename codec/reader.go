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
	"fmt"
)

// Reader reads big-endian fields from a received buffer. Every read passes Guard first; the first failure is kept and
// all following reads return zero values without touching the buffer.
type Reader struct {
	buf      []byte
	declared int
	pos      int
	err      error
}

// NewReader returns reader over buf limited by the length declared inside the message
func NewReader(buf []byte, declared int) *Reader {
	return &Reader{buf: buf, declared: declared}
}

// Err returns first failure or nil
func (r *Reader) Err() error { return r.err }

// Offset returns absolute offset of next read
func (r *Reader) Offset() int { return r.pos }

// Limit returns end of readable region
func (r *Reader) Limit() int {
	if r.declared < len(r.buf) {
		return r.declared
	}
	return len(r.buf)
}

// Remaining returns count of bytes that may still be read
func (r *Reader) Remaining() int {
	if n := r.Limit() - r.pos; n > 0 {
		return n
	}
	return 0
}

// Fail stores err as reader failure if nothing failed before
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(size int) []byte {
	if r.err != nil {
		return nil
	}
	if !Guard(len(r.buf), r.declared, r.pos, size) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, declared length %d, buffer length %d",
			ErrInsufficientData, size, r.pos, r.declared, len(r.buf))
		return nil
	}
	b := r.buf[r.pos : r.pos+size]
	r.pos += size
	return b
}

// Check verifies that size bytes are readable without consuming them
func (r *Reader) Check(size int) bool {
	if r.err != nil {
		return false
	}
	if !Guard(len(r.buf), r.declared, r.pos, size) {
		r.take(size)
		return false
	}
	return true
}

// Seek moves to absolute offset. Moving outside of readable region fails the reader
func (r *Reader) Seek(offset int) {
	if r.err != nil {
		return
	}
	if !Guard(len(r.buf), r.declared, offset, 0) {
		r.err = fmt.Errorf("%w: seek to %d outside declared length %d", ErrInsufficientData, offset, r.declared)
		return
	}
	r.pos = offset
}

// Skip consumes n bytes
func (r *Reader) Skip(n int) { r.take(n) }

// Sub returns reader over next size bytes and advances past them. The sub reader keeps absolute offsets
func (r *Reader) Sub(size int) *Reader {
	start := r.pos
	r.take(size)
	if r.err != nil {
		return &Reader{buf: r.buf, declared: start, pos: start, err: r.err}
	}
	return &Reader{buf: r.buf, declared: start + size, pos: start}
}

// Uint8 reads one octet
func (r *Reader) Uint8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

// Int8 reads one signed octet
func (r *Reader) Int8() int8 { return int8(r.Uint8()) }

// Bool reads one octet and returns bit 0
func (r *Reader) Bool() bool { return r.Uint8()&0x01 != 0 }

// Uint16 reads big-endian uint16
func (r *Reader) Uint16() uint16 {
	if b := r.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

// Int16 reads big-endian int16
func (r *Reader) Int16() int16 { return int16(r.Uint16()) }

// Uint32 reads big-endian uint32
func (r *Reader) Uint32() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

// Int32 reads big-endian int32
func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

// Uint48 reads 16 bit high part and 32 bit low part
func (r *Reader) Uint48() uint64 {
	if b := r.take(6); b != nil {
		return uint64(binary.BigEndian.Uint16(b))<<32 | uint64(binary.BigEndian.Uint32(b[2:]))
	}
	return 0
}

// Uint64 reads big-endian uint64
func (r *Reader) Uint64() uint64 {
	if b := r.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

// Int64 reads big-endian int64
func (r *Reader) Int64() int64 { return int64(r.Uint64()) }

// ReadInto fills dst from the buffer. dst stays untouched on failure
func (r *Reader) ReadInto(dst []byte) bool {
	b := r.take(len(dst))
	if r.err != nil {
		return false
	}
	copy(dst, b)
	return true
}

// Bytes returns copy of next n bytes or nil for zero n. Lengths above MaxFieldLength fail with ErrAllocation
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > MaxFieldLength {
		r.err = fmt.Errorf("%w: %d bytes", ErrAllocation, n)
		return nil
	}
	if n < 0 {
		r.err = fmt.Errorf("%w: negative length %d", ErrFormat, n)
		return nil
	}
	b := r.take(n)
	if r.err != nil || n == 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
