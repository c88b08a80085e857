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
	"fmt"
)

// VariableWidth marks fields whose size depends on their content
const VariableWidth = -1

// Field describes one wire field of record T
type Field[T any] struct {
	Name   string
	Width  int
	Encode func(w *Writer, rec *T)
	Decode func(r *Reader, rec *T)
}

// Schema is an ordered list of fields processed by one encode and one decode routine
type Schema[T any] []Field[T]

// Encode writes every field of rec in order
func (s Schema[T]) Encode(w *Writer, rec *T) {
	for _, field := range s {
		field.Encode(w, rec)
	}
}

// Decode reads every field into rec in order and stops at the first failed field
func (s Schema[T]) Decode(r *Reader, rec *T) error {
	for _, field := range s {
		field.Decode(r, rec)
		if err := r.Err(); err != nil {
			return fmt.Errorf("%s: %w", field.Name, err)
		}
	}
	return nil
}

// Width returns encoded size or VariableWidth if any field is variable
func (s Schema[T]) Width() int {
	total := 0
	for _, field := range s {
		if field.Width == VariableWidth {
			return VariableWidth
		}
		total += field.Width
	}
	return total
}

func set[V any](r *Reader, dst *V, v V) {
	if r.Err() == nil {
		*dst = v
	}
}

// U8 describes unsigned octet field
func U8[T any](name string, get func(*T) *uint8) Field[T] {
	return Field[T]{Name: name, Width: 1,
		Encode: func(w *Writer, rec *T) { w.Uint8(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Uint8()) },
	}
}

// I8 describes signed octet field
func I8[T any](name string, get func(*T) *int8) Field[T] {
	return Field[T]{Name: name, Width: 1,
		Encode: func(w *Writer, rec *T) { w.Int8(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Int8()) },
	}
}

// Bool describes one octet boolean field
func Bool[T any](name string, get func(*T) *bool) Field[T] {
	return Field[T]{Name: name, Width: 1,
		Encode: func(w *Writer, rec *T) { w.Bool(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Bool()) },
	}
}

// U16 describes big-endian uint16 field
func U16[T any](name string, get func(*T) *uint16) Field[T] {
	return Field[T]{Name: name, Width: 2,
		Encode: func(w *Writer, rec *T) { w.Uint16(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Uint16()) },
	}
}

// I16 describes big-endian int16 field
func I16[T any](name string, get func(*T) *int16) Field[T] {
	return Field[T]{Name: name, Width: 2,
		Encode: func(w *Writer, rec *T) { w.Int16(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Int16()) },
	}
}

// U32 describes big-endian uint32 field
func U32[T any](name string, get func(*T) *uint32) Field[T] {
	return Field[T]{Name: name, Width: 4,
		Encode: func(w *Writer, rec *T) { w.Uint32(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Uint32()) },
	}
}

// I32 describes big-endian int32 field
func I32[T any](name string, get func(*T) *int32) Field[T] {
	return Field[T]{Name: name, Width: 4,
		Encode: func(w *Writer, rec *T) { w.Int32(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Int32()) },
	}
}

// U48 describes 48 bit unsigned field
func U48[T any](name string, get func(*T) *uint64) Field[T] {
	return Field[T]{Name: name, Width: 6,
		Encode: func(w *Writer, rec *T) { w.Uint48(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Uint48()) },
	}
}

// U64 describes big-endian uint64 field
func U64[T any](name string, get func(*T) *uint64) Field[T] {
	return Field[T]{Name: name, Width: 8,
		Encode: func(w *Writer, rec *T) { w.Uint64(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Uint64()) },
	}
}

// I64 describes big-endian int64 field
func I64[T any](name string, get func(*T) *int64) Field[T] {
	return Field[T]{Name: name, Width: 8,
		Encode: func(w *Writer, rec *T) { w.Int64(*get(rec)) },
		Decode: func(r *Reader, rec *T) { set(r, get(rec), r.Int64()) },
	}
}

// Reserved describes n octets written as zero and skipped on decode
func Reserved[T any](name string, n int) Field[T] {
	return Field[T]{Name: name, Width: n,
		Encode: func(w *Writer, _ *T) { w.Zero(n) },
		Decode: func(r *Reader, _ *T) { r.Skip(n) },
	}
}

// Octets describes fixed size octet array; get must return a slice backed by the record
func Octets[T any](name string, n int, get func(*T) []byte) Field[T] {
	return Field[T]{Name: name, Width: n,
		Encode: func(w *Writer, rec *T) {
			b := get(rec)
			if len(b) >= n {
				w.Write(b[:n])
				return
			}
			w.Write(b)
			w.Zero(n - len(b))
		},
		Decode: func(r *Reader, rec *T) { r.ReadInto(get(rec)[:n]) },
	}
}

// Nibbles describes one octet carrying two 4-bit values. Nil accessor marks reserved nibble
func Nibbles[T any](name string, upper, lower func(*T) *uint8) Field[T] {
	return Field[T]{Name: name, Width: 1,
		Encode: func(w *Writer, rec *T) {
			var hi, lo uint8
			if upper != nil {
				hi = *upper(rec)
			}
			if lower != nil {
				lo = *lower(rec)
			}
			w.Nibbles(hi, lo)
		},
		Decode: func(r *Reader, rec *T) {
			b := r.Uint8()
			if r.Err() != nil {
				return
			}
			if upper != nil {
				*upper(rec) = UpperNibble(b)
			}
			if lower != nil {
				*lower(rec) = LowerNibble(b)
			}
		},
	}
}

// Bit binds one mask of a flag octet to a boolean of the record
type Bit[T any] struct {
	Mask byte
	Get  func(*T) *bool
}

// Flags describes one octet of independent boolean bits. Unlisted bits are written as zero
func Flags[T any](name string, bits ...Bit[T]) Field[T] {
	return Field[T]{Name: name, Width: 1,
		Encode: func(w *Writer, rec *T) {
			var b byte
			for _, bit := range bits {
				b = SetFlag(b, bit.Mask, *bit.Get(rec))
			}
			w.Uint8(b)
		},
		Decode: func(r *Reader, rec *T) {
			b := r.Uint8()
			if r.Err() != nil {
				return
			}
			for _, bit := range bits {
				*bit.Get(rec) = HasFlag(b, bit.Mask)
			}
		},
	}
}

// Nested embeds schema of U as one field of T
func Nested[T, U any](name string, schema Schema[U], get func(*T) *U) Field[T] {
	return Field[T]{Name: name, Width: schema.Width(),
		Encode: func(w *Writer, rec *T) { schema.Encode(w, get(rec)) },
		Decode: func(r *Reader, rec *T) {
			var v U
			if err := schema.Decode(r, &v); err != nil {
				r.Fail(fmt.Errorf("%s: %w", name, err))
				return
			}
			*get(rec) = v
		},
	}
}
