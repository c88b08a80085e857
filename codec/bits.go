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

// LowerNibble returns bits 0-3 of b
func LowerNibble(b byte) uint8 { return b & 0x0F }

// UpperNibble returns bits 4-7 of b
func UpperNibble(b byte) uint8 { return b >> 4 }

// SetLowerNibble writes v into bits 0-3 preserving bits 4-7
func SetLowerNibble(b byte, v uint8) byte { return b&0xF0 | v&0x0F }

// SetUpperNibble writes v into bits 4-7 preserving bits 0-3
func SetUpperNibble(b byte, v uint8) byte { return b&0x0F | v<<4 }

// HasFlag reports whether every bit of mask is set in b
func HasFlag(b, mask byte) bool { return b&mask == mask }

// SetFlag sets or clears mask bits of b
func SetFlag(b, mask byte, on bool) byte {
	if on {
		return b | mask
	}
	return b &^ mask
}
