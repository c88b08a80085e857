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

// Package codec contains big-endian primitives, bounds checked readers and writers and a declarative schema
// used to encode and decode every PTP record.
package codec

// Guard returns true if size bytes at absolute offset fit into both the declared message length and the physical
// buffer capacity
func Guard(capacity, declared, offset, size int) bool {
	if capacity < 0 || declared < 0 || offset < 0 || size < 0 {
		return false
	}
	end := offset + size
	if end < offset {
		return false
	}
	return end <= declared && end <= capacity
}
