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
	"errors"
	"fmt"
)

// Errors returned by readers and schemas. Every decode failure wraps ErrFormat so callers may classify it with errors.Is
var (
	ErrFormat           = errors.New("malformed message")
	ErrInsufficientData = fmt.Errorf("%w: insufficient data", ErrFormat)
	ErrAllocation       = errors.New("variable length field exceeds allocation limit")
	ErrValueOutOfRange  = errors.New("value out of range")
)

// MaxFieldLength limits allocations made for variable length fields
const MaxFieldLength = 1500
