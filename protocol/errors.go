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
	"errors"
	"fmt"

	"github.com/dragosmaftei/ptpd/codec"
)

// Errors returned by message codec. Decode errors wrap codec.ErrFormat
var (
	ErrLengthMismatch     = fmt.Errorf("%w: message length mismatch", codec.ErrFormat)
	ErrUnknownMessageType = fmt.Errorf("%w: unknown message type", codec.ErrFormat)
	ErrMessageTooLong     = errors.New("encoded message exceeds 65535 octets")
	ErrMissingBody        = errors.New("message without body")
	ErrInvalidTLV         = errors.New("invalid TLV")
)
