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
	"io"

	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/hkdf"
)

// SeedInfo is the HKDF info prefix of chain seeds
const SeedInfo = "ptpd tesla chain seed"

// ErrEmptyMasterKey returned when seed derivation took empty secret
var ErrEmptyMasterKey = errors.New("empty master key")

// DeriveSeed derives chain seed for keyID from master secret with HKDF-SHA256. Different keyIDs give independent
// chains from one master secret
func DeriveSeed(master []byte, keyID uint32) ([]byte, error) {
	if len(master) == 0 {
		return nil, ErrEmptyMasterKey
	}
	info := make([]byte, len(SeedInfo)+4)
	copy(info, SeedInfo)
	binary.BigEndian.PutUint32(info[len(SeedInfo):], keyID)
	seed := make([]byte, KeyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, info), seed); err != nil {
		return nil, err
	}
	return seed, nil
}
