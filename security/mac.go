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

// Package security implements the PTP authentication TLV: HMAC-SHA256 and AES-256-GMAC integrity check values,
// TESLA key chains with delayed disclosure, and the per-port security context that produces receive verdicts.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/sha256-simd"
)

// Algorithm used to calculate ICV
type Algorithm uint8

// Supported algorithms
const (
	HMACSHA256 Algorithm = iota
	GMACAES256
)

// ICV lengths
const (
	HMACICVLength = 16
	GMACIVLength  = 12
	GMACTagLength = 16
	GMACICVLength = GMACIVLength + GMACTagLength
)

// KeyLength is the length of chain keys and of AES-256 keys
const KeyLength = sha256.Size

// Errors returned by MAC engine
var (
	ErrUnknownAlgorithm = errors.New("unknown integrity algorithm")
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrInvalidICVBuffer = errors.New("ICV buffer has wrong length")
)

var algorithmNames = map[Algorithm]string{
	HMACSHA256: "hmac-sha256",
	GMACAES256: "gmac-aes256",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// ParseAlgorithm accepts algorithm name case-insensitively
func ParseAlgorithm(name string) (Algorithm, error) {
	for algorithm, value := range algorithmNames {
		if strings.EqualFold(name, value) {
			return algorithm, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// ICVLength returns length of ICV field, IV included for GMAC
func (a Algorithm) ICVLength() int {
	switch a {
	case HMACSHA256:
		return HMACICVLength
	case GMACAES256:
		return GMACICVLength
	}
	return 0
}

// MAC calculates and verifies ICVs with one algorithm
type MAC struct {
	algorithm Algorithm
	random    io.Reader
}

// NewMAC returns MAC for algorithm. random is the source of GMAC IVs and is not used for HMAC
func NewMAC(algorithm Algorithm, random io.Reader) (*MAC, error) {
	if _, ok := algorithmNames[algorithm]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(algorithm))
	}
	if algorithm == GMACAES256 && random == nil {
		return nil, errors.New("GMAC requires IV source")
	}
	return &MAC{algorithm: algorithm, random: random}, nil
}

// Algorithm returns configured algorithm
func (m *MAC) Algorithm() Algorithm { return m.algorithm }

// ICVLength returns length of ICV field
func (m *MAC) ICVLength() int { return m.algorithm.ICVLength() }

// Sum calculates ICV of data with key into icv, which must be ICVLength long
func (m *MAC) Sum(key, data, icv []byte) error {
	if len(icv) != m.ICVLength() {
		return ErrInvalidICVBuffer
	}
	switch m.algorithm {
	case HMACSHA256:
		copy(icv, hmacSHA256(key, data)[:HMACICVLength])
		return nil
	case GMACAES256:
		gcm, err := newGCM(key)
		if err != nil {
			return err
		}
		iv := icv[:GMACIVLength]
		if _, err := io.ReadFull(m.random, iv); err != nil {
			return fmt.Errorf("can't read IV: %w", err)
		}
		tag := gcm.Seal(nil, iv, nil, data)
		copy(icv[GMACIVLength:], tag)
		return nil
	}
	return ErrUnknownAlgorithm
}

// Verify reports whether icv matches data under key. Comparison takes constant time
func (m *MAC) Verify(key, data, icv []byte) bool {
	if len(icv) != m.ICVLength() {
		return false
	}
	switch m.algorithm {
	case HMACSHA256:
		return hmac.Equal(hmacSHA256(key, data)[:HMACICVLength], icv)
	case GMACAES256:
		gcm, err := newGCM(key)
		if err != nil {
			return false
		}
		_, err = gcm.Open(nil, icv[:GMACIVLength], icv[GMACIVLength:], data)
		return err == nil
	}
	return false
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: AES-256 requires %d octets, took %d", ErrInvalidKeyLength, KeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, GMACIVLength)
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
