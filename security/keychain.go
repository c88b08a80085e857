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
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/dragosmaftei/ptpd/utils"
)

// Errors of key chain processing
var (
	ErrKeyVerification    = errors.New("disclosed key doesn't derive trusted key")
	ErrIntervalOutOfRange = errors.New("interval outside of key chain")
	ErrInvalidChainLength = errors.New("chain length must be positive")
)

var (
	chainDerivationLabel = []byte{0x00}
	icvDerivationLabel   = []byte{0x01}
)

// nextKey returns the chain key following key
func nextKey(key []byte) []byte {
	return hmacSHA256(key, chainDerivationLabel)
}

// ICVKey derives key used for ICV calculation from chain key. It is never used to derive chain keys
func ICVKey(key []byte) []byte {
	return hmacSHA256(key, icvDerivationLabel)
}

// KeyChain is one-way chain of length+1 keys where Key(0) is the seed and Key(length) is the trust anchor
type KeyChain struct {
	keys [][]byte
}

// GenerateChain derives chain of length keys from seed
func GenerateChain(seed []byte, length int) (*KeyChain, error) {
	if length <= 0 {
		return nil, ErrInvalidChainLength
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed", ErrInvalidKeyLength)
	}
	keys := make([][]byte, length+1)
	keys[0] = append([]byte(nil), seed...)
	for i := 0; i < length; i++ {
		keys[i+1] = nextKey(keys[i])
	}
	return &KeyChain{keys: keys}, nil
}

// Length returns count of intervals covered by chain
func (c *KeyChain) Length() int { return len(c.keys) - 1 }

// Key returns chain key by chain index
func (c *KeyChain) Key(index int) []byte { return c.keys[index] }

// Anchor returns trust anchor
func (c *KeyChain) Anchor() []byte { return c.keys[len(c.keys)-1] }

// IntervalKey returns chain key protecting interval. Keys are used in reverse order of derivation
func (c *KeyChain) IntervalKey(interval int) ([]byte, error) {
	if interval < 0 || interval >= c.Length() {
		return nil, fmt.Errorf("%w: %d, chain length %d", ErrIntervalOutOfRange, interval, c.Length())
	}
	return c.keys[c.Length()-1-interval], nil
}

// Zeroize wipes every key of chain
func (c *KeyChain) Zeroize() {
	for _, key := range c.keys {
		utils.ZeroizeSymmetricKey(key)
	}
}

// KeyStore holds keys a receiver proved to belong to the chain of a trust anchor. A slot is trusted only when it is
// at or above the slot of the latest verified interval
type KeyStore struct {
	keys   [][]byte
	latest int
}

// NewKeyStore returns store trusting only anchor of chain with length intervals
func NewKeyStore(anchor []byte, length int) (*KeyStore, error) {
	if length <= 0 {
		return nil, ErrInvalidChainLength
	}
	if len(anchor) == 0 {
		return nil, fmt.Errorf("%w: empty trust anchor", ErrInvalidKeyLength)
	}
	keys := make([][]byte, length+1)
	keys[length] = append([]byte(nil), anchor...)
	return &KeyStore{keys: keys, latest: -1}, nil
}

// Length returns count of intervals covered by store
func (s *KeyStore) Length() int { return len(s.keys) - 1 }

// LatestInterval returns latest interval with verified key, -1 if only anchor is trusted
func (s *KeyStore) LatestInterval() int { return s.latest }

func (s *KeyStore) slot(interval int) int { return s.Length() - 1 - interval }

// Key returns verified key of interval
func (s *KeyStore) Key(interval int) ([]byte, bool) {
	if interval < 0 || interval > s.latest {
		return nil, false
	}
	return s.keys[s.slot(interval)], true
}

// VerifyKey accepts key disclosed for interval if hashing it forward reaches the latest trusted key. On success every
// interval up to newInterval becomes trusted. On failure the store is left unchanged
func (s *KeyStore) VerifyKey(newInterval int, key []byte) error {
	if newInterval < 0 || newInterval >= s.Length() {
		return fmt.Errorf("%w: %d, chain length %d", ErrIntervalOutOfRange, newInterval, s.Length())
	}
	if newInterval <= s.latest {
		if hmac.Equal(s.keys[s.slot(newInterval)], key) {
			return nil
		}
		return ErrKeyVerification
	}
	steps := newInterval - s.latest - 1
	derived := make([][]byte, steps+1)
	derived[0] = append([]byte(nil), key...)
	for i := 1; i <= steps; i++ {
		derived[i] = nextKey(derived[i-1])
	}
	if !hmac.Equal(nextKey(derived[steps]), s.keys[s.slot(s.latest)]) {
		for _, k := range derived {
			utils.ZeroizeSymmetricKey(k)
		}
		return ErrKeyVerification
	}
	first := s.slot(newInterval)
	for i, k := range derived {
		s.keys[first+i] = k
	}
	s.latest = newInterval
	return nil
}
