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
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/dragosmaftei/ptpd/utils"
	"golang.org/x/crypto/chacha20"
)

// DefaultReseedBudget is the count of octets produced between reseeds from the OS
const DefaultReseedBudget = 1 << 20

const seedLength = chacha20.KeySize + chacha20.NonceSize

// Random is a ChaCha20 keystream seeded from an entropy source. Reads never touch the entropy source until the
// reseed budget is spent, so sending a GMAC protected message does not wait on the OS
type Random struct {
	lock    sync.Mutex
	source  io.Reader
	stream  *chacha20.Cipher
	budget  int
	emitted int
}

// NewRandom returns Random seeded from source, crypto/rand.Reader if nil. budget <= 0 selects DefaultReseedBudget
func NewRandom(source io.Reader, budget int) (*Random, error) {
	if source == nil {
		source = rand.Reader
	}
	if budget <= 0 {
		budget = DefaultReseedBudget
	}
	r := &Random{source: source, budget: budget}
	if err := r.reseed(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Random) reseed() error {
	seed := make([]byte, seedLength)
	defer utils.ZeroizeSymmetricKey(seed)
	if _, err := io.ReadFull(r.source, seed); err != nil {
		return fmt.Errorf("can't seed random: %w", err)
	}
	stream, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize], seed[chacha20.KeySize:])
	if err != nil {
		return err
	}
	r.stream = stream
	r.emitted = 0
	return nil
}

// Read fills p with keystream
func (r *Random) Read(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.emitted+len(p) > r.budget {
		if err := r.reseed(); err != nil {
			return 0, err
		}
	}
	for i := range p {
		p[i] = 0
	}
	r.stream.XORKeyStream(p, p)
	r.emitted += len(p)
	return len(p), nil
}
