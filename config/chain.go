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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dragosmaftei/ptpd/security"
	"github.com/dragosmaftei/ptpd/utils"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

// ChainFile describes generated key chain. Senders keep Seed, receivers are given only TrustAnchor
type ChainFile struct {
	// Version of ptpd that generated the chain
	Version     string   `yaml:"version,omitempty"`
	KeyID       uint32   `yaml:"key_id"`
	ChainLength int      `yaml:"chain_length"`
	Seed        HexBytes `yaml:"seed,omitempty"`
	TrustAnchor HexBytes `yaml:"trust_anchor"`
}

// NewChainFile describes chain
func NewChainFile(keyID uint32, chain *security.KeyChain) *ChainFile {
	return &ChainFile{
		Version:     utils.VERSION,
		KeyID:       keyID,
		ChainLength: chain.Length(),
		Seed:        append(HexBytes(nil), chain.Key(0)...),
		TrustAnchor: append(HexBytes(nil), chain.Anchor()...),
	}
}

// Validate checks lengths and that seed derives the anchor
func (f *ChainFile) Validate() (err error) {
	if f.ChainLength <= 0 {
		err = multierr.Append(err, invalid("chain_length must be positive"))
	}
	if len(f.TrustAnchor) != security.KeyLength {
		err = multierr.Append(err, invalid("trust_anchor must hold %d octets, took %d", security.KeyLength, len(f.TrustAnchor)))
	}
	if err != nil || len(f.Seed) == 0 {
		return err
	}
	chain, chainErr := security.GenerateChain(f.Seed, f.ChainLength)
	if chainErr != nil {
		return multierr.Append(err, fmt.Errorf("%w: %w", ErrInvalidConfig, chainErr))
	}
	defer chain.Zeroize()
	if string(chain.Anchor()) != string(f.TrustAnchor) {
		err = multierr.Append(err, invalid("seed doesn't derive trust_anchor"))
	}
	return err
}

// Receiver returns copy without seed
func (f *ChainFile) Receiver() *ChainFile {
	return &ChainFile{Version: f.Version, KeyID: f.KeyID, ChainLength: f.ChainLength, TrustAnchor: append(HexBytes(nil), f.TrustAnchor...)}
}

// Write stores chain file as yaml readable only by owner
func (f *ChainFile) Write(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	absPath, err := utils.AbsPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(absPath, data, 0600)
}

// LoadChainFile reads and validates chain file
func LoadChainFile(path string) (*ChainFile, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := &ChainFile{}
	if err := yaml.UnmarshalStrict(data, file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := file.checkVersion(); err != nil {
		return nil, err
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

// checkVersion rejects chains generated by newer ptpd. Files without version are accepted
func (f *ChainFile) checkVersion() error {
	if f.Version == "" {
		return nil
	}
	fileVersion, err := utils.ParseVersion(f.Version)
	if err != nil {
		return fmt.Errorf("%w: version: %w", ErrInvalidConfig, err)
	}
	current, err := utils.GetParsedVersion()
	if err != nil {
		return err
	}
	if fileVersion.Compare(current) == utils.Greater {
		return invalid("chain generated by ptpd %s, newer than %s", fileVersion, current)
	}
	return nil
}
