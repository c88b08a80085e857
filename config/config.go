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

// Package config loads port and security association settings from yaml and converts them into the settings types
// of protocol and security packages.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/protocol"
	"github.com/dragosmaftei/ptpd/security"
	"github.com/dragosmaftei/ptpd/utils"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Names accepted by config fields
const (
	TransportUDPIPv4  = "udp_ipv4"
	TransportUDPIPv6  = "udp_ipv6"
	TransportIEEE8023 = "ieee_802_3"

	ModeMulticast = "multicast"
	ModeUnicast   = "unicast"
	ModeHybrid    = "hybrid"

	LogLevelDebug   = "debug"
	LogLevelVerbose = "verbose"
	LogLevelDiscard = "discard"
)

var transports = map[string]protocol.Transport{
	TransportUDPIPv4:  protocol.TransportUDPIPv4,
	TransportUDPIPv6:  protocol.TransportUDPIPv6,
	TransportIEEE8023: protocol.TransportIEEE8023,
}

var modes = map[string]protocol.IPMode{
	ModeMulticast: protocol.IPModeMulticast,
	ModeUnicast:   protocol.IPModeUnicast,
	ModeHybrid:    protocol.IPModeHybrid,
}

var logLevels = map[string]int{
	LogLevelDebug:   logging.LogDebug,
	LogLevelVerbose: logging.LogVerbose,
	LogLevelDiscard: logging.LogDiscard,
}

// HexBytes is a byte string written as hex in yaml
type HexBytes []byte

// UnmarshalYAML decodes hex string, colons and spaces between octets are allowed
func (h *HexBytes) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	decoded, err := utils.DecodeHex(value)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// MarshalYAML encodes bytes as hex string
func (h HexBytes) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%x", []byte(h)), nil
}

// Config of one PTP port. The file may also hold command line flags of a service as top-level keys, they are
// collected into Flags and parsed by cmd package
type Config struct {
	Transport TransportConfig        `yaml:"transport"`
	Security  *SecurityConfig        `yaml:"security,omitempty"`
	Log       LogConfig              `yaml:"log"`
	Flags     map[string]interface{} `yaml:",inline"`
}

// TransportConfig holds port identity and header defaults
type TransportConfig struct {
	ClockIdentity          HexBytes `yaml:"clock_identity"`
	PortNumber             uint16   `yaml:"port_number"`
	Domain                 uint8    `yaml:"domain"`
	Transport              string   `yaml:"transport"`
	Mode                   string   `yaml:"mode"`
	TwoStep                bool     `yaml:"two_step"`
	LogSyncInterval        int8     `yaml:"log_sync_interval"`
	LogAnnounceInterval    int8     `yaml:"log_announce_interval"`
	LogMinDelayReqInterval int8     `yaml:"log_min_delay_req_interval"`
	Role                   string   `yaml:"role"`
}

// AcceptInsecureConfig lists message classes accepted without security TLV
type AcceptInsecureConfig struct {
	MasterAnnounce     bool `yaml:"master_announce"`
	MasterSyncFollowUp bool `yaml:"master_sync_follow_up"`
	MasterPdelay       bool `yaml:"master_pdelay"`
	SlaveAnnounce      bool `yaml:"slave_announce"`
	SlaveSyncFollowUp  bool `yaml:"slave_sync_follow_up"`
	SlavePdelay        bool `yaml:"slave_pdelay"`
}

// SecurityConfig describes security association of port
type SecurityConfig struct {
	Algorithm string   `yaml:"algorithm"`
	SPP       uint8    `yaml:"spp"`
	KeyID     uint32   `yaml:"key_id"`
	Key       HexBytes `yaml:"key,omitempty"`
	// KeyEnv names environment variable holding hex key, used when Key is empty
	KeyEnv              string `yaml:"key_env,omitempty"`
	Delayed             bool   `yaml:"delayed"`
	ImmIgnoreCorrection bool   `yaml:"imm_ignore_correction"`

	// StartTime is RFC 3339 timestamp of interval 0
	StartTime        string        `yaml:"start_time,omitempty"`
	IntervalDuration time.Duration `yaml:"interval_duration,omitempty"`
	ChainLength      int           `yaml:"chain_length,omitempty"`
	DisclosureDelay  int           `yaml:"disclosure_delay,omitempty"`
	MaxClockLag      time.Duration `yaml:"max_clock_lag,omitempty"`
	TrustAnchor      HexBytes      `yaml:"trust_anchor,omitempty"`
	// ChainFile is written by ptp-keymaker and replaces key, key_env and trust_anchor in delayed mode
	ChainFile    string `yaml:"chain_file,omitempty"`
	BufferLimit  int    `yaml:"buffer_limit,omitempty"`
	PendingLimit int    `yaml:"pending_limit,omitempty"`

	AcceptInsecure AcceptInsecureConfig `yaml:"accept_insecure"`
}

// LogConfig selects log level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns config of multicast two-step UDP/IPv4 port without security
func Default() *Config {
	return &Config{
		Transport: TransportConfig{
			ClockIdentity:          make(HexBytes, len(protocol.ClockIdentity{})),
			PortNumber:             1,
			Transport:              TransportUDPIPv4,
			Mode:                   ModeMulticast,
			TwoStep:                true,
			LogAnnounceInterval:    1,
			LogMinDelayReqInterval: 0,
			Role:                   security.RoleSlave.String(),
		},
		Log: LogConfig{Level: LogLevelVerbose, Format: logging.PlaintextFormatString},
	}
}

// Parse decodes yaml over Default and validates result
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads and parses yaml file
func Load(path string) (*Config, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes config as yaml
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate returns every problem of config combined into one error
func (c *Config) Validate() error {
	err := c.Transport.validate()
	err = multierr.Append(err, c.Log.validate())
	if c.Security != nil {
		err = multierr.Append(err, c.Security.validate())
	}
	return err
}

func (c *TransportConfig) validate() (err error) {
	if len(c.ClockIdentity) != len(protocol.ClockIdentity{}) {
		err = multierr.Append(err, invalid("clock_identity must hold %d octets, took %d", len(protocol.ClockIdentity{}), len(c.ClockIdentity)))
	}
	if _, ok := transports[strings.ToLower(c.Transport)]; !ok {
		err = multierr.Append(err, invalid("unknown transport %q", c.Transport))
	}
	if _, ok := modes[strings.ToLower(c.Mode)]; !ok {
		err = multierr.Append(err, invalid("unknown mode %q", c.Mode))
	}
	if _, roleErr := security.ParseRole(c.Role); roleErr != nil {
		err = multierr.Append(err, invalid("%s", roleErr))
	}
	return err
}

func (c *LogConfig) validate() (err error) {
	if _, ok := logLevels[strings.ToLower(c.Level)]; !ok {
		err = multierr.Append(err, invalid("unknown log level %q", c.Level))
	}
	switch strings.ToLower(c.Format) {
	case logging.PlaintextFormatString, logging.JSONFormatString:
	default:
		err = multierr.Append(err, invalid("unknown log format %q", c.Format))
	}
	return err
}

func (c *SecurityConfig) validate() (err error) {
	if _, algorithmErr := security.ParseAlgorithm(c.Algorithm); algorithmErr != nil {
		err = multierr.Append(err, invalid("%s", algorithmErr))
	}
	if len(c.Key) > 0 && c.KeyEnv != "" {
		err = multierr.Append(err, invalid("key and key_env are mutually exclusive"))
	}
	if !c.Delayed {
		if len(c.Key) == 0 && c.KeyEnv == "" {
			err = multierr.Append(err, invalid("immediate mode requires key or key_env"))
		}
		if c.ChainFile != "" {
			err = multierr.Append(err, invalid("chain_file is used only in delayed mode"))
		}
		return err
	}
	if c.ChainFile != "" && (len(c.Key) > 0 || c.KeyEnv != "" || len(c.TrustAnchor) > 0) {
		err = multierr.Append(err, invalid("chain_file excludes key, key_env and trust_anchor"))
	}
	if _, timeErr := c.startTime(); timeErr != nil {
		err = multierr.Append(err, invalid("start_time: %s", timeErr))
	}
	if c.IntervalDuration <= 0 {
		err = multierr.Append(err, invalid("interval_duration must be positive"))
	}
	if c.ChainLength < 0 || (c.ChainLength == 0 && c.ChainFile == "") {
		err = multierr.Append(err, invalid("chain_length must be positive"))
	}
	if c.DisclosureDelay < 1 || (c.ChainLength > 0 && c.DisclosureDelay >= c.ChainLength) {
		err = multierr.Append(err, invalid("disclosure_delay must be in [1, chain_length)"))
	}
	if c.MaxClockLag < 0 {
		err = multierr.Append(err, invalid("max_clock_lag can't be negative"))
	}
	if c.BufferLimit < 0 || c.PendingLimit < 0 {
		err = multierr.Append(err, invalid("buffer_limit and pending_limit can't be negative"))
	}
	if len(c.Key) == 0 && c.KeyEnv == "" && len(c.TrustAnchor) == 0 && c.ChainFile == "" {
		err = multierr.Append(err, invalid("delayed mode requires key, key_env, trust_anchor or chain_file"))
	}
	return err
}

func (c *SecurityConfig) startTime() (time.Time, error) {
	if c.StartTime == "" {
		return time.Time{}, errors.New("required in delayed mode")
	}
	return time.Parse(time.RFC3339Nano, c.StartTime)
}

// ResolveKey returns Key, or key decoded from environment variable KeyEnv
func (c *SecurityConfig) ResolveKey() ([]byte, error) {
	if len(c.Key) > 0 || c.KeyEnv == "" {
		return append([]byte(nil), c.Key...), nil
	}
	value, ok := os.LookupEnv(c.KeyEnv)
	if !ok {
		return nil, invalid("environment variable %s is not set", c.KeyEnv)
	}
	key, err := utils.DecodeHex(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, c.KeyEnv, err)
	}
	return key, nil
}

// Settings converts config into security association settings
func (c *SecurityConfig) Settings() (security.Settings, error) {
	if err := c.validate(); err != nil {
		return security.Settings{}, err
	}
	algorithm, _ := security.ParseAlgorithm(c.Algorithm)
	key, err := c.ResolveKey()
	if err != nil {
		return security.Settings{}, err
	}
	settings := security.Settings{
		Algorithm:           algorithm,
		SPP:                 c.SPP,
		KeyID:               c.KeyID,
		Key:                 key,
		Delayed:             c.Delayed,
		ImmIgnoreCorrection: c.ImmIgnoreCorrection,
		IntervalDuration:    c.IntervalDuration,
		ChainLength:         c.ChainLength,
		DisclosureDelay:     c.DisclosureDelay,
		MaxClockLag:         c.MaxClockLag,
		TrustAnchor:         append([]byte(nil), c.TrustAnchor...),
		BufferLimit:         c.BufferLimit,
		PendingLimit:        c.PendingLimit,
		AcceptInsecure:      security.AcceptInsecure(c.AcceptInsecure),
	}
	if !c.Delayed {
		return settings, nil
	}
	settings.StartTime, _ = c.startTime()
	if c.ChainFile == "" {
		return settings, nil
	}
	if err := c.applyChainFile(&settings); err != nil {
		utils.ZeroizeSymmetricKey(settings.Key)
		return security.Settings{}, err
	}
	return settings, nil
}

// applyChainFile fills key material of settings from ChainFile
func (c *SecurityConfig) applyChainFile(settings *security.Settings) error {
	file, err := LoadChainFile(c.ChainFile)
	if err != nil {
		return err
	}
	defer utils.ZeroizeSymmetricKey(file.Seed)
	if c.ChainLength != 0 && c.ChainLength != file.ChainLength {
		return invalid("chain_length %d differs from %d of %s", c.ChainLength, file.ChainLength, c.ChainFile)
	}
	if c.DisclosureDelay >= file.ChainLength {
		return invalid("disclosure_delay must be in [1, %d) for %s", file.ChainLength, c.ChainFile)
	}
	settings.KeyID = file.KeyID
	settings.ChainLength = file.ChainLength
	settings.Key = append([]byte(nil), file.Seed...)
	settings.TrustAnchor = append([]byte(nil), file.TrustAnchor...)
	return nil
}

// PortSettings converts transport config into packer settings
func (c *TransportConfig) PortSettings() (protocol.PortSettings, error) {
	if err := c.validate(); err != nil {
		return protocol.PortSettings{}, err
	}
	settings := protocol.PortSettings{
		PortIdentity:           protocol.PortIdentity{PortNumber: c.PortNumber},
		DomainNumber:           c.Domain,
		Transport:              transports[strings.ToLower(c.Transport)],
		Mode:                   modes[strings.ToLower(c.Mode)],
		TwoStep:                c.TwoStep,
		LogSyncInterval:        c.LogSyncInterval,
		LogAnnounceInterval:    c.LogAnnounceInterval,
		LogMinDelayReqInterval: c.LogMinDelayReqInterval,
	}
	copy(settings.PortIdentity.ClockIdentity[:], c.ClockIdentity)
	return settings, nil
}

// PortRole returns role selecting accept-insecure policy
func (c *TransportConfig) PortRole() security.Role {
	role, err := security.ParseRole(c.Role)
	if err != nil {
		return security.RoleSlave
	}
	return role
}

// Apply sets log level and formatter of standard logger
func (c *LogConfig) Apply(serviceName string) error {
	if err := c.validate(); err != nil {
		return err
	}
	logging.SetLogLevel(logLevels[strings.ToLower(c.Level)])
	formatter := logging.CreateFormatter(strings.ToLower(c.Format))
	logging.SetServiceName(formatter, serviceName)
	return nil
}
