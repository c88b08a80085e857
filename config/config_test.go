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
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/protocol"
	"github.com/dragosmaftei/ptpd/security"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const delayedConfig = `
transport:
  clock_identity: "00:1b:21:ff:fe:0a:0b:0c"
  port_number: 2
  domain: 24
  transport: udp_ipv6
  mode: hybrid
  two_step: false
  log_sync_interval: -3
  role: master
security:
  algorithm: gmac-aes256
  spp: 3
  key: 00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff
  delayed: true
  start_time: "2026-01-01T00:00:00Z"
  interval_duration: 500ms
  chain_length: 1000
  disclosure_delay: 2
  max_clock_lag: 50ms
  buffer_limit: 64
  accept_insecure:
    master_announce: true
    slave_pdelay: true
log:
  level: debug
  format: json
`

func TestParseDelayedConfig(t *testing.T) {
	config, err := Parse([]byte(delayedConfig))
	require.NoError(t, err)

	port, err := config.Transport.PortSettings()
	require.NoError(t, err)
	assert.Equal(t, protocol.ClockIdentity{0x00, 0x1b, 0x21, 0xff, 0xfe, 0x0a, 0x0b, 0x0c}, port.PortIdentity.ClockIdentity)
	assert.Equal(t, uint16(2), port.PortIdentity.PortNumber)
	assert.Equal(t, uint8(24), port.DomainNumber)
	assert.Equal(t, protocol.TransportUDPIPv6, port.Transport)
	assert.Equal(t, protocol.IPModeHybrid, port.Mode)
	assert.False(t, port.TwoStep)
	assert.Equal(t, int8(-3), port.LogSyncInterval)
	assert.Equal(t, int8(1), port.LogAnnounceInterval, "default kept")
	assert.Equal(t, security.RoleMaster, config.Transport.PortRole())

	settings, err := config.Security.Settings()
	require.NoError(t, err)
	assert.Equal(t, security.GMACAES256, settings.Algorithm)
	assert.Equal(t, uint8(3), settings.SPP)
	assert.Len(t, settings.Key, security.KeyLength)
	assert.True(t, settings.Delayed)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), settings.StartTime)
	assert.Equal(t, 500*time.Millisecond, settings.IntervalDuration)
	assert.Equal(t, 1000, settings.ChainLength)
	assert.Equal(t, 2, settings.DisclosureDelay)
	assert.Equal(t, 50*time.Millisecond, settings.MaxClockLag)
	assert.Equal(t, 64, settings.BufferLimit)
	assert.Equal(t, security.AcceptInsecure{MasterAnnounce: true, SlavePdelay: true}, settings.AcceptInsecure)

	ctx, err := security.NewContext(settings)
	require.NoError(t, err)
	ctx.Close()
}

func TestParseImmediateConfigWithKeyEnv(t *testing.T) {
	t.Setenv("PTP_TEST_KEY", "0xdeadbeef")
	config, err := Parse([]byte(`
security:
  algorithm: hmac-sha256
  key_id: 9
  key_env: PTP_TEST_KEY
  imm_ignore_correction: true
`))
	require.NoError(t, err)
	settings, err := config.Security.Settings()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, settings.Key)
	assert.Equal(t, uint32(9), settings.KeyID)
	assert.True(t, settings.ImmIgnoreCorrection)
	assert.True(t, settings.StartTime.IsZero())

	config.Security.KeyEnv = "PTP_TEST_KEY_MISSING"
	_, err = config.Security.Settings()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("PTP_TEST_KEY", "not hex")
	config.Security.KeyEnv = "PTP_TEST_KEY"
	_, err = config.Security.Settings()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaultConfig(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())
	assert.Nil(t, config.Security)
	assert.Equal(t, security.RoleSlave, config.Transport.PortRole())

	config, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	_, err := Parse([]byte(`
transport:
  clock_identity: "0011"
  transport: can_bus
  mode: broadcast
  role: observer
security:
  algorithm: sha1
  delayed: true
  disclosure_delay: 0
  max_clock_lag: -1s
log:
  level: loud
  format: xml
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	// 4 transport, 2 log and 7 security problems
	assert.Len(t, multierr.Errors(err), 13)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("transport:\n  speed: 100\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Parse([]byte("security:\n  algorithm: hmac-sha256\n  key: xyz\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseKeepsFlagKeys(t *testing.T) {
	config, err := Parse([]byte(`
# Port role selecting accept insecure policy
role: master

d: true

packet_file:

security:
  algorithm: hmac-sha256
  key: 00112233
`))
	require.NoError(t, err)
	assert.Equal(t, "master", config.Flags["role"])
	assert.Equal(t, true, config.Flags["d"])
	assert.Contains(t, config.Flags, "packet_file")
	require.NotNil(t, config.Security)
	assert.Equal(t, HexBytes{0x00, 0x11, 0x22, 0x33}, config.Security.Key)

	_, err = Parse([]byte("role: master\nsecurity:\n  algorithm: hmac-sha256\n  key: 00\n  speed: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig, "sections stay strict")
}

func TestKeyAndKeyEnvAreExclusive(t *testing.T) {
	_, err := Parse([]byte("security:\n  algorithm: hmac-sha256\n  key: 00ff\n  key_env: PTP_KEY\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChainFileSettings(t *testing.T) {
	chain, err := security.GenerateChain([]byte("chain file seed"), 20)
	require.NoError(t, err)
	defer chain.Zeroize()
	sender := NewChainFile(7, chain)
	senderPath := filepath.Join(t.TempDir(), "sender.yaml")
	require.NoError(t, sender.Write(senderPath))
	receiverPath := filepath.Join(t.TempDir(), "receiver.yaml")
	require.NoError(t, sender.Receiver().Write(receiverPath))

	section := func(path string) string {
		return fmt.Sprintf(`
security:
  algorithm: hmac-sha256
  delayed: true
  start_time: "2026-01-01T00:00:00Z"
  interval_duration: 1s
  disclosure_delay: 2
  chain_file: %s
`, path)
	}

	config, err := Parse([]byte(section(senderPath)))
	require.NoError(t, err)
	settings, err := config.Security.Settings()
	require.NoError(t, err)
	assert.Equal(t, 20, settings.ChainLength)
	assert.Equal(t, uint32(7), settings.KeyID)
	assert.Equal(t, chain.Key(0), settings.Key)
	assert.Equal(t, chain.Anchor(), settings.TrustAnchor)
	ctx, err := security.NewContext(settings)
	require.NoError(t, err)
	ctx.Close()

	config, err = Parse([]byte(section(receiverPath)))
	require.NoError(t, err)
	settings, err = config.Security.Settings()
	require.NoError(t, err)
	assert.Empty(t, settings.Key)
	assert.Equal(t, chain.Anchor(), settings.TrustAnchor)

	config.Security.ChainLength = 30
	_, err = config.Security.Settings()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	config.Security.ChainLength = 0
	config.Security.ChainFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = config.Security.Settings()
	assert.Error(t, err)

	_, err = Parse([]byte(section(receiverPath) + "  trust_anchor: 00ff\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Parse([]byte("security:\n  algorithm: hmac-sha256\n  key: 00\n  chain_file: chain.yaml\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMarshalKeepsHexAndDurations(t *testing.T) {
	config, err := Parse([]byte(delayedConfig))
	require.NoError(t, err)
	data, err := config.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "clock_identity: 001b21fffe0a0b0c")
	assert.Contains(t, string(data), "interval_duration: 500ms")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config, parsed)
}

func TestLogApply(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)
	config := LogConfig{Level: LogLevelDebug, Format: logging.JSONFormatString}
	require.NoError(t, config.Apply("ptp-test"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &logging.PtpJSONFormatter{}, log.StandardLogger().Formatter)

	config.Level = "loud"
	assert.ErrorIs(t, config.Apply("ptp-test"), ErrInvalidConfig)
}
