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
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dragosmaftei/ptpd/codec"
	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/protocol"
	"github.com/dragosmaftei/ptpd/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func testLogger() (*log.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return log.NewEntry(logger), hook
}

func newTestContext(t *testing.T, settings Settings, options ...Option) *Context {
	logger, _ := testLogger()
	ctx, err := NewContext(settings, append([]Option{WithLogger(logger)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx
}

func immediateSettings() Settings {
	return Settings{Algorithm: HMACSHA256, SPP: 1, KeyID: 42, Key: testKey}
}

func delayedSettings() Settings {
	return Settings{
		Algorithm:        HMACSHA256,
		SPP:              1,
		Delayed:          true,
		StartTime:        testStart,
		IntervalDuration: time.Second,
		ChainLength:      10,
		DisclosureDelay:  2,
		MaxClockLag:      100 * time.Millisecond,
	}
}

// atInterval returns time 100ms into interval
func atInterval(interval int) time.Time {
	return testStart.Add(time.Duration(interval)*time.Second + 100*time.Millisecond)
}

type delayedPair struct {
	sender, receiver           *Context
	senderClock, receiverClock *clock.Mock
	chain                      *KeyChain
}

func newDelayedPair(t *testing.T) *delayedPair {
	chain, err := GenerateChain(testKey, 10)
	require.NoError(t, err)
	pair := &delayedPair{senderClock: clock.NewMock(), receiverClock: clock.NewMock(), chain: chain}
	senderSettings := delayedSettings()
	senderSettings.Key = testKey
	pair.sender = newTestContext(t, senderSettings, WithClock(pair.senderClock))
	receiverSettings := delayedSettings()
	receiverSettings.TrustAnchor = chain.Anchor()
	pair.receiver = newTestContext(t, receiverSettings, WithClock(pair.receiverClock))
	return pair
}

func (p *delayedPair) send(t *testing.T, interval int, sequenceID uint16) []byte {
	p.senderClock.Set(atInterval(interval))
	secured, err := p.sender.Secure(encodedSync(t, sequenceID))
	require.NoError(t, err)
	return secured
}

func (p *delayedPair) receive(interval int, buf []byte) Result {
	p.receiverClock.Set(atInterval(interval))
	return p.receiver.Receive(buf, RoleSlave)
}

func TestImmediateSecureReceive(t *testing.T) {
	sender := newTestContext(t, immediateSettings())
	receiver := newTestContext(t, immediateSettings())
	accepted := testutil.ToFloat64(MessagesCounter.WithLabelValues(Accepted.String()))

	secured, err := sender.Secure(encodedSync(t, 100))
	require.NoError(t, err)
	result := receiver.Receive(secured, RoleSlave)
	require.NoError(t, result.Err)
	assert.Equal(t, Accepted, result.Verdict)
	assert.Equal(t, -1, result.Interval)
	assert.Equal(t, uint16(100), result.Message.Header.SequenceID)
	assert.Equal(t, accepted+1, testutil.ToFloat64(MessagesCounter.WithLabelValues(Accepted.String())))
	assert.Equal(t, Counters{}, receiver.Counters())
}

func TestContextOwnsKeyMaterial(t *testing.T) {
	settings := immediateSettings()
	settings.Key = append([]byte(nil), testKey...)
	receiver := newTestContext(t, settings)
	utils.ZeroizeSymmetricKey(settings.Key)
	assert.Equal(t, testKey, receiver.Settings().Key)

	secured, err := newTestContext(t, immediateSettings()).Secure(encodedSync(t, 8))
	require.NoError(t, err)
	assert.Equal(t, Accepted, receiver.Receive(secured, RoleSlave).Verdict)

	copied := receiver.Settings()
	copied.Key[0] ^= 0xff
	assert.Equal(t, testKey, receiver.Settings().Key)

	chain, err := GenerateChain(testKey, 10)
	require.NoError(t, err)
	delayed := delayedSettings()
	delayed.TrustAnchor = append([]byte(nil), chain.Anchor()...)
	ctx := newTestContext(t, delayed)
	utils.ZeroizeSymmetricKey(delayed.TrustAnchor)
	assert.Equal(t, chain.Anchor(), ctx.Settings().TrustAnchor)
	assert.Equal(t, DefaultBufferLimit, ctx.Settings().BufferLimit)
	assert.Equal(t, DefaultPendingLimit, ctx.Settings().PendingLimit)
}

func TestSecureLogsEncodeErrors(t *testing.T) {
	logger, hook := testLogger()
	ctx, err := NewContext(immediateSettings(), WithLogger(logger))
	require.NoError(t, err)
	defer ctx.Close()

	_, err = ctx.Secure(encodedSync(t, 1)[:protocol.HeaderLength-1])
	assert.ErrorIs(t, err, codec.ErrFormat)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logging.EventCodeErrorCodecEncode, hook.LastEntry().Data[logging.FieldKeyEventCode])
}

func TestImmediateRejections(t *testing.T) {
	sender := newTestContext(t, immediateSettings())
	receiver := newTestContext(t, immediateSettings())
	secured, err := sender.Secure(encodedSync(t, 1))
	require.NoError(t, err)
	icvErrors := testutil.ToFloat64(ErrorsCounter.WithLabelValues(ReasonICVMismatch))

	tampered := append([]byte(nil), secured...)
	tampered[protocol.HeaderLength] ^= 0x01
	result := receiver.Receive(tampered, RoleSlave)
	assert.Equal(t, RejectedICV, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrICVMismatch)
	assert.Equal(t, icvErrors+1, testutil.ToFloat64(ErrorsCounter.WithLabelValues(ReasonICVMismatch)))

	otherSPP := immediateSettings()
	otherSPP.SPP = 2
	result = newTestContext(t, otherSPP).Receive(secured, RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrSPPMismatch)

	otherKeyID := immediateSettings()
	otherKeyID.KeyID = 43
	otherReceiver := newTestContext(t, otherKeyID)
	result = otherReceiver.Receive(secured, RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrKeyIDMismatch)
	assert.Equal(t, uint64(1), otherReceiver.Counters().KeyIDMismatchErrors)

	mac, err := NewMAC(HMACSHA256, nil)
	require.NoError(t, err)
	withKey, err := AddSecurityTLV(encodedSync(t, 1), Params{SPP: 1, KeyID: 42, DisclosedKey: testKey}, mac, testKey)
	require.NoError(t, err)
	result = receiver.Receive(withKey, RoleSlave)
	assert.Equal(t, RejectedFormat, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrMalformedSecurityTLV)

	counters := receiver.Counters()
	assert.Equal(t, uint64(1), counters.ICVMismatchErrors)
	assert.Equal(t, uint64(1), counters.LengthMismatchErrors)
	assert.Equal(t, uint64(2), counters.SecurityErrors)
}

func TestImmediateIgnoreCorrection(t *testing.T) {
	settings := immediateSettings()
	settings.ImmIgnoreCorrection = true
	sender := newTestContext(t, settings)
	receiver := newTestContext(t, settings)

	secured, err := sender.Secure(encodedSync(t, 1))
	require.NoError(t, err)
	// transparent clocks update correction field in flight
	binary.BigEndian.PutUint64(secured[protocol.CorrectionFieldOffset:], 0x0000000012340000)
	assert.Equal(t, Accepted, receiver.Receive(secured, RoleSlave).Verdict)
	assert.Equal(t, RejectedICV, newTestContext(t, immediateSettings()).Receive(secured, RoleSlave).Verdict)
}

func TestImmediateGMAC(t *testing.T) {
	settings := immediateSettings()
	settings.Algorithm = GMACAES256
	sender := newTestContext(t, settings)
	receiver := newTestContext(t, settings)

	secured, err := sender.Secure(encodedSync(t, 1))
	require.NoError(t, err)
	assert.Len(t, secured, protocol.SyncLength+TLVLength(GMACICVLength, 0))
	assert.Equal(t, Accepted, receiver.Receive(secured, RoleSlave).Verdict)

	result := newTestContext(t, immediateSettings()).Receive(secured, RoleSlave)
	assert.Equal(t, RejectedFormat, result.Verdict)
}

func TestInsecureMessages(t *testing.T) {
	settings := immediateSettings()
	settings.AcceptInsecure = AcceptInsecure{SlaveSyncFollowUp: true, MasterPdelay: true}
	logger, hook := testLogger()
	receiver := newTestContext(t, settings, WithLogger(logger))

	result := receiver.Receive(encodedSync(t, 1), RoleSlave)
	assert.Equal(t, AcceptedInsecure, result.Verdict)
	assert.NoError(t, result.Err)
	assert.Equal(t, logging.EventCodeInsecureMessageAccepted, hook.LastEntry().Data[logging.FieldKeyEventCode])

	result = receiver.Receive(encodedSync(t, 1), RoleMaster)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrMissingSecurityTLV)
	assert.Equal(t, logging.EventCodeErrorSecurityMissingTLV, hook.LastEntry().Data[logging.FieldKeyEventCode])

	flagged := encodedSync(t, 1)
	flagged[protocol.FlagFieldOffset] |= protocol.SecurityFlag
	result = receiver.Receive(flagged, RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrMissingSecurityTLV)

	counters := receiver.Counters()
	assert.Equal(t, uint64(2), counters.AuthenticationTLVExpectedErrors)
	assert.Equal(t, uint64(2), counters.SecurityErrors)
}

func TestAcceptInsecureAllows(t *testing.T) {
	all := AcceptInsecure{
		MasterAnnounce: true, MasterSyncFollowUp: true, MasterPdelay: true,
		SlaveAnnounce: true, SlaveSyncFollowUp: true, SlavePdelay: true,
	}
	for _, role := range []Role{RoleMaster, RoleSlave} {
		assert.False(t, all.Allows(role, protocol.MessageManagement))
		assert.False(t, all.Allows(role, protocol.MessageSignaling))
	}

	testcases := []struct {
		accept   AcceptInsecure
		role     Role
		allowed  []protocol.MessageType
		rejected []protocol.MessageType
	}{
		{
			AcceptInsecure{SlaveAnnounce: true}, RoleSlave,
			[]protocol.MessageType{protocol.MessageAnnounce},
			[]protocol.MessageType{protocol.MessageSync, protocol.MessagePdelayReq},
		},
		{
			AcceptInsecure{SlaveAnnounce: true}, RoleMaster,
			nil,
			[]protocol.MessageType{protocol.MessageAnnounce},
		},
		{
			AcceptInsecure{MasterSyncFollowUp: true}, RoleMaster,
			[]protocol.MessageType{protocol.MessageSync, protocol.MessageFollowUp, protocol.MessageDelayReq, protocol.MessageDelayResp},
			[]protocol.MessageType{protocol.MessageAnnounce, protocol.MessagePdelayResp},
		},
		{
			AcceptInsecure{SlavePdelay: true}, RoleSlave,
			[]protocol.MessageType{protocol.MessagePdelayReq, protocol.MessagePdelayResp, protocol.MessagePdelayRespFollowUp},
			[]protocol.MessageType{protocol.MessageSync},
		},
	}
	for _, tcase := range testcases {
		for _, messageType := range tcase.allowed {
			assert.True(t, tcase.accept.Allows(tcase.role, messageType), "%s %s", tcase.role, messageType)
		}
		for _, messageType := range tcase.rejected {
			assert.False(t, tcase.accept.Allows(tcase.role, messageType), "%s %s", tcase.role, messageType)
		}
	}
}

func TestReceiveMalformed(t *testing.T) {
	receiver := newTestContext(t, immediateSettings())
	decodeErrors := testutil.ToFloat64(CodecMessagesCounter.WithLabelValues("unknown", StatusDecodeError))

	result := receiver.Receive(nil, RoleSlave)
	assert.Equal(t, RejectedFormat, result.Verdict)
	assert.Nil(t, result.Message)
	assert.Error(t, result.Err)
	assert.Equal(t, decodeErrors+1, testutil.ToFloat64(CodecMessagesCounter.WithLabelValues("unknown", StatusDecodeError)))

	result = receiver.Receive(encodedSync(t, 1)[:40], RoleSlave)
	assert.Equal(t, RejectedFormat, result.Verdict)
	assert.Equal(t, uint64(2), receiver.Counters().FormatErrors)
	assert.Zero(t, receiver.Counters().SecurityErrors)
}

func TestDelayedDisclosureReleasesBuffer(t *testing.T) {
	pair := newDelayedPair(t)
	verified := testutil.ToFloat64(KeyVerificationsCounter.WithLabelValues(StatusSuccess))

	first := pair.send(t, 0, 1)
	tlv, err := ParseSecurityTLV(first, HMACICVLength)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tlv.KeyID)
	assert.False(t, tlv.HasDisclosedKey())

	result := pair.receive(0, first)
	assert.Equal(t, Deferred, result.Verdict)
	assert.Equal(t, 0, result.Interval)
	assert.Equal(t, 1, pair.receiver.BufferLen(0))

	assert.Equal(t, Deferred, pair.receive(1, pair.send(t, 1, 2)).Verdict)
	assert.Equal(t, 2, pair.receiver.Pending())

	third := pair.send(t, 2, 3)
	tlv, err = ParseSecurityTLV(third, HMACICVLength)
	require.NoError(t, err)
	intervalKey, err := pair.chain.IntervalKey(0)
	require.NoError(t, err)
	assert.Equal(t, intervalKey, tlv.DisclosedKey)

	result = pair.receive(2, third)
	assert.Equal(t, Deferred, result.Verdict)
	require.Len(t, result.Released, 1)
	assert.Equal(t, first, result.Released[0].Raw)
	assert.False(t, result.Released[0].ICVFailed)
	assert.Equal(t, 0, pair.receiver.LatestVerifiedInterval())
	assert.Equal(t, 2, pair.receiver.Pending())

	result = pair.receive(3, pair.send(t, 3, 4))
	require.Len(t, result.Released, 1)
	assert.Equal(t, 1, result.Released[0].Interval)
	assert.Equal(t, 1, pair.receiver.LatestVerifiedInterval())

	counters := pair.receiver.Counters()
	assert.Equal(t, uint64(4), counters.SafePackets)
	assert.Equal(t, uint64(4), counters.DeferredPackets)
	assert.Equal(t, uint64(2), counters.KeyVerificationSuccesses)
	assert.Zero(t, counters.SecurityErrors)
	assert.Equal(t, verified+2, testutil.ToFloat64(KeyVerificationsCounter.WithLabelValues(StatusSuccess)))
}

func TestDelayedUnsafePacket(t *testing.T) {
	pair := newDelayedPair(t)
	stale := pair.send(t, 0, 1)

	// interval 1 plus clock lag still can't reach disclosure of interval 0
	assert.Equal(t, Deferred, pair.receive(1, stale).Verdict)

	pair.receiverClock.Set(testStart.Add(1950 * time.Millisecond))
	result := pair.receiver.Receive(stale, RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrUnsafePacket)
	assert.Equal(t, uint64(1), pair.receiver.Counters().UnsafePackets)
	assert.Equal(t, 1, pair.receiver.Pending())
}

func TestDelayedVerificationAtInterval7(t *testing.T) {
	pair := newDelayedPair(t)
	secured := pair.send(t, 7, 70)
	tampered := pair.send(t, 7, 71)
	tampered[len(tampered)-1] ^= 0x01

	assert.Equal(t, Deferred, pair.receive(7, secured).Verdict)
	assert.Equal(t, Deferred, pair.receive(7, tampered).Verdict)
	assert.Equal(t, 2, pair.receiver.BufferLen(7))

	key, err := pair.chain.IntervalKey(7)
	require.NoError(t, err)
	released, err := pair.receiver.DiscloseKey(7, key)
	require.NoError(t, err)
	require.Len(t, released, 2)
	assert.Equal(t, secured, released[0].Raw)
	assert.False(t, released[0].ICVFailed)
	assert.True(t, released[1].ICVFailed)
	assert.Equal(t, 7, pair.receiver.LatestVerifiedInterval())
	assert.Zero(t, pair.receiver.Pending())

	counters := pair.receiver.Counters()
	assert.Equal(t, uint64(1), counters.ReleasedFailures)
	assert.Equal(t, uint64(1), counters.SecurityErrors)

	// disclosing a trusted interval again changes nothing
	released, err = pair.receiver.DiscloseKey(5, []byte("anything"))
	assert.NoError(t, err)
	assert.Empty(t, released)
}

func TestDelayedTrustedIntervalVerifiedAtOnce(t *testing.T) {
	pair := newDelayedPair(t)
	key, err := pair.chain.IntervalKey(5)
	require.NoError(t, err)
	pair.receiverClock.Set(atInterval(5))
	_, err = pair.receiver.DiscloseKey(5, key)
	require.NoError(t, err)

	secured := pair.send(t, 5, 1)
	result := pair.receive(5, secured)
	assert.Equal(t, Accepted, result.Verdict)
	assert.Equal(t, 5, result.Interval)

	secured[protocol.HeaderLength+2] ^= 0x04
	assert.Equal(t, RejectedICV, pair.receive(5, secured).Verdict)
	assert.Zero(t, pair.receiver.Pending())
}

func TestDelayedForgedKey(t *testing.T) {
	pair := newDelayedPair(t)
	failed := testutil.ToFloat64(KeyVerificationsCounter.WithLabelValues(StatusFail))
	key, err := pair.chain.IntervalKey(3)
	require.NoError(t, err)
	forged := append([]byte(nil), key...)
	forged[0] ^= 0xff

	_, err = pair.receiver.DiscloseKey(3, forged)
	assert.ErrorIs(t, err, ErrKeyVerification)
	assert.Equal(t, -1, pair.receiver.LatestVerifiedInterval())
	assert.Equal(t, uint64(1), pair.receiver.Counters().KeyVerificationFails)
	assert.Equal(t, failed+1, testutil.ToFloat64(KeyVerificationsCounter.WithLabelValues(StatusFail)))

	_, err = pair.receiver.DiscloseKey(3, key)
	assert.NoError(t, err)
	assert.Equal(t, 3, pair.receiver.LatestVerifiedInterval())
}

func TestDelayedIntervalOutsideChain(t *testing.T) {
	pair := newDelayedPair(t)
	mac, err := NewMAC(HMACSHA256, nil)
	require.NoError(t, err)
	secured, err := AddSecurityTLV(encodedSync(t, 1), Params{SPP: 1, KeyID: 10, Delayed: true}, mac, testKey)
	require.NoError(t, err)

	result := pair.receive(0, secured)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrKeyIDMismatch)
	assert.Equal(t, uint64(1), pair.receiver.Counters().KeyIDMismatchErrors)
}

func TestDelayedSendOutsideChainLifetime(t *testing.T) {
	pair := newDelayedPair(t)
	sync := encodedSync(t, 1)

	pair.senderClock.Set(testStart.Add(-time.Second))
	out, err := pair.sender.Secure(sync)
	require.NoError(t, err)
	assert.Equal(t, sync, out)

	pair.senderClock.Set(atInterval(10))
	out, err = pair.sender.Secure(sync)
	require.NoError(t, err)
	assert.Equal(t, sync, out)

	pair.senderClock.Set(atInterval(9))
	out, err = pair.sender.Secure(sync)
	require.NoError(t, err)
	assert.Len(t, out, len(sync)+TLVLength(HMACICVLength, KeyLength))

	counters := pair.sender.Counters()
	assert.Equal(t, uint64(1), counters.InsecureSentBeforeStart)
	assert.Equal(t, uint64(1), counters.InsecureSentAfterChainEnd)

	_, err = pair.receiver.Secure(sync)
	assert.ErrorIs(t, err, ErrNoKeyChain)
}

func TestCurrentInterval(t *testing.T) {
	pair := newDelayedPair(t)
	pair.receiverClock.Set(testStart.Add(-time.Millisecond))
	_, started := pair.receiver.CurrentInterval()
	assert.False(t, started)

	pair.receiverClock.Set(testStart)
	interval, started := pair.receiver.CurrentInterval()
	assert.True(t, started)
	assert.Equal(t, 0, interval)

	pair.receiverClock.Add(3999 * time.Millisecond)
	interval, _ = pair.receiver.CurrentInterval()
	assert.Equal(t, 3, interval)
}

func TestDelayedBufferLimit(t *testing.T) {
	chain, err := GenerateChain(testKey, 10)
	require.NoError(t, err)
	settings := delayedSettings()
	settings.TrustAnchor = chain.Anchor()
	settings.BufferLimit = 1
	receiverClock := clock.NewMock()
	receiver := newTestContext(t, settings, WithClock(receiverClock))
	pair := newDelayedPair(t)

	receiverClock.Set(atInterval(4))
	assert.Equal(t, Deferred, receiver.Receive(pair.send(t, 4, 1), RoleSlave).Verdict)
	result := receiver.Receive(pair.send(t, 4, 2), RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrBufferFull)
}

func TestDelayedPendingLimit(t *testing.T) {
	chain, err := GenerateChain(testKey, 10)
	require.NoError(t, err)
	settings := delayedSettings()
	settings.TrustAnchor = chain.Anchor()
	settings.PendingLimit = 2
	receiverClock := clock.NewMock()
	receiver := newTestContext(t, settings, WithClock(receiverClock))
	pair := newDelayedPair(t)

	receiverClock.Set(atInterval(0))
	for interval := 0; interval < 2; interval++ {
		assert.Equal(t, Deferred, receiver.Receive(pair.send(t, interval, uint16(interval)), RoleSlave).Verdict)
	}
	result := receiver.Receive(pair.send(t, 1, 9), RoleSlave)
	assert.Equal(t, RejectedPolicy, result.Verdict)
	assert.ErrorIs(t, result.Err, ErrBufferFull)
	assert.Equal(t, 2, receiver.Pending())
}

func TestNewContextValidation(t *testing.T) {
	chain, err := GenerateChain(testKey, 10)
	require.NoError(t, err)

	testcases := []struct {
		name   string
		modify func(*Settings)
	}{
		{"immediate without key", func(s *Settings) { s.Delayed = false }},
		{"unknown algorithm", func(s *Settings) { s.Algorithm = Algorithm(7) }},
		{"zero chain", func(s *Settings) { s.ChainLength = 0 }},
		{"zero interval", func(s *Settings) { s.IntervalDuration = 0 }},
		{"zero delay", func(s *Settings) { s.DisclosureDelay = 0 }},
		{"delay beyond chain", func(s *Settings) { s.DisclosureDelay = 10 }},
		{"negative lag", func(s *Settings) { s.MaxClockLag = -time.Second }},
		{"negative buffer limit", func(s *Settings) { s.BufferLimit = -1 }},
		{"negative pending limit", func(s *Settings) { s.PendingLimit = -1 }},
		{"no keys", func(s *Settings) { s.Key, s.TrustAnchor = nil, nil }},
		{"anchor of other chain", func(s *Settings) { s.TrustAnchor = nextKey(chain.Anchor()) }},
	}
	for _, tcase := range testcases {
		settings := delayedSettings()
		settings.Key = testKey
		tcase.modify(&settings)
		if tcase.name == "immediate without key" {
			settings.Key = nil
		}
		_, err := NewContext(settings)
		assert.ErrorIs(t, err, ErrInvalidSettings, tcase.name)
	}

	gmac := immediateSettings()
	gmac.Algorithm = GMACAES256
	gmac.Key = testKey[:16]
	_, err = NewContext(gmac)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	matching := delayedSettings()
	matching.Key = testKey
	matching.TrustAnchor = chain.Anchor()
	ctx, err := NewContext(matching)
	require.NoError(t, err)
	ctx.Close()

	_, err = newTestContext(t, immediateSettings()).DiscloseKey(0, testKey)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestRoleAndVerdictNames(t *testing.T) {
	role, err := ParseRole("Master")
	require.NoError(t, err)
	assert.Equal(t, RoleMaster, role)
	role, err = ParseRole("slave")
	require.NoError(t, err)
	assert.Equal(t, "slave", role.String())
	_, err = ParseRole("observer")
	assert.Error(t, err)

	assert.Equal(t, "accepted_insecure", AcceptedInsecure.String())
	assert.Equal(t, "deferred", Deferred.String())
	assert.Equal(t, "Verdict(42)", Verdict(42).String())
}
