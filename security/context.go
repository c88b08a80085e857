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
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dragosmaftei/ptpd/codec"
	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/protocol"
	"github.com/dragosmaftei/ptpd/utils"
	log "github.com/sirupsen/logrus"
)

// Errors of security context
var (
	ErrInvalidSettings = errors.New("invalid security settings")
	ErrNoKeyChain      = errors.New("sending in delayed mode requires key chain seed")
	ErrSPPMismatch     = errors.New("SPP mismatch")
	ErrKeyIDMismatch   = errors.New("keyID mismatch")
	ErrUnsafePacket    = errors.New("key of interval may already be disclosed")
)

// Role of port receiving messages, selects accept-insecure policy
type Role uint8

// Port roles
const (
	RoleSlave Role = iota
	RoleMaster
)

func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "slave"
}

// ParseRole accepts "master" or "slave"
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(value) {
	case "master":
		return RoleMaster, nil
	case "slave":
		return RoleSlave, nil
	}
	return 0, fmt.Errorf("unknown role %q", value)
}

// Verdict of received message
type Verdict uint8

// Verdicts
const (
	Accepted Verdict = iota
	AcceptedInsecure
	RejectedFormat
	RejectedICV
	RejectedPolicy
	Deferred
)

var verdictNames = [...]string{"accepted", "accepted_insecure", "rejected_format", "rejected_icv", "rejected_policy", "deferred"}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return fmt.Sprintf("Verdict(%d)", uint8(v))
}

// AcceptInsecure selects message classes processed without security TLV, per port role
type AcceptInsecure struct {
	MasterAnnounce     bool
	MasterSyncFollowUp bool
	MasterPdelay       bool
	SlaveAnnounce      bool
	SlaveSyncFollowUp  bool
	SlavePdelay        bool
}

// Allows reports whether port in role accepts unsecured message of messageType. Delay_Req and Delay_Resp belong to
// the Sync class. Management and Signaling are never accepted unsecured
func (a AcceptInsecure) Allows(role Role, messageType protocol.MessageType) bool {
	announce, sync, pdelay := a.SlaveAnnounce, a.SlaveSyncFollowUp, a.SlavePdelay
	if role == RoleMaster {
		announce, sync, pdelay = a.MasterAnnounce, a.MasterSyncFollowUp, a.MasterPdelay
	}
	switch messageType {
	case protocol.MessageAnnounce:
		return announce
	case protocol.MessageSync, protocol.MessageFollowUp, protocol.MessageDelayReq, protocol.MessageDelayResp:
		return sync
	case protocol.MessagePdelayReq, protocol.MessagePdelayResp, protocol.MessagePdelayRespFollowUp:
		return pdelay
	}
	return false
}

// Limits of delayed buffer used when Settings leave them zero
const (
	DefaultBufferLimit  = 64
	DefaultPendingLimit = 1024
)

// Settings of security association used by one port
type Settings struct {
	Algorithm Algorithm
	SPP       uint8
	// KeyID is written into immediate mode TLVs. Delayed mode writes the interval instead
	KeyID uint32
	// Key is the shared key in immediate mode and the chain seed in delayed mode
	Key                 []byte
	Delayed             bool
	ImmIgnoreCorrection bool

	StartTime        time.Time
	IntervalDuration time.Duration
	ChainLength      int
	DisclosureDelay  int
	// MaxClockLag bounds how far the local clock may lag behind the sender
	MaxClockLag time.Duration
	// TrustAnchor is used by receivers without chain seed
	TrustAnchor []byte
	// BufferLimit bounds messages deferred per interval, 0 selects DefaultBufferLimit
	BufferLimit int
	// PendingLimit bounds messages deferred in all intervals, 0 selects DefaultPendingLimit
	PendingLimit int

	AcceptInsecure AcceptInsecure
}

func (s *Settings) validate() error {
	if _, ok := algorithmNames[s.Algorithm]; !ok {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, ErrUnknownAlgorithm)
	}
	if !s.Delayed {
		if len(s.Key) == 0 {
			return fmt.Errorf("%w: immediate mode requires key", ErrInvalidSettings)
		}
		if s.Algorithm == GMACAES256 && len(s.Key) != KeyLength {
			return fmt.Errorf("%w: %w: GMAC requires %d octets key", ErrInvalidSettings, ErrInvalidKeyLength, KeyLength)
		}
		return nil
	}
	switch {
	case s.ChainLength <= 0:
		return fmt.Errorf("%w: %w", ErrInvalidSettings, ErrInvalidChainLength)
	case s.IntervalDuration <= 0:
		return fmt.Errorf("%w: interval duration must be positive", ErrInvalidSettings)
	case s.DisclosureDelay < 1 || s.DisclosureDelay >= s.ChainLength:
		return fmt.Errorf("%w: disclosure delay must be in [1, %d)", ErrInvalidSettings, s.ChainLength)
	case s.MaxClockLag < 0:
		return fmt.Errorf("%w: negative clock lag", ErrInvalidSettings)
	case s.BufferLimit < 0 || s.PendingLimit < 0:
		return fmt.Errorf("%w: negative buffer limit", ErrInvalidSettings)
	case len(s.Key) == 0 && len(s.TrustAnchor) == 0:
		return fmt.Errorf("%w: delayed mode requires chain seed or trust anchor", ErrInvalidSettings)
	}
	return nil
}

// Result of received message processing
type Result struct {
	// Message is nil when decoding failed
	Message *protocol.Message
	Verdict Verdict
	// Interval of delayed processing the message belongs to, -1 otherwise
	Interval int
	// Released holds buffered messages whose key became trusted while processing this message
	Released []BufferedMessage
	Err      error
}

// Option configures Context
type Option func(*Context)

// WithClock sets clock used to find current interval
func WithClock(clk clock.Clock) Option {
	return func(c *Context) { c.clock = clk }
}

// WithLogger sets logger
func WithLogger(logger *log.Entry) Option {
	return func(c *Context) { c.logger = logger }
}

// WithRandom sets source of GMAC IVs
func WithRandom(random io.Reader) Option {
	return func(c *Context) { c.random = random }
}

// Context holds security state of one port. It is safe for concurrent use
type Context struct {
	lock     sync.Mutex
	settings Settings
	mac      *MAC
	clock    clock.Clock
	logger   *log.Entry
	random   io.Reader
	chain    *KeyChain
	store    *KeyStore
	buffer   *DelayedBuffer
	counters Counters
}

// NewContext returns Context for settings. In delayed mode a chain is generated from Key, otherwise only TrustAnchor
// is known and the context can receive but not send. Key and TrustAnchor are copied, the caller may wipe its own
func NewContext(settings Settings, options ...Option) (*Context, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	settings.Key = append([]byte(nil), settings.Key...)
	settings.TrustAnchor = append([]byte(nil), settings.TrustAnchor...)
	if settings.BufferLimit == 0 {
		settings.BufferLimit = DefaultBufferLimit
	}
	if settings.PendingLimit == 0 {
		settings.PendingLimit = DefaultPendingLimit
	}
	c := &Context{
		settings: settings,
		clock:    clock.New(),
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, option := range options {
		option(c)
	}
	if c.random == nil && settings.Algorithm == GMACAES256 {
		random, err := NewRandom(nil, DefaultReseedBudget)
		if err != nil {
			return nil, err
		}
		c.random = random
	}
	mac, err := NewMAC(settings.Algorithm, c.random)
	if err != nil {
		return nil, err
	}
	c.mac = mac
	if !settings.Delayed {
		return c, nil
	}

	anchor := settings.TrustAnchor
	if len(settings.Key) > 0 {
		chain, err := GenerateChain(settings.Key, settings.ChainLength)
		if err != nil {
			return nil, err
		}
		if len(anchor) > 0 && string(anchor) != string(chain.Anchor()) {
			chain.Zeroize()
			utils.ZeroizeSymmetricKey(settings.Key)
			return nil, fmt.Errorf("%w: trust anchor doesn't match chain seed", ErrInvalidSettings)
		}
		c.chain = chain
		anchor = chain.Anchor()
	}
	store, err := NewKeyStore(anchor, settings.ChainLength)
	if err != nil {
		return nil, err
	}
	c.store = store
	c.buffer = NewDelayedBuffer(settings.ChainLength, settings.BufferLimit, settings.PendingLimit)
	return c, nil
}

// Settings returns copy of context settings
func (c *Context) Settings() Settings {
	settings := c.settings
	settings.Key = append([]byte(nil), c.settings.Key...)
	settings.TrustAnchor = append([]byte(nil), c.settings.TrustAnchor...)
	return settings
}

// MAC returns MAC engine of context
func (c *Context) MAC() *MAC { return c.mac }

// Counters returns snapshot of counters
func (c *Context) Counters() Counters {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.counters
}

// interval returns interval index at now, false before start time
func (c *Context) interval(now time.Time) (int, bool) {
	if now.Before(c.settings.StartTime) {
		return -1, false
	}
	return int(now.Sub(c.settings.StartTime) / c.settings.IntervalDuration), true
}

// CurrentInterval returns current TESLA interval, false before start time
func (c *Context) CurrentInterval() (int, bool) {
	return c.interval(c.clock.Now())
}

// LatestVerifiedInterval returns latest interval with trusted key, -1 in immediate mode or when only anchor is trusted
func (c *Context) LatestVerifiedInterval() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.store == nil {
		return -1
	}
	return c.store.LatestInterval()
}

// Pending returns count of buffered messages
func (c *Context) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.buffer == nil {
		return 0
	}
	return c.buffer.Pending()
}

// BufferLen returns count of messages buffered for interval
func (c *Context) BufferLen(interval int) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.buffer == nil {
		return 0
	}
	return c.buffer.Len(interval)
}

// Close releases buffered messages and wipes chain keys
func (c *Context) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.buffer != nil {
		c.buffer.Close()
	}
	if c.chain != nil {
		c.chain.Zeroize()
	}
	utils.ZeroizeSymmetricKey(c.settings.Key)
}

// Secure returns encoded message buf with security TLV. In delayed mode outside of chain lifetime buf is returned as is
func (c *Context) Secure(buf []byte) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.settings.Delayed {
		params := Params{SPP: c.settings.SPP, KeyID: c.settings.KeyID, ImmIgnoreCorrection: c.settings.ImmIgnoreCorrection}
		out, err := AddSecurityTLV(buf, params, c.mac, c.settings.Key)
		if err != nil {
			c.logSecureError(err)
			return nil, err
		}
		return out, nil
	}
	if c.chain == nil {
		return nil, ErrNoKeyChain
	}
	interval, started := c.interval(c.clock.Now())
	if !started {
		c.insecureSent(&c.counters.InsecureSentBeforeStart, ReasonBeforeStart)
		c.logger.WithField(logging.FieldKeyEventCode, logging.EventCodeInsecureMessageSent).Debugln("Sending message without security TLV before start time")
		return buf, nil
	}
	if interval >= c.chain.Length() {
		c.insecureSent(&c.counters.InsecureSentAfterChainEnd, ReasonAfterChainEnd)
		c.logger.WithField(logging.FieldKeyEventCode, logging.EventCodeInsecureMessageSent).Debugln("Sending message without security TLV, key chain exhausted")
		return buf, nil
	}
	key, err := c.chain.IntervalKey(interval)
	if err != nil {
		return nil, err
	}
	params := Params{SPP: c.settings.SPP, KeyID: uint32(interval), Delayed: true}
	if interval >= c.settings.DisclosureDelay {
		params.DisclosedKey, err = c.chain.IntervalKey(interval - c.settings.DisclosureDelay)
		if err != nil {
			return nil, err
		}
	}
	icvKey := ICVKey(key)
	defer utils.ZeroizeSymmetricKey(icvKey)
	out, err := AddSecurityTLV(buf, params, c.mac, icvKey)
	if err != nil {
		c.logSecureError(err)
		return nil, err
	}
	return out, nil
}

// logSecureError logs failure of AddSecurityTLV, separating malformed messages from MAC failures
func (c *Context) logSecureError(err error) {
	code := logging.EventCodeErrorSecurityCantSecure
	if errors.Is(err, codec.ErrFormat) || errors.Is(err, protocol.ErrMessageTooLong) {
		code = logging.EventCodeErrorCodecEncode
	}
	c.logger.WithField(logging.FieldKeyEventCode, code).WithError(err).Errorln("Can't add security TLV")
}

// Receive decodes buf and checks its security TLV. Buffers of intervals whose keys become trusted are drained into
// Result.Released
func (c *Context) Receive(buf []byte, role Role) Result {
	c.lock.Lock()
	defer c.lock.Unlock()
	result := c.receive(buf, role)
	MessagesCounter.WithLabelValues(result.Verdict.String()).Inc()
	return result
}

func (c *Context) receive(buf []byte, role Role) Result {
	msg, err := protocol.Unmarshal(buf)
	if err != nil {
		c.counters.FormatErrors++
		CodecMessagesCounter.WithLabelValues(messageTypeLabel(buf), StatusDecodeError).Inc()
		c.logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCodecDecode).WithError(err).Debugln("Can't decode message")
		return Result{Verdict: RejectedFormat, Interval: -1, Err: err}
	}
	messageType := msg.Header.MessageType.String()
	CodecMessagesCounter.WithLabelValues(messageType, StatusDecoded).Inc()
	if unsupported := msg.UnsupportedTLVs(); unsupported > 0 {
		c.counters.UnsupportedTLVs += uint64(unsupported)
		CodecMessagesCounter.WithLabelValues(messageType, StatusUnsupportedTLV).Add(float64(unsupported))
		c.logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCodecUnsupportedTLV).Debugf("Skipped %d unsupported TLVs", unsupported)
	}
	result := Result{Message: msg, Interval: -1}
	logger := c.logger.WithFields(log.Fields{"type": messageType, "sequence_id": msg.Header.SequenceID})

	if !msg.Header.HasFlag(protocol.FlagSecurity) {
		if c.settings.AcceptInsecure.Allows(role, msg.Header.MessageType) {
			result.Verdict = AcceptedInsecure
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeInsecureMessageAccepted).Debugln("Accepted message without security TLV")
			return result
		}
		c.securityError(&c.counters.AuthenticationTLVExpectedErrors, ReasonAuthenticationTLVExpected)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityMissingTLV).Warningln("Message without security flag")
		result.Verdict, result.Err = RejectedPolicy, ErrMissingSecurityTLV
		return result
	}

	tlv, err := ParseSecurityTLV(buf, c.mac.ICVLength())
	if err != nil {
		if errors.Is(err, ErrMissingSecurityTLV) {
			c.securityError(&c.counters.AuthenticationTLVExpectedErrors, ReasonAuthenticationTLVExpected)
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityMissingTLV).Warningln("Security flag set without security TLV")
			result.Verdict = RejectedPolicy
		} else {
			c.counters.FormatErrors++
			c.securityError(nil, ReasonMalformedTLV)
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityMalformedTLV).WithError(err).Warningln("Malformed security TLV")
			result.Verdict = RejectedFormat
		}
		result.Err = err
		return result
	}
	if tlv.SPP != c.settings.SPP {
		c.securityError(&c.counters.SPPMismatchErrors, ReasonSPPMismatch)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecuritySPPMismatch).Warningf("Unexpected SPP %d", tlv.SPP)
		result.Verdict, result.Err = RejectedPolicy, ErrSPPMismatch
		return result
	}
	disclosedLength := 0
	if c.settings.Delayed && tlv.HasDisclosedKey() {
		disclosedLength = KeyLength
	}
	if expected := TLVLength(c.mac.ICVLength(), disclosedLength) - protocol.TLVHeadLength; int(tlv.LengthField) != expected {
		c.securityError(&c.counters.LengthMismatchErrors, ReasonLengthMismatch)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityLengthMismatch).Warningf("Security TLV length %d, expected %d", tlv.LengthField, expected)
		result.Verdict = RejectedFormat
		result.Err = fmt.Errorf("%w: length %d, expected %d", ErrMalformedSecurityTLV, tlv.LengthField, expected)
		return result
	}
	if !c.settings.Delayed {
		return c.receiveImmediate(buf, tlv, result, logger)
	}
	return c.receiveDelayed(buf, tlv, result, logger)
}

func (c *Context) receiveImmediate(buf []byte, tlv *TLV, result Result, logger *log.Entry) Result {
	if tlv.KeyID != c.settings.KeyID {
		c.securityError(&c.counters.KeyIDMismatchErrors, ReasonKeyIDMismatch)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityKeyIDMismatch).Warningf("Unexpected keyID %d", tlv.KeyID)
		result.Verdict, result.Err = RejectedPolicy, ErrKeyIDMismatch
		return result
	}
	params := Params{ImmIgnoreCorrection: c.settings.ImmIgnoreCorrection}
	if !VerifyICV(buf, params, c.mac, c.settings.Key) {
		c.securityError(&c.counters.ICVMismatchErrors, ReasonICVMismatch)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityICVMismatch).Warningln("ICV mismatch")
		result.Verdict, result.Err = RejectedICV, ErrICVMismatch
		return result
	}
	logger.WithField(logging.FieldKeyEventCode, logging.EventCodeSecuredMessageAccepted).Debugln("Accepted secured message")
	result.Verdict = Accepted
	return result
}

func (c *Context) receiveDelayed(buf []byte, tlv *TLV, result Result, logger *log.Entry) Result {
	if int64(tlv.KeyID) >= int64(c.store.Length()) {
		c.securityError(&c.counters.KeyIDMismatchErrors, ReasonKeyIDMismatch)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityKeyIDMismatch).Warningf("Interval %d outside of key chain", tlv.KeyID)
		result.Verdict = RejectedPolicy
		result.Err = fmt.Errorf("%w: %w: %d", ErrKeyIDMismatch, ErrIntervalOutOfRange, tlv.KeyID)
		return result
	}
	interval := int(tlv.KeyID)
	result.Interval = interval
	logger = logger.WithField("interval", interval)

	if latest, started := c.interval(c.clock.Now().Add(c.settings.MaxClockLag)); started && latest >= interval+c.settings.DisclosureDelay {
		c.securityError(&c.counters.UnsafePackets, ReasonUnsafePacket)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityUnsafePacket).Warningf("Unsafe packet, sender may be in interval %d", latest)
		result.Verdict, result.Err = RejectedPolicy, ErrUnsafePacket
		return result
	}
	c.counters.SafePackets++

	if tlv.HasDisclosedKey() {
		released, err := c.discloseKey(interval-c.settings.DisclosureDelay, tlv.DisclosedKey)
		if err != nil {
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityKeyVerification).WithError(err).Warningln("Disclosed key rejected")
		}
		result.Released = released
	}

	if key, trusted := c.store.Key(interval); trusted {
		icvKey := ICVKey(key)
		defer utils.ZeroizeSymmetricKey(icvKey)
		if !VerifyICV(buf, Params{Delayed: true}, c.mac, icvKey) {
			c.securityError(&c.counters.ICVMismatchErrors, ReasonICVMismatch)
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityICVMismatch).Warningln("ICV mismatch")
			result.Verdict, result.Err = RejectedICV, ErrICVMismatch
			return result
		}
		result.Verdict = Accepted
		return result
	}
	if err := c.buffer.Enqueue(interval, buf); err != nil {
		c.securityError(nil, ReasonBufferFull)
		logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorSecurityBufferFull).WithError(err).Warningln("Can't defer message")
		result.Verdict, result.Err = RejectedPolicy, err
		return result
	}
	c.counters.DeferredPackets++
	logger.WithField(logging.FieldKeyEventCode, logging.EventCodeMessageDeferred).Debugln("Message deferred until key disclosure")
	result.Verdict = Deferred
	return result
}

// DiscloseKey verifies key of interval received out of band and returns buffered messages released by it
func (c *Context) DiscloseKey(interval int, key []byte) ([]BufferedMessage, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.store == nil {
		return nil, fmt.Errorf("%w: immediate mode has no key chain", ErrInvalidSettings)
	}
	return c.discloseKey(interval, key)
}

func (c *Context) discloseKey(interval int, key []byte) ([]BufferedMessage, error) {
	previous := c.store.LatestInterval()
	if interval < 0 || interval <= previous {
		return nil, nil
	}
	if err := c.store.VerifyKey(interval, key); err != nil {
		c.keyVerification(false)
		return nil, err
	}
	c.keyVerification(true)
	c.logger.WithFields(log.Fields{logging.FieldKeyEventCode: logging.EventCodeKeyVerified, "interval": interval}).Debugln("Disclosed key verified")
	var released []BufferedMessage
	for i := previous + 1; i <= interval; i++ {
		released = append(released, c.drain(i)...)
	}
	if len(released) > 0 {
		c.logger.WithField(logging.FieldKeyEventCode, logging.EventCodeBufferedMessagesReleased).Debugf("Released %d buffered messages", len(released))
	}
	return released, nil
}

func (c *Context) drain(interval int) []BufferedMessage {
	key, ok := c.store.Key(interval)
	if !ok {
		return nil
	}
	icvKey := ICVKey(key)
	defer utils.ZeroizeSymmetricKey(icvKey)
	drained, err := c.buffer.Drain(interval, func(raw []byte) bool {
		return VerifyICV(raw, Params{Delayed: true}, c.mac, icvKey)
	})
	if err != nil {
		return nil
	}
	for _, message := range drained {
		if message.ICVFailed {
			c.securityError(&c.counters.ReleasedFailures, ReasonReleasedFailure)
			c.logger.WithFields(log.Fields{logging.FieldKeyEventCode: logging.EventCodeErrorSecurityReleasedFailure, "interval": interval}).Warningln("Buffered message failed ICV verification")
		}
	}
	return drained
}

func messageTypeLabel(buf []byte) string {
	messageType, ok := protocol.PeekMessageType(buf)
	if !ok {
		return "unknown"
	}
	return messageType.String()
}
