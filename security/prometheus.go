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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Labels of security metrics
const (
	LabelStatus = "status"
	LabelReason = "reason"
	LabelType   = "type"
)

// Values of status label
const (
	StatusSuccess        = "success"
	StatusFail           = "fail"
	StatusDecoded        = "decoded"
	StatusDecodeError    = "decode_error"
	StatusUnsupportedTLV = "unsupported_tlv"
)

// Values of reason label
const (
	ReasonAuthenticationTLVExpected = "authentication_tlv_expected"
	ReasonMalformedTLV              = "malformed_tlv"
	ReasonLengthMismatch            = "length_mismatch"
	ReasonSPPMismatch               = "spp_mismatch"
	ReasonKeyIDMismatch             = "keyid_mismatch"
	ReasonICVMismatch               = "icv_mismatch"
	ReasonUnsafePacket              = "unsafe_packet"
	ReasonBufferFull                = "buffer_full"
	ReasonReleasedFailure           = "released_failure"
	ReasonBeforeStart               = "before_start"
	ReasonAfterChainEnd             = "after_chain_end"
)

var (
	// MessagesCounter collect received messages by verdict
	MessagesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptp_security_messages_total",
			Help: "number of received messages by security verdict",
		}, []string{LabelStatus})

	// ErrorsCounter collect security failures by reason
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptp_security_errors_total",
			Help: "number of security processing failures",
		}, []string{LabelReason})

	// KeyVerificationsCounter collect disclosed key verifications success/fail
	KeyVerificationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptp_key_verifications_total",
			Help: "number of disclosed key verifications",
		}, []string{LabelStatus})

	// InsecureSentCounter collect messages sent without security TLV while delayed processing is configured
	InsecureSentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptp_security_insecure_sent_total",
			Help: "number of messages sent without security TLV outside of key chain lifetime",
		}, []string{LabelReason})

	// CodecMessagesCounter collect decoded messages by message type
	CodecMessagesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptp_codec_messages_total",
			Help: "number of decoded messages by type and status",
		}, []string{LabelType, LabelStatus})
)

var registerLock = sync.Once{}

// RegisterMetrics register in default prometheus registry metrics related with security processing
func RegisterMetrics() {
	registerLock.Do(func() {
		prometheus.MustRegister(MessagesCounter)
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(KeyVerificationsCounter)
		prometheus.MustRegister(InsecureSentCounter)
		prometheus.MustRegister(CodecMessagesCounter)
	})
}
