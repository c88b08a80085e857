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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(transport Transport, mode IPMode) PortSettings {
	return PortSettings{
		PortIdentity:           testPortIdentity,
		DomainNumber:           24,
		Transport:              transport,
		Mode:                   mode,
		TwoStep:                true,
		LogSyncInterval:        -3,
		LogAnnounceInterval:    1,
		LogMinDelayReqInterval: -2,
		TimeProperties:         FlagPTPTimescale | FlagCurrentUtcOffsetValid,
	}
}

func TestPackerTwoStepFlag(t *testing.T) {
	packer := NewPacker(testSettings(TransportUDPIPv4, IPModeMulticast))
	request := testHeader(7, 0)

	messages := map[MessageType]*Message{
		MessageSync:               packer.Sync(1, Timestamp{}),
		MessageFollowUp:           packer.FollowUp(1, Timestamp{}),
		MessageAnnounce:           packer.Announce(1, Announce{}),
		MessageDelayReq:           packer.DelayReq(1, Timestamp{}),
		MessageDelayResp:          packer.DelayResp(&request, Timestamp{}),
		MessagePdelayReq:          packer.PdelayReq(1, Timestamp{}),
		MessagePdelayResp:         packer.PdelayResp(&request, Timestamp{}),
		MessagePdelayRespFollowUp: packer.PdelayRespFollowUp(&request, Timestamp{}),
		MessageManagement:         packer.Management(1, testRequestingIdentity, ActionGet, 0, nil),
		MessageSignaling:          packer.Signaling(1, testRequestingIdentity),
	}
	for messageType, msg := range messages {
		expected := messageType == MessageSync || messageType == MessagePdelayResp
		assert.Equal(t, expected, msg.Header.HasFlag(FlagTwoStep), messageType.String())
		assert.Equal(t, messageType, msg.Header.MessageType)
		assert.Equal(t, ControlField(messageType), msg.Header.ControlField)
		assert.Equal(t, uint8(Version2), msg.Header.VersionPTP)
		assert.Equal(t, testPortIdentity, msg.Header.SourcePortIdentity)
	}

	oneStep := testSettings(TransportUDPIPv4, IPModeMulticast)
	oneStep.TwoStep = false
	assert.False(t, NewPacker(oneStep).Sync(1, Timestamp{}).Header.HasFlag(FlagTwoStep))
}

func TestPackerSyncInterval(t *testing.T) {
	testcases := []struct {
		transport Transport
		mode      IPMode
		expected  int8
	}{
		{TransportUDPIPv4, IPModeMulticast, -3},
		{TransportUDPIPv4, IPModeHybrid, -3},
		{TransportUDPIPv4, IPModeUnicast, LogMessageIntervalDefault},
		{TransportUDPIPv6, IPModeUnicast, LogMessageIntervalDefault},
		{TransportIEEE8023, IPModeUnicast, -3},
	}
	for _, tcase := range testcases {
		packer := NewPacker(testSettings(tcase.transport, tcase.mode))
		assert.Equal(t, tcase.expected, packer.Sync(1, Timestamp{}).Header.LogMessageInterval)
		assert.Equal(t, tcase.expected, packer.FollowUp(1, Timestamp{}).Header.LogMessageInterval)
		assert.Equal(t, int8(1), packer.Announce(1, Announce{}).Header.LogMessageInterval)
		assert.Equal(t, int8(LogMessageIntervalDefault), packer.DelayReq(1, Timestamp{}).Header.LogMessageInterval)
		assert.Equal(t, int8(LogMessageIntervalDefault), packer.PdelayReq(1, Timestamp{}).Header.LogMessageInterval)
	}
}

func TestPackerUnicastFlag(t *testing.T) {
	assert.True(t, NewPacker(testSettings(TransportUDPIPv4, IPModeUnicast)).Sync(1, Timestamp{}).Header.HasFlag(FlagUnicast))
	assert.False(t, NewPacker(testSettings(TransportUDPIPv4, IPModeMulticast)).Sync(1, Timestamp{}).Header.HasFlag(FlagUnicast))

	hybrid := NewPacker(testSettings(TransportUDPIPv4, IPModeHybrid))
	assert.False(t, hybrid.Sync(1, Timestamp{}).Header.HasFlag(FlagUnicast))
	assert.True(t, hybrid.DelayReq(1, Timestamp{}).Header.HasFlag(FlagUnicast))
}

func TestPackerAnnounceTimeProperties(t *testing.T) {
	packer := NewPacker(testSettings(TransportUDPIPv4, IPModeUnicast))
	header := packer.Announce(9, Announce{GrandmasterPriority1: 128}).Header
	assert.True(t, header.HasFlag(FlagPTPTimescale))
	assert.True(t, header.HasFlag(FlagCurrentUtcOffsetValid))
	assert.True(t, header.HasFlag(FlagUnicast))
	assert.Equal(t, uint16(9), header.SequenceID)
}

func TestPackerDelayResp(t *testing.T) {
	packer := NewPacker(testSettings(TransportUDPIPv4, IPModeMulticast))
	request := testHeader(300, 0x1234)
	request.DomainNumber = 5
	request.SourcePortIdentity = testRequestingIdentity

	multicast := packer.DelayResp(&request, Timestamp{Seconds: 10})
	assert.Equal(t, uint16(300), multicast.Header.SequenceID)
	assert.Equal(t, uint8(5), multicast.Header.DomainNumber)
	assert.Equal(t, TimeInterval(0x1234), multicast.Header.CorrectionField)
	assert.Equal(t, int8(-2), multicast.Header.LogMessageInterval)
	assert.False(t, multicast.Header.HasFlag(FlagUnicast))
	assert.Equal(t, testRequestingIdentity, multicast.Body.(*DelayResp).RequestingPortIdentity)

	request.SetFlag(FlagUnicast, true)
	unicast := packer.DelayResp(&request, Timestamp{Seconds: 10})
	assert.True(t, unicast.Header.HasFlag(FlagUnicast))
	assert.Equal(t, int8(LogMessageIntervalDefault), unicast.Header.LogMessageInterval)
}

func TestPackerPeerDelay(t *testing.T) {
	packer := NewPacker(testSettings(TransportIEEE8023, IPModeMulticast))
	request := testHeader(77, -500)
	request.DomainNumber = 9
	request.SourcePortIdentity = testRequestingIdentity
	request.SetFlag(FlagUnicast, true)

	response := packer.PdelayResp(&request, Timestamp{Seconds: 1})
	assert.Equal(t, uint8(9), response.Header.DomainNumber)
	assert.Equal(t, TimeInterval(0), response.Header.CorrectionField)
	assert.True(t, response.Header.HasFlag(FlagUnicast))
	assert.Equal(t, uint16(77), response.Header.SequenceID)

	followUp := packer.PdelayRespFollowUp(&request, Timestamp{Seconds: 2})
	assert.Equal(t, TimeInterval(-500), followUp.Header.CorrectionField)
	assert.Equal(t, uint8(24), followUp.Header.DomainNumber)
	assert.True(t, followUp.Header.HasFlag(FlagUnicast))
	assert.False(t, followUp.Header.HasFlag(FlagTwoStep))
	assert.Equal(t, testRequestingIdentity, followUp.Body.(*PdelayRespFollowUp).RequestingPortIdentity)
}

func TestPackerOutputEncodes(t *testing.T) {
	packer := NewPacker(testSettings(TransportUDPIPv4, IPModeHybrid))
	request := testHeader(1, 0)
	messages := []*Message{
		packer.Sync(1, Timestamp{Seconds: 1}),
		packer.DelayResp(&request, Timestamp{Seconds: 2}),
		packer.PdelayRespFollowUp(&request, Timestamp{Seconds: 3}),
	}
	for _, msg := range messages {
		encoded, err := Marshal(msg)
		require.NoError(t, err)
		decoded, err := Unmarshal(encoded)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	}
}
