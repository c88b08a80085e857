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
	"encoding/binary"
	"math"
	"testing"

	"github.com/dragosmaftei/ptpd/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPortIdentity = PortIdentity{
	ClockIdentity: ClockIdentity{0x00, 0x1b, 0x21, 0xff, 0xfe, 0x3c, 0x4d, 0x5e},
	PortNumber:    1,
}

var testRequestingIdentity = PortIdentity{
	ClockIdentity: ClockIdentity{0xaa, 0xbb, 0xcc, 0xff, 0xfe, 0xdd, 0xee, 0xff},
	PortNumber:    0xFFFF,
}

func testHeader(sequenceID uint16, correction TimeInterval) Header {
	return Header{
		TransportSpecific:  0x1,
		VersionPTP:         Version2,
		DomainNumber:       24,
		FlagField:          FlagTwoStep | FlagPTPTimescale,
		CorrectionField:    correction,
		SourcePortIdentity: testPortIdentity,
		SequenceID:         sequenceID,
		ControlField:       ControlOther,
		LogMessageInterval: -3,
	}
}

func allBodies() []Body {
	maxTimestamp := Timestamp{Seconds: MaxTimestampSeconds, Nanoseconds: 999999999}
	return []Body{
		&Sync{OriginTimestamp: maxTimestamp},
		&DelayReq{OriginTimestamp: Timestamp{Seconds: 1, Nanoseconds: 2}},
		&FollowUp{PreciseOriginTimestamp: Timestamp{Seconds: 0x0001_0000_0001, Nanoseconds: 500}},
		&DelayResp{ReceiveTimestamp: maxTimestamp, RequestingPortIdentity: testRequestingIdentity},
		&PdelayReq{OriginTimestamp: Timestamp{Seconds: 100, Nanoseconds: 100}},
		&PdelayResp{RequestReceiptTimestamp: Timestamp{Seconds: 7}, RequestingPortIdentity: testRequestingIdentity},
		&PdelayRespFollowUp{ResponseOriginTimestamp: maxTimestamp, RequestingPortIdentity: testRequestingIdentity},
		&Announce{
			OriginTimestamp:         Timestamp{Seconds: 1700000000, Nanoseconds: 1},
			CurrentUtcOffset:        -37,
			GrandmasterPriority1:    128,
			GrandmasterClockQuality: ClockQuality{ClockClass: 6, ClockAccuracy: 0x21, OffsetScaledLogVariance: 0x4E5D},
			GrandmasterPriority2:    255,
			GrandmasterIdentity:     testPortIdentity.ClockIdentity,
			StepsRemoved:            0xFFFF,
			TimeSource:              TimeSourceGPS,
		},
		&Management{
			TargetPortIdentity:   testRequestingIdentity,
			StartingBoundaryHops: 5,
			BoundaryHops:         3,
			ActionField:          ActionResponse,
			TLV: &ManagementTLV{TLVType: TLVManagement, ManagementID: ManagementDefaultDataSet, Data: &DefaultDataSet{
				TwoStepClock: true, NumberPorts: 2, Priority1: 128, Priority2: 127,
				ClockQuality:  ClockQuality{ClockClass: 248, ClockAccuracy: 0xFE, OffsetScaledLogVariance: 0xFFFF},
				ClockIdentity: testPortIdentity.ClockIdentity, DomainNumber: 4,
			}},
		},
		&Signaling{
			TargetPortIdentity: testRequestingIdentity,
			TLVs: []SignalingTLV{
				{Value: &RequestUnicastTransmission{MessageType: MessageAnnounce, LogInterMessagePeriod: 1, DurationField: 300}},
				{Value: &CancelUnicastTransmission{MessageType: MessageSync}},
			},
		},
	}
}

func TestMessageRoundTrip(t *testing.T) {
	boundaries := []struct {
		sequenceID uint16
		correction TimeInterval
	}{
		{0, math.MinInt64},
		{0xFFFF, math.MaxInt64},
		{42, 0},
		{1, -1},
	}
	for _, body := range allBodies() {
		for _, boundary := range boundaries {
			t.Run(body.MessageType().String(), func(t *testing.T) {
				msg := &Message{Header: testHeader(boundary.sequenceID, boundary.correction), Body: body}
				msg.Header.ControlField = ControlField(body.MessageType())
				encoded, err := Marshal(msg)
				require.NoError(t, err)
				assert.Equal(t, len(encoded), int(msg.Header.MessageLength))
				assert.Equal(t, body.MessageType(), msg.Header.MessageType)

				decoded, err := Unmarshal(encoded)
				require.NoError(t, err)
				assert.Equal(t, msg, decoded)
			})
		}
	}
}

func TestMessageLengths(t *testing.T) {
	expected := map[MessageType]int{
		MessageSync:               SyncLength,
		MessageDelayReq:           DelayReqLength,
		MessageFollowUp:           FollowUpLength,
		MessageDelayResp:          DelayRespLength,
		MessagePdelayReq:          PdelayReqLength,
		MessagePdelayResp:         PdelayRespLength,
		MessagePdelayRespFollowUp: PdelayRespFollowUpLength,
		MessageAnnounce:           AnnounceLength,
	}
	for _, body := range allBodies() {
		length, ok := expected[body.MessageType()]
		if !ok {
			continue
		}
		encoded, err := Marshal(&Message{Header: testHeader(1, 0), Body: body})
		require.NoError(t, err)
		assert.Len(t, encoded, length, body.MessageType().String())
		assert.Equal(t, length, BodyLength(body.MessageType()))
	}
}

func TestHeaderWireLayout(t *testing.T) {
	msg := &Message{Header: testHeader(0xABCD, TimeInterval(0x0102030405060708)), Body: &Sync{}}
	msg.Header.FlagField = FlagSecurity | FlagUnicast | FlagLeap61
	encoded, err := Marshal(msg)
	require.NoError(t, err)

	assert.Equal(t, byte(0x10), encoded[0], "transportSpecific upper nibble, SYNC lower nibble")
	assert.Equal(t, byte(0x02), encoded[1])
	assert.Equal(t, uint16(SyncLength), binary.BigEndian.Uint16(encoded[MessageLengthOffset:]))
	assert.Equal(t, byte(24), encoded[4])
	assert.Equal(t, byte(0), encoded[5])
	assert.Equal(t, byte(0x84), encoded[FlagFieldOffset])
	assert.Equal(t, byte(0x01), encoded[FlagFieldOffset+1])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, encoded[CorrectionFieldOffset:CorrectionFieldOffset+CorrectionFieldLength])
	assert.Equal(t, []byte{0, 0, 0, 0}, encoded[16:20])
	assert.Equal(t, testPortIdentity.ClockIdentity[:], encoded[20:28])
	assert.Equal(t, []byte{0x00, 0x01}, encoded[28:30])
	assert.Equal(t, []byte{0xAB, 0xCD}, encoded[SequenceIDOffset:SequenceIDOffset+2])
	assert.Equal(t, byte(0xFD), encoded[33])
}

func TestAnnounceScenario(t *testing.T) {
	packer := NewPacker(PortSettings{PortIdentity: testPortIdentity, LogAnnounceInterval: 1})
	msg := packer.Announce(42, Announce{GrandmasterPriority1: 128, StepsRemoved: 3, TimeSource: 0xA0})
	encoded, err := Marshal(msg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x03}, encoded[61:63])

	decoded, err := Unmarshal(encoded)
	require.NoError(t, err)
	announce, ok := decoded.Body.(*Announce)
	require.True(t, ok)
	assert.Equal(t, uint16(42), decoded.Header.SequenceID)
	assert.Equal(t, uint8(128), announce.GrandmasterPriority1)
	assert.Equal(t, uint16(3), announce.StepsRemoved)
	assert.Equal(t, TimeSource(0xA0), announce.TimeSource)
}

func TestUnmarshalTruncated(t *testing.T) {
	for _, body := range allBodies() {
		encoded, err := Marshal(&Message{Header: testHeader(9, 1), Body: body})
		require.NoError(t, err)
		for size := 0; size < len(encoded); size++ {
			// copy guarantees nothing past size is reachable
			truncated := append([]byte(nil), encoded[:size]...)
			_, err := Unmarshal(truncated)
			require.Error(t, err, "%s truncated to %d", body.MessageType(), size)
			assert.ErrorIs(t, err, codec.ErrFormat)
		}
	}
}

func TestUnmarshalDeclaredLengthTooShort(t *testing.T) {
	for _, body := range allBodies() {
		encoded, err := Marshal(&Message{Header: testHeader(9, 1), Body: body})
		require.NoError(t, err)
		binary.BigEndian.PutUint16(encoded[MessageLengthOffset:], uint16(len(encoded)-1))
		_, err = Unmarshal(encoded)
		require.Error(t, err, body.MessageType().String())
		assert.ErrorIs(t, err, codec.ErrFormat)
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	encoded, err := Marshal(&Message{Header: testHeader(1, 0), Body: &Sync{}})
	require.NoError(t, err)
	encoded[0] = 0x05
	_, err = Unmarshal(encoded)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
	assert.ErrorIs(t, err, codec.ErrFormat)
}

func TestUnmarshalIgnoresTrailingData(t *testing.T) {
	encoded, err := Marshal(&Message{Header: testHeader(1, 0), Body: &Sync{OriginTimestamp: Timestamp{Seconds: 5}}})
	require.NoError(t, err)
	withTrailer := append(encoded, 0xEE, 0xEE)
	decoded, err := Unmarshal(withTrailer)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), decoded.Body.(*Sync).OriginTimestamp.Seconds)
}

func TestMarshalWithoutBody(t *testing.T) {
	_, err := Marshal(&Message{})
	assert.ErrorIs(t, err, ErrMissingBody)
}

func TestTLVOffset(t *testing.T) {
	msg := &Message{Header: testHeader(1, 0), Body: allBodies()[9]}
	encoded, err := Marshal(msg)
	require.NoError(t, err)

	offset, ok, err := TLVOffset(encoded, TLVCancelUnicastTransmission)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SignalingLength+TLVHeadLength+6, offset)

	_, ok, err = TLVOffset(encoded, TLVAuthentication)
	require.NoError(t, err)
	assert.False(t, ok)

	binary.BigEndian.PutUint16(encoded[SignalingLength+2:], 200)
	_, _, err = TLVOffset(encoded, TLVAuthentication)
	assert.ErrorIs(t, err, codec.ErrFormat)
}

func TestTimeConversions(t *testing.T) {
	ts := Timestamp{Seconds: 1700000000, Nanoseconds: 123}
	assert.Equal(t, ts, NewTimestamp(ts.Time()))
	assert.Equal(t, TimeInterval(3<<16), NewTimeInterval(3))
	assert.Equal(t, 1.5, TimeInterval(3<<15).Nanoseconds())
	assert.Equal(t, "001b21.fffe.3c4d5e", testPortIdentity.ClockIdentity.String())
	assert.Equal(t, "001b21.fffe.3c4d5e-1", testPortIdentity.String())
}
