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

import "fmt"

// MessageType is the lower nibble of the first header octet
type MessageType uint8

// Message types
const (
	MessageSync               MessageType = 0x0
	MessageDelayReq           MessageType = 0x1
	MessagePdelayReq          MessageType = 0x2
	MessagePdelayResp         MessageType = 0x3
	MessageFollowUp           MessageType = 0x8
	MessageDelayResp          MessageType = 0x9
	MessagePdelayRespFollowUp MessageType = 0xA
	MessageAnnounce           MessageType = 0xB
	MessageSignaling          MessageType = 0xC
	MessageManagement         MessageType = 0xD
)

var messageTypeNames = map[MessageType]string{
	MessageSync:               "SYNC",
	MessageDelayReq:           "DELAY_REQ",
	MessagePdelayReq:          "PDELAY_REQ",
	MessagePdelayResp:         "PDELAY_RESP",
	MessageFollowUp:           "FOLLOW_UP",
	MessageDelayResp:          "DELAY_RESP",
	MessagePdelayRespFollowUp: "PDELAY_RESP_FOLLOW_UP",
	MessageAnnounce:           "ANNOUNCE",
	MessageSignaling:          "SIGNALING",
	MessageManagement:         "MANAGEMENT",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", uint8(t))
}

// Control field values
const (
	ControlSync       uint8 = 0x00
	ControlDelayReq   uint8 = 0x01
	ControlFollowUp   uint8 = 0x02
	ControlDelayResp  uint8 = 0x03
	ControlManagement uint8 = 0x04
	ControlOther      uint8 = 0x05
)

// Fixed lengths of messages without TLVs
const (
	HeaderLength             = 34
	SyncLength               = 44
	DelayReqLength           = 44
	FollowUpLength           = 44
	PdelayReqLength          = 54
	PdelayRespLength         = 54
	DelayRespLength          = 54
	PdelayRespFollowUpLength = 54
	AnnounceLength           = 64
	SignalingLength          = 44
	ManagementLength         = 48
	TLVHeadLength            = 4
	ManagementIDLength       = 2
)

// Header offsets used by code patching an encoded message in place
const (
	MessageLengthOffset   = 2
	FlagFieldOffset       = 6
	CorrectionFieldOffset = 8
	CorrectionFieldLength = 8
	SequenceIDOffset      = 30
)

// Version of PTP written into headers
const Version2 uint8 = 2

// LogMessageIntervalDefault is used when interval has no meaning for message
const LogMessageIntervalDefault int8 = 0x7F

// Flag field bits. First octet occupies upper byte
const (
	FlagAlternateMaster       uint16 = 0x0100
	FlagTwoStep               uint16 = 0x0200
	FlagUnicast               uint16 = 0x0400
	FlagProfileSpecific1      uint16 = 0x2000
	FlagProfileSpecific2      uint16 = 0x4000
	FlagSecurity              uint16 = 0x8000
	FlagLeap61                uint16 = 0x0001
	FlagLeap59                uint16 = 0x0002
	FlagCurrentUtcOffsetValid uint16 = 0x0004
	FlagPTPTimescale          uint16 = 0x0008
	FlagTimeTraceable         uint16 = 0x0010
	FlagFrequencyTraceable    uint16 = 0x0020
)

// SecurityFlag is the security bit within the first flag octet
const SecurityFlag byte = 0x80

// TLVType identifies TLV shape
type TLVType uint16

// TLV types
const (
	TLVManagement                           TLVType = 0x0001
	TLVManagementErrorStatus                TLVType = 0x0002
	TLVOrganizationExtension                TLVType = 0x0003
	TLVRequestUnicastTransmission           TLVType = 0x0004
	TLVGrantUnicastTransmission             TLVType = 0x0005
	TLVCancelUnicastTransmission            TLVType = 0x0006
	TLVAcknowledgeCancelUnicastTransmission TLVType = 0x0007
	TLVPathTrace                            TLVType = 0x0008
	TLVAlternateTimeOffsetIndicator         TLVType = 0x0009
	TLVAuthentication                       TLVType = 0x2000
)

// Action of management message, lower nibble of octet 46
type Action uint8

// Management actions
const (
	ActionGet         Action = 0
	ActionSet         Action = 1
	ActionResponse    Action = 2
	ActionCommand     Action = 3
	ActionAcknowledge Action = 4
)

// ManagementID selects management TLV data shape
type ManagementID uint16

// Management ids
const (
	ManagementNull                     ManagementID = 0x0000
	ManagementClockDescription         ManagementID = 0x0001
	ManagementUserDescription          ManagementID = 0x0002
	ManagementSaveInNonVolatileStorage ManagementID = 0x0003
	ManagementResetNonVolatileStorage  ManagementID = 0x0004
	ManagementInitialize               ManagementID = 0x0005
	ManagementFaultLog                 ManagementID = 0x0006
	ManagementFaultLogReset            ManagementID = 0x0007
	ManagementDefaultDataSet           ManagementID = 0x2000
	ManagementCurrentDataSet           ManagementID = 0x2001
	ManagementParentDataSet            ManagementID = 0x2002
	ManagementTimePropertiesDataSet    ManagementID = 0x2003
	ManagementPortDataSet              ManagementID = 0x2004
	ManagementPriority1                ManagementID = 0x2005
	ManagementPriority2                ManagementID = 0x2006
	ManagementDomain                   ManagementID = 0x2007
	ManagementSlaveOnly                ManagementID = 0x2008
	ManagementLogAnnounceInterval      ManagementID = 0x2009
	ManagementAnnounceReceiptTimeout   ManagementID = 0x200A
	ManagementLogSyncInterval          ManagementID = 0x200B
	ManagementVersionNumber            ManagementID = 0x200C
	ManagementEnablePort               ManagementID = 0x200D
	ManagementDisablePort              ManagementID = 0x200E
	ManagementTime                     ManagementID = 0x200F
	ManagementClockAccuracy            ManagementID = 0x2010
	ManagementUtcProperties            ManagementID = 0x2011
	ManagementTraceabilityProperties   ManagementID = 0x2012
	ManagementTimescaleProperties      ManagementID = 0x2013
	ManagementUnicastNegotiationEnable ManagementID = 0x2014
	ManagementDelayMechanism           ManagementID = 0x6000
	ManagementLogMinPdelayReqInterval  ManagementID = 0x6001
)

// ManagementErrorID is carried by error status TLV
type ManagementErrorID uint16

// Management error ids
const (
	ErrorResponseTooBig ManagementErrorID = 0x0001
	ErrorNoSuchID       ManagementErrorID = 0x0002
	ErrorWrongLength    ManagementErrorID = 0x0003
	ErrorWrongValue     ManagementErrorID = 0x0004
	ErrorNotSetable     ManagementErrorID = 0x0005
	ErrorNotSupported   ManagementErrorID = 0x0006
	ErrorGeneralError   ManagementErrorID = 0xFFFE
)

// TimeSource of grandmaster
type TimeSource uint8

// Time sources
const (
	TimeSourceAtomicClock        TimeSource = 0x10
	TimeSourceGPS                TimeSource = 0x20
	TimeSourceTerrestrialRadio   TimeSource = 0x30
	TimeSourcePTP                TimeSource = 0x40
	TimeSourceNTP                TimeSource = 0x50
	TimeSourceHandSet            TimeSource = 0x60
	TimeSourceOther              TimeSource = 0x90
	TimeSourceInternalOscillator TimeSource = 0xA0
)

// PortState as reported by PORT_DATA_SET
type PortState uint8

// Port states
const (
	PortStateInitializing PortState = 1
	PortStateFaulty       PortState = 2
	PortStateDisabled     PortState = 3
	PortStateListening    PortState = 4
	PortStatePreMaster    PortState = 5
	PortStateMaster       PortState = 6
	PortStatePassive      PortState = 7
	PortStateUncalibrated PortState = 8
	PortStateSlave        PortState = 9
)

// DelayMechanism of port
type DelayMechanism uint8

// Delay mechanisms
const (
	DelayMechanismE2E      DelayMechanism = 0x01
	DelayMechanismP2P      DelayMechanism = 0x02
	DelayMechanismDisabled DelayMechanism = 0xFE
)

// Transport of port, influences header defaults
type Transport uint8

// Transports
const (
	TransportUDPIPv4 Transport = iota + 1
	TransportUDPIPv6
	TransportIEEE8023
)

// IPMode of port
type IPMode uint8

// IP modes
const (
	IPModeMulticast IPMode = iota
	IPModeUnicast
	IPModeHybrid
)
