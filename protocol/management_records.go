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
	"github.com/dragosmaftei/ptpd/codec"
)

// Bits of management flag octets
const (
	flagLeap61                byte = 0x01
	flagLeap59                byte = 0x02
	flagCurrentUtcOffsetValid byte = 0x04
	flagPTPTimescale          byte = 0x08
	flagTimeTraceable         byte = 0x10
	flagFrequencyTraceable    byte = 0x20
	flagTwoStepClock          byte = 0x01
	flagSlaveOnly             byte = 0x02
	flagParentStats           byte = 0x01
	flagSingleBit             byte = 0x01
)

type managementEntry struct {
	name    string
	factory func() ManagementData
}

// managementRegistry maps known ids to their record shape. Entries with nil factory carry no data
var managementRegistry = map[ManagementID]managementEntry{
	ManagementNull:                     {"NULL_MANAGEMENT", nil},
	ManagementClockDescription:         {"CLOCK_DESCRIPTION", func() ManagementData { return &ClockDescription{} }},
	ManagementUserDescription:          {"USER_DESCRIPTION", func() ManagementData { return &UserDescription{} }},
	ManagementSaveInNonVolatileStorage: {"SAVE_IN_NON_VOLATILE_STORAGE", nil},
	ManagementResetNonVolatileStorage:  {"RESET_NON_VOLATILE_STORAGE", nil},
	ManagementInitialize:               {"INITIALIZE", func() ManagementData { return &Initialize{} }},
	ManagementDefaultDataSet:           {"DEFAULT_DATA_SET", func() ManagementData { return &DefaultDataSet{} }},
	ManagementCurrentDataSet:           {"CURRENT_DATA_SET", func() ManagementData { return &CurrentDataSet{} }},
	ManagementParentDataSet:            {"PARENT_DATA_SET", func() ManagementData { return &ParentDataSet{} }},
	ManagementTimePropertiesDataSet:    {"TIME_PROPERTIES_DATA_SET", func() ManagementData { return &TimePropertiesDataSet{} }},
	ManagementPortDataSet:              {"PORT_DATA_SET", func() ManagementData { return &PortDataSet{} }},
	ManagementPriority1:                {"PRIORITY1", func() ManagementData { return &Priority1{} }},
	ManagementPriority2:                {"PRIORITY2", func() ManagementData { return &Priority2{} }},
	ManagementDomain:                   {"DOMAIN", func() ManagementData { return &Domain{} }},
	ManagementSlaveOnly:                {"SLAVE_ONLY", func() ManagementData { return &SlaveOnly{} }},
	ManagementLogAnnounceInterval:      {"LOG_ANNOUNCE_INTERVAL", func() ManagementData { return &LogAnnounceInterval{} }},
	ManagementAnnounceReceiptTimeout:   {"ANNOUNCE_RECEIPT_TIMEOUT", func() ManagementData { return &AnnounceReceiptTimeout{} }},
	ManagementLogSyncInterval:          {"LOG_SYNC_INTERVAL", func() ManagementData { return &LogSyncInterval{} }},
	ManagementVersionNumber:            {"VERSION_NUMBER", func() ManagementData { return &VersionNumber{} }},
	ManagementEnablePort:               {"ENABLE_PORT", nil},
	ManagementDisablePort:              {"DISABLE_PORT", nil},
	ManagementTime:                     {"TIME", func() ManagementData { return &PTPTime{} }},
	ManagementClockAccuracy:            {"CLOCK_ACCURACY", func() ManagementData { return &ClockAccuracy{} }},
	ManagementUtcProperties:            {"UTC_PROPERTIES", func() ManagementData { return &UtcProperties{} }},
	ManagementTraceabilityProperties:   {"TRACEABILITY_PROPERTIES", func() ManagementData { return &TraceabilityProperties{} }},
	ManagementTimescaleProperties:      {"TIMESCALE_PROPERTIES", func() ManagementData { return &TimescaleProperties{} }},
	ManagementUnicastNegotiationEnable: {"UNICAST_NEGOTIATION_ENABLE", func() ManagementData { return &UnicastNegotiationEnable{} }},
	ManagementDelayMechanism:           {"DELAY_MECHANISM", func() ManagementData { return &DelayMechanismSetting{} }},
	ManagementLogMinPdelayReqInterval:  {"LOG_MIN_PDELAY_REQ_INTERVAL", func() ManagementData { return &LogMinPdelayReqInterval{} }},
}

// ClockDescription record
type ClockDescription struct {
	ClockType             uint16
	PhysicalLayerProtocol PTPText
	PhysicalAddress       PhysicalAddress
	ProtocolAddress       PortAddress
	ManufacturerIdentity  [3]byte
	ProductDescription    PTPText
	RevisionData          PTPText
	UserDescription       PTPText
	ProfileIdentity       [6]byte
}

var clockDescriptionSchema = codec.Schema[ClockDescription]{
	codec.U16("clockType", func(v *ClockDescription) *uint16 { return &v.ClockType }),
	ptpTextField("physicalLayerProtocol", func(v *ClockDescription) *PTPText { return &v.PhysicalLayerProtocol }),
	physicalAddressField("physicalAddress", func(v *ClockDescription) *PhysicalAddress { return &v.PhysicalAddress }),
	portAddressField("protocolAddress", func(v *ClockDescription) *PortAddress { return &v.ProtocolAddress }),
	codec.Octets("manufacturerIdentity", 3, func(v *ClockDescription) []byte { return v.ManufacturerIdentity[:] }),
	codec.Reserved[ClockDescription]("reserved", 1),
	ptpTextField("productDescription", func(v *ClockDescription) *PTPText { return &v.ProductDescription }),
	ptpTextField("revisionData", func(v *ClockDescription) *PTPText { return &v.RevisionData }),
	ptpTextField("userDescription", func(v *ClockDescription) *PTPText { return &v.UserDescription }),
	codec.Octets("profileIdentity", 6, func(v *ClockDescription) []byte { return v.ProfileIdentity[:] }),
}

// ManagementID implementation of ManagementData
func (v *ClockDescription) ManagementID() ManagementID   { return ManagementClockDescription }
func (v *ClockDescription) encode(w *codec.Writer)       { clockDescriptionSchema.Encode(w, v) }
func (v *ClockDescription) decode(r *codec.Reader) error { return clockDescriptionSchema.Decode(r, v) }

// Release frees every variable length field
func (v *ClockDescription) Release() {
	v.PhysicalLayerProtocol.Release()
	v.PhysicalAddress.Release()
	v.ProtocolAddress.Release()
	v.ProductDescription.Release()
	v.RevisionData.Release()
	v.UserDescription.Release()
}

// UserDescription record
type UserDescription struct {
	Description PTPText
}

var userDescriptionSchema = codec.Schema[UserDescription]{
	ptpTextField("userDescription", func(v *UserDescription) *PTPText { return &v.Description }),
}

// ManagementID implementation of ManagementData
func (v *UserDescription) ManagementID() ManagementID   { return ManagementUserDescription }
func (v *UserDescription) encode(w *codec.Writer)       { userDescriptionSchema.Encode(w, v) }
func (v *UserDescription) decode(r *codec.Reader) error { return userDescriptionSchema.Decode(r, v) }

// Release frees description text
func (v *UserDescription) Release() { v.Description.Release() }

// Initialize record
type Initialize struct {
	InitializationKey uint16
}

var initializeSchema = codec.Schema[Initialize]{
	codec.U16("initializationKey", func(v *Initialize) *uint16 { return &v.InitializationKey }),
}

// ManagementID implementation of ManagementData
func (v *Initialize) ManagementID() ManagementID   { return ManagementInitialize }
func (v *Initialize) encode(w *codec.Writer)       { initializeSchema.Encode(w, v) }
func (v *Initialize) decode(r *codec.Reader) error { return initializeSchema.Decode(r, v) }
func (v *Initialize) Release()                     {}

// DefaultDataSet record
type DefaultDataSet struct {
	TwoStepClock  bool
	SlaveOnly     bool
	NumberPorts   uint16
	Priority1     uint8
	ClockQuality  ClockQuality
	Priority2     uint8
	ClockIdentity ClockIdentity
	DomainNumber  uint8
}

var defaultDataSetSchema = codec.Schema[DefaultDataSet]{
	codec.Flags("flags",
		codec.Bit[DefaultDataSet]{Mask: flagTwoStepClock, Get: func(v *DefaultDataSet) *bool { return &v.TwoStepClock }},
		codec.Bit[DefaultDataSet]{Mask: flagSlaveOnly, Get: func(v *DefaultDataSet) *bool { return &v.SlaveOnly }}),
	codec.Reserved[DefaultDataSet]("reserved", 1),
	codec.U16("numberPorts", func(v *DefaultDataSet) *uint16 { return &v.NumberPorts }),
	codec.U8("priority1", func(v *DefaultDataSet) *uint8 { return &v.Priority1 }),
	clockQualityField("clockQuality", func(v *DefaultDataSet) *ClockQuality { return &v.ClockQuality }),
	codec.U8("priority2", func(v *DefaultDataSet) *uint8 { return &v.Priority2 }),
	clockIdentityField("clockIdentity", func(v *DefaultDataSet) *ClockIdentity { return &v.ClockIdentity }),
	codec.U8("domainNumber", func(v *DefaultDataSet) *uint8 { return &v.DomainNumber }),
	codec.Reserved[DefaultDataSet]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *DefaultDataSet) ManagementID() ManagementID   { return ManagementDefaultDataSet }
func (v *DefaultDataSet) encode(w *codec.Writer)       { defaultDataSetSchema.Encode(w, v) }
func (v *DefaultDataSet) decode(r *codec.Reader) error { return defaultDataSetSchema.Decode(r, v) }
func (v *DefaultDataSet) Release()                     {}

// CurrentDataSet record
type CurrentDataSet struct {
	StepsRemoved     uint16
	OffsetFromMaster TimeInterval
	MeanPathDelay    TimeInterval
}

var currentDataSetSchema = codec.Schema[CurrentDataSet]{
	codec.U16("stepsRemoved", func(v *CurrentDataSet) *uint16 { return &v.StepsRemoved }),
	timeIntervalField("offsetFromMaster", func(v *CurrentDataSet) *TimeInterval { return &v.OffsetFromMaster }),
	timeIntervalField("meanPathDelay", func(v *CurrentDataSet) *TimeInterval { return &v.MeanPathDelay }),
}

// ManagementID implementation of ManagementData
func (v *CurrentDataSet) ManagementID() ManagementID   { return ManagementCurrentDataSet }
func (v *CurrentDataSet) encode(w *codec.Writer)       { currentDataSetSchema.Encode(w, v) }
func (v *CurrentDataSet) decode(r *codec.Reader) error { return currentDataSetSchema.Decode(r, v) }
func (v *CurrentDataSet) Release()                     {}

// ParentDataSet record
type ParentDataSet struct {
	ParentPortIdentity                    PortIdentity
	ParentStats                           bool
	ObservedParentOffsetScaledLogVariance uint16
	ObservedParentClockPhaseChangeRate    int32
	GrandmasterPriority1                  uint8
	GrandmasterClockQuality               ClockQuality
	GrandmasterPriority2                  uint8
	GrandmasterIdentity                   ClockIdentity
}

var parentDataSetSchema = codec.Schema[ParentDataSet]{
	portIdentityField("parentPortIdentity", func(v *ParentDataSet) *PortIdentity { return &v.ParentPortIdentity }),
	codec.Flags("flags", codec.Bit[ParentDataSet]{Mask: flagParentStats, Get: func(v *ParentDataSet) *bool { return &v.ParentStats }}),
	codec.Reserved[ParentDataSet]("reserved", 1),
	codec.U16("observedParentOffsetScaledLogVariance", func(v *ParentDataSet) *uint16 { return &v.ObservedParentOffsetScaledLogVariance }),
	codec.I32("observedParentClockPhaseChangeRate", func(v *ParentDataSet) *int32 { return &v.ObservedParentClockPhaseChangeRate }),
	codec.U8("grandmasterPriority1", func(v *ParentDataSet) *uint8 { return &v.GrandmasterPriority1 }),
	clockQualityField("grandmasterClockQuality", func(v *ParentDataSet) *ClockQuality { return &v.GrandmasterClockQuality }),
	codec.U8("grandmasterPriority2", func(v *ParentDataSet) *uint8 { return &v.GrandmasterPriority2 }),
	clockIdentityField("grandmasterIdentity", func(v *ParentDataSet) *ClockIdentity { return &v.GrandmasterIdentity }),
}

// ManagementID implementation of ManagementData
func (v *ParentDataSet) ManagementID() ManagementID   { return ManagementParentDataSet }
func (v *ParentDataSet) encode(w *codec.Writer)       { parentDataSetSchema.Encode(w, v) }
func (v *ParentDataSet) decode(r *codec.Reader) error { return parentDataSetSchema.Decode(r, v) }
func (v *ParentDataSet) Release()                     {}

// TimePropertiesDataSet record
type TimePropertiesDataSet struct {
	CurrentUtcOffset      int16
	Leap61                bool
	Leap59                bool
	CurrentUtcOffsetValid bool
	PTPTimescale          bool
	TimeTraceable         bool
	FrequencyTraceable    bool
	TimeSource            TimeSource
}

var timePropertiesDataSetSchema = codec.Schema[TimePropertiesDataSet]{
	codec.I16("currentUtcOffset", func(v *TimePropertiesDataSet) *int16 { return &v.CurrentUtcOffset }),
	codec.Flags("flags",
		codec.Bit[TimePropertiesDataSet]{Mask: flagLeap61, Get: func(v *TimePropertiesDataSet) *bool { return &v.Leap61 }},
		codec.Bit[TimePropertiesDataSet]{Mask: flagLeap59, Get: func(v *TimePropertiesDataSet) *bool { return &v.Leap59 }},
		codec.Bit[TimePropertiesDataSet]{Mask: flagCurrentUtcOffsetValid, Get: func(v *TimePropertiesDataSet) *bool { return &v.CurrentUtcOffsetValid }},
		codec.Bit[TimePropertiesDataSet]{Mask: flagPTPTimescale, Get: func(v *TimePropertiesDataSet) *bool { return &v.PTPTimescale }},
		codec.Bit[TimePropertiesDataSet]{Mask: flagTimeTraceable, Get: func(v *TimePropertiesDataSet) *bool { return &v.TimeTraceable }},
		codec.Bit[TimePropertiesDataSet]{Mask: flagFrequencyTraceable, Get: func(v *TimePropertiesDataSet) *bool { return &v.FrequencyTraceable }}),
	codec.U8("timeSource", func(v *TimePropertiesDataSet) *uint8 { return (*uint8)(&v.TimeSource) }),
}

// ManagementID implementation of ManagementData
func (v *TimePropertiesDataSet) ManagementID() ManagementID { return ManagementTimePropertiesDataSet }
func (v *TimePropertiesDataSet) encode(w *codec.Writer)     { timePropertiesDataSetSchema.Encode(w, v) }
func (v *TimePropertiesDataSet) decode(r *codec.Reader) error {
	return timePropertiesDataSetSchema.Decode(r, v)
}
func (v *TimePropertiesDataSet) Release() {}

// PortDataSet record
type PortDataSet struct {
	PortIdentity            PortIdentity
	PortState               PortState
	LogMinDelayReqInterval  int8
	PeerMeanPathDelay       TimeInterval
	LogAnnounceInterval     int8
	AnnounceReceiptTimeout  uint8
	LogSyncInterval         int8
	DelayMechanism          DelayMechanism
	LogMinPdelayReqInterval int8
	VersionNumber           uint8
}

var portDataSetSchema = codec.Schema[PortDataSet]{
	portIdentityField("portIdentity", func(v *PortDataSet) *PortIdentity { return &v.PortIdentity }),
	codec.U8("portState", func(v *PortDataSet) *uint8 { return (*uint8)(&v.PortState) }),
	codec.I8("logMinDelayReqInterval", func(v *PortDataSet) *int8 { return &v.LogMinDelayReqInterval }),
	timeIntervalField("peerMeanPathDelay", func(v *PortDataSet) *TimeInterval { return &v.PeerMeanPathDelay }),
	codec.I8("logAnnounceInterval", func(v *PortDataSet) *int8 { return &v.LogAnnounceInterval }),
	codec.U8("announceReceiptTimeout", func(v *PortDataSet) *uint8 { return &v.AnnounceReceiptTimeout }),
	codec.I8("logSyncInterval", func(v *PortDataSet) *int8 { return &v.LogSyncInterval }),
	codec.U8("delayMechanism", func(v *PortDataSet) *uint8 { return (*uint8)(&v.DelayMechanism) }),
	codec.I8("logMinPdelayReqInterval", func(v *PortDataSet) *int8 { return &v.LogMinPdelayReqInterval }),
	codec.Nibbles("versionNumber", nil, func(v *PortDataSet) *uint8 { return &v.VersionNumber }),
}

// ManagementID implementation of ManagementData
func (v *PortDataSet) ManagementID() ManagementID   { return ManagementPortDataSet }
func (v *PortDataSet) encode(w *codec.Writer)       { portDataSetSchema.Encode(w, v) }
func (v *PortDataSet) decode(r *codec.Reader) error { return portDataSetSchema.Decode(r, v) }
func (v *PortDataSet) Release()                     {}

// Priority1 record
type Priority1 struct{ Priority1 uint8 }

var priority1Schema = codec.Schema[Priority1]{
	codec.U8("priority1", func(v *Priority1) *uint8 { return &v.Priority1 }),
	codec.Reserved[Priority1]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *Priority1) ManagementID() ManagementID   { return ManagementPriority1 }
func (v *Priority1) encode(w *codec.Writer)       { priority1Schema.Encode(w, v) }
func (v *Priority1) decode(r *codec.Reader) error { return priority1Schema.Decode(r, v) }
func (v *Priority1) Release()                     {}

// Priority2 record
type Priority2 struct{ Priority2 uint8 }

var priority2Schema = codec.Schema[Priority2]{
	codec.U8("priority2", func(v *Priority2) *uint8 { return &v.Priority2 }),
	codec.Reserved[Priority2]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *Priority2) ManagementID() ManagementID   { return ManagementPriority2 }
func (v *Priority2) encode(w *codec.Writer)       { priority2Schema.Encode(w, v) }
func (v *Priority2) decode(r *codec.Reader) error { return priority2Schema.Decode(r, v) }
func (v *Priority2) Release()                     {}

// Domain record
type Domain struct{ DomainNumber uint8 }

var domainSchema = codec.Schema[Domain]{
	codec.U8("domainNumber", func(v *Domain) *uint8 { return &v.DomainNumber }),
	codec.Reserved[Domain]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *Domain) ManagementID() ManagementID   { return ManagementDomain }
func (v *Domain) encode(w *codec.Writer)       { domainSchema.Encode(w, v) }
func (v *Domain) decode(r *codec.Reader) error { return domainSchema.Decode(r, v) }
func (v *Domain) Release()                     {}

// SlaveOnly record
type SlaveOnly struct{ SlaveOnly bool }

var slaveOnlySchema = codec.Schema[SlaveOnly]{
	codec.Flags("flags", codec.Bit[SlaveOnly]{Mask: flagSingleBit, Get: func(v *SlaveOnly) *bool { return &v.SlaveOnly }}),
	codec.Reserved[SlaveOnly]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *SlaveOnly) ManagementID() ManagementID   { return ManagementSlaveOnly }
func (v *SlaveOnly) encode(w *codec.Writer)       { slaveOnlySchema.Encode(w, v) }
func (v *SlaveOnly) decode(r *codec.Reader) error { return slaveOnlySchema.Decode(r, v) }
func (v *SlaveOnly) Release()                     {}

// LogAnnounceInterval record
type LogAnnounceInterval struct{ LogAnnounceInterval int8 }

var logAnnounceIntervalSchema = codec.Schema[LogAnnounceInterval]{
	codec.I8("logAnnounceInterval", func(v *LogAnnounceInterval) *int8 { return &v.LogAnnounceInterval }),
	codec.Reserved[LogAnnounceInterval]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *LogAnnounceInterval) ManagementID() ManagementID { return ManagementLogAnnounceInterval }
func (v *LogAnnounceInterval) encode(w *codec.Writer)     { logAnnounceIntervalSchema.Encode(w, v) }
func (v *LogAnnounceInterval) decode(r *codec.Reader) error {
	return logAnnounceIntervalSchema.Decode(r, v)
}
func (v *LogAnnounceInterval) Release() {}

// AnnounceReceiptTimeout record
type AnnounceReceiptTimeout struct{ AnnounceReceiptTimeout uint8 }

var announceReceiptTimeoutSchema = codec.Schema[AnnounceReceiptTimeout]{
	codec.U8("announceReceiptTimeout", func(v *AnnounceReceiptTimeout) *uint8 { return &v.AnnounceReceiptTimeout }),
	codec.Reserved[AnnounceReceiptTimeout]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *AnnounceReceiptTimeout) ManagementID() ManagementID { return ManagementAnnounceReceiptTimeout }
func (v *AnnounceReceiptTimeout) encode(w *codec.Writer)     { announceReceiptTimeoutSchema.Encode(w, v) }
func (v *AnnounceReceiptTimeout) decode(r *codec.Reader) error {
	return announceReceiptTimeoutSchema.Decode(r, v)
}
func (v *AnnounceReceiptTimeout) Release() {}

// LogSyncInterval record
type LogSyncInterval struct{ LogSyncInterval int8 }

var logSyncIntervalSchema = codec.Schema[LogSyncInterval]{
	codec.I8("logSyncInterval", func(v *LogSyncInterval) *int8 { return &v.LogSyncInterval }),
	codec.Reserved[LogSyncInterval]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *LogSyncInterval) ManagementID() ManagementID   { return ManagementLogSyncInterval }
func (v *LogSyncInterval) encode(w *codec.Writer)       { logSyncIntervalSchema.Encode(w, v) }
func (v *LogSyncInterval) decode(r *codec.Reader) error { return logSyncIntervalSchema.Decode(r, v) }
func (v *LogSyncInterval) Release()                     {}

// VersionNumber record
type VersionNumber struct{ VersionNumber uint8 }

var versionNumberSchema = codec.Schema[VersionNumber]{
	codec.Nibbles("versionNumber", nil, func(v *VersionNumber) *uint8 { return &v.VersionNumber }),
	codec.Reserved[VersionNumber]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *VersionNumber) ManagementID() ManagementID   { return ManagementVersionNumber }
func (v *VersionNumber) encode(w *codec.Writer)       { versionNumberSchema.Encode(w, v) }
func (v *VersionNumber) decode(r *codec.Reader) error { return versionNumberSchema.Decode(r, v) }
func (v *VersionNumber) Release()                     {}

// PTPTime record of TIME management id
type PTPTime struct{ CurrentTime Timestamp }

var ptpTimeSchema = codec.Schema[PTPTime]{
	timestampField("currentTime", func(v *PTPTime) *Timestamp { return &v.CurrentTime }),
}

// ManagementID implementation of ManagementData
func (v *PTPTime) ManagementID() ManagementID   { return ManagementTime }
func (v *PTPTime) encode(w *codec.Writer)       { ptpTimeSchema.Encode(w, v) }
func (v *PTPTime) decode(r *codec.Reader) error { return ptpTimeSchema.Decode(r, v) }
func (v *PTPTime) Release()                     {}

// ClockAccuracy record
type ClockAccuracy struct{ ClockAccuracy uint8 }

var clockAccuracySchema = codec.Schema[ClockAccuracy]{
	codec.U8("clockAccuracy", func(v *ClockAccuracy) *uint8 { return &v.ClockAccuracy }),
	codec.Reserved[ClockAccuracy]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *ClockAccuracy) ManagementID() ManagementID   { return ManagementClockAccuracy }
func (v *ClockAccuracy) encode(w *codec.Writer)       { clockAccuracySchema.Encode(w, v) }
func (v *ClockAccuracy) decode(r *codec.Reader) error { return clockAccuracySchema.Decode(r, v) }
func (v *ClockAccuracy) Release()                     {}

// UtcProperties record
type UtcProperties struct {
	CurrentUtcOffset      int16
	Leap61                bool
	Leap59                bool
	CurrentUtcOffsetValid bool
}

var utcPropertiesSchema = codec.Schema[UtcProperties]{
	codec.I16("currentUtcOffset", func(v *UtcProperties) *int16 { return &v.CurrentUtcOffset }),
	codec.Flags("flags",
		codec.Bit[UtcProperties]{Mask: flagLeap61, Get: func(v *UtcProperties) *bool { return &v.Leap61 }},
		codec.Bit[UtcProperties]{Mask: flagLeap59, Get: func(v *UtcProperties) *bool { return &v.Leap59 }},
		codec.Bit[UtcProperties]{Mask: flagCurrentUtcOffsetValid, Get: func(v *UtcProperties) *bool { return &v.CurrentUtcOffsetValid }}),
	codec.Reserved[UtcProperties]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *UtcProperties) ManagementID() ManagementID   { return ManagementUtcProperties }
func (v *UtcProperties) encode(w *codec.Writer)       { utcPropertiesSchema.Encode(w, v) }
func (v *UtcProperties) decode(r *codec.Reader) error { return utcPropertiesSchema.Decode(r, v) }
func (v *UtcProperties) Release()                     {}

// TraceabilityProperties record
type TraceabilityProperties struct {
	TimeTraceable      bool
	FrequencyTraceable bool
}

var traceabilityPropertiesSchema = codec.Schema[TraceabilityProperties]{
	codec.Flags("flags",
		codec.Bit[TraceabilityProperties]{Mask: flagTimeTraceable, Get: func(v *TraceabilityProperties) *bool { return &v.TimeTraceable }},
		codec.Bit[TraceabilityProperties]{Mask: flagFrequencyTraceable, Get: func(v *TraceabilityProperties) *bool { return &v.FrequencyTraceable }}),
	codec.Reserved[TraceabilityProperties]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *TraceabilityProperties) ManagementID() ManagementID { return ManagementTraceabilityProperties }
func (v *TraceabilityProperties) encode(w *codec.Writer)     { traceabilityPropertiesSchema.Encode(w, v) }
func (v *TraceabilityProperties) decode(r *codec.Reader) error {
	return traceabilityPropertiesSchema.Decode(r, v)
}
func (v *TraceabilityProperties) Release() {}

// TimescaleProperties record
type TimescaleProperties struct {
	PTPTimescale bool
	TimeSource   TimeSource
}

var timescalePropertiesSchema = codec.Schema[TimescaleProperties]{
	codec.Flags("flags", codec.Bit[TimescaleProperties]{Mask: flagPTPTimescale, Get: func(v *TimescaleProperties) *bool { return &v.PTPTimescale }}),
	codec.U8("timeSource", func(v *TimescaleProperties) *uint8 { return (*uint8)(&v.TimeSource) }),
}

// ManagementID implementation of ManagementData
func (v *TimescaleProperties) ManagementID() ManagementID { return ManagementTimescaleProperties }
func (v *TimescaleProperties) encode(w *codec.Writer)     { timescalePropertiesSchema.Encode(w, v) }
func (v *TimescaleProperties) decode(r *codec.Reader) error {
	return timescalePropertiesSchema.Decode(r, v)
}
func (v *TimescaleProperties) Release() {}

// UnicastNegotiationEnable record
type UnicastNegotiationEnable struct{ Enable bool }

var unicastNegotiationEnableSchema = codec.Schema[UnicastNegotiationEnable]{
	codec.Flags("flags", codec.Bit[UnicastNegotiationEnable]{Mask: flagSingleBit, Get: func(v *UnicastNegotiationEnable) *bool { return &v.Enable }}),
	codec.Reserved[UnicastNegotiationEnable]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *UnicastNegotiationEnable) ManagementID() ManagementID {
	return ManagementUnicastNegotiationEnable
}
func (v *UnicastNegotiationEnable) encode(w *codec.Writer) {
	unicastNegotiationEnableSchema.Encode(w, v)
}
func (v *UnicastNegotiationEnable) decode(r *codec.Reader) error {
	return unicastNegotiationEnableSchema.Decode(r, v)
}
func (v *UnicastNegotiationEnable) Release() {}

// DelayMechanismSetting record of DELAY_MECHANISM management id
type DelayMechanismSetting struct{ DelayMechanism DelayMechanism }

var delayMechanismSettingSchema = codec.Schema[DelayMechanismSetting]{
	codec.U8("delayMechanism", func(v *DelayMechanismSetting) *uint8 { return (*uint8)(&v.DelayMechanism) }),
	codec.Reserved[DelayMechanismSetting]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *DelayMechanismSetting) ManagementID() ManagementID { return ManagementDelayMechanism }
func (v *DelayMechanismSetting) encode(w *codec.Writer)     { delayMechanismSettingSchema.Encode(w, v) }
func (v *DelayMechanismSetting) decode(r *codec.Reader) error {
	return delayMechanismSettingSchema.Decode(r, v)
}
func (v *DelayMechanismSetting) Release() {}

// LogMinPdelayReqInterval record
type LogMinPdelayReqInterval struct{ LogMinPdelayReqInterval int8 }

var logMinPdelayReqIntervalSchema = codec.Schema[LogMinPdelayReqInterval]{
	codec.I8("logMinPdelayReqInterval", func(v *LogMinPdelayReqInterval) *int8 { return &v.LogMinPdelayReqInterval }),
	codec.Reserved[LogMinPdelayReqInterval]("reserved", 1),
}

// ManagementID implementation of ManagementData
func (v *LogMinPdelayReqInterval) ManagementID() ManagementID {
	return ManagementLogMinPdelayReqInterval
}
func (v *LogMinPdelayReqInterval) encode(w *codec.Writer) { logMinPdelayReqIntervalSchema.Encode(w, v) }
func (v *LogMinPdelayReqInterval) decode(r *codec.Reader) error {
	return logMinPdelayReqIntervalSchema.Decode(r, v)
}
func (v *LogMinPdelayReqInterval) Release() {}

// ErrorStatus is data of management error status TLV
type ErrorStatus struct {
	ErrorID     ManagementErrorID
	RequestedID ManagementID
	DisplayData PTPText
}

var errorStatusSchema = codec.Schema[ErrorStatus]{
	codec.U16("managementErrorId", func(v *ErrorStatus) *uint16 { return (*uint16)(&v.ErrorID) }),
	codec.U16("managementId", func(v *ErrorStatus) *uint16 { return (*uint16)(&v.RequestedID) }),
	codec.Reserved[ErrorStatus]("reserved", 4),
	ptpTextField("displayData", func(v *ErrorStatus) *PTPText { return &v.DisplayData }),
}

// ManagementID implementation of ManagementData
func (v *ErrorStatus) ManagementID() ManagementID   { return v.RequestedID }
func (v *ErrorStatus) encode(w *codec.Writer)       { errorStatusSchema.Encode(w, v) }
func (v *ErrorStatus) decode(r *codec.Reader) error { return errorStatusSchema.Decode(r, v) }

// Release frees display text
func (v *ErrorStatus) Release() { v.DisplayData.Release() }
