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

// PortSettings holds port state that influences header defaults of outgoing messages
type PortSettings struct {
	PortIdentity           PortIdentity
	DomainNumber           uint8
	TransportSpecific      uint8
	Transport              Transport
	Mode                   IPMode
	TwoStep                bool
	LogSyncInterval        int8
	LogAnnounceInterval    int8
	LogMinDelayReqInterval int8
	// TimeProperties holds leap, UTC offset validity and traceability bits of the second flag octet written to Announce
	TimeProperties uint16
}

// Packer builds outgoing messages with header fields filled according to port settings
type Packer struct {
	settings PortSettings
}

// NewPacker returns new Packer
func NewPacker(settings PortSettings) *Packer {
	return &Packer{settings: settings}
}

// Settings returns settings used by packer
func (p *Packer) Settings() PortSettings { return p.settings }

func (p *Packer) header(messageType MessageType, sequenceID uint16) Header {
	header := Header{
		TransportSpecific:  p.settings.TransportSpecific,
		MessageType:        messageType,
		VersionPTP:         Version2,
		DomainNumber:       p.settings.DomainNumber,
		SourcePortIdentity: p.settings.PortIdentity,
		SequenceID:         sequenceID,
		ControlField:       ControlField(messageType),
		LogMessageInterval: LogMessageIntervalDefault,
	}
	header.SetFlag(FlagUnicast, p.settings.Mode == IPModeUnicast)
	return header
}

// syncInterval applies logSyncInterval only where it is meaningful for receivers
func (p *Packer) syncInterval(header *Header) {
	if p.settings.Transport == TransportIEEE8023 || p.settings.Mode != IPModeUnicast {
		header.LogMessageInterval = p.settings.LogSyncInterval
	}
}

// Sync returns Sync message
func (p *Packer) Sync(sequenceID uint16, origin Timestamp) *Message {
	header := p.header(MessageSync, sequenceID)
	header.SetFlag(FlagTwoStep, p.settings.TwoStep)
	p.syncInterval(&header)
	return &Message{Header: header, Body: &Sync{OriginTimestamp: origin}}
}

// FollowUp returns FollowUp message for Sync with sequenceID
func (p *Packer) FollowUp(sequenceID uint16, preciseOrigin Timestamp) *Message {
	header := p.header(MessageFollowUp, sequenceID)
	p.syncInterval(&header)
	return &Message{Header: header, Body: &FollowUp{PreciseOriginTimestamp: preciseOrigin}}
}

// Announce returns Announce message
func (p *Packer) Announce(sequenceID uint16, announce Announce) *Message {
	header := p.header(MessageAnnounce, sequenceID)
	header.FlagField |= p.settings.TimeProperties & 0x00FF
	header.LogMessageInterval = p.settings.LogAnnounceInterval
	return &Message{Header: header, Body: &announce}
}

// DelayReq returns DelayReq message
func (p *Packer) DelayReq(sequenceID uint16, origin Timestamp) *Message {
	header := p.header(MessageDelayReq, sequenceID)
	if p.settings.Mode == IPModeHybrid {
		header.SetFlag(FlagUnicast, true)
	}
	return &Message{Header: header, Body: &DelayReq{OriginTimestamp: origin}}
}

// DelayResp returns response to DelayReq described by request header
func (p *Packer) DelayResp(request *Header, receive Timestamp) *Message {
	header := p.header(MessageDelayResp, request.SequenceID)
	header.DomainNumber = request.DomainNumber
	header.CorrectionField = request.CorrectionField
	unicast := request.HasFlag(FlagUnicast)
	header.SetFlag(FlagUnicast, unicast)
	if !unicast {
		header.LogMessageInterval = p.settings.LogMinDelayReqInterval
	}
	return &Message{Header: header, Body: &DelayResp{
		ReceiveTimestamp:       receive,
		RequestingPortIdentity: request.SourcePortIdentity,
	}}
}

// PdelayReq returns PdelayReq message
func (p *Packer) PdelayReq(sequenceID uint16, origin Timestamp) *Message {
	header := p.header(MessagePdelayReq, sequenceID)
	return &Message{Header: header, Body: &PdelayReq{OriginTimestamp: origin}}
}

// PdelayResp returns response to PdelayReq described by request header
func (p *Packer) PdelayResp(request *Header, requestReceipt Timestamp) *Message {
	header := p.header(MessagePdelayResp, request.SequenceID)
	header.DomainNumber = request.DomainNumber
	header.SetFlag(FlagTwoStep, p.settings.TwoStep)
	header.SetFlag(FlagUnicast, request.HasFlag(FlagUnicast))
	return &Message{Header: header, Body: &PdelayResp{
		RequestReceiptTimestamp: requestReceipt,
		RequestingPortIdentity:  request.SourcePortIdentity,
	}}
}

// PdelayRespFollowUp returns follow up of PdelayResp for request described by request header
func (p *Packer) PdelayRespFollowUp(request *Header, responseOrigin Timestamp) *Message {
	header := p.header(MessagePdelayRespFollowUp, request.SequenceID)
	header.CorrectionField = request.CorrectionField
	header.SetFlag(FlagUnicast, request.HasFlag(FlagUnicast))
	return &Message{Header: header, Body: &PdelayRespFollowUp{
		ResponseOriginTimestamp: responseOrigin,
		RequestingPortIdentity:  request.SourcePortIdentity,
	}}
}

// Management returns management message carrying tlv, which may be nil
func (p *Packer) Management(sequenceID uint16, target PortIdentity, action Action, boundaryHops uint8, tlv *ManagementTLV) *Message {
	header := p.header(MessageManagement, sequenceID)
	return &Message{Header: header, Body: &Management{
		TargetPortIdentity:   target,
		StartingBoundaryHops: boundaryHops,
		BoundaryHops:         boundaryHops,
		ActionField:          action,
		TLV:                  tlv,
	}}
}

// Signaling returns signaling message carrying tlvs
func (p *Packer) Signaling(sequenceID uint16, target PortIdentity, tlvs ...SignalingTLV) *Message {
	header := p.header(MessageSignaling, sequenceID)
	return &Message{Header: header, Body: &Signaling{TargetPortIdentity: target, TLVs: tlvs}}
}
