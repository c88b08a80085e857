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

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/protocol"
	"github.com/dragosmaftei/ptpd/security"
)

// summary counts verdicts of replayed packets
type summary map[string]int

// inspector prints decoded packets and runs them through receive pipeline when security is configured. Logger is
// taken from context passed to run
type inspector struct {
	output  io.Writer
	context *security.Context
	role    security.Role
}

func (i *inspector) run(ctx context.Context, packets [][]byte) summary {
	result := summary{}
	for index, packet := range packets {
		result[i.inspect(ctx, index+1, packet)]++
	}
	return result
}

// inspect prints packet and returns its verdict
func (i *inspector) inspect(ctx context.Context, index int, packet []byte) string {
	logger := logging.GetLoggerFromContext(ctx).WithField("packet", index)
	if logging.IsDebugLevel(logger) {
		logger.Debugf("Raw packet %x", packet)
	}
	if i.context == nil {
		msg, err := protocol.Unmarshal(packet)
		if err != nil {
			logger.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCodecDecode).WithError(err).Debugf("Can't decode packet #%d", index)
			fmt.Fprintf(i.output, "#%d decode error: %v\n", index, err)
			return security.RejectedFormat.String()
		}
		defer msg.Release()
		i.describe(index, msg)
		return "decoded"
	}

	result := i.context.Receive(packet, i.role)
	if result.Message != nil {
		defer result.Message.Release()
		i.describe(index, result.Message)
	}
	fmt.Fprintf(i.output, "  verdict: %s", result.Verdict)
	if result.Interval >= 0 {
		fmt.Fprintf(i.output, " interval=%d", result.Interval)
	}
	if result.Err != nil {
		fmt.Fprintf(i.output, " error=%q", result.Err.Error())
	}
	fmt.Fprintln(i.output)
	for _, released := range result.Released {
		status := "ok"
		if released.ICVFailed {
			status = "icv_mismatch"
		}
		header, err := protocol.DecodeHeader(released.Raw)
		if err != nil {
			fmt.Fprintf(i.output, "  released: interval=%d %s\n", released.Interval, status)
			continue
		}
		fmt.Fprintf(i.output, "  released: interval=%d %s seq=%d %s\n", released.Interval, header.MessageType, header.SequenceID, status)
	}
	return result.Verdict.String()
}

func (i *inspector) describe(index int, msg *protocol.Message) {
	header := &msg.Header
	fmt.Fprintf(i.output, "#%d %s seq=%d domain=%d length=%d flags=0x%04x correction=%d source=%s control=%d log_interval=%d\n",
		index, header.MessageType, header.SequenceID, header.DomainNumber, header.MessageLength, header.FlagField,
		int64(header.CorrectionField), header.SourcePortIdentity, header.ControlField, header.LogMessageInterval)
	switch body := msg.Body.(type) {
	case *protocol.Management:
		fmt.Fprintf(i.output, "  target=%s action=%d boundary_hops=%d/%d\n",
			body.TargetPortIdentity, body.ActionField, body.BoundaryHops, body.StartingBoundaryHops)
		if body.TLV != nil {
			i.describeTLV(body.TLV.TLVType, body.TLV.LengthField, body.TLV.Supported())
			fmt.Fprintf(i.output, "    id=0x%04x data=%+v\n", uint16(body.TLV.ManagementID), body.TLV.Data)
		}
	case *protocol.Signaling:
		fmt.Fprintf(i.output, "  target=%s\n", body.TargetPortIdentity)
		for n := range body.TLVs {
			tlv := &body.TLVs[n]
			i.describeTLV(tlv.TLVType, tlv.LengthField, tlv.Supported())
			if tlv.Value != nil {
				fmt.Fprintf(i.output, "    value=%+v\n", tlv.Value)
			}
		}
	default:
		fmt.Fprintf(i.output, "  body: %+v\n", msg.Body)
	}
}

func (i *inspector) describeTLV(tlvType protocol.TLVType, length uint16, supported bool) {
	fmt.Fprintf(i.output, "  tlv type=0x%04x length=%d", uint16(tlvType), length)
	if !supported {
		fmt.Fprint(i.output, " unsupported")
	}
	fmt.Fprintln(i.output)
}
