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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dragosmaftei/ptpd/utils"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PTP transport constants
const (
	EventPort        = 319
	GeneralPort      = 320
	EthernetTypePTP  = layers.EthernetType(0x88F7)
	maxHexLineLength = 1 << 20
	hexCommentMarker = "#"
)

// ErrNoPackets returned when input holds no PTP packet
var ErrNoPackets = errors.New("no PTP packets found")

// readHexPackets returns one packet per non empty line of reader. Lines starting with # are skipped
func readHexPackets(reader io.Reader) ([][]byte, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxHexLineLength)
	var packets [][]byte
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, hexCommentMarker) {
			continue
		}
		packet, err := utils.DecodeHex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		packets = append(packets, packet)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(packets) == 0 {
		return nil, ErrNoPackets
	}
	return packets, nil
}

// readCapturePackets extracts PTP messages from classic pcap capture: UDP payloads of ports 319 and 320 and ethernet
// frames of type 0x88F7, VLAN tagged or not
func readCapturePackets(reader io.Reader) ([][]byte, error) {
	capture, err := pcapgo.NewReader(reader)
	if err != nil {
		return nil, err
	}
	source := gopacket.NewPacketSource(capture, capture.LinkType())
	source.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}
	var packets [][]byte
	for {
		packet, err := source.NextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if payload := ptpPayload(packet); payload != nil {
			packets = append(packets, append([]byte(nil), payload...))
		}
	}
	if len(packets) == 0 {
		return nil, ErrNoPackets
	}
	return packets, nil
}

func ptpPayload(packet gopacket.Packet) []byte {
	if layer := packet.Layer(layers.LayerTypeUDP); layer != nil {
		udp := layer.(*layers.UDP)
		if isPTPPort(udp.DstPort) || isPTPPort(udp.SrcPort) {
			return udp.Payload
		}
		return nil
	}
	if layer := packet.Layer(layers.LayerTypeDot1Q); layer != nil {
		if vlan := layer.(*layers.Dot1Q); vlan.Type == EthernetTypePTP {
			return vlan.Payload
		}
		return nil
	}
	if layer := packet.Layer(layers.LayerTypeEthernet); layer != nil {
		if ethernet := layer.(*layers.Ethernet); ethernet.EthernetType == EthernetTypePTP {
			return ethernet.Payload
		}
	}
	return nil
}

func isPTPPort(port layers.UDPPort) bool {
	return port == EventPort || port == GeneralPort
}
