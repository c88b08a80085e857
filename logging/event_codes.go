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

package logging

// Event codes for different events in ptpd components, splitted by groups
const (
	// 100 .. 200 some events
	EventCodeGeneral = 100

	// security processing
	EventCodeSecuredMessageAccepted   = 110
	EventCodeInsecureMessageAccepted  = 111
	EventCodeMessageDeferred          = 112
	EventCodeKeyVerified              = 113
	EventCodeBufferedMessagesReleased = 114
	EventCodeInsecureMessageSent      = 115

	// 500 .. 600 errors
	EventCodeErrorGeneral    = 500
	EventCodeErrorWrongParam = 501

	// processes
	EventCodeErrorCantStartService      = 505
	EventCodeErrorWrongConfiguration    = 507
	EventCodeErrorCantReadServiceConfig = 508

	// keys
	EventCodeErrorCantReadKeys      = 511
	EventCodeErrorCantLoadMasterKey = 512
	EventCodeErrorCantGenerateChain = 514
	EventCodeErrorCantWriteKeys     = 515

	// transport
	EventCodeErrorCantStartListenConnections = 530
	EventCodeErrorCantReadCapture            = 540

	// message codec
	EventCodeErrorCodecDecode         = 600
	EventCodeErrorCodecEncode         = 601
	EventCodeErrorCodecUnsupportedTLV = 602

	// security processing
	EventCodeErrorSecurityMissingTLV      = 610
	EventCodeErrorSecurityMalformedTLV    = 611
	EventCodeErrorSecurityLengthMismatch  = 612
	EventCodeErrorSecuritySPPMismatch     = 613
	EventCodeErrorSecurityKeyIDMismatch   = 614
	EventCodeErrorSecurityICVMismatch     = 615
	EventCodeErrorSecurityUnsafePacket    = 616
	EventCodeErrorSecurityKeyVerification = 617
	EventCodeErrorSecurityBufferFull      = 618
	EventCodeErrorSecurityReleasedFailure = 619
	EventCodeErrorSecurityCantSecure      = 620
)
