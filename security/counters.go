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

// Counters of one security context. Every security failure also increments SecurityErrors
type Counters struct {
	SecurityErrors                  uint64
	AuthenticationTLVExpectedErrors uint64
	LengthMismatchErrors            uint64
	SPPMismatchErrors               uint64
	KeyIDMismatchErrors             uint64
	ICVMismatchErrors               uint64
	SafePackets                     uint64
	UnsafePackets                   uint64
	KeyVerificationSuccesses        uint64
	KeyVerificationFails            uint64
	InsecureSentBeforeStart         uint64
	InsecureSentAfterChainEnd       uint64
	FormatErrors                    uint64
	UnsupportedTLVs                 uint64
	DeferredPackets                 uint64
	ReleasedFailures                uint64
}

func (c *Context) securityError(counter *uint64, reason string) {
	c.counters.SecurityErrors++
	if counter != nil {
		*counter++
	}
	ErrorsCounter.WithLabelValues(reason).Inc()
}

func (c *Context) keyVerification(success bool) {
	if success {
		c.counters.KeyVerificationSuccesses++
		KeyVerificationsCounter.WithLabelValues(StatusSuccess).Inc()
		return
	}
	c.counters.KeyVerificationFails++
	KeyVerificationsCounter.WithLabelValues(StatusFail).Inc()
}

func (c *Context) insecureSent(counter *uint64, reason string) {
	*counter++
	InsecureSentCounter.WithLabelValues(reason).Inc()
}
