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
	"errors"
	"fmt"
)

// ErrBufferFull returned when interval queue reached its limit
var ErrBufferFull = errors.New("delayed buffer is full")

// BufferedMessage is a secured message waiting for the key of its interval
type BufferedMessage struct {
	Raw       []byte
	Interval  int
	ICVFailed bool
}

// DelayedBuffer keeps one FIFO queue per interval of key chain
type DelayedBuffer struct {
	queues  [][]BufferedMessage
	limit   int
	total   int
	pending int
}

// NewDelayedBuffer returns buffer for intervals queues. limit bounds every queue and total bounds all queues
// together, 0 means unbounded
func NewDelayedBuffer(intervals, limit, total int) *DelayedBuffer {
	return &DelayedBuffer{queues: make([][]BufferedMessage, intervals), limit: limit, total: total}
}

func (b *DelayedBuffer) check(interval int) error {
	if interval < 0 || interval >= len(b.queues) {
		return fmt.Errorf("%w: %d, buffered intervals %d", ErrIntervalOutOfRange, interval, len(b.queues))
	}
	return nil
}

// Enqueue stores copy of raw at the tail of interval queue
func (b *DelayedBuffer) Enqueue(interval int, raw []byte) error {
	if err := b.check(interval); err != nil {
		return err
	}
	if b.limit > 0 && len(b.queues[interval]) >= b.limit {
		return fmt.Errorf("%w: interval %d holds %d messages", ErrBufferFull, interval, b.limit)
	}
	if b.total > 0 && b.pending >= b.total {
		return fmt.Errorf("%w: %d messages pending", ErrBufferFull, b.pending)
	}
	b.queues[interval] = append(b.queues[interval], BufferedMessage{
		Raw:      append([]byte(nil), raw...),
		Interval: interval,
	})
	b.pending++
	return nil
}

// Drain removes every message of interval in arrival order, marking each with the result of verify
func (b *DelayedBuffer) Drain(interval int, verify func(raw []byte) bool) ([]BufferedMessage, error) {
	if err := b.check(interval); err != nil {
		return nil, err
	}
	drained := b.queues[interval]
	b.queues[interval] = nil
	b.pending -= len(drained)
	for i := range drained {
		drained[i].ICVFailed = !verify(drained[i].Raw)
	}
	return drained, nil
}

// Len returns count of messages waiting in interval queue
func (b *DelayedBuffer) Len(interval int) int {
	if b.check(interval) != nil {
		return 0
	}
	return len(b.queues[interval])
}

// Pending returns count of messages waiting in all queues
func (b *DelayedBuffer) Pending() int { return b.pending }

// Close releases every queue
func (b *DelayedBuffer) Close() {
	for i := range b.queues {
		b.queues[i] = nil
	}
	b.pending = 0
}
