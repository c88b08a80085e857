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

package cmd

import (
	"net"
	"os"
	"os/signal"
	"syscall"
)

// Priority is applied to callback or defer function
type Priority int

// Priorities
const (
	Last Priority = iota
	Indifferent
)

// PriorityFunc is a function with priority of execution
type PriorityFunc struct {
	fn       func()
	priority Priority
}

// NewPriorityFunc creates function with priority
func NewPriorityFunc(fn func(), priority Priority) *PriorityFunc {
	return &PriorityFunc{fn: fn, priority: priority}
}

// GetPriority is a getter for function priority
func (f *PriorityFunc) GetPriority() Priority {
	return f.priority
}

// Call executes function
func (f *PriorityFunc) Call() {
	f.fn()
}

// priorityQueue keeps functions in order of addition and allows one function with Last priority
type priorityQueue []*PriorityFunc

func (q *priorityQueue) add(input *PriorityFunc) {
	if input.GetPriority() == Last {
		for _, fn := range *q {
			if fn.GetPriority() == Last {
				panic("function with 'Last' priority has been already specified")
			}
		}
	}
	*q = append(*q, input)
}

func (q priorityQueue) call() {
	var last *PriorityFunc
	for _, fn := range q {
		if fn.GetPriority() == Last {
			last = fn
			continue
		}
		fn.Call()
	}
	if last != nil {
		last.Call()
	}
}

// ExitHandler waits for termination signals, closes listeners and calls callbacks then defer functions
type ExitHandler struct {
	signals        []os.Signal
	listeners      []net.Listener
	callbacks      priorityQueue
	deferFunctions priorityQueue
	notification   chan os.Signal
}

// NewExitHandler returns handler of SIGINT and SIGTERM
func NewExitHandler() *ExitHandler {
	return &ExitHandler{
		signals:      []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		notification: make(chan os.Signal, 1),
	}
}

// AddListener closed on exit
func (s *ExitHandler) AddListener(listener net.Listener) {
	s.listeners = append(s.listeners, listener)
}

// AddCallback appends callback called on signal
func (s *ExitHandler) AddCallback(callback *PriorityFunc) {
	s.callbacks.add(callback)
}

// AddDeferFunc appends function called after callbacks on any exit
func (s *ExitHandler) AddDeferFunc(deferFunc *PriorityFunc) {
	s.deferFunctions.add(deferFunc)
}

func (s *ExitHandler) waitAndHandle(onSignal func()) os.Signal {
	signal.Notify(s.notification, s.signals...)
	defer signal.Stop(s.notification)
	received := <-s.notification
	onSignal()
	return received
}

// WaitForExitSystemSignal blocks until signal and exits with 0 code.
// It should be used in separate goroutine in main function of service
func (s *ExitHandler) WaitForExitSystemSignal() {
	s.waitAndHandle(s.ExitZero)
}

// ExitZero is a single point for exiting from the service with 0 code
func (s *ExitHandler) ExitZero() {
	s.gracefulExit()
	os.Exit(0)
}

// ExitOne is a single point for exiting from the service with 1 code
func (s *ExitHandler) ExitOne() {
	s.gracefulExit()
	os.Exit(1)
}

func (s *ExitHandler) gracefulExit() {
	for _, listener := range s.listeners {
		listener.Close()
	}
	s.callbacks.call()
	s.deferFunctions.call()
}
