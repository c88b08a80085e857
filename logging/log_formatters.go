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

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/dragosmaftei/ptpd/utils"
	"github.com/sirupsen/logrus"
)

// Keys of fields added by formatters or used across components
const (
	FieldKeyUnixTime  = "unixTime"
	FieldKeyProduct   = "product"
	FieldKeyVersion   = "version"
	FieldKeyEventCode = "code"
	FieldKeyPort      = "port"
)

// JSONFieldMap renames logrus default keys in JSON output
var JSONFieldMap = logrus.FieldMap{
	logrus.FieldKeyTime:  "timestamp",
	logrus.FieldKeyMsg:   "msg",
	logrus.FieldKeyLevel: "level",
}

// Using a pool to re-use of old entries when formatting messages
var entryPool = sync.Pool{
	New: func() interface{} {
		return &logrus.Entry{}
	},
}

// copyEntry copies the entry `e` to a new entry and then adds all the fields in `fields` that are missing in the new entry data.
// It uses `entryPool` to re-use allocated entries.
func copyEntry(e *logrus.Entry, fields logrus.Fields) *logrus.Entry {
	ne := entryPool.Get().(*logrus.Entry)
	ne.Logger = e.Logger
	ne.Message = e.Message
	ne.Level = e.Level
	ne.Time = e.Time
	ne.Caller = e.Caller
	ne.Data = logrus.Fields{}
	for k, v := range fields {
		ne.Data[k] = v
	}
	for k, v := range e.Data {
		ne.Data[k] = v
	}
	return ne
}

// releaseEntry puts the given entry back to `entryPool`. It must be called if copyEntry is called.
func releaseEntry(e *logrus.Entry) {
	entryPool.Put(e)
}

type hookedFormatter struct {
	hooks []FormatterHook
}

func (f *hookedFormatter) SetHooks(hooks []FormatterHook) {
	f.hooks = hooks
}

func (f *hookedFormatter) format(e *logrus.Entry, formatter logrus.Formatter, fields logrus.Fields) ([]byte, error) {
	ne := copyEntry(e, fields)
	defer releaseEntry(ne)
	for _, hook := range f.hooks {
		if err := hook.PreFormat(ne); err != nil {
			return nil, err
		}
	}
	data, err := formatter.Format(ne)
	if err != nil {
		return nil, err
	}
	buffer := bytes.NewBuffer(data)
	for _, hook := range f.hooks {
		if err := hook.PostFormat(ne, buffer); err != nil {
			return nil, err
		}
	}
	return buffer.Bytes(), nil
}

// PlaintextFormatter formats entries with logrus.TextFormatter
type PlaintextFormatter struct {
	hookedFormatter
	formatter *logrus.TextFormatter
}

// TextFormatter returns a default logrus.TextFormatter with specific settings
func TextFormatter() FormatterWrapper {
	return &PlaintextFormatter{
		formatter: &logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  time.RFC3339,
			QuoteEmptyFields: true,
			DisableColors:    true,
		},
	}
}

// SetServiceName is ignored by plaintext output
func (f *PlaintextFormatter) SetServiceName(serviceName string) {}

// Format implementation of logrus.Formatter
func (f *PlaintextFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return f.format(e, f.formatter, nil)
}

// PtpJSONFormatter adds product, version and unix time fields to logrus.JSONFormatter output
type PtpJSONFormatter struct {
	hookedFormatter
	formatter *logrus.JSONFormatter
	lock      sync.Mutex
	fields    logrus.Fields
}

// JSONFormatter returns a PtpJSONFormatter
func JSONFormatter() FormatterWrapper {
	return &PtpJSONFormatter{
		formatter: &logrus.JSONFormatter{
			FieldMap:        JSONFieldMap,
			TimestampFormat: time.RFC3339,
		},
		fields: logrus.Fields{
			FieldKeyProduct: "ptpd",
			FieldKeyVersion: utils.VERSION,
		},
	}
}

// SetServiceName sets product field
func (f *PtpJSONFormatter) SetServiceName(serviceName string) {
	f.lock.Lock()
	f.fields[FieldKeyProduct] = serviceName
	f.lock.Unlock()
}

// Format implementation of logrus.Formatter. The given entry is copied and not changed during formatting
func (f *PtpJSONFormatter) Format(e *logrus.Entry) ([]byte, error) {
	f.lock.Lock()
	fields := make(logrus.Fields, len(f.fields)+1)
	for k, v := range f.fields {
		fields[k] = v
	}
	f.lock.Unlock()
	fields[FieldKeyUnixTime] = unixTimeWithMilliseconds(e)
	return f.format(e, f.formatter, fields)
}

func unixTimeWithMilliseconds(e *logrus.Entry) string {
	millis := e.Time.UnixNano() / int64(time.Millisecond)
	return fmt.Sprintf("%.3f", float64(millis)/1000.0)
}
