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

// Package utils contains helpers shared by ptpd packages: key zeroization, file helpers and version info.
package utils

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
)

// ErrEmptyPath returned for empty file path
var ErrEmptyPath = errors.New("empty path")

// ZeroizeSymmetricKey overwrites key with zeroes
func ZeroizeSymmetricKey(key []byte) {
	FillSlice(0, key)
}

// FillSlice sets every byte of data to value
func FillSlice(value byte, data []byte) {
	for i := range data {
		data[i] = value
	}
}

// AbsPath expands leading ~/ to home directory of current user
func AbsPath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path, err
		}
		return strings.Replace(path, "~", usr.HomeDir, 1), nil
	}
	return path, nil
}

// ReadFile returns content of file at path
func ReadFile(path string) ([]byte, error) {
	absPath, err := AbsPath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(absPath)
}

// FileExists reports whether file at path exists
func FileExists(path string) (bool, error) {
	absPath, err := AbsPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DecodeHex decodes hex string ignoring surrounding whitespace, optional 0x prefix and ':' or ' ' separators
func DecodeHex(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	value = strings.NewReplacer(":", "", " ", "").Replace(value)
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value: %w", err)
	}
	return data, nil
}
