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

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// VERSION is current ptpd version
// store it as string instead initialized struct value to easy change/grep/sed/replace value via scripts or with
// -ldflags "-X github.com/dragosmaftei/ptpd/utils.VERSION=X.X.X"
var VERSION = "0.3.0"

// Version store version info
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// ComparisonStatus is result of version comparison
type ComparisonStatus int

// Comparison results
const (
	Less    ComparisonStatus = iota - 1 // -1
	Equal                               // 0
	Greater                             // 1
)

func compareUint32(v1, v2 uint32) ComparisonStatus {
	switch {
	case v1 < v2:
		return Less
	case v1 > v2:
		return Greater
	}
	return Equal
}

// Compare compare v with v2 and return ComparisonStatus [Less|Equal|Greater]
func (v *Version) Compare(v2 *Version) ComparisonStatus {
	if res := compareUint32(v.Major, v2.Major); res != Equal {
		return res
	}
	if res := compareUint32(v.Minor, v2.Minor); res != Equal {
		return res
	}
	return compareUint32(v.Patch, v2.Patch)
}

// String format version as string
func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MajorAsFloat64 return major number as float64
func (v *Version) MajorAsFloat64() float64 { return float64(v.Major) }

// MinorAsFloat64 return minor number as float64
func (v *Version) MinorAsFloat64() float64 { return float64(v.Minor) }

// PatchAsFloat64 return patch number as float64
func (v *Version) PatchAsFloat64() float64 { return float64(v.Patch) }

const (
	major = iota
	minor
	patch
)

// ErrInvalidVersionFormat error for incorrectly formatted version value
var ErrInvalidVersionFormat = errors.New("VERSION value has incorrect format (semver 2.0.0 format expected, https://semver.org/)")

// ParseVersion and return as struct
func ParseVersion(version string) (*Version, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidVersionFormat
	}
	var values [3]uint32
	for i, part := range parts {
		value, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		values[i] = uint32(value)
	}
	return &Version{Major: values[major], Minor: values[minor], Patch: values[patch]}, nil
}

// GetParsedVersion return version as Version struct
func GetParsedVersion() (*Version, error) {
	return ParseVersion(VERSION)
}
