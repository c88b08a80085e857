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
	"testing"

	"github.com/dragosmaftei/ptpd/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	seed, err := loadSeed("00ff", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, seed)

	t.Setenv("PTP_MASTER_KEY", "0102030405060708")
	seed, err = loadSeed("", "PTP_MASTER_KEY", 3)
	require.NoError(t, err)
	expected, err := security.DeriveSeed([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 3)
	require.NoError(t, err)
	assert.Equal(t, expected, seed)

	t.Setenv("PTP_EMPTY_KEY", "")
	_, err = loadSeed("", "PTP_EMPTY_KEY", 3)
	assert.ErrorIs(t, err, security.ErrEmptyMasterKey)

	_, err = loadSeed("00", "PTP_MASTER_KEY", 0)
	assert.Error(t, err)

	first, err := loadSeed("", "", 0)
	require.NoError(t, err)
	second, err := loadSeed("", "", 0)
	require.NoError(t, err)
	assert.Len(t, first, security.KeyLength)
	assert.NotEqual(t, first, second)
}
