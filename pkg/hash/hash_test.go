// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", String())
	assert.Equal(t, String([]byte("ab"), []byte("c")), String([]byte("abc")))
	assert.NotEqual(t, String([]byte{0}), String([]byte{1}))
}

func TestSeed(t *testing.T) {
	// First 8 bytes of the empty input SHA1, little-endian.
	assert.Equal(t, int64(0x0d4b6b5eeea339da), Hash().Seed())
	assert.Equal(t, Hash([]byte("task 1")).Seed(), Hash([]byte("task"), []byte(" 1")).Seed())
	assert.NotEqual(t, Hash([]byte("task 1")).Seed(), Hash([]byte("task 2")).Seed())
}
