// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndRead1(t *testing.T) {
	var b Buffer
	b.Append([]byte("ab"))
	b.AppendByte('c')

	require.Equal(t, int('a'), b.Read1())
	require.Equal(t, int('b'), b.Read1())
	require.Equal(t, int('c'), b.Read1())
	require.Equal(t, -1, b.Read1())
}

func TestReadCastBlockRequiresContiguity(t *testing.T) {
	var b Buffer
	b.Append([]byte{0x01, 0x02, 0x03, 0x04})

	block := b.ReadCastBlock(4)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, block)
	b.Advance(4)
	require.Nil(t, b.ReadCastBlock(1))
}

func TestReadTopAsStringAcrossEmptyBuffer(t *testing.T) {
	var b Buffer
	// Zero-length reads always succeed, even on an empty buffer.
	got, ok := b.ReadTopAsString(0, false)
	require.True(t, ok)
	require.Empty(t, got)

	_, ok = b.ReadTopAsString(1, false)
	require.False(t, ok)
}

func TestReadToStringSpansMultipleAppends(t *testing.T) {
	var b Buffer
	b.Append([]byte("hello, "))
	b.Append([]byte("world"))

	dst := make([]byte, 12)
	n := b.ReadToString(dst)
	require.Equal(t, 12, n)
	require.Equal(t, "hello, world", string(dst))
}

func TestFlushWritesAndDiscards(t *testing.T) {
	var b Buffer
	b.Append([]byte("payload"))

	var out bytes.Buffer
	require.NoError(t, b.Flush(&out))
	require.Equal(t, "payload", out.String())
	require.Zero(t, b.Len())
}

func TestAllAsStringConcatenatesChunks(t *testing.T) {
	var b Buffer
	for i := 0; i < 4096; i++ {
		b.AppendByte('x')
	}
	b.AppendByte('y') // forces a second chunk once the first is full
	require.Equal(t, 4097, len(b.AllAsString()))
}

func TestResetClearsState(t *testing.T) {
	var b Buffer
	b.Append([]byte("data"))
	b.Reset()
	require.Zero(t, b.Len())
	require.Equal(t, -1, b.Read1())
}
