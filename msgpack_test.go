// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	// Integers decode as int64 (fixint and int forms) or uint64 (uint
	// forms), whatever Go integer type was packed.
	tests := []struct {
		v    any
		want any
	}{
		{nil, nil}, {true, true}, {false, false},
		{0, int64(0)}, {127, int64(127)}, {-1, int64(-1)}, {-32, int64(-32)},
		{128, uint64(128)}, {256, uint64(256)}, {-129, int64(-129)},
		{"abc", "abc"}, {"", ""}, {[]byte{0xde, 0xad}, []byte{0xde, 0xad}},
		{1.5, 1.5}, {float32(1.5), float32(1.5)},
	}
	for _, tt := range tests {
		data, err := Marshal(tt.v)
		require.NoError(t, err)
		got, err := Unmarshal(data)
		require.NoError(t, err)
		if f32, ok := tt.want.(float32); ok {
			require.Equal(t, float32(f32), got)
		} else {
			require.Equal(t, tt.want, got)
		}
	}
}

func TestMarshalArrayUnmarshalsAsSlice(t *testing.T) {
	data, err := Marshal([]int{1, 2, 3})
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, got)
}

func TestMarshalOrderedMapUnmarshalsInOrder(t *testing.T) {
	om := OrderedMap{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
	data, err := Marshal(om)
	require.NoError(t, err)
	require.Equal(t, []byte{0x82, 0xa1, 0x61, 0x01, 0xa1, 0x62, 0x02}, data)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, OrderedMap{{Key: "a", Value: int64(1)}, {Key: "b", Value: int64(2)}}, got)
}
