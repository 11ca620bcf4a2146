// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyHead(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want headKind
	}{
		{"positive fixint zero", 0x00, headPosFixint},
		{"positive fixint max", 0x7f, headPosFixint},
		{"fixmap", 0x80, headFixmap},
		{"fixarray", 0x90, headFixarray},
		{"fixstr", 0xa0, headFixstr},
		{"nil", 0xc0, headNil},
		{"invalid byte", 0xc1, headInvalid},
		{"false", 0xc2, headBool},
		{"true", 0xc3, headBool},
		{"bin8", 0xc4, headBin},
		{"ext8", 0xc7, headExt},
		{"float32", 0xca, headFloat},
		{"uint8", 0xcc, headUint},
		{"int8", 0xd0, headInt},
		{"fixext1", 0xd4, headFixext},
		{"str8", 0xd9, headStr},
		{"array16", 0xdc, headArray},
		{"map16", 0xde, headMap},
		{"negative fixint", 0xff, headNegFixint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, classifyHead(tt.b))
		})
	}
}

func TestLenClassHeader(t *testing.T) {
	tests := []struct {
		name  string
		class lenClass
		n     uint64
		want  []byte
	}{
		{"fixstr empty", classStr, 0, []byte{0xa0}},
		{"fixstr three", classStr, 3, []byte{0xa3}},
		{"str8 boundary", classStr, 31, []byte{0xa0 | 31}},
		{"str8 over fix", classStr, 32, []byte{mpStr8, 32}},
		{"str16", classStr, 256, []byte{mpStr16, 0x01, 0x00}},
		{"str32", classStr, 70000, []byte{mpStr32, 0x00, 0x01, 0x11, 0x70}},
		{"bin8 never uses fix", classBin, 0, []byte{mpBin8, 0}},
		{"fixarray", classArray, 3, []byte{0x93}},
		{"array16", classArray, 16, []byte{mpArray16, 0x00, 0x10}},
		{"fixmap", classMap, 2, []byte{0x82}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.class.header(tt.n))
		})
	}
}

func TestHeaderTotalLen(t *testing.T) {
	tests := []struct {
		name string
		kind headKind
		head byte
		want int8
	}{
		{"fixint", headPosFixint, 0x05, 1},
		{"uint8", headUint, mpUint8, 2},
		{"uint64", headUint, mpUint64, 9},
		{"int16", headInt, mpInt16, 3},
		{"float32", headFloat, mpFloat32, 5},
		{"float64", headFloat, mpFloat64, 9},
		{"bin32", headBin, mpBin32, 5},
		{"str16", headStr, mpStr16, 3},
		{"array32", headArray, mpArray32, 5},
		{"map16", headMap, mpMap16, 3},
		{"fixext", headFixext, mpFixExt4, 2},
		{"ext8", headExt, mpExt8, 3},
		{"ext16", headExt, mpExt16, 4},
		{"ext32", headExt, mpExt32, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, headerTotalLen(tt.kind, tt.head))
		})
	}
}

func TestObjectTypeMapping(t *testing.T) {
	require.Equal(t, IntegerType, headPosFixint.objectType())
	require.Equal(t, MapType, headFixmap.objectType())
	require.Equal(t, ArrayType, headArray.objectType())
	require.Equal(t, RawType, headBin.objectType())
	require.Equal(t, NilType, headNil.objectType())
	require.Equal(t, BooleanType, headBool.objectType())
	require.Equal(t, FloatType, headFloat.objectType())
	require.Equal(t, ExtType, headFixext.objectType())
	require.Equal(t, InvalidType, headInvalid.objectType())
}
