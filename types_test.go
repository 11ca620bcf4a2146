// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	type myInt int32
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"nil", nil, KindNil},
		{"bool", true, KindBool},
		{"int", 7, KindInt},
		{"named int", myInt(7), KindInt},
		{"uint", uint(7), KindUint},
		{"float32", float32(1.5), KindFloat32},
		{"float64", 1.5, KindFloat64},
		{"string", "abc", KindString},
		{"symbol", Symbol("abc"), KindString},
		{"binary", []byte("abc"), KindBinary},
		{"ext", ExtensionType{Type: 1}, KindExt},
		{"ordered map", OrderedMap{}, KindMap},
		{"plain map", map[string]int{}, KindMap},
		{"slice", []int{1, 2}, KindSlice},
		{"other", struct{ X int }{1}, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, classify(tt.v))
		})
	}
}

func TestExtensionTypeEqual(t *testing.T) {
	a := NewExtensionType(7, []byte{1, 2, 3})
	b := NewExtensionType(7, []byte{1, 2, 3})
	c := NewExtensionType(8, []byte{1, 2, 3})
	d := NewExtensionType(7, []byte{1, 2, 4})

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}

func TestAsInt64AndAsUint64AndAsString(t *testing.T) {
	require.Equal(t, int64(-5), asInt64(int8(-5)))
	require.Equal(t, int64(300), asInt64(int32(300)))
	require.Equal(t, uint64(300), asUint64(uint32(300)))
	require.Equal(t, "hi", asString("hi"))
	require.Equal(t, "hi", asString(Symbol("hi")))
}
