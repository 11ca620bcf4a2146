// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidByteErrorMessage(t *testing.T) {
	err := &InvalidByteError{Byte: 0xc1, Offset: 7}
	require.Equal(t, "msgpack: invalid byte 0xc1 at offset 7", err.Error())
}

func TestTypeRefusedErrorUnwrap(t *testing.T) {
	err := &TypeRefusedError{TypeName: "complex128"}
	require.ErrorIs(t, err, errTypeRefused)
	require.Contains(t, err.Error(), "complex128")
}

func TestRangeErrorUnwrap(t *testing.T) {
	err := &RangeError{What: "ext typecode", Got: 200}
	require.ErrorIs(t, err, errRange)
	require.Contains(t, err.Error(), "200")
}

func TestIOErrorUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := &ioError{action: "flush", err: base}
	require.ErrorIs(t, err, base)
	require.Contains(t, err.Error(), "flush")
}

func TestNoEOF(t *testing.T) {
	require.Equal(t, io.ErrUnexpectedEOF, noEOF(io.EOF))
	other := errors.New("boom")
	require.Equal(t, other, noEOF(other))
}
