// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"errors"
	"io"
	"strconv"
)

// Sentinel errors for the unpacker's primitive decoder and the codec's
// error taxonomy generally. EOF-in-progress is represented by io.EOF itself
// (re-exported here as ErrEOF for discoverability) rather than a distinct
// type, since it is not an error condition a caller needs to unwrap further —
// it is the normal "feed me more bytes" signal.
var (
	// ErrEOF indicates the input buffer was exhausted mid-element. It is not
	// fatal: a later call that supplies more bytes resumes from exactly where
	// decoding stopped.
	ErrEOF = io.EOF

	// errStackTooDeep is returned when the parse stack's configured
	// capacity would be exceeded by pushing another frame.
	errStackTooDeep = errors.New("msgpack: stack level too deep")

	// errUnknownExtType is returned when no registry entry (per-instance or
	// process-wide default) exists for a decoded extension typecode.
	errUnknownExtType = errors.New("msgpack: unknown ext type")

	// errUnexpectedType is returned by ReadArrayHeader/ReadMapHeader when the
	// next element is not of the requested kind. The head byte is left
	// unconsumed so the caller can retry with a different reader.
	errUnexpectedType = errors.New("msgpack: unexpected type")

	// errTypeRefused is the base error wrapped by *TypeRefusedError.
	errTypeRefused = errors.New("msgpack: packing of this type is disallowed")

	// errRange is the base error wrapped by *RangeError.
	errRange = errors.New("msgpack: value out of range")

	// errHandlerProtocol is returned when a registered extension handler
	// violates the high/low-level handler protocol.
	errHandlerProtocol = errors.New("msgpack: ext handler protocol violation")
)

// InvalidByteError reports that the unpacker encountered a head byte that is
// not defined by the MessagePack format (0xc1) or otherwise unrecognized.
// It is fatal: the Unpacker that produced it must not be used further.
type InvalidByteError struct {
	Byte   byte
	Offset int64
}

func (e *InvalidByteError) Error() string {
	return "msgpack: invalid byte 0x" + strconv.FormatUint(uint64(e.Byte), 16) +
		" at offset " + strconv.FormatInt(e.Offset, 10)
}

// TypeRefusedError reports that the packer encountered a host value whose
// registry entry is the literal "refuse" marker.
type TypeRefusedError struct {
	TypeName string
}

func (e *TypeRefusedError) Error() string {
	return "msgpack: packing of type " + e.TypeName + " disallowed"
}

func (e *TypeRefusedError) Unwrap() error { return errTypeRefused }

// RangeError reports a container length or extension typecode outside the
// range the format can represent.
type RangeError struct {
	What string
	Got  int64
}

func (e *RangeError) Error() string {
	return "msgpack: " + e.What + " out of range: " + strconv.FormatInt(e.Got, 10)
}

func (e *RangeError) Unwrap() error { return errRange }

// ioError wraps an error returned by the sink/source the Packer or Unpacker
// is attached to, so it can be distinguished from errors the core itself
// raises.
type ioError struct {
	action string // "read", "write" or "flush"
	err    error
}

func (e *ioError) Error() string { return "msgpack: " + e.action + " error: " + e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// noEOF turns a plain io.EOF into io.ErrUnexpectedEOF. Unmarshal uses it,
// since it has all of its input up front and an EOF there means the data
// ended before a complete value. The Unpacker itself returns a bare io.EOF
// so that callers can Feed more bytes and retry.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
