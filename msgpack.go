// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msgpack implements the MessagePack binary serialization format
// (https://github.com/msgpack/msgpack/blob/master/spec.md): a compact,
// schema-less, self-describing encoding for the same value model JSON
// covers (nil, bool, integers, floats, strings, byte strings, arrays,
// maps) plus an application-defined extension-type mechanism JSON has no
// equivalent for.
//
// # Packing and Unpacking
//
// [Packer] walks an in-memory Go value and appends its MessagePack
// encoding to an output buffer, optionally flushing to an attached
// io.Writer:
//
//	p := msgpack.NewPacker(w)
//	p.Write(map[string]any{"compact": true, "schema": 0})
//	p.Flush()
//
// [Unpacker] is fed raw bytes and decodes them incrementally; it never
// performs I/O itself and tolerates a byte stream arriving in arbitrary
// fragments, reporting [ErrEOF] (which is [io.EOF]) whenever it
// needs more bytes than have been fed so far:
//
//	u := msgpack.NewUnpacker()
//	u.Feed(chunk)
//	v, err := u.Read()
//
// [Marshal] and [Unmarshal] wrap a Packer/Unpacker pair for the common
// case of encoding or decoding a single self-contained value.
//
// # Go Value Mapping
//
// The following Go types correspond to MessagePack types:
//
//   - nil corresponds to the MessagePack Nil type.
//   - bool corresponds to the MessagePack Boolean type.
//   - All Go integer types correspond to the MessagePack Integer type,
//     encoded with the narrowest representation that fits.
//   - float32 and float64 correspond to the MessagePack Float type,
//     encoded at the width of the host value's static Go type.
//   - string and [Symbol] correspond to the MessagePack String type.
//   - []byte corresponds to the MessagePack Binary type.
//   - Go slices and arrays correspond to the MessagePack Array type.
//   - Go maps and [OrderedMap] correspond to the MessagePack Map type.
//     Plain maps carry no defined iteration order in Go, so they are
//     encoded with their keys sorted into a canonical order; use
//     OrderedMap when the wire order must match a specific insertion
//     order.
//   - [ExtensionType] corresponds to the MessagePack Extension type.
//     Other host types can participate in extension encoding by
//     registering a handler with [Packer.RegisterExtType] and
//     [Unpacker.RegisterExtType], or by implementing [Marshaler].
//
// # Extension Types
//
// Application-defined types beyond the built-in ones are supported via a
// per-instance registry: [Packer.RegisterExtType] binds a
// Go type to a typecode and an encoding handler, and the corresponding
// [Unpacker.RegisterExtType] binds a typecode to a decoding handler.
// [SetProcessDefaultExtType] and [SetProcessDefaultExtDecoder] install
// bindings that are consulted by every Packer/Unpacker (respectively)
// that has not registered its own, providing a way to configure
// extension types process-wide without threading options through every
// call site.
package msgpack

import "bytes"

// Marshal encodes v as a standalone MessagePack value and returns its
// bytes. It is a convenience wrapper around NewPacker for callers that
// don't need a persistent Packer or a streaming sink.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	p := NewPacker(&buf, opts...)
	if _, err := p.Write(v); err != nil {
		return nil, err
	}
	if err := p.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single MessagePack value from data. It is a
// convenience wrapper around NewUnpacker for callers that already have
// the complete encoded value in memory; data must begin with one complete
// top-level value, and any bytes after it are ignored.
func Unmarshal(data []byte, opts ...Option) (any, error) {
	u := NewUnpacker(opts...)
	u.Feed(data)
	v, err := u.Read()
	if err != nil {
		return nil, noEOF(err)
	}
	return v, nil
}
