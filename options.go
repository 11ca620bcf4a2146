// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

// Options configures a Packer or Unpacker. It is a plain, default-
// constructed struct mutated by Option funcs, in the spirit of
// _examples/JesseCoretta-go-asn1plus's Options type (a portable struct
// storing parsed configuration) — scaled down to the handful of knobs
// this codec actually needs, and applied via functional options rather
// than struct tags since this codec has no schema to parse tags from.
type Options struct {
	// SymbolizeKeys, when true, makes the Unpacker intern string keys of
	// decoded mappings as Symbol values.
	SymbolizeKeys bool

	// StackCapacity bounds the Unpacker's parse stack depth.
	// Zero selects the default of defaultStackCapacity.
	StackCapacity int

	// AutoFlushThreshold, if non-zero, makes the Packer flush to its sink
	// automatically after a Write leaves at least this many bytes in its
	// internal buffer.
	AutoFlushThreshold int
}

// Option mutates an Options value.
type Option func(*Options)

// WithSymbolizeKeys enables the symbolize_keys behavior: decoded map keys
// are returned as Symbol values instead of plain strings.
func WithSymbolizeKeys() Option {
	return func(o *Options) { o.SymbolizeKeys = true }
}

// WithStackCapacity overrides the Unpacker's parse stack depth cap.
func WithStackCapacity(n int) Option {
	return func(o *Options) { o.StackCapacity = n }
}

// WithAutoFlush makes a Packer flush to its sink once its buffer holds n
// or more bytes.
func WithAutoFlush(n int) Option {
	return func(o *Options) { o.AutoFlushThreshold = n }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
