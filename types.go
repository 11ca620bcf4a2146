// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"reflect"
)

// This file implements the host-value data model: the classification of
// an opaque Go value ("host value") into one of the kinds the packer and
// unpacker core understands, plus the small set of interfaces and types
// user code implements to extend the codec. It maps a statically-typed Go
// value onto the wire's type system, without any struct-tag-driven field
// layout — composite values are plain slices and maps, not schemas.

// Kind classifies a host value for the purposes of Packer.Write. Unlike
// ObjectType (format.go), which classifies wire bytes, Kind classifies an
// in-memory Go value before it has been encoded.
type Kind int

const (
	KindOther Kind = iota
	KindNil
	KindBool
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindSlice
	KindMap
	KindExt
)

// Symbol is a string that decodes as an interned map key when the
// Unpacker's SymbolizeKeys option is enabled. Go has no interning
// primitive comparable to Ruby's Symbol, so Symbol instead gives decoded
// keys a distinct, lightweight type: callers that care about the
// distinction can type-switch on it, and callers that don't can convert
// it back to string for free.
type Symbol string

// ExtensionType is the Go representation of a MessagePack extension
// value: a typecode in 0..127 paired with an opaque payload. Typecodes
// the format reserves (128..255 on the wire) are still surfaced to
// decoders as their signed int8 form, so the raw typecode always reaches
// the caller.
type ExtensionType struct {
	Type int8
	Data []byte
}

// NewExtensionType constructs an ExtensionType, mirroring the constructor
// the original ext/msgpack/exttype_class.c exposes to host code.
func NewExtensionType(typ int8, data []byte) ExtensionType {
	return ExtensionType{Type: typ, Data: data}
}

// Equal reports whether e and o carry the same typecode and payload bytes.
// This mirrors the equality/hash semantics of the original
// MessagePack::ExtensionType host class (exttype_class.c), which compares
// both fields.
func (e ExtensionType) Equal(o ExtensionType) bool {
	if e.Type != o.Type || len(e.Data) != len(o.Data) {
		return false
	}
	for i := range e.Data {
		if e.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// MapEntry is one key/value pair of an OrderedMap.
type MapEntry struct {
	Key   any
	Value any
}

// OrderedMap is a host mapping value that preserves insertion order on
// encode, e.g. encoding {"a": 1, "b": 2} always emits "a" before "b".
// Plain Go maps (map[K]V) have no defined iteration order, so the Packer
// instead encodes those with keys sorted into a canonical order — see
// packer.go's writeReflectMap and DESIGN.md for the rationale. Use
// OrderedMap when wire-order matters.
type OrderedMap []MapEntry

// Marshaler is implemented by host types that know how to encode
// themselves when no registry entry claims their type.
type Marshaler interface {
	MarshalMsgpack(p *Packer) error
}

// ExtHandler is the high-level extension encoder: given the value and the
// typecode resolved from the registry, it returns the extension payload
// for the Packer to frame.
type ExtHandler func(v any, typecode int8) ([]byte, error)

// LowLevelExtHandler is the low-level extension encoder: it is responsible
// for writing the complete representation (header and body) directly into
// p. It is used when a registry entry's typecode is nil.
type LowLevelExtHandler func(v any, p *Packer) error

// ExtDecoder reifies a decoded extension payload back into a host value.
type ExtDecoder func(typecode int8, payload []byte) (any, error)

// classify inspects the dynamic type of v and returns its Kind. Composite
// and "other" values are returned unclassified beyond their Kind; callers
// re-inspect v with a type switch or reflection as needed.
func classify(v any) Kind {
	if v == nil {
		return KindNil
	}
	switch v.(type) {
	case bool:
		return KindBool
	case int, int8, int16, int32, int64:
		return KindInt
	case uint, uint8, uint16, uint32, uint64:
		return KindUint
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string, Symbol:
		return KindString
	case []byte:
		return KindBinary
	case ExtensionType:
		return KindExt
	case OrderedMap:
		return KindMap
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindSlice
	case reflect.Map:
		return KindMap
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.String:
		return KindString
	}
	return KindOther
}

// asInt64 extracts a signed 64-bit integer from a host value classified as
// KindInt. It panics if v is not an integer value; callers must classify
// first.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return reflect.ValueOf(v).Int()
}

// asUint64 extracts an unsigned 64-bit integer from a host value
// classified as KindUint.
func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return reflect.ValueOf(v).Uint()
}

// asString extracts the string contents of a host value classified as
// KindString (string or Symbol).
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case Symbol:
		return string(s)
	}
	return reflect.ValueOf(v).String()
}
