// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"

	"go.msgpack.dev/msgpack/internal/buffer"
)

// Packer implements a value-driven encoder: it walks an in-memory host
// value graph and appends MessagePack bytes to an output buffer, flushing
// periodically to an optional sink. The recursive-descent shape and the
// retry-friendly header encoding follow a tlv.Encoder-style design, but
// Packer drives its recursion from a dynamically classified Go value
// instead of a caller-sequenced WriteHeader/value stream, since it walks
// a whole value graph per Write call rather than exposing a streaming
// header/value API to its caller.
type Packer struct {
	buf  buffer.Buffer
	sink io.Writer
	opts Options

	classReg registry[reflect.Type]
}

// NewPacker creates a Packer that appends to an internal buffer and
// optionally flushes to sink. sink may be nil, in which case bytes only
// ever accumulate in the buffer and must be retrieved via Bytes.
func NewPacker(sink io.Writer, opts ...Option) *Packer {
	return &Packer{sink: sink, opts: buildOptions(opts)}
}

// Write encodes v and appends the result to p, recursing into composite
// values. It returns p to allow call chaining.
func (p *Packer) Write(v any) (*Packer, error) {
	if err := p.write(v); err != nil {
		return nil, err
	}
	if err := p.maybeAutoFlush(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Packer) maybeAutoFlush() error {
	if p.sink == nil || p.opts.AutoFlushThreshold <= 0 {
		return nil
	}
	if p.buf.Len() < p.opts.AutoFlushThreshold {
		return nil
	}
	return p.Flush()
}

// WriteNil appends the 1-byte nil representation.
func (p *Packer) WriteNil() (*Packer, error) { return p.Write(nil) }

// WriteTrue appends the 1-byte true representation.
func (p *Packer) WriteTrue() (*Packer, error) { return p.Write(true) }

// WriteFalse appends the 1-byte false representation.
func (p *Packer) WriteFalse() (*Packer, error) { return p.Write(false) }

// WriteArrayHeader appends an array header for n elements without writing
// any elements. Callers must follow with exactly n Write calls.
func (p *Packer) WriteArrayHeader(n uint64) (*Packer, error) {
	if n > 0xffffffff {
		return nil, &RangeError{What: "array length", Got: int64(n)}
	}
	p.emit(classArray.header(n))
	return p, nil
}

// WriteMapHeader appends a map header for n key/value pairs without
// writing any of them. Callers must follow with exactly 2n Write calls
// (key, value, key, value, ...).
func (p *Packer) WriteMapHeader(n uint64) (*Packer, error) {
	if n > 0xffffffff {
		return nil, &RangeError{What: "map length", Got: int64(n)}
	}
	p.emit(classMap.header(n))
	return p, nil
}

// WriteExtTypeHeader appends an extension header for a payload of n bytes
// and the given typecode, without writing the payload itself.
func (p *Packer) WriteExtTypeHeader(n uint64, typecode int8) (*Packer, error) {
	if n > 0xffffffff {
		return nil, &RangeError{What: "ext length", Got: int64(n)}
	}
	if typecode < 0 || typecode > 127 {
		return nil, &RangeError{What: "ext typecode", Got: int64(typecode)}
	}
	p.emitExtHeader(n, typecode)
	return p, nil
}

// Flush pushes buffered bytes to the attached sink. It is a no-op if no
// sink was supplied to NewPacker.
func (p *Packer) Flush() error {
	if p.sink == nil {
		return nil
	}
	if err := p.buf.Flush(p.sink); err != nil {
		return &ioError{action: "flush", err: err}
	}
	return nil
}

// Bytes returns a view over the buffered-but-not-yet-flushed bytes.
func (p *Packer) Bytes() []byte { return p.buf.AllAsString() }

// Len reports the number of buffered-but-not-yet-flushed bytes.
func (p *Packer) Len() int { return p.buf.Len() }

// Empty reports whether Len() == 0.
func (p *Packer) Empty() bool { return p.Len() == 0 }

// Clear discards all buffered bytes without flushing them, restoring p to
// a freshly-constructed state.
func (p *Packer) Clear() { p.buf.Reset() }

func (p *Packer) emit(b []byte) { p.buf.Append(b) }

// emitByte appends a single header/fixnum byte, the packer's single-byte
// counterpart to emit.
func (p *Packer) emitByte(b byte) { p.buf.AppendByte(b) }

func (p *Packer) emitExtHeader(n uint64, typecode int8) {
	switch {
	case n == 1:
		p.emit([]byte{mpFixExt1, byte(typecode)})
	case n == 2:
		p.emit([]byte{mpFixExt2, byte(typecode)})
	case n == 4:
		p.emit([]byte{mpFixExt4, byte(typecode)})
	case n == 8:
		p.emit([]byte{mpFixExt8, byte(typecode)})
	case n == 16:
		p.emit([]byte{mpFixExt16, byte(typecode)})
	case n <= 0xff:
		p.emit([]byte{mpExt8, byte(n), byte(typecode)})
	case n <= 0xffff:
		p.emit([]byte{mpExt16, byte(n >> 8), byte(n), byte(typecode)})
	default:
		p.emit([]byte{mpExt32, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n), byte(typecode)})
	}
}

// write dispatches v by Kind, recursing for composite values. This is the
// single entry point for both scalar and container encoding.
func (p *Packer) write(v any) error {
	switch classify(v) {
	case KindNil:
		p.emitByte(mpNil)
		return nil
	case KindBool:
		if b, ok := v.(bool); ok {
			if b {
				p.emitByte(mpTrue)
			} else {
				p.emitByte(mpFalse)
			}
			return nil
		}
		if reflect.ValueOf(v).Bool() {
			p.emitByte(mpTrue)
		} else {
			p.emitByte(mpFalse)
		}
		return nil
	case KindInt:
		p.writeInt(asInt64(v))
		return nil
	case KindUint:
		p.writeUint(asUint64(v))
		return nil
	case KindFloat32:
		if f, ok := v.(float32); ok {
			p.writeFloat32(f)
		} else {
			p.writeFloat32(float32(reflect.ValueOf(v).Float()))
		}
		return nil
	case KindFloat64:
		f, ok := v.(float64)
		if !ok {
			f = reflect.ValueOf(v).Float()
		}
		p.writeFloat64(f)
		return nil
	case KindString:
		p.writeStr(asString(v))
		return nil
	case KindBinary:
		b, _ := v.([]byte)
		p.writeBin(b)
		return nil
	case KindSlice:
		return p.writeSlice(v)
	case KindMap:
		return p.writeMap(v)
	case KindExt:
		ext, _ := v.(ExtensionType)
		return p.writeExt(ext)
	default:
		return p.writeOther(v)
	}
}

// writeInt implements the integer encoding cascade: fixnum first, then
// the narrowest unsigned or signed width that fits, chosen as a single
// ordered cascade so the shortest-encoding rule holds structurally.
func (p *Packer) writeInt(i int64) {
	switch {
	case i >= 0 && i <= 0x7f:
		p.emitByte(byte(i))
	case i < 0 && i >= -32:
		p.emitByte(byte(i))
	case i >= 0:
		p.writeUint(uint64(i))
	case i >= -128:
		p.emit([]byte{mpInt8, byte(i)})
	case i >= -32768:
		u := uint16(i)
		p.emit([]byte{mpInt16, byte(u >> 8), byte(u)})
	case i >= -2147483648:
		u := uint32(i)
		p.emit([]byte{mpInt32, byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
	default:
		u := uint64(i)
		p.emit([]byte{mpInt64,
			byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
			byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
	}
}

func (p *Packer) writeUint(u uint64) {
	switch {
	case u <= 0x7f:
		p.emitByte(byte(u))
	case u <= 0xff:
		p.emit([]byte{mpUint8, byte(u)})
	case u <= 0xffff:
		p.emit([]byte{mpUint16, byte(u >> 8), byte(u)})
	case u <= 0xffffffff:
		p.emit([]byte{mpUint32, byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
	default:
		p.emit([]byte{mpUint64,
			byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
			byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
	}
}

// writeFloat32/writeFloat64 choose the wire width by the host value's
// static Go type rather than attempting an "emit 32-bit if the value
// round-trips exactly" narrowing check — see DESIGN.md for the rationale.
func (p *Packer) writeFloat32(f float32) {
	u := math.Float32bits(f)
	p.emit([]byte{mpFloat32, byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

func (p *Packer) writeFloat64(f float64) {
	u := math.Float64bits(f)
	p.emit([]byte{mpFloat64,
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)})
}

func (p *Packer) writeStr(s string) {
	p.emit(classStr.header(uint64(len(s))))
	p.emit([]byte(s))
}

func (p *Packer) writeBin(b []byte) {
	p.emit(classBin.header(uint64(len(b))))
	p.emit(b)
}

func (p *Packer) writeExt(ext ExtensionType) error {
	if ext.Type < 0 || ext.Type > 127 {
		return &RangeError{What: "ext typecode", Got: int64(ext.Type)}
	}
	p.emitExtHeader(uint64(len(ext.Data)), ext.Type)
	p.emit(ext.Data)
	return nil
}

func (p *Packer) writeSlice(v any) error {
	rv := reflect.ValueOf(v)
	n := rv.Len()
	if uint64(n) > 0xffffffff {
		return &RangeError{What: "array length", Got: int64(n)}
	}
	p.emit(classArray.header(uint64(n)))
	for i := 0; i < n; i++ {
		if err := p.write(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) writeMap(v any) error {
	if om, ok := v.(OrderedMap); ok {
		return p.writeOrderedMap(om)
	}
	return p.writeReflectMap(reflect.ValueOf(v))
}

func (p *Packer) writeOrderedMap(om OrderedMap) error {
	if uint64(len(om)) > 0xffffffff {
		return &RangeError{What: "map length", Got: int64(len(om))}
	}
	p.emit(classMap.header(uint64(len(om))))
	for _, e := range om {
		if err := p.write(e.Key); err != nil {
			return err
		}
		if err := p.write(e.Value); err != nil {
			return err
		}
	}
	return nil
}

// writeReflectMap encodes a plain Go map[K]V. Go maps carry no iteration
// order, so unlike OrderedMap this cannot preserve insertion order
// literally; instead keys are sorted into a canonical textual order so
// that encoding the same logical map twice produces identical bytes. Keys
// whose fmt.Sprint text is equal (e.g. 1 and "1" in a map[any]V) are not
// ordered relative to each other. See DESIGN.md.
func (p *Packer) writeReflectMap(rv reflect.Value) error {
	n := rv.Len()
	if uint64(n) > 0xffffffff {
		return &RangeError{What: "map length", Got: int64(n)}
	}
	keys := rv.MapKeys()
	type kv struct {
		key    reflect.Value
		sortBy string
	}
	pairs := make([]kv, len(keys))
	for i, k := range keys {
		pairs[i] = kv{key: k, sortBy: fmt.Sprint(k.Interface())}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].sortBy < pairs[j].sortBy })

	p.emit(classMap.header(uint64(n)))
	for _, pr := range pairs {
		if err := p.write(pr.key.Interface()); err != nil {
			return err
		}
		if err := p.write(rv.MapIndex(pr.key).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// writeOther handles extension dispatch for values of otherwise
// unclassified Kind: resolve the value's class through the registry,
// falling back to the Marshaler interface and finally to an error if
// nothing claims the type.
func (p *Packer) writeOther(v any) error {
	t := reflect.TypeOf(v)
	e := p.classReg.lookup(t)
	if e.kind == entryAbsent {
		if pe, ok := processDefaultPackEntry(t); ok {
			e = pe
		}
	}

	switch e.kind {
	case entryRefuse:
		return &TypeRefusedError{TypeName: t.String()}
	case entryBound:
		return p.dispatchExt(v, e)
	default: // entryAbsent or entryFallback: fall through to Marshaler
		if m, ok := v.(Marshaler); ok {
			return m.MarshalMsgpack(p)
		}
		return fmt.Errorf("msgpack: cannot encode value of type %s: no registry entry and type does not implement msgpack.Marshaler", t)
	}
}

func (p *Packer) dispatchExt(v any, e regEntry) error {
	if e.hasTypecode {
		h, ok := e.handler.(ExtHandler)
		if !ok {
			return errHandlerProtocol
		}
		payload, err := h(v, e.typecode)
		if err != nil {
			return err
		}
		p.emitExtHeader(uint64(len(payload)), e.typecode)
		p.emit(payload)
		return nil
	}
	h, ok := e.handler.(LowLevelExtHandler)
	if !ok {
		return errHandlerProtocol
	}
	return h(v, p)
}

// RegisterExtType binds class (a reflect.Type, typically obtained via
// reflect.TypeOf((*T)(nil)).Elem() or reflect.TypeOf(zeroValue)) to a
// typecode and handler's register_exttype. Passing a
// nil handler removes any existing entry; passing false as handler
// installs a refusal. typecode may be nil to register a low-level handler
// (LowLevelExtHandler) responsible for writing the full representation
// itself; otherwise it selects the high-level form (ExtHandler) and must
// be in 0..127.
func (p *Packer) RegisterExtType(class reflect.Type, typecode *int8, handler any) (previous any, err error) {
	prev := p.classReg.lookup(class)
	entry, err := buildRegEntry(typecode, handler)
	if err != nil {
		return nil, err
	}
	p.classReg.set(class, entry)
	return prev.handler, nil
}

// RegisterLowLevelExtType is a convenience for
// RegisterExtType(class, nil, handler).
func (p *Packer) RegisterLowLevelExtType(class reflect.Type, handler LowLevelExtHandler) (previous any, err error) {
	return p.RegisterExtType(class, nil, handler)
}

// SetDefaultExtType sets the per-packer "unknown_class" slot consulted
// when a class lookup misses, via the registry's own default-promotion
// state machine (registry.go). handler must be nil (no default: fall
// back to Marshaler) or false (refuse all unregistered types).
func (p *Packer) SetDefaultExtType(handler any) error {
	switch h := handler.(type) {
	case nil:
		p.classReg.setDefault(regEntry{kind: entryFallback})
		return nil
	case bool:
		if h {
			return errHandlerProtocol
		}
		p.classReg.setDefault(regEntry{kind: entryRefuse})
		return nil
	default:
		return errHandlerProtocol
	}
}

// buildRegEntry validates and constructs a regEntry from the
// (typecode, handler) pair accepted by RegisterExtType.
func buildRegEntry(typecode *int8, handler any) (regEntry, error) {
	switch h := handler.(type) {
	case nil:
		return regEntry{kind: entryAbsent}, nil
	case bool:
		if h {
			return regEntry{}, errHandlerProtocol
		}
		return regEntry{kind: entryRefuse}, nil
	case ExtHandler:
		if typecode == nil {
			return regEntry{}, errHandlerProtocol
		}
		if *typecode < 0 || *typecode > 127 {
			return regEntry{}, &RangeError{What: "ext typecode", Got: int64(*typecode)}
		}
		return regEntry{kind: entryBound, typecode: *typecode, hasTypecode: true, handler: h}, nil
	case LowLevelExtHandler:
		if typecode != nil {
			return regEntry{}, errHandlerProtocol
		}
		return regEntry{kind: entryBound, hasTypecode: false, handler: h}, nil
	default:
		return regEntry{}, errHandlerProtocol
	}
}

// SetProcessDefaultExtType sets the process-wide default packer registry
// entry for class. Setting is idempotent with respect to
// Packer instances that have already registered their own per-class entry
// for class.
func SetProcessDefaultExtType(class reflect.Type, typecode *int8, handler any) error {
	e, err := buildRegEntry(typecode, handler)
	if err != nil {
		return err
	}
	setProcessDefaultPackEntry(class, e)
	return nil
}
