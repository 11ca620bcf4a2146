// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"io"
	"math"

	"go.msgpack.dev/msgpack/internal/buffer"
)

// Unpacker implements a resumable decoder state machine. Bytes are fed in
// by the caller via Feed; every other method is driven purely by what is
// already buffered and returns ErrEOF (io.EOF) rather than blocking when
// more input is required — the core never performs I/O itself, so a
// caller can hand the Unpacker whatever bytes a network read produced and
// retry later once more arrive.
//
// The header-peek buffer (headPeek/headPeekLen) folds together a
// head-byte lookahead sentinel and the multi-byte length/typecode bytes
// that can follow it: headPeekLen == 0 means "head byte not yet read"; a
// partially filled peek buffer means a header is mid-read and every later
// call resumes filling it rather than re-reading from the head byte, so a
// chunk boundary landing inside a length prefix never loses progress.
type Unpacker struct {
	buf  buffer.Buffer
	opts Options

	headPeek    [9]byte // head byte + up to 8 value/length bytes
	headPeekLen int8

	rawMode  rawMode
	rawTotal int
	rawFilled int
	rawBuf   []byte
	rawExtType int8

	stack []frame

	lastObject    any
	lastObjectSet bool

	extReg registry[int8]

	offset int64 // running count of bytes consumed, for InvalidByteError
}

const defaultStackCapacity = 128

type rawMode int

const (
	rawNone rawMode = iota
	rawStr
	rawBin
	rawExtBody
)

type frameType int

const (
	frameArray frameType = iota
	frameMap
)

// frame is one level of the Unpacker's explicit parse stack: a bounded
// stack of frames, each remembering its kind, remaining element count,
// the container object being assembled, and (for maps) a pending key.
type frame struct {
	typ           frameType
	remaining     int64 // ticks left: element count for arrays, 2*pairs for maps
	awaitingValue bool  // map frames only: false while expecting a key
	arr           []any
	entries       OrderedMap
	pendingKey    any
}

// NewUnpacker creates an empty Unpacker. Bytes to decode must be supplied
// with Feed before Read can make progress.
func NewUnpacker(opts ...Option) *Unpacker {
	return &Unpacker{opts: buildOptions(opts)}
}

// Feed appends p to the input buffer. It never blocks and never parses;
// parsing happens lazily as Read/Skip/etc. are called.
func (u *Unpacker) Feed(p []byte) { u.buf.Append(p) }

// stackCapacity returns the configured parse stack depth cap.
func (u *Unpacker) stackCapacity() int {
	if u.opts.StackCapacity > 0 {
		return u.opts.StackCapacity
	}
	return defaultStackCapacity
}

// Read decodes and returns exactly one top-level MessagePack value,
// assembling nested arrays/maps on its explicit parse stack without
// recursion. It returns ErrEOF if the
// input buffer is exhausted before a complete value has been assembled; a
// later call, after Feed supplies more bytes, resumes from exactly where
// decoding stopped.
func (u *Unpacker) Read() (any, error) {
	for {
		if !u.lastObjectSet {
			if u.rawMode != rawNone {
				done, err := u.collectRaw()
				if err != nil {
					return nil, err
				}
				if !done {
					return nil, io.EOF
				}
			} else {
				done, err := u.readPrimitive()
				if err != nil {
					return nil, err
				}
				if !done {
					continue
				}
			}
		}

		if len(u.stack) == 0 {
			v := u.lastObject
			u.lastObject = nil
			u.lastObjectSet = false
			return v, nil
		}
		u.assemble()
	}
}

// Skip decodes and discards exactly one top-level value, consuming the same
// bytes Read would. It is implemented in terms of Read rather than a
// non-building walk: Go's garbage collector makes the extra allocation
// cheap enough that duplicating the whole state machine isn't warranted
// (see DESIGN.md).
func (u *Unpacker) Skip() error {
	_, err := u.Read()
	return err
}

// PeekNextObjectType reports the coarse type of the next element in the
// input without consuming it. It still needs the next head
// byte to be available; if the buffer is empty it returns ErrEOF and
// leaves the Unpacker's state unchanged.
func (u *Unpacker) PeekNextObjectType() (ObjectType, error) {
	if u.headPeekLen == 0 {
		b := u.buf.Read1()
		if b < 0 {
			return InvalidType, io.EOF
		}
		u.headPeek[0] = byte(b)
		u.headPeekLen = 1
		u.offset++
	}
	return classifyHead(u.headPeek[0]).objectType(), nil
}

// SkipNil consumes and discards the next element only if it is nil,
// returning 1 if it did so or 0 if the next element is of another type (in
// which case nothing is consumed)
func (u *Unpacker) SkipNil() (int, error) {
	t, err := u.PeekNextObjectType()
	if err != nil {
		return 0, err
	}
	if t != NilType {
		return 0, nil
	}
	if _, err := u.Read(); err != nil {
		return 0, err
	}
	return 1, nil
}

// ReadArrayHeader consumes an array header only, returning its element
// count without reading any elements; the caller is then responsible for
// calling Read exactly n times. It fails with errUnexpectedType (leaving
// the head byte unconsumed) if the next element is not an array.
func (u *Unpacker) ReadArrayHeader() (uint64, error) {
	return u.readContainerHeader(true)
}

// ReadMapHeader is ReadArrayHeader's map counterpart; the caller must
// follow with exactly 2n Read calls (key, value, key, value, ...).
func (u *Unpacker) ReadMapHeader() (uint64, error) {
	return u.readContainerHeader(false)
}

func (u *Unpacker) readContainerHeader(wantArray bool) (uint64, error) {
	if u.headPeekLen == 0 {
		b := u.buf.Read1()
		if b < 0 {
			return 0, io.EOF
		}
		u.headPeek[0] = byte(b)
		u.headPeekLen = 1
		u.offset++
	}
	head := u.headPeek[0]
	kind := classifyHead(head)
	isArray := kind == headFixarray || kind == headArray
	isMap := kind == headFixmap || kind == headMap
	if (wantArray && !isArray) || (!wantArray && !isMap) {
		return 0, errUnexpectedType
	}
	need := headerTotalLen(kind, head)
	if !u.fillHeaderPeek(need) {
		return 0, io.EOF
	}
	n := headerLen(kind, u.headPeek[:need])
	u.headPeekLen = 0
	return n, nil
}

// fillHeaderPeek attempts to accumulate total bytes (including the already
// present head byte) into headPeek. When the remaining bytes are already
// contiguous in the buffer's current top chunk, it grabs them in one
// zero-copy ReadCastBlock rather than pulling a byte at a time; otherwise
// it falls back to one-byte-at-a-time accumulation so progress still
// survives a chunk boundary landing mid-header. It reports false, leaving
// any progress already made intact, if the buffer runs out before total
// bytes are available.
func (u *Unpacker) fillHeaderPeek(total int8) bool {
	need := int(total - u.headPeekLen)
	if need > 0 && u.buf.TopReadableSize() >= need {
		block := u.buf.ReadCastBlock(need)
		copy(u.headPeek[u.headPeekLen:total], block)
		u.buf.Advance(need)
		u.offset += int64(need)
		u.headPeekLen = total
		return true
	}
	for u.headPeekLen < total {
		b := u.buf.Read1()
		if b < 0 {
			return false
		}
		u.headPeek[u.headPeekLen] = byte(b)
		u.headPeekLen++
		u.offset++
	}
	return true
}

// readPrimitive reads one MessagePack element header and either completes
// it immediately (scalars), begins raw-body collection (str/bin/ext), or
// pushes a parse-stack frame (array/map). done reports whether
// u.lastObject was set by this call.
func (u *Unpacker) readPrimitive() (done bool, err error) {
	if u.headPeekLen == 0 {
		b := u.buf.Read1()
		if b < 0 {
			return false, io.EOF
		}
		u.headPeek[0] = byte(b)
		u.headPeekLen = 1
		u.offset++
	}
	head := u.headPeek[0]
	kind := classifyHead(head)
	if kind == headInvalid {
		return false, &InvalidByteError{Byte: head, Offset: u.offset - 1}
	}
	need := headerTotalLen(kind, head)
	if !u.fillHeaderPeek(need) {
		return false, io.EOF
	}
	peek := u.headPeek[:need]
	u.headPeekLen = 0

	switch kind {
	case headPosFixint:
		u.setLastObject(int64(head))
	case headNegFixint:
		u.setLastObject(int64(int8(head)))
	case headNil:
		u.setLastObject(nil)
	case headBool:
		u.setLastObject(head == mpTrue)
	case headUint:
		u.setLastObject(headerLen(kind, peek))
	case headInt:
		u.setLastObject(signExtend(headerLen(kind, peek), need-1))
	case headFloat:
		n := headerLen(kind, peek)
		if head == mpFloat32 {
			u.setLastObject(math.Float32frombits(uint32(n)))
		} else {
			u.setLastObject(math.Float64frombits(n))
		}
	case headFixmap, headMap:
		n := headerLen(kind, peek)
		if err := u.pushFrame(frame{typ: frameMap, remaining: int64(n) * 2, entries: make(OrderedMap, 0, n)}); err != nil {
			return false, err
		}
	case headFixarray, headArray:
		n := headerLen(kind, peek)
		if err := u.pushFrame(frame{typ: frameArray, remaining: int64(n), arr: make([]any, 0, n)}); err != nil {
			return false, err
		}
	case headFixstr, headStr:
		u.beginRaw(rawStr, int(headerLen(kind, peek)))
	case headBin:
		u.beginRaw(rawBin, int(headerLen(kind, peek)))
	case headFixext, headExt:
		n, typecode := headerExtParts(kind, peek)
		u.rawExtType = typecode
		u.beginRaw(rawExtBody, int(n))
	}
	return u.lastObjectSet, nil
}

func (u *Unpacker) setLastObject(v any) {
	u.lastObject = v
	u.lastObjectSet = true
}

// pushFrame pushes f onto the parse stack, or — if f is already complete
// (a zero-length array or map, which never triggers an element-assembly
// step) — resolves it to lastObject immediately.
func (u *Unpacker) pushFrame(f frame) error {
	if f.remaining == 0 {
		if f.typ == frameArray {
			u.setLastObject(f.arr)
		} else {
			u.setLastObject(f.entries)
		}
		return nil
	}
	if len(u.stack) >= u.stackCapacity() {
		return errStackTooDeep
	}
	u.stack = append(u.stack, f)
	return nil
}

// assemble folds u.lastObject into the top parse-stack frame. When the
// frame's tick count reaches zero the frame is popped and its completed
// container becomes the new lastObject — captured before the pop, so the
// loop in Read immediately re-enters assembly against the new top of
// stack (or returns it, if the stack is now empty). See DESIGN.md for the
// map double-decrement rationale.
func (u *Unpacker) assemble() {
	top := &u.stack[len(u.stack)-1]
	switch top.typ {
	case frameArray:
		top.arr = append(top.arr, u.lastObject)
		top.remaining--
	case frameMap:
		if !top.awaitingValue {
			top.pendingKey = u.lastObject
			top.awaitingValue = true
		} else {
			key := top.pendingKey
			if u.opts.SymbolizeKeys {
				if s, ok := key.(string); ok {
					key = Symbol(s)
				}
			}
			top.entries = append(top.entries, MapEntry{Key: key, Value: u.lastObject})
			top.awaitingValue = false
		}
		top.remaining--
	}
	u.lastObject = nil
	u.lastObjectSet = false

	if top.remaining == 0 {
		var completed any
		if top.typ == frameArray {
			completed = top.arr
		} else {
			completed = top.entries
		}
		u.stack = u.stack[:len(u.stack)-1]
		u.setLastObject(completed)
	}
}

// beginRaw starts collection of a str/bin/ext payload of n bytes.
func (u *Unpacker) beginRaw(mode rawMode, n int) {
	u.rawMode = mode
	u.rawTotal = n
	u.rawFilled = 0
	u.rawBuf = nil
}

// collectRaw attempts to gather the remaining bytes of the in-progress raw
// payload, preferring the buffer's single-copy top-chunk path when the
// whole remainder is already contiguous, and falling back to incremental
// accumulation into rawBuf — which survives across Feed calls — otherwise.
func (u *Unpacker) collectRaw() (done bool, err error) {
	if u.rawBuf == nil {
		remaining := u.rawTotal - u.rawFilled
		topIsMapKey := len(u.stack) > 0 && u.stack[len(u.stack)-1].typ == frameMap && !u.stack[len(u.stack)-1].awaitingValue
		if b, ok := u.buf.ReadTopAsString(remaining, topIsMapKey); ok {
			u.offset += int64(len(b))
			return u.finishRaw(b)
		}
		u.rawBuf = make([]byte, u.rawTotal)
	}
	for u.rawFilled < u.rawTotal {
		n := u.buf.ReadToString(u.rawBuf[u.rawFilled:])
		u.rawFilled += n
		u.offset += int64(n)
		if n == 0 {
			break
		}
	}
	if u.rawFilled < u.rawTotal {
		return false, io.EOF
	}
	return u.finishRaw(u.rawBuf)
}

func (u *Unpacker) finishRaw(data []byte) (bool, error) {
	mode := u.rawMode
	extType := u.rawExtType
	u.rawMode = rawNone
	u.rawBuf = nil
	u.rawFilled = 0
	u.rawTotal = 0

	switch mode {
	case rawStr:
		u.setLastObject(string(data))
	case rawBin:
		u.setLastObject(data)
	case rawExtBody:
		v, err := u.resolveExt(extType, data)
		if err != nil {
			return false, err
		}
		u.setLastObject(v)
	}
	return true, nil
}

// resolveExt dispatches a decoded extension payload through the registry,
// mirroring the packer-side writeOther/dispatchExt path but keyed on the
// raw typecode rather than a reflect.Type.
func (u *Unpacker) resolveExt(typecode int8, payload []byte) (any, error) {
	e := u.extReg.lookup(typecode)
	if e.kind == entryAbsent {
		if pe, ok := processDefaultUnpackEntry(typecode); ok {
			e = pe
		}
	}
	if e.kind != entryBound {
		return nil, errUnknownExtType
	}
	h, ok := e.handler.(ExtDecoder)
	if !ok {
		return nil, errHandlerProtocol
	}
	return h(typecode, payload)
}

// RegisterExtType binds typecode (0..127) to handler in this Unpacker's
// registry§4.3. handler must be an ExtDecoder, nil (remove
// any existing entry), or false (refuse: decoding this typecode reports
// UNKNOWN_EXTTYPE same as if nothing were registered).
func (u *Unpacker) RegisterExtType(typecode int8, handler any) (previous any, err error) {
	if typecode < 0 || typecode > 127 {
		return nil, &RangeError{What: "ext typecode", Got: int64(typecode)}
	}
	prev := u.extReg.lookup(typecode)
	entry, err := buildUnpackRegEntry(handler)
	if err != nil {
		return nil, err
	}
	u.extReg.set(typecode, entry)
	return prev.handler, nil
}

// SetDefaultExtType sets the per-Unpacker fallback consulted when a
// typecode has no registry entry of its own, via the registry's own
// default-promotion state machine (registry.go). handler must be nil (no
// default: report UNKNOWN_EXTTYPE) or false (same, explicit refusal).
func (u *Unpacker) SetDefaultExtType(handler any) error {
	switch h := handler.(type) {
	case nil:
		u.extReg.setDefault(regEntry{kind: entryFallback})
		return nil
	case bool:
		if h {
			return errHandlerProtocol
		}
		u.extReg.setDefault(regEntry{kind: entryRefuse})
		return nil
	default:
		return errHandlerProtocol
	}
}

func buildUnpackRegEntry(handler any) (regEntry, error) {
	switch h := handler.(type) {
	case nil:
		return regEntry{kind: entryAbsent}, nil
	case bool:
		if h {
			return regEntry{}, errHandlerProtocol
		}
		return regEntry{kind: entryRefuse}, nil
	case ExtDecoder:
		return regEntry{kind: entryBound, handler: h}, nil
	default:
		return regEntry{}, errHandlerProtocol
	}
}

// SetProcessDefaultExtDecoder sets the process-wide default unpacker
// registry entry for typecode, idempotent with respect to
// Unpackers that have already registered their own per-typecode entry.
func SetProcessDefaultExtDecoder(typecode int8, handler any) error {
	entry, err := buildUnpackRegEntry(handler)
	if err != nil {
		return err
	}
	setProcessDefaultUnpackEntry(typecode, entry)
	return nil
}

// signExtend reinterprets the low width*8 bits of u (as produced by
// headerLen on a headInt header, width == the number of value bytes) as a
// sign-extended int64.
func signExtend(u uint64, width int8) int64 {
	switch width {
	case 1:
		return int64(int8(u))
	case 2:
		return int64(int16(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}
