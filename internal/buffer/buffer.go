// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer implements the chunked byte buffer that backs the Packer
// and Unpacker: an external collaborator the codec core only calls
// through a fixed interface, kept separate so its chunking strategy can
// change without touching the codec logic built on top of it.
//
// The design — a write side that appends growable chunks and flushes them
// to an io.Writer sink, and a read side that tracks a cursor into those
// chunks with a zero-copy "top chunk" extraction — is adapted from the
// bufferedWriter/bufferedReader pair in
// _examples/codello-go-asn1/tlv/io.go, restructured around an explicit
// chunk list (rather than a single ring buffer) so ReadTopAsString can
// take the whole request from one existing chunk in a single copy when
// that chunk holds it. The result is always a fresh copy, never a slice of
// the chunk.
package buffer

import "io"

const defaultChunkSize = 4096

// Buffer is a chunked, append-on-write / cursor-on-read byte buffer. The
// zero Buffer is ready to use. A Buffer is not safe for concurrent use,
// matching the single-threaded contract of the codec it backs.
type Buffer struct {
	chunks    [][]byte
	readChunk int // index into chunks of the chunk currently being read
	readOff   int // offset within chunks[readChunk]
}

// Append appends the bytes of p to the write side of b. The slice is
// copied; callers may reuse p after Append returns.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	if n := len(b.chunks); n > 0 {
		last := b.chunks[n-1]
		if cap(last)-len(last) >= len(p) {
			b.chunks[n-1] = append(last, p...)
			return
		}
	}
	chunk := make([]byte, len(p), max(len(p), defaultChunkSize))
	copy(chunk, p)
	b.chunks = append(b.chunks, chunk)
}

// AppendByte appends a single byte (used heavily by the packer for
// header bytes).
func (b *Buffer) AppendByte(c byte) {
	b.Append([]byte{c})
}

// top returns the unread portion of the current read chunk, advancing past
// any fully-consumed leading chunks first. The cursor never moves past the
// last chunk, so bytes Append later adds to that chunk in place stay
// readable.
func (b *Buffer) top() []byte {
	for b.readChunk < len(b.chunks)-1 && b.readOff >= len(b.chunks[b.readChunk]) {
		b.readChunk++
		b.readOff = 0
	}
	if b.readChunk >= len(b.chunks) {
		return nil
	}
	return b.chunks[b.readChunk][b.readOff:]
}

// TopReadableSize returns the number of bytes available in the current
// chunk without crossing a chunk boundary.
func (b *Buffer) TopReadableSize() int {
	return len(b.top())
}

// Read1 reads and consumes a single byte, or returns -1 if the buffer is
// empty.
func (b *Buffer) Read1() int {
	t := b.top()
	if len(t) == 0 {
		return -1
	}
	b.readOff++
	return int(t[0])
}

// ReadCastBlock returns a handle to n contiguous unread bytes without
// consuming them, or nil if the current chunk does not hold n contiguous
// bytes. n is expected to be one of {1,2,4,8} by callers decoding
// fixed-width integers/floats.
func (b *Buffer) ReadCastBlock(n int) []byte {
	t := b.top()
	if len(t) < n {
		return nil
	}
	return t[:n]
}

// Advance consumes n bytes from the read side without copying them. It
// must only be called after a successful ReadCastBlock(n) or equivalent
// top() inspection.
func (b *Buffer) Advance(n int) {
	b.readOff += n
}

// ReadTopAsString extracts n contiguous bytes from the current top chunk as
// an owned byte slice, or returns (nil, false) if the top chunk does not
// hold n contiguous bytes (the caller then falls back to incremental
// collection). If freeze is true the caller intends to treat the result as
// immutable (a pre-frozen map-key optimization); since Go slices are never
// implicitly shared after this copy, freeze only documents intent and does
// not change behavior.
func (b *Buffer) ReadTopAsString(n int, freeze bool) ([]byte, bool) {
	t := b.top()
	if len(t) < n {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, t[:n])
	b.readOff += n
	return out, true
}

// ReadToString copies up to len(dst) bytes into dst, returning the number
// of bytes copied. It may read across multiple chunks.
func (b *Buffer) ReadToString(dst []byte) int {
	copied := 0
	for copied < len(dst) {
		t := b.top()
		if len(t) == 0 {
			break
		}
		n := copy(dst[copied:], t)
		b.readOff += n
		copied += n
	}
	return copied
}

// Flush writes every buffered byte to w and discards them from b. It
// ignores the read cursor, so bytes the read side has already consumed
// are written too — in the packer's usage, the read side is never used,
// so this only ever flushes write-appended data.
func (b *Buffer) Flush(w io.Writer) error {
	for _, chunk := range b.chunks {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	b.chunks = b.chunks[:0]
	b.readChunk = 0
	b.readOff = 0
	return nil
}

// AllAsString returns the complete buffered content as a single contiguous
// slice, copying if more than one chunk is present.
func (b *Buffer) AllAsString() []byte {
	if len(b.chunks) == 1 {
		return b.chunks[0]
	}
	total := 0
	for _, c := range b.chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range b.chunks {
		out = append(out, c...)
	}
	return out
}

// Len returns the total number of bytes currently buffered (read and
// unread).
func (b *Buffer) Len() int {
	total := 0
	for _, c := range b.chunks {
		total += len(c)
	}
	return total
}

// Reset discards all buffered content and resets the read cursor.
func (b *Buffer) Reset() {
	b.chunks = b.chunks[:0]
	b.readChunk = 0
	b.readOff = 0
}
