// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import "sync"

// This file implements the extension-type registry: per-key handler
// binding for extension types, with a distinguished default entry. The
// three-state shape (absent / single-default / full table) is modeled
// explicitly, rather than collapsing to a bare map, so that the
// allocation-free "no custom types registered" path stays cheap. The
// generic registry[K] type is shared by both the packer side (K =
// reflect.Type) and the unpacker side (K = int8), grounded in the adapter
// registry pattern of _examples/JesseCoretta-go-asn1plus/adapt.go
// (RegisterAdapter[T, GoT]), adapted from a type-pair binder into a
// key->handler map with tagged-variant slot semantics.

// entryKind tags what a registry slot means: no handler, an explicit
// fall-through, a refusal, or a bound handler.
type entryKind int

const (
	entryAbsent   entryKind = iota // no handler: caller falls through to defaults
	entryFallback                  // stored nil: explicit "no handler, fall through"
	entryRefuse                    // stored false: refuse to encode/decode
	entryBound                     // stored (typecode|nil, handler)
)

// regEntry is one slot of a registry, either a per-key entry or the
// registry's default.
type regEntry struct {
	kind        entryKind
	typecode    int8 // valid when kind == entryBound
	hasTypecode bool // false => "low-level" form
	handler     any
}

var absentEntry = regEntry{kind: entryAbsent}

// registryState distinguishes the three representational states a
// registry can be in.
type registryState int

const (
	stateAbsentTable registryState = iota // no table at all: cheapest case
	stateSingleDefault
	stateFullTable
)

// registry is the per-instance extension-type registry shared by Packer
// (K = reflect.Type) and Unpacker (K = int8). It is not safe for concurrent
// use, matching the codec's single-threaded, non-reentrant contract; the
// process-wide defaults below use their own mutex since they may be
// configured from init-time code running concurrently with instance
// creation.
type registry[K comparable] struct {
	state   registryState
	def     regEntry
	entries map[K]regEntry
}

// lookup resolves k against the registry, returning the matching entry or
// absentEntry if nothing is registered for k and the registry has no
// default of its own.
func (r *registry[K]) lookup(k K) regEntry {
	switch r.state {
	case stateSingleDefault:
		return r.def
	case stateFullTable:
		if e, ok := r.entries[k]; ok {
			return e
		}
		return r.def
	default:
		return absentEntry
	}
}

// setDefault installs e as the registry's fallback, promoting
// stateAbsentTable to stateSingleDefault. If the registry already has a
// full table, only the table's default slot is replaced.
func (r *registry[K]) setDefault(e regEntry) {
	if r.state == stateAbsentTable {
		r.state = stateSingleDefault
	}
	r.def = e
}

// set installs e for key k, promoting stateAbsentTable or
// stateSingleDefault to stateFullTable while preserving the existing
// default as the table's default entry: any mutation that adds a per-key
// entry promotes the absent/single-default states to a full table,
// without losing the default already configured.
func (r *registry[K]) set(k K, e regEntry) {
	if r.state != stateFullTable {
		r.state = stateFullTable
		if r.entries == nil {
			r.entries = make(map[K]regEntry)
		}
	}
	if e.kind == entryAbsent {
		delete(r.entries, k)
		return
	}
	r.entries[k] = e
}

// processDefaults holds the exactly-one process-wide default unpacker
// registry and exactly-one process-wide default packer registry. Setting
// either is idempotent with respect to instances that have already been
// configured with per-instance entries: those instances hold their own
// registry value and are never retroactively affected.
var (
	processMu            sync.RWMutex
	processPackEntries   = map[goType]regEntry{}
	processUnpackEntries = map[int8]regEntry{}
)

// goType identifies a host value's dynamic type for the purposes of the
// packer-side registry. It is an alias for any, so registry.go need not
// import reflect; packer.go passes a reflect.Type as the key (writeOther
// and SetProcessDefaultExtType).
type goType = any

func setProcessDefaultPackEntry(t goType, e regEntry) {
	processMu.Lock()
	defer processMu.Unlock()
	processPackEntries[t] = e
}

func processDefaultPackEntry(t goType) (regEntry, bool) {
	processMu.RLock()
	defer processMu.RUnlock()
	e, ok := processPackEntries[t]
	return e, ok
}

func setProcessDefaultUnpackEntry(typecode int8, e regEntry) {
	processMu.Lock()
	defer processMu.Unlock()
	processUnpackEntries[typecode] = e
}

func processDefaultUnpackEntry(typecode int8) (regEntry, bool) {
	processMu.RLock()
	defer processMu.RUnlock()
	e, ok := processUnpackEntries[typecode]
	return e, ok
}
