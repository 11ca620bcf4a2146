// Copyright 2026 The Go MsgPack Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryAbsentByDefault(t *testing.T) {
	var r registry[string]
	require.Equal(t, absentEntry, r.lookup("anything"))
}

func TestRegistrySetDefaultPromotesState(t *testing.T) {
	var r registry[string]
	r.setDefault(regEntry{kind: entryRefuse})
	require.Equal(t, stateSingleDefault, r.state)
	require.Equal(t, entryKind(entryRefuse), r.lookup("whatever").kind)
}

func TestRegistrySetPromotesToFullTablePreservingDefault(t *testing.T) {
	var r registry[string]
	r.setDefault(regEntry{kind: entryRefuse})
	r.set("foo", regEntry{kind: entryBound, handler: "foo-handler"})

	require.Equal(t, stateFullTable, r.state)
	require.Equal(t, "foo-handler", r.lookup("foo").handler)
	// Keys other than "foo" still see the preserved default.
	require.Equal(t, entryKind(entryRefuse), r.lookup("bar").kind)
}

func TestRegistrySetAbsentRemovesEntry(t *testing.T) {
	var r registry[string]
	r.set("foo", regEntry{kind: entryBound, handler: 1})
	require.Equal(t, entryKind(entryBound), r.lookup("foo").kind)

	r.set("foo", regEntry{kind: entryAbsent})
	require.Equal(t, absentEntry, r.lookup("foo"))
}

func TestProcessDefaultPackEntryRoundTrip(t *testing.T) {
	type marker struct{}
	setProcessDefaultPackEntry(marker{}, regEntry{kind: entryRefuse})
	e, ok := processDefaultPackEntry(marker{})
	require.True(t, ok)
	require.Equal(t, entryKind(entryRefuse), e.kind)

	_, ok = processDefaultPackEntry("not registered")
	require.False(t, ok)
}

func TestProcessDefaultUnpackEntryRoundTrip(t *testing.T) {
	setProcessDefaultUnpackEntry(99, regEntry{kind: entryBound, handler: 42})
	e, ok := processDefaultUnpackEntry(99)
	require.True(t, ok)
	require.Equal(t, 42, e.handler)
}
