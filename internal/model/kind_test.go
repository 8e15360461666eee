// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolKind_StringRoundTrip(t *testing.T) {
	for k := range kindNames {
		parsed, err := ParseSymbolKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestSymbolKind_UnknownName(t *testing.T) {
	_, err := ParseSymbolKind("NotARealKind")
	assert.Error(t, err)
}

func TestSymbolKind_IsDIBearing(t *testing.T) {
	assert.True(t, KindController.IsDIBearing())
	assert.True(t, KindProvider.IsDIBearing())
	assert.False(t, KindModule.IsDIBearing())
	assert.False(t, KindScopeProperty.IsDIBearing())
}

func TestSymbolKind_IsScopeMember(t *testing.T) {
	assert.True(t, KindScopeMethod.IsScopeMember())
	assert.True(t, KindControllerAsProperty.IsScopeMember())
	assert.False(t, KindController.IsScopeMember())
}
