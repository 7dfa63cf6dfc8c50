// Curricle Core
// Copyright (c) 2025 The Curricle Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Curricle Core.
//
// Curricle Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Curricle Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Curricle Core.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestIDMinter_Mint(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1700000000000))
	minter := NewIDMinter(clock)

	never := func(string) bool { return false }
	assert.Equal(t, "CID-1700000000000", minter.Mint("CID", never))
	assert.Equal(t, "fac-1700000000000", minter.Mint("fac", never))
}

func TestIDMinter_MintCollisionSuffix(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1700000000000))
	minter := NewIDMinter(clock)

	taken := map[string]struct{}{
		"CID-1700000000000":   {},
		"CID-1700000000000-1": {},
	}
	id := minter.Mint("CID", func(candidate string) bool {
		_, ok := taken[candidate]
		return ok
	})
	assert.Equal(t, "CID-1700000000000-2", id,
		"same-millisecond mints walk the suffix until free")
}

func TestIDMinter_ClockAdvances(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1700000000000))
	minter := NewIDMinter(clock)
	never := func(string) bool { return false }

	first := minter.Mint("CID", never)
	clock.Advance(time.Second)
	second := minter.Mint("CID", never)
	assert.NotEqual(t, first, second)
}
