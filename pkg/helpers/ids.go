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
	"fmt"

	"github.com/jonboulle/clockwork"
)

// IDMinter generates fresh record identifiers from a timestamp seed.
// The clock is injected so tests can mint deterministic ids.
type IDMinter struct {
	clock clockwork.Clock
}

// NewIDMinter creates an IDMinter backed by the given clock.
func NewIDMinter(clock clockwork.Clock) *IDMinter {
	return &IDMinter{clock: clock}
}

// Mint returns an id of the form "<prefix>-<unix millis>" that is guaranteed
// not to satisfy taken. A numeric suffix is appended on collision, so two
// mints within the same millisecond still produce distinct ids.
func (m *IDMinter) Mint(prefix string, taken func(string) bool) string {
	base := fmt.Sprintf("%s-%d", prefix, m.clock.Now().UnixMilli())
	id := base
	for i := 1; taken(id); i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	return id
}
