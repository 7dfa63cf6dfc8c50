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

// Package dedupe finds near-duplicate records by normalized text similarity,
// groups them into clusters, and consolidates a cluster into one survivor
// while redirecting every inbound reference.
package dedupe

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumSpaceRegex = regexp.MustCompile(`[^a-z0-9\s]+`)

// removeDiacritics strips combining marks so that accented and unaccented
// spellings compare equal ("Pham" vs "Phạm", "Cafe" vs "Café").
func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

// NormalizeText canonicalizes free text for comparison: lowercase, strip
// diacritics, drop everything outside [a-z0-9\s], trim surrounding space.
// Interior whitespace is preserved so word boundaries still count toward
// edit distance.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = removeDiacritics(s)
	s = nonAlnumSpaceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
