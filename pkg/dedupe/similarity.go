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

package dedupe

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity scores two strings in [0, 1] from the Levenshtein distance of
// their normalized forms: (L - d) / L where L is the longer length. Both
// empty scores 1.0, exactly one empty scores 0.0. The score is symmetric.
//
// Levenshtein rather than Jaro-Winkler: book titles and names diverge in
// the middle and at the end ("Introduction to" vs "Intro to"), so prefix
// weighting would inflate unrelated titles that share openers.
func Similarity(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}

	longer := utf8.RuneCountInString(na)
	if lb := utf8.RuneCountInString(nb); lb > longer {
		longer = lb
	}

	dist := edlib.LevenshteinDistance(na, nb)
	return float64(longer-dist) / float64(longer)
}
