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
	"errors"
	"fmt"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/CurricleProject/curricle-core/pkg/document/refs"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSurvivorNotInCluster is returned when the chosen survivor id is not
	// among the cluster members.
	ErrSurvivorNotInCluster = errors.New("survivor is not a member of the cluster")
	// ErrUnknownClusterMember is returned when a cluster id does not resolve
	// in the target collection.
	ErrUnknownClusterMember = errors.New("cluster member does not exist")
	// ErrUnsupportedCollection is returned for collections that have no
	// merge support.
	ErrUnsupportedCollection = errors.New("collection does not support merging")
)

// MergeReport records the outcome of one merge.
type MergeReport struct {
	Collection document.Collection
	Survivor   string
	Removed    []string
}

// Merge consolidates a duplicate cluster into the chosen survivor: every
// reference to a removed member is redirected to the survivor, then the
// removed records are deleted. The input document is not touched; the
// returned document is a fully rewritten copy. Merging a cluster of size
// one is a no-op.
func Merge(doc *document.Document, collection document.Collection, clusterIDs []string, survivorID string) (*document.Document, *MergeReport, error) {
	switch collection {
	case document.Library, document.Courses, document.FacultyMembers:
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedCollection, collection)
	}

	existing := doc.IDs(collection)
	survivorFound := false
	toRemove := make(map[string]struct{}, len(clusterIDs))
	removed := make([]string, 0, len(clusterIDs))
	for _, id := range clusterIDs {
		if _, ok := existing[id]; !ok {
			return nil, nil, fmt.Errorf("%w: %q in %s", ErrUnknownClusterMember, id, collection)
		}
		if id == survivorID {
			survivorFound = true
			continue
		}
		if _, dup := toRemove[id]; dup {
			continue
		}
		toRemove[id] = struct{}{}
		removed = append(removed, id)
	}
	if !survivorFound {
		return nil, nil, fmt.Errorf("%w: %q", ErrSurvivorNotInCluster, survivorID)
	}

	report := &MergeReport{
		Collection: collection,
		Survivor:   survivorID,
		Removed:    removed,
	}
	if len(removed) == 0 {
		return doc, report, nil
	}

	next, err := doc.Clone()
	if err != nil {
		return nil, nil, err
	}

	mapping := make(refs.Mapping, len(removed))
	for _, id := range removed {
		mapping[id] = survivorID
	}

	refs.Rewrite(next, collection, mapping, mapping.OldIDs())

	switch collection {
	case document.Library:
		next.RemoveResources(toRemove)
	case document.Courses:
		// Requisite lists resolve by catalog code, not id. A removed
		// course takes its code out of the catalog, so those sites are
		// redirected to the survivor's code before the delete.
		survivorCourse := next.FindCourse(survivorID)
		codeMapping := make(refs.Mapping)
		for _, id := range removed {
			if c := next.FindCourse(id); c != nil && c.Code != "" && c.Code != survivorCourse.Code {
				codeMapping[c.Code] = survivorCourse.Code
			}
		}
		if len(codeMapping) > 0 {
			refs.RewriteCourseCodes(next, codeMapping)
		}
		next.RemoveCourses(toRemove)
	case document.FacultyMembers:
		next.RemoveFaculty(toRemove)
	}

	log.Info().
		Str("collection", string(collection)).
		Str("survivor", survivorID).
		Strs("removed", removed).
		Msg("duplicate cluster merged")
	return next, report, nil
}
