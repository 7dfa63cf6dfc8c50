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
	"context"
	"fmt"
	"sort"

	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config holds the clustering thresholds.
type Config struct {
	// SimilarityThreshold is the minimum primary-field similarity for a
	// candidate to join a cluster (strictly exceeded).
	SimilarityThreshold float64
	// SecondaryGateThreshold is the minimum secondary-field similarity once
	// the primary threshold is met. Two books with near-identical titles but
	// clearly different authors are usually different books.
	SecondaryGateThreshold float64
	// RequireSecondaryBothPresent treats an empty secondary field on either
	// side as failing the gate instead of skipping it.
	RequireSecondaryBothPresent bool
}

// DefaultConfig returns the thresholds used by the interactive scanner.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:    0.7,
		SecondaryGateThreshold: 0.5,
	}
}

// Candidate is one record submitted for clustering: the id, a primary
// comparison field (title) and an optional secondary field (author).
type Candidate struct {
	ID        string
	Primary   string
	Secondary string
}

// Cluster is a group of mutually similar candidates, in discovery order.
type Cluster struct {
	Members []Candidate
}

// IDs returns the member ids in cluster order.
func (c Cluster) IDs() []string {
	out := make([]string, len(c.Members))
	for i, m := range c.Members {
		out[i] = m.ID
	}
	return out
}

// FindClusters groups candidates into duplicate clusters.
//
// Candidates are scanned in primary-field length order, longest first, so
// the fuller title anchors each comparison and partial-title variants still
// attach. Every unassigned candidate becomes an anchor; later unassigned
// candidates join its cluster when the primary similarity exceeds the
// threshold and the secondary gate passes. A candidate belongs to at most
// one cluster, and clusters of size one are discarded.
//
// The scan is O(n²) string comparisons and checks ctx between anchors, so a
// caller can cancel a long scan; results are only ever returned whole.
func FindClusters(ctx context.Context, records []Candidate, cfg Config) ([]Cluster, error) {
	ordered := make([]Candidate, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Primary) > len(ordered[j].Primary)
	})

	assigned := make(map[string]struct{}, len(ordered))
	var clusters []Cluster

	for i := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("duplicate scan canceled: %w", err)
		}
		anchor := ordered[i]
		if _, done := assigned[anchor.ID]; done {
			continue
		}
		assigned[anchor.ID] = struct{}{}
		members := []Candidate{anchor}

		for j := i + 1; j < len(ordered); j++ {
			candidate := ordered[j]
			if _, done := assigned[candidate.ID]; done {
				continue
			}
			if !matches(anchor, candidate, cfg) {
				continue
			}
			assigned[candidate.ID] = struct{}{}
			members = append(members, candidate)
		}

		if len(members) > 1 {
			clusters = append(clusters, Cluster{Members: members})
		}
	}

	return clusters, nil
}

func matches(anchor, candidate Candidate, cfg Config) bool {
	sim := Similarity(anchor.Primary, candidate.Primary)
	if sim <= cfg.SimilarityThreshold {
		return false
	}

	anchorEmpty := anchor.Secondary == ""
	candidateEmpty := candidate.Secondary == ""
	if anchorEmpty || candidateEmpty {
		if cfg.RequireSecondaryBothPresent && anchorEmpty != candidateEmpty {
			return false
		}
		return true
	}

	return Similarity(anchor.Secondary, candidate.Secondary) >= cfg.SecondaryGateThreshold
}

// ResourceCluster is one duplicate group of library resources, annotated
// with how many courses reference each member.
type ResourceCluster struct {
	Usage     map[string]int
	Resources []document.LibraryResource
}

// ScanReport is the result of one library duplicate scan.
type ScanReport struct {
	RunID    string
	Clusters []ResourceCluster
}

// ScanLibrary runs duplicate detection over the library collection, using
// title as the primary field and author as the secondary gate.
func ScanLibrary(ctx context.Context, doc *document.Document, cfg Config) (*ScanReport, error) {
	candidates := make([]Candidate, 0, len(doc.Library))
	for i := range doc.Library {
		r := &doc.Library[i]
		candidates = append(candidates, Candidate{
			ID:        r.ID,
			Primary:   r.Title,
			Secondary: r.Author,
		})
	}

	clusters, err := FindClusters(ctx, candidates, cfg)
	if err != nil {
		return nil, err
	}

	report := &ScanReport{RunID: uuid.NewString()}
	for _, cluster := range clusters {
		rc := ResourceCluster{Usage: make(map[string]int, len(cluster.Members))}
		for _, m := range cluster.Members {
			if res := doc.FindResource(m.ID); res != nil {
				rc.Resources = append(rc.Resources, *res)
				rc.Usage[m.ID] = doc.ResourceUsage(m.ID)
			}
		}
		report.Clusters = append(report.Clusters, rc)
	}

	log.Info().
		Str("run", report.RunID).
		Int("resources", len(doc.Library)).
		Int("clusters", len(report.Clusters)).
		Msg("library duplicate scan complete")
	return report, nil
}
