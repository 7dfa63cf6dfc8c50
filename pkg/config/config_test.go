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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_CreatesDefaultFile(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, CfgFile))
	assert.InDelta(t, 0.7, cfg.Dedupe().SimilarityThreshold, 0)
	assert.InDelta(t, 0.5, cfg.Dedupe().SecondaryGateThreshold, 0)
	assert.False(t, cfg.Dedupe().RequireSecondaryBothPresent)
	assert.Empty(t, cfg.DocumentPath())
}

func TestConfig_SaveAndReload(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetDocumentPath("/data/program.json")
	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "/data/program.json", reloaded.DocumentPath())
	assert.True(t, reloaded.DebugLogging())
}

func TestConfig_EnvOverridesPath(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom", "curricle.toml")
	t.Setenv(CfgEnv, custom)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, custom, cfg.Path())
	assert.FileExists(t, custom)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(CfgEnv, "")
	dir := t.TempDir()

	// A hand-edited file that only sets the threshold must not zero the
	// gate threshold.
	partial := "config_schema = 1\n\n[dedupe]\nsimilarity_threshold = 0.9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(partial), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, cfg.Dedupe().SimilarityThreshold, 0)
	assert.InDelta(t, 0.5, cfg.Dedupe().SecondaryGateThreshold, 0)
}
