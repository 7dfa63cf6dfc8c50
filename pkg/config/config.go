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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CurricleProject/curricle-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "CURRICLE_CFG"
	CfgFile       = "config.toml"
)

type Values struct {
	Document     Document `toml:"document,omitempty"`
	Dedupe       Dedupe   `toml:"dedupe,omitempty"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

// Document holds the location of the program snapshot file.
type Document struct {
	Path string `toml:"path,omitempty"`
}

// Dedupe holds thresholds for the duplicate scanner.
type Dedupe struct {
	// SimilarityThreshold is the minimum primary-field similarity for two
	// records to be considered duplicates.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	// SecondaryGateThreshold is the minimum secondary-field similarity
	// required once the primary threshold is met.
	SecondaryGateThreshold float64 `toml:"secondary_gate_threshold"`
	// RequireSecondaryBothPresent treats an empty secondary field on either
	// side as evidence against a match instead of skipping the gate.
	RequireSecondaryBothPresent bool `toml:"require_secondary_both_present"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Dedupe: Dedupe{
		SimilarityThreshold:    0.7,
		SecondaryGateThreshold: 0.5,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vals := c.defaults
	err = toml.Unmarshal(data, &vals)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if vals.ConfigSchema != SchemaVersion {
		log.Warn().Msgf(
			"config schema mismatch: got %d, expected %d",
			vals.ConfigSchema, SchemaVersion,
		)
	}

	c.vals = vals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(c.cfgPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DocumentPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Document.Path
}

func (c *Instance) SetDocumentPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Document.Path = path
}

func (c *Instance) Dedupe() Dedupe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Dedupe
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}
