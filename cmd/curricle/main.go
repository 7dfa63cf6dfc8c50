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

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CurricleProject/curricle-core/pkg/config"
	"github.com/CurricleProject/curricle-core/pkg/dedupe"
	"github.com/CurricleProject/curricle-core/pkg/document"
	"github.com/CurricleProject/curricle-core/pkg/document/canonical"
	"github.com/CurricleProject/curricle-core/pkg/helpers"
	"github.com/CurricleProject/curricle-core/pkg/importer"
	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const appName = "curricle"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  set-doc <path>     set the program snapshot file to operate on
  scan-duplicates    find near-duplicate library resources
  merge              merge a duplicate cluster into one survivor
  normalize-ids      rename faculty and course ids to canonical form
  import-course      import one course from a JSON file
  import-faculty     import one faculty member from a JSON file
  import-catalog     bulk-upsert courses from a catalog CSV
  export-catalog     write the course catalog to a CSV file
  clear              reset all design data in the document

Run '%s <command> -h' for command flags.
`, appName, appName)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	logDir := filepath.Join(xdg.StateHome, appName)
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if err := helpers.InitLogging(logDir, []io.Writer{console}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	configDir := filepath.Join(xdg.ConfigHome, appName)
	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	app := &app{
		cfg:   cfg,
		fs:    afero.NewOsFs(),
		clock: clockwork.NewRealClock(),
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := app.run(cmd, args); err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg   *config.Instance
	fs    afero.Fs
	clock clockwork.Clock
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "set-doc":
		return a.setDoc(args)
	case "scan-duplicates":
		return a.scanDuplicates(args)
	case "merge":
		return a.merge(args)
	case "normalize-ids":
		return a.normalizeIDs(args)
	case "import-course":
		return a.importCourse(args)
	case "import-faculty":
		return a.importFaculty(args)
	case "import-catalog":
		return a.importCatalog(args)
	case "export-catalog":
		return a.exportCatalog(args)
	case "clear":
		return a.clear(args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// store opens the configured snapshot and loads it.
func (a *app) store() (*document.Store, error) {
	path := a.cfg.DocumentPath()
	if path == "" {
		return nil, fmt.Errorf("no document configured, run '%s set-doc <path>' first", appName)
	}
	store := document.NewStore(a.fs, path)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (a *app) dedupeConfig() dedupe.Config {
	dc := a.cfg.Dedupe()
	return dedupe.Config{
		SimilarityThreshold:         dc.SimilarityThreshold,
		SecondaryGateThreshold:      dc.SecondaryGateThreshold,
		RequireSecondaryBothPresent: dc.RequireSecondaryBothPresent,
	}
}

func (a *app) setDoc(args []string) error {
	fs := flag.NewFlagSet("set-doc", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s set-doc <path>", appName)
	}

	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if exists, _ := afero.Exists(a.fs, path); !exists {
		return fmt.Errorf("document does not exist: %s", path)
	}

	a.cfg.SetDocumentPath(path)
	if err := a.cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("document set to %s\n", path)
	return nil
}

func (a *app) scanDuplicates(args []string) error {
	fs := flag.NewFlagSet("scan-duplicates", flag.ExitOnError)
	threshold := fs.Float64("threshold", 0, "override similarity threshold (0 < t <= 1)")
	_ = fs.Parse(args)

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	cfg := a.dedupeConfig()
	if *threshold > 0 {
		cfg.SimilarityThreshold = *threshold
	}

	report, err := dedupe.ScanLibrary(context.Background(), doc, cfg)
	if err != nil {
		return err
	}
	if len(report.Clusters) == 0 {
		fmt.Println("no duplicate resources found")
		return nil
	}

	fmt.Printf("found %d duplicate cluster(s), run %s\n\n", len(report.Clusters), report.RunID)
	for i, cluster := range report.Clusters {
		fmt.Printf("cluster %d:\n", i+1)
		for _, res := range cluster.Resources {
			fmt.Printf("  %-24s %q by %q (used by %d course(s))\n",
				res.ID, res.Title, res.Author, cluster.Usage[res.ID])
		}
		fmt.Println()
	}
	return nil
}

func (a *app) merge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	collection := fs.String("collection", string(document.Library), "collection to merge in (library, courses, faculty)")
	survivor := fs.String("survivor", "", "id of the record to keep")
	ids := fs.String("ids", "", "comma-separated cluster ids, survivor included")
	_ = fs.Parse(args)

	if *survivor == "" || *ids == "" {
		return fmt.Errorf("usage: %s merge -collection <c> -survivor <id> -ids <id,id,...>", appName)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	cluster := strings.Split(*ids, ",")
	for i := range cluster {
		cluster[i] = strings.TrimSpace(cluster[i])
	}

	next, report, err := dedupe.Merge(doc, document.Collection(*collection), cluster, *survivor)
	if err != nil {
		return err
	}
	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Printf("merged %d record(s) into %s\n", len(report.Removed), report.Survivor)
	return nil
}

func (a *app) normalizeIDs(args []string) error {
	fs := flag.NewFlagSet("normalize-ids", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	_ = fs.Parse(args)

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	// Renaming rewrites ids across the whole document and prunes entries
	// that no longer resolve, so it asks before touching anything.
	if !*yes && !confirm("Rewrite all faculty and course ids to canonical form?") {
		fmt.Println("aborted")
		return nil
	}

	next, report, err := canonical.Normalize(doc)
	if err != nil {
		return err
	}
	if !report.Changed() {
		fmt.Println("all identifiers already canonical")
		return nil
	}

	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Printf("renamed %d faculty and %d course id(s), pruned %d stale reference(s)\n",
		len(report.Faculty), len(report.Courses), report.Pruned)
	return nil
}

func (a *app) importCourse(args []string) error {
	fs := flag.NewFlagSet("import-course", flag.ExitOnError)
	file := fs.String("file", "", "JSON file holding one course record")
	resolve := fs.String("resolve", "", "conflict resolution: overwrite or create-new")
	_ = fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("usage: %s import-course -file <path> [-resolve overwrite|create-new]", appName)
	}

	var incoming document.Course
	if err := a.readJSON(*file, &incoming); err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	im := importer.New(a.clock)
	next, result, err := im.ImportCourse(doc, incoming, importer.Resolution(*resolve))
	if err != nil {
		if result != nil && result.Conflict != nil {
			fmt.Fprintf(os.Stderr, "conflicts with existing course %s (matched by %s); re-run with -resolve\n",
				result.Conflict.ExistingID, result.Conflict.Reason)
		}
		return err
	}

	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Printf("course %s %s\n", result.ID, result.Action)
	return nil
}

func (a *app) importFaculty(args []string) error {
	fs := flag.NewFlagSet("import-faculty", flag.ExitOnError)
	file := fs.String("file", "", "JSON file holding one faculty record")
	resolve := fs.String("resolve", "", "conflict resolution: overwrite or create-new")
	_ = fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("usage: %s import-faculty -file <path> [-resolve overwrite|create-new]", appName)
	}

	var incoming document.Faculty
	if err := a.readJSON(*file, &incoming); err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	im := importer.New(a.clock)
	next, result, err := im.ImportFaculty(doc, incoming, importer.Resolution(*resolve))
	if err != nil {
		if result != nil && result.Conflict != nil {
			fmt.Fprintf(os.Stderr, "conflicts with existing faculty %s (matched by %s); re-run with -resolve\n",
				result.Conflict.ExistingID, result.Conflict.Reason)
		}
		return err
	}

	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Printf("faculty %s %s\n", result.ID, result.Action)
	return nil
}

func (a *app) importCatalog(args []string) error {
	fs := flag.NewFlagSet("import-catalog", flag.ExitOnError)
	file := fs.String("file", "", "catalog CSV file")
	_ = fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("usage: %s import-catalog -file <path>", appName)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	catalog := importer.NewCatalog(a.fs, a.clock)
	entries, err := catalog.Import(*file)
	if err != nil {
		return err
	}
	next, report, err := catalog.ApplyCatalog(doc, entries)
	if err != nil {
		return err
	}

	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Printf("catalog applied: %d created, %d updated\n", len(report.Created), len(report.Updated))
	return nil
}

func (a *app) exportCatalog(args []string) error {
	fs := flag.NewFlagSet("export-catalog", flag.ExitOnError)
	file := fs.String("file", "", "output CSV file")
	_ = fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("usage: %s export-catalog -file <path>", appName)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	catalog := importer.NewCatalog(a.fs, a.clock)
	if err := catalog.Export(doc, *file); err != nil {
		return err
	}
	fmt.Printf("catalog written to %s\n", *file)
	return nil
}

func (a *app) clear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	_ = fs.Parse(args)

	store, err := a.store()
	if err != nil {
		return err
	}
	doc, err := store.Snapshot()
	if err != nil {
		return err
	}

	if !*yes && !confirm("Delete ALL design data from the document?") {
		fmt.Println("aborted")
		return nil
	}

	next, err := doc.Clone()
	if err != nil {
		return err
	}
	next.ClearDesignData()
	store.Replace(next)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Println("design data cleared")
	return nil
}

func (a *app) readJSON(path string, out any) error {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
