// Command ingest assembles every .mtf file under a directory and saves each
// loadout as a unit snapshot in the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/config"
	"github.com/JustinWhittecar/mekmount/internal/db"
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/ingestion"
	"github.com/JustinWhittecar/mekmount/internal/logging"
)

type result struct {
	files, parsed, failed, saved, warned int
	errors                               []string
}

func main() {
	dir := flag.String("dir", ".", "Path to mekfiles directory")
	configDir := flag.String("config", ".", "Directory containing mekmount.json")
	dryRun := flag.Bool("dry-run", false, "Assemble only, do not save snapshots")
	verbose := flag.Bool("verbose", false, "Print each assembled unit")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(settings.LogLevel, nil)

	catalog := equipment.Default()
	if settings.CatalogPath != "" {
		if catalog, err = equipment.LoadFile(settings.CatalogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Catalog error: %v\n", err)
			os.Exit(1)
		}
	}

	// Connect to the store unless dry-run
	var store db.SnapshotStore
	ctx := context.Background()
	if !*dryRun {
		s, closeStore, err := db.Open(ctx, settings.Snapshot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB connect error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()
		store = s
	}

	res, err := ingestDir(ctx, *dir, catalog, settings.Rules, store, *verbose, logging.Component(log, "ingest"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking directory: %v\n", err)
		os.Exit(1)
	}
	res.print(store != nil)
}

func findMTF(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".mtf") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func ingestDir(ctx context.Context, dir string, catalog *equipment.Catalog, rules game.Options, store db.SnapshotStore, verbose bool, log zerolog.Logger) (result, error) {
	var res result
	files, err := findMTF(dir)
	if err != nil {
		return res, err
	}
	res.files = len(files)
	fmt.Printf("Found %d .mtf files\n", len(files))

	for i, f := range files {
		data, err := ingestion.ParseMTF(f)
		if err != nil {
			res.fail(f, err)
			continue
		}
		loadout, err := ingestion.Assemble(data, catalog, rules, log)
		if err != nil {
			res.fail(f, err)
			continue
		}
		res.parsed++
		if len(loadout.Warnings) > 0 {
			res.warned++
		}

		if verbose {
			fmt.Printf("  %-40s %3dt  %3d mounts  %d warnings\n", data.FullName(), data.Mass, loadout.Unit.Len(), len(loadout.Warnings))
		}

		if store != nil {
			if err := store.SaveUnit(ctx, loadout.Unit.Snapshot()); err != nil {
				res.fail(f, err)
				continue
			}
			res.saved++
		}

		if (i+1)%500 == 0 {
			fmt.Printf("  Progress: %d / %d files processed\n", i+1, len(files))
		}
	}
	return res, nil
}

func (r *result) fail(path string, err error) {
	r.failed++
	r.errors = append(r.errors, fmt.Sprintf("  %s: %v", filepath.Base(path), err))
}

func (r result) print(saving bool) {
	fmt.Printf("\nResults:\n")
	pct := 0.0
	if r.files > 0 {
		pct = float64(r.parsed) / float64(r.files) * 100
	}
	fmt.Printf("  Assembled: %d / %d (%.1f%%)\n", r.parsed, r.files, pct)
	fmt.Printf("  Warnings:  %d units\n", r.warned)
	fmt.Printf("  Failed:    %d\n", r.failed)
	if saving {
		fmt.Printf("  Saved:     %d snapshots\n", r.saved)
	}

	if len(r.errors) > 0 {
		fmt.Printf("\nFirst %d errors:\n", min(len(r.errors), 20))
		for i, e := range r.errors {
			if i >= 20 {
				break
			}
			fmt.Println(e)
		}
	}
}
