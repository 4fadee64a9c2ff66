package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/stowlabs/resourcestore/migration"
	"github.com/stowlabs/resourcestore/source"
	"github.com/stowlabs/resourcestore/store"
	"github.com/stowlabs/resourcestore/types"
)

var (
	migrateFrom        string
	migrateDataDir     string
	migrateDryRun      bool
	migrateBatchSize   int
	migrateCollections []string
	migrateUpsert      bool
	migrateOut         string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate records from a legacy source into a resource store",
	Long: `Reads every record from the legacy source, batch by batch, and writes it
into a fresh schema-validated store. Records that already exist in the
target are skipped unless --upsert is given; records that fail validation
are reported but do not abort the run.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	flags := migrateCmd.Flags()
	flags.StringVar(&migrateFrom, "from", "json", "source backend (memory|json|sqlite)")
	flags.StringVar(&migrateDataDir, "data-dir", ".", "source data directory")
	flags.BoolVarP(&migrateDryRun, "dry-run", "n", false, "compute counts without writing")
	flags.IntVar(&migrateBatchSize, "batch-size", migration.DefaultBatchSize, "source page size")
	flags.StringSliceVar(&migrateCollections, "collections", nil, "restrict to these collections")
	flags.BoolVar(&migrateUpsert, "upsert", false, "overwrite existing target records instead of skipping")
	flags.StringVar(&migrateOut, "out", "", "write the migrated store contents to this JSON file")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	src, err := source.New(migrateFrom, migrateDataDir)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	target, err := store.New(schema)
	if err != nil {
		return err
	}

	result, err := migration.Migrate(src, target, schema, migration.Options{
		DryRun:      migrateDryRun,
		Collections: migrateCollections,
		BatchSize:   migrateBatchSize,
		Upsert:      migrateUpsert,
		OnProgress: func(processed, total int) error {
			slog.Debug("migrating", "processed", processed, "total", total)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("migration failed to run: %w", err)
	}

	printResult(result)

	if migrateOut != "" && !migrateDryRun {
		if err := dumpStore(target, migrateOut); err != nil {
			return err
		}
	}

	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func printResult(result *migration.Result) {
	fmt.Printf("migrated: %d  skipped: %d  failed: %d\n",
		result.MigratedCount, result.SkippedCount, result.FailedCount)
	for _, name := range sortedKeys(result.ByCollection) {
		fmt.Printf("  %s: %d\n", name, result.ByCollection[name])
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	if result.DryRun {
		fmt.Println("(dry run - no records were written)")
	}
}

// dumpStore writes every collection of the target store to a JSON file.
func dumpStore(target *store.Store, path string) error {
	contents := make(map[string][]types.Record)
	for _, name := range target.Collections() {
		var all []types.Record
		offset := 0
		for {
			limit := migration.DefaultBatchSize
			page, err := target.List(name, types.ListOptions{Limit: &limit, Offset: &offset})
			if err != nil {
				return err
			}
			all = append(all, page.Data...)
			if !page.HasMore {
				break
			}
			offset += len(page.Data)
		}
		contents[name] = all
	}

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store contents: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
