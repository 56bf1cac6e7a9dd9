package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/FormKey/pkg/batch"
	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/enumerate"
	"github.com/ChrisMcGann/FormKey/pkg/writer/csv"
	"github.com/ChrisMcGann/FormKey/pkg/writer/sqlite"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate formula dictionaries for a series of mass windows",
	Long: `Enumerate every plausible formula in each mass window and write the
sorted dictionaries as CSV files and/or a SQLite database.

Examples:
  # Negative mode, default windows 100-800 in 100 m/z blocks
  formkey generate --mode negative --out-dir dictionaries

  # Positive mode into SQLite with four concurrent windows
  formkey generate --mode positive --db pos.db --workers 4

  # Custom windows with a nitrogen budget
  formkey generate -m neg --centers 200,300 --half-width 25 --max-n 2 -o out`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if outDir == "" && dbFile == "" {
		return fmt.Errorf("nothing to write, specify --out-dir and/or --db")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	enum := enumerate.New(core.DefaultCalculator(), cfg.Rules)
	driver, err := batch.NewDriver(cfg.Batch, newResolver(cfg), enum, os.Stderr)
	if err != nil {
		return err
	}

	var sinks []batch.Sink
	var csvWriter *csv.Writer
	var dbWriter *sqlite.Writer
	if outDir != "" {
		csvWriter = csv.NewWriter(outDir)
		sinks = append(sinks, csvWriter)
	}
	if dbFile != "" {
		dbWriter, err = sqlite.NewWriter(dbFile, cfg.Batch.Mode)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer dbWriter.Close()
		sinks = append(sinks, dbWriter)
	}
	sinks = append(sinks, batch.SinkFunc(printProgress))

	fmt.Printf("Generating %s mode formulae for %d windows...\n", cfg.Batch.Mode, len(cfg.Batch.Centers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := driver.Run(ctx, batch.MultiSink(sinks...))
	if err != nil {
		return err
	}

	if dbWriter != nil {
		if err := dbWriter.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
	}

	fmt.Printf("\nGeneration complete!\n")
	fmt.Printf("Windows: %d\n", sum.Windows)
	if sum.Failed > 0 {
		fmt.Printf("Failed: %d windows (see warnings)\n", sum.Failed)
	}
	fmt.Printf("Formulae: %d\n", sum.Candidates)
	fmt.Printf("Max Elemental Limits were: %s\n", sum.Bounds)
	fmt.Printf("Elapsed: %s\n", sum.Elapsed.Round(time.Millisecond))
	if csvWriter != nil {
		fmt.Printf("CSV files: %d in %s\n", len(csvWriter.Files()), outDir)
	}
	if dbFile != "" {
		fmt.Printf("Database: %s\n", dbFile)
	}
	return nil
}

func printProgress(res *batch.WindowResult) error {
	if res.Err != nil {
		return nil
	}
	cached := ""
	if res.Cached {
		cached = " (cached)"
	}
	fmt.Printf("Window %s: %d formulae in %s%s\n", res.Window, len(res.Candidates), res.Elapsed.Round(time.Millisecond), cached)
	return nil
}
