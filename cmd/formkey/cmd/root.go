// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/FormKey/pkg/config"
	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

var (
	// Shared flags
	configFile string
	modeName   string
	centers    string
	halfWidth  float64

	// Flags for generate command
	outDir    string
	dbFile    string
	workers   int
	cacheSize int

	// Flags for check command
	checkMode string

	// Element bound overrides
	maxC, maxH, maxN, maxO, maxS, maxP, maxNa, maxK int
)

var rootCmd = &cobra.Command{
	Use:   "formkey",
	Short: "FormKey - Constrained molecular formula dictionary generator",
	Long: `FormKey enumerates every plausible CHNOSP molecular formula (with Na/K
adducts in positive mode) whose ion mass falls inside a series of mass
windows, and writes one sorted formula dictionary per window.

Candidates are pruned with:
- Mass-dependent element limits
- H/C, O/C, N/C, S/C and heteroatom ratio rules
- Nitrogen rule and adduct parity per ionization mode`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(limitsCmd)
	rootCmd.AddCommand(checkCmd)

	for _, c := range []*cobra.Command{generateCmd, limitsCmd} {
		c.Flags().StringVarP(&modeName, "mode", "m", "", "Ionization mode: positive or negative (required unless configured)")
		c.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (default $"+config.EnvConfig+")")
		c.Flags().StringVar(&centers, "centers", "", "Comma-separated window centers (default 150,250,...,750)")
		c.Flags().Float64Var(&halfWidth, "half-width", 0, "Window half-width in m/z (default 50)")
		c.Flags().IntVar(&maxC, "max-c", 0, "Override maximum carbon count")
		c.Flags().IntVar(&maxH, "max-h", 0, "Override maximum hydrogen count")
		c.Flags().IntVar(&maxN, "max-n", 0, "Override maximum nitrogen count")
		c.Flags().IntVar(&maxO, "max-o", 0, "Override maximum oxygen count")
		c.Flags().IntVar(&maxS, "max-s", 0, "Override maximum sulfur count")
		c.Flags().IntVar(&maxP, "max-p", 0, "Override maximum phosphorus count")
		c.Flags().IntVar(&maxNa, "max-na", 0, "Override maximum sodium count")
		c.Flags().IntVar(&maxK, "max-k", 0, "Override maximum potassium count")
	}

	generateCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for per-window CSV dictionaries")
	generateCmd.Flags().StringVar(&dbFile, "db", "", "SQLite database to write all windows to")
	generateCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of windows enumerated concurrently (default 1)")
	generateCmd.Flags().IntVar(&cacheSize, "cache-size", -1, "Window results kept in memory (0 disables)")

	checkCmd.Flags().StringVarP(&checkMode, "mode", "m", "negative", "Ionization mode: positive or negative")
	checkCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file for rule thresholds")
}

// loadConfig resolves configuration with precedence flags > environment >
// file > defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := config.LoadEnv()
	if configFile != "" {
		path = configFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode, err := core.ParseMode(modeName)
		if err != nil {
			return nil, err
		}
		cfg.Batch.Mode = mode
	}
	if flags.Changed("centers") {
		list, err := config.ParseCenters(centers)
		if err != nil {
			return nil, fmt.Errorf("--centers: %w", err)
		}
		cfg.Batch.Centers = list
	}
	if flags.Changed("half-width") {
		cfg.Batch.HalfWidth = halfWidth
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workers
	}
	if flags.Changed("cache-size") {
		cfg.Batch.CacheSize = cacheSize
	}

	overrides := []struct {
		flag string
		val  int
		dst  **int
	}{
		{"max-c", maxC, &cfg.Overrides.MaxC},
		{"max-h", maxH, &cfg.Overrides.MaxH},
		{"max-n", maxN, &cfg.Overrides.MaxN},
		{"max-o", maxO, &cfg.Overrides.MaxO},
		{"max-s", maxS, &cfg.Overrides.MaxS},
		{"max-p", maxP, &cfg.Overrides.MaxP},
		{"max-na", maxNa, &cfg.Overrides.MaxNa},
		{"max-k", maxK, &cfg.Overrides.MaxK},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			v := o.val
			*o.dst = &v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Batch.Mode == 0 {
		return nil, fmt.Errorf("ionization mode is required (--mode or $%s)", config.EnvMode)
	}
	return cfg, nil
}

func newResolver(cfg *config.Config) *limits.Resolver {
	return limits.NewResolver(cfg.Table, cfg.Overrides)
}
