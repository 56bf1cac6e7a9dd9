package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/FormKey/pkg/batch"
	"github.com/ChrisMcGann/FormKey/pkg/enumerate"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print the element bounds resolved for each window",
	Long: `Resolve the element bounds of every configured window without
enumerating. Elements the ionization mode never searches are shown as 0.`,
	Args: cobra.NoArgs,
	RunE: runLimits,
}

func runLimits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	strat, err := enumerate.StrategyFor(cfg.Batch.Mode)
	if err != nil {
		return err
	}
	resolver := newResolver(cfg)
	driver, err := batch.NewDriver(cfg.Batch, resolver, enumerate.Default(), nil)
	if err != nil {
		return err
	}

	fmt.Printf("Element limits (%s mode):\n", cfg.Batch.Mode)
	for _, w := range driver.Windows() {
		b, err := resolver.Resolve(w, cfg.Batch.Mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: window %s: %v\n", w, err)
			continue
		}
		fmt.Printf("  %-10s %s\n", w, strat.Effective(b))
	}
	return nil
}
