package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/FormKey/pkg/config"
	"github.com/ChrisMcGann/FormKey/pkg/core"
)

var checkCmd = &cobra.Command{
	Use:   "check FORMULA",
	Short: "Report masses and rule verdicts for a single ionic formula",
	Long: `Compute the ion mass, neutral mass and abundance of an ionic formula and
report the first plausibility rule it fails.

Examples:
  formkey check C6H11O6 --mode negative
  formkey check C6H12O3Na --mode positive`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	mode, err := core.ParseMode(checkMode)
	if err != nil {
		return err
	}
	comp, err := core.ParseFormula(args[0])
	if err != nil {
		return err
	}

	path := config.LoadEnv()
	if configFile != "" {
		path = configFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cand := core.DefaultCalculator().NewCandidate(comp, mode)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Formula: %s (%s)\n", cand.Formula(), mode)
	fmt.Fprintf(out, "Neutral formula: %s\n", cand.NeutralFormula())
	fmt.Fprintf(out, "Ion mass: %.6f\n", cand.Mass)
	fmt.Fprintf(out, "Neutral mass: %.6f\n", core.NeutralMass(comp.Neutral(mode)))
	fmt.Fprintf(out, "Abundance: %.6f\n", cand.Abundance)
	fmt.Fprintf(out, "Heteroclass: %s (%d heteroatoms)\n", cand.HeteroClass(), cand.HeteroCount())
	if comp.C > 0 {
		fmt.Fprintf(out, "H/C: %.3f  O/C: %.3f\n", cand.HC(), cand.OC())
		fmt.Fprintf(out, "DBE: %g  AI: %g  AImod: %g\n",
			core.RoundFloat(cand.DBE(), 2), core.RoundFloat(cand.AI(), 3), core.RoundFloat(cand.AIMod(), 3))
	}

	if err := cfg.Rules.Apply(comp, mode); err != nil {
		fmt.Fprintf(out, "Verdict: %v\n", err)
	} else {
		fmt.Fprintf(out, "Verdict: plausible\n")
	}
	return nil
}
