package main

import (
	"errors"
	"fmt"

	"plannerd/internal/rules"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect rules documents",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rules documents",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check [rules-id...]",
	Short: "Validate rules documents (all when no ids are given)",
	Long: `Parses each rules document and reports missing or malformed files.

Example:
  plannerd rules check default web`,
	RunE: runRulesCheck,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func runRulesList(cmd *cobra.Command, args []string) error {
	loader := rules.NewLoader(cfg.Rules.Dir)
	ids, err := loader.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintf(out, "No rules documents in %s\n", loader.Dir())
		return nil
	}
	for _, id := range ids {
		fmt.Fprintf(out, "%s\t%s\n", id, loader.Path(id))
	}
	return nil
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	loader := rules.NewLoader(cfg.Rules.Dir)
	ids := args
	if len(ids) == 0 {
		var err error
		if ids, err = loader.List(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, id := range ids {
		if err := loader.Check(id); err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", id, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", id)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d rules documents failed", failed, len(ids))
	}
	if len(ids) == 0 {
		return errors.New("no rules documents to check in " + loader.Dir())
	}
	return nil
}
