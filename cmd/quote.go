package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ape-swap/config"
	"ape-swap/pkg/parser"
	"ape-swap/pkg/swapform"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> [BUSD|APE]",
	Short: "Show how much APE a BUSD amount buys, or the reverse",
	Long: `Compute the paired amount at the configured rate without sending anything.

Examples:
  ape-swap quote 10 BUSD
  ape-swap quote 2.5 APE`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	req, err := parser.ParseBuyCommand(strings.Join(args, " "), cfg.SourceSymbol, cfg.TargetSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	field, err := swapform.ParseField(req.Token, cfg.SourceSymbol, cfg.TargetSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	form := swapform.New(cfg.Rate)
	if err := form.Set(field, req.Amount); err != nil {
		printError(err)
		os.Exit(1)
	}
	state := form.State()

	if jsonOutput {
		output := map[string]interface{}{
			"source_amount": state.SourceAmount,
			"source_token":  cfg.SourceSymbol,
			"target_amount": state.TargetAmount,
			"target_token":  cfg.TargetSymbol,
			"rate":          cfg.Rate.String(),
			"status":        "quote_generated",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayOrder(cfg, state)
	fmt.Println()
}
