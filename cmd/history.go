package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ape-swap/config"
	"ape-swap/pkg/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List recorded purchases",
	Long: `List purchases recorded by this machine, newest first.

Examples:
  ape-swap history
  ape-swap history --limit 5`,
	Run: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := history.NewStorage(cfg.HistoryFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	records := store.List(historyLimit)

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(records) == 0 {
		printSuccess(fmt.Sprintf("No purchases recorded yet (%s).", store.GetFilePath()))
		return
	}

	displayHistory(cfg, records, store.Count())
}

func displayHistory(cfg *config.Config, records []*history.Record, total int) {
	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                                PURCHASE HISTORY")
	fmt.Println(strings.Repeat("=", 90))

	for _, r := range records {
		status := color.GreenString(strings.ToUpper(string(r.Status)))
		if r.Status == history.StatusFailed {
			status = color.RedString(strings.ToUpper(string(r.Status)))
		}

		fmt.Printf("\n  %s  %-8s  %s %s -> %s %s  %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			status,
			r.SourceAmount, color.YellowString(cfg.SourceSymbol),
			r.TargetAmount, color.YellowString(cfg.TargetSymbol),
			r.Network)

		if r.TxHash != "" {
			fmt.Printf("      Tx:      %s\n", color.HiBlackString(r.TxHash))
		}
		if r.Message != "" {
			fmt.Printf("      Message: %s\n", r.Message)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nShowing %d of %d purchases\n\n", len(records), total)
}
