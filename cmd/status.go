package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ape-swap/config"
	"ape-swap/pkg/wallet"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a transfer",
	Long: `Check whether a BUSD transfer has been mined and whether it succeeded.

Examples:
  ape-swap status 0x1234...abcd
  ape-swap status 0x1234...abcd --watch
  ape-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch until the transfer is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	period, err := pollPeriod(watchInterval)
	if watchStatus && err != nil {
		printError(err)
		os.Exit(1)
	}

	evmWallet, err := wallet.NewEVMWallet(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer evmWallet.Close()

	if watchStatus {
		watchTransferStatus(evmWallet, txHash, period, jsonOutput)
	} else {
		checkTransferStatus(evmWallet, txHash, jsonOutput)
	}
}

func checkTransferStatus(w *wallet.EVMWallet, txHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transfer status..."
		s.Start()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := w.TransactionStatus(ctx, txHash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}
}

// pollPeriod converts the --interval flag, which must be positive
func pollPeriod(seconds int) (time.Duration, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("interval must be at least 1 second, got %d", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

func watchTransferStatus(w *wallet.EVMWallet, txHash string, period time.Duration, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transfer %s\n", color.CyanString(txHash))
	fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n\n", period)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	// Check immediately first
	if checkAndDisplayStatus(w, txHash) {
		return
	}

	for range ticker.C {
		if checkAndDisplayStatus(w, txHash) {
			return
		}
	}
}

// checkAndDisplayStatus reports whether the transfer has been mined
func checkAndDisplayStatus(w *wallet.EVMWallet, txHash string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := w.TransactionStatus(ctx, txHash)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status)
	return !status.Pending
}

func displayStatus(status *wallet.TxStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      TRANSFER STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash:         %s\n", color.CyanString(status.Hash))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status))
	fmt.Printf("  Token Contract:  %s\n", color.HiBlackString(status.To))
	fmt.Printf("  Nonce:           %d\n", status.Nonce)

	if !status.Pending {
		fmt.Printf("  Block:           %d\n", status.BlockNumber)
		fmt.Printf("  Gas Used:        %d / %d\n", status.GasUsed, status.GasLimit)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status *wallet.TxStatus) string {
	switch {
	case status.Pending:
		return color.YellowString("PENDING")
	case status.Succeeded != nil && *status.Succeeded:
		return color.GreenString("SUCCESS")
	default:
		return color.RedString("FAILED")
	}
}
