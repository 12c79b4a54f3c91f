package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ape-swap/config"
	"ape-swap/pkg/backend"
	"ape-swap/pkg/history"
	"ape-swap/pkg/notify"
	"ape-swap/pkg/parser"
	"ape-swap/pkg/swap"
	"ape-swap/pkg/swapform"
	"ape-swap/pkg/types"
	"ape-swap/pkg/wallet"
)

var (
	sourceAmountFlag string
	targetAmountFlag string
	noConfirm        bool
	interactive      bool
)

var buyCmd = &cobra.Command{
	Use:   "buy [<amount> [BUSD|APE]]",
	Short: "Buy APE by transferring BUSD to the project wallet",
	Long: `Transfer BUSD to the project wallet and report the transaction to the backend.

The amount can be given in either token; the other side is derived from the
configured rate (4 BUSD per APE by default). Without an amount an interactive
form is shown.

Examples:
  ape-swap buy 10 BUSD
  ape-swap buy 2.5 APE
  ape-swap buy --busd 10 --yes
  ape-swap buy --interactive`,
	Run: runBuy,
}

func init() {
	rootCmd.AddCommand(buyCmd)

	buyCmd.Flags().StringVar(&sourceAmountFlag, "busd", "", "Amount of BUSD to send")
	buyCmd.Flags().StringVar(&targetAmountFlag, "ape", "", "Amount of APE to receive")
	buyCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	buyCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Enter the amount in an interactive form")
}

func runBuy(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := cfg.ValidateTransfer(); err != nil {
		printError(err)
		os.Exit(1)
	}

	form := swapform.New(cfg.Rate)
	field, amount, err := resolveAmount(cfg, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := form.Set(field, amount); err != nil {
		printError(err)
		os.Exit(1)
	}

	state := form.State()
	if !jsonOutput {
		displayOrder(cfg, state)
	}

	if !noConfirm && !cfg.AutoConfirm && !jsonOutput {
		if !confirmBuy() {
			fmt.Println("\nPurchase cancelled.")
			os.Exit(0)
		}
	}

	evmWallet, err := wallet.NewEVMWallet(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer evmWallet.Close()

	store, err := history.NewStorage(cfg.HistoryFile)
	if err != nil {
		log.Warn().Err(err).Msg("History disabled")
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Processing..."

	submitter := swap.NewSubmitter(
		evmWallet,
		backend.NewClient(cfg.APIURL, cfg.Timeout),
		notify.NewTerminal(jsonOutput),
		swap.Settings{
			Recipient:      common.HexToAddress(cfg.Recipient),
			Decimals:       cfg.Decimals,
			Network:        cfg.Network,
			User:           types.UserProfile{Email: cfg.UserEmail, Wallet: userWallet(cfg, evmWallet)},
			NoticeDuration: cfg.NoticeDuration,
		},
		swap.Hooks{
			OnStatusChange: func(status swap.Status) {
				if jsonOutput {
					return
				}
				if status == swap.StatusSubmitting {
					s.Start()
				} else {
					s.Stop()
				}
			},
			OnRefresh: func() {
				if !jsonOutput {
					displayBalance(cfg, evmWallet)
				}
			},
			OnToggleVisibility: func() {
				if !jsonOutput {
					fmt.Println(strings.Repeat("=", 60))
				}
			},
		},
	)

	ctx, cancel := submitContext(cfg.Timeout)
	defer cancel()

	result, err := submitter.Submit(ctx, state.SourceAmount)
	recordPurchase(store, cfg, state, result, err)

	if err != nil {
		if errors.Is(err, swap.ErrSubmissionInFlight) {
			printError(err)
		}
		if result != nil && result.Transaction != nil {
			displayUnapproved(result.Transaction.Hash, jsonOutput)
		}
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"tx_hash":       result.Transaction.Hash,
			"source_amount": state.SourceAmount,
			"source_token":  cfg.SourceSymbol,
			"target_amount": state.TargetAmount,
			"target_token":  cfg.TargetSymbol,
			"network":       cfg.Network,
			"message":       result.Message,
			"status":        "approved",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("You can monitor the transfer using:")
	color.Cyan("  ape-swap status %s\n", result.Transaction.Hash)
}

// resolveAmount picks the edited field from args, flags or the interactive form
func resolveAmount(cfg *config.Config, args []string) (swapform.Field, string, error) {
	switch {
	case len(args) > 0:
		req, err := parser.ParseBuyCommand(strings.Join(args, " "), cfg.SourceSymbol, cfg.TargetSymbol)
		if err != nil {
			return "", "", err
		}
		if err := parser.ValidateSwapRequest(req); err != nil {
			return "", "", err
		}
		field, err := swapform.ParseField(req.Token, cfg.SourceSymbol, cfg.TargetSymbol)
		return field, req.Amount, err
	case sourceAmountFlag != "" && targetAmountFlag != "":
		return "", "", fmt.Errorf("use either --busd or --ape, not both")
	case sourceAmountFlag != "":
		return swapform.Source, sourceAmountFlag, nil
	case targetAmountFlag != "":
		return swapform.Target, targetAmountFlag, nil
	default:
		return promptAmount(cfg)
	}
}

func promptAmount(cfg *config.Config) (swapform.Field, string, error) {
	token := cfg.SourceSymbol
	amount := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Enter the amount in").
				Options(
					huh.NewOption("You send ("+cfg.SourceSymbol+")", cfg.SourceSymbol),
					huh.NewOption("You receive ("+cfg.TargetSymbol+")", cfg.TargetSymbol),
				).
				Value(&token),

			huh.NewInput().
				Title("Amount").
				Description(fmt.Sprintf("%s %s buys 1 %s", cfg.Rate.String(), cfg.SourceSymbol, cfg.TargetSymbol)).
				Placeholder("0.0").
				Value(&amount).
				Validate(func(s string) error {
					if !swapform.ParseAmount(s).IsPositive() {
						return fmt.Errorf("amount must be greater than 0")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("amount form: %w", err)
	}

	field, err := swapform.ParseField(token, cfg.SourceSymbol, cfg.TargetSymbol)
	return field, amount, err
}

// submitContext bounds a submission by timeout. Zero or less means no deadline.
func submitContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// displayUnapproved points the user at a transfer that reached the chain without backend approval
func displayUnapproved(txHash string, jsonOutput bool) {
	if jsonOutput {
		output := map[string]interface{}{
			"tx_hash": txHash,
			"status":  "unapproved",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("The transfer was broadcast but not approved. Keep this hash for support:")
	color.Cyan("  %s\n", txHash)
	fmt.Println("You can monitor the transfer using:")
	color.Cyan("  ape-swap status %s\n", txHash)
}

func userWallet(cfg *config.Config, w *wallet.EVMWallet) string {
	if cfg.UserWallet != "" {
		return cfg.UserWallet
	}
	return w.Address().Hex()
}

func recordPurchase(store *history.Storage, cfg *config.Config, state types.FormState, result *swap.Result, err error) {
	if store == nil || errors.Is(err, swap.ErrSubmissionInFlight) {
		return
	}

	record := &history.Record{
		SourceAmount: state.SourceAmount,
		TargetAmount: state.TargetAmount,
		Network:      cfg.Network,
		Status:       history.StatusApproved,
	}
	if result != nil && result.Transaction != nil {
		record.TxHash = result.Transaction.Hash
		record.Message = result.Message
	}
	if failure := swap.Normalize(err); failure != nil {
		if failure.Kind == swap.KindValidation {
			return
		}
		record.Status = history.StatusFailed
		record.Message = failure.Message
	}

	if err := store.Add(record); err != nil {
		log.Warn().Err(err).Msg("Failed to record purchase")
	}
}

func displayOrder(cfg *config.Config, state types.FormState) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     BUY %s", cfg.TargetSymbol)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  You send:          %s %s\n", state.SourceAmount, color.YellowString(cfg.SourceSymbol))
	fmt.Printf("  You receive:       %s %s\n", state.TargetAmount, color.YellowString(cfg.TargetSymbol))
	fmt.Printf("  Rate:              %s %s = 1 %s\n", cfg.Rate.String(), cfg.SourceSymbol, cfg.TargetSymbol)
	fmt.Printf("  Recipient:         %s\n", color.CyanString(cfg.Recipient))
	fmt.Printf("  Token Contract:    %s\n", color.HiBlackString(cfg.TokenContract))
	fmt.Printf("  Network:           %s\n", cfg.Network)

	fmt.Println("\n" + strings.Repeat("=", 60))
}

func displayBalance(cfg *config.Config, w *wallet.EVMWallet) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	balance, err := w.BalanceOf(ctx, w.Address())
	if err != nil {
		log.Debug().Err(err).Msg("Failed to refresh balance")
		return
	}
	fmt.Printf("\n  Remaining balance: %s %s\n", wallet.FromBaseUnits(balance, cfg.Decimals), color.YellowString(cfg.SourceSymbol))
}

func confirmBuy() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with purchase? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
