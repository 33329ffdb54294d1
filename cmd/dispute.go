package cmd

import (
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/txexec"
)

var disputeReason string

var disputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "File and count hiring disputes",
	Long:  ``,
}

var disputeCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many disputes have been filed",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.DisputeResolution)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		var total *big.Int
		if err := handle.Call(&total, "getTotalDisputes"); err != nil {
			appUI.Critical("%s", err)
			return
		}
		appUI.Info("Total disputes filed: %s", total.String())
	},
}

var disputeFileCmd = &cobra.Command{
	Use:   "file <job id>",
	Short: "File a dispute against a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			appUI.Error("job id must be a positive integer, got %q.", args[0])
			return
		}
		if disputeReason == "" {
			appUI.Error("--reason is required.")
			return
		}
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		executor, _, err := app.connectWallet(walletHint)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.DisputeResolution)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		executor.Execute(handle, "fileDispute", nil, txexec.Callbacks{
			OnSuccess: func(info common.TxInfo) {
				appUI.Success("Dispute for job #%d filed in block %d.", id, info.Receipt.BlockNumber)
			},
			OnError: func(err error) {
				reportWriteError(err)
			},
		}, big.NewInt(id), disputeReason)
	},
}

func init() {
	disputeFileCmd.Flags().StringVar(&disputeReason, "reason", "", "what went wrong.")
	disputeFileCmd.Flags().StringVar(&walletHint, "from", "", "wallet to sign with (address or description).")
	disputeCmd.AddCommand(disputeCountCmd)
	disputeCmd.AddCommand(disputeFileCmd)
	rootCmd.AddCommand(disputeCmd)
}
