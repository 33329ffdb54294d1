package cmd

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/txexec"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Inspect and register companies",
	Long:  ``,
}

var companyInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Show a company's on-chain trust profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.CompanyVerification)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		info, err := app.agg.GetCompanyInfo(handle, args[0])
		if err != nil {
			if common.IsRevert(err) {
				appUI.Error("No company is registered at %s.", args[0])
			} else {
				appUI.Critical("%s", err)
			}
			return
		}
		appUI.Section(fmt.Sprintf("Company %s", common.ShortAddress(info.Address.Hex())))
		appUI.KeyValue([][2]string{
			{"Verified", common.VerifiedWithColor(info.Verified)},
			{"Trust score", fmt.Sprintf("%d", info.TrustScore)},
			{"Job postings", fmt.Sprintf("%d", info.JobPostingsCount)},
			{"Hires", fmt.Sprintf("%d", info.HiresCount)},
			{"Complaints", fmt.Sprintf("%d", info.ComplaintsCount)},
			{"Officers", fmt.Sprintf("%d", info.OfficerCount)},
		})

		jobHandle, err := app.resolver.GetReadHandle(config.JobPosting)
		if err != nil {
			return
		}
		ids, err := app.agg.ListCompanyJobs(jobHandle, args[0])
		if err != nil || len(ids) == 0 {
			return
		}
		appUI.Info("Active postings: %v", ids)
	},
}

var companyOfficers []string

var companyRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the wallet's address as a company",
	Long: `Submits registerCompany with a hash derived from the wallet address and
the wallet itself as the first officer. Additional officers can be added
with --officer. Verification happens off-band after registration.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		executor, acc, err := app.connectWallet(walletHint)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.CompanyVerification)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}

		addr := acc.Address().Hex()
		companyHash := common.NameHash(fmt.Sprintf("Company-%s", addr[:8]))
		officers := append(
			[]ethcommon.Address{acc.Address()},
			common.HexToAddresses(companyOfficers)...,
		)

		executor.Execute(handle, "registerCompany", nil, txexec.Callbacks{
			OnSuccess: func(info common.TxInfo) {
				appUI.Success("Company registered in block %d.", info.Receipt.BlockNumber)
			},
			OnError: func(err error) {
				reportWriteError(err)
			},
		}, companyHash, officers)
	},
}

func init() {
	companyRegisterCmd.Flags().StringVar(&walletHint, "from", "", "wallet to sign with (address or description).")
	companyRegisterCmd.Flags().StringSliceVar(&companyOfficers, "officer", nil, "additional officer address, repeatable.")
	companyCmd.AddCommand(companyInfoCmd)
	companyCmd.AddCommand(companyRegisterCmd)
	rootCmd.AddCommand(companyCmd)
}
