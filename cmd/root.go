package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/networks"
	"github.com/jobverify/jobverify/ui"
)

var appUI ui.UI = ui.NewTerminalUI()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jobverify",
	Short: "Browse and operate the JobVerify contracts from the command line",
	Long: `Jobverify is a command line tool for the JobVerify decentralized job
marketplace. It talks directly to the deployed contracts so you can work
without the web frontend.

It supports you on different ends:

	1. It reads job postings, company trust profiles and candidate
	verification state from chain, tolerating old contract deployments
	and partially populated data.

	2. It manages your keystore wallets and submits transactions such as
	posting a job, applying to one or registering a company, with network
	checks before anything is signed.

	3. It can run the backend proxy that the web frontend talks to,
	including the fraud-detection pass-through.

By default it works against a local hardhat chain (chain id 31337) and
also knows sepolia and mainnet. Custom nodes can be set via the per
network env vars (e.g. JOBVERIFY_HARDHAT_NODE). Contract addresses come
from the deployment artifact (deployed-contracts-<network>.json) and can
be overridden per contract with env vars like
JOBVERIFY_JOB_POSTING_ADDRESS.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(
		&networks.NetworkString,
		"network", "k", "hardhat",
		"target network. Valid values: \"hardhat\", \"sepolia\", \"mainnet\".",
	)
	rootCmd.PersistentFlags().StringVarP(
		&DeploymentDir,
		"deployment-dir", "d", ".",
		"directory holding the deployed-contracts-<network>.json artifact.",
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
