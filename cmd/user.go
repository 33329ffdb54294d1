package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect candidate verification state",
	Long:  ``,
}

var userStatusCmd = &cobra.Command{
	Use:   "status <address>",
	Short: "Show a candidate's KYC status and registered credentials",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.UserVerification)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		status, err := app.agg.GetVerificationStatus(handle, args[0])
		if err != nil {
			if common.IsRevert(err) {
				appUI.Info("%s has not started verification yet.", args[0])
			} else {
				appUI.Critical("%s", err)
			}
			return
		}

		appUI.Section(fmt.Sprintf("Candidate %s", common.ShortAddress(status.Address.Hex())))
		verifiedAt := "never"
		if status.VerificationTime > 0 {
			verifiedAt = time.Unix(status.VerificationTime, 0).UTC().Format(time.RFC3339)
		}
		appUI.KeyValue([][2]string{
			{"KYC complete", common.VerifiedWithColor(status.KYCComplete)},
			{"Verified at", verifiedAt},
			{"Credentials", fmt.Sprintf("%d", status.CredentialCount)},
		})

		credsHandle, err := app.resolver.GetReadHandle(config.CredentialRegistry)
		if err != nil {
			return
		}
		creds, err := app.agg.GetCandidateCredentials(credsHandle, args[0])
		if err != nil || len(creds) == 0 {
			return
		}
		rows := [][]string{}
		for i, c := range creds {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), c.Hex()})
		}
		appUI.Table([]string{"#", "Credential hash"}, rows)
	},
}

func init() {
	userCmd.AddCommand(userStatusCmd)
	rootCmd.AddCommand(userCmd)
}
