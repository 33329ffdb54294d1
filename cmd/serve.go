package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/fraud"
	"github.com/jobverify/jobverify/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend proxy for the web frontend",
	Long: `Starts the HTTP backend: /api/jobs answers from a periodically refreshed
on-chain snapshot, /api/users reads verification state from chain and
/api/fraud-detection forwards to the external ML service with the
availability-over-strictness fallback.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		srv := server.New(
			app.cfg,
			app.resolver,
			app.agg,
			fraud.NewClient(app.cfg.FraudServiceURL),
		)
		appUI.Info("Serving the JobVerify backend on %s (network: %s).", serveAddr, app.network.GetName())
		if err := srv.Start(serveAddr); err != nil {
			appUI.Critical("%s", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3001", "listen address.")
	rootCmd.AddCommand(serveCmd)
}
