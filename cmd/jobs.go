package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/aggregator"
	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/jobdb"
	"github.com/jobverify/jobverify/txexec"
)

var (
	jobsMaxProbe      int64
	jobsKeyword       string
	jobsMinTrustScore int64
	jobsTitle         string
	jobsDescription   string
	jobsCredentials   string
	jobsCoverLetter   string
	walletHint        string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse and manage job postings on chain",
	Long:  ``,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all job postings currently on chain",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		result, err := sweepJobs(app)
		if err != nil {
			return
		}
		renderJobs(result.Jobs)
		renderSweepCounters(result)
	},
}

var jobsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search fetched job postings by keyword and trust score",
	Long: `Sweeps the contract once, indexes the results locally and answers the
query from the index. --keyword matches title and description text,
--min-trust-score keeps only jobs whose own requirement is at or below
the given value.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		result, err := sweepJobs(app)
		if err != nil {
			return
		}

		jobs := result.Jobs
		if jobsKeyword != "" {
			db, err := jobdb.NewJobDB()
			if err != nil {
				appUI.Critical("building the local job index failed: %s", err)
				return
			}
			if err = db.Reindex(jobs); err != nil {
				appUI.Critical("indexing fetched jobs failed: %s", err)
				return
			}
			jobs, err = db.Search(jobsKeyword)
			if err != nil {
				appUI.Critical("%s", err)
				return
			}
			if len(jobs) == 0 {
				appUI.Warn("No posting matches %q.", jobsKeyword)
				for _, title := range db.SuggestTitles(jobsKeyword, 3) {
					appUI.Info("Did you mean: %s", title)
				}
				return
			}
		}
		jobs = aggregator.FilterJobs(jobs, aggregator.FilterCriteria{
			MinTrustScore: jobsMinTrustScore,
		})
		renderJobs(jobs)
	},
}

var jobsPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Create a new job posting",
	Long: `Submits createJobPosting from the selected wallet. The wallet's company
must already be registered and verified; the command checks that before
asking for a signature.`,
	Run: func(cmd *cobra.Command, args []string) {
		if jobsTitle == "" {
			appUI.Error("--title is required.")
			return
		}
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

		companyHandle, err := app.resolver.GetReadHandle(config.CompanyVerification)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		info, err := app.agg.GetCompanyInfo(companyHandle, acc.Address().Hex())
		if err != nil {
			if common.IsRevert(err) {
				appUI.Error("Company not registered. Run 'jobverify company register' first.")
			} else {
				appUI.Critical("couldn't check company registration: %s", err)
			}
			return
		}
		if !info.Verified {
			appUI.Error("Your company is registered but not verified yet. Posting requires a verified company.")
			return
		}

		credentials, err := parseCredentialHashes(jobsCredentials)
		if err != nil {
			appUI.Error("%s", err)
			return
		}

		handle, err := app.resolver.GetReadHandle(config.JobPosting)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		executor.Execute(handle, "createJobPosting", nil, txexec.Callbacks{
			OnSuccess: func(info common.TxInfo) {
				appUI.Success("Job posting created in block %d.", info.Receipt.BlockNumber)
			},
			OnError: func(err error) {
				reportWriteError(err)
			},
		}, jobsTitle, jobsDescription, credentials, big.NewInt(jobsMinTrustScore))
	},
}

var jobsApplyCmd = &cobra.Command{
	Use:   "apply <job id>",
	Short: "Apply for a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			appUI.Error("job id must be a positive integer, got %q.", args[0])
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
		credentials, err := parseCredentialHashes(jobsCredentials)
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		handle, err := app.resolver.GetReadHandle(config.JobPosting)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		executor.Execute(handle, "applyForJob", nil, txexec.Callbacks{
			OnSuccess: func(info common.TxInfo) {
				appUI.Success("Application for job #%d submitted in block %d.", id, info.Receipt.BlockNumber)
			},
			OnError: func(err error) {
				reportWriteError(err)
			},
		}, big.NewInt(id), jobsCoverLetter, credentials)
	},
}

func sweepJobs(app *app) (*aggregator.AggregationResult, error) {
	handle, err := app.resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		appUI.Critical("%s", err)
		return nil, err
	}
	stop := appUI.Spinner("Fetching job postings")
	result, err := app.agg.ListJobs(handle, jobsMaxProbe)
	stop()
	if err != nil {
		if errors.Is(err, common.ErrContractNotDeployed) {
			appUI.Error(
				"No contract code at %s on %s. Redeploy the contracts or point --network at the right chain.",
				handle.Address, app.network.GetName(),
			)
		} else {
			appUI.Critical("%s", err)
		}
		return nil, err
	}
	return result, nil
}

func renderJobs(jobs []aggregator.JobPosting) {
	if len(jobs) == 0 {
		appUI.Info("No job postings found.")
		return
	}
	rows := [][]string{}
	for _, job := range jobs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", job.ID),
			job.Title,
			common.ShortAddress(job.CompanyAddress.Hex()),
			fmt.Sprintf("%d", job.MinimumTrustScore),
			job.Status,
		})
	}
	appUI.Table([]string{"ID", "Title", "Company", "Min score", "Status"}, rows)
}

func renderSweepCounters(result *aggregator.AggregationResult) {
	if result.CountUnavailable {
		appUI.Warn("The contract didn't report a posting count; probed ids 1..%d.", result.Probed)
	}
	if result.Skipped > 0 {
		appUI.Info("%d empty slots skipped.", result.Skipped)
	}
	if result.Overflowed > 0 {
		appUI.Warn("%d postings dropped because of out of range numeric fields.", result.Overflowed)
	}
	if result.Errored > 0 {
		appUI.Warn("%d postings couldn't be read.", result.Errored)
	}
}

func parseCredentialHashes(raw string) ([][32]byte, error) {
	result := [][32]byte{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hash := common.HexToHash(part)
		result = append(result, hash)
	}
	return result, nil
}

func reportWriteError(err error) {
	var mismatch *common.NetworkMismatchError
	switch {
	case errors.Is(err, common.ErrWalletNotConnected):
		appUI.Error("No wallet is connected. Unlock one with --from.")
	case errors.As(err, &mismatch):
		appUI.Error("%s", mismatch)
	default:
		appUI.Error("%s", err)
	}
}

func init() {
	jobsCmd.PersistentFlags().Int64Var(&jobsMaxProbe, "max-probe", 0,
		"cap on blind id probing when the contract can't report its posting count (0 = default).")
	jobsSearchCmd.Flags().StringVar(&jobsKeyword, "keyword", "", "keyword to match against titles and descriptions.")
	jobsSearchCmd.Flags().Int64Var(&jobsMinTrustScore, "min-trust-score", 0,
		"keep only jobs requiring at most this trust score.")
	jobsPostCmd.Flags().StringVar(&jobsTitle, "title", "", "position title.")
	jobsPostCmd.Flags().StringVar(&jobsDescription, "description", "", "position description.")
	jobsPostCmd.Flags().StringVar(&jobsCredentials, "credentials", "",
		"comma separated 32-byte credential hashes required from applicants.")
	jobsPostCmd.Flags().Int64Var(&jobsMinTrustScore, "min-trust-score", 0, "minimum candidate trust score.")
	jobsPostCmd.Flags().StringVar(&walletHint, "from", "", "wallet to sign with (address or description).")
	jobsApplyCmd.Flags().StringVar(&jobsCoverLetter, "cover-letter", "", "reference to an off-chain cover letter.")
	jobsApplyCmd.Flags().StringVar(&jobsCredentials, "credentials", "",
		"comma separated 32-byte credential hashes to submit.")
	jobsApplyCmd.Flags().StringVar(&walletHint, "from", "", "wallet to sign with (address or description).")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsSearchCmd)
	jobsCmd.AddCommand(jobsPostCmd)
	jobsCmd.AddCommand(jobsApplyCmd)
	rootCmd.AddCommand(jobsCmd)
}
