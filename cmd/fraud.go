package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobverify/jobverify/fraud"
)

var fraudPayloadFile string

var fraudCmd = &cobra.Command{
	Use:   "fraud",
	Short: "Talk to the fraud-detection service directly",
	Long: `These commands hit the external ML service the same way the backend
proxy does. When the service is unreachable, check and validate report
the documented benign default instead of failing.`,
}

func loadPayload() (map[string]interface{}, error) {
	if fraudPayloadFile == "" {
		return nil, fmt.Errorf("--payload is required, pass a json file path")
	}
	content, err := os.ReadFile(fraudPayloadFile)
	if err != nil {
		return nil, err
	}
	payload := map[string]interface{}{}
	if err = json.Unmarshal(content, &payload); err != nil {
		return nil, fmt.Errorf("%s is not valid json: %w", fraudPayloadFile, err)
	}
	return payload, nil
}

var fraudCheckCmd = &cobra.Command{
	Use:   "check <user id>",
	Short: "Run the anomaly check for one user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		payload, err := loadPayload()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		client := fraud.NewClient(app.cfg.FraudServiceURL)
		report, err := client.CheckAnomaly(context.Background(), args[0], payload)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		if report.Message != "" {
			appUI.Warn("%s", report.Message)
		}
		appUI.KeyValue([][2]string{
			{"Anomaly", fmt.Sprintf("%t", report.IsAnomaly)},
			{"Score", fmt.Sprintf("%.3f", report.AnomalyScore)},
			{"Risk level", report.RiskLevel},
			{"Flagged", fmt.Sprintf("%v", report.FlaggedFeatures)},
		})
	},
}

var fraudValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a credential payload",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		payload, err := loadPayload()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		client := fraud.NewClient(app.cfg.FraudServiceURL)
		validation, err := client.ValidateCredential(context.Background(), payload)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		if validation.Message != "" {
			appUI.Warn("%s", validation.Message)
		}
		appUI.KeyValue([][2]string{
			{"Valid", fmt.Sprintf("%t", validation.IsValid)},
			{"Confidence", fmt.Sprintf("%.2f", validation.ConfidenceScore)},
			{"Issues", fmt.Sprintf("%v", validation.Issues)},
		})
	},
}

var fraudCareerCmd = &cobra.Command{
	Use:   "career",
	Short: "Analyze a career history payload",
	Long: `--payload must point at a json file with an "employment_history" array.
Unlike check and validate there is no benign default here: an
unreachable service is an error.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp()
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		payload, err := loadPayload()
		if err != nil {
			appUI.Error("%s", err)
			return
		}
		rawHistory, ok := payload["employment_history"].([]interface{})
		if !ok {
			appUI.Error("the payload must carry an \"employment_history\" array.")
			return
		}
		history := []map[string]interface{}{}
		for _, entry := range rawHistory {
			if m, ok := entry.(map[string]interface{}); ok {
				history = append(history, m)
			}
		}

		client := fraud.NewClient(app.cfg.FraudServiceURL)
		analysis, err := client.AnalyzeCareer(context.Background(), history)
		if err != nil {
			appUI.Critical("%s", err)
			return
		}
		pretty, _ := json.MarshalIndent(analysis, "", "  ")
		appUI.Info("%s", string(pretty))
	},
}

func init() {
	fraudCmd.PersistentFlags().StringVar(&fraudPayloadFile, "payload", "", "path to a json payload file.")
	fraudCmd.AddCommand(fraudCheckCmd)
	fraudCmd.AddCommand(fraudValidateCmd)
	fraudCmd.AddCommand(fraudCareerCmd)
	rootCmd.AddCommand(fraudCmd)
}
