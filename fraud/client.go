// Package fraud talks to the external fraud-detection service. The
// service is an optional collaborator: when it cannot be reached, anomaly
// checks and credential validation fall back to a documented benign
// default so the user-facing action still completes. Career analysis has
// no such default and fails loudly.
package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const SERVICE_TIMEOUT = 5 * time.Second

const unavailableMsg = "Fraud detection service unavailable, using default assessment"

// AnomalyReport is the service's verdict on one user.
type AnomalyReport struct {
	IsAnomaly       bool     `json:"is_anomaly"`
	AnomalyScore    float64  `json:"anomaly_score"`
	RiskLevel       string   `json:"risk_level"`
	FlaggedFeatures []string `json:"flagged_features"`
	Message         string   `json:"message,omitempty"`
}

// CredentialValidation is the service's verdict on one credential payload.
type CredentialValidation struct {
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues"`
	ConfidenceScore float64  `json:"confidence_score"`
	Message         string   `json:"message,omitempty"`
}

// CareerAnalysis carries whatever the service computed over an employment
// history. The shape is owned by the service so it stays loosely typed.
type CareerAnalysis map[string]interface{}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: SERVICE_TIMEOUT,
		},
	}
}

// CheckAnomaly asks the service whether userData looks fraudulent. userID
// is merged into the payload as user_id the way the service expects. A
// dead service yields the benign default, never an error.
func (c *Client) CheckAnomaly(
	ctx context.Context,
	userID string,
	userData map[string]interface{},
) (*AnomalyReport, error) {
	payload := map[string]interface{}{}
	for k, v := range userData {
		payload[k] = v
	}
	payload["user_id"] = userID

	report := &AnomalyReport{}
	err := c.post(ctx, "/api/fraud-detection/check-anomaly", payload, report)
	if err != nil {
		if isServiceDown(err) {
			return &AnomalyReport{
				IsAnomaly:       false,
				AnomalyScore:    0.0,
				RiskLevel:       "LOW",
				FlaggedFeatures: []string{},
				Message:         unavailableMsg,
			}, nil
		}
		return nil, err
	}
	return report, nil
}

// ValidateCredential submits a credential payload for validation. A dead
// service yields the benign default, never an error.
func (c *Client) ValidateCredential(
	ctx context.Context,
	credentialData map[string]interface{},
) (*CredentialValidation, error) {
	validation := &CredentialValidation{}
	err := c.post(ctx, "/api/fraud-detection/validate-credential", credentialData, validation)
	if err != nil {
		if isServiceDown(err) {
			return &CredentialValidation{
				IsValid:         true,
				Issues:          []string{},
				ConfidenceScore: 0.85,
				Message:         unavailableMsg,
			}, nil
		}
		return nil, err
	}
	return validation, nil
}

// AnalyzeCareer runs the career-progression analysis. There is no benign
// default here; an unreachable service is an error.
func (c *Client) AnalyzeCareer(
	ctx context.Context,
	employmentHistory []map[string]interface{},
) (CareerAnalysis, error) {
	payload := map[string]interface{}{
		"employment_history": employmentHistory,
	}
	analysis := CareerAnalysis{}
	err := c.post(ctx, "/api/fraud-detection/analyze-career", payload, &analysis)
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

func (c *Client) post(
	ctx context.Context,
	path string,
	payload interface{},
	result interface{},
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload failed: %w", path, err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fraud service returned %d for %s: %s", resp.StatusCode, path, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// isServiceDown matches connection-refused and timeout failures, the two
// conditions the availability-over-strictness policy covers. An HTTP
// error status is a real answer from the service and never defaulted.
func isServiceDown(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
