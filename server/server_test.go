package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/jobverify/jobverify/aggregator"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/fraud"
	"github.com/jobverify/jobverify/networks"
)

func newTestServer(t *testing.T, fraudURL string) *Server {
	t.Helper()
	cfg := config.NewStatic(networks.Hardhat, map[config.ContractName]string{})
	resolver := contracts.NewResolver(cfg, nil)
	agg := aggregator.NewAggregator(resolver)
	srv := New(cfg, resolver, agg, fraud.NewClient(fraudURL))
	srv.SetSnapshot([]aggregator.JobPosting{
		{
			ID:                1,
			CompanyAddress:    ethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
			Title:             "Senior Solidity Engineer",
			Description:       "Protocol work",
			MinimumTrustScore: 70,
			Status:            aggregator.StatusActive,
		},
		{
			ID:                2,
			CompanyAddress:    ethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
			Title:             "Data Engineer",
			Description:       "Pipelines",
			MinimumTrustScore: 40,
			Status:            aggregator.StatusActive,
		},
	})
	return srv
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	decoded := map[string]interface{}{}
	json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestJobSearchFiltersSnapshot(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodGet, "/api/jobs/search?keyword=solidity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("expected 1 match, got %v", body["count"])
	}

	rec, body = doJSON(t, router, http.MethodGet, "/api/jobs/search?minTrustScore=50", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("expected only the job requiring at most 50, got %v", body["count"])
	}
}

func TestJobSearchRejectsBadTrustScore(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	rec, _ := doJSON(t, srv.Router(), http.MethodGet, "/api/jobs/search?minTrustScore=high", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestJobByID(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodGet, "/api/jobs/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body["title"] != "Senior Solidity Engineer" {
		t.Errorf("wrong job returned: %v", body)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/jobs/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown job, got %d", rec.Code)
	}
}

func TestCheckUserRequiresFields(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	rec, body := doJSON(t, srv.Router(), http.MethodPost, "/api/fraud-detection/check-user", `{"userId": "u-1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] == "" {
		t.Error("400 responses carry an error message")
	}
}

func TestCheckUserForwardsToFraudService(t *testing.T) {
	fraudSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fraud.AnomalyReport{
			IsAnomaly: true,
			RiskLevel: "HIGH",
		})
	}))
	defer fraudSrv.Close()

	srv := newTestServer(t, fraudSrv.URL)
	rec, body := doJSON(t, srv.Router(), http.MethodPost,
		"/api/fraud-detection/check-user",
		`{"userId": "u-1", "userData": {"salary": 1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body["risk_level"] != "HIGH" {
		t.Errorf("service verdict lost: %v", body)
	}
}

func TestCheckUserDefaultsWhenServiceDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	srv := newTestServer(t, deadURL)
	rec, body := doJSON(t, srv.Router(), http.MethodPost,
		"/api/fraud-detection/check-user",
		`{"userId": "u-1", "userData": {"salary": 1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("the benign default must answer 200, got %d", rec.Code)
	}
	if body["is_anomaly"] != false || body["risk_level"] != "LOW" {
		t.Errorf("unexpected default: %v", body)
	}
}

func TestValidateCredentialRequiresPayload(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	rec, _ := doJSON(t, srv.Router(), http.MethodPost, "/api/fraud-detection/validate-credential", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeCareerFailsWhenServiceDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	srv := newTestServer(t, deadURL)
	rec, _ := doJSON(t, srv.Router(), http.MethodPost,
		"/api/fraud-detection/analyze-career",
		`{"employmentHistory": [{"company": "Acme"}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("career analysis has no benign default, expected 500, got %d", rec.Code)
	}
}

func TestKYCInitiateValidation(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	router := srv.Router()

	rec, _ := doJSON(t, router, http.MethodPost, "/api/users/kyc/initiate", `{"userAddress": "0x1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a phone number, got %d", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodPost, "/api/users/kyc/initiate",
		`{"userAddress": "0x1111111111111111111111111111111111111111", "phoneNumber": "+15550100"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body["status"] != "pending" {
		t.Errorf("unexpected reply: %v", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, "http://unused")
	rec, _ := doJSON(t, srv.Router(), http.MethodGet, "/health", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("every response carries a request id")
	}
}
