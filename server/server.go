// Package server exposes the thin HTTP proxy in front of the on-chain
// aggregation layer and the fraud-detection service. It keeps a jobs
// snapshot refreshed in the background so /api/jobs/search answers from
// memory instead of sweeping the contract per request.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/jobverify/jobverify/aggregator"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/fraud"
)

const Version = "1.0.0"

// Server is the proxy backend. All chain access goes through the
// aggregator; all ML access goes through the fraud client.
type Server struct {
	cfg      *config.Config
	resolver *contracts.Resolver
	agg      *aggregator.Aggregator
	fraud    *fraud.Client

	mu       sync.RWMutex
	snapshot []aggregator.JobPosting

	cron *cron.Cron
}

func New(
	cfg *config.Config,
	resolver *contracts.Resolver,
	agg *aggregator.Aggregator,
	fraudClient *fraud.Client,
) *Server {
	return &Server{
		cfg:      cfg,
		resolver: resolver,
		agg:      agg,
		fraud:    fraudClient,
		cron:     cron.New(),
	}
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)

	r.HandleFunc("/api", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	users := r.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("/kyc/initiate", s.handleKYCInitiate).Methods(http.MethodPost)
	users.HandleFunc("/profile/{address}", s.handleUserProfile).Methods(http.MethodGet)
	users.HandleFunc("/credentials/add", s.handleCredentialAdd).Methods(http.MethodPost)
	users.HandleFunc("/fraud-check", s.handleUserFraudCheck).Methods(http.MethodPost)

	jobs := r.PathPrefix("/api/jobs").Subrouter()
	jobs.HandleFunc("/search", s.handleJobSearch).Methods(http.MethodGet)
	jobs.HandleFunc("/{id:[0-9]+}", s.handleJobByID).Methods(http.MethodGet)

	fd := r.PathPrefix("/api/fraud-detection").Subrouter()
	fd.HandleFunc("/check-user", s.handleCheckUser).Methods(http.MethodPost)
	fd.HandleFunc("/validate-credential", s.handleValidateCredential).Methods(http.MethodPost)
	fd.HandleFunc("/analyze-career", s.handleAnalyzeCareer).Methods(http.MethodPost)

	return cors.AllowAll().Handler(r)
}

// Start refreshes the snapshot once, schedules the periodic refresh and
// serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.RefreshSnapshot()
	_, err := s.cron.AddFunc("@every 1m", s.RefreshSnapshot)
	if err != nil {
		return err
	}
	s.cron.Start()
	defer s.cron.Stop()

	log.Printf("JobVerify backend running on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

// RefreshSnapshot re-sweeps the job contract and swaps the in-memory
// snapshot. Failures keep the previous snapshot so a flaky node doesn't
// blank the search endpoint.
func (s *Server) RefreshSnapshot() {
	handle, err := s.resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		log.Printf("jobs snapshot refresh skipped: %s", err)
		return
	}
	result, err := s.agg.ListJobs(handle, aggregator.DEFAULT_MAX_PROBE)
	if err != nil {
		log.Printf("jobs snapshot refresh failed: %s", err)
		return
	}
	s.mu.Lock()
	s.snapshot = result.Jobs
	s.mu.Unlock()
	log.Printf("jobs snapshot refreshed: %d postings", len(result.Jobs))
}

// Snapshot returns the current jobs snapshot.
func (s *Server) Snapshot() []aggregator.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetSnapshot replaces the snapshot directly. Used by tests.
func (s *Server) SetSnapshot(jobs []aggregator.JobPosting) {
	s.mu.Lock()
	s.snapshot = jobs
	s.mu.Unlock()
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "JobVerify API",
		"version": Version,
		"endpoints": map[string]string{
			"users":          "/api/users",
			"jobs":           "/api/jobs",
			"fraudDetection": "/api/fraud-detection",
			"health":         "/health",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleKYCInitiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserAddress string `json:"userAddress"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.UserAddress == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "userAddress and phoneNumber required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"verificationId": fmt.Sprintf("verification_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:9]),
		"status":         "pending",
		"message":        "Please scan your passport using the mobile app",
	})
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	handle, err := s.resolver.GetReadHandle(config.UserVerification)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status, err := s.agg.GetVerificationStatus(handle, address)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":          status.Address.Hex(),
		"kycComplete":      status.KYCComplete,
		"identityHash":     status.IdentityHash.Hex(),
		"verificationTime": status.VerificationTime,
		"credentialCount":  status.CredentialCount,
	})
}

func (s *Server) handleCredentialAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserAddress    string                 `json:"userAddress"`
		CredentialData map[string]interface{} `json:"credentialData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.UserAddress == "" || req.CredentialData == nil {
		writeError(w, http.StatusBadRequest, "userAddress and credentialData required")
		return
	}

	validation, err := s.fraud.ValidateCredential(r.Context(), req.CredentialData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Credential update failed: %s", err))
		return
	}
	if !validation.IsValid {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Credential validation failed",
			"issues": validation.Issues,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"credentialId": fmt.Sprintf("cred_%d", time.Now().UnixMilli()),
		"validation":   validation,
	})
}

func (s *Server) handleUserFraudCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserData map[string]interface{} `json:"userData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserData == nil {
		writeError(w, http.StatusBadRequest, "userData required")
		return
	}
	report, err := s.fraud.CheckAnomaly(r.Context(), "", req.UserData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Fraud check failed: %s", err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	criteria := aggregator.FilterCriteria{
		Keyword: r.URL.Query().Get("keyword"),
	}
	if raw := r.URL.Query().Get("minTrustScore"); raw != "" {
		score, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "minTrustScore must be an integer")
			return
		}
		criteria.MinTrustScore = score
	}

	jobs := aggregator.FilterJobs(s.Snapshot(), criteria)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsToJSON(jobs),
		"count": len(jobs),
	})
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	for _, job := range s.Snapshot() {
		if job.ID == id {
			writeJSON(w, http.StatusOK, jobToJSON(job))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Job not found")
}

func (s *Server) handleCheckUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string                 `json:"userId"`
		UserData map[string]interface{} `json:"userData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.UserID == "" || req.UserData == nil {
		writeError(w, http.StatusBadRequest, "userId and userData required")
		return
	}
	report, err := s.fraud.CheckAnomaly(r.Context(), req.UserID, req.UserData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Fraud detection failed: %s", err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleValidateCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CredentialData map[string]interface{} `json:"credentialData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CredentialData == nil {
		writeError(w, http.StatusBadRequest, "credentialData required")
		return
	}
	validation, err := s.fraud.ValidateCredential(r.Context(), req.CredentialData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Credential validation failed: %s", err))
		return
	}
	writeJSON(w, http.StatusOK, validation)
}

func (s *Server) handleAnalyzeCareer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmploymentHistory []map[string]interface{} `json:"employmentHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmploymentHistory == nil {
		writeError(w, http.StatusBadRequest, "employmentHistory array required")
		return
	}
	analysis, err := s.fraud.AnalyzeCareer(r.Context(), req.EmploymentHistory)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Career analysis failed: %s", err))
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func jobToJSON(job aggregator.JobPosting) map[string]interface{} {
	creds := []string{}
	for _, c := range job.RequiredCredentials {
		creds = append(creds, c.Hex())
	}
	return map[string]interface{}{
		"jobId":               job.ID,
		"company":             job.CompanyAddress.Hex(),
		"title":               job.Title,
		"description":         job.Description,
		"requiredCredentials": creds,
		"minTrustScore":       job.MinimumTrustScore,
		"status":              job.Status,
	}
}

func jobsToJSON(jobs []aggregator.JobPosting) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, job := range jobs {
		out = append(out, jobToJSON(job))
	}
	return out
}
