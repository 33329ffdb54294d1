package aggregator

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/config"
	"github.com/jobverify/jobverify/contracts"
	"github.com/jobverify/jobverify/networks"
)

const testJobAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

type fakeJob struct {
	company string
	title   string
	desc    string
	score   *big.Int
	status  uint8
}

// fakeChain answers contract calls from an in-memory job table, mimicking
// node error text for missing methods and missing records.
type fakeChain struct {
	code      []byte
	totalErr  bool
	total     int64
	hasModern bool
	jobs      map[int64]*fakeJob

	// ids >= revertFrom revert on the per-item accessors, 0 disables
	revertFrom int64
	// per-id node failures, returned verbatim from the per-item accessors
	failIDs map[int64]string
	// ids >= modernLostFrom stop answering getJobDetails, 0 disables
	modernLostFrom int64

	maxProbedID int64
	totalCalls  int
}

func newFakeChain(hasModern bool) *fakeChain {
	return &fakeChain{
		code:      []byte{0x60, 0x80},
		hasModern: hasModern,
		jobs:      map[int64]*fakeJob{},
	}
}

func (f *fakeChain) addJob(id int64, job *fakeJob) {
	f.jobs[id] = job
	if id > f.total {
		f.total = id
	}
}

func (f *fakeChain) GetCode(address string) ([]byte, error) {
	return f.code, nil
}

func (f *fakeChain) ReadContractWithABI(
	result interface{},
	caddr string,
	a *abi.ABI,
	method string,
	args ...interface{},
) error {
	switch method {
	case "getTotalJobs":
		f.totalCalls++
		if f.totalErr {
			return fmt.Errorf("couldn't read from any nodes: connection refused")
		}
		*result.(**big.Int) = big.NewInt(f.total)
		return nil
	case "getJobDetails":
		id := args[0].(*big.Int).Int64()
		if !f.hasModern || (f.modernLostFrom > 0 && id >= f.modernLostFrom) {
			return fmt.Errorf("abi: unmarshalling empty output")
		}
		job, err := f.lookup(id)
		if err != nil {
			return err
		}
		reply := result.(*modernJobReply)
		reply.CompanyAddress = ethcommon.HexToAddress(job.company)
		reply.PositionTitle = job.title
		reply.Description = job.desc
		reply.RequiredCredentials = [][32]byte{}
		reply.MinimumTrustScore = job.score
		return nil
	case "jobs":
		id := args[0].(*big.Int).Int64()
		job, err := f.lookup(id)
		if err != nil {
			return err
		}
		reply := result.(*legacyJobReply)
		reply.JobId = big.NewInt(id)
		reply.CompanyAddress = ethcommon.HexToAddress(job.company)
		reply.PositionTitle = job.title
		reply.Description = job.desc
		reply.MinimumTrustScore = job.score
		reply.CreatedTime = big.NewInt(1700000000)
		reply.Status = job.status
		return nil
	default:
		return fmt.Errorf("method %s not found", method)
	}
}

func (f *fakeChain) lookup(id int64) (*fakeJob, error) {
	if id > f.maxProbedID {
		f.maxProbedID = id
	}
	if msg, ok := f.failIDs[id]; ok {
		return nil, fmt.Errorf("%s", msg)
	}
	if f.revertFrom > 0 && id >= f.revertFrom {
		return nil, fmt.Errorf("execution reverted")
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("execution reverted")
	}
	return job, nil
}

func newTestAggregator(chain *fakeChain) (*Aggregator, *contracts.ContractHandle) {
	cfg := config.NewStatic(networks.Hardhat, map[config.ContractName]string{
		config.JobPosting: testJobAddr,
	})
	resolver := contracts.NewResolver(cfg, chain)
	handle, err := resolver.GetReadHandle(config.JobPosting)
	if err != nil {
		panic(err)
	}
	return NewAggregator(resolver), handle
}

func TestListJobsReturnsAllRecordsInOrder(t *testing.T) {
	chain := newFakeChain(true)
	chain.addJob(1, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "Senior Solidity Engineer", score: big.NewInt(70)})
	chain.addJob(2, &fakeJob{company: "0x2222222222222222222222222222222222222222", title: "Data Engineer", score: big.NewInt(40)})
	chain.addJob(3, &fakeJob{company: "0x3333333333333333333333333333333333333333", title: "Auditor", score: big.NewInt(250)})

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(result.Jobs))
	}
	for i, job := range result.Jobs {
		if job.ID != int64(i+1) {
			t.Errorf("jobs out of order: position %d has id %d", i, job.ID)
		}
		if job.MinimumTrustScore < 0 || job.MinimumTrustScore > 100 {
			t.Errorf("job %d trust score %d is outside [0, 100]", job.ID, job.MinimumTrustScore)
		}
	}
	if result.Source != "modern" {
		t.Errorf("expected the modern source, got %s", result.Source)
	}
	if result.Total != 3 {
		t.Errorf("expected reported total 3, got %d", result.Total)
	}
}

func TestListJobsExcludesUnpopulatedSlots(t *testing.T) {
	chain := newFakeChain(true)
	chain.addJob(1, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "Kept", score: big.NewInt(10)})
	chain.addJob(2, &fakeJob{company: common.ZeroAddress, title: "Ghost", score: big.NewInt(10)})
	chain.addJob(3, &fakeJob{company: "0x3333333333333333333333333333333333333333", title: "Also kept", score: big.NewInt(10)})

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	for _, job := range result.Jobs {
		if common.IsZeroAddress(job.CompanyAddress) {
			t.Errorf("job %d with zero company address leaked through", job.ID)
		}
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped slot, got %d", result.Skipped)
	}
}

func TestListJobsRevertTerminatesSweep(t *testing.T) {
	chain := newFakeChain(true)
	for id := int64(1); id <= 5; id++ {
		chain.addJob(id, &fakeJob{
			company: fmt.Sprintf("0x%040d", id),
			title:   fmt.Sprintf("Role %d", id),
			score:   big.NewInt(50),
		})
	}
	chain.total = 5
	chain.revertFrom = 3

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected records 1..2, got %d records", len(result.Jobs))
	}
	if !result.Terminated {
		t.Error("expected the sweep to be marked terminated")
	}
	if chain.maxProbedID != 3 {
		t.Errorf("expected no id past 3 to be probed, last probed was %d", chain.maxProbedID)
	}
}

func TestListJobsFallsBackToDefaultProbe(t *testing.T) {
	chain := newFakeChain(true)
	chain.totalErr = true
	for id := int64(1); id <= 20; id++ {
		chain.addJob(id, &fakeJob{
			company: fmt.Sprintf("0x%040d", id),
			title:   fmt.Sprintf("Role %d", id),
			score:   big.NewInt(50),
		})
	}

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if !result.CountUnavailable {
		t.Error("expected CountUnavailable to be set")
	}
	if len(result.Jobs) != int(DEFAULT_MAX_PROBE) {
		t.Fatalf("expected %d jobs from the bounded probe, got %d", DEFAULT_MAX_PROBE, len(result.Jobs))
	}
	if chain.maxProbedID != DEFAULT_MAX_PROBE {
		t.Errorf("expected probing to stop at %d, went to %d", DEFAULT_MAX_PROBE, chain.maxProbedID)
	}
}

func TestListJobsSkipsOverflowedRecords(t *testing.T) {
	oversized, _ := big.NewInt(0).SetString("9999999999999999999999", 10)
	chain := newFakeChain(true)
	chain.addJob(1, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "Fine", score: big.NewInt(30)})
	chain.addJob(2, &fakeJob{company: "0x2222222222222222222222222222222222222222", title: "Broken", score: oversized})
	chain.addJob(3, &fakeJob{company: "0x3333333333333333333333333333333333333333", title: "Also fine", score: big.NewInt(60)})

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected the oversized record to be dropped, got %d records", len(result.Jobs))
	}
	if result.Overflowed != 1 {
		t.Errorf("expected 1 overflow event, got %d", result.Overflowed)
	}
}

func TestListJobsUsesLegacyGetterOnOldDeployments(t *testing.T) {
	chain := newFakeChain(false)
	chain.addJob(1, &fakeJob{
		company: "0x1111111111111111111111111111111111111111",
		title:   "Old school role",
		score:   big.NewInt(20),
		status:  2,
	})

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if result.Source != "legacy" {
		t.Fatalf("expected the legacy source, got %s", result.Source)
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(result.Jobs))
	}
	if result.Jobs[0].Status != StatusFilled {
		t.Errorf("expected status %q, got %q", StatusFilled, result.Jobs[0].Status)
	}
}

func TestListJobsRecordsNodeErrorsAndContinues(t *testing.T) {
	chain := newFakeChain(true)
	chain.addJob(1, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "Before", score: big.NewInt(30)})
	chain.addJob(2, &fakeJob{company: "0x2222222222222222222222222222222222222222", title: "Flaky", score: big.NewInt(40)})
	chain.addJob(3, &fakeJob{company: "0x3333333333333333333333333333333333333333", title: "After", score: big.NewInt(50)})
	chain.failIDs = map[int64]string{
		2: "couldn't read from any nodes: connection refused",
	}

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected records 1 and 3, got %d records", len(result.Jobs))
	}
	if result.Jobs[0].ID != 1 || result.Jobs[1].ID != 3 {
		t.Errorf("unexpected record ids %d and %d", result.Jobs[0].ID, result.Jobs[1].ID)
	}
	if result.Errored != 1 {
		t.Errorf("expected 1 errored slot, got %d", result.Errored)
	}
	if result.Terminated {
		t.Error("a node error must not terminate the sweep")
	}
	if chain.maxProbedID != 3 {
		t.Errorf("expected the sweep to reach id 3, stopped at %d", chain.maxProbedID)
	}
}

func TestListJobsRecoversFromMidSweepInterfaceDrift(t *testing.T) {
	chain := newFakeChain(true)
	chain.addJob(1, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "Modern", score: big.NewInt(30)})
	chain.addJob(2, &fakeJob{company: "0x2222222222222222222222222222222222222222", title: "Drifted", score: big.NewInt(40), status: 1})
	chain.addJob(3, &fakeJob{company: "0x3333333333333333333333333333333333333333", title: "Also drifted", score: big.NewInt(50)})
	chain.modernLostFrom = 2

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	if len(result.Jobs) != 3 {
		t.Fatalf("expected the drifted id to be retried, got %d records", len(result.Jobs))
	}
	if result.Jobs[1].ID != 2 {
		t.Errorf("expected the retried record to keep id 2, got %d", result.Jobs[1].ID)
	}
	if result.Jobs[1].Status != StatusClosed {
		t.Errorf("expected the retried record to come from the raw getter with status %q, got %q", StatusClosed, result.Jobs[1].Status)
	}
	if result.Source != "legacy" {
		t.Errorf("expected the sweep to end on the legacy source, got %s", result.Source)
	}
	if result.Errored != 0 {
		t.Errorf("interface drift must not be counted as an error, got %d", result.Errored)
	}
}

func TestListJobsReportsUndeployedContract(t *testing.T) {
	chain := newFakeChain(true)
	chain.code = []byte{}

	agg, handle := newTestAggregator(chain)
	_, err := agg.ListJobs(handle, 0)
	if !errors.Is(err, common.ErrContractNotDeployed) {
		t.Fatalf("expected ErrContractNotDeployed, got %v", err)
	}
	if chain.totalCalls != 0 {
		t.Errorf("expected no contract reads after the code check failed, got %d", chain.totalCalls)
	}
}

func TestJobPlaceholders(t *testing.T) {
	chain := newFakeChain(true)
	chain.addJob(7, &fakeJob{company: "0x1111111111111111111111111111111111111111", score: big.NewInt(0)})
	chain.total = 7
	chain.revertFrom = 0
	for id := int64(1); id < 7; id++ {
		chain.addJob(id, &fakeJob{company: "0x1111111111111111111111111111111111111111", title: "x", desc: "y", score: big.NewInt(0)})
	}

	agg, handle := newTestAggregator(chain)
	result, err := agg.ListJobs(handle, 0)
	if err != nil {
		t.Fatalf("ListJobs failed: %s", err)
	}
	last := result.Jobs[len(result.Jobs)-1]
	if last.Title != "Job #7" {
		t.Errorf("expected placeholder title \"Job #7\", got %q", last.Title)
	}
	if last.Description != "No description available" {
		t.Errorf("expected placeholder description, got %q", last.Description)
	}
}
