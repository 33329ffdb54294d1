package aggregator

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/contracts"
)

// JobRecordSource fetches one job record by id. Two variants exist: the
// current contract interface exposes getJobDetails with only small, safe
// fields; older deployments only answer the raw public mapping getter.
// The variant is resolved once per handle by a capability probe instead of
// being re-detected on every call.
type JobRecordSource interface {
	Kind() string
	FetchJob(id int64) (*JobPosting, error)
}

type modernSource struct {
	handle *contracts.ContractHandle
}

// modernJobReply mirrors the outputs of getJobDetails.
type modernJobReply struct {
	CompanyAddress      ethcommon.Address
	PositionTitle       string
	Description         string
	RequiredCredentials [][32]byte
	MinimumTrustScore   *big.Int
}

func (s *modernSource) Kind() string {
	return "modern"
}

func (s *modernSource) FetchJob(id int64) (*JobPosting, error) {
	reply := modernJobReply{}
	err := s.handle.Call(&reply, "getJobDetails", big.NewInt(id))
	if err != nil {
		return nil, err
	}
	score, err := coerceTrustScore(reply.MinimumTrustScore)
	if err != nil {
		return nil, err
	}
	job := &JobPosting{
		ID:                  id,
		CompanyAddress:      reply.CompanyAddress,
		Title:               reply.PositionTitle,
		Description:         reply.Description,
		RequiredCredentials: hashesFromWords(reply.RequiredCredentials),
		MinimumTrustScore:   score,
		// getJobDetails doesn't return a status
		Status: StatusActive,
	}
	job.fillPlaceholders()
	return job, nil
}

type legacySource struct {
	handle *contracts.ContractHandle
}

// legacyJobReply mirrors the raw struct getter of older deployments. Only
// the fields known to be safe are carried over into the read model; the
// trust score is re-coerced defensively because old records have shipped
// it oversized.
type legacyJobReply struct {
	JobId             *big.Int
	CompanyAddress    ethcommon.Address
	PositionTitle     string
	Description       string
	MinimumTrustScore *big.Int
	CreatedTime       *big.Int
	HireAddress       ethcommon.Address
	Status            uint8
}

func (s *legacySource) Kind() string {
	return "legacy"
}

func (s *legacySource) FetchJob(id int64) (*JobPosting, error) {
	reply := legacyJobReply{}
	err := s.handle.Call(&reply, "jobs", big.NewInt(id))
	if err != nil {
		return nil, err
	}
	score, err := coerceTrustScore(reply.MinimumTrustScore)
	if err != nil {
		return nil, err
	}
	job := &JobPosting{
		ID:             id,
		CompanyAddress: reply.CompanyAddress,
		Title:          reply.PositionTitle,
		Description:    reply.Description,
		// the raw getter can't return the credentials array
		RequiredCredentials: []ethcommon.Hash{},
		MinimumTrustScore:   score,
		Status:              statusString(reply.Status),
	}
	job.fillPlaceholders()
	return job, nil
}

// resolveJobSource probes the handle once to decide which per-item
// accessor the deployed contract actually supports. An unknown selector
// reverts just like a missing record would, so a revert on the modern
// accessor is cross-checked against the legacy getter before concluding
// anything.
func resolveJobSource(handle *contracts.ContractHandle) JobRecordSource {
	modern := &modernSource{handle: handle}
	legacy := &legacySource{handle: handle}

	probe := modernJobReply{}
	err := handle.Call(&probe, "getJobDetails", big.NewInt(1))
	if err == nil {
		return modern
	}
	if common.IsMethodMissing(err) {
		return legacy
	}
	if common.IsRevert(err) {
		legacyProbe := legacyJobReply{}
		if handle.Call(&legacyProbe, "jobs", big.NewInt(1)) == nil {
			return legacy
		}
	}
	return modern
}
