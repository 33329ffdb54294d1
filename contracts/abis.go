package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The interface descriptions of the deployed JobVerify contracts. Two
// shapes exist for the job listing contract: the current one exposes
// getJobDetails with only small, safe fields, older deployments only have
// the raw public mapping getter with every struct field.

const jobPostingABI = `[
	{"type":"function","name":"getTotalJobs","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getJobDetails","stateMutability":"view",
	 "inputs":[{"name":"jobId","type":"uint256"}],
	 "outputs":[
		{"name":"companyAddress","type":"address"},
		{"name":"positionTitle","type":"string"},
		{"name":"description","type":"string"},
		{"name":"requiredCredentials","type":"bytes32[]"},
		{"name":"minimumTrustScore","type":"uint256"}]},
	{"type":"function","name":"jobs","stateMutability":"view",
	 "inputs":[{"name":"","type":"uint256"}],
	 "outputs":[
		{"name":"jobId","type":"uint256"},
		{"name":"companyAddress","type":"address"},
		{"name":"positionTitle","type":"string"},
		{"name":"description","type":"string"},
		{"name":"minimumTrustScore","type":"uint256"},
		{"name":"createdTime","type":"uint256"},
		{"name":"hireAddress","type":"address"},
		{"name":"status","type":"uint8"}]},
	{"type":"function","name":"getCompanyActiveJobs","stateMutability":"view",
	 "inputs":[{"name":"company","type":"address"}],
	 "outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"createJobPosting","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"positionTitle","type":"string"},
		{"name":"description","type":"string"},
		{"name":"requiredCredentials","type":"bytes32[]"},
		{"name":"minimumTrustScore","type":"uint256"}],
	 "outputs":[]},
	{"type":"function","name":"applyForJob","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"jobId","type":"uint256"},
		{"name":"coverLetterRef","type":"string"},
		{"name":"submittedCredentials","type":"bytes32[]"}],
	 "outputs":[]}
]`

const userVerificationABI = `[
	{"type":"function","name":"getVerificationStatus","stateMutability":"view",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[
		{"name":"kycComplete","type":"bool"},
		{"name":"identityHash","type":"bytes32"},
		{"name":"verificationTime","type":"uint256"},
		{"name":"credentialCount","type":"uint256"}]}
]`

const companyVerificationABI = `[
	{"type":"function","name":"getCompanyInfo","stateMutability":"view",
	 "inputs":[{"name":"company","type":"address"}],
	 "outputs":[
		{"name":"companyHash","type":"bytes32"},
		{"name":"registrationTime","type":"uint256"},
		{"name":"verified","type":"bool"},
		{"name":"trustScore","type":"uint256"},
		{"name":"jobPostingsCount","type":"uint256"},
		{"name":"hiresCount","type":"uint256"},
		{"name":"complaintsCount","type":"uint256"},
		{"name":"officerCount","type":"uint256"}]},
	{"type":"function","name":"registerCompany","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"companyHash","type":"bytes32"},
		{"name":"officers","type":"address[]"}],
	 "outputs":[]}
]`

const credentialRegistryABI = `[
	{"type":"function","name":"getCandidateCredentials","stateMutability":"view",
	 "inputs":[{"name":"candidate","type":"address"}],
	 "outputs":[{"name":"","type":"bytes32[]"}]}
]`

const disputeResolutionABI = `[
	{"type":"function","name":"getTotalDisputes","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"fileDispute","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"jobId","type":"uint256"},
		{"name":"reason","type":"string"}],
	 "outputs":[]}
]`

func mustParseABI(body string) *abi.ABI {
	result, err := abi.JSON(strings.NewReader(body))
	if err != nil {
		panic(err)
	}
	return &result
}

var (
	jobPostingParsedABI          = mustParseABI(jobPostingABI)
	userVerificationParsedABI    = mustParseABI(userVerificationABI)
	companyVerificationParsedABI = mustParseABI(companyVerificationABI)
	credentialRegistryParsedABI  = mustParseABI(credentialRegistryABI)
	disputeResolutionParsedABI   = mustParseABI(disputeResolutionABI)
)
