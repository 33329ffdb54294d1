package aggregator

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/contracts"
)

// VerificationStatus is the normalized KYC state of one candidate.
type VerificationStatus struct {
	Address          ethcommon.Address
	KYCComplete      bool
	IdentityHash     ethcommon.Hash
	VerificationTime int64
	CredentialCount  int64
}

// CompanyInfo is the normalized trust profile of one registered company.
type CompanyInfo struct {
	Address          ethcommon.Address
	CompanyHash      ethcommon.Hash
	RegistrationTime int64
	Verified         bool
	TrustScore       int64
	JobPostingsCount int64
	HiresCount       int64
	ComplaintsCount  int64
	OfficerCount     int64
}

type verificationStatusReply struct {
	KycComplete      bool
	IdentityHash     [32]byte
	VerificationTime *big.Int
	CredentialCount  *big.Int
}

// GetVerificationStatus reads a candidate's KYC state. A revert means the
// address was never registered; callers treat that as "not verified yet",
// not as a page-level failure.
func (a *Aggregator) GetVerificationStatus(
	handle *contracts.ContractHandle,
	user string,
) (*VerificationStatus, error) {
	reply := verificationStatusReply{}
	addr := common.HexToAddress(user)
	if err := handle.Call(&reply, "getVerificationStatus", addr); err != nil {
		return nil, err
	}
	verifiedAt, err := common.BigToBoundedInt64(reply.VerificationTime)
	if err != nil {
		verifiedAt = 0
	}
	credCount, err := common.BigToBoundedInt64(reply.CredentialCount)
	if err != nil {
		credCount = 0
	}
	return &VerificationStatus{
		Address:          addr,
		KYCComplete:      reply.KycComplete,
		IdentityHash:     ethcommon.Hash(reply.IdentityHash),
		VerificationTime: verifiedAt,
		CredentialCount:  credCount,
	}, nil
}

type companyInfoReply struct {
	CompanyHash      [32]byte
	RegistrationTime *big.Int
	Verified         bool
	TrustScore       *big.Int
	JobPostingsCount *big.Int
	HiresCount       *big.Int
	ComplaintsCount  *big.Int
	OfficerCount     *big.Int
}

// GetCompanyInfo reads a company's on-chain trust profile. The trust
// score goes through the same defensive coercion as job records since it
// comes from the same generation of contracts.
func (a *Aggregator) GetCompanyInfo(
	handle *contracts.ContractHandle,
	company string,
) (*CompanyInfo, error) {
	reply := companyInfoReply{}
	addr := common.HexToAddress(company)
	if err := handle.Call(&reply, "getCompanyInfo", addr); err != nil {
		return nil, err
	}
	trustScore, err := coerceTrustScore(reply.TrustScore)
	if err != nil {
		return nil, err
	}
	bounded := func(b *big.Int) int64 {
		v, err := common.BigToBoundedInt64(b)
		if err != nil {
			return 0
		}
		return v
	}
	return &CompanyInfo{
		Address:          addr,
		CompanyHash:      ethcommon.Hash(reply.CompanyHash),
		RegistrationTime: bounded(reply.RegistrationTime),
		Verified:         reply.Verified,
		TrustScore:       trustScore,
		JobPostingsCount: bounded(reply.JobPostingsCount),
		HiresCount:       bounded(reply.HiresCount),
		ComplaintsCount:  bounded(reply.ComplaintsCount),
		OfficerCount:     bounded(reply.OfficerCount),
	}, nil
}

// GetCandidateCredentials lists the credential hashes registered for a
// candidate.
func (a *Aggregator) GetCandidateCredentials(
	handle *contracts.ContractHandle,
	candidate string,
) ([]ethcommon.Hash, error) {
	var words [][32]byte
	err := handle.Call(&words, "getCandidateCredentials", common.HexToAddress(candidate))
	if err != nil {
		return nil, err
	}
	return hashesFromWords(words), nil
}
