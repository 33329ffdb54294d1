// Package aggregator sweeps the per-id collections of the JobVerify
// contracts into normalized read models, tolerating missing entries,
// oversized numeric fields and interface drift between contract
// generations. Every sweep recomputes from chain state; nothing is cached
// across sessions.
package aggregator

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/jobverify/jobverify/common"
	"github.com/jobverify/jobverify/contracts"
)

// DEFAULT_MAX_PROBE bounds the sweep when the contract can't tell us how
// many postings exist. Partial data beats none.
const DEFAULT_MAX_PROBE int64 = 10

// AggregationResult is the outcome of one full listing sweep. It is
// ephemeral: recomputed on each fetch, never cached.
type AggregationResult struct {
	// Jobs holds the valid records in ascending id order.
	Jobs []JobPosting

	// Total is what getTotalJobs reported, 0 when the accessor failed.
	Total int64
	// Probed is how many ids were actually attempted.
	Probed int64

	// CountUnavailable is set when getTotalJobs failed and the sweep fell
	// back to the bounded probe limit.
	CountUnavailable bool

	// Skipped counts entries with an unpopulated company slot.
	Skipped int64
	// Overflowed counts entries dropped because a numeric field didn't
	// fit the bounded representation.
	Overflowed int64
	// Errored counts entries that failed for any other non-terminating
	// reason.
	Errored int64
	// Terminated is set when a revert ended the sweep early, implying no
	// entries exist past the last probed id.
	Terminated bool

	// Source is which contract interface variant served the sweep.
	Source string
}

// Aggregator reads the per-id collections. It is stateless between calls.
type Aggregator struct {
	resolver *contracts.Resolver
}

func NewAggregator(resolver *contracts.Resolver) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// ListJobs sweeps every job posting currently on chain.
//
// The probe is strictly sequential in ascending id order: the collection
// is assumed contiguous from 1, so the first revert means no further
// entries exist and terminates the sweep. Parallelizing the loop would
// break that early-termination rule.
func (a *Aggregator) ListJobs(handle *contracts.ContractHandle, maxProbe int64) (*AggregationResult, error) {
	if maxProbe <= 0 {
		maxProbe = DEFAULT_MAX_PROBE
	}

	deployed, err := handle.HasCode()
	if err != nil {
		return nil, fmt.Errorf("couldn't verify contract code at %s: %w", handle.Address, err)
	}
	if !deployed {
		return nil, common.ErrContractNotDeployed
	}

	result := &AggregationResult{Jobs: []JobPosting{}}

	limit := maxProbe
	var total *big.Int
	if err := handle.Call(&total, "getTotalJobs"); err != nil {
		// older deployments don't have the accessor; probe blind
		result.CountUnavailable = true
	} else if t, err := common.BigToBoundedInt64(total); err != nil {
		result.CountUnavailable = true
	} else {
		result.Total = t
		limit = t
	}

	source := resolveJobSource(handle)
	result.Source = source.Kind()

	for id := int64(1); id <= limit; id++ {
		result.Probed = id
		job, err := source.FetchJob(id)
		if err != nil {
			var overflow *common.NumericOverflowError
			if errors.As(err, &overflow) {
				result.Overflowed++
				continue
			}
			if common.IsMethodMissing(err) && source.Kind() == "modern" {
				// interface drift detected mid-sweep; drop to the raw
				// getter and retry this id
				source = &legacySource{handle: handle}
				result.Source = source.Kind()
				id--
				continue
			}
			if common.IsRevert(err) {
				result.Terminated = true
				break
			}
			result.Errored++
			continue
		}
		if common.IsZeroAddress(job.CompanyAddress) {
			result.Skipped++
			continue
		}
		result.Jobs = append(result.Jobs, *job)
	}

	return result, nil
}

// ListCompanyJobs returns the ids of a company's active postings.
func (a *Aggregator) ListCompanyJobs(handle *contracts.ContractHandle, company string) ([]int64, error) {
	var ids []*big.Int
	err := handle.Call(&ids, "getCompanyActiveJobs", common.HexToAddress(company))
	if err != nil {
		return nil, err
	}
	result := []int64{}
	for _, id := range ids {
		v, err := common.BigToBoundedInt64(id)
		if err != nil {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}
