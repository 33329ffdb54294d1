package aggregator

import (
	"strings"
)

// FilterCriteria narrows a fetched job list. The zero value matches
// everything.
type FilterCriteria struct {
	// Keyword is matched case-insensitively against the title.
	Keyword string

	// MinTrustScore keeps only jobs whose own minimum trust score is at or
	// below this value. The direction is deliberate: it mirrors the
	// deployed behavior ("jobs accepting candidates at or below this
	// bar"), even though the opposite reading is arguably more natural.
	MinTrustScore int64
}

// FilterJobs is a pure function over a fetched record set; it never goes
// back to the chain.
func FilterJobs(records []JobPosting, criteria FilterCriteria) []JobPosting {
	result := []JobPosting{}
	keyword := strings.ToLower(strings.TrimSpace(criteria.Keyword))
	for _, job := range records {
		if keyword != "" && !strings.Contains(strings.ToLower(job.Title), keyword) {
			continue
		}
		if criteria.MinTrustScore > 0 && job.MinimumTrustScore > criteria.MinTrustScore {
			continue
		}
		result = append(result, job)
	}
	return result
}
