package aggregator

import (
	"testing"
)

func someJobs() []JobPosting {
	return []JobPosting{
		{ID: 1, Title: "Senior Solidity Engineer", MinimumTrustScore: 70},
		{ID: 2, Title: "Data Engineer", MinimumTrustScore: 40},
		{ID: 3, Title: "solidity auditor", MinimumTrustScore: 90},
	}
}

func TestFilterJobsByKeyword(t *testing.T) {
	got := FilterJobs(someJobs(), FilterCriteria{Keyword: "Solidity"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected ids [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}

	got = FilterJobs(someJobs(), FilterCriteria{Keyword: "solidity engineer"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the exact title match, got %v", got)
	}
}

func TestFilterJobsByTrustScoreKeepsAtOrBelow(t *testing.T) {
	// the threshold keeps jobs whose own requirement is at or below the
	// requested value, mirroring the deployed behavior
	got := FilterJobs(someJobs(), FilterCriteria{MinTrustScore: 70})
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs at or below 70, got %d", len(got))
	}
	for _, job := range got {
		if job.MinimumTrustScore > 70 {
			t.Errorf("job %d requires %d, above the threshold", job.ID, job.MinimumTrustScore)
		}
	}
}

func TestFilterJobsZeroCriteriaMatchesEverything(t *testing.T) {
	got := FilterJobs(someJobs(), FilterCriteria{})
	if len(got) != 3 {
		t.Fatalf("expected all 3 jobs, got %d", len(got))
	}
}
