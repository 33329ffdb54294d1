package jobdb

import (
	"testing"

	"github.com/jobverify/jobverify/aggregator"
)

func snapshot() []aggregator.JobPosting {
	return []aggregator.JobPosting{
		{ID: 1, Title: "Senior Solidity Engineer", Description: "Protocol work"},
		{ID: 2, Title: "Data Engineer", Description: "Pipelines and warehouses"},
		{ID: 3, Title: "Smart Contract Auditor", Description: "Review solidity code"},
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	db, err := NewJobDB()
	if err != nil {
		t.Fatal(err)
	}
	if err = db.Reindex(snapshot()); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("solidity")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(results))
	}
	seen := map[int64]bool{}
	for _, job := range results {
		seen[job.ID] = true
	}
	if !seen[1] || !seen[3] {
		t.Errorf("wrong hits: %v", seen)
	}
}

func TestSearchToleratesTypos(t *testing.T) {
	db, err := NewJobDB()
	if err != nil {
		t.Fatal(err)
	}
	if err = db.Reindex(snapshot()); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("soliditi")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Error("fuzzy query found nothing")
	}
}

func TestReindexReplacesSnapshot(t *testing.T) {
	db, err := NewJobDB()
	if err != nil {
		t.Fatal(err)
	}
	if err = db.Reindex(snapshot()); err != nil {
		t.Fatal(err)
	}
	if err = db.Reindex([]aggregator.JobPosting{
		{ID: 9, Title: "Rust Engineer", Description: "Systems"},
	}); err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected 1 indexed job after reindex, got %d", db.Len())
	}
	results, err := db.Search("solidity")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale postings survived the reindex: %v", results)
	}
}

func TestSuggestTitles(t *testing.T) {
	db, err := NewJobDB()
	if err != nil {
		t.Fatal(err)
	}
	if err = db.Reindex(snapshot()); err != nil {
		t.Fatal(err)
	}
	suggestions := db.SuggestTitles("slidity enginer", 2)
	if len(suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if len(suggestions) > 2 {
		t.Errorf("suggestion cap ignored: %v", suggestions)
	}
}
