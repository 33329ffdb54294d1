// Package jobdb keeps a session-local full-text index over the job
// postings fetched from chain so the CLI can answer keyword searches
// without re-sweeping the contract. The index is in-memory only; nothing
// survives the process, chain state stays the single source of truth.
package jobdb

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/sahilm/fuzzy"

	"github.com/jobverify/jobverify/aggregator"
)

type jobDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
}

// JobDB indexes one aggregation snapshot at a time.
type JobDB struct {
	index bleve.Index
	jobs  map[int64]aggregator.JobPosting
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("title", textFieldMapping)
	defaultMapping.AddFieldMappingsAt("description", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

func NewJobDB() (*JobDB, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &JobDB{
		index: index,
		jobs:  map[int64]aggregator.JobPosting{},
	}, nil
}

// Reindex replaces the current snapshot with jobs.
func (db *JobDB) Reindex(jobs []aggregator.JobPosting) error {
	for id := range db.jobs {
		if err := db.index.Delete(docID(id)); err != nil {
			return err
		}
	}
	db.jobs = map[int64]aggregator.JobPosting{}

	batch := db.index.NewBatch()
	for _, job := range jobs {
		db.jobs[job.ID] = job
		batch.Index(docID(job.ID), jobDoc{
			Title:       job.Title,
			Description: job.Description,
			Company:     job.CompanyAddress.Hex(),
		})
	}
	return db.index.Batch(batch)
}

func (db *JobDB) Len() int {
	return len(db.jobs)
}

// Search runs a phrase-or-fuzzy query over titles and descriptions and
// returns the matching postings, best match first.
func (db *JobDB) Search(input string) ([]aggregator.JobPosting, error) {
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(input)
	fuzzyQuery.Fuzziness = 1
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery)
	request := bleve.NewSearchRequest(query)
	request.Size = len(db.jobs)
	searchResults, err := db.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("job index search failed: %w", err)
	}

	results := []aggregator.JobPosting{}
	for _, hit := range searchResults.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		if job, ok := db.jobs[id]; ok {
			results = append(results, job)
		}
	}
	return results, nil
}

type titleSource []aggregator.JobPosting

func (ts titleSource) Len() int            { return len(ts) }
func (ts titleSource) String(i int) string { return ts[i].Title }

// SuggestTitles returns up to max job titles close to input, for the
// "did you mean" hint when a search comes back empty.
func (db *JobDB) SuggestTitles(input string, max int) []string {
	source := titleSource{}
	for _, job := range db.jobs {
		source = append(source, job)
	}
	matches := fuzzy.FindFrom(input, source)
	suggestions := []string{}
	for _, match := range matches {
		suggestions = append(suggestions, source[match.Index].Title)
		if len(suggestions) >= max {
			break
		}
	}
	return suggestions
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}
