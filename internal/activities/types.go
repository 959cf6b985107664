package activities

import (
	"dailgraph/internal/models"
	"dailgraph/internal/oracle"
)

type SearchFeedInput struct {
	Keyword    string `json:"keyword"`
	WindowDays int    `json:"window_days"`
}

type SearchFeedOutput struct {
	Cases []models.StagingCase `json:"cases"`
}

type DedupCaseInput struct {
	Case models.StagingCase `json:"case"`
}

type DedupCaseOutput struct {
	Duplicate bool `json:"duplicate"`
}

type ClassifyCaseInput struct {
	Case models.StagingCase `json:"case"`
}

type ClassifyCaseOutput struct {
	Classification oracle.Classification `json:"classification"`
}

type MergeCaseInput struct {
	Case           models.StagingCase    `json:"case"`
	Classification oracle.Classification `json:"classification"`
}

type QueueCaseInput struct {
	Case           models.StagingCase    `json:"case"`
	Classification oracle.Classification `json:"classification"`
}

type QueueCaseOutput struct {
	ReviewItemID string `json:"review_item_id"`
}

type RecordIngestRunInput struct {
	Run models.IngestRun `json:"run"`
}

type ListExtractionCandidatesInput struct {
	Limit int `json:"limit"`
}

type ExtractionCandidate struct {
	CaseID            string `json:"case_id"`
	Caption           string `json:"caption"`
	OrganizationsText string `json:"organizations_text"`
	AlgorithmText     string `json:"algorithm_text"`
}

type ListExtractionCandidatesOutput struct {
	Candidates []ExtractionCandidate `json:"candidates"`
}

type ExtractCaseInput struct {
	Candidate ExtractionCandidate `json:"candidate"`
}

type ExtractCaseOutput struct {
	Extraction oracle.Extraction `json:"extraction"`
}

type ApplyExtractionInput struct {
	CaseID     string            `json:"case_id"`
	Extraction oracle.Extraction `json:"extraction"`
}

type ApplyExtractionOutput struct {
	Merged    int `json:"merged"`
	Queued    int `json:"queued"`
	Discarded int `json:"discarded"`
}
