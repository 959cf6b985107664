package workflows

type CaseIngestInput struct {
	Keywords       []string `json:"keywords"`
	KeywordLimit   int      `json:"keyword_limit"`
	WindowDays     int      `json:"window_days"`
	ConfidenceMin  float64  `json:"confidence_min"`
	ConfidenceAuto float64  `json:"confidence_auto"`
}

type CaseIngestProgress struct {
	Keyword      string `json:"keyword"`
	KeywordsDone int    `json:"keywords_done"`
	CasesFound   int    `json:"cases_found"`
	CasesAdded   int    `json:"cases_added"`
	CasesQueued  int    `json:"cases_queued"`
	Duplicates   int    `json:"duplicates"`
	Rejected     int    `json:"rejected"`
	FeedFailures int    `json:"feed_failures"`
}

type CaseIngestResult struct {
	CasesFound  int `json:"cases_found"`
	CasesAdded  int `json:"cases_added"`
	CasesQueued int `json:"cases_queued"`
}

type EntityExtractInput struct {
	BatchSize      int     `json:"batch_size"`
	PauseEvery     int     `json:"pause_every"`
	PauseSeconds   int     `json:"pause_seconds"`
	ConfidenceMin  float64 `json:"confidence_min"`
	ConfidenceAuto float64 `json:"confidence_auto"`
}

type EntityExtractProgress struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Merged    int `json:"merged"`
	Queued    int `json:"queued"`
	Discarded int `json:"discarded"`
	Failed    int `json:"failed"`
}

type EntityExtractResult struct {
	Processed int `json:"processed"`
	Merged    int `json:"merged"`
	Queued    int `json:"queued"`
	Discarded int `json:"discarded"`
}
