package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.SearchFeedActivity)
	w.RegisterActivity(a.DedupCaseActivity)
	w.RegisterActivity(a.ClassifyCaseActivity)
	w.RegisterActivity(a.MergeCaseActivity)
	w.RegisterActivity(a.QueueCaseActivity)
	w.RegisterActivity(a.RecordIngestRunActivity)
	w.RegisterActivity(a.ListExtractionCandidatesActivity)
	w.RegisterActivity(a.ExtractCaseActivity)
	w.RegisterActivity(a.ApplyExtractionActivity)
}
