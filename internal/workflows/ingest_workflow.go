package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"dailgraph/internal/activities"
	"dailgraph/internal/curation"
	"dailgraph/internal/feed"
	"dailgraph/internal/models"
)

const (
	QueryGetIngestProgress  = "GetIngestProgress"
	QueryGetExtractProgress = "GetExtractProgress"
)

// IngestWorkflowID is fixed so Temporal's id reuse policy enforces a single
// live run per deployment.
const IngestWorkflowID = "case-ingest"

// CaseIngestWorkflow pulls recent filings for each search keyword and routes
// every new case through classification. A failed keyword search is counted
// and skipped; one bad keyword never sinks the run.
func CaseIngestWorkflow(ctx workflow.Context, input CaseIngestInput) (CaseIngestResult, error) {
	progress := CaseIngestProgress{}
	if err := workflow.SetQueryHandler(ctx, QueryGetIngestProgress, func() (CaseIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return CaseIngestResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	keywords := input.Keywords
	if len(keywords) == 0 {
		keywords = feed.AILitigationKeywords
	}
	limit := input.KeywordLimit
	if limit <= 0 || limit > len(keywords) {
		limit = len(keywords)
	}
	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	router := curation.NewRouterWith(input.ConfidenceMin, input.ConfidenceAuto)

	// Dockets already handled in this run; keeps one keyword's hits from
	// being re-classified under the next keyword.
	seen := map[string]struct{}{}

	for _, keyword := range keywords[:limit] {
		progress.Keyword = keyword

		var searchOut activities.SearchFeedOutput
		err := workflow.ExecuteActivity(ctx, "SearchFeedActivity", activities.SearchFeedInput{
			Keyword:    keyword,
			WindowDays: windowDays,
		}).Get(ctx, &searchOut)
		if err != nil {
			logger.Warn("feed search failed, skipping keyword", "keyword", keyword, "error", err)
			progress.FeedFailures++
			progress.KeywordsDone++
			continue
		}

		for _, staged := range searchOut.Cases {
			progress.CasesFound++
			// A result without a docket number has no dedup key; skip it.
			if staged.DocketNumber == "" {
				progress.Duplicates++
				continue
			}
			if _, dup := seen[staged.DocketNumber]; dup {
				progress.Duplicates++
				continue
			}
			seen[staged.DocketNumber] = struct{}{}

			var dedupOut activities.DedupCaseOutput
			if err := workflow.ExecuteActivity(ctx, "DedupCaseActivity", activities.DedupCaseInput{Case: staged}).Get(ctx, &dedupOut); err != nil {
				logger.Warn("dedup check failed, skipping case", "case", staged.CaseID(), "error", err)
				continue
			}
			if dedupOut.Duplicate {
				progress.Duplicates++
				continue
			}

			var classifyOut activities.ClassifyCaseOutput
			if err := workflow.ExecuteActivity(ctx, "ClassifyCaseActivity", activities.ClassifyCaseInput{Case: staged}).Get(ctx, &classifyOut); err != nil {
				logger.Warn("classification failed, skipping case", "case", staged.CaseID(), "error", err)
				continue
			}
			verdict := classifyOut.Classification
			if !verdict.IsAILitigation {
				// Negative classifications leave no trace in the graph.
				progress.Rejected++
				continue
			}

			switch router.RouteClassification(verdict.Confidence) {
			case curation.AutoMerge:
				if err := workflow.ExecuteActivity(ctx, "MergeCaseActivity", activities.MergeCaseInput{
					Case:           staged,
					Classification: verdict,
				}).Get(ctx, nil); err != nil {
					logger.Warn("auto-merge failed", "case", staged.CaseID(), "error", err)
					continue
				}
				progress.CasesAdded++
			default:
				var queueOut activities.QueueCaseOutput
				if err := workflow.ExecuteActivity(ctx, "QueueCaseActivity", activities.QueueCaseInput{
					Case:           staged,
					Classification: verdict,
				}).Get(ctx, &queueOut); err != nil {
					logger.Warn("queue for review failed", "case", staged.CaseID(), "error", err)
					continue
				}
				progress.CasesQueued++
			}
		}
		progress.KeywordsDone++
	}

	run := models.IngestRun{
		Timestamp:   workflow.Now(ctx),
		CasesFound:  progress.CasesFound,
		CasesAdded:  progress.CasesAdded,
		CasesQueued: progress.CasesQueued,
	}
	if err := workflow.ExecuteActivity(ctx, "RecordIngestRunActivity", activities.RecordIngestRunInput{Run: run}).Get(ctx, nil); err != nil {
		logger.Warn("ingest run record failed", "error", err)
	}

	return CaseIngestResult{
		CasesFound:  progress.CasesFound,
		CasesAdded:  progress.CasesAdded,
		CasesQueued: progress.CasesQueued,
	}, nil
}
