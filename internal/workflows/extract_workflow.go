package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"dailgraph/internal/activities"
)

const ExtractWorkflowID = "entity-extract"

// EntityExtractWorkflow walks the backlog of cases that still carry raw
// entity text and materializes graph relationships from each one. The
// workflow sleeps periodically to stay under provider rate limits.
func EntityExtractWorkflow(ctx workflow.Context, input EntityExtractInput) (EntityExtractResult, error) {
	progress := EntityExtractProgress{}
	if err := workflow.SetQueryHandler(ctx, QueryGetExtractProgress, func() (EntityExtractProgress, error) {
		return progress, nil
	}); err != nil {
		return EntityExtractResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	batchSize := input.BatchSize
	if batchSize <= 0 || batchSize > 500 {
		batchSize = 500
	}
	pauseEvery := input.PauseEvery
	if pauseEvery <= 0 {
		pauseEvery = 10
	}
	pause := time.Duration(input.PauseSeconds) * time.Second
	if pause <= 0 {
		pause = time.Second
	}

	var listOut activities.ListExtractionCandidatesOutput
	if err := workflow.ExecuteActivity(ctx, "ListExtractionCandidatesActivity", activities.ListExtractionCandidatesInput{
		Limit: batchSize,
	}).Get(ctx, &listOut); err != nil {
		return EntityExtractResult{}, err
	}
	progress.Total = len(listOut.Candidates)

	for i, candidate := range listOut.Candidates {
		var extractOut activities.ExtractCaseOutput
		if err := workflow.ExecuteActivity(ctx, "ExtractCaseActivity", activities.ExtractCaseInput{
			Candidate: candidate,
		}).Get(ctx, &extractOut); err != nil {
			logger.Warn("extraction failed, skipping case", "case", candidate.CaseID, "error", err)
			progress.Failed++
			progress.Processed++
			continue
		}

		var applyOut activities.ApplyExtractionOutput
		if err := workflow.ExecuteActivity(ctx, "ApplyExtractionActivity", activities.ApplyExtractionInput{
			CaseID:     candidate.CaseID,
			Extraction: extractOut.Extraction,
		}).Get(ctx, &applyOut); err != nil {
			logger.Warn("apply extraction failed", "case", candidate.CaseID, "error", err)
			progress.Failed++
			progress.Processed++
			continue
		}
		progress.Processed++
		progress.Merged += applyOut.Merged
		progress.Queued += applyOut.Queued
		progress.Discarded += applyOut.Discarded

		if (i+1)%pauseEvery == 0 && i+1 < len(listOut.Candidates) {
			if err := workflow.Sleep(ctx, pause); err != nil {
				return EntityExtractResult{}, err
			}
		}
	}

	return EntityExtractResult{
		Processed: progress.Processed,
		Merged:    progress.Merged,
		Queued:    progress.Queued,
		Discarded: progress.Discarded,
	}, nil
}
