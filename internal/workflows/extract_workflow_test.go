package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"dailgraph/internal/activities"
	"dailgraph/internal/oracle"
)

func newExtractEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(EntityExtractWorkflow)
	registerActivityName(env, "ListExtractionCandidatesActivity", func(context.Context, activities.ListExtractionCandidatesInput) (activities.ListExtractionCandidatesOutput, error) {
		return activities.ListExtractionCandidatesOutput{}, nil
	})
	registerActivityName(env, "ExtractCaseActivity", func(context.Context, activities.ExtractCaseInput) (activities.ExtractCaseOutput, error) {
		return activities.ExtractCaseOutput{}, nil
	})
	registerActivityName(env, "ApplyExtractionActivity", func(context.Context, activities.ApplyExtractionInput) (activities.ApplyExtractionOutput, error) {
		return activities.ApplyExtractionOutput{}, nil
	})
	return env
}

func TestEntityExtractProcessesBatch(t *testing.T) {
	env := newExtractEnv(t)

	candidates := []activities.ExtractionCandidate{
		{CaseID: "case-a", Caption: "A v. X", OrganizationsText: "X Corp"},
		{CaseID: "case-b", Caption: "B v. Y", OrganizationsText: "Y Inc"},
	}
	extraction := oracle.Extraction{
		Organizations: []oracle.ExtractedOrganization{
			{Name: "X Corp", CanonicalName: "X Corp", Roles: []string{"defendant"}, Confidence: 0.9},
		},
	}

	env.OnActivity("ListExtractionCandidatesActivity", mock.Anything, activities.ListExtractionCandidatesInput{Limit: 500}).
		Return(activities.ListExtractionCandidatesOutput{Candidates: candidates}, nil)
	env.OnActivity("ExtractCaseActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractCaseOutput{Extraction: extraction}, nil)
	env.OnActivity("ApplyExtractionActivity", mock.Anything, mock.Anything).
		Return(activities.ApplyExtractionOutput{Merged: 1}, nil)

	env.ExecuteWorkflow(EntityExtractWorkflow, EntityExtractInput{})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out EntityExtractResult
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, 2, out.Processed)
	require.Equal(t, 2, out.Merged)
}

func TestEntityExtractSkipsFailedCases(t *testing.T) {
	env := newExtractEnv(t)

	candidates := []activities.ExtractionCandidate{
		{CaseID: "case-bad", OrganizationsText: "?"},
		{CaseID: "case-good", OrganizationsText: "Z LLC"},
	}

	env.OnActivity("ListExtractionCandidatesActivity", mock.Anything, mock.Anything).
		Return(activities.ListExtractionCandidatesOutput{Candidates: candidates}, nil)
	env.OnActivity("ExtractCaseActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractCaseInput) bool {
		return in.Candidate.CaseID == "case-bad"
	})).Return(activities.ExtractCaseOutput{}, errors.New("provider unreachable"))
	env.OnActivity("ExtractCaseActivity", mock.Anything, mock.MatchedBy(func(in activities.ExtractCaseInput) bool {
		return in.Candidate.CaseID == "case-good"
	})).Return(activities.ExtractCaseOutput{Extraction: oracle.Extraction{}}, nil)
	env.OnActivity("ApplyExtractionActivity", mock.Anything, mock.MatchedBy(func(in activities.ApplyExtractionInput) bool {
		return in.CaseID == "case-good"
	})).Return(activities.ApplyExtractionOutput{Queued: 1}, nil).Once()

	env.ExecuteWorkflow(EntityExtractWorkflow, EntityExtractInput{BatchSize: 10})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out EntityExtractResult
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, 2, out.Processed)
	require.Equal(t, 1, out.Queued)
	env.AssertExpectations(t)
}

func TestEntityExtractEmptyBacklog(t *testing.T) {
	env := newExtractEnv(t)

	env.OnActivity("ListExtractionCandidatesActivity", mock.Anything, mock.Anything).
		Return(activities.ListExtractionCandidatesOutput{}, nil)

	env.ExecuteWorkflow(EntityExtractWorkflow, EntityExtractInput{})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out EntityExtractResult
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, EntityExtractResult{}, out)
}
