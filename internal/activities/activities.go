package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dailgraph/internal/config"
	"dailgraph/internal/curation"
	"dailgraph/internal/feed"
	"dailgraph/internal/models"
	"dailgraph/internal/oracle"
	"dailgraph/internal/providers"
	"dailgraph/internal/storage"
)

type Activities struct {
	cfg          config.Config
	caseRepo     *storage.CaseRepo
	entityRepo   *storage.EntityRepo
	reviewRepo   *storage.ReviewRepo
	ingestRepo   *storage.IngestRepo
	auditRepo    *storage.OracleAuditRepo
	feed         *feed.Client
	oracle       *oracle.Oracle
	router       curation.Router
	providerName string
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg.LLMProviders)
	if err != nil {
		return nil, err
	}
	// Audit rows carry the primary provider's name even when failover
	// ends up serving a call from further down the list.
	_, primary := pm.LLMProviderByIndex(0)
	return &Activities{
		cfg:          cfg,
		caseRepo:     storage.NewCaseRepo(db),
		entityRepo:   storage.NewEntityRepo(db),
		reviewRepo:   storage.NewReviewRepo(db),
		ingestRepo:   storage.NewIngestRepo(db),
		auditRepo:    storage.NewOracleAuditRepo(db),
		feed:         feed.NewClient(cfg.CourtListenerBase, cfg.CourtListenerToken, cfg.IngestPageSize),
		oracle:       oracle.New(pm.Failover()),
		router:       curation.NewRouterWith(cfg.ConfidenceMin, cfg.ConfidenceAuto),
		providerName: primary.Name,
	}, nil
}

func (a *Activities) SearchFeedActivity(ctx context.Context, in SearchFeedInput) (SearchFeedOutput, error) {
	after := time.Now().AddDate(0, 0, -in.WindowDays)
	results, err := a.feed.Search(ctx, in.Keyword, after)
	if err != nil {
		return SearchFeedOutput{}, err
	}
	cases := make([]models.StagingCase, 0, len(results))
	for _, r := range results {
		cases = append(cases, models.StagingCase{
			ExternalID:   r.ExternalID,
			Caption:      r.Caption,
			CourtName:    r.CourtName,
			DateFiled:    r.DateFiled,
			DocketNumber: r.DocketNumber,
			AbsoluteURL:  r.AbsoluteURL,
		})
	}
	return SearchFeedOutput{Cases: cases}, nil
}

// DedupCaseActivity checks the graph for a prior sighting, by docket number
// first and graph id second.
func (a *Activities) DedupCaseActivity(ctx context.Context, in DedupCaseInput) (DedupCaseOutput, error) {
	if in.Case.DocketNumber != "" {
		exists, err := a.caseRepo.ExistsByDocket(ctx, in.Case.DocketNumber)
		if err != nil {
			return DedupCaseOutput{}, err
		}
		if exists {
			return DedupCaseOutput{Duplicate: true}, nil
		}
	}
	exists, err := a.caseRepo.Exists(ctx, in.Case.CaseID())
	if err != nil {
		return DedupCaseOutput{}, err
	}
	return DedupCaseOutput{Duplicate: exists}, nil
}

func (a *Activities) ClassifyCaseActivity(ctx context.Context, in ClassifyCaseInput) (ClassifyCaseOutput, error) {
	c, cerr := a.oracle.ClassifyCase(ctx, in.Case.Caption, in.Case.CourtName, in.Case.DateFiled, in.Case.Caption)
	a.audit(ctx, "classify", in.Case.CaseID(), cerr)
	return ClassifyCaseOutput{Classification: c}, nil
}

// MergeCaseActivity writes a fully classified active case and links its
// court. Only candidates at or above the auto threshold reach here.
func (a *Activities) MergeCaseActivity(ctx context.Context, in MergeCaseInput) error {
	conf := in.Classification.Confidence
	c := models.Case{
		ID:                       in.Case.CaseID(),
		Caption:                  in.Case.Caption,
		AreaOfApplication:        in.Classification.AreaOfApplication,
		CauseOfAction:            in.Classification.CauseOfAction,
		CourtName:                in.Case.CourtName,
		DocketNumber:             in.Case.DocketNumber,
		DateFiled:                in.Case.DateFiled,
		Status:                   models.StatusActive,
		Source:                   models.SourceCourtListener,
		AbsoluteURL:              in.Case.AbsoluteURL,
		AutoClassified:           true,
		ClassificationConfidence: &conf,
	}
	if err := a.caseRepo.UpsertCase(ctx, c); err != nil {
		return err
	}
	if in.Case.CourtName != "" {
		if err := a.entityRepo.LinkCourt(ctx, c.ID, in.Case.CourtName, ""); err != nil {
			return err
		}
	}
	for _, theory := range in.Classification.CauseOfAction {
		if theory == "" {
			continue
		}
		if err := a.entityRepo.LinkTheory(ctx, c.ID, theory); err != nil {
			return err
		}
	}
	return nil
}

// QueueCaseActivity writes a pending_review stub plus a classification review
// item whose payload is the full classification verdict.
func (a *Activities) QueueCaseActivity(ctx context.Context, in QueueCaseInput) (QueueCaseOutput, error) {
	stub := models.Case{
		ID:           in.Case.CaseID(),
		Caption:      in.Case.Caption,
		CourtName:    in.Case.CourtName,
		DocketNumber: in.Case.DocketNumber,
		DateFiled:    in.Case.DateFiled,
		Status:       models.StatusPendingReview,
		Source:       models.SourceCourtListener,
		AbsoluteURL:  in.Case.AbsoluteURL,
	}
	if err := a.caseRepo.UpsertCase(ctx, stub); err != nil {
		return QueueCaseOutput{}, err
	}
	payload, err := json.Marshal(in.Classification)
	if err != nil {
		return QueueCaseOutput{}, fmt.Errorf("encode classification payload: %w", err)
	}
	id, err := a.reviewRepo.Enqueue(ctx, stub.ID, models.ReviewTypeClassification,
		string(payload), in.Classification.Confidence, in.Case.Caption)
	if err != nil {
		return QueueCaseOutput{}, err
	}
	return QueueCaseOutput{ReviewItemID: id}, nil
}

func (a *Activities) RecordIngestRunActivity(ctx context.Context, in RecordIngestRunInput) error {
	return a.ingestRepo.RecordRun(ctx, in.Run)
}

func (a *Activities) ListExtractionCandidatesActivity(ctx context.Context, in ListExtractionCandidatesInput) (ListExtractionCandidatesOutput, error) {
	cases, err := a.caseRepo.ListCasesNeedingExtraction(ctx, in.Limit)
	if err != nil {
		return ListExtractionCandidatesOutput{}, err
	}
	out := make([]ExtractionCandidate, 0, len(cases))
	for _, c := range cases {
		out = append(out, ExtractionCandidate{
			CaseID:            c.ID,
			Caption:           c.Caption,
			OrganizationsText: c.OrganizationsText,
			AlgorithmText:     joinList(c.AlgorithmNames),
		})
	}
	return ListExtractionCandidatesOutput{Candidates: out}, nil
}

func (a *Activities) ExtractCaseActivity(ctx context.Context, in ExtractCaseInput) (ExtractCaseOutput, error) {
	ex, xerr := a.oracle.ExtractEntities(ctx, in.Candidate.CaseID, in.Candidate.Caption,
		in.Candidate.OrganizationsText, in.Candidate.AlgorithmText)
	a.audit(ctx, "extract", in.Candidate.CaseID, xerr)
	return ExtractCaseOutput{Extraction: ex}, nil
}

// ApplyExtractionActivity routes every extracted candidate through the
// confidence gate and applies the outcome. Roles ride along on the
// relationship; plaintiff and third-party candidates go through the same
// gate as defendants.
func (a *Activities) ApplyExtractionActivity(ctx context.Context, in ApplyExtractionInput) (ApplyExtractionOutput, error) {
	var out ApplyExtractionOutput
	for _, org := range in.Extraction.Organizations {
		decision, canonical := routeOrganization(a.router, org)
		switch decision {
		case curation.AutoMerge:
			rel := models.DefendantRelation{
				CaseID:        in.CaseID,
				CanonicalName: canonical,
				Roles:         org.Roles,
				Confidence:    org.Confidence,
				ExtractedBy:   models.ProvenanceClaude,
			}
			if err := a.entityRepo.UpsertDefendantRelation(ctx, rel); err != nil {
				return out, err
			}
			out.Merged++
		case curation.Queue:
			payload, _ := json.Marshal(org)
			if _, err := a.reviewRepo.Enqueue(ctx, in.CaseID, models.ReviewTypeEntity,
				string(payload), org.Confidence, ""); err != nil {
				return out, err
			}
			out.Queued++
		default:
			out.Discarded++
		}
	}
	for _, sys := range in.Extraction.AISystems {
		if sys.Name == "" {
			out.Discarded++
			continue
		}
		switch a.router.Route(sys.Confidence) {
		case curation.AutoMerge:
			if err := a.entityRepo.UpsertAISystem(ctx, models.AISystem{Name: sys.Name, Category: sys.Category}); err != nil {
				return out, err
			}
			rel := models.SystemRelation{
				CaseID:      in.CaseID,
				SystemName:  sys.Name,
				Confidence:  sys.Confidence,
				ExtractedBy: models.ProvenanceClaude,
			}
			if err := a.entityRepo.UpsertSystemRelation(ctx, rel); err != nil {
				return out, err
			}
			out.Merged++
		case curation.Queue:
			payload, _ := json.Marshal(sys)
			if _, err := a.reviewRepo.Enqueue(ctx, in.CaseID, models.ReviewTypeAISystem,
				string(payload), sys.Confidence, ""); err != nil {
				return out, err
			}
			out.Queued++
		default:
			out.Discarded++
		}
	}
	return out, nil
}

// routeOrganization gates one extracted organization. Every candidate with a
// usable name goes through the confidence router regardless of its roles; the
// canonical name falls back to the surface name when the oracle left it blank.
func routeOrganization(router curation.Router, org oracle.ExtractedOrganization) (curation.Decision, string) {
	canonical := org.CanonicalName
	if canonical == "" {
		canonical = org.Name
	}
	if canonical == "" {
		return curation.Discard, ""
	}
	return router.Route(org.Confidence), canonical
}

func (a *Activities) audit(ctx context.Context, operation, caseID string, callErr error) {
	status := "ok"
	errorType := ""
	if callErr != nil {
		status = "failed"
		errorType = string(providers.ClassifyError(callErr))
	}
	rec := storage.OracleCallRecord{
		Operation:    operation,
		CaseID:       caseID,
		ProviderName: a.providerName,
		Status:       status,
		ErrorType:    errorType,
	}
	if err := a.auditRepo.Insert(ctx, rec); err != nil {
		log.Printf("oracle audit insert failed: %v", err)
	}
}

func joinList(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ", "
		}
		out += x
	}
	return out
}
