package models

import "time"

const (
	SourceDAIL          = "dail"
	SourceCourtListener = "courtlistener"
)

const (
	StatusActive        = "Active"
	StatusInactive      = "Inactive"
	StatusPendingReview = "pending_review"
)

// Case is a single litigation matter. Curated imports use a human slug as the
// id; feed-sourced cases use "cl-<external id>". Bulk-imported rows may carry a
// legacy free-form status string alongside the constants above.
type Case struct {
	ID                       string    `json:"id"`
	Caption                  string    `json:"caption"`
	BriefDescription         string    `json:"briefDescription,omitempty"`
	AreaOfApplication        []string  `json:"areaOfApplication"`
	CauseOfAction            []string  `json:"causeOfAction"`
	Issues                   []string  `json:"issues,omitempty"`
	AlgorithmNames           []string  `json:"algorithmNames"`
	OrganizationsText        string    `json:"organizations,omitempty"`
	JurisdictionType         string    `json:"jurisdictionType,omitempty"`
	JurisdictionFiled        string    `json:"jurisdictionFiled,omitempty"`
	CourtName                string    `json:"courtName,omitempty"`
	DocketNumber             string    `json:"docketNumber,omitempty"`
	DateFiled                string    `json:"dateFiled,omitempty"`
	Status                   string    `json:"status"`
	IsClassAction            string    `json:"isClassAction,omitempty"`
	SummarySignificance      string    `json:"summarySignificance,omitempty"`
	Source                   string    `json:"source"`
	AbsoluteURL              string    `json:"absoluteUrl,omitempty"`
	AutoClassified           bool      `json:"autoClassified"`
	ClassificationConfidence *float64  `json:"classificationConfidence,omitempty"`
	CreatedAt                time.Time `json:"createdAt,omitzero"`
	UpdatedAt                time.Time `json:"updatedAt,omitzero"`
}

type Organization struct {
	CanonicalName string `json:"canonicalName"`
	Name          string `json:"name,omitempty"`
}

// AISystemCategories is the fixed category enumeration for AISystem nodes.
var AISystemCategories = []string{"LLM", "biometric", "autonomous", "recommender", "classifier", "other"}

type AISystem struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Provenance tags for relationship rows. Confidence and provenance always
// travel together: an oracle-created relationship stays ReviewedByHuman=false
// until a human approves its originating review item.
const (
	ProvenanceDemo   = "demo"
	ProvenanceClaude = "claude"
	ProvenanceHuman  = "human"
)

// DefendantRelation is a Case→Organization "named as defendant" edge.
type DefendantRelation struct {
	CaseID          string   `json:"caseId"`
	CanonicalName   string   `json:"canonicalName"`
	Roles           []string `json:"roles"`
	Confidence      float64  `json:"confidence"`
	ExtractedBy     string   `json:"extractedBy"`
	ReviewedByHuman bool     `json:"reviewedByHuman"`
	ReviewItemID    string   `json:"reviewItemId,omitempty"`
}

// SystemRelation is a Case→AISystem "involves system" edge.
type SystemRelation struct {
	CaseID          string  `json:"caseId"`
	SystemName      string  `json:"systemName"`
	Confidence      float64 `json:"confidence"`
	ExtractedBy     string  `json:"extractedBy"`
	ReviewedByHuman bool    `json:"reviewedByHuman"`
	ReviewItemID    string  `json:"reviewItemId,omitempty"`
}

const (
	ReviewTypeEntity         = "entity"
	ReviewTypeClassification = "classification"
	ReviewTypeAISystem       = "ai_system"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// ReviewItem parks an oracle candidate for human adjudication. Payload holds
// the candidate record as raw JSON text; listings return it parsed when it
// parses and verbatim when it does not.
type ReviewItem struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"caseId"`
	CaseCaption string    `json:"caseCaption,omitempty"`
	Type        string    `json:"type"`
	Payload     any       `json:"payload"`
	Confidence  float64   `json:"confidence"`
	Status      string    `json:"status"`
	RawText     string    `json:"rawText,omitempty"`
	Correction  string    `json:"correction,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ReviewedAt  time.Time `json:"reviewedAt,omitzero"`
}

type ReviewStats struct {
	Pending       int     `json:"pending"`
	Approved      int     `json:"approved"`
	Rejected      int     `json:"rejected"`
	AvgConfidence float64 `json:"avgConfidence"`
}

// CorrectionLog is the append-only audit row written on rejection.
type CorrectionLog struct {
	ReviewItemID string    `json:"reviewItemId"`
	Correction   string    `json:"correction"`
	LoggedAt     time.Time `json:"loggedAt"`
}

type IngestRun struct {
	Timestamp   time.Time `json:"timestamp"`
	CasesFound  int       `json:"casesFound"`
	CasesAdded  int       `json:"casesAdded"`
	CasesQueued int       `json:"casesQueued"`
}

// StagingCase is the in-memory normalized form of one feed result. It is
// discarded after being merged or converted into a review item.
type StagingCase struct {
	ExternalID   string `json:"externalId"`
	Caption      string `json:"caption"`
	CourtName    string `json:"courtName"`
	DateFiled    string `json:"dateFiled"`
	DocketNumber string `json:"docketNumber"`
	AbsoluteURL  string `json:"absoluteUrl"`
}

// CaseID returns the graph id a merged feed case will carry.
func (s StagingCase) CaseID() string {
	return "cl-" + s.ExternalID
}

type WaveSignal struct {
	Defendant     string   `json:"defendant"`
	CaseCount     int      `json:"caseCount"`
	Theories      []string `json:"theories"`
	Jurisdictions []string `json:"jurisdictions"`
	Narrative     string   `json:"narrative"`
}

type DefendantRanking struct {
	CanonicalName string `json:"canonicalName"`
	CaseCount     int    `json:"caseCount"`
	ActiveCount   int    `json:"activeCount"`
	InactiveCount int    `json:"inactiveCount"`
}

type AISystemRanking struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	CaseCount int    `json:"caseCount"`
}

// CaseSummary is the compact listing shape for defendant and theory views.
type CaseSummary struct {
	ID               string   `json:"id"`
	Caption          string   `json:"caption"`
	Status           string   `json:"status"`
	DateFiled        string   `json:"dateFiled"`
	JurisdictionType string   `json:"jurisdictionType"`
	Theories         []string `json:"theories,omitempty"`
	AISystems        []string `json:"aiSystems,omitempty"`
}

// CaseNeighbors is a case with its one-hop relationships.
type CaseNeighbors struct {
	Case          Case                `json:"case"`
	Organizations []DefendantRelation `json:"organizations"`
	AISystems     []SystemRelation    `json:"aiSystems"`
	LegalTheories []string            `json:"legalTheories"`
	Courts        []string            `json:"courts"`
}

// SimilarCase scores another case by shared defendants plus shared theories.
type SimilarCase struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
	Status  string `json:"status"`
	Overlap int    `json:"overlap"`
}

type GraphOverview struct {
	Cases         int `json:"cases"`
	Organizations int `json:"organizations"`
	AISystems     int `json:"aiSystems"`
	LegalTheories int `json:"legalTheories"`
	Courts        int `json:"courts"`
	Relationships int `json:"relationships"`
}
