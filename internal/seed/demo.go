package seed

import (
	"context"
	"fmt"
	"log"

	"dailgraph/internal/models"
)

// Demo data for an empty database: a recognizable slice of the AI litigation
// landscape with hand-set confidences, provenance "demo".

var demoCases = []models.Case{
	{
		ID:                "demo-001",
		Caption:           "Williams v. Clearview AI, Inc.",
		BriefDescription:  "Class action alleging Clearview AI scraped biometric data without consent.",
		AreaOfApplication: []string{"Facial Recognition", "Biometric"},
		CauseOfAction:     []string{"BIPA Violation", "Invasion of Privacy", "Unjust Enrichment"},
		AlgorithmNames:    []string{"Clearview Facial Recognition"},
		OrganizationsText: "Williams (plaintiff), Clearview AI (defendant)",
		JurisdictionFiled: "N.D. Illinois",
		JurisdictionType:  "Federal",
		DateFiled:         "2020-01-22",
		Status:            models.StatusActive,
		IsClassAction:     "Yes",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-002",
		Caption:           "Doe v. Google LLC (Bard/Gemini)",
		BriefDescription:  "Privacy class action over Google's use of personal data to train generative AI.",
		AreaOfApplication: []string{"Generative AI"},
		CauseOfAction:     []string{"Privacy Violation", "Breach of Contract", "CCPA Violation"},
		AlgorithmNames:    []string{"Google Bard", "Gemini"},
		OrganizationsText: "Doe (plaintiff), Google LLC (defendant), Alphabet Inc. (defendant)",
		JurisdictionFiled: "N.D. California",
		JurisdictionType:  "Federal",
		DateFiled:         "2023-07-11",
		Status:            models.StatusActive,
		IsClassAction:     "Yes",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-003",
		Caption:           "Andersen v. Stability AI Ltd.",
		BriefDescription:  "Artists sue Stability AI, Midjourney, and DeviantArt alleging copyright infringement via generative AI image training.",
		AreaOfApplication: []string{"Generative AI", "Intellectual Property"},
		CauseOfAction:     []string{"Copyright Infringement", "DMCA Violation", "Right of Publicity"},
		AlgorithmNames:    []string{"Stable Diffusion", "Midjourney"},
		OrganizationsText: "Andersen (plaintiff), Stability AI (defendant), Midjourney (defendant), DeviantArt (defendant)",
		JurisdictionFiled: "N.D. California",
		JurisdictionType:  "Federal",
		DateFiled:         "2023-01-13",
		Status:            models.StatusActive,
		IsClassAction:     "Yes",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-004",
		Caption:           "Mobley v. Tesla, Inc.",
		BriefDescription:  "Wrongful death suit alleging Tesla Autopilot caused fatal crash.",
		AreaOfApplication: []string{"Autonomous Vehicles"},
		CauseOfAction:     []string{"Products Liability", "Negligence", "Wrongful Death"},
		AlgorithmNames:    []string{"Tesla Autopilot", "Tesla FSD"},
		OrganizationsText: "Mobley (plaintiff), Tesla Inc. (defendant)",
		JurisdictionFiled: "C.D. California",
		JurisdictionType:  "Federal",
		DateFiled:         "2022-05-04",
		Status:            models.StatusInactive,
		IsClassAction:     "No",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-005",
		Caption:           "OpenAI Privacy Class Action (Doe v. OpenAI)",
		BriefDescription:  "Privacy class action alleging OpenAI scraped personal data without consent to train ChatGPT.",
		AreaOfApplication: []string{"Generative AI"},
		CauseOfAction:     []string{"Privacy Violation", "ECPA Violation", "Negligence"},
		AlgorithmNames:    []string{"ChatGPT", "GPT-4"},
		OrganizationsText: "Doe (plaintiff), OpenAI Inc. (defendant), Microsoft Corporation (defendant)",
		JurisdictionFiled: "N.D. California",
		JurisdictionType:  "Federal",
		DateFiled:         "2023-06-28",
		Status:            models.StatusActive,
		IsClassAction:     "Yes",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-006",
		Caption:           "Ridgeway v. Workday, Inc.",
		BriefDescription:  "Discrimination claim alleging Workday's AI screening tools discriminate against protected job applicants.",
		AreaOfApplication: []string{"Employment"},
		CauseOfAction:     []string{"Title VII Discrimination", "ADA Violation", "ADEA Violation"},
		AlgorithmNames:    []string{"Workday AI Recruiting"},
		OrganizationsText: "Ridgeway (plaintiff), Workday Inc. (defendant)",
		JurisdictionFiled: "N.D. California",
		JurisdictionType:  "Federal",
		DateFiled:         "2023-02-28",
		Status:            models.StatusActive,
		IsClassAction:     "Yes",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-007",
		Caption:           "Thaler v. Vidal (DABUS Patent)",
		BriefDescription:  "Federal Circuit appeal on whether an AI system can be named as a patent inventor.",
		AreaOfApplication: []string{"Intellectual Property"},
		CauseOfAction:     []string{"Patent Act Challenge", "Administrative Law"},
		AlgorithmNames:    []string{"DABUS"},
		OrganizationsText: "Thaler (plaintiff), USPTO (defendant)",
		JurisdictionFiled: "E.D. Virginia",
		JurisdictionType:  "Federal",
		DateFiled:         "2020-11-03",
		Status:            models.StatusInactive,
		IsClassAction:     "No",
		Source:            models.SourceDAIL,
	},
	{
		ID:                "demo-008",
		Caption:           "Healthcare AI Bias Complaint (HHS OCR)",
		BriefDescription:  "HHS OCR complaint alleging hospital's predictive algorithm discriminates against Black patients.",
		AreaOfApplication: []string{"Healthcare"},
		CauseOfAction:     []string{"Section 1557 ACA Violation", "Civil Rights Violation"},
		AlgorithmNames:    []string{"Optum Health Risk Algorithm"},
		OrganizationsText: "Hospital System (defendant), HHS OCR (regulator)",
		JurisdictionFiled: "HHS Office for Civil Rights",
		JurisdictionType:  "Administrative",
		DateFiled:         "2021-08-10",
		Status:            models.StatusInactive,
		IsClassAction:     "No",
		Source:            models.SourceDAIL,
	},
}

var demoOrgs = []models.Organization{
	{CanonicalName: "Clearview AI, Inc.", Name: "Clearview AI"},
	{CanonicalName: "Google LLC", Name: "Google"},
	{CanonicalName: "Alphabet Inc.", Name: "Alphabet"},
	{CanonicalName: "Stability AI Ltd.", Name: "Stability AI"},
	{CanonicalName: "Midjourney, Inc.", Name: "Midjourney"},
	{CanonicalName: "DeviantArt, Inc.", Name: "DeviantArt"},
	{CanonicalName: "Tesla, Inc.", Name: "Tesla"},
	{CanonicalName: "OpenAI, Inc.", Name: "OpenAI"},
	{CanonicalName: "Microsoft Corporation", Name: "Microsoft"},
	{CanonicalName: "Workday, Inc.", Name: "Workday"},
	{CanonicalName: "USPTO", Name: "USPTO"},
}

var demoDefendants = []models.DefendantRelation{
	{CaseID: "demo-001", CanonicalName: "Clearview AI, Inc.", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-002", CanonicalName: "Google LLC", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-002", CanonicalName: "Alphabet Inc.", Roles: []string{"defendant"}, Confidence: 0.92},
	{CaseID: "demo-003", CanonicalName: "Stability AI Ltd.", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-003", CanonicalName: "Midjourney, Inc.", Roles: []string{"defendant"}, Confidence: 0.95},
	{CaseID: "demo-003", CanonicalName: "DeviantArt, Inc.", Roles: []string{"defendant"}, Confidence: 0.90},
	{CaseID: "demo-004", CanonicalName: "Tesla, Inc.", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-005", CanonicalName: "OpenAI, Inc.", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-005", CanonicalName: "Microsoft Corporation", Roles: []string{"defendant"}, Confidence: 0.93},
	{CaseID: "demo-006", CanonicalName: "Workday, Inc.", Roles: []string{"defendant"}, Confidence: 0.97},
	{CaseID: "demo-007", CanonicalName: "USPTO", Roles: []string{"defendant"}, Confidence: 0.97},
}

var demoSystems = []struct {
	caseID     string
	name       string
	category   string
	confidence float64
}{
	{"demo-001", "Clearview Facial Recognition", "biometric", 0.97},
	{"demo-002", "Google Gemini", "LLM", 0.95},
	{"demo-003", "Stable Diffusion", "LLM", 0.97},
	{"demo-003", "Midjourney", "LLM", 0.95},
	{"demo-004", "Tesla Autopilot", "autonomous", 0.98},
	{"demo-005", "ChatGPT", "LLM", 0.98},
	{"demo-006", "Workday AI Recruiting", "classifier", 0.93},
	{"demo-007", "DABUS", "other", 0.90},
	{"demo-008", "Optum Health Risk Algorithm", "classifier", 0.92},
}

// SeedDemo loads the synthetic demo graph: cases, organizations, defendant
// and system relationships. Safe to rerun; everything upserts by key.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	for _, c := range demoCases {
		if err := s.caseRepo.UpsertCase(ctx, c); err != nil {
			return fmt.Errorf("seed demo case %s: %w", c.ID, err)
		}
	}
	for _, org := range demoOrgs {
		if err := s.entityRepo.UpsertOrganization(ctx, org); err != nil {
			return fmt.Errorf("seed demo org %s: %w", org.CanonicalName, err)
		}
	}
	for _, rel := range demoDefendants {
		rel.ExtractedBy = models.ProvenanceDemo
		if err := s.entityRepo.UpsertDefendantRelation(ctx, rel); err != nil {
			return fmt.Errorf("seed demo defendant %s: %w", rel.CanonicalName, err)
		}
	}
	for _, ds := range demoSystems {
		if err := s.entityRepo.UpsertAISystem(ctx, models.AISystem{Name: ds.name, Category: ds.category}); err != nil {
			return fmt.Errorf("seed demo system %s: %w", ds.name, err)
		}
		rel := models.SystemRelation{
			CaseID:      ds.caseID,
			SystemName:  ds.name,
			Confidence:  ds.confidence,
			ExtractedBy: models.ProvenanceDemo,
		}
		if err := s.entityRepo.UpsertSystemRelation(ctx, rel); err != nil {
			return fmt.Errorf("seed demo system link %s: %w", ds.name, err)
		}
	}
	log.Printf("seeded demo graph: %d cases, %d organizations", len(demoCases), len(demoOrgs))
	return nil
}
