package seed

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/xuri/excelize/v2"

	"dailgraph/internal/models"
	"dailgraph/internal/storage"
)

type Seeder struct {
	caseRepo   *storage.CaseRepo
	entityRepo *storage.EntityRepo
}

func NewSeeder(db *storage.DB) *Seeder {
	return &Seeder{
		caseRepo:   storage.NewCaseRepo(db),
		entityRepo: storage.NewEntityRepo(db),
	}
}

// ImportCaseWorkbook reads the curated case table and upserts every row.
// Returns the number of cases written.
func (s *Seeder) ImportCaseWorkbook(ctx context.Context, path string) (int, error) {
	cases, err := LoadCaseWorkbook(path)
	if err != nil {
		return 0, err
	}
	for i, c := range cases {
		if err := s.caseRepo.UpsertCase(ctx, c); err != nil {
			return i, fmt.Errorf("seed case %s: %w", c.ID, err)
		}
	}
	log.Printf("seeded %d cases from %s", len(cases), path)
	return len(cases), nil
}

// DeriveEntities runs the post-import pass that materializes LegalTheory and
// Court nodes from the case attributes.
func (s *Seeder) DeriveEntities(ctx context.Context) (int, int, error) {
	theories, courts, err := s.entityRepo.DeriveTheoriesAndCourts(ctx)
	if err != nil {
		return 0, 0, err
	}
	log.Printf("derived %d theory links, %d court links", theories, courts)
	return theories, courts, nil
}

// LoadCaseWorkbook parses the first sheet of the DAIL case table. Columns are
// located by header name so column order in the workbook does not matter.
func LoadCaseWorkbook(path string) ([]models.Case, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook %s has no data rows", path)
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[CleanValue(h)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return CleanValue(row[i])
	}

	out := make([]models.Case, 0, len(rows)-1)
	for _, row := range rows[1:] {
		numericID := 0
		if v := cell(row, "id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				numericID = n
			}
		}
		caption := cell(row, "Caption")
		if caption == "" {
			continue
		}
		id := cell(row, "Case_snug")
		if id == "" {
			id = MakeSlug(caption, numericID)
		}
		status := NormalizeStatus(cell(row, "Status_Disposition"))
		if status == "" {
			status = models.StatusActive
		}
		out = append(out, models.Case{
			ID:                  id,
			Caption:             caption,
			BriefDescription:    cell(row, "Brief_Description"),
			AreaOfApplication:   CleanList(cell(row, "Area_of_Application_Text")),
			CauseOfAction:       CleanList(cell(row, "Cause_of_Action_Text")),
			Issues:              CleanList(cell(row, "Issue_Text")),
			AlgorithmNames:      CleanList(cell(row, "Name_of_Algorithm_Text")),
			OrganizationsText:   cell(row, "Organizations_involved"),
			JurisdictionFiled:   cell(row, "Jurisdiction_Filed"),
			JurisdictionType:    cell(row, "Jurisdiction_Type_Text"),
			DateFiled:           CleanDate(cell(row, "Date_Action_Filed")),
			Status:              status,
			IsClassAction:       cell(row, "Class_Action"),
			SummarySignificance: cell(row, "Summary_of_Significance"),
			Source:              models.SourceDAIL,
		})
	}
	return out, nil
}
