package seed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dailgraph/internal/models"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "cases.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadCaseWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"id", "Case_snug", "Caption", "Status_Disposition", "Cause_of_Action_Text", "Jurisdiction_Filed", "Jurisdiction_Type_Text", "Date_Action_Filed", "Organizations_involved", "Class_Action"},
		{"1", "doe-v-clearsight", "Doe v. ClearSight AI", "active", "BIPA, Negligence", "N.D. Ill.", "Federal", "2024-03-15", "ClearSight AI Inc.", "Yes"},
		{"2", "", "Roe v. ModelCo", "SETTLED", "Copyright", "S.D.N.Y.", "Federal", "03/20/2024", "ModelCo", ""},
		{"3", "", "", "", "", "", "", "", "", ""},
	})

	cases, err := LoadCaseWorkbook(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	first := cases[0]
	require.Equal(t, "doe-v-clearsight", first.ID)
	require.Equal(t, "Active", first.Status)
	require.Equal(t, []string{"BIPA", "Negligence"}, first.CauseOfAction)
	require.Equal(t, "N.D. Ill.", first.JurisdictionFiled)
	require.Equal(t, "2024-03-15", first.DateFiled)
	require.Equal(t, models.SourceDAIL, first.Source)

	// Missing slug falls back to a caption-derived one; dates normalize.
	second := cases[1]
	require.Equal(t, "roe-v-modelco", second.ID)
	require.Equal(t, "Settled", second.Status)
	require.Equal(t, "2024-03-20", second.DateFiled)
}

func TestLoadCaseWorkbookRejectsEmpty(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"id", "Caption"}})
	_, err := LoadCaseWorkbook(path)
	require.Error(t, err)
}
