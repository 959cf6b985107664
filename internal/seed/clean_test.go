package seed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanValue(t *testing.T) {
	require.Equal(t, "Doe v. Roe", CleanValue("  Doe v. Roe  "))
	require.Equal(t, "", CleanValue("nan"))
	require.Equal(t, "", CleanValue("None"))
	require.Equal(t, "", CleanValue("  NULL "))
	require.Equal(t, "", CleanValue(""))
}

func TestCleanList(t *testing.T) {
	require.Equal(t, []string{"Employment", "Housing"}, CleanList("Employment, Housing"))
	require.Equal(t, []string{"Fraud", "Negligence"}, CleanList(`'Fraud', 'Negligence'`))
	require.Equal(t, []string{"Privacy"}, CleanList("Privacy, nan, , none"))
	require.Empty(t, CleanList("nan"))
	require.Empty(t, CleanList(""))
}

func TestCleanDate(t *testing.T) {
	require.Equal(t, "2024-03-15", CleanDate("2024-03-15"))
	require.Equal(t, "2024-03-15", CleanDate("03/15/2024"))
	require.Equal(t, "2024-03-15", CleanDate("March 15, 2024"))
	require.Equal(t, "", CleanDate("sometime in spring"))
	require.Equal(t, "", CleanDate("nan"))
}

func TestMakeSlug(t *testing.T) {
	require.Equal(t, "doe-v-clearsight-ai", MakeSlug("Doe v. ClearSight AI", 12))
	require.Equal(t, "case-42", MakeSlug("", 42))
	require.Equal(t, "case-7", MakeSlug("???", 7))

	long := "A Very Long Case Caption That Keeps Going And Going And Going Beyond Sixty Characters"
	slug := MakeSlug(long, 1)
	require.LessOrEqual(t, len(slug), 60)
	require.False(t, slug[len(slug)-1] == '-')
}

func TestNormalizeStatus(t *testing.T) {
	require.Equal(t, "Active", NormalizeStatus("active"))
	require.Equal(t, "Active", NormalizeStatus("ACTIVE "))
	require.Equal(t, "Settled Or Dismissed", NormalizeStatus("settled or dismissed"))
	require.Equal(t, "", NormalizeStatus("nan"))
}
