package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companymap/internal/model"
)

func testRegions(t *testing.T) *RegionSet {
	t.Helper()
	set, err := NewRegionSet([]model.RegionDef{
		{Name: "europe", Label: "Европа", Members: []string{"Germany", "France", "Германия", "Europe"}},
		{Name: "asia", Label: "Азия", Members: []string{"China", "Japan", "Китай", "Asia"}},
	})
	require.NoError(t, err)
	return set
}

func row(country, typ, company string) model.Row {
	return model.Row{
		model.ColumnCountry: country,
		model.ColumnType:    typ,
		model.ColumnCompany: company,
		model.ColumnYear:    "2023",
	}
}

func countryLabels(tree model.ProjectTree) []string {
	out := make([]string, 0, len(tree.Countries))
	for _, c := range tree.Countries {
		out = append(out, c.Country)
	}
	return out
}

func TestRun_RoundTripScenario(t *testing.T) {
	rows := []model.Row{
		{"Country": "Russia", "Type": "Finance", "Company": "Sber", "Year": "2023", "Description": "desc"},
		{"Country": "Germany", "Type": "Finance", "Company": "SAP", "Year": "2020", "Description": "desc2"},
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)

	tree := res.Tree
	require.Len(t, tree.Countries, 2)

	russia := tree.Countries[0]
	assert.Equal(t, "Russia", russia.Country)
	assert.False(t, russia.Aggregate)
	require.Len(t, russia.Types, 1)
	assert.Equal(t, "Finance", russia.Types[0].Type)
	require.Len(t, russia.Types[0].Companies, 1)
	assert.Equal(t, "Sber", russia.Types[0].Companies[0].Company)
	assert.Empty(t, russia.Types[0].Companies[0].OriginalCountry)

	europe := tree.Countries[1]
	assert.Equal(t, "Европа", europe.Country)
	assert.True(t, europe.Aggregate)
	require.Len(t, europe.Types, 1)
	assert.Equal(t, "Finance", europe.Types[0].Type)
	require.Len(t, europe.Types[0].Companies, 1)
	sap := europe.Types[0].Companies[0]
	assert.Equal(t, "SAP", sap.Company)
	assert.Equal(t, "Germany", sap.OriginalCountry)
	assert.Equal(t, "2020", sap.Year)
	assert.Equal(t, "desc2", sap.Description)
}

func TestRun_Idempotent(t *testing.T) {
	rows := []model.Row{
		row("Germany", "IT", "SAP"),
		row("China", "IT", "Huawei"),
		row("Russia", "IT", "Yandex"),
		row("France", "IT", "Dassault"),
		row("Russia", "Finance", "Sber"),
		{"Country": "", "Type": "IT", "Company": "Ghost"},
	}
	p := New(testRegions(t))

	first, err := p.Run(rows)
	require.NoError(t, err)
	second, err := p.Run(rows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_FilterSoundness(t *testing.T) {
	rows := []model.Row{
		row("Russia", "IT", "Yandex"),
		row("   ", "IT", "NoCountry"),
		row("Russia", "\t", "NoType"),
		row("Russia", "IT", "  "),
		{"Type": "IT", "Company": "MissingCountryColumn"},
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Dropped)

	var names []string
	for _, c := range res.Tree.Countries {
		for _, tg := range c.Types {
			for _, e := range tg.Companies {
				names = append(names, e.Company)
			}
		}
	}
	assert.Equal(t, []string{"Yandex"}, names)
}

func TestRun_AggregationCompleteness(t *testing.T) {
	rows := []model.Row{
		row("germany", "IT", "SAP"),
		row("Russia", "IT", "Yandex"),
		row("ФРАНЦИЯ", "IT", "Nobody"), // 不在测试区域表中
		row("Германия", "Auto", "BMW"),
		row("France", "IT", "Dassault"),
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)

	for _, c := range res.Tree.Countries {
		if c.Aggregate {
			continue
		}
		for _, tg := range c.Types {
			for _, e := range tg.Companies {
				assert.NotContains(t, []string{"SAP", "BMW", "Dassault"}, e.Company)
			}
		}
	}

	europe := res.Tree.Countries[len(res.Tree.Countries)-1]
	require.True(t, europe.Aggregate)
	require.Len(t, europe.Types, 2)

	it := europe.Types[0]
	assert.Equal(t, "IT", it.Type)
	require.Len(t, it.Companies, 2)
	assert.Equal(t, "SAP", it.Companies[0].Company)
	assert.Equal(t, "germany", it.Companies[0].OriginalCountry)
	assert.Equal(t, "Dassault", it.Companies[1].Company)
	assert.Equal(t, "France", it.Companies[1].OriginalCountry)

	auto := europe.Types[1]
	assert.Equal(t, "Auto", auto.Type)
	require.Len(t, auto.Companies, 1)
	assert.Equal(t, "Германия", auto.Companies[0].OriginalCountry)
}

func TestRun_MergesRegionMembersInCountryOrder(t *testing.T) {
	rows := []model.Row{
		row("France", "IT", "F1"),
		row("Germany", "IT", "G1"),
		row("France", "IT", "F2"),
		row("Germany", "IT", "G2"),
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)
	require.Len(t, res.Tree.Countries, 1)

	var got []string
	for _, e := range res.Tree.Countries[0].Types[0].Companies {
		got = append(got, e.Company)
	}
	// 先 France 的全部行，再 Germany 的全部行
	assert.Equal(t, []string{"F1", "F2", "G1", "G2"}, got)
}

func TestRun_OrderStability(t *testing.T) {
	rows := []model.Row{
		row("Zimbabwe", "IT", "a"),
		row("Brazil", "IT", "b"),
		row("Zimbabwe", "IT", "c"),
		row("Argentina", "IT", "d"),
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zimbabwe", "Brazil", "Argentina"}, countryLabels(res.Tree))
	assert.Len(t, res.Tree.Countries[0].Types[0].Companies, 2)
}

func TestRun_RegionOrdering(t *testing.T) {
	rows := []model.Row{
		row("China", "IT", "Huawei"),
		row("Germany", "IT", "SAP"),
		row("Japan", "Auto", "Toyota"),
		row("Russia", "IT", "Yandex"),
	}

	res, err := New(testRegions(t)).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"Russia", "Европа", "Азия"}, countryLabels(res.Tree))
}

func TestRun_LiteralCountryCaseFolding(t *testing.T) {
	rows := []model.Row{
		row("Россия", "IT", "Yandex"),
		row("россия", "IT", "VK"),
		row(" РОССИЯ ", "Finance", "Sber"),
	}

	res, err := New(nil).Run(rows)
	require.NoError(t, err)
	require.Len(t, res.Tree.Countries, 1)

	node := res.Tree.Countries[0]
	assert.Equal(t, "Россия", node.Country)
	require.Len(t, node.Types, 2)
	assert.Len(t, node.Types[0].Companies, 2)
	assert.Equal(t, "Finance", node.Types[1].Type)
}

func TestRun_TypesAreCaseSensitive(t *testing.T) {
	rows := []model.Row{
		row("Russia", "IT", "Yandex"),
		row("Russia", "it", "VK"),
	}

	res, err := New(nil).Run(rows)
	require.NoError(t, err)
	assert.Len(t, res.Tree.Countries[0].Types, 2)
}

func TestRun_ProjectNameAndSubtitle(t *testing.T) {
	rows := []model.Row{
		{"Name of Work": "Анализ рынка ИИ", "Country": "Russia", "Type": "IT", "Company": "Yandex"},
		{"Name of Work": "Кафедра 317", "Country": "Russia", "Type": "IT", "Company": "VK"},
	}

	res, err := New(nil).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, "Анализ рынка ИИ", res.Tree.Name)
	assert.Equal(t, "Кафедра 317", res.Subtitle)
}

func TestRun_DefaultProjectName(t *testing.T) {
	rows := []model.Row{row("Russia", "IT", "Yandex")}

	res, err := New(nil).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, res.Tree.Name)
	assert.Empty(t, res.Subtitle)

	res, err = New(nil, WithDefaultProjectName("Companies")).Run(rows)
	require.NoError(t, err)
	assert.Equal(t, "Companies", res.Tree.Name)
}

func TestRun_EntryFields(t *testing.T) {
	rows := []model.Row{
		{"id": "42", "Country": "Russia", "Type": "IT", "Company": "Yandex", "Year": "2000",
			"Description": "search", "Stream": "3", "links": "ya.ru; https://yandex.com;;"},
		row("Russia", "IT", "VK"),
	}

	res, err := New(nil).Run(rows)
	require.NoError(t, err)

	companies := res.Tree.Countries[0].Types[0].Companies
	require.Len(t, companies, 2)

	assert.Equal(t, "42", companies[0].ID)
	assert.Equal(t, "3", companies[0].Stream)
	assert.Equal(t, []string{"https://ya.ru", "https://yandex.com"}, companies[0].Links)
	assert.Equal(t, 0, companies[0].RowIndex)

	assert.Equal(t, FallbackID(1), companies[1].ID)
	assert.Equal(t, "row-3", companies[1].ID)
	assert.Nil(t, companies[1].Links)
}

func TestRun_EmptyInput(t *testing.T) {
	_, err := New(nil).Run(nil)
	require.Error(t, err)

	var malformed *MalformedSourceError
	require.ErrorAs(t, err, &malformed)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestRun_AllRowsMissingCompany(t *testing.T) {
	rows := []model.Row{
		{"Country": "Russia", "Type": "IT"},
		{"Country": "Germany", "Type": "IT"},
	}

	_, err := New(testRegions(t)).Run(rows)
	require.Error(t, err)

	var empty *EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 2, empty.Dropped)
	assert.Contains(t, err.Error(), "Country, Type, Company")
}
