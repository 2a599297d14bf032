package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"companymap/internal/model"
)

func TestSortByStream(t *testing.T) {
	in := []model.CompanyEntry{
		{Company: "two", Stream: "2"},
		{Company: "none"},
		{Company: "one", Stream: "1"},
	}

	out := SortByStream(in)

	got := []string{out[0].Stream, out[1].Stream, out[2].Stream}
	assert.Equal(t, []string{"1", "2", ""}, got)
	// 不修改入参
	assert.Equal(t, "two", in[0].Company)
}

func TestSortByStream_StableForTiesAndNonNumeric(t *testing.T) {
	in := []model.CompanyEntry{
		{Company: "a", Stream: "x"},
		{Company: "b", Stream: "3"},
		{Company: "c"},
		{Company: "d", Stream: "3"},
		{Company: "e", Stream: "10"},
		{Company: "f", Stream: "-1"},
	}

	out := SortByStream(in)

	var names []string
	for _, e := range out {
		names = append(names, e.Company)
	}
	assert.Equal(t, []string{"f", "b", "d", "e", "a", "c"}, names)
}

func TestParseStream(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 7", 7, true},
		{"12abc", 12, true},
		{"-4", -4, true},
		{"+5", 5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseStream(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestStreamColor(t *testing.T) {
	assert.Equal(t, StreamColorNone, StreamColor(""))
	assert.Equal(t, StreamColorNone, StreamColor("n/a"))
	assert.Equal(t, "#f87171", StreamColor("0"))
	assert.Equal(t, "#fbbf24", StreamColor("11"))
	assert.Equal(t, "#818cf8", StreamColor("-1"))
}
