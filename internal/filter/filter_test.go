package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	n, s := dataset.Num, dataset.Str
	tbl, err := dataset.NewTable("sample", []string{"hGender", "vboost", "region"}, [][]dataset.Value{
		{n(1), n(1), s("north")},
		{n(2), n(1), s("south")},
		{n(1), n(0), s("south")},
		{n(2), dataset.Null, s("north")},
		{dataset.Null, n(1), dataset.Null},
	})
	require.NoError(t, err)
	return tbl
}

func TestApply(t *testing.T) {
	tbl := sampleTable(t)
	tests := []struct {
		expr string
		want dataset.View
	}{
		{"", dataset.View{0, 1, 2, 3, 4}},
		{"   ", dataset.View{0, 1, 2, 3, 4}},
		{"hGender == 1", dataset.View{0, 2}},
		{"1 == hGender", dataset.View{0, 2}},
		{"hGender == 1 and vboost == 1", dataset.View{0}},
		{"hGender == 2 or vboost == 0", dataset.View{1, 2, 3}},
		// and binds tighter than or
		{"hGender == 2 or hGender == 1 and vboost == 0", dataset.View{1, 2, 3}},
		{"(hGender == 2 or hGender == 1) and vboost == 0", dataset.View{2}},
		{"region == 'north'", dataset.View{0, 3}},
		{`region == "south" & vboost == 1`, dataset.View{1}},
		{"hGender == 1 | hGender == 2", dataset.View{0, 1, 2, 3}},
		// missing cells never equal a literal
		{"vboost != 1", dataset.View{2, 3}},
		{"`vboost` == 1", dataset.View{0, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := Parse(tt.expr)
			require.NoError(t, err)
			got, err := Apply(tbl, tbl.All(), e)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChainAppliesInOrder(t *testing.T) {
	tbl := sampleTable(t)
	base := MustParse("vboost == 1")
	seg := MustParse("hGender == 2")
	got, err := Chain(tbl, tbl.All(), base, nil, seg)
	require.NoError(t, err)
	assert.Equal(t, dataset.View{1}, got)
}

func TestUnknownColumnFailsFast(t *testing.T) {
	tbl := sampleTable(t)
	e := MustParse("hGendr == 1 or vboost == 1")
	got, err := Apply(tbl, tbl.All(), e)
	require.Error(t, err)
	assert.Nil(t, got)

	var uc *UnknownColumnError
	require.True(t, errors.As(err, &uc))
	assert.Equal(t, "hGendr", uc.Column)
	assert.Equal(t, []string{"hGender"}, uc.Suggestions)
	assert.Contains(t, err.Error(), "did you mean hGender")
}

func TestUnknownColumnOnEmptyView(t *testing.T) {
	tbl := sampleTable(t)
	_, err := Apply(tbl, dataset.View{}, MustParse("nope == 1"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"hGender = 1",
		"hGender == ",
		"hGender == 1 and",
		"(hGender == 1",
		"hGender == 1)",
		"hGender == vboost",
		"region == 'north",
		"1 == 2",
		"hGender > 1",
	} {
		_, err := Parse(src)
		var se *SyntaxError
		assert.True(t, errors.As(err, &se), "expected syntax error for %q, got %v", src, err)
	}
}

func TestColumnsAndString(t *testing.T) {
	e := MustParse("a == 1 or b == 'x' and c != 2.5")
	assert.Equal(t, []string{"a", "b", "c"}, e.Columns(nil))
	assert.Equal(t, `(a == 1 or (b == "x" and c != 2.5))`, e.String())
}
