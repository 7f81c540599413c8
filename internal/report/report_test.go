package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/banner"
	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
	"github.com/KaramelBytes/tabloom-cli/internal/filter"
	"github.com/KaramelBytes/tabloom-cli/internal/question"
	"github.com/KaramelBytes/tabloom-cli/internal/tabulate"
)

var meta = Metadata{
	Client: "PEERLESS INSIGHTS",
	Study:  "DTV-010 Feature Prioritization",
	Date:   time.Date(2023, time.October, 4, 9, 0, 0, 0, time.UTC),
}

var segments = []banner.Segment{
	{ID: "A", Label: "Total"},
	{ID: "E", Label: "Male", Condition: "hGender == 1"},
	{ID: "F", Label: "Female", Condition: "hGender == 2"},
}

func respondents(t *testing.T) *dataset.Table {
	t.Helper()
	n := dataset.Num
	tbl, err := dataset.NewTable("resp", []string{"Q1", "hGender", "age"}, [][]dataset.Value{
		{n(1), n(1), n(30)},
		{n(2), n(2), n(40)},
		{n(1), n(2), n(50)},
		{dataset.Null, n(1), n(20)},
	})
	require.NoError(t, err)
	return tbl
}

func gender(id int) question.Question {
	return question.Question{
		ID:               id,
		QuestionVar:      question.Vars{"Q1"},
		QuestionText:     "Do you watch live TV?",
		BaseText:         "All respondents",
		DisplayStructure: question.DefaultDisplayStructure(),
		QuestionType:     question.Single,
		ShowSigma:        true,
	}
}

func repoWith(t *testing.T, qs ...question.Question) question.Repository {
	t.Helper()
	repo := question.NewJSONStore(filepath.Join(t.TempDir(), "questions_master.json"))
	require.NoError(t, repo.SaveAll(context.Background(), qs))
	return repo
}

func TestBuildLayout(t *testing.T) {
	grid := &tabulate.Grid{
		Header: []string{"Label", "A (Total)", "E (Male)", "F (Female)"},
		Rows:   [][]string{{"Base", "4", "2", "2"}, {"Male", "2", "1", "1"}, {"", "50.00%", "50.00%", "50.00%"}},
	}
	q := gender(1)
	g := Build(meta, segments, []Table{{Question: q, Grid: grid}, {Question: q, Grid: grid}})

	require.Len(t, g, 2*(11+3))
	for _, row := range g {
		assert.Len(t, row, 1+len(segments))
	}
	assert.Equal(t, []string{"", "", "", ""}, g[0])
	assert.Equal(t, PageMarker, g[1][0])
	assert.Equal(t, "PEERLESS INSIGHTS", g[2][0])
	assert.Equal(t, "DTV-010 Feature Prioritization", g[3][0])
	assert.Equal(t, "October 2023", g[4][0])
	assert.Equal(t, "Table 1", g[5][0])
	assert.Equal(t, "Do you watch live TV?", g[6][0])
	assert.Equal(t, "Base: All respondents", g[7][0])
	assert.Equal(t, []string{"", "Total", "Male", "Female"}, g[9])
	assert.Equal(t, []string{"", "A", "E", "F"}, g[10])
	assert.Equal(t, []string{"Base", "4", "2", "2"}, g[11])
	assert.Equal(t, "Table 2", g[14+5][0])

	// the crosstab rows are copied, not aliased
	g[11][0] = "changed"
	assert.Equal(t, "Base", grid.Rows[0][0])
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "DTV-010_Output_Tab_10042023.csv", OutputFileName("DTV-010", meta.Date))
	assert.Equal(t, "DTV-010", DefaultPrefix(meta.Study))
	assert.Equal(t, "tabloom", DefaultPrefix("  "))
}

func TestEncodeQuotes(t *testing.T) {
	b, err := Encode(Grid{{"Base: Adults, 18+", "10"}, {"", ""}})
	require.NoError(t, err)
	assert.Equal(t, "\"Base: Adults, 18+\",10\n,\n", string(b))
}

func TestGenerateWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	gen := &Generator{Repo: repoWith(t, gender(1), gender(2)), Segments: segments, Workers: 2}

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())
	res, err := gen.Generate(ctx, respondents(t), meta, Output{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tables)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(dir, "DTV-010_Output_Tab_10042023.csv"), res.Files[0])
	assert.Equal(t, filepath.Join(dir, LatestFileName), res.Files[1])

	dated, err := os.ReadFile(res.Files[0])
	require.NoError(t, err)
	latest, err := os.ReadFile(res.Files[1])
	require.NoError(t, err)
	assert.Equal(t, dated, latest)

	rows, err := csv.NewReader(bytes.NewReader(dated)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, res.Rows)
	for _, row := range rows {
		assert.Len(t, row, 1+len(segments))
	}
	assert.Equal(t, []string{"Base", "4", "2", "2"}, rows[11])
	assert.Equal(t, "Table 2", rows[len(rows)/2+5][0])
	assert.Contains(t, logs.String(), res.RunID)
	assert.Contains(t, logs.String(), "report written")
}

func TestGenerateUnknownColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	segs := append([]banner.Segment(nil), segments...)
	segs = append(segs, banner.Segment{ID: "G", Label: "Typo", Condition: "hGendr == 1"})
	gen := &Generator{Repo: repoWith(t, gender(1), gender(2), gender(3)), Segments: segs}

	_, err := gen.Generate(context.Background(), respondents(t), meta, Output{Dir: dir})
	require.Error(t, err)
	var uc *filter.UnknownColumnError
	assert.ErrorAs(t, err, &uc)
	assert.Contains(t, err.Error(), "segment G")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	gen := &Generator{Repo: repoWith(t), Segments: segments}

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())
	res, err := gen.Generate(ctx, respondents(t), meta, Output{Dir: dir})
	require.NoError(t, err)
	assert.Zero(t, res.Tables)
	assert.Empty(t, res.Files)
	assert.Contains(t, logs.String(), "no questions defined")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = gen.Tabulate(context.Background(), respondents(t))
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestTabulateInvalidQuestion(t *testing.T) {
	bad := gender(2)
	bad.QuestionText = ""
	gen := &Generator{Repo: repoWith(t, gender(1), bad), Segments: segments}
	_, err := gen.Tabulate(context.Background(), respondents(t))
	var ve *question.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "question_text", ve.Field)
}

func TestTabulateReportsEarliestFailure(t *testing.T) {
	qs := make([]question.Question, 30)
	for i := range qs {
		qs[i] = gender(i + 1)
	}
	qs[2].BaseFilter = "nosuchb == 1"
	qs[27].BaseFilter = "nosuchc == 1"
	gen := &Generator{Repo: repoWith(t, qs...), Segments: segments, Workers: 8}

	for run := 0; run < 50; run++ {
		_, err := gen.Tabulate(context.Background(), respondents(t))
		var uc *filter.UnknownColumnError
		require.ErrorAs(t, err, &uc, "run %d", run)
		assert.Equal(t, "nosuchb", uc.Column, "run %d: %v", run, err)
		assert.Contains(t, err.Error(), "question 3 ")
	}
}

func TestTabulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &Generator{Repo: repoWith(t, gender(1)), Segments: segments, Workers: 1}
	_, err := gen.Tabulate(ctx, respondents(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTabulateKeepsQuestionOrder(t *testing.T) {
	qs := make([]question.Question, 0, 20)
	for i := 20; i >= 1; i-- {
		qs = append(qs, gender(i))
	}
	gen := &Generator{Repo: repoWith(t, qs...), Segments: segments, Workers: 4}
	tables, err := gen.Tabulate(context.Background(), respondents(t))
	require.NoError(t, err)
	require.Len(t, tables, 20)
	for i, tbl := range tables {
		assert.Equal(t, 20-i, tbl.Question.ID)
	}
}
