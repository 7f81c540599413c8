package question

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/dataset"
)

const legacyFile = `[
  {
    "id": 1,
    "question_var": "Q1",
    "question_text": "What is your gender?",
    "base_text": "All respondents",
    "display_structure": [["code", "Male", 1], ["code", "Female", 2], ["net", "Any", [1, 2]]],
    "base_filter": null,
    "question_type": "single",
    "mean_var": null
  },
  {
    "id": 2,
    "question_var": ["S6r1", "S6r2"],
    "question_text": "Which services do you use?",
    "base_text": "MVPD users",
    "display_structure": [["code", "Service A", "S6r1"], ["code", "Service B", "S6r2"], ["net", "Any service", ["S6r1", "S6r2"]]],
    "base_filter": "hMVPD == 2",
    "question_type": "multi",
    "mean_var": null,
    "show_sigma": false
  }
]`

func TestDecodeLegacyFile(t *testing.T) {
	var qs []Question
	require.NoError(t, json.Unmarshal([]byte(legacyFile), &qs))
	require.Len(t, qs, 2)

	q1 := qs[0]
	assert.Equal(t, Vars{"Q1"}, q1.QuestionVar)
	assert.Equal(t, "Q1", q1.Var())
	assert.Empty(t, q1.BaseFilter)
	assert.Empty(t, q1.MeanVar)
	assert.True(t, q1.ShowSigma, "show_sigma defaults to true")
	assert.Equal(t, Single, q1.QuestionType)

	q2 := qs[1]
	assert.Equal(t, Vars{"S6r1", "S6r2"}, q2.QuestionVar)
	assert.Equal(t, "hMVPD == 2", q2.BaseFilter)
	assert.False(t, q2.ShowSigma)
	assert.Equal(t, []string{"S6r1", "S6r2"}, q2.MultiColumns())
}

func TestEncodeWritesNulls(t *testing.T) {
	q := Question{
		ID:               3,
		QuestionVar:      Vars{"Q3"},
		QuestionText:     "Age",
		DisplayStructure: DefaultDisplayStructure(),
		QuestionType:     Single,
		ShowSigma:        true,
	}
	b, err := json.Marshal(q)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Nil(t, raw["base_filter"])
	assert.Nil(t, raw["mean_var"])
	assert.Equal(t, "Q3", raw["question_var"])
	assert.Equal(t, true, raw["show_sigma"])

	var back Question
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, q.QuestionVar, back.QuestionVar)
	assert.Len(t, back.DisplayStructure, 3)
	assert.Equal(t, "All Genders", back.DisplayStructure[2].Label)
}

func TestCategoriesByType(t *testing.T) {
	var qs []Question
	require.NoError(t, json.Unmarshal([]byte(legacyFile), &qs))

	single, err := qs[0].Categories()
	require.NoError(t, err)
	require.Len(t, single, 3)
	assert.Equal(t, Code{Name: "Male", Value: dataset.Num(1)}, single[0])
	net, ok := single[2].(CodeNet)
	require.True(t, ok)
	assert.True(t, net.Net())
	assert.Equal(t, []dataset.Value{dataset.Num(1), dataset.Num(2)}, net.Values)

	multi, err := qs[1].Categories()
	require.NoError(t, err)
	assert.Equal(t, MultiVar{Name: "Service A", Column: "S6r1"}, multi[0])
	assert.Equal(t, MultiNet{Name: "Any service", Columns: []string{"S6r1", "S6r2"}}, multi[2])
	assert.False(t, multi[0].Net())

	open := Question{QuestionType: OpenNumeric, DisplayStructure: DefaultDisplayStructure()}
	cats, err := open.Categories()
	require.NoError(t, err)
	assert.Nil(t, cats)
}

func TestCategoriesStringCodes(t *testing.T) {
	ds, err := ParseDisplayStructure(`[["code", "Yes", "Y"], ["net", "Any", ["Y", "N"]]]`)
	require.NoError(t, err)
	q := Question{QuestionType: Single, DisplayStructure: ds}
	cats, err := q.Categories()
	require.NoError(t, err)
	assert.Equal(t, Code{Name: "Yes", Value: dataset.Str("Y")}, cats[0])
}

func TestMalformedStructure(t *testing.T) {
	cases := map[string]string{
		"two elements":        `[["code", "Male"]]`,
		"not a list":          `{"code": 1}`,
		"label not a string":  `[["code", 1, 1]]`,
		"single net scalar":   `[["net", "Any", 1]]`,
		"null code":           `[["code", "Male", null]]`,
		"unknown kind":        `[["range", "Young", [1, 2]]]`,
		"object code payload": `[["code", "Male", {"v": 1}]]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			ds, err := ParseDisplayStructure(src)
			if err == nil {
				_, err = Question{QuestionType: Single, DisplayStructure: ds}.Categories()
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedStructure), "got %v", err)
		})
	}
}

func TestMultiPayloadMustBeColumns(t *testing.T) {
	ds, err := ParseDisplayStructure(`[["code", "Service A", 1]]`)
	require.NoError(t, err)
	_, err = Question{QuestionType: Multi, DisplayStructure: ds}.Categories()
	assert.ErrorIs(t, err, ErrMalformedStructure)
}

func TestValidate(t *testing.T) {
	valid := Question{
		ID:               1,
		QuestionVar:      Vars{"Q1"},
		QuestionText:     "Gender",
		DisplayStructure: DefaultDisplayStructure(),
		QuestionType:     Single,
		BaseFilter:       "vboost == 1",
	}
	require.NoError(t, Validate(valid))

	cases := []struct {
		name  string
		edit  func(q *Question)
		field string
		msg   string
	}{
		{"no variable", func(q *Question) { q.QuestionVar = nil }, "question_var", "at least 1"},
		{"blank variable", func(q *Question) { q.QuestionVar = Vars{""} }, "question_var[0]", "is required"},
		{"no text", func(q *Question) { q.QuestionText = "" }, "question_text", "is required"},
		{"bad type", func(q *Question) { q.QuestionType = "grid" }, "question_type", `got "grid"`},
		{"negative id", func(q *Question) { q.ID = -1 }, "id", ">= 0"},
		{"several variables", func(q *Question) { q.QuestionVar = Vars{"Q1", "Q2"} }, "question_var", "one variable for single"},
		{"several numeric variables", func(q *Question) {
			q.QuestionVar = Vars{"S2", "S3"}
			q.QuestionType = OpenNumeric
		}, "question_var", "got 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := valid
			tc.edit(&q)
			err := Validate(q)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Contains(t, ve.Error(), tc.msg)
		})
	}

	multi := valid
	multi.QuestionType = Multi
	multi.QuestionVar = Vars{"S6r1", "S6r2"}
	multi.DisplayStructure = DisplayStructure{{Kind: KindCode, Label: "News", Payload: json.RawMessage(`"S6r1"`)}}
	require.NoError(t, Validate(multi))

	bad := valid
	bad.BaseFilter = "vboost == "
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_filter")
}

func TestParseVars(t *testing.T) {
	assert.Equal(t, Vars{"S6r1", "S6r2"}, ParseVars(" S6r1, S6r2 ,"))
	assert.Equal(t, "S6r1,S6r2", ParseVars("S6r1,S6r2").String())
	assert.Nil(t, ParseVars(" "))
}
