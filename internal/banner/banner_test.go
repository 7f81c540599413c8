package banner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	segs := Defaults()
	require.Len(t, segs, 6)
	require.NoError(t, Validate(segs))

	assert.Equal(t, "A (Total)", segs[0].Header())
	assert.Empty(t, segs[0].Condition)
	assert.Equal(t, "hGender == 2 and vboost == 1", segs[5].Condition)
	assert.Contains(t, segs[3].Condition, "S6r1 == 1 or S6r2 == 1")
	assert.Contains(t, segs[3].Condition, "or S6r9 == 1")
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "banners.yaml")
	src := `segments:
  - id: A
    label: Total
  - id: Y
    label: Young
    condition: age_band == 1 or age_band == 2
`
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))

	segs, err := LoadFile(p)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, Segment{ID: "Y", Label: "Young", Condition: "age_band == 1 or age_band == 2"}, segs[1])

	segs, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), segs)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]struct {
		segs []Segment
		msg  string
	}{
		"empty":     {nil, "no banner segments"},
		"no id":     {[]Segment{{Label: "Total"}}, "id is required"},
		"duplicate": {[]Segment{{ID: "A", Label: "x"}, {ID: "A", Label: "y"}}, `duplicate id "A"`},
		"no label":  {[]Segment{{ID: "A"}}, "label is required"},
		"bad cond":  {[]Segment{{ID: "A", Label: "x", Condition: "a =="}}, "segment A: condition"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(tc.segs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read banners")

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("segments: [\n"), 0o644))
	_, err = LoadFile(p)
	assert.ErrorContains(t, err, "parse banners")
}

func TestWriteFileRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "banners.yaml")
	require.NoError(t, WriteFile(p, Defaults()))
	segs, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), segs)

	assert.Error(t, WriteFile(p, nil))
}
