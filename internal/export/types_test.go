package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPathAndDepth(t *testing.T) {
	cases := []struct {
		in    string
		path  string
		depth int
	}{
		{"index.html", "index.html", 0},
		{"/about/index.html", "about/index.html", 1},
		{"fr\\about\\index.html", "fr/about/index.html", 2},
		{"../../etc/passwd", "etc/passwd", 1},
	}
	for _, tc := range cases {
		f := TextFile(tc.in, "")
		assert.Equal(t, tc.path, f.Path, tc.in)
		assert.Equal(t, tc.depth, f.Depth(), tc.in)
	}
}

func TestRelativePrefix(t *testing.T) {
	assert.Equal(t, "", RelativePrefix(0))
	assert.Equal(t, "../", RelativePrefix(1))
	assert.Equal(t, "../../", RelativePrefix(2))
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, TargetStatic, ParseTarget(" Static "))
	assert.Equal(t, TargetProject, ParseTarget("react"))
	assert.Equal(t, Target(""), ParseTarget("pdf"))
}

func TestProfileApplyCallerWins(t *testing.T) {
	off := false
	q := 250
	w := 800
	p := DefaultProfile().Apply(&ProfileOverride{Enabled: &off, Quality: &q, MaxWidth: &w})

	assert.False(t, p.Enabled)
	assert.Equal(t, 80, p.Quality, "out-of-range quality is clamped")
	assert.Equal(t, 800, p.MaxWidth)
	assert.Equal(t, 1920, p.MaxHeight)
	assert.Equal(t, DefaultProfile(), DefaultProfile().Apply(nil))
}

func TestProgressEmitNilAndPanic(t *testing.T) {
	var fn ProgressFunc
	assert.NotPanics(t, func() { fn.Emit(Progress{Phase: PhaseGenerating}) })

	var got []Phase
	fn = func(p Progress) {
		got = append(got, p.Phase)
		panic("listener")
	}
	assert.NotPanics(t, func() { fn.Emit(Progress{Phase: PhaseComplete}) })
	assert.Equal(t, []Phase{PhaseComplete}, got)
}

func TestReportJSON(t *testing.T) {
	r := NewReport("abc", TargetStatic)
	r.AddIssue(IssueBrokenLink, StageVerifyLinks, SeverityWarning, "index.html", "missing /nope/")
	r.Finish(nil)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "abc", decoded["export_id"])
	assert.Equal(t, "warning", decoded["outcome"])
	assert.EqualValues(t, 1, decoded["schema_version"])
	issues, ok := decoded["issues"].([]any)
	require.True(t, ok)
	assert.Len(t, issues, 1)
}
