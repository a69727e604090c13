package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `# [2026-02-05]
**Alice**
[panda] Old entry

# [2026-02-06]
**Alice**
[panda] Fix login bug
[panda] Fix login bug
- Write docs

**Bob**
[tiger] Review PR
# [2026-02-07]
[panda] Next day entry
`

func TestExtractDailySection_Found(t *testing.T) {
	section, ok := ExtractDailySection(sampleDocument, "2026-02-06")

	require.True(t, ok)
	assert.Contains(t, section, "Fix login bug")
	assert.Contains(t, section, "Review PR")
	assert.NotContains(t, section, "Old entry")
	assert.NotContains(t, section, "Next day entry")
}

func TestExtractDailySection_LastSectionRunsToEnd(t *testing.T) {
	section, ok := ExtractDailySection(sampleDocument, "2026-02-07")

	require.True(t, ok)
	assert.Contains(t, section, "Next day entry")
}

func TestExtractDailySection_NotFound(t *testing.T) {
	_, ok := ExtractDailySection(sampleDocument, "2026-02-08")
	assert.False(t, ok)
}

func TestExtractDailySection_EscapedBrackets(t *testing.T) {
	content := "# \\[2026-02-06\\]\n[panda] Escaped header entry\n# \\[2026-02-07\\]\nother\n"

	section, ok := ExtractDailySection(content, "2026-02-06")

	require.True(t, ok)
	assert.Contains(t, section, "Escaped header entry")
	assert.NotContains(t, section, "other")
}

func TestGroupEntries_CategoriesAndDeduplication(t *testing.T) {
	section := "[panda] Fix login bug\n[panda] Fix login bug\n- Write docs"

	entries := GroupEntries(section)

	// The untagged "- Write docs" stays in the active category set by the
	// preceding tag; the duplicate tagged line is dropped.
	assert.Equal(t, []string{"Panda"}, entries.Categories())
	assert.Equal(t, []string{"Fix login bug", "Write docs"}, entries.Get("Panda"))
}

func TestGroupEntries_DefaultCategory(t *testing.T) {
	entries := GroupEntries("- Write docs before any tag")

	assert.Equal(t, []string{"Others"}, entries.Categories())
	assert.Equal(t, []string{"Write docs before any tag"}, entries.Get("Others"))
}

func TestGroupEntries_CategoryPersistsAcrossLines(t *testing.T) {
	section := "[tiger] Review PR\n- Merge hotfix\n[panda] Fix login bug"

	entries := GroupEntries(section)

	assert.Equal(t, []string{"Tiger", "Panda"}, entries.Categories())
	assert.Equal(t, []string{"Review PR", "Merge hotfix"}, entries.Get("Tiger"))
	assert.Equal(t, []string{"Fix login bug"}, entries.Get("Panda"))
}

func TestGroupEntries_TagNormalization(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"Project", "Others"},
		{"PROJECT", "Others"},
		{"Others", "Others"},
		{"others", "Others"},
		{"panda", "Panda"},
		{"alreadyCapital", "AlreadyCapital"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			entries := GroupEntries("[" + tt.tag + "] Did something useful today")
			assert.Equal(t, []string{tt.want}, entries.Categories())
		})
	}
}

func TestGroupEntries_SkipsHeadings(t *testing.T) {
	section := "**Alice**\nStandup notes\n[panda] Fix login bug"

	entries := GroupEntries(section)

	// "Standup notes" is short, has no brackets/emphasis/hyphen: a sub-title.
	assert.Equal(t, []string{"Panda"}, entries.Categories())
	assert.Equal(t, []string{"Fix login bug"}, entries.Get("Panda"))
}

func TestGroupEntries_TagOnlyLineSwitchesCategoryWithoutEntry(t *testing.T) {
	section := "[panda]\n- Fix login bug"

	entries := GroupEntries(section)

	assert.Equal(t, []string{"Panda"}, entries.Categories())
	assert.Equal(t, []string{"Fix login bug"}, entries.Get("Panda"))
}

func TestGroupEntries_DropsBareProjectWord(t *testing.T) {
	section := "[panda] project\n[panda] Real work"

	entries := GroupEntries(section)

	assert.Equal(t, []string{"Real work"}, entries.Get("Panda"))
}

func TestGroupEntries_EscapedTags(t *testing.T) {
	section := "\\[panda\\] Fix login bug"

	entries := GroupEntries(section)

	assert.Equal(t, []string{"Panda"}, entries.Categories())
	assert.Equal(t, []string{"Fix login bug"}, entries.Get("Panda"))
}

func TestGroupEntries_StripsAllBracketGroups(t *testing.T) {
	section := "[panda] Fix [urgent] login bug"

	entries := GroupEntries(section)

	assert.Equal(t, []string{"Fix login bug"}, entries.Get("Panda"))
}

func TestCleanEntry(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"star bullet", "* Fix bug", "Fix bug"},
		{"dash bullet", "- Fix bug", "Fix bug"},
		{"plus bullet", "+ Fix bug", "Fix bug"},
		{"tag with colon", "[panda]: Fix bug", "Fix bug"},
		{"escaped tag", "\\[panda\\] Fix bug", "Fix bug"},
		{"tag only", "[panda]", ""},
		{"no changes", "Fix bug", "Fix bug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanEntry(tt.line))
		})
	}
}

func TestFormatMessage(t *testing.T) {
	entries := NewEntries()
	entries.Add("Panda", "Fix login bug")
	entries.Add("Panda", "Write docs & tests")
	entries.Add("Others", "Standup")

	msg := FormatMessage(entries, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "<b>Daily Report 6 February 2026</b>\n\n<b>Panda</b>\n- Fix login bug\n- Write docs &amp; tests\n\n<b>Others</b>\n- Standup\n\n", msg)
}

func TestBuildReport_FullPipeline(t *testing.T) {
	msg, err := BuildReport(sampleDocument, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Contains(t, msg, "<b>Daily Report 6 February 2026</b>")
	assert.Contains(t, msg, "<b>Panda</b>\n- Fix login bug\n- Write docs")
	assert.Contains(t, msg, "<b>Tiger</b>\n- Review PR")
}

func TestBuildReport_Idempotent(t *testing.T) {
	date := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)

	first, err := BuildReport(sampleDocument, date)
	require.NoError(t, err)
	second, err := BuildReport(sampleDocument, date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildReport_SectionNotFound(t *testing.T) {
	_, err := BuildReport(sampleDocument, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestBuildReport_EmptyReport(t *testing.T) {
	content := "# [2026-02-06]\n**Alice**\n\n# [2026-02-07]\n[panda] work\n"

	_, err := BuildReport(content, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrEmptyReport)
}
