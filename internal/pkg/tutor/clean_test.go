package tutor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Gravity pulls objects down.", want: "Gravity pulls objects down."},
		{name: "bold stripped", in: "This is **very** important", want: "This is very important"},
		{name: "italics stripped", in: "a *subtle* hint", want: "a subtle hint"},
		{name: "heading stripped", in: "## Photosynthesis\nPlants make food", want: "Photosynthesis Plants make food"},
		{name: "bullet list flattened", in: "- first\n- second", want: "first second"},
		{name: "numbered list flattened", in: "1. add\n2. subtract", want: "add subtract"},
		{name: "paren list flattened", in: "1) add 2) subtract", want: "add subtract"},
		{name: "unicode bullets flattened", in: "• one\n· two\n◦ three", want: "one two three"},
		{name: "code fences stripped", in: "use `fmt.Println` here", want: "use fmt.Println here"},
		{name: "backslashes stripped", in: "slope is rise\\run", want: "slope is riserun"},
		{name: "underscores stripped", in: "the water_cycle repeats", want: "the watercycle repeats"},
		{name: "double hyphen stripped", in: "wait--no", want: "waitno"},
		{name: "spaced hyphen collapses", in: "photosynthesis - the process", want: "photosynthesis the process"},
		{name: "whitespace runs collapse", in: "so   much\n\n\nspace", want: "so much space"},
		{name: "glued emoji dropped", in: "Great work!🎉", want: "Great work!"},
		{name: "spaced emoji kept", in: "Great work! 🎉", want: "Great work! 🎉"},
		{name: "leading and trailing space trimmed", in: "  answer  ", want: "answer"},
		{name: "empty input", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanAnswer(tt.in))
		})
	}
}

func TestCleanAnswerIdempotent(t *testing.T) {
	inputs := []string{
		"**Bold** and `code` with - lists\n1. one\n2. two 🎉🎉",
		"nested _under_score_ and --- hyphens",
		"a -🎮- b",
		"plain already-clean text",
	}
	for _, in := range inputs {
		once := CleanAnswer(in)
		assert.Equal(t, once, CleanAnswer(once), "input %q", in)
	}
}

func TestCleanAnswerLongEmojiRun(t *testing.T) {
	// The emoji rule roughly halves a glued run per pass; a run of thousands
	// still has to reach the fixed point.
	in := "wow" + strings.Repeat("🎉", 3000)
	got := CleanAnswer(in)
	assert.Equal(t, "wow", got)
	assert.Equal(t, got, CleanAnswer(got))
}
