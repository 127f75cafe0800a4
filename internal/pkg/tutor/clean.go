package tutor

import (
	"regexp"
	"strings"
)

// Upstream models ignore the persona's formatting rules often enough that the
// raw answer needs scrubbing before it reaches a student: markdown emphasis,
// headings, list markers, code fences and backslashes are stripped, whitespace
// runs collapse to a single space, and an emoji glued to the preceding word is
// dropped. The transform is idempotent: cleaning already-clean text is a no-op.
var cleanSteps = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`\*{1,3}`), ""},
	{regexp.MustCompile(`#{1,6}\s?`), ""},
	{regexp.MustCompile(`-\s`), ""},
	{regexp.MustCompile(`\d\.\s`), ""},
	{regexp.MustCompile("`{1,3}"), ""},
	{regexp.MustCompile(`\\`), ""},
	{regexp.MustCompile(`_\s`), " "},
	{regexp.MustCompile(`_`), ""},
	{regexp.MustCompile(`--`), ""},
	{regexp.MustCompile(`\s-\s`), " "},
	{regexp.MustCompile(`\d+\)\s`), ""},
	{regexp.MustCompile(`[•·◦]\s`), ""},
	{regexp.MustCompile(`\s+`), " "},
	{regexp.MustCompile(`([^ ])[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]`), "$1"},
}

// CleanAnswer applies the fixed substitution sequence to a raw model answer.
// The sequence runs to a fixed point so that one substitution uncovering
// another (an emoji run, a reassembled double hyphen) cannot survive a pass.
// Every step either shrinks the text or leaves it unchanged, so the loop
// terminates.
func CleanAnswer(answer string) string {
	for {
		prev := answer
		for _, step := range cleanSteps {
			answer = step.re.ReplaceAllString(answer, step.with)
		}
		answer = strings.TrimSpace(answer)
		if answer == prev {
			return answer
		}
	}
}
