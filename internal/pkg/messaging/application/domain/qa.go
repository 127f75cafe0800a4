package messaging

import "strings"

// Legacy wire format for a stored tutoring exchange: "Q: <question>\n\nA: <answer>".
// The store keeps question and answer as separate fields; this format survives
// only for export and for clients that still render the composite string.
// The separator must never appear inside a question (guarded at validation).
const (
	QASeparator    = "\n\nA: "
	questionPrefix = "Q: "
)

// FormatQA renders a question/answer pair in the legacy composite format.
func FormatQA(question, answer string) string {
	return questionPrefix + question + QASeparator + answer
}

// ParseQA splits a legacy composite string back into its question and answer.
// A string without the separator is treated as an answer-only record, matching
// how historical data was read.
func ParseQA(content string) (question, answer string) {
	q, a, found := strings.Cut(content, QASeparator)
	if !found {
		return "", content
	}
	return strings.TrimPrefix(q, questionPrefix), a
}
