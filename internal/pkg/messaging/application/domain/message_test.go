package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(id, school string, role Role) Identity {
	return Identity{ID: id, Name: "u-" + id, SchoolID: school, Role: role}
}

func TestDeriveConversationType(t *testing.T) {
	tests := []struct {
		name string
		from Role
		to   Role
		want ConversationType
	}{
		{name: "teacher to parent", from: RoleTeacher, to: RoleParent, want: ConversationTeacherParent},
		{name: "parent to teacher", from: RoleParent, to: RoleTeacher, want: ConversationTeacherParent},
		{name: "teacher to student", from: RoleTeacher, to: RoleStudent, want: ConversationTeacherStudent},
		{name: "student to teacher", from: RoleStudent, to: RoleTeacher, want: ConversationTeacherStudent},
		{name: "student to student", from: RoleStudent, to: RoleStudent, want: ConversationTeacherStudent},
		{name: "admin to parent", from: RoleSchoolAdmin, to: RoleParent, want: ConversationTeacherStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveConversationType(tt.from, tt.to))
		})
	}
}

func TestNewTextMessage(t *testing.T) {
	teacher := ident("t1", "s1", RoleTeacher)
	parent := ident("p1", "s1", RoleParent)
	student := ident("st1", "s1", RoleStudent)

	t.Run("trims body", func(t *testing.T) {
		m, err := NewTextMessage(teacher, student, "  hello  ", "")
		require.NoError(t, err)
		assert.Equal(t, "hello", m.Body)
		assert.Equal(t, KindText, m.Kind)
		assert.Equal(t, ConversationTeacherStudent, m.ConversationType)
		assert.Nil(t, m.RelatedStudent)
		assert.False(t, m.IsRead)
	})

	t.Run("whitespace-only body rejected", func(t *testing.T) {
		_, err := NewTextMessage(teacher, student, "   \n\t ", "")
		assert.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("self-addressed rejected", func(t *testing.T) {
		_, err := NewTextMessage(teacher, teacher, "hi", "")
		assert.ErrorIs(t, err, ErrSelfAddressed)
	})

	t.Run("missing parties rejected", func(t *testing.T) {
		_, err := NewTextMessage(Identity{}, student, "hi", "")
		assert.ErrorIs(t, err, ErrMissingParties)
	})

	t.Run("related student kept for teacher_parent", func(t *testing.T) {
		m, err := NewTextMessage(teacher, parent, "about your kid", "st1")
		require.NoError(t, err)
		assert.Equal(t, ConversationTeacherParent, m.ConversationType)
		require.NotNil(t, m.RelatedStudent)
		assert.Equal(t, "st1", *m.RelatedStudent)
	})

	t.Run("related student dropped for teacher_student", func(t *testing.T) {
		m, err := NewTextMessage(teacher, student, "homework", "st1")
		require.NoError(t, err)
		assert.Nil(t, m.RelatedStudent)
	})

	t.Run("school comes from the sender", func(t *testing.T) {
		m, err := NewTextMessage(teacher, student, "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "s1", m.School)
	})
}

func TestNewTutorExchange(t *testing.T) {
	student := ident("st1", "s1", RoleStudent)

	t.Run("valid exchange is self-addressed", func(t *testing.T) {
		m, err := NewTutorExchange(student, "What is 2+2?", "Four!")
		require.NoError(t, err)
		assert.Equal(t, KindAIQuery, m.Kind)
		assert.Equal(t, m.Sender, m.Recipient)
		assert.Equal(t, "st1", m.Sender)
		assert.Equal(t, "What is 2+2?", m.Question)
		assert.Equal(t, "Four!", m.Answer)
		assert.Empty(t, m.Body)
	})

	t.Run("question containing separator rejected", func(t *testing.T) {
		_, err := NewTutorExchange(student, "What does \"Q:\n\nA: \" mean?", "an answer")
		assert.ErrorIs(t, err, ErrQuestionHasSep)
	})

	t.Run("empty question rejected", func(t *testing.T) {
		_, err := NewTutorExchange(student, "   ", "an answer")
		assert.ErrorIs(t, err, ErrEmptyExchange)
	})

	t.Run("empty answer rejected", func(t *testing.T) {
		_, err := NewTutorExchange(student, "why?", "")
		assert.ErrorIs(t, err, ErrEmptyExchange)
	})
}

func TestQARoundTrip(t *testing.T) {
	t.Run("format then parse", func(t *testing.T) {
		s := FormatQA("What is gravity?", "A force.\n\nIt pulls things down.")
		q, a := ParseQA(s)
		assert.Equal(t, "What is gravity?", q)
		assert.Equal(t, "A force.\n\nIt pulls things down.", a)
	})

	t.Run("no separator means answer-only", func(t *testing.T) {
		q, a := ParseQA("just some text")
		assert.Empty(t, q)
		assert.Equal(t, "just some text", a)
	})

	t.Run("composite format shape", func(t *testing.T) {
		assert.Equal(t, "Q: q\n\nA: a", FormatQA("q", "a"))
	})
}

func TestMessageContent(t *testing.T) {
	text := &Message{Kind: KindText, Body: "hello"}
	assert.Equal(t, "hello", text.Content())

	exchange := &Message{Kind: KindAIQuery, Question: "q", Answer: "a"}
	assert.Equal(t, "Q: q\n\nA: a", exchange.Content())
}
