package messaging

import (
	"errors"
	"strings"
	"time"
)

// Kind discriminates how a message record's content is structured.
type Kind string

const (
	KindText    Kind = "text"
	KindAIQuery Kind = "ai-query"
)

// ConversationType labels which kind of thread a text message belongs to.
type ConversationType string

const (
	ConversationTeacherStudent ConversationType = "teacher_student"
	ConversationTeacherParent  ConversationType = "teacher_parent"
)

// Domain-level errors for message construction
var (
	ErrEmptyBody      = errors.New("messaging: message body is empty")
	ErrMissingParties = errors.New("messaging: sender, recipient and school are required")
	ErrSelfAddressed  = errors.New("messaging: text messages require distinct sender and recipient")
	ErrQuestionHasSep = errors.New("messaging: question contains the reserved answer separator")
	ErrEmptyExchange  = errors.New("messaging: question and answer are required")
)

// Message is an immutable log entry in the conversation store. Only the
// read-receipt fields (IsRead/ReadAt) change after creation.
//
// For KindText, Body holds the trimmed message and Sender != Recipient.
// For KindAIQuery, Question/Answer hold the tutoring exchange and
// Sender == Recipient == the asking student (the storage convention for
// self-addressed tutor turns). Every record is scoped to exactly one school.
type Message struct {
	ID               string           `db:"id"`
	Sender           string           `db:"sender_id"`
	Recipient        string           `db:"recipient_id"`
	School           string           `db:"school_id"`
	Kind             Kind             `db:"kind"`
	Body             string           `db:"body"`
	Question         string           `db:"question"`
	Answer           string           `db:"answer"`
	ConversationType ConversationType `db:"conversation_type"`
	RelatedStudent   *string          `db:"related_student"`
	IsRead           bool             `db:"is_read"`
	ReadAt           *time.Time       `db:"read_at"`
	CreatedAt        time.Time        `db:"created_at"`
}

// DeriveConversationType classifies a text thread from the two parties' roles.
// Only the teacher/parent pairing is distinguished; every other pairing is
// labeled teacher_student. The default is intentional: it mirrors the platform
// contact rules, which only ever put teachers in front of students or parents.
func DeriveConversationType(from, to Role) ConversationType {
	if (from == RoleTeacher && to == RoleParent) || (from == RoleParent && to == RoleTeacher) {
		return ConversationTeacherParent
	}
	return ConversationTeacherStudent
}

// NewTextMessage validates and shapes a direct message between two users.
// relatedStudent is kept only for teacher_parent threads, where it identifies
// which student the thread concerns.
func NewTextMessage(sender, recipient Identity, body string, relatedStudent string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if sender.ID == "" || recipient.ID == "" || sender.SchoolID == "" {
		return nil, ErrMissingParties
	}
	if sender.ID == recipient.ID {
		return nil, ErrSelfAddressed
	}

	m := &Message{
		Sender:           sender.ID,
		Recipient:        recipient.ID,
		School:           sender.SchoolID,
		Kind:             KindText,
		Body:             body,
		ConversationType: DeriveConversationType(sender.Role, recipient.Role),
		CreatedAt:        time.Now().UTC(),
	}
	if m.ConversationType == ConversationTeacherParent && relatedStudent != "" {
		m.RelatedStudent = &relatedStudent
	}
	return m, nil
}

// NewTutorExchange shapes one persisted Q/A turn for a student.
// The record is self-addressed: sender and recipient are both the student.
func NewTutorExchange(student Identity, question, answer string) (*Message, error) {
	question = strings.TrimSpace(question)
	if question == "" || answer == "" {
		return nil, ErrEmptyExchange
	}
	if strings.Contains(question, QASeparator) {
		return nil, ErrQuestionHasSep
	}
	if student.ID == "" || student.SchoolID == "" {
		return nil, ErrMissingParties
	}
	return &Message{
		Sender:    student.ID,
		Recipient: student.ID,
		School:    student.SchoolID,
		Kind:      KindAIQuery,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Content renders the record the way clients consume it: the raw body for text
// messages, the legacy composite Q/A string for tutor exchanges.
func (m *Message) Content() string {
	if m.Kind == KindAIQuery {
		return FormatQA(m.Question, m.Answer)
	}
	return m.Body
}
