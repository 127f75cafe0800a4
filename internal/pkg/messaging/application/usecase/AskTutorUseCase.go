package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/tutor"
	"github.com/texura-githhubsource/SMS/internal/pkg/tutor/provider"
)

// ContextWindow caps how many prior exchanges are replayed to the provider.
// Each stored record expands to one user turn and one assistant turn; beyond
// the cap there is no summarization or truncation.
const ContextWindow = 30

// TutorProvider is the total adapter contract: it always yields an answer.
type TutorProvider interface {
	Ask(ctx context.Context, req provider.Request) provider.Result
}

// AskTutorInput is a free-text question from a student. OnThinking, when set,
// is invoked with true right before the provider call and false right after,
// bracketing only the upstream wait.
type AskTutorInput struct {
	UserID     string
	Question   string
	OnThinking func(thinking bool)
}

type AskTutorResult struct {
	Message      messaging.Message
	Question     string
	Answer       string
	GradeLevel   string
	UsedFallback bool
	ProviderUsed string
	Timestamp    time.Time
}

// AskTutorUseCase reconstructs a student's prior exchanges as conversation
// context, obtains an answer through the provider chain, cleans it and
// persists the new exchange. Nothing is persisted when any step fails.
//
// The context is read before the new turn is persisted and there is no
// per-student serialization, so a concurrent second question can see a
// context missing a just-in-flight answer. Accepted: one turn behind at worst.
type AskTutorUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
	Provider  TutorProvider
}

func NewAskTutorUseCase(repo repository.MessageRepository, dir identityport.Directory, p TutorProvider) *AskTutorUseCase {
	return &AskTutorUseCase{Repo: repo, Directory: dir, Provider: p}
}

func (uc *AskTutorUseCase) Execute(ctx context.Context, in AskTutorInput) (*AskTutorResult, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrQuestionRequired
	}
	if strings.Contains(question, messaging.QASeparator) {
		return nil, ErrQuestionFormat
	}

	student, err := uc.Directory.Lookup(ctx, in.UserID)
	if errors.Is(err, identityport.ErrNotFound) {
		return nil, ErrNotStudent
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if student.Role != messaging.RoleStudent {
		return nil, ErrNotStudent
	}

	// Grade and name resolution never fails the request.
	gradeLevel := "your grade"
	if student.ClassroomID != "" {
		if room, err := uc.Directory.LookupClassroom(ctx, student.ClassroomID); err == nil && room.Grade != "" {
			gradeLevel = room.Grade
		}
	}
	studentName := student.Name
	if studentName == "" {
		studentName = "Student"
	}

	history, err := uc.Repo.GetTutorContext(ctx, student.SchoolID, student.ID, ContextWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	turns := make([]provider.Turn, 0, 2*len(history))
	for _, m := range history {
		turns = append(turns,
			provider.Turn{Role: "user", Content: m.Question},
			provider.Turn{Role: "assistant", Content: m.Answer},
		)
	}

	onThinking := in.OnThinking
	if onThinking == nil {
		onThinking = func(bool) {}
	}

	onThinking(true)
	res := uc.Provider.Ask(ctx, provider.Request{
		SystemPrompt: tutor.PersonaPrompt(studentName, gradeLevel),
		History:      turns,
		Question:     question,
		StudentName:  studentName,
		GradeLevel:   gradeLevel,
	})
	onThinking(false)

	answer := res.Answer
	if !res.UsedFallback {
		answer = tutor.CleanAnswer(answer)
	}

	msg, err := messaging.NewTutorExchange(*student, question, answer)
	if err != nil {
		return nil, err
	}
	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	return &AskTutorResult{
		Message:      *msg,
		Question:     question,
		Answer:       answer,
		GradeLevel:   gradeLevel,
		UsedFallback: res.UsedFallback,
		ProviderUsed: res.ProviderUsed,
		Timestamp:    msg.CreatedAt,
	}, nil
}
