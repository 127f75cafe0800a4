package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// GetTutorHistoryInput pages through a student's tutoring sessions.
type GetTutorHistoryInput struct {
	UserID string
	Limit  int
	Offset int
}

// TutorSession is one past exchange as the history endpoint presents it.
type TutorSession struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// GetTutorHistoryUseCase returns a student's tutoring sessions, newest first.
// The school scope comes from the resolved identity, never from the caller.
type GetTutorHistoryUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewGetTutorHistoryUseCase(repo repository.MessageRepository, dir identityport.Directory) *GetTutorHistoryUseCase {
	return &GetTutorHistoryUseCase{Repo: repo, Directory: dir}
}

func (uc *GetTutorHistoryUseCase) Execute(ctx context.Context, in GetTutorHistoryInput) ([]TutorSession, error) {
	if in.UserID == "" {
		return nil, ErrMissingFields
	}
	student, err := uc.Directory.Lookup(ctx, in.UserID)
	if errors.Is(err, identityport.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}
	msgs, err := uc.Repo.GetTutorHistory(ctx, student.SchoolID, student.ID, limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	sessions := make([]TutorSession, 0, len(msgs))
	for _, m := range msgs {
		sessions = append(sessions, toSession(m))
	}
	return sessions, nil
}

func toSession(m messaging.Message) TutorSession {
	return TutorSession{
		ID:        m.ID,
		Question:  m.Question,
		Answer:    m.Answer,
		Timestamp: m.CreatedAt,
	}
}
