package usecase

import (
	"context"
	"errors"
	"fmt"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// ClearTutorHistoryUseCase deletes every stored exchange for a student, the
// only bulk delete the conversation store supports.
type ClearTutorHistoryUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewClearTutorHistoryUseCase(repo repository.MessageRepository, dir identityport.Directory) *ClearTutorHistoryUseCase {
	return &ClearTutorHistoryUseCase{Repo: repo, Directory: dir}
}

// Execute removes the student's ai-query records and reports how many.
func (uc *ClearTutorHistoryUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrMissingFields
	}
	student, err := uc.Directory.Lookup(ctx, userID)
	if errors.Is(err, identityport.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	removed, err := uc.Repo.ClearTutorHistory(ctx, student.SchoolID, student.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return removed, nil
}
