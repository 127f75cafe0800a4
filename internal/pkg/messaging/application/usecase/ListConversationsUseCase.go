package usecase

import (
	"context"
	"errors"
	"fmt"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsUseCase derives a user's conversation list, most recent
// thread first, with per-thread unread counts.
type ListConversationsUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewListConversationsUseCase(repo repository.MessageRepository, dir identityport.Directory) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Directory: dir}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID string) ([]messaging.ConversationSummary, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}
	user, err := uc.Directory.Lookup(ctx, userID)
	if errors.Is(err, identityport.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries, err := uc.Repo.ListConversationPartners(ctx, user.SchoolID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return summaries, nil
}
