package usecase

import (
	"context"
	"errors"
	"fmt"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// GetConversationInput pages through the text thread between two users.
type GetConversationInput struct {
	UserID    string
	PartnerID string
	Limit     int
	Offset    int
}

// GetConversationUseCase fetches a conversation pair's messages, newest first.
// Both parties must resolve and share a school; the school filter on the query
// comes from the resolved identities.
type GetConversationUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewGetConversationUseCase(repo repository.MessageRepository, dir identityport.Directory) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo, Directory: dir}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) ([]messaging.Message, error) {
	if in.UserID == "" || in.PartnerID == "" {
		return nil, ErrMissingFields
	}

	user, err := uc.resolve(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	partner, err := uc.resolve(ctx, in.PartnerID)
	if err != nil {
		return nil, err
	}
	if user.SchoolID != partner.SchoolID {
		return nil, ErrSchoolMismatch
	}

	msgs, err := uc.Repo.GetConversation(ctx, user.SchoolID, user.ID, partner.ID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}

func (uc *GetConversationUseCase) resolve(ctx context.Context, userID string) (*messaging.Identity, error) {
	ident, err := uc.Directory.Lookup(ctx, userID)
	if errors.Is(err, identityport.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ident, nil
}
