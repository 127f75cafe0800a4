package usecase

import (
	"context"
	"errors"
	"fmt"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// MarkConversationReadInput identifies the reader and the partner whose
// messages the reader just opened.
type MarkConversationReadInput struct {
	ReaderID  string
	PartnerID string
}

// MarkConversationReadUseCase applies the bulk read-receipt transition, the
// only mutation a message record supports after creation.
type MarkConversationReadUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewMarkConversationReadUseCase(repo repository.MessageRepository, dir identityport.Directory) *MarkConversationReadUseCase {
	return &MarkConversationReadUseCase{Repo: repo, Directory: dir}
}

func (uc *MarkConversationReadUseCase) Execute(ctx context.Context, in MarkConversationReadInput) (int64, error) {
	if in.ReaderID == "" || in.PartnerID == "" {
		return 0, ErrMissingFields
	}
	reader, err := uc.Directory.Lookup(ctx, in.ReaderID)
	if errors.Is(err, identityport.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	marked, err := uc.Repo.MarkConversationRead(ctx, reader.SchoolID, reader.ID, in.PartnerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return marked, nil
}
