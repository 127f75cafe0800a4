package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	repository "github.com/texura-githhubsource/SMS/internal/pkg/messaging/persistence/repository/port"
)

// SendDirectMessageInput carries a text message between two users of one school.
type SendDirectMessageInput struct {
	From           string
	To             string
	Content        string
	SchoolID       string
	RelatedStudent string
}

// SendDirectMessageResult is the persisted record plus the populated sender
// identity the recipient's client renders.
type SendDirectMessageResult struct {
	Message messaging.Message
	Sender  messaging.Identity
}

// SendDirectMessageUseCase validates, classifies and persists a direct message.
// Validation short-circuits in a fixed order: content, field presence, user
// existence, tenant isolation. The joined channel name is never trusted;
// identity and role come from the directory for every call.
type SendDirectMessageUseCase struct {
	Repo      repository.MessageRepository
	Directory identityport.Directory
}

func NewSendDirectMessageUseCase(repo repository.MessageRepository, dir identityport.Directory) *SendDirectMessageUseCase {
	return &SendDirectMessageUseCase{Repo: repo, Directory: dir}
}

func (uc *SendDirectMessageUseCase) Execute(ctx context.Context, in SendDirectMessageInput) (*SendDirectMessageResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrContentRequired
	}
	if in.From == "" || in.To == "" || in.SchoolID == "" {
		return nil, ErrMissingFields
	}

	sender, err := uc.lookup(ctx, in.From)
	if err != nil {
		return nil, err
	}
	recipient, err := uc.lookup(ctx, in.To)
	if err != nil {
		return nil, err
	}

	if sender.SchoolID != in.SchoolID || recipient.SchoolID != in.SchoolID {
		return nil, ErrSchoolMismatch
	}

	msg, err := messaging.NewTextMessage(*sender, *recipient, in.Content, in.RelatedStudent)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	return &SendDirectMessageResult{Message: *msg, Sender: *sender}, nil
}

func (uc *SendDirectMessageUseCase) lookup(ctx context.Context, userID string) (*messaging.Identity, error) {
	ident, err := uc.Directory.Lookup(ctx, userID)
	if errors.Is(err, identityport.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ident, nil
}
