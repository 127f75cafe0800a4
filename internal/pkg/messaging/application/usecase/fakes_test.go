package usecase

import (
	"context"
	"fmt"

	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
	"github.com/texura-githhubsource/SMS/internal/pkg/tutor/provider"
)

type fakeDirectory struct {
	users map[string]messaging.Identity
	rooms map[string]messaging.Classroom
	err   error
}

func (d *fakeDirectory) Lookup(ctx context.Context, userID string) (*messaging.Identity, error) {
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[userID]
	if !ok {
		return nil, identityport.ErrNotFound
	}
	return &u, nil
}

func (d *fakeDirectory) LookupClassroom(ctx context.Context, classroomID string) (*messaging.Classroom, error) {
	r, ok := d.rooms[classroomID]
	if !ok {
		return nil, identityport.ErrNotFound
	}
	return &r, nil
}

type fakeRepo struct {
	saved        []messaging.Message
	saveErr      error
	tutorContext []messaging.Message
	tutorHistory []messaging.Message
	conversation []messaging.Message
	summaries    []messaging.ConversationSummary
	cleared      int64
	marked       int64
	notified     []messaging.OfflineNotification

	// recorded call arguments
	lastSchoolID string
	lastLimit    int
}

func (r *fakeRepo) SaveMessage(ctx context.Context, m messaging.Message) (string, error) {
	if r.saveErr != nil {
		return "", r.saveErr
	}
	id := fmt.Sprintf("msg-%d", len(r.saved)+1)
	m.ID = id
	r.saved = append(r.saved, m)
	return id, nil
}

func (r *fakeRepo) GetConversation(ctx context.Context, schoolID, userID, partnerID string, limit, offset int) ([]messaging.Message, error) {
	r.lastSchoolID = schoolID
	r.lastLimit = limit
	return r.conversation, nil
}

func (r *fakeRepo) GetTutorContext(ctx context.Context, schoolID, studentID string, limit int) ([]messaging.Message, error) {
	r.lastSchoolID = schoolID
	r.lastLimit = limit
	return r.tutorContext, nil
}

func (r *fakeRepo) GetTutorHistory(ctx context.Context, schoolID, studentID string, limit, offset int) ([]messaging.Message, error) {
	r.lastSchoolID = schoolID
	r.lastLimit = limit
	return r.tutorHistory, nil
}

func (r *fakeRepo) ClearTutorHistory(ctx context.Context, schoolID, studentID string) (int64, error) {
	r.lastSchoolID = schoolID
	return r.cleared, nil
}

func (r *fakeRepo) MarkConversationRead(ctx context.Context, schoolID, readerID, partnerID string) (int64, error) {
	r.lastSchoolID = schoolID
	return r.marked, nil
}

func (r *fakeRepo) ListConversationPartners(ctx context.Context, schoolID, userID string) ([]messaging.ConversationSummary, error) {
	r.lastSchoolID = schoolID
	return r.summaries, nil
}

func (r *fakeRepo) SaveOfflineNotification(ctx context.Context, n messaging.OfflineNotification) error {
	r.notified = append(r.notified, n)
	return nil
}

type fakeTutorProvider struct {
	result  provider.Result
	lastReq provider.Request
	calls   int
}

func (p *fakeTutorProvider) Ask(ctx context.Context, req provider.Request) provider.Result {
	p.calls++
	p.lastReq = req
	return p.result
}
