package port

import (
	"context"
	"errors"

	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
)

// ErrNotFound signals that an id resolved to no known identity or classroom.
var ErrNotFound = errors.New("identity: not found")

// Directory resolves user ids to identities and classroom ids to classrooms.
// The messaging core only ever reads identities; account CRUD lives elsewhere
// in the platform. Implementations must be safe for concurrent use.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*messaging.Identity, error)
	LookupClassroom(ctx context.Context, classroomID string) (*messaging.Classroom, error)
}
