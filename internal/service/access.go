package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
)

// requireProjectAccess is the shared precondition of every entity operation:
// the actor must be able to see the target project. Unknown projects are
// reported as forbidden as well, to avoid leaking their existence.
func requireProjectAccess(ctx context.Context, projects ProjectService, actor approval.Actor, projectID uuid.UUID) error {
	ok, err := projects.CanAccess(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return approval.ErrForbidden
	}
	return nil
}
