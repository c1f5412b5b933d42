package approval

import "errors"

var (
	// ErrNotFound — entity id missing or outside the caller's organization.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidState — decision attempted on an entity that is not pending.
	ErrInvalidState = errors.New("entity is not awaiting approval")

	// ErrForbidden — actor's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for this role")

	// ErrLocked — entity hit the rejection threshold; non-admins can no
	// longer submit edits or deletes against it.
	ErrLocked = errors.New("entity is locked after repeated rejections")
)
