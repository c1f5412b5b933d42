package approval

// Locked reports whether role may no longer submit edit/delete operations
// against the entity. Admins are never locked out; the threshold only blocks
// new submissions, never the resolution of an already-pending item.
func Locked(e Entity, role string) bool {
	return e.ApprovalState().LockedFor(role)
}
