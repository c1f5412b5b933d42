package approval

import (
	"encoding/json"
	"fmt"
)

// Keys a patch may never touch: identity, tenancy, bookkeeping and the
// approval lifecycle columns themselves. Stripped at submit time and again
// before merging a stored overlay.
var protectedPatchKeys = map[string]struct{}{
	"id":              {},
	"organization_id": {},
	"created_by":      {},
	"created_at":      {},
	"updated_at":      {},
	"approval_status": {},
	"pending_data":    {},
	"submitted_by":    {},
	"request_message": {},
	"remarks":         {},
	"rejection_count": {},
}

// sanitizePatch parses a partial JSON object and drops protected keys plus
// any gate-specific extras (e.g. derived columns like a material's stock).
// Absent keys mean "no change requested for this field".
func sanitizePatch(patch []byte, extra map[string]struct{}) (map[string]json.RawMessage, error) {
	if len(patch) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, fmt.Errorf("invalid patch payload: %w", err)
	}
	for key := range fields {
		if _, protected := protectedPatchKeys[key]; protected {
			delete(fields, key)
			continue
		}
		if _, protected := extra[key]; protected {
			delete(fields, key)
		}
	}
	return fields, nil
}

// applyOverlay merges overlay keys into the entity's canonical fields:
// proposed value wins per key, untouched keys keep their canonical value.
// A JSON null clears nullable (pointer) fields and is a no-op for value
// fields, per encoding/json semantics.
func applyOverlay[T any](entity *T, overlay map[string]json.RawMessage) error {
	if len(overlay) == 0 {
		return nil
	}
	base, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to snapshot canonical fields: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return fmt.Errorf("failed to decode canonical snapshot: %w", err)
	}
	for key, value := range overlay {
		fields[key] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode merged fields: %w", err)
	}
	if err := json.Unmarshal(merged, entity); err != nil {
		return fmt.Errorf("failed to apply merged fields: %w", err)
	}
	return nil
}
