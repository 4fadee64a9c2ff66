package types

import "time"

// System-managed record attributes. These are assigned by the store and
// cannot be changed through the update path.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// IsSystemField reports whether a field name is store-managed.
func IsSystemField(name string) bool {
	return name == FieldID || name == FieldCreatedAt || name == FieldUpdatedAt
}

// Record is one stored item: the system attributes plus user fields.
// Declared optional fields that were absent at creation are present with an
// explicit nil value, so a full field set can be relied on after create.
type Record map[string]any

// ID returns the record identifier, or "" when unset.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// CreatedAt returns the creation timestamp, or the zero time when unset.
func (r Record) CreatedAt() time.Time {
	t, _ := r[FieldCreatedAt].(time.Time)
	return t
}

// UpdatedAt returns the last-update timestamp, or the zero time when unset.
func (r Record) UpdatedAt() time.Time {
	t, _ := r[FieldUpdatedAt].(time.Time)
	return t
}

// Clone returns a deep copy of the record. Stores hand out clones so caller
// mutation can never reach internal state.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Record:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		// Scalars (and time.Time) are value types already
		return v
	}
}
