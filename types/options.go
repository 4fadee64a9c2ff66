package types

// DefaultLimit is the page size used when ListOptions carries no limit.
const DefaultLimit = 100

// ListOptions configures pagination for List and Query.
type ListOptions struct {
	// Where applies an equality filter: a record matches iff, for every
	// key, the record value at that key strictly equals the filter value.
	// Only consulted by Query; List ignores it.
	Where map[string]any

	// Limit is the maximum number of records to return.
	// nil means DefaultLimit; negative values are treated as nil.
	Limit *int

	// Offset is the number of records to skip.
	// nil or negative values mean no offset.
	Offset *int
}

// NewListOptions returns empty options with an allocated filter map.
func NewListOptions() ListOptions {
	return ListOptions{Where: make(map[string]any)}
}

// EffectiveLimit resolves the limit default.
func (o ListOptions) EffectiveLimit() int {
	if o.Limit == nil || *o.Limit < 0 {
		return DefaultLimit
	}
	return *o.Limit
}

// EffectiveOffset resolves the offset default.
func (o ListOptions) EffectiveOffset() int {
	if o.Offset == nil || *o.Offset < 0 {
		return 0
	}
	return *o.Offset
}

// Limited returns options carrying an explicit limit.
func Limited(limit int) ListOptions {
	return ListOptions{Limit: &limit}
}

// Page is one slice of a collection listing.
type Page struct {
	Data   []Record `json:"data"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	// HasMore is true iff offset plus the returned count is below Total
	HasMore bool `json:"hasMore"`
}
