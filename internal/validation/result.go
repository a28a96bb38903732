package validation

// Result maps field names to the violation messages collected for them.
// An empty Result means the request is valid. Validators never stop at the
// first failure; every check runs and every violation is recorded.
type Result map[string][]string

// Add records a single violation for a field.
func (r Result) Add(field, message string) {
	r[field] = append(r[field], message)
}

// AddAll records a batch of violations for a field.
func (r Result) AddAll(field string, messages []string) {
	if len(messages) == 0 {
		return
	}
	r[field] = append(r[field], messages...)
}

// Valid reports whether no violations were collected.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Fields returns the result as a plain map for error payloads.
func (r Result) Fields() map[string]any {
	out := make(map[string]any, len(r))
	for field, messages := range r {
		out[field] = messages
	}
	return out
}
