package inspection

// transitions is the forward lifecycle graph consulted when strict
// transitions are enabled. Archived is terminal.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {StatusValidated, StatusArchived},
	StatusValidated:  {StatusArchived},
	StatusArchived:   {},
}

// CanTransition reports whether the status change from -> to is allowed by
// the transition table. Setting the same status again is always a no-op and
// therefore allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
