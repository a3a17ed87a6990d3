package runs

// validTransitions defines allowed item state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusQueued:      {StatusDownloading, StatusAdded, StatusFailed},
	StatusDownloading: {StatusDownloaded, StatusFailed},
	StatusDownloaded:  {StatusPublishing, StatusFailed},
	StatusPublishing:  {StatusPublished, StatusFailed},
	StatusPublished:   {}, // terminal
	StatusAdded:       {}, // terminal
	StatusFailed:      {}, // terminal, runs are never resumed
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an item in status s is finished. Downloaded
// items are finished only when the run does not publish.
func (s Status) IsTerminal(publishing bool) bool {
	switch s {
	case StatusPublished, StatusAdded, StatusFailed:
		return true
	case StatusDownloaded:
		return !publishing
	default:
		return false
	}
}
