package notebook

// Stage is a step of artifact retrieval. Stages only move forward.
type Stage string

const (
	StageStart        Stage = "start"
	StageNavigated    Stage = "navigated"
	StageMetadata     Stage = "metadata"
	StageLoaded       Stage = "loaded"
	StagePlayerReady  Stage = "player_ready"
	StageMenuOpened   Stage = "menu_opened"
	StageHrefObtained Stage = "href_obtained"
	StageFileWritten  Stage = "file_written"
)

// validTransitions defines allowed stage transitions.
// Loading is optional: metadata may go straight to player_ready.
var validTransitions = map[Stage][]Stage{
	StageStart:        {StageNavigated},
	StageNavigated:    {StageMetadata},
	StageMetadata:     {StageLoaded, StagePlayerReady},
	StageLoaded:       {StagePlayerReady},
	StagePlayerReady:  {StageMenuOpened},
	StageMenuOpened:   {StageHrefObtained},
	StageHrefObtained: {StageFileWritten},
	StageFileWritten:  {}, // terminal
}

// CanTransitionTo returns true if moving from s to target is valid.
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if s has no outgoing transitions.
func (s Stage) IsTerminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}
