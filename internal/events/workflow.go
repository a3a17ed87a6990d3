package events

// Entity types
const (
	EntityRun      = "run"
	EntitySource   = "source"
	EntityArtifact = "artifact"
	EntityEpisode  = "episode"
	EntityLog      = "log"
)

// Event type constants
const (
	EventRunStarted          = "run.started"
	EventRunCompleted        = "run.completed"
	EventSourceAdding        = "source.adding"
	EventSourceAdded         = "source.added"
	EventSourceFailed        = "source.failed"
	EventGenerationTriggered = "generation.triggered"
	EventRetrieveStage       = "retrieve.stage"
	EventArtifactDownloaded  = "artifact.downloaded"
	EventArtifactFailed      = "artifact.failed"
	EventPublishCompleted    = "publish.completed"
	EventPublishFailed       = "publish.failed"
	EventProgress            = "progress"
	EventLogRecord           = "log"
)

// RunStarted is emitted once per create or publish run.
type RunStarted struct {
	BaseEvent
	Kind  string `json:"kind"` // "create" or "publish"
	Total int    `json:"total"`
}

// RunCompleted is emitted when a run finishes, successful or not.
type RunCompleted struct {
	BaseEvent
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SourceAdding is emitted before a source URL is entered into the notebook.
type SourceAdding struct {
	BaseEvent
	Index  int    `json:"index"` // 0-based
	Total  int    `json:"total"`
	Kind   string `json:"kind"`   // "video" or "website"
	Action string `json:"action"` // "create" or "add"
}

// SourceAdded is emitted once the notebook finished loading a source.
type SourceAdded struct {
	BaseEvent
	Index int `json:"index"`
}

// SourceFailed is emitted when one source could not be added. The batch
// continues with the next URL.
type SourceFailed struct {
	BaseEvent
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// GenerationTriggered is emitted after the generate action was clicked.
type GenerationTriggered struct {
	BaseEvent
	Confirmed bool `json:"confirmed"` // button observed disabled afterwards
}

// RetrieveStage is emitted on each artifact retrieval stage change.
type RetrieveStage struct {
	BaseEvent
	Stage string `json:"stage"`
}

// ArtifactDownloaded is emitted when the audio file was written to disk.
type ArtifactDownloaded struct {
	BaseEvent
	Path  string `json:"path"`
	Size  int64  `json:"size_bytes"`
	Title string `json:"title"`
}

// ArtifactFailed is emitted when retrieval ended without a file.
type ArtifactFailed struct {
	BaseEvent
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// PublishCompleted is emitted when the publish button was clicked.
type PublishCompleted struct {
	BaseEvent
	Title string `json:"title"`
}

// PublishFailed is emitted when any wizard stage failed.
type PublishFailed struct {
	BaseEvent
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
