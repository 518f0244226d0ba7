package domain

import "time"

// DocumentLoadedEvent is emitted after a load attempt changed session state,
// including failed extractions.
type DocumentLoadedEvent struct {
	SessionID string         `json:"session_id"`
	SourceID  string         `json:"source_id"`
	Version   uint64         `json:"version"`
	Status    DocumentStatus `json:"status"`
	Mode      ExtractionMode `json:"extraction_mode"`
	At        time.Time      `json:"at"`
}

// FeatureCompletedEvent is emitted after a feature run settled into a result
// slot. Stale runs discarded by the version guard do not produce events.
type FeatureCompletedEvent struct {
	SessionID string        `json:"session_id"`
	Feature   FeatureID     `json:"feature_id"`
	Status    FeatureStatus `json:"status"`
	Version   uint64        `json:"version"`
	At        time.Time     `json:"at"`
}
