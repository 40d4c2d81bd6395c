package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one split run across every record it emits.
	FieldRunID = "run_id"
	// FieldTrackIndex is the 1-based track number within a run.
	FieldTrackIndex = "track_index"
	// FieldTrackCount is the number of tracks in a run.
	FieldTrackCount = "track_count"
	// FieldEventType is a stable machine-readable name for a notable event.
	FieldEventType = "event_type"
	// FieldErrorKind is the failure class reported by failure.Kind.
	FieldErrorKind = "error_kind"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
