package syncer

// SyncAction describes what happened to one target during a pass.
type SyncAction string

const (
	// ActionCreated means the target file did not exist and was written.
	ActionCreated SyncAction = "created"

	// ActionUpdated means an existing target file was rewritten.
	ActionUpdated SyncAction = "updated"

	// ActionSkipped means the target was intentionally left alone,
	// e.g. because it is the sync source itself.
	ActionSkipped SyncAction = "skipped"

	// ActionFailed means the target could not be written.
	ActionFailed SyncAction = "failed"

	// ActionCancelled means the operator declined a destructive sync;
	// no target was written.
	ActionCancelled SyncAction = "cancelled"
)

// SyncResult is the per-target outcome of one synchronization pass.
type SyncResult struct {
	// Success is true for created, updated, and skipped targets.
	Success bool

	// Action describes what happened.
	Action SyncAction

	// Path is the target's config file path.
	Path string

	// Format is the label of the dialect the target was written in.
	Format string

	// Size is the byte size of the written file. Zero when nothing was written.
	Size int

	// Err holds the failure cause for failed targets.
	Err error
}

// Validation reasons for targets that are not in sync.
const (
	// ReasonMissing means the target file does not exist.
	ReasonMissing = "missing"

	// ReasonParseError means the target file exists but is not valid JSON.
	ReasonParseError = "parse_error"

	// ReasonMismatch means the target's extracted config differs from the
	// reference.
	ReasonMismatch = "mismatch"

	// ReasonFormatSkip means the reference carries no server set that the
	// target's dialect could be compared against; the target counts as in
	// sync.
	ReasonFormatSkip = "format_mismatch_skip"
)

// ValidationResult is the per-target outcome of a validation pass.
type ValidationResult struct {
	// InSync is true when the target's extracted config matches the reference.
	InSync bool

	// Reason explains why the target is out of sync, or why the comparison
	// was skipped.
	Reason string

	// MismatchedKeys lists the dotted key paths that differ, each suffixed
	// with "(missing)" or "(value mismatch)".
	MismatchedKeys []string

	// Format is the label of the dialect detected in the target file.
	Format string
}

// DestructiveChange reports a target that would lose server entries if the
// canonical config were written to it.
type DestructiveChange struct {
	// App is the target application's name.
	App string

	// ExistingServers are the server names currently in the target's file.
	ExistingServers []string

	// LostServers are the server names that would be removed.
	LostServers []string

	// RemainingServers are the server names the target will carry after the
	// sync, i.e. the full canonical server set.
	RemainingServers []string
}
