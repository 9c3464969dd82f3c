package models

// Action is the kind of access being requested.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// AccessLevel is the graded result of resolving a user's authority over
// a resource. Levels are ordered; a higher level implies every
// capability of the levels below it.
//
// Owner is a pseudo-level meaning full control. It is never stored: it
// is derived from ownership or super-admin status.
type AccessLevel int

const (
	LevelNone AccessLevel = iota
	LevelViewer
	LevelEditor
	LevelAdmin
	LevelOwner
)

// String returns the role name reported to callers, matching the
// priority ordering Owner > Admin > Editor > Viewer.
func (l AccessLevel) String() string {
	switch l {
	case LevelViewer:
		return "viewer"
	case LevelEditor:
		return "editor"
	case LevelAdmin:
		return "admin"
	case LevelOwner:
		return "owner"
	}
	return "none"
}

// Allows reports whether the level satisfies the requested action.
func (l AccessLevel) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return l >= LevelViewer
	case ActionWrite:
		return l >= LevelEditor
	}
	return false
}

// CollaboratorLevel maps an explicit grant role onto the access ladder.
func CollaboratorLevel(role CollaboratorRole) AccessLevel {
	switch role {
	case CollaboratorAdmin:
		return LevelAdmin
	case CollaboratorEditor:
		return LevelEditor
	case CollaboratorViewer:
		return LevelViewer
	}
	return LevelNone
}

// MaxLevel returns the higher of two levels.
func MaxLevel(a, b AccessLevel) AccessLevel {
	if a > b {
		return a
	}
	return b
}

// PermissionReportItem is one row of the cross-resource "who can see
// what" aggregation. Role is the maximum by priority across all
// contributing sources; Sources is their union.
type PermissionReportItem struct {
	ResourceType    ResourceType `json:"resource_type"`
	ResourceID      string       `json:"resource_id"`
	ResourceName    string       `json:"resource_name"`
	EffectiveRole   string       `json:"effective_role"`
	Sources         []string     `json:"access_sources"`
	ParentID        *string      `json:"parent_id,omitempty"`
	IsExplicitShare bool         `json:"is_explicit_share"`
	ShareID         *string      `json:"share_id,omitempty"`
}
