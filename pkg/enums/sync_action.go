package enums

import "fmt"

// SyncAction is the verb carried by every sync submission.
type SyncAction string

const (
	SyncActionCreate SyncAction = "CREATE"
	SyncActionUpdate SyncAction = "UPDATE"
	SyncActionDelete SyncAction = "DELETE"
)

var validSyncActions = []SyncAction{
	SyncActionCreate,
	SyncActionUpdate,
	SyncActionDelete,
}

// String implements fmt.Stringer.
func (s SyncAction) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SyncAction.
func (s SyncAction) IsValid() bool {
	for _, candidate := range validSyncActions {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsUpsert reports whether the action maps to the insert-or-update path.
func (s SyncAction) IsUpsert() bool {
	return s == SyncActionCreate || s == SyncActionUpdate
}

// ParseSyncAction converts raw input into a SyncAction.
func ParseSyncAction(value string) (SyncAction, error) {
	for _, candidate := range validSyncActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync action %q", value)
}
