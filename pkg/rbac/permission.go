// Package rbac evaluates feature capabilities for the current actor.
package rbac

import (
	"fmt"
	"strings"
)

// Action is one of the four CRUD capabilities of a feature.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// PermissionRecord holds the capability flags of one feature.
type PermissionRecord struct {
	FeatureKey string `json:"feature_key" db:"feature_key"`
	CanView    bool   `json:"can_view" db:"can_view"`
	CanCreate  bool   `json:"can_create" db:"can_create"`
	CanEdit    bool   `json:"can_edit" db:"can_edit"`
	CanDelete  bool   `json:"can_delete" db:"can_delete"`
}

// Allows reports whether the record grants action.
func (r PermissionRecord) Allows(action Action) bool {
	switch action {
	case ActionView:
		return r.CanView
	case ActionCreate:
		return r.CanCreate
	case ActionEdit:
		return r.CanEdit
	case ActionDelete:
		return r.CanDelete
	default:
		return false
	}
}

// Allows scans records for one matching featureKey whose action flag is set.
func Allows(records []PermissionRecord, featureKey string, action Action) bool {
	for _, r := range records {
		if r.FeatureKey == featureKey && r.Allows(action) {
			return true
		}
	}
	return false
}
