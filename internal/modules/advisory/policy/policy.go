// Package policy decides which advisory actions an actor may perform.
// Every role-conditioned decision in the advisory flow goes through this package;
// it performs no I/O.
package policy

import (
	"anoa.com/advisoryhub/internal/entity"
	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Decide evaluates the rules in priority order; the first match wins.
// For ActionCreate, advisory is the record about to be created.
func Decide(actor entity.Actor, advisory *entity.Advisory, action Action) Decision {
	if actor.IsAdmin() {
		return Allow
	}
	if advisory == nil || actor.ID == uuid.Nil {
		return Deny
	}

	switch action {
	case ActionCreate:
		if actor.Role == entity.RoleStudent && advisory.StudentID == actor.ID {
			return Allow
		}
	case ActionView, ActionEdit:
		if isParticipant(actor, advisory) {
			return Allow
		}
	case ActionDelete:
		if actor.Role == entity.RoleStudent && advisory.StudentID == actor.ID {
			return Allow
		}
	}
	return Deny
}

// Allowed is Decide as a bool.
func Allowed(actor entity.Actor, advisory *entity.Advisory, action Action) bool {
	return bool(Decide(actor, advisory, action))
}

// CancelAction is the action a cancellation is authorized against:
// students cancel with delete rights, everyone else with edit rights.
func CancelAction(role entity.Role) Action {
	if role == entity.RoleStudent {
		return ActionDelete
	}
	return ActionEdit
}

func isParticipant(actor entity.Actor, advisory *entity.Advisory) bool {
	switch actor.Role {
	case entity.RoleTeacher:
		return advisory.TeacherID == actor.ID
	case entity.RoleStudent:
		return advisory.StudentID == actor.ID
	}
	return false
}

// Scope narrows listings to the advisories an actor may see.
// A nil field means no restriction on that column.
type Scope struct {
	StudentID *uuid.UUID
	TeacherID *uuid.UUID
}

// Unrestricted reports whether the scope covers every advisory.
func (s Scope) Unrestricted() bool {
	return s.StudentID == nil && s.TeacherID == nil
}

// ListScope returns the listing scope for an actor. An unknown role gets a scope
// that matches nothing.
func ListScope(actor entity.Actor) Scope {
	id := actor.ID
	switch actor.Role {
	case entity.RoleAdmin:
		return Scope{}
	case entity.RoleTeacher:
		return Scope{TeacherID: &id}
	case entity.RoleStudent:
		return Scope{StudentID: &id}
	}
	nobody := uuid.Nil
	return Scope{StudentID: &nobody, TeacherID: &nobody}
}
