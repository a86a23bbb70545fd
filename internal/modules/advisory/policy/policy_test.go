package policy

import (
	"testing"

	"anoa.com/advisoryhub/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	t1, t2 := uuid.New(), uuid.New()
	admin := entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}

	owned := &entity.Advisory{ID: uuid.New(), StudentID: s1, TeacherID: t1}

	student1 := entity.Actor{ID: s1, Role: entity.RoleStudent}
	student2 := entity.Actor{ID: s2, Role: entity.RoleStudent}
	teacher1 := entity.Actor{ID: t1, Role: entity.RoleTeacher}
	teacher2 := entity.Actor{ID: t2, Role: entity.RoleTeacher}

	cases := []struct {
		name     string
		actor    entity.Actor
		advisory *entity.Advisory
		action   Action
		want     Decision
	}{
		{"admin create", admin, owned, ActionCreate, Allow},
		{"admin view", admin, owned, ActionView, Allow},
		{"admin edit", admin, owned, ActionEdit, Allow},
		{"admin delete", admin, owned, ActionDelete, Allow},
		{"admin without record", admin, nil, ActionDelete, Allow},

		{"student creates own", student1, owned, ActionCreate, Allow},
		{"student creates for other", student2, owned, ActionCreate, Deny},
		{"teacher creates", teacher1, owned, ActionCreate, Deny},

		{"owning student views", student1, owned, ActionView, Allow},
		{"other student views", student2, owned, ActionView, Deny},
		{"assigned teacher views", teacher1, owned, ActionView, Allow},
		{"unassigned teacher views", teacher2, owned, ActionView, Deny},

		{"owning student edits", student1, owned, ActionEdit, Allow},
		{"other student edits", student2, owned, ActionEdit, Deny},
		{"assigned teacher edits", teacher1, owned, ActionEdit, Allow},
		{"unassigned teacher edits", teacher2, owned, ActionEdit, Deny},

		{"owning student deletes", student1, owned, ActionDelete, Allow},
		{"other student deletes", student2, owned, ActionDelete, Deny},
		{"assigned teacher deletes", teacher1, owned, ActionDelete, Deny},

		{"no record", student1, nil, ActionView, Deny},
		{"unknown action", student1, owned, Action("archive"), Deny},
		{"unknown role", entity.Actor{ID: s1, Role: "guest"}, owned, ActionView, Deny},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.actor, tc.advisory, tc.action))
			assert.Equal(t, bool(tc.want), Allowed(tc.actor, tc.advisory, tc.action))
		})
	}
}

func TestTeacherWhoIsAlsoNamedAsStudentIDCannotView(t *testing.T) {
	// Role decides which column is compared, not the id alone.
	id := uuid.New()
	advisory := &entity.Advisory{StudentID: id, TeacherID: uuid.New()}
	assert.Equal(t, Deny, Decide(entity.Actor{ID: id, Role: entity.RoleTeacher}, advisory, ActionView))
}

func TestCancelAction(t *testing.T) {
	assert.Equal(t, ActionDelete, CancelAction(entity.RoleStudent))
	assert.Equal(t, ActionEdit, CancelAction(entity.RoleTeacher))
	assert.Equal(t, ActionEdit, CancelAction(entity.RoleAdmin))
}

func TestListScope(t *testing.T) {
	id := uuid.New()

	s := ListScope(entity.Actor{ID: id, Role: entity.RoleStudent})
	require.NotNil(t, s.StudentID)
	assert.Equal(t, id, *s.StudentID)
	assert.Nil(t, s.TeacherID)

	s = ListScope(entity.Actor{ID: id, Role: entity.RoleTeacher})
	require.NotNil(t, s.TeacherID)
	assert.Equal(t, id, *s.TeacherID)
	assert.Nil(t, s.StudentID)

	assert.True(t, ListScope(entity.Actor{ID: id, Role: entity.RoleAdmin}).Unrestricted())

	s = ListScope(entity.Actor{ID: id, Role: "guest"})
	assert.False(t, s.Unrestricted())
	assert.Equal(t, uuid.Nil, *s.StudentID)
}
