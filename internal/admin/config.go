// Package admin holds the static screen configuration for the admin console.
// The field lists live here as plain data, consumed by the admin handlers;
// they carry no business logic of their own.
package admin

// Screen describes one admin screen: what its list view shows, which fields
// a search matches, how lists are ordered, and which fields an edit may touch.
type Screen struct {
	ListDisplay    []string
	SearchFields   []string
	Ordering       string
	EditableFields []string
	ReadOnlyFields []string
}

// Editable reports whether field may be written through this screen.
func (s Screen) Editable(field string) bool {
	for _, f := range s.EditableFields {
		if f == field {
			return true
		}
	}
	return false
}

// Users is the account management screen.
var Users = Screen{
	ListDisplay:    []string{"email", "name", "last_login"},
	SearchFields:   []string{"email", "name"},
	Ordering:       "id",
	EditableFields: []string{"name", "password", "is_active", "is_staff", "is_superuser"},
	ReadOnlyFields: []string{"email", "last_login"},
}

// Tasks is the task management screen. The owning user is read-only here;
// completion timestamps stay derived from the completion flag.
var Tasks = Screen{
	ListDisplay:    []string{"title", "date_created", "date_due", "id", "is_completed"},
	SearchFields:   []string{"title"},
	Ordering:       "date_created",
	EditableFields: []string{"title", "description", "date_due", "is_completed"},
	ReadOnlyFields: []string{"user_id", "date_created", "date_completed"},
}
