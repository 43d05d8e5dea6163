package domain

// EnsureOrganizer returns ErrForbidden unless actorID is the organizer of event.
// Every event mutation goes through this check.
func EnsureOrganizer(event *Event, actorID string) error {
	if event == nil || actorID == "" || event.OrganizerID != actorID {
		return ErrForbidden
	}
	return nil
}
