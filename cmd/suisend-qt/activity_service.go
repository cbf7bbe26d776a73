package main

import "github.com/suisend/suisend/internal/activity"

// ActivityService exposes the activity log. New entries are also pushed as
// "activity" events.
type ActivityService struct {
	app *App
}

// Entries returns the log, newest first.
func (s *ActivityService) Entries() []activity.Entry {
	return s.app.log.Entries()
}

// Clear empties the log.
func (s *ActivityService) Clear() {
	s.app.log.Clear()
}
