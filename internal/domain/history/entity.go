// Package history contains the domain logic for cooking session history.
package history

import (
	"time"
)

// Entry records one cooking session. It is created when the session starts
// and finalized exactly once on completion.
type Entry struct {
	ID          string     `json:"id"`
	RecipeID    string     `json:"recipeId"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Completed   bool       `json:"completed"`
	Rating      *int       `json:"rating,omitempty"`
	WouldRepeat *bool      `json:"wouldRepeat,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Start creates a new in-progress entry for the given recipe
func Start(id, recipeID string, now time.Time) (*Entry, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if recipeID == "" {
		return nil, ErrMissingRecipe
	}
	return &Entry{
		ID:        id,
		RecipeID:  recipeID,
		StartedAt: now,
	}, nil
}

// Complete finalizes the entry. Completion happens exactly once; rating and
// wouldRepeat are optional and may be nil.
func (e *Entry) Complete(rating *int, wouldRepeat *bool, notes string, now time.Time) error {
	if e.Completed {
		return ErrAlreadyCompleted
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return ErrInvalidRating
	}

	e.Completed = true
	e.CompletedAt = &now
	e.Rating = rating
	e.WouldRepeat = wouldRepeat
	e.Notes = notes
	return nil
}

// CompletedWithin reports whether the entry completed inside the window
// ending at now
func (e Entry) CompletedWithin(window time.Duration, now time.Time) bool {
	if !e.Completed || e.CompletedAt == nil {
		return false
	}
	return e.CompletedAt.After(now.Add(-window))
}
