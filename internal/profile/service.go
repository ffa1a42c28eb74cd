package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

const (
	OpFetch  = "fetch"
	OpCreate = "create"
	OpUpdate = "update"
)

// StorageError tags a storage failure with the step that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "profile " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

type Store interface {
	Get(ctx context.Context, userID string) (Profile, error)
	// Insert reports false without error when a row for the user already exists.
	Insert(ctx context.Context, p Profile) (Profile, bool, error)
	Update(ctx context.Context, p Profile) (Profile, error)
}

type Service struct {
	Store Store
}

// Fetch returns the user's profile, creating an empty one on first access.
// created is true only for the call that inserted the row.
func (s *Service) Fetch(ctx context.Context, userID string) (p Profile, created bool, err error) {
	p, err = s.Store.Get(ctx, userID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, false, &StorageError{Op: OpFetch, Err: err}
	}

	p, inserted, err := s.Store.Insert(ctx, Profile{UserID: userID})
	if err != nil {
		return Profile{}, false, &StorageError{Op: OpCreate, Err: err}
	}
	if inserted {
		return p, true, nil
	}

	// a concurrent first request created it
	p, err = s.Store.Get(ctx, userID)
	if err != nil {
		return Profile{}, false, &StorageError{Op: OpFetch, Err: err}
	}
	return p, false, nil
}

// Save validates in and writes it as the user's profile, inserting when absent.
func (s *Service) Save(ctx context.Context, userID string, in Input) (Profile, error) {
	clean, err := Validate(in)
	if err != nil {
		return Profile{}, err
	}
	p := clean.profile(userID)

	_, err = s.Store.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		created, inserted, err := s.Store.Insert(ctx, p)
		if err != nil {
			return Profile{}, &StorageError{Op: OpCreate, Err: err}
		}
		if inserted {
			return created, nil
		}
		// lost the insert race; update the winner's row instead
	default:
		return Profile{}, &StorageError{Op: OpFetch, Err: err}
	}

	updated, err := s.Store.Update(ctx, p)
	if err != nil {
		return Profile{}, &StorageError{Op: OpUpdate, Err: err}
	}
	return updated, nil
}
