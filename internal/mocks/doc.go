// Package mocks provides function-field test doubles for the service and
// auth interfaces, shared by the HTTP handler and command tests.
//
// Each mock calls its XxxFn field when set and otherwise returns the zero
// value with ErrNotConfigured, so a test only wires the methods it exercises:
//
//	users := &mocks.MockUserService{
//	    GetUserFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	        return user, nil
//	    },
//	}
package mocks

import "errors"

// ErrNotConfigured is returned by a mock method whose function field is nil.
var ErrNotConfigured = errors.New("mock method not configured")
