package conduit_test

import (
	"context"

	conduit "github.com/goliatone/go-conduit"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements conduit.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*conduit.User, error) {
	args := m.Called(ctx, username)
	if user := args.Get(0); user != nil {
		return user.(*conduit.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*conduit.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*conduit.User), args.Error(1)
	}
	return nil, args.Error(1)
}
