package mocks

import (
	"context"

	"livestream-sync/feature/wordpress"

	"github.com/stretchr/testify/mock"
)

// PageStore is a mock implementation of homepage.PageStore.
type PageStore struct {
	mock.Mock
}

func (m *PageStore) GetPage(ctx context.Context, id int) (wordpress.Page, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(wordpress.Page), args.Error(1)
}

func (m *PageStore) UpdatePage(ctx context.Context, id int, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}
