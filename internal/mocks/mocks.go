package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/hierfs"
)

// MockContentSource implements hierfs.ContentSource for testing across packages
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) Content(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context) []byte); ok {
		return fn(ctx), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ hierfs.ContentSource = (*MockContentSource)(nil)

// MockSourceProvider implements hierfs.SourceProvider for testing across packages
type MockSourceProvider struct {
	mock.Mock
}

func (m *MockSourceProvider) NewSource(raw []byte) (hierfs.ContentSource, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hierfs.ContentSource), args.Error(1)
}

var _ hierfs.SourceProvider = (*MockSourceProvider)(nil)

// MockDimensionDecoder satisfies filesystem.DimensionDecoder
type MockDimensionDecoder struct {
	mock.Mock
}

func (m *MockDimensionDecoder) Dimensions(content []byte) (int, int, error) {
	args := m.Called(content)
	return args.Int(0), args.Int(1), args.Error(2)
}
