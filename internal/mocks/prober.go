package mocks

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// Compile-time check that MockDirectoryClassifier implements ports.DirectoryClassifier.
var _ ports.DirectoryClassifier = (*MockDirectoryClassifier)(nil)

// MockDirectoryClassifier is a mock implementation of ports.DirectoryClassifier for testing.
type MockDirectoryClassifier struct {
	ClassifyFunc func(ctx context.Context, path string) (domain.DirectoryState, error)
}

// NewMockDirectoryClassifier creates a new MockDirectoryClassifier with default no-op behavior.
func NewMockDirectoryClassifier() *MockDirectoryClassifier {
	return &MockDirectoryClassifier{}
}

// Classify calls the mock function if set, otherwise returns an empty DirectoryState.
func (m *MockDirectoryClassifier) Classify(ctx context.Context, path string) (domain.DirectoryState, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, path)
	}

	return domain.DirectoryState{Kind: domain.DirEmpty, Path: path}, nil
}
