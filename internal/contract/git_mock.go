package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a testify mock for the GitClient interface.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, startTime, endTime)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// ListCommitHashes implements the GitClient interface.
func (m *MockGitClient) ListCommitHashes(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	hashes, _ := ret.Get(0).([]string)
	return hashes, ret.Error(1)
}

// ListDirectoriesAtRef implements the GitClient interface.
func (m *MockGitClient) ListDirectoriesAtRef(ctx context.Context, repoPath string, ref string, dirs []string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref, dirs)
	found, _ := ret.Get(0).([]string)
	return found, ret.Error(1)
}

// GetDiff implements the GitClient interface.
func (m *MockGitClient) GetDiff(ctx context.Context, repoPath string, path string, fromRev, toRev string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, path, fromRev, toRev)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetFileContent implements the GitClient interface.
func (m *MockGitClient) GetFileContent(ctx context.Context, repoPath string, path string, rev string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, path, rev)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
