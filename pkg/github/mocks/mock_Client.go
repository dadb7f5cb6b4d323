// Package mocks provides test doubles for the github client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	"github.com/ytheys/agency-radar/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Overview provides a mock function with given fields: ctx, repo
func (_m *MockClient) Overview(ctx context.Context, repo string) (*model.RepoOverview, error) {
	ret := _m.Called(ctx, repo)

	if len(ret) == 0 {
		panic("no return value specified for Overview")
	}

	var r0 *model.RepoOverview
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.RepoOverview, error)); ok {
		return rf(ctx, repo)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.RepoOverview); ok {
		r0 = rf(ctx, repo)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.RepoOverview)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, repo)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient with expectations
// cleaned up after the test runs.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
