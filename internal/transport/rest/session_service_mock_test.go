package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-voices/internal/service/session"
)

var _ sessionService = &sessionServiceMock{}

type sessionServiceMock struct {
	IssueGuestFunc func(ctx context.Context) (*session.Guest, error)

	calls struct {
		IssueGuest []struct {
			Ctx context.Context
		}
	}
	lockIssueGuest sync.RWMutex
}

func (mock *sessionServiceMock) IssueGuest(ctx context.Context) (*session.Guest, error) {
	if mock.IssueGuestFunc == nil {
		panic("sessionServiceMock.IssueGuestFunc: method is nil but sessionService.IssueGuest was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockIssueGuest.Lock()
	mock.calls.IssueGuest = append(mock.calls.IssueGuest, callInfo)
	mock.lockIssueGuest.Unlock()
	return mock.IssueGuestFunc(ctx)
}

func (mock *sessionServiceMock) IssueGuestCalls() []struct {
	Ctx context.Context
} {
	mock.lockIssueGuest.RLock()
	calls := mock.calls.IssueGuest
	mock.lockIssueGuest.RUnlock()
	return calls
}
