package voice

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

var _ audioStore = &audioStoreMock{}

type audioStoreMock struct {
	PutFunc     func(ctx context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error)
	ReleaseFunc func(ctx context.Context, ref domain.AudioRef) error

	calls struct {
		Put []struct {
			Ctx      context.Context
			RecordID string
			P        *domain.AudioPayload
		}
		Release []struct {
			Ctx context.Context
			Ref domain.AudioRef
		}
	}
	lockPut     sync.RWMutex
	lockRelease sync.RWMutex
}

func (mock *audioStoreMock) Put(ctx context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error) {
	if mock.PutFunc == nil {
		panic("audioStoreMock.PutFunc: method is nil but audioStore.Put was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
		P        *domain.AudioPayload
	}{Ctx: ctx, RecordID: recordID, P: p}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, recordID, p)
}

func (mock *audioStoreMock) PutCalls() []struct {
	Ctx      context.Context
	RecordID string
	P        *domain.AudioPayload
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}

func (mock *audioStoreMock) Release(ctx context.Context, ref domain.AudioRef) error {
	if mock.ReleaseFunc == nil {
		panic("audioStoreMock.ReleaseFunc: method is nil but audioStore.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ref domain.AudioRef
	}{Ctx: ctx, Ref: ref}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx, ref)
}

func (mock *audioStoreMock) ReleaseCalls() []struct {
	Ctx context.Context
	Ref domain.AudioRef
} {
	mock.lockRelease.RLock()
	calls := mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}
