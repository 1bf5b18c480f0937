package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/service/voice"
)

var _ voiceService = &voiceServiceMock{}

type voiceServiceMock struct {
	DeleteFunc         func(ctx context.Context, input voice.DeleteInput) error
	GetFunc            func(ctx context.Context, recordID string) (*domain.Voice, error)
	ListMapFunc        func(ctx context.Context, input voice.ListInput) (map[string]*domain.Voice, error)
	MaxUploadBytesFunc func() int64
	UpsertFunc         func(ctx context.Context, input voice.UpsertInput) (*domain.Voice, error)

	calls struct {
		Delete []struct {
			Ctx   context.Context
			Input voice.DeleteInput
		}
		Get []struct {
			Ctx      context.Context
			RecordID string
		}
		ListMap []struct {
			Ctx   context.Context
			Input voice.ListInput
		}
		MaxUploadBytes []struct {
		}
		Upsert []struct {
			Ctx   context.Context
			Input voice.UpsertInput
		}
	}
	lockDelete         sync.RWMutex
	lockGet            sync.RWMutex
	lockListMap        sync.RWMutex
	lockMaxUploadBytes sync.RWMutex
	lockUpsert         sync.RWMutex
}

func (mock *voiceServiceMock) Delete(ctx context.Context, input voice.DeleteInput) error {
	if mock.DeleteFunc == nil {
		panic("voiceServiceMock.DeleteFunc: method is nil but voiceService.Delete was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.DeleteInput
	}{Ctx: ctx, Input: input}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, input)
}

func (mock *voiceServiceMock) DeleteCalls() []struct {
	Ctx   context.Context
	Input voice.DeleteInput
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *voiceServiceMock) Get(ctx context.Context, recordID string) (*domain.Voice, error) {
	if mock.GetFunc == nil {
		panic("voiceServiceMock.GetFunc: method is nil but voiceService.Get was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
	}{Ctx: ctx, RecordID: recordID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, recordID)
}

func (mock *voiceServiceMock) GetCalls() []struct {
	Ctx      context.Context
	RecordID string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *voiceServiceMock) ListMap(ctx context.Context, input voice.ListInput) (map[string]*domain.Voice, error) {
	if mock.ListMapFunc == nil {
		panic("voiceServiceMock.ListMapFunc: method is nil but voiceService.ListMap was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.ListInput
	}{Ctx: ctx, Input: input}
	mock.lockListMap.Lock()
	mock.calls.ListMap = append(mock.calls.ListMap, callInfo)
	mock.lockListMap.Unlock()
	return mock.ListMapFunc(ctx, input)
}

func (mock *voiceServiceMock) ListMapCalls() []struct {
	Ctx   context.Context
	Input voice.ListInput
} {
	mock.lockListMap.RLock()
	calls := mock.calls.ListMap
	mock.lockListMap.RUnlock()
	return calls
}

func (mock *voiceServiceMock) MaxUploadBytes() int64 {
	if mock.MaxUploadBytesFunc == nil {
		panic("voiceServiceMock.MaxUploadBytesFunc: method is nil but voiceService.MaxUploadBytes was just called")
	}
	callInfo := struct {
	}{}
	mock.lockMaxUploadBytes.Lock()
	mock.calls.MaxUploadBytes = append(mock.calls.MaxUploadBytes, callInfo)
	mock.lockMaxUploadBytes.Unlock()
	return mock.MaxUploadBytesFunc()
}

func (mock *voiceServiceMock) MaxUploadBytesCalls() []struct {
} {
	mock.lockMaxUploadBytes.RLock()
	calls := mock.calls.MaxUploadBytes
	mock.lockMaxUploadBytes.RUnlock()
	return calls
}

func (mock *voiceServiceMock) Upsert(ctx context.Context, input voice.UpsertInput) (*domain.Voice, error) {
	if mock.UpsertFunc == nil {
		panic("voiceServiceMock.UpsertFunc: method is nil but voiceService.Upsert was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input voice.UpsertInput
	}{Ctx: ctx, Input: input}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, input)
}

func (mock *voiceServiceMock) UpsertCalls() []struct {
	Ctx   context.Context
	Input voice.UpsertInput
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
