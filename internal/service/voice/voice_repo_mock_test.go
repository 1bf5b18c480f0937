package voice

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

var _ voiceRepo = &voiceRepoMock{}

type voiceRepoMock struct {
	DeleteFunc       func(ctx context.Context, recordID string, ownerID *string) (*domain.Voice, error)
	GetByIDFunc      func(ctx context.Context, recordID string) (*domain.Voice, error)
	GetForUpdateFunc func(ctx context.Context, recordID string) (*domain.Voice, error)
	ListFunc         func(ctx context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error)
	UpsertFunc       func(ctx context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error)

	calls struct {
		Delete []struct {
			Ctx      context.Context
			RecordID string
			OwnerID  *string
		}
		GetByID []struct {
			Ctx      context.Context
			RecordID string
		}
		GetForUpdate []struct {
			Ctx      context.Context
			RecordID string
		}
		List []struct {
			Ctx    context.Context
			Filter domain.VoiceFilter
		}
		Upsert []struct {
			Ctx          context.Context
			V            *domain.Voice
			ReplaceAudio bool
		}
	}
	lockDelete       sync.RWMutex
	lockGetByID      sync.RWMutex
	lockGetForUpdate sync.RWMutex
	lockList         sync.RWMutex
	lockUpsert       sync.RWMutex
}

func (mock *voiceRepoMock) Delete(ctx context.Context, recordID string, ownerID *string) (*domain.Voice, error) {
	if mock.DeleteFunc == nil {
		panic("voiceRepoMock.DeleteFunc: method is nil but voiceRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
		OwnerID  *string
	}{Ctx: ctx, RecordID: recordID, OwnerID: ownerID}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, recordID, ownerID)
}

func (mock *voiceRepoMock) DeleteCalls() []struct {
	Ctx      context.Context
	RecordID string
	OwnerID  *string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *voiceRepoMock) GetByID(ctx context.Context, recordID string) (*domain.Voice, error) {
	if mock.GetByIDFunc == nil {
		panic("voiceRepoMock.GetByIDFunc: method is nil but voiceRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
	}{Ctx: ctx, RecordID: recordID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, recordID)
}

func (mock *voiceRepoMock) GetByIDCalls() []struct {
	Ctx      context.Context
	RecordID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *voiceRepoMock) GetForUpdate(ctx context.Context, recordID string) (*domain.Voice, error) {
	if mock.GetForUpdateFunc == nil {
		panic("voiceRepoMock.GetForUpdateFunc: method is nil but voiceRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
	}{Ctx: ctx, RecordID: recordID}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, recordID)
}

func (mock *voiceRepoMock) GetForUpdateCalls() []struct {
	Ctx      context.Context
	RecordID string
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *voiceRepoMock) List(ctx context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error) {
	if mock.ListFunc == nil {
		panic("voiceRepoMock.ListFunc: method is nil but voiceRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.VoiceFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *voiceRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.VoiceFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *voiceRepoMock) Upsert(ctx context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error) {
	if mock.UpsertFunc == nil {
		panic("voiceRepoMock.UpsertFunc: method is nil but voiceRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		V            *domain.Voice
		ReplaceAudio bool
	}{Ctx: ctx, V: v, ReplaceAudio: replaceAudio}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, v, replaceAudio)
}

func (mock *voiceRepoMock) UpsertCalls() []struct {
	Ctx          context.Context
	V            *domain.Voice
	ReplaceAudio bool
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
