package voicecache

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

var _ Remote = &RemoteMock{}

type RemoteMock struct {
	DeleteFunc func(ctx context.Context, recordID string, ownerID string) error
	ListFunc   func(ctx context.Context, ownerID string) (map[string]voiceclient.Record, error)
	UploadFunc func(ctx context.Context, u voiceclient.Upload) (*voiceclient.Record, error)

	calls struct {
		Delete []struct {
			Ctx      context.Context
			RecordID string
			OwnerID  string
		}
		List []struct {
			Ctx     context.Context
			OwnerID string
		}
		Upload []struct {
			Ctx context.Context
			U   voiceclient.Upload
		}
	}
	lockDelete sync.RWMutex
	lockList   sync.RWMutex
	lockUpload sync.RWMutex
}

func (mock *RemoteMock) Delete(ctx context.Context, recordID string, ownerID string) error {
	if mock.DeleteFunc == nil {
		panic("RemoteMock.DeleteFunc: method is nil but Remote.Delete was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		RecordID string
		OwnerID  string
	}{Ctx: ctx, RecordID: recordID, OwnerID: ownerID}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, recordID, ownerID)
}

func (mock *RemoteMock) DeleteCalls() []struct {
	Ctx      context.Context
	RecordID string
	OwnerID  string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *RemoteMock) List(ctx context.Context, ownerID string) (map[string]voiceclient.Record, error) {
	if mock.ListFunc == nil {
		panic("RemoteMock.ListFunc: method is nil but Remote.List was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		OwnerID string
	}{Ctx: ctx, OwnerID: ownerID}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, ownerID)
}

func (mock *RemoteMock) ListCalls() []struct {
	Ctx     context.Context
	OwnerID string
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *RemoteMock) Upload(ctx context.Context, u voiceclient.Upload) (*voiceclient.Record, error) {
	if mock.UploadFunc == nil {
		panic("RemoteMock.UploadFunc: method is nil but Remote.Upload was just called")
	}
	callInfo := struct {
		Ctx context.Context
		U   voiceclient.Upload
	}{Ctx: ctx, U: u}
	mock.lockUpload.Lock()
	mock.calls.Upload = append(mock.calls.Upload, callInfo)
	mock.lockUpload.Unlock()
	return mock.UploadFunc(ctx, u)
}

func (mock *RemoteMock) UploadCalls() []struct {
	Ctx context.Context
	U   voiceclient.Upload
} {
	mock.lockUpload.RLock()
	calls := mock.calls.Upload
	mock.lockUpload.RUnlock()
	return calls
}
