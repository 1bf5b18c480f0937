package voicecache

import (
	"sync"

	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

var _ Snapshotter = &SnapshotterMock{}

type SnapshotterMock struct {
	LoadFunc func() (map[string]voiceclient.Record, error)
	SaveFunc func(entries map[string]voiceclient.Record) error

	calls struct {
		Load []struct {
		}
		Save []struct {
			Entries map[string]voiceclient.Record
		}
	}
	lockLoad sync.RWMutex
	lockSave sync.RWMutex
}

func (mock *SnapshotterMock) Load() (map[string]voiceclient.Record, error) {
	if mock.LoadFunc == nil {
		panic("SnapshotterMock.LoadFunc: method is nil but Snapshotter.Load was just called")
	}
	callInfo := struct {
	}{}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, callInfo)
	mock.lockLoad.Unlock()
	return mock.LoadFunc()
}

func (mock *SnapshotterMock) LoadCalls() []struct {
} {
	mock.lockLoad.RLock()
	calls := mock.calls.Load
	mock.lockLoad.RUnlock()
	return calls
}

func (mock *SnapshotterMock) Save(entries map[string]voiceclient.Record) error {
	if mock.SaveFunc == nil {
		panic("SnapshotterMock.SaveFunc: method is nil but Snapshotter.Save was just called")
	}
	callInfo := struct {
		Entries map[string]voiceclient.Record
	}{Entries: entries}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(entries)
}

func (mock *SnapshotterMock) SaveCalls() []struct {
	Entries map[string]voiceclient.Record
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}
