package session

import (
	"sync"
	"time"
)

var _ tokenIssuer = &tokenIssuerMock{}

type tokenIssuerMock struct {
	GenerateSessionTokenFunc func(sessionID string) (string, time.Time, error)

	calls struct {
		GenerateSessionToken []struct {
			SessionID string
		}
	}
	lockGenerateSessionToken sync.RWMutex
}

func (mock *tokenIssuerMock) GenerateSessionToken(sessionID string) (string, time.Time, error) {
	if mock.GenerateSessionTokenFunc == nil {
		panic("tokenIssuerMock.GenerateSessionTokenFunc: method is nil but tokenIssuer.GenerateSessionToken was just called")
	}
	callInfo := struct {
		SessionID string
	}{SessionID: sessionID}
	mock.lockGenerateSessionToken.Lock()
	mock.calls.GenerateSessionToken = append(mock.calls.GenerateSessionToken, callInfo)
	mock.lockGenerateSessionToken.Unlock()
	return mock.GenerateSessionTokenFunc(sessionID)
}

func (mock *tokenIssuerMock) GenerateSessionTokenCalls() []struct {
	SessionID string
} {
	mock.lockGenerateSessionToken.RLock()
	calls := mock.calls.GenerateSessionToken
	mock.lockGenerateSessionToken.RUnlock()
	return calls
}
