//go:build e2e

package e2e_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/instant-voices/internal/adapter/audiostore"
	"github.com/heartmarshall/instant-voices/internal/adapter/postgres"
	"github.com/heartmarshall/instant-voices/internal/adapter/postgres/testhelper"
	pgvoice "github.com/heartmarshall/instant-voices/internal/adapter/postgres/voice"
	"github.com/heartmarshall/instant-voices/internal/auth"
	"github.com/heartmarshall/instant-voices/internal/config"
	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/service/session"
	"github.com/heartmarshall/instant-voices/internal/service/voice"
	"github.com/heartmarshall/instant-voices/internal/transport/middleware"
	"github.com/heartmarshall/instant-voices/internal/transport/rest"
	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

type testServer struct {
	URL    string
	Pool   *pgxpool.Pool
	Client *voiceclient.Client
}

// setupTestServer wires the full HTTP stack against a real PostgreSQL
// database and inline audio storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	voiceSvc := voice.NewService(
		logger,
		pgvoice.New(pool),
		postgres.NewTxManager(pool),
		audiostore.NewInline(),
		voice.Options{Scope: domain.ScopeGlobal},
	)

	jwtMgr := auth.NewJWTManager("e2e-session-secret-that-is-long-enough-for-hs256", "instant-voices-e2e", time.Hour)
	sessionSvc := session.NewService(logger, jwtMgr)

	mux := rest.NewRouter(rest.Routes{
		Voices: rest.NewVoiceHandler(voiceSvc, logger),
		Guest:  rest.NewGuestHandler(sessionSvc, logger),
		Health: rest.NewHealthHandler("e2e", map[string]rest.Pinger{"database": pool}),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,DELETE,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         86400,
		}),
		middleware.Auth(jwtMgr),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Pool:   pool,
		Client: voiceclient.New(srv.URL, voiceclient.WithHTTPClient(srv.Client())),
	}
}

// recordID returns an id that does not collide with other tests sharing
// the database.
func recordID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// mp3 returns n bytes that sniff as audio/mpeg.
func mp3(n int) []byte {
	data := make([]byte, n)
	copy(data, "ID3\x03\x00\x00\x00\x00\x00\x00")
	return data
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return c
}
