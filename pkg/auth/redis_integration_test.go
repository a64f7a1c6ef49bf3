//go:build integration

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sternrassler/esi-go/internal/testutil"
	"github.com/Sternrassler/esi-go/pkg/client"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestIntegration_RedisStore(t *testing.T) {
	client := setupRedisContainer(t)
	exerciseRedisStore(t, client)
}

func TestIntegration_RedisStoreSharedAcrossInstances(t *testing.T) {
	client := setupRedisContainer(t)
	ctx := context.Background()

	writer := NewRedisStore(client, "shared", zerolog.Nop())
	reader := NewRedisStore(client, "shared", zerolog.Nop())

	if err := writer.Save(ctx, "sso-token", 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	token, err := reader.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "sso-token" {
		t.Errorf("Token() = %q, want sso-token", token)
	}
}

func TestIntegration_ClientUsesStoredToken(t *testing.T) {
	redisClient := setupRedisContainer(t)
	ctx := context.Background()

	mock := testutil.NewMockESI()
	defer mock.Close()
	mock.SetResponse("/latest/characters/2112625428/wallet/", testutil.NewHealthyResponse(`1000.25`))

	store := NewRedisStore(redisClient, "wallet", zerolog.Nop())
	if err := store.Save(ctx, "sso-token", time.Minute); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	esiClient, err := client.New(client.Config{UserAgent: "TestApp/1.0.0", BaseURL: mock.URL()})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	if err := esiClient.LoadToken(ctx, store); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}

	if _, err := esiClient.Get(ctx, "/characters/2112625428/wallet/", nil, nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	req, _ := mock.LastRequest()
	if got := req.Header.Get("Authorization"); got != "Bearer sso-token" {
		t.Errorf("Authorization = %q", got)
	}
}
