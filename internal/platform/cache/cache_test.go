package cache

import (
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/p-n-ai/deepblue/internal/platform/config"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantErr    bool
		wantDB     int
		wantClient string
	}{
		{"valid-redis", "redis://localhost:6379", false, 0, "deepblue"},
		{"valid-with-db", "redis://localhost:6379/3", false, 3, "deepblue"},
		{"custom client name", "redis://localhost:6379/0?client_name=custom", false, 0, "custom"},
		{"empty", "", true, 0, ""},
		{"wrong scheme", "http://localhost:6379", true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Options(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Options() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", opts.DB, tt.wantDB)
			}
			if opts.ClientName != tt.wantClient {
				t.Errorf("ClientName = %q, want %q", opts.ClientName, tt.wantClient)
			}
			if opts.DialTimeout == 0 || opts.ReadTimeout == 0 {
				t.Error("timeouts should be set")
			}
		})
	}
}

func TestOpen_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := Open(t.Context(), config.CacheConfig{URL: "redis://localhost:59999"})
	if err == nil {
		t.Fatal("Open() should return error for unreachable host")
	}
}

func TestOpen_Container(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := t.Context()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	endpoint, err := ctr.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}

	c, err := Open(ctx, config.CacheConfig{URL: "redis://" + endpoint})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if err := c.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	name, err := c.Client.ClientGetName(ctx).Result()
	if err != nil || name != "deepblue" {
		t.Errorf("client name = %q, %v; want deepblue", name, err)
	}
}
