package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bobmcallan/folio/internal/common"
)

var (
	surrealOnce    sync.Once
	surrealAddress string
	surrealErr     error
)

// startSurrealDB starts one SurrealDB container per test binary and returns
// its RPC address. The container is reaped by testcontainers when the process exits.
func startSurrealDB(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping SurrealDB store tests in short mode")
	}

	surrealOnce.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "surrealdb/surrealdb:v3.0.0",
				ExposedPorts: []string{"8000/tcp"},
				Cmd:          []string{"start", "--user", "root", "--pass", "root"},
				WaitingFor: wait.ForAll(
					wait.ForListeningPort("8000/tcp"),
					wait.ForLog("Started web server"),
				).WithDeadline(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			surrealErr = fmt.Errorf("start SurrealDB container: %w", err)
			return
		}

		endpoint, err := container.PortEndpoint(ctx, "8000/tcp", "ws")
		if err != nil {
			container.Terminate(ctx)
			surrealErr = fmt.Errorf("resolve SurrealDB endpoint: %w", err)
			return
		}
		surrealAddress = endpoint + "/rpc"
	})

	if surrealErr != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealErr)
	}
	return surrealAddress
}

// testStore opens a Store through NewStore on a database unique to the test.
func testStore(t *testing.T) *Store {
	t.Helper()

	// SurrealDB rejects "/" in database names and subtests produce "Test/subtest".
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &common.SurrealDBConfig{
		Address:   startSurrealDB(t),
		Username:  "root",
		Password:  "root",
		Namespace: "folio_test",
		Database:  fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000),
	}

	s, err := NewStore(common.NewSilentLogger(), cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
