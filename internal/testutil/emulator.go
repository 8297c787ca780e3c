package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

const (
	FirestoreEmulatorHost = "127.0.0.1:7130"
	ProjectID             = "demo-biodata-test"
)

// FirestoreEmulatorAvailable reports whether the Firestore emulator is reachable.
func FirestoreEmulatorAvailable() bool {
	return reachable(FirestoreEmulatorHost)
}

func reachable(host string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// NewFirestoreClient returns a client bound to a freshly cleared emulator database,
// or skips the test when the emulator is not running. Each calling package gets
// its own project so packages tested in parallel do not clear each other's data.
func NewFirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()
	if !FirestoreEmulatorAvailable() {
		t.Skip("Firestore emulator not available")
	}
	project := ProjectID
	if _, file, _, ok := runtime.Caller(1); ok {
		project += "-" + filepath.Base(filepath.Dir(file))
	}
	t.Setenv("FIRESTORE_EMULATOR_HOST", FirestoreEmulatorHost)
	ClearFirestore(t, project)

	client, err := firestore.NewClient(context.Background(), project)
	if err != nil {
		t.Fatalf("failed to create Firestore client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// ClearFirestore removes all documents of project from the Firestore emulator.
func ClearFirestore(t *testing.T, project string) {
	t.Helper()
	ctx := context.Background()
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents",
		FirestoreEmulatorHost, project)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to clear Firestore: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
}
