package sqlconnect

import (
	"os"
	"testing"
)

// TestConnectDb pings the configured database. Opt-in because it needs a
// live MySQL instance.
func TestConnectDb(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}

	if err := ConnectDb(); err != nil {
		t.Fatalf("ConnectDb: %v", err)
	}
	if DB == nil {
		t.Fatal("DB should be initialized after ConnectDb")
	}
	if err := DB.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
