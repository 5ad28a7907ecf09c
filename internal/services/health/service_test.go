package health

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"

	"resume-improver/internal/shared/storage/kv"
)

var errPing = errors.New("ping failed")

func TestStatusWithoutStores(t *testing.T) {
	s := NewService(nil, nil, map[string]string{"store": "memory", "ai": "placeholder"})
	got := s.Status()
	if got["store"] != "memory" || got["ai"] != "placeholder" {
		t.Fatalf("unexpected status %v", got)
	}
	if _, ok := got["storeReachable"]; ok {
		t.Fatalf("reachability reported for a missing store: %v", got)
	}
}

func TestStatusPingsStores(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := kv.NewRedis("redis://"+srv.Addr(), "")
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	got := NewService(store, db, map[string]string{"store": "redis"}).Status()
	if got["storeReachable"] != true || got["databaseReachable"] != true {
		t.Fatalf("expected reachable stores, got %v", got)
	}

	srv.Close()
	mock.ExpectPing().WillReturnError(errPing)
	got = NewService(store, db, nil).Status()
	if got["storeReachable"] != false || got["databaseReachable"] != false {
		t.Fatalf("expected unreachable stores, got %v", got)
	}
}
