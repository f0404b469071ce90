package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/testutil"
)

// newTestThrottle builds a throttle service with a controllable clock.
func newTestThrottle(db *gorm.DB, cfg ThrottleConfig) (*throttleService, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewThrottleService(db, cfg).(*throttleService)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func defaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		MaxFailures: 5,
		Window:      60 * time.Minute,
		BanDuration: 15 * time.Minute,
	}
}

func TestThrottleCheck_UnknownIPAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, _ := newTestThrottle(db, defaultThrottleConfig())

	if _, banned := svc.Check("10.0.0.1"); banned {
		t.Fatal("expected unknown IP to be allowed")
	}
}

func TestThrottleRecordAttempt_BanAtThreshold(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, _ := newTestThrottle(db, defaultThrottleConfig())

	for i := 0; i < 4; i++ {
		svc.RecordAttempt("10.0.0.1", "alice", false)
		if _, banned := svc.Check("10.0.0.1"); banned {
			t.Fatalf("banned after %d failures, before threshold", i+1)
		}
	}

	svc.RecordAttempt("10.0.0.1", "alice", false)
	remaining, banned := svc.Check("10.0.0.1")
	if !banned {
		t.Fatal("expected ban after reaching failure threshold")
	}
	if remaining <= 0 {
		t.Errorf("expected positive remaining ban time, got %s", remaining)
	}
}

func TestThrottleRecordAttempt_SuccessDoesNotCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, _ := newTestThrottle(db, defaultThrottleConfig())

	for i := 0; i < 10; i++ {
		svc.RecordAttempt("10.0.0.1", "alice", true)
	}

	if _, banned := svc.Check("10.0.0.1"); banned {
		t.Fatal("successful attempts must not trigger a ban")
	}
}

func TestThrottleRecordAttempt_OldFailuresOutsideWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, now := newTestThrottle(db, defaultThrottleConfig())

	// Four failures now, then one more two hours later: the early failures
	// have aged out of the window, so no ban is created.
	for i := 0; i < 4; i++ {
		svc.RecordAttempt("10.0.0.1", "alice", false)
	}
	*now = now.Add(2 * time.Hour)
	svc.RecordAttempt("10.0.0.1", "alice", false)

	if _, banned := svc.Check("10.0.0.1"); banned {
		t.Fatal("failures outside the trailing window must not count")
	}
}

func TestThrottleCheck_RemainingDecreasesAndExpires(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, now := newTestThrottle(db, defaultThrottleConfig())

	for i := 0; i < 5; i++ {
		svc.RecordAttempt("10.0.0.1", "alice", false)
	}

	first, banned := svc.Check("10.0.0.1")
	if !banned {
		t.Fatal("expected ban")
	}

	*now = now.Add(5 * time.Minute)
	second, banned := svc.Check("10.0.0.1")
	if !banned {
		t.Fatal("expected ban to still be active")
	}
	if second >= first {
		t.Errorf("expected remaining time to decrease: first %s, second %s", first, second)
	}

	*now = now.Add(11 * time.Minute)
	if _, banned := svc.Check("10.0.0.1"); banned {
		t.Fatal("expected ban to expire after its duration")
	}

	// The expired record is discarded, so a fresh check stays clean.
	if _, banned := svc.Check("10.0.0.1"); banned {
		t.Fatal("expected expired ban to be removed")
	}
}

func TestThrottle_IPsAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc, _ := newTestThrottle(db, defaultThrottleConfig())

	for i := 0; i < 5; i++ {
		svc.RecordAttempt("10.0.0.1", "alice", false)
	}

	if _, banned := svc.Check("10.0.0.1"); !banned {
		t.Fatal("expected ban for the failing IP")
	}
	if _, banned := svc.Check("10.0.0.2"); banned {
		t.Fatal("other IPs must not be affected")
	}
}
