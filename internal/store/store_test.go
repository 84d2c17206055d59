package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(id string, start time.Time) *fasting.Session {
	return &fasting.Session{
		ID:             id,
		StartTime:      start,
		TargetDuration: 960,
		Protocol:       fasting.SixteenEight,
		Status:         fasting.StatusActive,
		CreatedAt:      start,
		UpdatedAt:      start,
	}
}

func finish(session *fasting.Session, end time.Time, actual int) *fasting.Session {
	session.EndTime = &end
	session.ActualDuration = actual
	session.Status = fasting.StatusCompleted
	return session
}

// ============================================================
// Schema and files
// ============================================================

func TestNewCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "fastr.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.setValue("probe", "ok"); err != nil {
		t.Fatalf("setValue: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

// ============================================================
// Key-value layer
// ============================================================

func TestGetValueAbsent(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.getValue("missing")
	if err != nil {
		t.Fatalf("getValue: %v", err)
	}
	if ok {
		t.Error("expected absent key")
	}
}

func TestSetValueUpsert(t *testing.T) {
	s := newTestStore(t)

	if err := s.setValue("k", "first"); err != nil {
		t.Fatalf("setValue: %v", err)
	}
	if err := s.setValue("k", "second"); err != nil {
		t.Fatalf("setValue overwrite: %v", err)
	}

	got, ok, err := s.getValue("k")
	if err != nil || !ok {
		t.Fatalf("getValue: ok=%v err=%v", ok, err)
	}
	if got != "second" {
		t.Errorf("value = %q, want %q", got, "second")
	}
}

func TestRemoveValue(t *testing.T) {
	s := newTestStore(t)

	if err := s.setValue("k", "v"); err != nil {
		t.Fatalf("setValue: %v", err)
	}
	if err := s.removeValue("k"); err != nil {
		t.Fatalf("removeValue: %v", err)
	}
	if _, ok, _ := s.getValue("k"); ok {
		t.Error("key should be gone")
	}

	// Removing an absent key is not an error.
	if err := s.removeValue("never-set"); err != nil {
		t.Errorf("removeValue absent: %v", err)
	}
}

// ============================================================
// Sessions
// ============================================================

func TestSaveSessionValidation(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveSession(&fasting.Session{StartTime: time.Now()}); err != ErrInvalidSessionID {
		t.Errorf("empty id: err = %v, want ErrInvalidSessionID", err)
	}
	if err := s.SaveSession(&fasting.Session{ID: "a"}); err != ErrInvalidStartTime {
		t.Errorf("zero start: err = %v, want ErrInvalidStartTime", err)
	}
	if got := s.GetAllSessions(); len(got) != 0 {
		t.Errorf("invalid saves must not write, got %d sessions", len(got))
	}
}

func TestSaveSessionInsertAndUpdate(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().Add(-2 * time.Hour)

	session := sampleSession("a", start)
	if err := s.SaveSession(session); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	session.Notes = "felt strong"
	if err := s.SaveSession(session); err != nil {
		t.Fatalf("SaveSession update: %v", err)
	}

	all := s.GetAllSessions()
	if len(all) != 1 {
		t.Fatalf("expected 1 session after upsert, got %d", len(all))
	}
	if all[0].Notes != "felt strong" {
		t.Errorf("notes = %q, want %q", all[0].Notes, "felt strong")
	}
	if all[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be stamped on save")
	}
}

func TestGetSession(t *testing.T) {
	s := newTestStore(t)
	start := time.Now()

	if err := s.SaveSession(sampleSession("a", start)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if got := s.GetSession("a"); got == nil || got.ID != "a" {
		t.Errorf("GetSession(a) = %+v, want id a", got)
	}
	if got := s.GetSession("nope"); got != nil {
		t.Errorf("GetSession(nope) = %+v, want nil", got)
	}
}

func TestCurrentSessionPointer(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetCurrentSession(); got != nil {
		t.Fatalf("fresh store current = %+v, want nil", got)
	}

	session := sampleSession("a", time.Now())
	if err := s.SetCurrentSession(session); err != nil {
		t.Fatalf("SetCurrentSession: %v", err)
	}
	got := s.GetCurrentSession()
	if got == nil || got.ID != "a" {
		t.Fatalf("current = %+v, want id a", got)
	}

	if err := s.SetCurrentSession(nil); err != nil {
		t.Fatalf("clear current: %v", err)
	}
	if got := s.GetCurrentSession(); got != nil {
		t.Errorf("current after clear = %+v, want nil", got)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	s.SaveSession(sampleSession("a", now.Add(-48*time.Hour)))
	s.SaveSession(sampleSession("b", now))

	if err := s.DeleteSession("a"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	all := s.GetAllSessions()
	if len(all) != 1 || all[0].ID != "b" {
		t.Errorf("sessions after delete = %+v, want only b", all)
	}

	// Deleting an unknown id leaves the rest intact.
	if err := s.DeleteSession("nope"); err != nil {
		t.Fatalf("DeleteSession unknown: %v", err)
	}
	if got := s.GetAllSessions(); len(got) != 1 {
		t.Errorf("expected 1 session, got %d", len(got))
	}
}

func TestClearAllDataKeepsPreferences(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	session := sampleSession("a", now.Add(-time.Hour))
	s.SaveSession(finish(session, now, 60))
	s.SetCurrentSession(sampleSession("b", now))

	prefs := fasting.DefaultPreferences()
	prefs.FastingGoal = 6
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	if err := s.ClearAllData(); err != nil {
		t.Fatalf("ClearAllData: %v", err)
	}

	if got := s.GetAllSessions(); len(got) != 0 {
		t.Errorf("sessions survived reset: %+v", got)
	}
	if got := s.GetCurrentSession(); got != nil {
		t.Errorf("current session survived reset: %+v", got)
	}
	if got := s.GetStats(); got.TotalSessions != 0 {
		t.Errorf("stats survived reset: %+v", got)
	}
	if got := s.GetPreferences(); got.FastingGoal != 6 {
		t.Errorf("preferences should survive reset, goal = %d", got.FastingGoal)
	}
}

// ============================================================
// Preferences
// ============================================================

func TestGetPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)

	got := s.GetPreferences()
	want := fasting.DefaultPreferences()
	if got.DefaultProtocol != want.DefaultProtocol || got.FastingGoal != want.FastingGoal {
		t.Errorf("fresh preferences = %+v, want defaults", got)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	prefs := fasting.DefaultPreferences()
	prefs.DefaultProtocol = fasting.OMAD
	prefs.EnableNotifications = false
	prefs.NotificationTimes = []int{8, 16}
	prefs.FastingGoal = 7

	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got := s.GetPreferences()
	if got.DefaultProtocol != fasting.OMAD {
		t.Errorf("protocol = %s, want OMAD", got.DefaultProtocol)
	}
	if got.EnableNotifications {
		t.Error("notifications should be off")
	}
	if len(got.NotificationTimes) != 2 || got.NotificationTimes[0] != 8 {
		t.Errorf("notification times = %v, want [8 16]", got.NotificationTimes)
	}
	if got.FastingGoal != 7 {
		t.Errorf("goal = %d, want 7", got.FastingGoal)
	}
}

func TestGetPreferencesPartialStoredValue(t *testing.T) {
	s := newTestStore(t)

	// A stored blob missing fields keeps defaults for the absent ones.
	if err := s.setValue(keyPreferences, `{"fastingGoal":5}`); err != nil {
		t.Fatalf("setValue: %v", err)
	}

	got := s.GetPreferences()
	if got.FastingGoal != 5 {
		t.Errorf("goal = %d, want 5", got.FastingGoal)
	}
	if got.DefaultProtocol != fasting.SixteenEight {
		t.Errorf("protocol = %s, want default 16:8", got.DefaultProtocol)
	}
}

func TestGetPreferencesCorruptValue(t *testing.T) {
	s := newTestStore(t)

	if err := s.setValue(keyPreferences, "{not json"); err != nil {
		t.Fatalf("setValue: %v", err)
	}

	got := s.GetPreferences()
	want := fasting.DefaultPreferences()
	if got.DefaultProtocol != want.DefaultProtocol || got.FastingGoal != want.FastingGoal {
		t.Errorf("corrupt preferences should fall back to defaults, got %+v", got)
	}
}

func TestCorruptSessionsDegradeToEmpty(t *testing.T) {
	s := newTestStore(t)

	if err := s.setValue(keySessions, "][ nope"); err != nil {
		t.Fatalf("setValue: %v", err)
	}
	if got := s.GetAllSessions(); got != nil {
		t.Errorf("corrupt sessions = %+v, want nil", got)
	}
	if err := s.setValue(keyCurrentSession, "][ nope"); err != nil {
		t.Fatalf("setValue: %v", err)
	}
	if got := s.GetCurrentSession(); got != nil {
		t.Errorf("corrupt current = %+v, want nil", got)
	}
}
