package scheduler

import (
	"testing"
	"time"
)

func TestRegister_InvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC, func() {})
	if err := s.Register("not a cron"); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	// five-field specs lack the seconds field
	if err := s.Register("30 23 * * 0"); err == nil {
		t.Fatal("expected error for spec without seconds")
	}
}

func TestNext_SundayEvening(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatal(err)
	}
	s := NewScheduler(paris, func() {})
	if !s.Next().IsZero() {
		t.Error("expected zero next time before registration")
	}
	if err := s.Register("0 30 23 * * 0"); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()
	defer s.Stop()

	var next time.Time
	for i := 0; i < 50 && next.IsZero(); i++ {
		next = s.Next()
		time.Sleep(10 * time.Millisecond)
	}
	next = next.In(paris)
	if next.Weekday() != time.Sunday || next.Hour() != 23 || next.Minute() != 30 {
		t.Errorf("unexpected next run %v", next)
	}
}

func TestRun_CallsJob(t *testing.T) {
	calls := 0
	s := NewScheduler(time.UTC, func() { calls++ })
	s.run()
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}
