package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
)

var storeBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newSession(id, company, aircraft string, at time.Time) *model.FlightSession {
	return model.NewFlightSession(id, company, aircraft, nil, at)
}

func TestSessionStoreCreateEnforcesOneActive(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("s1", "co-1", "ac-1", storeBase)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := s.Create(ctx, newSession("s2", "co-2", "ac-1", storeBase))
	if !errors.Is(err, core.ErrAircraftBusy) {
		t.Fatalf("same aircraft: err = %v, want ErrAircraftBusy", err)
	}

	err = s.Create(ctx, newSession("s3", "co-1", "ac-2", storeBase))
	if !errors.Is(err, core.ErrAircraftBusy) {
		t.Fatalf("same company: err = %v, want ErrAircraftBusy", err)
	}
}

func TestSessionStoreCompletionFreesIndexes(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("s1", "co-1", "ac-1", storeBase)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := s.Update(ctx, "s1", func(sess *model.FlightSession) error {
		sess.Status = model.SessionCompleted
		sess.Settled = true
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := s.ActiveByCompany(ctx, "co-1"); !errors.Is(err, core.ErrNoActiveFlight) {
		t.Errorf("completed session still indexed: %v", err)
	}

	// Both aircraft and company are free again.
	if err := s.Create(ctx, newSession("s2", "co-1", "ac-1", storeBase.Add(time.Minute))); err != nil {
		t.Fatalf("re-dispatch after completion: %v", err)
	}
}

func TestSessionStoreUpdateErrorDiscardsMutation(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("s1", "co-1", "ac-1", storeBase)); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("application failed")
	err := s.Update(ctx, "s1", func(sess *model.FlightSession) error {
		sess.FlightScore = 7
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want propagated failure", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FlightScore != 100 {
		t.Errorf("score = %d, failed update leaked", got.FlightScore)
	}
}

func TestSessionStoreGetReturnsCopy(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("s1", "co-1", "ac-1", storeBase)); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, _ := s.Get(ctx, "s1")
	got.FlightScore = 1
	got.Failures = append(got.Failures, model.FailureEvent{Category: model.FailureEngine})

	again, _ := s.Get(ctx, "s1")
	if again.FlightScore != 100 || len(again.Failures) != 0 {
		t.Error("mutating a returned session leaked into the store")
	}
}

func TestSessionStorePendingSettlement(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	for i, id := range []string{"s1", "s2", "s3"} {
		sess := newSession(id, "co-"+id, "ac-"+id, storeBase.Add(time.Duration(i)*time.Minute))
		if err := s.Create(ctx, sess); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	mark := func(id string, fn func(*model.FlightSession)) {
		if err := s.Update(ctx, id, func(sess *model.FlightSession) error {
			fn(sess)
			return nil
		}); err != nil {
			t.Fatalf("update %s: %v", id, err)
		}
	}

	mark("s2", func(sess *model.FlightSession) {
		sess.Status = model.SessionLanded
		sess.SettlementPending = true
	})
	mark("s3", func(sess *model.FlightSession) {
		sess.Status = model.SessionCompleted
		sess.Settled = true
	})

	ids, err := s.PendingSettlement(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(ids) != 1 || ids[0] != "s2" {
		t.Errorf("pending = %v, want [s2]", ids)
	}
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	if err := s.Create(ctx, newSession("s1", "co-1", "ac-1", storeBase)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "s1", func(sess *model.FlightSession) error {
				sess.FlightScore--
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := s.Get(ctx, "s1")
	if got.FlightScore != 50 {
		t.Errorf("score = %d, want 50 after 50 serialized decrements", got.FlightScore)
	}
}
