package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/model"
	"github.com/skyward-io/skyward/internal/store"
)

const (
	testAPIKey    = "key-alpha"
	testCompanyID = "co-alpha"
)

// flakyLedger fails every write while tripped. Used to drive the
// pending-settlement retry path.
type flakyLedger struct {
	inner   *store.LedgerStore
	tripped bool
}

func (l *flakyLedger) ApplySettlement(ctx context.Context, entry core.LedgerEntry) error {
	if l.tripped {
		return errors.New("ledger unavailable")
	}
	return l.inner.ApplySettlement(ctx, entry)
}

type testHarness struct {
	svc         *Service
	companies   *store.CompanyStore
	sessions    *store.SessionStore
	connections *store.ConnectionStore
	ledger      *flakyLedger
	fleet       *store.FleetMemStore
	reputation  *store.ReputationMemStore

	now time.Time
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		companies:   store.NewCompanyStore(),
		sessions:    store.NewSessionStore(),
		connections: store.NewConnectionStore(),
		ledger:      &flakyLedger{inner: store.NewLedgerStore()},
		fleet:       store.NewFleetMemStore(),
		reputation:  store.NewReputationMemStore(),
		now:         time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	if err := h.companies.Add(&model.Company{ID: testCompanyID, Name: "Alpha Air", APIKey: testAPIKey}); err != nil {
		t.Fatalf("seed company: %v", err)
	}

	h.svc = New(
		h.companies, h.sessions, h.connections,
		h.ledger, h.fleet, h.reputation,
		Config{WriteTimeout: time.Second, StaleAfter: 15 * time.Second, SweepConcurrency: 4},
		WithClock(func() time.Time { return h.now }),
	)
	return h
}

func (h *testHarness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *testHarness) dispatch(t *testing.T, contract *model.Contract) *model.FlightSession {
	t.Helper()
	sess, err := h.svc.DispatchFlight(context.Background(), DispatchRequest{
		CompanyID:  testCompanyID,
		AircraftID: "ac-1",
		Contract:   contract,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	return sess
}

func (h *testHarness) submit(t *testing.T, sample *model.TelemetrySample) *SubmitResult {
	t.Helper()
	res, err := h.svc.SubmitSample(context.Background(), testAPIKey, sample)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return res
}

func nominalSample(onGround bool) *model.TelemetrySample {
	s := &model.TelemetrySample{
		Altitude:          12000,
		GroundSpeed:       180,
		IndicatedAirspeed: 250,
		Pitch:             2,
		FuelQuantity:      5000,
		FuelPercent:       80,
		GForce:            1.0,
		GearDown:          true,
		OnGround:          onGround,
		Engine1Running:    true,
		Engine2Running:    true,
	}
	if onGround {
		s.Altitude = 30
		s.GroundSpeed = 0
		s.IndicatedAirspeed = 0
	}
	return s
}

// flyLeg drives a full flight up to touchdown but not parking.
func (h *testHarness) flyLeg(t *testing.T, touchdownG, touchdownVS float64) {
	t.Helper()

	h.submit(t, nominalSample(true))
	h.advance(time.Second)
	h.submit(t, nominalSample(false))
	h.advance(time.Second)

	touchdown := nominalSample(true)
	touchdown.GForce = touchdownG
	touchdown.VerticalSpeed = touchdownVS
	res := h.submit(t, touchdown)
	if !res.TouchedDown {
		t.Fatal("expected a touchdown")
	}
	h.advance(time.Second)
}

func (h *testHarness) park(t *testing.T) *SubmitResult {
	t.Helper()
	parked := nominalSample(true)
	parked.ParkingBrake = true
	parked.Engine1Running = false
	parked.Engine2Running = false
	res := h.submit(t, parked)
	h.advance(time.Second)
	return res
}

func TestFullFlightSettlement(t *testing.T) {
	h := newHarness(t)
	sess := h.dispatch(t, &model.Contract{ID: "ct-1", BasePayout: 10000})

	h.flyLeg(t, 0.4, -60) // butter touchdown
	res := h.park(t)

	if res.Settlement == nil {
		t.Fatal("parking a landed flight must settle it")
	}
	st := res.Settlement

	if st.FinalScore != 100 {
		t.Errorf("final score = %d, want 100", st.FinalScore)
	}
	if st.LandingGrade != model.LandingSoft {
		t.Errorf("landing grade = %v, want SOFT", st.LandingGrade)
	}
	if st.TouchdownGrade != model.TouchdownButter {
		t.Errorf("touchdown grade = %v, want BUTTER", st.TouchdownGrade)
	}
	if st.Reputation != model.ReputationExcellent {
		t.Errorf("reputation = %v, want EXCELLENT", st.Reputation)
	}
	// base 10000 + 10000*4 bonus.
	if st.TotalPayout != 50000 {
		t.Errorf("payout = %v, want 50000", st.TotalPayout)
	}
	if st.Stars.Overall != 5 {
		t.Errorf("overall stars = %d, want 5", st.Stars.Overall)
	}

	if got := h.ledger.inner.Balance(testCompanyID); got != 50000 {
		t.Errorf("ledger balance = %v, want 50000", got)
	}
	if n := h.reputation.Count(testCompanyID, model.ReputationExcellent); n != 1 {
		t.Errorf("reputation applications = %d, want 1", n)
	}

	final, err := h.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if final.Status != model.SessionCompleted || !final.Settled {
		t.Errorf("session not completed: status=%v settled=%v", final.Status, final.Settled)
	}
}

func TestSettlementIdempotent(t *testing.T) {
	h := newHarness(t)
	sess := h.dispatch(t, &model.Contract{ID: "ct-1", BasePayout: 10000})

	h.flyLeg(t, 0.4, -60)
	first := h.park(t)
	if first.Settlement == nil {
		t.Fatal("expected settlement")
	}

	// Explicit re-settlement returns the stored result and charges nothing.
	second, err := h.svc.Settle(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("re-settle: %v", err)
	}
	if second.SettledAt != first.Settlement.SettledAt {
		t.Error("duplicate settlement produced a different result")
	}
	if n := h.ledger.inner.Entries(); n != 1 {
		t.Errorf("ledger entries = %d, want 1", n)
	}
	if n := h.reputation.Count(testCompanyID, model.ReputationExcellent); n != 1 {
		t.Errorf("reputation applied %d times, want 1", n)
	}
}

func TestSettlementPendingRetry(t *testing.T) {
	h := newHarness(t)
	sess := h.dispatch(t, &model.Contract{ID: "ct-1", BasePayout: 10000})

	h.flyLeg(t, 1.2, -150)

	h.ledger.tripped = true
	res := h.park(t)
	if res.Settlement != nil {
		t.Fatal("settlement must defer while the ledger is down")
	}

	got, err := h.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !got.SettlementPending || got.Settled {
		t.Fatalf("want pending, got pending=%v settled=%v", got.SettlementPending, got.Settled)
	}
	if got.Status != model.SessionLanded {
		t.Errorf("status = %v, want landed", got.Status)
	}

	// Ledger comes back; the retry loop completes the settlement.
	h.ledger.tripped = false
	if n := h.svc.RetryPendingSettlements(context.Background()); n != 1 {
		t.Fatalf("retried %d sessions, want 1", n)
	}

	got, err = h.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !got.Settled || got.Status != model.SessionCompleted {
		t.Errorf("after retry: settled=%v status=%v", got.Settled, got.Status)
	}
	if n := h.ledger.inner.Entries(); n != 1 {
		t.Errorf("ledger entries = %d, want 1", n)
	}
}

func TestSubmitUnauthorized(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.SubmitSample(context.Background(), "bogus", nominalSample(true))
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	// No contact is recorded for an unknown key.
	states, err := h.connections.List(context.Background())
	if err != nil {
		t.Fatalf("list connections: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("connection states = %d, want 0", len(states))
	}
}

func TestSubmitMalformedStillCountsAsContact(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)

	bad := nominalSample(true)
	bad.GForce = math.NaN()
	_, err := h.svc.SubmitSample(context.Background(), testAPIKey, bad)
	if !errors.Is(err, core.ErrMalformedSample) {
		t.Fatalf("err = %v, want ErrMalformedSample", err)
	}

	state, err := h.connections.Get(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionConnected {
		t.Errorf("status = %v, want connected despite malformed sample", state.Status)
	}
}

func TestSubmitNoActiveFlight(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.SubmitSample(context.Background(), testAPIKey, nominalSample(true))
	if !errors.Is(err, core.ErrNoActiveFlight) {
		t.Fatalf("err = %v, want ErrNoActiveFlight", err)
	}

	// The sample still counted as contact.
	state, err := h.connections.Get(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionConnected {
		t.Errorf("status = %v, want connected", state.Status)
	}
}

func TestDispatchAircraftBusy(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)

	_, err := h.svc.DispatchFlight(context.Background(), DispatchRequest{
		CompanyID:  testCompanyID,
		AircraftID: "ac-1",
	})
	if !errors.Is(err, core.ErrAircraftBusy) {
		t.Fatalf("err = %v, want ErrAircraftBusy", err)
	}
}

func TestStaleSampleIsIdempotentNoOp(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)

	h.submit(t, nominalSample(true))

	old := nominalSample(false)
	old.Timestamp = h.now.Add(-time.Minute)
	res := h.submit(t, old)
	if !res.Stale {
		t.Fatal("expected the out-of-order sample to be flagged stale")
	}
	if res.Phase != model.PhaseGround {
		t.Errorf("phase = %v, want ground unchanged", res.Phase)
	}
}

func TestSweepFlagsStaleCompanies(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)
	h.submit(t, nominalSample(true))

	// Within the threshold: still connected.
	h.advance(10 * time.Second)
	report, err := h.svc.SweepConnections(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Statuses[testCompanyID] != model.ConnectionConnected {
		t.Errorf("status = %v, want connected", report.Statuses[testCompanyID])
	}

	// Past the threshold: disconnected, but the session is untouched.
	h.advance(10 * time.Second)
	report, err = h.svc.SweepConnections(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Checked != 1 {
		t.Errorf("checked = %d, want 1", report.Checked)
	}
	if report.Statuses[testCompanyID] != model.ConnectionDisconnected {
		t.Errorf("status = %v, want disconnected", report.Statuses[testCompanyID])
	}

	id, err := h.sessions.ActiveByCompany(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("active session gone after sweep: %v", err)
	}
	sess, err := h.sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Status == model.SessionCompleted {
		t.Error("sweep must never complete a session")
	}

	// Samples resume: the badge flips back on the next sweep.
	h.submit(t, nominalSample(true))
	report, err = h.svc.SweepConnections(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Statuses[testCompanyID] != model.ConnectionConnected {
		t.Errorf("status = %v, want connected after resume", report.Statuses[testCompanyID])
	}
}

func TestConnectionLifecycleStatuses(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)

	// Before the first sample the company is connecting, not disconnected.
	state, err := h.svc.Connection(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionConnecting {
		t.Errorf("status = %v, want connecting before first contact", state.Status)
	}

	h.submit(t, nominalSample(true))
	state, err = h.svc.Connection(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionConnected {
		t.Errorf("status = %v, want connected after first sample", state.Status)
	}

	// Past the staleness window the sweep demotes to disconnected.
	h.advance(16 * time.Second)
	if _, err := h.svc.SweepConnections(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	state, err = h.svc.Connection(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionDisconnected {
		t.Errorf("status = %v, want disconnected after staleness", state.Status)
	}
}

func TestSweepNeverPromotes(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, nil)
	h.submit(t, nominalSample(true))

	// Force the badge down while the last sample is still fresh. The
	// sweep must leave it alone; only new contact brings it back.
	if err := h.connections.SetStatus(context.Background(), testCompanyID, model.ConnectionDisconnected); err != nil {
		t.Fatalf("set status: %v", err)
	}

	report, err := h.svc.SweepConnections(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Statuses[testCompanyID] != model.ConnectionDisconnected {
		t.Errorf("status = %v, want disconnected untouched by the sweep", report.Statuses[testCompanyID])
	}

	h.submit(t, nominalSample(true))
	state, err := h.connections.Get(context.Background(), testCompanyID)
	if err != nil {
		t.Fatalf("get connection: %v", err)
	}
	if state.Status != model.ConnectionConnected {
		t.Errorf("status = %v, want connected after new contact", state.Status)
	}
}

func TestHardLandingSettlementMath(t *testing.T) {
	h := newHarness(t)
	h.dispatch(t, &model.Contract{ID: "ct-1", BasePayout: 10000})

	h.flyLeg(t, 2.0, -800)
	res := h.park(t)
	if res.Settlement == nil {
		t.Fatal("expected settlement")
	}
	st := res.Settlement

	if st.LandingGrade != model.LandingHard {
		t.Errorf("landing grade = %v, want HARD", st.LandingGrade)
	}
	if st.TouchdownGrade != model.TouchdownVeryHard {
		t.Errorf("touchdown grade = %v, want VERY_HARD", st.TouchdownGrade)
	}
	if st.FinalScore != 85 {
		t.Errorf("final score = %d, want 85", st.FinalScore)
	}
	if st.MaintenanceCost != 5000 {
		t.Errorf("maintenance = %v, want 5000", st.MaintenanceCost)
	}
	// base 10000 - 10000*0.5 malus.
	if st.TotalPayout != 5000 {
		t.Errorf("payout = %v, want 5000", st.TotalPayout)
	}
	if st.ScoreAdjustment != -50 {
		t.Errorf("score adjustment = %d, want -50", st.ScoreAdjustment)
	}

	// Net ledger impact: 5000 revenue - 5000 maintenance.
	if got := h.ledger.inner.Balance(testCompanyID); got != 0 {
		t.Errorf("ledger balance = %v, want 0", got)
	}
}
