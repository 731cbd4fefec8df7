package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"netcommand/internal/command"
	"netcommand/internal/domain"
	"netcommand/internal/driver"
	"netcommand/internal/repository"
	"netcommand/internal/repository/sqlite"
)

// stubRunner serves the default command table with canned results
type stubRunner struct {
	ops     map[string]command.Operation
	results map[string]any
	errs    map[string]error
	invoked []driver.Args
}

func newStubRunner() *stubRunner {
	r := &stubRunner{
		ops:     map[string]command.Operation{},
		results: map[string]any{},
		errs:    map[string]error{},
	}
	for _, op := range command.DefaultOperations() {
		r.ops[op.Name] = op
	}
	return r
}

func (r *stubRunner) Lookup(name string) (command.Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

func (r *stubRunner) Operations() []command.Operation {
	return command.DefaultOperations()
}

func (r *stubRunner) Invoke(ctx context.Context, name string, args driver.Args) (any, error) {
	r.invoked = append(r.invoked, args)
	return r.results[name], r.errs[name]
}

func newTestService(t *testing.T) (*RequestService, *stubRunner, chan Event) {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)

	runner := newStubRunner()
	svc := NewRequestService(repo, runner, bus)
	n := 0
	svc.newID = func() string {
		n++
		return "req-" + string(rune('0'+n))
	}
	return svc, runner, events
}

func drain(ch chan Event) []EventType {
	var types []EventType
	for {
		select {
		case e := <-ch:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestExecuteSuccess(t *testing.T) {
	svc, runner, events := newTestService(t)
	runner.results["get_facts"] = map[string]any{"hostname": "r1"}

	req, err := svc.Execute(context.Background(), "get_facts", nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if req.Status != domain.RequestStatusSuccess {
		t.Errorf("Status = %s, want SUCCESS", req.Status)
	}
	if req.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}

	stored, err := svc.GetRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("GetRequest() error: %v", err)
	}
	if stored.Status != domain.RequestStatusSuccess {
		t.Errorf("stored Status = %s, want SUCCESS", stored.Status)
	}
	if out, ok := stored.Output.(map[string]any); !ok || out["hostname"] != "r1" {
		t.Errorf("stored Output = %v", stored.Output)
	}

	got := drain(events)
	if len(got) != 2 || got[0] != EventRequestCreated || got[1] != EventRequestCompleted {
		t.Errorf("events = %v, want [request_created request_completed]", got)
	}
}

func TestExecuteForwardsBoundArguments(t *testing.T) {
	svc, runner, _ := newTestService(t)

	_, err := svc.Execute(context.Background(), "ping", map[string]any{"destination": "192.0.2.1", "count": float64(2)})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(runner.invoked) != 1 {
		t.Fatalf("invoked %d times, want 1", len(runner.invoked))
	}
	args := runner.invoked[0]
	if args["count"] != 2 || args["ttl"] != command.PingTTL {
		t.Errorf("forwarded args = %v", args)
	}
}

func TestExecuteValidationFailure(t *testing.T) {
	svc, runner, events := newTestService(t)

	req, err := svc.Execute(context.Background(), "ping", map[string]any{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if req.Status != domain.RequestStatusError || req.ErrorClass != ErrorClassValidation {
		t.Errorf("request = %s/%s, want ERROR/ValidationError", req.Status, req.ErrorClass)
	}
	if len(runner.invoked) != 0 {
		t.Error("command should not run when validation fails")
	}
	if got := drain(events); len(got) != 2 {
		t.Errorf("events = %v, want created and completed", got)
	}
}

func TestExecuteCommandFailure(t *testing.T) {
	svc, runner, _ := newTestService(t)
	runner.errs["commit_config"] = &domain.ConnectionError{Op: "open", Driver: "mock", Host: "r1", Err: errors.New("refused")}

	req, err := svc.Execute(context.Background(), "commit_config", nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if req.Status != domain.RequestStatusError || req.ErrorClass != "ConnectionError" {
		t.Errorf("request = %s/%s, want ERROR/ConnectionError", req.Status, req.ErrorClass)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	svc, _, events := newTestService(t)

	_, err := svc.Execute(context.Background(), "reboot", nil)
	var unknown *command.UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("Execute() error = %v, want UnknownCommandError", err)
	}
	if got := drain(events); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}

	reqs, _ := svc.ListRequests(context.Background(), repository.RequestFilter{})
	if len(reqs) != 0 {
		t.Errorf("recorded %d requests for an unknown command", len(reqs))
	}
}

func TestGetRequestNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetRequest(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("GetRequest() error = %v, want not found", err)
	}
}

func TestPrune(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Execute(ctx, "get_facts", nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	n, err := svc.Prune(ctx, 0)
	if err != nil || n != 0 {
		t.Errorf("Prune(0) = %d, %v, want 0, nil", n, err)
	}

	n, err = svc.Prune(ctx, time.Hour)
	if err != nil || n != 0 {
		t.Errorf("Prune(1h) = %d, %v, want nothing pruned", n, err)
	}

	n, err = svc.Prune(ctx, -time.Hour)
	if err != nil || n != 0 {
		t.Errorf("Prune(-1h) = %d, %v, want retention disabled", n, err)
	}
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	fast := make(chan Event, 1)
	slow := make(chan Event)
	bus.Subscribe(fast)
	bus.Subscribe(slow)

	bus.Publish(Event{Type: EventRequestCreated})

	select {
	case e := <-fast:
		if e.Type != EventRequestCreated {
			t.Errorf("event type = %s", e.Type)
		}
	default:
		t.Error("fast subscriber did not receive event")
	}

	bus.Unsubscribe(fast)
	bus.Publish(Event{Type: EventRequestCompleted})
	select {
	case e := <-fast:
		t.Errorf("unsubscribed channel received %v", e)
	default:
	}
}

func TestSystemService(t *testing.T) {
	svc := NewSystemService(SystemInfo{
		Name:        "mock-plugin",
		Version:     "0.1.0",
		Description: "Command and control for mock device",
		Driver:      "mock",
		Device:      "r1",
	}, newStubRunner())

	sys := svc.Describe()
	if sys.Name != "mock-plugin" || sys.Driver != "mock" {
		t.Errorf("Describe() = %+v", sys)
	}
	if len(sys.Commands) != len(command.DefaultOperations()) {
		t.Errorf("Describe() lists %d commands", len(sys.Commands))
	}
	if sys.Commands[0].Name != "open" || sys.Commands[0].Parameters == nil {
		t.Errorf("first command = %+v", sys.Commands[0])
	}

	ping, ok := svc.Command("ping")
	if !ok || len(ping.Parameters) != 7 {
		t.Errorf("Command(ping) = %+v, %v", ping, ok)
	}
	if _, ok := svc.Command("reboot"); ok {
		t.Error("Command(reboot) should not exist")
	}
}

// failingUpdates fails the first n UpdateRequest calls
type failingUpdates struct {
	repository.Repository
	n int
}

func (r *failingUpdates) UpdateRequest(ctx context.Context, req *domain.Request) error {
	if r.n > 0 {
		r.n--
		return errors.New("disk I/O error")
	}
	return r.Repository.UpdateRequest(ctx, req)
}

func TestExecuteStartNotRecorded(t *testing.T) {
	svc, runner, events := newTestService(t)
	repo := &failingUpdates{Repository: svc.repo, n: 1}
	svc.repo = repo

	_, err := svc.Execute(context.Background(), "get_facts", nil)
	if err == nil {
		t.Fatal("Execute() should fail when the start cannot be recorded")
	}
	if len(runner.invoked) != 0 {
		t.Errorf("command ran %d time(s), want 0", len(runner.invoked))
	}

	got, err := svc.GetRequest(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("GetRequest() error: %v", err)
	}
	if got.Status != domain.RequestStatusError {
		t.Errorf("Status = %s, want ERROR", got.Status)
	}
	if got.ErrorClass != ErrorClassStorage {
		t.Errorf("ErrorClass = %s, want %s", got.ErrorClass, ErrorClassStorage)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}

	types := drain(events)
	want := []EventType{EventRequestCreated, EventRequestCompleted}
	if len(types) != len(want) || types[0] != want[0] || types[1] != want[1] {
		t.Errorf("events = %v, want %v", types, want)
	}
}

func TestExecuteStartAndOutcomeNotRecorded(t *testing.T) {
	svc, _, events := newTestService(t)
	svc.repo = &failingUpdates{Repository: svc.repo, n: 2}

	if _, err := svc.Execute(context.Background(), "get_facts", nil); err == nil {
		t.Fatal("Execute() should fail when the store is failing")
	}

	got, err := svc.GetRequest(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("GetRequest() error: %v", err)
	}
	if got.Status != domain.RequestStatusCreated {
		t.Errorf("Status = %s, want CREATED", got.Status)
	}
	if types := drain(events); len(types) != 1 || types[0] != EventRequestCreated {
		t.Errorf("events = %v, want only %s", types, EventRequestCreated)
	}
}
