package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"netcommand/internal/command"
	"netcommand/internal/domain"
	"netcommand/internal/driver"
	"netcommand/internal/repository"
)

const (
	// ErrorClassValidation marks requests rejected before reaching the device
	ErrorClassValidation = "ValidationError"
	// ErrorClassStorage marks requests abandoned because the history store
	// failed before the command ran
	ErrorClassStorage = "StorageError"
)

// CommandRunner is the part of the command facade the request service needs
type CommandRunner interface {
	Lookup(name string) (command.Operation, bool)
	Invoke(ctx context.Context, name string, args driver.Args) (any, error)
}

// RequestService records command requests and runs them on the device
type RequestService struct {
	repo     repository.Repository
	runner   CommandRunner
	eventBus *EventBus
	newID    func() string
}

// NewRequestService creates a new request service
func NewRequestService(repo repository.Repository, runner CommandRunner, eventBus *EventBus) *RequestService {
	return &RequestService{
		repo:     repo,
		runner:   runner,
		eventBus: eventBus,
		newID:    uuid.NewString,
	}
}

// Execute validates params, records a request and runs the command
// synchronously. Command failures are recorded on the returned request; the
// error return is reserved for unknown commands and storage failures.
func (s *RequestService) Execute(ctx context.Context, name string, params map[string]any) (*domain.Request, error) {
	op, ok := s.runner.Lookup(name)
	if !ok {
		return nil, &command.UnknownCommandError{Name: name}
	}

	req := domain.NewRequest(s.newID(), name, params)
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("record request: %w", err)
	}
	s.publish(EventRequestCreated, req)

	// The outcome is stored even if the requester goes away mid-command
	storeCtx := context.WithoutCancel(ctx)

	args, err := op.Bind(params)
	if err != nil {
		req.Fail(ErrorClassValidation, err)
		return s.finish(storeCtx, req)
	}

	req.Start()
	if err := s.repo.UpdateRequest(storeCtx, req); err != nil {
		// The command is not run, but the record still gets a terminal status
		req.Fail(ErrorClassStorage, fmt.Errorf("record start: %w", err))
		if _, finishErr := s.finish(storeCtx, req); finishErr != nil {
			log.Printf("Request %s left incomplete: %v", req.ID, finishErr)
		}
		return nil, fmt.Errorf("record request: %w", err)
	}

	start := time.Now()
	output, err := s.runner.Invoke(ctx, name, args)
	req.Complete(output, err)
	if err != nil {
		log.Printf("Command %s (%s) failed after %s: %v", name, req.ID, time.Since(start), err)
	} else {
		log.Printf("Command %s (%s) completed in %s", name, req.ID, time.Since(start))
	}

	return s.finish(storeCtx, req)
}

func (s *RequestService) finish(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("record request outcome: %w", err)
	}
	s.publish(EventRequestCompleted, req)
	return req, nil
}

func (s *RequestService) publish(t EventType, req *domain.Request) {
	if s.eventBus == nil {
		return
	}
	payload := map[string]string{
		"request_id": req.ID,
		"command":    req.Command,
		"status":     string(req.Status),
	}
	if req.ErrorClass != "" {
		payload["error_class"] = req.ErrorClass
	}
	s.eventBus.Publish(Event{Type: t, Payload: payload})
}

// GetRequest retrieves a recorded request by ID
func (s *RequestService) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListRequests returns recorded requests, newest first
func (s *RequestService) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]*domain.Request, error) {
	return s.repo.ListRequests(ctx, filter)
}

// Prune removes completed requests older than retention. A zero retention
// keeps everything.
func (s *RequestService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := s.repo.PruneBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("Pruned %d request(s) older than %s", n, retention)
	}
	return n, nil
}

// IsNotFound reports whether err means a request ID does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
