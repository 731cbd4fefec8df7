package repository

import (
	"context"
	"errors"
	"time"

	"netcommand/internal/domain"
)

// ErrNotFound is returned when a request ID does not exist
var ErrNotFound = errors.New("request not found")

// RequestFilter narrows a request listing. Zero values match everything.
type RequestFilter struct {
	Command string
	Status  domain.RequestStatus
	// Limit caps the number of results, newest first. Zero means no limit.
	Limit int
}

// Repository defines the interface for request history access
type Repository interface {
	// Write operations
	CreateRequest(ctx context.Context, req *domain.Request) error
	UpdateRequest(ctx context.Context, req *domain.Request) error

	// Read operations
	GetRequest(ctx context.Context, id string) (*domain.Request, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]*domain.Request, error)

	// PruneBefore deletes completed requests created before cutoff and
	// returns how many were removed
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases resources
	Close() error
}
