package domain

import "time"

// RequestStatus tracks a command request through its lifecycle
type RequestStatus string

const (
	RequestStatusCreated    RequestStatus = "CREATED"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusSuccess    RequestStatus = "SUCCESS"
	RequestStatusError      RequestStatus = "ERROR"
)

// IsComplete returns true once the request reached a terminal status
func (s RequestStatus) IsComplete() bool {
	return s == RequestStatusSuccess || s == RequestStatusError
}

// Request records one invocation of a command by a remote requester
type Request struct {
	ID          string         `json:"id" yaml:"id" cbor:"id"`
	Command     string         `json:"command" yaml:"command" cbor:"command"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" cbor:"parameters,omitempty"`
	Status      RequestStatus  `json:"status" yaml:"status" cbor:"status"`
	Output      any            `json:"output,omitempty" yaml:"output,omitempty" cbor:"output,omitempty"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
	ErrorClass  string         `json:"error_class,omitempty" yaml:"error_class,omitempty" cbor:"error_class,omitempty"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at" cbor:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" yaml:"updated_at" cbor:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" yaml:"completed_at,omitempty" cbor:"completed_at,omitempty"`
}

// NewRequest creates a request in CREATED status
func NewRequest(id, command string, params map[string]any) *Request {
	now := time.Now().UTC()
	return &Request{
		ID:         id,
		Command:    command,
		Parameters: params,
		Status:     RequestStatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Start marks the request as in progress
func (r *Request) Start() {
	r.Status = RequestStatusInProgress
	r.UpdatedAt = time.Now().UTC()
}

// Complete records the outcome of the command
func (r *Request) Complete(output any, err error) {
	now := time.Now().UTC()
	r.UpdatedAt = now
	r.CompletedAt = &now
	if err != nil {
		r.Status = RequestStatusError
		r.Error = err.Error()
		if r.ErrorClass == "" {
			r.ErrorClass = ErrorClass(err)
		}
		return
	}
	r.Status = RequestStatusSuccess
	r.Output = output
}

// Fail marks the request as failed with an explicit error class
func (r *Request) Fail(class string, err error) {
	r.ErrorClass = class
	r.Complete(nil, err)
}
