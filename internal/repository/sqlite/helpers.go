package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"netcommand/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToTimePtr safely converts sql.NullTime to *time.Time
func nullToTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time.UTC()
		return &t
	}
	return nil
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timePtrToNull safely converts *time.Time to sql.NullTime
func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals interface to nullable JSON string
// Returns empty NullString for nil or empty maps
func marshalToNull(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}

	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Request Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between:
// - requestColumns constant
// - scanArgs() return slice
// - requestInsertArgs() return slice

// requestRow holds all columns from a request query for scanning
type requestRow struct {
	ID             string
	Command        string
	ParametersJSON sql.NullString
	Status         string
	OutputJSON     sql.NullString
	Error          sql.NullString
	ErrorClass     sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    sql.NullTime
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match requestColumns order exactly:
// id, command, parameters, status, output, error, error_class,
// created_at, updated_at, completed_at
func (r *requestRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,             // 1
		&r.Command,        // 2
		&r.ParametersJSON, // 3
		&r.Status,         // 4
		&r.OutputJSON,     // 5
		&r.Error,          // 6
		&r.ErrorClass,     // 7
		&r.CreatedAt,      // 8
		&r.UpdatedAt,      // 9
		&r.CompletedAt,    // 10
	}
}

// toDomain converts the scanned row to a domain.Request
func (r *requestRow) toDomain() (*domain.Request, error) {
	req := &domain.Request{
		ID:          r.ID,
		Command:     r.Command,
		Status:      domain.RequestStatus(r.Status),
		Error:       nullToString(r.Error),
		ErrorClass:  nullToString(r.ErrorClass),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		CompletedAt: nullToTimePtr(r.CompletedAt),
	}

	if err := unmarshalJSONField(r.ParametersJSON, &req.Parameters); err != nil {
		return nil, fmt.Errorf("unmarshal parameters: %w", err)
	}
	if err := unmarshalJSONField(r.OutputJSON, &req.Output); err != nil {
		return nil, fmt.Errorf("unmarshal output: %w", err)
	}

	return req, nil
}

// requestColumns returns the SELECT column list for request queries
const requestColumns = `id, command, parameters, status, output, error, error_class,
	created_at, updated_at, completed_at`

// ============================================================================
// Request Write Helpers
// ============================================================================

// requestInsertArgs prepares arguments for request INSERT
// Returns values in requestColumns order
func requestInsertArgs(req *domain.Request) ([]interface{}, error) {
	paramsJSON, err := marshalToNull(req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}

	// Output keeps empty maps: an empty result differs from no result
	var outputJSON sql.NullString
	if req.Output != nil {
		data, err := json.Marshal(req.Output)
		if err != nil {
			return nil, fmt.Errorf("marshal output: %w", err)
		}
		outputJSON = sql.NullString{String: string(data), Valid: true}
	}

	return []interface{}{
		req.ID,
		req.Command,
		paramsJSON,
		string(req.Status),
		outputJSON,
		stringToNull(req.Error),
		stringToNull(req.ErrorClass),
		req.CreatedAt.UTC(),
		req.UpdatedAt.UTC(),
		timePtrToNull(req.CompletedAt),
	}, nil
}
