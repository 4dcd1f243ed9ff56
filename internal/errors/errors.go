// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCustomerNotFound is a sentinel error
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrGenerationFailed wraps an unusable text-generation response. The caller
// surfaces it as a generic failure and never retries.
type ErrGenerationFailed struct {
	Op  string
	Err error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("text generation failed during %s: %v", e.Op, e.Err)
}

func (e *ErrGenerationFailed) Unwrap() error { return e.Err }

func NewGenerationFailed(op string, err error) error {
	return &ErrGenerationFailed{Op: op, Err: err}
}

// FieldError is one field-level validation problem.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrValidation carries field-level detail for malformed input payloads.
type ErrValidation struct {
	Fields []FieldError
}

func (e *ErrValidation) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Reason)
}

func NewValidation(fields ...FieldError) error {
	return &ErrValidation{Fields: fields}
}
