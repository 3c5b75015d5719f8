package serviceclient

import (
	"errors"
	"fmt"
)

// ErrContractViolation matches every misuse of the client API. These are
// programming errors: retrying will not help.
var ErrContractViolation = errors.New("service client contract violation")

var (
	ErrNoInvocation  = errors.New("invocation is nil: invoke exactly one stub method before calling")
	ErrNoContext     = errors.New("invocation context is nil")
	ErrNoOperation   = errors.New("invocation operation is nil")
	ErrArgumentCount = errors.New("argument count does not match the declared parameter count")
)

// ContractError reports a misuse of the client API. errors.Is matches both
// ErrContractViolation and the specific cause.
type ContractError struct {
	Err    error
	Detail string
}

func (e *ContractError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrContractViolation, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrContractViolation, e.Err, e.Detail)
}

func (e *ContractError) Unwrap() []error {
	return []error{ErrContractViolation, e.Err}
}

// InvocationError is returned by transports when a remote call fails.
type InvocationError struct {
	Service   string
	Operation string
	// Status is the transport status: an HTTP status code or a gRPC code.
	// Zero when the request never got a response.
	Status  int
	Message string
	Err     error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("invocation of %s/%s failed", e.Service, e.Operation)
	if e.Status != 0 {
		msg += fmt.Sprintf(" with status %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// NewInvocationError builds an InvocationError for inv.
func NewInvocationError(inv *Invocation, status int, message string, err error) *InvocationError {
	return &InvocationError{
		Service:   inv.Operation.Service,
		Operation: inv.Operation.Name,
		Status:    status,
		Message:   message,
		Err:       err,
	}
}

// validateInvocation checks the invariants every dispatcher relies on.
func validateInvocation(inv *Invocation) error {
	if inv == nil {
		return &ContractError{Err: ErrNoInvocation}
	}
	if inv.Context == nil {
		return &ContractError{Err: ErrNoContext}
	}
	if inv.Operation == nil {
		return &ContractError{Err: ErrNoOperation}
	}
	if inv.Operation.ParamCount != len(inv.Args) {
		return &ContractError{
			Err: ErrArgumentCount,
			Detail: fmt.Sprintf("%s declares %d parameters, got %d arguments",
				inv.Operation.FullName(), inv.Operation.ParamCount, len(inv.Args)),
		}
	}
	return nil
}
