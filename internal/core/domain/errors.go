package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown backend or question kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// Interview Errors.

	// ErrEngineFault indicates an unexpected failure while running an interview.
	// The session ends without a diagnosis and nothing is recorded.
	ErrEngineFault = errors.New("engine fault")

	// ErrRecorderFailure indicates a session record could not be appended.
	// It is reported to the user but never aborts the interview.
	ErrRecorderFailure = errors.New("session recorder failure")

	// ErrInvalidCatalog indicates the rule catalog failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrUnknownSymptom indicates a token missing from the symptom registry.
	ErrUnknownSymptom = errors.New("unknown symptom")

	// ErrNoTreatment indicates there is no diagnosis to resolve treatment for.
	ErrNoTreatment = errors.New("no treatment available")
)
