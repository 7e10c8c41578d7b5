// Package domain defines the core business entities for medexpert.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WorkingMemory: Facts gathered during one interview plus the affirmed-symptom set
//   - Catalog: The immutable rule catalog (questions, branches, disease rules, profiles)
//   - Diagnosis / Outcome: The single terminal result of an interview
//   - SessionRecord: The immutable log entry appended when a session ends
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
