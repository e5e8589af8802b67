// Package errors provides structured error handling for the bridge with a
// stable mapping onto gRPC status codes.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Registration errors
	CodeAlreadyRegistered Code = "MODEL_ALREADY_REGISTERED"
	CodeNoModel           Code = "MODEL_NOT_REGISTERED"

	// Lifecycle errors
	CodeInvalidState     Code = "LIFECYCLE_INVALID_STATE"
	CodeAlreadyFinalized Code = "LIFECYCLE_ALREADY_FINALIZED"
	CodeUnrecoverable    Code = "SERVER_UNRECOVERABLE"

	// Model errors
	CodeConfigInvalid Code = "MODEL_CONFIG_INVALID"
	CodeModelFault    Code = "MODEL_FAULT"
	CodeModelCorrupt  Code = "MODEL_STATE_CORRUPT"
	CodeTimeBackward  Code = "MODEL_TIME_BACKWARD"

	// Variable and grid errors
	CodeUnknownVariable Code = "VARIABLE_UNKNOWN"
	CodeUnknownGrid     Code = "GRID_UNKNOWN"
	CodeTypeMismatch    Code = "PAYLOAD_TYPE_MISMATCH"
	CodeShapeMismatch   Code = "PAYLOAD_SHAPE_MISMATCH"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeConfigInvalid,
		CodeTimeBackward,
		CodeTypeMismatch,
		CodeShapeMismatch:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeInvalidState,
		CodeAlreadyFinalized,
		CodeAlreadyRegistered,
		CodeNoModel:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeUnknownVariable,
		CodeUnknownGrid:
		return codes.NotFound

	// Internal - native model faults and bridge corruption
	case CodeModelFault,
		CodeModelCorrupt,
		CodeUnrecoverable:
		return codes.Internal

	default:
		return codes.Internal
	}
}
