// Package bridge adapts a registered bmi.Model to the bmi.v1.BmiService RPC
// surface: single-slot model registration, lifecycle-gated dispatch with
// serialized model access, typed-array marshaling, and the server that owns
// the model handle for the process lifetime.
package bridge
