// Package bmiv1 defines the bmi.v1.BmiService wire contract: the request and
// response messages, the CBOR message codec, the service descriptor consumed
// by the gRPC runtime, and a typed client.
//
// The descriptor and handler shims follow the layout protoc-gen-go-grpc emits
// so the service plugs into grpc.Server like any generated API. Message bodies
// travel as CBOR under the "cbor" content-subtype; typed-array values are
// carried opaquely as tagged, canonically-ordered byte buffers produced by the
// bridge marshaler, never re-encoded by this package.
package bmiv1
