package bmiv1

// Empty is the request or response for methods that carry no data.
type Empty struct{}

// WirePayload is a typed array on the wire: an explicit element-type tag, the
// array shape (scalars are shape [1]), and a flat big-endian byte buffer.
// The tag is authoritative; element types are never inferred from the buffer.
type WirePayload struct {
	Type  string  `cbor:"type"`
	Shape []int64 `cbor:"shape"`
	Data  []byte  `cbor:"data"`
}

// GetComponentNameResponse carries the model's component identity.
type GetComponentNameResponse struct {
	Name string `cbor:"name"`
}

// GetVarNamesResponse lists declared input or output variable names.
type GetVarNamesResponse struct {
	Names []string `cbor:"names"`
}

// InitializeRequest points the model at its configuration resource.
type InitializeRequest struct {
	ConfigPath string `cbor:"config_path"`
}

// UpdateUntilRequest asks the model to advance to the given simulated time.
type UpdateUntilRequest struct {
	Time float64 `cbor:"time"`
}

// GetTimeResponse carries a single time query result.
type GetTimeResponse struct {
	Time float64 `cbor:"time"`
}

// GetTimeUnitsResponse carries the model's time unit string.
type GetTimeUnitsResponse struct {
	Units string `cbor:"units"`
}

// GetVarInfoRequest names the variable to describe.
type GetVarInfoRequest struct {
	Name string `cbor:"name"`
}

// GetVarInfoResponse describes a declared variable.
type GetVarInfoResponse struct {
	Type      string `cbor:"type"`
	ItemCount int64  `cbor:"item_count"`
	Grid      int32  `cbor:"grid"`
	Units     string `cbor:"units"`
}

// GetGridInfoRequest names the grid to describe.
type GetGridInfoRequest struct {
	Grid int32 `cbor:"grid"`
}

// GetGridInfoResponse describes grid geometry.
type GetGridInfoResponse struct {
	Type    string    `cbor:"type"`
	Rank    int32     `cbor:"rank"`
	Shape   []int64   `cbor:"shape"`
	Spacing []float64 `cbor:"spacing"`
}

// GetValueRequest names the variable to read.
type GetValueRequest struct {
	Name string `cbor:"name"`
}

// GetValueResponse carries the variable's current values.
type GetValueResponse struct {
	Payload *WirePayload `cbor:"payload"`
}

// SetValueRequest replaces the named variable's values.
type SetValueRequest struct {
	Name    string       `cbor:"name"`
	Payload *WirePayload `cbor:"payload"`
}
