package model

import "encoding/json"

// InvocationRequest is the wire body of a remote operation call.
type InvocationRequest struct {
	Args []any `json:"args"`
}

// InvocationPayload is how a server reads an InvocationRequest: arguments
// stay encoded until the target operation decodes them into its own types.
type InvocationPayload struct {
	Args []json.RawMessage `json:"args"`
}

// OperationParams are the path parameters of the service endpoint.
type OperationParams struct {
	Service   string `uri:"service"   validate:"required,max=64,hostname_rfc1123"`
	Operation string `uri:"operation" validate:"required,max=64,alphanum"`
}
