package response

import "encoding/json"

type ResponseData struct {
	Ec    int    `json:"ec"`
	Msg   string `json:"msg,omitempty"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// RawResponseData is the client side view of ResponseData; Data is decoded
// later into the caller's result type.
type RawResponseData struct {
	Ec    int             `json:"ec"`
	Msg   string          `json:"msg,omitempty"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}
