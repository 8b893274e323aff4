package llm

import "fmt"

// TransportError reports a network, authentication, or service failure
// while opening or reading a token stream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed or unexpected response shape from a
// provider (e.g. a refusal, an empty candidate list, a truncated reply).
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("llm: protocol: %s", e.Msg)
}
