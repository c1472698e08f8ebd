package scoreclient

// TransportError is a failure before a response body was obtained: the
// request could not be sent, the connection broke or the context ended.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response from the audio endpoint. Body is the
// response text as received.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return "Server error"
	}
	return e.Body
}

// DecodeError is a response body that is not valid JSON.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

