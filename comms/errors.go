package comms

// WireError carries a game error code over a connection.
type WireError struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *WireError) Error() string { return e.Msg }

// WrapError makes an error safe to serialize. Errors with an ErrorCode keep
// their code, anything else becomes a plain ERROR.
func WrapError(err error) *WireError {
	if err == nil {
		return nil
	}
	code := "ERROR"
	if ec, ok := err.(interface{ ErrorCode() string }); ok {
		code = ec.ErrorCode()
	}
	return &WireError{Code: code, Msg: err.Error()}
}

// ConnectResponse is the first message a client gets back.
type ConnectResponse struct {
	Room   string     `json:"room,omitempty"`
	Player string     `json:"player,omitempty"`
	Name   string     `json:"name,omitempty"`
	Err    *WireError `json:"error,omitempty"`
}

// PlayResponse answers one request.
type PlayResponse struct {
	Msg interface{} `json:"msg,omitempty"`
	Err *WireError  `json:"error,omitempty"`
}
