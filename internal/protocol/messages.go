package protocol

// CreatePointer asks the host to bind a module.
// A nil Version asks for the latest version.
type CreatePointer struct {
	GUID      string `json:"guid"`
	API       string `json:"api"`
	Version   *int   `json:"version,omitempty"`
	RequestID string `json:"requestId"`
}

// Run invokes a function on a bound module.
type Run struct {
	APIPointerID string `json:"apiPointerId"`
	RequestID    string `json:"requestId"`
	FunctionName string `json:"functionName"`
	Params       any    `json:"params"`
}

// RunIntent is the payload of both api:run-intent and api:service-intent.
type RunIntent struct {
	ApplicationID string         `json:"applicationId"`
	Action        string         `json:"action"`
	Params        map[string]any `json:"params"`
	RequestID     string         `json:"requestId"`
}

// RunConsole runs a textual debug command on the host.
type RunConsole struct {
	RequestID string `json:"requestId"`
	Command   string `json:"command"`
}

// RunCommand is a fire-and-forget command. It carries no request id.
type RunCommand struct {
	Command string `json:"command"`
	Data    any    `json:"data"`
}

// Completion answers a host-originated request such as api:new-intent.
type Completion struct {
	RequestID string `json:"requestId"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}
