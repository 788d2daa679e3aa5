package models

// Result codes returned by the device library. Only ResultOK has a meaning
// the console relies on; the rest are reported as-is.
const (
	ResultOK            = 0
	ResultSocketFailure = -1
	ResultConnectFailed = -2
)

// ConnectionResult is the outcome of one connect call.
type ConnectionResult struct {
	Code int `json:"code"`
}

func (r ConnectionResult) Success() bool {
	return r.Code == ResultOK
}

// ConnectionState is the retained availability payload.
type ConnectionState struct {
	// online, offline
	State string `json:"state"`
}

const (
	StateOnline  = "online"
	StateOffline = "offline"
)
