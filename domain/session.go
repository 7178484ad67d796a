package domain

// SessionState is the lifecycle of one connection handled by the router.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Authenticating
	Connected
	Disconnected
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// DisconnectReason records why a session reached Disconnected.
type DisconnectReason int

const (
	ReasonNone DisconnectReason = iota
	ReasonNoCredential
	ReasonInvalidCredential
	ReasonClosed
	ReasonReplaced
	ReasonShutdown
)

// Websocket close codes sent to the client. 4000-4999 is reserved for applications.
const (
	CloseNoCredential      = 4002
	CloseInvalidCredential = 4003
	CloseReplaced          = 4004
	CloseGoingAway         = 1001
)

// CloseCode returns the websocket close code and text matching the reason.
// ok is false for reasons that do not close with an application code.
func (r DisconnectReason) CloseCode() (code int, text string, ok bool) {
	switch r {
	case ReasonNoCredential:
		return CloseNoCredential, "No JWT token", true
	case ReasonInvalidCredential:
		return CloseInvalidCredential, "Invalid JWT token", true
	case ReasonReplaced:
		return CloseReplaced, "Session replaced", true
	case ReasonShutdown:
		return CloseGoingAway, "Server shutting down", true
	default:
		return 0, "", false
	}
}

func (r DisconnectReason) String() string {
	switch r {
	case ReasonNoCredential:
		return "no_credential"
	case ReasonInvalidCredential:
		return "invalid_credential"
	case ReasonClosed:
		return "closed"
	case ReasonReplaced:
		return "replaced"
	case ReasonShutdown:
		return "shutdown"
	default:
		return "none"
	}
}
