package domain

// SessionState is the wallet connection as seen by the transfer pipeline.
// It is owned by the session service; the pipeline only reads it.
type SessionState struct {
	Connected bool    `json:"connected"`
	Account   Address `json:"account,omitempty"`
	Network   Network `json:"network,omitempty"`
}

// Disconnected returns the empty session.
func Disconnected() SessionState {
	return SessionState{}
}

// Sender returns the connected account, or the zero address.
func (s SessionState) Sender() Address {
	if !s.Connected {
		return ""
	}
	return s.Account
}
