package domain

// StatusKind tells a client how to render a status line.
type StatusKind string

const (
	StatusSuccess  StatusKind = "success"
	StatusFailure  StatusKind = "failure"
	StatusRejected StatusKind = "rejected"
)

// StatusMessage is the single status line shown after a transfer request.
type StatusMessage struct {
	Kind        StatusKind `json:"kind"`
	Text        string     `json:"text"`
	Digest      string     `json:"digest,omitempty"`
	ExplorerURL string     `json:"explorer_url,omitempty"`
}
