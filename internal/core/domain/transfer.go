package domain

// TransferIntent is an unsigned single-recipient coin transfer.
// It is built once, handed to the executor once and never stored.
type TransferIntent struct {
	Sender          Address `json:"sender"`
	Recipient       Address `json:"recipient"`
	AmountBaseUnits uint64  `json:"amount_base_units"`
}

// ValidationFailure is a transfer request rejected before any I/O.
type ValidationFailure string

const (
	ErrNotConnected     ValidationFailure = "NOT_CONNECTED"
	ErrMissingRecipient ValidationFailure = "MISSING_RECIPIENT"
	ErrInvalidAmount    ValidationFailure = "INVALID_AMOUNT"
)

func (v ValidationFailure) Error() string {
	return v.Reason()
}

// Reason returns the user-facing explanation.
func (v ValidationFailure) Reason() string {
	switch v {
	case ErrNotConnected:
		return "Please connect a wallet first"
	case ErrMissingRecipient:
		return "Recipient address is required"
	case ErrInvalidAmount:
		return "Amount must be a positive number of SUI"
	default:
		return string(v)
	}
}

// FailureKind classifies a rejected submission.
type FailureKind string

const (
	FailureTransportUnavailable FailureKind = "TRANSPORT_UNAVAILABLE"
	FailureApplicationRejected  FailureKind = "APPLICATION_REJECTED"
	FailureUnknown              FailureKind = "UNKNOWN"
)

// DefaultFailureMessage is used when the submitter gives no reason.
const DefaultFailureMessage = "Transaction failed"

// TransferOutcome is either Success{Digest} or Failure{Kind, Message}.
type TransferOutcome struct {
	Digest  string      `json:"digest,omitempty"`
	Kind    FailureKind `json:"failure_kind,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Succeeded returns a successful outcome.
func Succeeded(digest string) TransferOutcome {
	return TransferOutcome{Digest: digest}
}

// Failed returns a failed outcome, falling back to DefaultFailureMessage.
func Failed(kind FailureKind, message string) TransferOutcome {
	if message == "" {
		message = DefaultFailureMessage
	}
	if kind == "" {
		kind = FailureUnknown
	}
	return TransferOutcome{Kind: kind, Message: message}
}

// IsSuccess reports whether the outcome carries a digest.
func (o TransferOutcome) IsSuccess() bool {
	return o.Kind == "" && o.Digest != ""
}

// TransferState is the position of one request in the pipeline:
// Idle -> Validating -> Rejected | Submitting -> Succeeded | Failed -> Idle.
type TransferState string

const (
	TransferStateIdle       TransferState = "IDLE"
	TransferStateValidating TransferState = "VALIDATING"
	TransferStateRejected   TransferState = "REJECTED"
	TransferStateSubmitting TransferState = "SUBMITTING"
	TransferStateSucceeded  TransferState = "SUCCEEDED"
	TransferStateFailed     TransferState = "FAILED"
)

// IsTerminal returns true once the request has a final outcome.
func (s TransferState) IsTerminal() bool {
	return s == TransferStateRejected || s == TransferStateSucceeded || s == TransferStateFailed
}
