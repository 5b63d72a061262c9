package composer

// State is the phase of the most recent submission.
type State uint8

const (
	// Idle means nothing has been submitted yet.
	Idle State = iota
	// Sending means a submission is in flight.
	Sending
	// Succeeded means the last submission was accepted.
	Succeeded
	// Failed means the last submission was rejected or could not be delivered.
	Failed
)

func (s State) String() string {
	switch s {
	case Sending:
		return "sending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Status messages shown to the user.
const (
	MessageSent         = "Email sent successfully!"
	MessageFailed       = "Failed to send email"
	MessageUnreachable  = "An error occurred while sending the email"
	MessageEmptyPreview = "<em>(empty)</em>"
)

// Status is what the banner shows. Message is empty for Idle and Sending.
type Status struct {
	Message string
	State   State
}

func succeeded() Status { return Status{State: Succeeded, Message: MessageSent} }

func failed(reason string) Status {
	if reason == "" {
		reason = MessageFailed
	}
	return Status{State: Failed, Message: reason}
}
