package entity

// Outcome is the classification of one processed queue message.
// The zero value is Retry so an unclassified message is never deleted.
type Outcome int

const (
	// Retry leaves the message in the queue; it reappears after the visibility timeout.
	Retry Outcome = iota
	// Ack means the thumbnail was materialized.
	Ack
	// SkipAck means a permanent condition: delete the message, do nothing else.
	SkipAck
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case SkipAck:
		return "skip_ack"
	default:
		return "retry"
	}
}

// Acknowledge reports whether the message must be deleted from the queue.
func (o Outcome) Acknowledge() bool {
	return o == Ack || o == SkipAck
}
