package purchase

// MessageKind tells the view how to present a Message.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageValidation
	MessageInFlight
	MessageSuccess
	MessageError
)

const (
	TextChooseFlight     = "Choose a flight"
	TextCompleteCaptcha  = "Complete the challenge"
	TextSubmitting       = "Submitting purchase..."
	TextTicketReady      = "Ticket is ready"
	TextErrorPrefix      = "Error: "
	TextServiceUnreached = "the booking service could not be reached, please try again"
)

// Message is the latest user-facing outcome of the purchase flow. For
// MessageSuccess, TicketURL holds the link; rendering it is up to the view.
type Message struct {
	Kind      MessageKind
	Text      string
	TicketURL string
}

// String renders the message as plain text.
func (m Message) String() string {
	if m.Kind == MessageSuccess {
		return m.Text + ": " + m.TicketURL
	}
	return m.Text
}

func messageFor(r Result) Message {
	switch r := r.(type) {
	case Success:
		return Message{Kind: MessageSuccess, Text: TextTicketReady, TicketURL: r.TicketURL}
	case Failure:
		if r.Kind == Transport {
			return Message{Kind: MessageError, Text: TextErrorPrefix + TextServiceUnreached}
		}
		return Message{Kind: MessageError, Text: TextErrorPrefix + r.Detail}
	default:
		return Message{Kind: MessageError, Text: TextErrorPrefix + TextServiceUnreached}
	}
}
