package purchase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the classified outcome of a purchase request: Success or Failure.
type Result interface {
	isResult()
}

type Success struct {
	TicketID  string
	TicketURL string
}

type FailureKind int

const (
	// Rejected means the API answered with an error field.
	Rejected FailureKind = iota
	// Unexpected means the body carried neither a ticket nor an error.
	Unexpected
	// Transport means no usable answer arrived at all.
	Transport
)

func (k FailureKind) String() string {
	switch k {
	case Rejected:
		return "rejected"
	case Unexpected:
		return "unexpected"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

type Failure struct {
	Kind FailureKind
	// Detail is the API's error field for Rejected and the compacted body
	// for Unexpected.
	Detail string
	Err    error
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Classify maps a raw purchase response to a Result. A non-empty
// ticket_url is a success whatever else the body holds.
func Classify(body []byte, err error) Result {
	if err != nil {
		return Failure{Kind: Transport, Err: err}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return Failure{Kind: Transport, Err: err}
	}

	if fields, ok := decoded.(map[string]interface{}); ok {
		if url, _ := fields["ticket_url"].(string); url != "" {
			return Success{TicketID: scalar(fields["ticket_id"]), TicketURL: url}
		}
		if detail, _ := fields["error"].(string); detail != "" {
			return Failure{Kind: Rejected, Detail: detail}
		}
	}
	return Failure{Kind: Unexpected, Detail: dump(body)}
}

func scalar(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func dump(body []byte) string {
	compact := bytes.Buffer{}
	if err := json.Compact(&compact, body); err != nil {
		return strings.TrimSpace(string(body))
	}
	return compact.String()
}
