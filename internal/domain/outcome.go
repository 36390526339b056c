package domain

import "fmt"

// UnknownMessage stands in for an error body without a message field.
const UnknownMessage = "unknown error"

type OutcomeKind string

const (
	KindSucceeded         OutcomeKind = "succeeded"
	KindClientError       OutcomeKind = "client_error"
	KindQuotaExhausted    OutcomeKind = "quota_exhausted"
	KindServerError       OutcomeKind = "server_error"
	KindUnclassified      OutcomeKind = "unclassified"
	KindConnectionFailure OutcomeKind = "connection_failure"
	KindTimeout           OutcomeKind = "timeout"
	KindParseFailure      OutcomeKind = "parse_failure"
	KindRequestFailure    OutcomeKind = "request_failure"
)

// Outcome is the closed set of results of one conversion call. Only types in
// this package implement it.
type Outcome interface {
	Kind() OutcomeKind
	OK() bool
	outcome()
}

type Succeeded struct {
	Result ConversionResult
}

// ClientError is an HTTP 400: the request was malformed.
type ClientError struct {
	Message string
}

// QuotaExhausted is an HTTP 403: the vendor resource package is used up.
type QuotaExhausted struct {
	Message string
}

// ServerError is an HTTP 500 from the backend.
type ServerError struct {
	Message string
}

// Unclassified covers every other non-200 status.
type Unclassified struct {
	StatusCode int
	Body       string
}

type ConnectionFailure struct {
	Err error
}

type Timeout struct {
	Err error
}

// ParseFailure is a 200 whose body is not the expected JSON object.
type ParseFailure struct {
	Body string
	Err  error
}

// RequestFailure is any transport fault that is neither a refused connection
// nor a timeout.
type RequestFailure struct {
	Err error
}

func (Succeeded) Kind() OutcomeKind         { return KindSucceeded }
func (ClientError) Kind() OutcomeKind       { return KindClientError }
func (QuotaExhausted) Kind() OutcomeKind    { return KindQuotaExhausted }
func (ServerError) Kind() OutcomeKind       { return KindServerError }
func (Unclassified) Kind() OutcomeKind      { return KindUnclassified }
func (ConnectionFailure) Kind() OutcomeKind { return KindConnectionFailure }
func (Timeout) Kind() OutcomeKind           { return KindTimeout }
func (ParseFailure) Kind() OutcomeKind      { return KindParseFailure }
func (RequestFailure) Kind() OutcomeKind    { return KindRequestFailure }

func (Succeeded) OK() bool         { return true }
func (ClientError) OK() bool       { return false }
func (QuotaExhausted) OK() bool    { return false }
func (ServerError) OK() bool       { return false }
func (Unclassified) OK() bool      { return false }
func (ConnectionFailure) OK() bool { return false }
func (Timeout) OK() bool           { return false }
func (ParseFailure) OK() bool      { return false }
func (RequestFailure) OK() bool    { return false }

func (Succeeded) outcome()         {}
func (ClientError) outcome()       {}
func (QuotaExhausted) outcome()    {}
func (ServerError) outcome()       {}
func (Unclassified) outcome()      {}
func (ConnectionFailure) outcome() {}
func (Timeout) outcome()           {}
func (ParseFailure) outcome()      {}
func (RequestFailure) outcome()    {}

// Describe returns a one-line summary of an outcome for logs.
func Describe(o Outcome) string {
	switch v := o.(type) {
	case Succeeded:
		return fmt.Sprintf("succeeded (task %s)", v.Result.TaskID)
	case ClientError:
		return "client error: " + v.Message
	case QuotaExhausted:
		return "quota exhausted: " + v.Message
	case ServerError:
		return "server error: " + v.Message
	case Unclassified:
		return fmt.Sprintf("unexpected status %d", v.StatusCode)
	case ConnectionFailure:
		return fmt.Sprintf("connection failed: %v", v.Err)
	case Timeout:
		return fmt.Sprintf("timed out: %v", v.Err)
	case ParseFailure:
		return fmt.Sprintf("invalid response body: %v", v.Err)
	case RequestFailure:
		return fmt.Sprintf("request failed: %v", v.Err)
	default:
		return "unknown outcome"
	}
}
