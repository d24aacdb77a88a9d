// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package sessionerr defines the error kinds produced by the client session
// subsystem and the translation of server-reported (domain, code) pairs
// into them.
package sessionerr

import "fmt"

// Kind identifies which error condition an Error represents. Kinds are
// grouped by the protocol domain that reports them.
type Kind int

const (
	// Synchronizing is returned when a regular message arrives while the
	// session is still synchronizing on the same channel.
	Synchronizing Kind = iota

	// UnexpectedMessage is returned when an inbound frame's name has no
	// registered handler.
	UnexpectedMessage

	// ReplyUnprocessed wraps a handler error for a frame that carried a
	// seq matching a pending request.
	ReplyUnprocessed

	// NoSuchSeq is returned when an inbound frame's seq attribute does not
	// match any held request.
	NoSuchSeq

	// SeqVerbMismatch is returned when an inbound frame's seq matches a
	// held request whose name differs from the expected verb.
	SeqVerbMismatch

	// NoSuchAttribute is returned when a required XML attribute is absent.
	NoSuchAttribute

	// MalformedAttribute is returned when an XML attribute is present but
	// cannot be parsed as the type the protocol requires of it (e.g. a
	// seq that is not a valid unsigned decimal integer).
	MalformedAttribute

	// UnknownDomain is returned by ErrorTranslation when the reported
	// error domain is not recognized.
	UnknownDomain

	// NoSuchUser is returned when a rejoin or leave references a user id
	// that is not present in the roster.
	NoSuchUser

	// IdNotPresent is returned when a user-leave frame lacks the required
	// id attribute.
	IdNotPresent

	// Cancelled is the sentinel error with which RequestManager.Clear
	// resolves every held request.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Synchronizing:
		return "synchronizing"
	case UnexpectedMessage:
		return "unexpected-message"
	case ReplyUnprocessed:
		return "reply-unprocessed"
	case NoSuchSeq:
		return "no-such-seq"
	case SeqVerbMismatch:
		return "seq-verb-mismatch"
	case NoSuchAttribute:
		return "no-such-attribute"
	case MalformedAttribute:
		return "malformed-attribute"
	case UnknownDomain:
		return "unknown-domain"
	case NoSuchUser:
		return "no-such-user"
	case IdNotPresent:
		return "id-not-present"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the error type produced throughout this module. It is a tagged
// (kind, message, cause) sum, the same shape as libinfinity's GError
// (domain quark + code + message) and the teacher's StanzaError
// (type + condition + text).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that carries cause as its
// underlying error.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause, the
// way ReplyUnprocessed wraps the handler error that triggered it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, sessionerr.New(sessionerr.NoSuchUser, "")) works as a kind
// check without comparing messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ErrCancelled is the sentinel error used by RequestManager.Clear; it is
// shared so callers can compare with errors.Is(err, sessionerr.ErrCancelled).
var ErrCancelled = New(Cancelled, "request cancelled")

// Translator maps a server-reported (domain, code) pair to a locally
// meaningful error. The zero value is ready to use and recognizes the
// domains defined by this protocol; set Extra to extend it the way
// infc_session_translate_error_impl is overridden by subclasses in
// libinfinity.
type Translator struct {
	// Extra, when non-nil, is consulted before the built-in domains and
	// may return nil to fall through to them.
	Extra func(domain string, code uint32) *Error
}

// Known protocol error domains, as sent over the wire in a request-failed
// frame's domain attribute. These match the GQuark strings
// inf_request_error_quark, inf_user_join_error_quark, and
// inf_user_leave_error_quark produce in
// original_source/libinfinity/client/infc-session.c.
const (
	DomainRequest   = "inf-request-error"
	DomainUserJoin  = "inf-user-join-error"
	DomainUserLeave = "inf-user-leave-error"
)

// request-error domain codes.
const (
	CodeRequestSynchronizing Code = iota
	CodeRequestUnexpectedMessage
	CodeRequestReplyUnprocessed
	CodeRequestNoSuchSeq
	CodeRequestSeqVerbMismatch
	CodeRequestNoSuchAttribute
	CodeRequestUnknownDomain
)

// user-join-error domain codes.
const (
	CodeUserJoinNoSuchUser Code = iota
)

// user-leave-error domain codes.
const (
	CodeUserLeaveIDNotPresent Code = iota
	CodeUserLeaveNoSuchUser
)

// Code is a per-domain error code, as carried in a request-failed frame's
// code attribute.
type Code uint32

// Translate converts a (domain, code) pair into a rich, locally typed
// Error. An unrecognized domain produces an UnknownDomain error carrying
// the original domain string and code, exactly as
// infc_session_translate_error_impl falls back to
// INF_REQUEST_ERROR_UNKNOWN_DOMAIN.
func (t Translator) Translate(domain string, code uint32) *Error {
	if t.Extra != nil {
		if e := t.Extra(domain, code); e != nil {
			return e
		}
	}

	switch domain {
	case DomainRequest:
		return requestError(Code(code))
	case DomainUserJoin:
		return userJoinError(Code(code))
	case DomainUserLeave:
		return userLeaveError(Code(code))
	default:
		return New(UnknownDomain, "error comes from unknown error domain %q (code %d)", domain, code)
	}
}

func requestError(code Code) *Error {
	switch code {
	case CodeRequestSynchronizing:
		return New(Synchronizing, "a synchronization is currently in progress")
	case CodeRequestUnexpectedMessage:
		return New(UnexpectedMessage, "the message is not understood by this session")
	case CodeRequestReplyUnprocessed:
		return New(ReplyUnprocessed, "the server reply could not be processed")
	case CodeRequestNoSuchSeq:
		return New(NoSuchSeq, "the sequence number does not refer to an existing request")
	case CodeRequestSeqVerbMismatch:
		return New(SeqVerbMismatch, "the sequence number refers to a request of a different type")
	case CodeRequestNoSuchAttribute:
		return New(NoSuchAttribute, "a required attribute is not present")
	case CodeRequestUnknownDomain:
		return New(UnknownDomain, "error comes from an unknown error domain")
	default:
		return New(UnknownDomain, "unknown request-error code %d", code)
	}
}

func userJoinError(code Code) *Error {
	switch code {
	case CodeUserJoinNoSuchUser:
		return New(NoSuchUser, "no such user")
	default:
		return New(UnknownDomain, "unknown user-join-error code %d", code)
	}
}

func userLeaveError(code Code) *Error {
	switch code {
	case CodeUserLeaveIDNotPresent:
		return New(IdNotPresent, "id attribute is not present")
	case CodeUserLeaveNoSuchUser:
		return New(NoSuchUser, "no such user")
	default:
		return New(UnknownDomain, "unknown user-leave-error code %d", code)
	}
}
