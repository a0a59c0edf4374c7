// Package er is a small typed-error library, adapted from pktd's
// btcutil/er: every fallible operation in this module returns an er.R
// rather than a bare error, so callers can switch on a *ErrorCode instead
// of string-matching messages, while still getting a captured stack trace
// for diagnostics.
package er

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/pkt-cash/miniscript/internal/buildinfo"
)

// R is the error type returned from every fallible call in this module.
type R interface {
	Message() string
	Stack() []string
	HasStack() bool
	String() string
	Error() string
}

// ErrorType groups a family of related ErrorCodes under one name, e.g.
// "miniscript.Err".
type ErrorType struct {
	Name  string
	Codes []*ErrorCode
}

// NewErrorType creates a new error type identified by name.
func NewErrorType(ident string) ErrorType {
	return ErrorType{Name: ident}
}

// ErrorCode identifies one specific fault within an ErrorType.
type ErrorCode struct {
	Detail string
	Type   *ErrorType
}

// Code registers a new, unnumbered error code under this type.
func (e *ErrorType) Code(info string) *ErrorCode {
	ec := &ErrorCode{Detail: info, Type: e}
	e.Codes = append(e.Codes, ec)
	return ec
}

// Is reports whether err was produced from this code.
func (c *ErrorCode) Is(err R) bool {
	if err == nil {
		return c == nil
	}
	te, ok := err.(typedErr)
	return ok && te.code == c
}

// New builds an R from this code, optionally wrapping info and a cause.
func (c *ErrorCode) New(info string, cause R) R {
	var messages []string
	if info == "" {
		messages = []string{c.Detail}
	} else {
		messages = []string{c.Detail, info}
	}
	if cause == nil {
		cause = newErr("", captureStack())
	}
	return typedErr{messages: messages, code: c, err: cause}
}

// Default builds an R from this code with no extra detail.
func (c *ErrorCode) Default() R {
	return c.New("", nil)
}

type typedErr struct {
	messages []string
	code     *ErrorCode
	err      R
}

func (te typedErr) Message() string {
	inner := te.err.Message()
	if inner == "" {
		return strings.Join(te.messages, ": ")
	}
	return fmt.Sprintf("%s: %s", strings.Join(te.messages, ": "), inner)
}

func (te typedErr) HasStack() bool   { return te.err.HasStack() }
func (te typedErr) Stack() []string  { return te.err.Stack() }
func (te typedErr) Error() string    { return te.String() }
func (te typedErr) String() string {
	s := ""
	if te.err.HasStack() {
		s = "\n\n" + strings.Join(te.Stack(), "\n") + "\n"
	}
	return buildinfo.Version() + " " + te.Message() + s
}

// Decode returns the ErrorCode that produced err, or nil.
func Decode(err R) *ErrorCode {
	if err == nil {
		return nil
	}
	if te, ok := err.(typedErr); ok {
		return te.code
	}
	return nil
}

type err struct {
	messages []string
	e        error
	bstack   []byte
	stack    []string
}

func (e err) HasStack() bool { return e.bstack != nil }

var argumentsRegex = regexp.MustCompile(`\([0-9a-fx, \.]*\)$`)
var prefixRegex = regexp.MustCompile(`^.*/pkt-cash/miniscript/`)
var goFileRegex = regexp.MustCompile(`\.go:[0-9]+ `)

func (e err) Stack() []string {
	if e.stack == nil {
		lines := strings.Split(string(e.bstack), "\n")
		if len(lines) > 5 {
			lines = lines[5:]
		}
		var stack []string
		fun := ""
		for _, l := range lines {
			x := argumentsRegex.ReplaceAllString(l, "()")
			x = prefixRegex.ReplaceAllString(x, "")
			x = "  " + strings.TrimSpace(x)
			if !goFileRegex.MatchString(x) {
				fun = x
			} else {
				stack = append(stack, x+"\t"+fun)
			}
		}
		e.stack = stack
	}
	return e.stack
}

func (e err) Message() string {
	if e.messages == nil {
		return e.e.Error()
	}
	return strings.Join(e.messages, ": ")
}

func (e err) String() string {
	s := ""
	if e.bstack != nil {
		s = "\n\n" + strings.Join(e.Stack(), "\n") + "\n"
	}
	return buildinfo.Version() + " " + e.Message() + s
}

func (e err) Error() string { return e.String() }

func captureStack() []byte {
	return debug.Stack()
}

func newErr(s string, bstack []byte) R {
	return err{e: errors.New(s), bstack: bstack}
}

// New wraps a plain message as an R, capturing a stack trace.
func New(s string) R {
	return newErr(s, captureStack())
}

// Errorf is fmt.Errorf for R.
func Errorf(format string, a ...interface{}) R {
	return err{e: fmt.Errorf(format, a...), bstack: captureStack()}
}
