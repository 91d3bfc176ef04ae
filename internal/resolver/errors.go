package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every resolution failure wraps exactly one of them.
var (
	ErrInvalidContentPattern    = errors.New("invalid content pattern")
	ErrInvalidThemeShape        = errors.New("invalid theme shape")
	ErrInvalidPluginDescriptor  = errors.New("invalid plugin descriptor")
	ErrPluginRegistrationFailed = errors.New("plugin registration failed")
	ErrIncompleteDefaults       = errors.New("incomplete defaults")
)

// Error describes why a resolution pass failed and where in the
// configuration the problem sits.
type Error struct {
	Kind   error  // one of the Err* kinds
	Phase  State  // state the pass was in when it failed
	Field  string // e.g. "content[2]", "theme.extend.colors", "plugins[1]"
	Index  int    // list position for content and plugin errors, -1 otherwise
	Plugin string // plugin name for registration failures
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Plugin != "" {
		fmt.Fprintf(&b, " (%s)", e.Plugin)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func contentError(index int, format string, args ...any) *Error {
	field := "content"
	if index >= 0 {
		field = fmt.Sprintf("content[%d]", index)
	}
	return &Error{
		Kind:  ErrInvalidContentPattern,
		Phase: Validating,
		Field: field,
		Index: index,
		Err:   fmt.Errorf(format, args...),
	}
}

func themeError(field string, err error) *Error {
	return &Error{
		Kind:  ErrInvalidThemeShape,
		Phase: Validating,
		Field: field,
		Index: -1,
		Err:   err,
	}
}

func descriptorError(index int, err error) *Error {
	field := "plugins"
	if index >= 0 {
		field = fmt.Sprintf("plugins[%d]", index)
	}
	return &Error{
		Kind:  ErrInvalidPluginDescriptor,
		Phase: Validating,
		Field: field,
		Index: index,
		Err:   err,
	}
}

func registrationError(index int, name string, err error) *Error {
	return &Error{
		Kind:   ErrPluginRegistrationFailed,
		Phase:  RegisteringPlugins,
		Field:  fmt.Sprintf("plugins[%d]", index),
		Index:  index,
		Plugin: name,
		Err:    err,
	}
}
