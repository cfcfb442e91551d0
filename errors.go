package sqld

import (
	"errors"
	"fmt"
	r "reflect"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown             ErrCode = ""
	ErrCodeInvalidInput        ErrCode = "InvalidInput"
	ErrCodeMissingArgument     ErrCode = "MissingArgument"
	ErrCodeUnexpectedParameter ErrCode = "UnexpectedParameter"
	ErrCodeUnsupportedType     ErrCode = "UnsupportedType"
	ErrCodeUnsupported         ErrCode = "Unsupported"
	ErrCodeConflict            ErrCode = "Conflict"
	ErrCodeInvalidUndo         ErrCode = "InvalidUndo"
	ErrCodeUnknownDialect      ErrCode = "UnknownDialect"
	ErrCodeInternal            ErrCode = "Internal"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, sqld.ErrUnsupported) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrInvalidInput        Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrMissingArgument     Err = Err{Code: ErrCodeMissingArgument, Cause: errors.New(`missing argument`)}
	ErrUnexpectedParameter Err = Err{Code: ErrCodeUnexpectedParameter, Cause: errors.New(`unexpected parameter`)}
	ErrUnsupportedType     Err = Err{Code: ErrCodeUnsupportedType, Cause: errors.New(`unsupported type`)}
	ErrUnsupported         Err = Err{Code: ErrCodeUnsupported, Cause: errors.New(`unsupported by dialect`)}
	ErrConflict            Err = Err{Code: ErrCodeConflict, Cause: errors.New(`conflicting clauses`)}
	ErrInvalidUndo         Err = Err{Code: ErrCodeInvalidUndo, Cause: errors.New(`nothing to undo`)}
	ErrUnknownDialect      Err = Err{Code: ErrCodeUnknownDialect, Cause: errors.New(`unknown dialect`)}
	ErrInternal            Err = Err{Code: ErrCodeInternal, Cause: errors.New(`internal error`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ``
	}
	msg := `[sqld]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != `` {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

func errf(pattern string, args ...any) error { return fmt.Errorf(pattern, args...) }

func errUnsupportedType(while string, typ r.Type) Err {
	return Err{
		Code:  ErrCodeUnsupportedType,
		While: while,
		Cause: errf(`unsupported type %q of kind %q`, typeName(typ), typ.Kind()),
	}
}

/*
Returned when a dialect can't express a clause. The feature name is the SQL
construct such as "RETURNING" or "ALTER COLUMN TYPE".
*/
func errUnsupported(dialect Dialect, feature string) Err {
	return Err{
		Code:  ErrCodeUnsupported,
		While: `rendering ` + dialectName(dialect),
		Cause: errf(`%v is not supported`, feature),
	}
}

func errConflict(while, msg string) Err {
	return Err{Code: ErrCodeConflict, While: while, Cause: errors.New(msg)}
}

func errInvalidInput(while string, val any) Err {
	return Err{
		Code:  ErrCodeInvalidInput,
		While: while,
		Cause: errf(`unexpected input %#v of type %q`, val, typeName(r.TypeOf(val))),
	}
}
