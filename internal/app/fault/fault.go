package fault

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return "unknown"
}

// Level maps a severity onto the logger. Fatal faults never stop the process.
func (s Severity) Level() logrus.Level {
	switch s {
	case SeverityInfo:
		return logrus.InfoLevel
	case SeverityWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

var (
	ErrConfiguration  = errors.New("configuration fault")
	ErrStaleReference = errors.New("stale reference")
	ErrUnhandledInput = errors.New("unhandled input")
)

// Fault is a recoverable failure scoped to one entity (agent, marker, category).
type Fault struct {
	Kind     error
	Severity Severity
	Entity   string
	Err      error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Kind, f.Entity)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Entity, f.Err)
}

func (f *Fault) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

func (f *Fault) KindName() string {
	switch f.Kind {
	case ErrConfiguration:
		return "configuration"
	case ErrStaleReference:
		return "stale_reference"
	case ErrUnhandledInput:
		return "unhandled_input"
	}
	return "unknown"
}

func Configuration(entity string, err error) *Fault {
	return &Fault{Kind: ErrConfiguration, Severity: SeverityError, Entity: entity, Err: err}
}

func StaleReference(entity string, err error) *Fault {
	return &Fault{Kind: ErrStaleReference, Severity: SeverityWarn, Entity: entity, Err: err}
}

func UnhandledInput(entity string, err error) *Fault {
	return &Fault{Kind: ErrUnhandledInput, Severity: SeverityWarn, Entity: entity, Err: err}
}

// From converts any error into a fault. Errors that are not faults become
// configuration faults of the given entity.
func From(entity string, err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return Configuration(entity, err)
}

// Log writes the fault at the level of its severity.
func Log(log logrus.FieldLogger, f *Fault) {
	if f == nil || log == nil {
		return
	}
	entry := log.WithFields(logrus.Fields{
		"fault":    f.KindName(),
		"severity": f.Severity.String(),
		"entity":   f.Entity,
	})
	switch f.Severity.Level() {
	case logrus.InfoLevel:
		entry.Info(f.Error())
	case logrus.WarnLevel:
		entry.Warn(f.Error())
	default:
		entry.Error(f.Error())
	}
}
