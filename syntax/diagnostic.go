package syntax

import "fmt"

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

var severityNames = map[Severity]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityInfo:    "info",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// Diagnostic is a problem found while building a tree. On a green node,
// Offset is relative to the start of the node's full span; diagnostics
// returned from the red layer carry absolute offsets.
type Diagnostic struct {
	Offset   int
	Length   int
	Severity Severity
	Message  string
}

func NewError(offset, length int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Offset:   offset,
		Length:   length,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d+%d %s: %s", d.Offset, d.Length, d.Severity, d.Message)
}
