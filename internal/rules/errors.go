package rules

import "fmt"

// RuleError reports a rule table that failed to decode, validate or compile.
type RuleError struct {
	Rule    string // rule name, empty for table-level failures
	Message string
	Cause   error
}

func (e *RuleError) Error() string {
	prefix := "rule table"
	if e.Rule != "" {
		prefix = fmt.Sprintf("rule %q", e.Rule)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}
