package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Rejection explains why a proposed amount was refused.
// Field names the request field the user has to correct.
type Rejection struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (r *Rejection) Error() string {
	return r.Field + ": " + r.Reason
}

func reject(field, format string, args ...any) *Rejection {
	return &Rejection{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Rejections is the aggregated result of one validation pass.
type Rejections []Rejection

func (rs Rejections) Error() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.Error()
	}
	return strings.Join(parts, "; ")
}

// Fields returns the reasons keyed by field. The first reason wins when a
// field was rejected more than once.
func (rs Rejections) Fields() map[string]string {
	out := make(map[string]string, len(rs))
	for _, r := range rs {
		if _, ok := out[r.Field]; !ok {
			out[r.Field] = r.Reason
		}
	}
	return out
}

// Collect gathers the non-nil rejections into a single error.
// It returns nil when every check passed.
func Collect(checks ...*Rejection) error {
	var rs Rejections
	for _, c := range checks {
		if c != nil {
			rs = append(rs, *c)
		}
	}
	if len(rs) == 0 {
		return nil
	}
	return rs
}

// Join merges the rejections carried by several validation results into one
// Rejections. An error that is not a rejection is returned as is, since the
// pass could not finish.
func Join(errs ...error) error {
	var rs Rejections
	for _, err := range errs {
		if err == nil {
			continue
		}
		var many Rejections
		var one *Rejection
		switch {
		case errors.As(err, &many):
			rs = append(rs, many...)
		case errors.As(err, &one):
			rs = append(rs, *one)
		default:
			return err
		}
	}
	if len(rs) == 0 {
		return nil
	}
	return rs
}
