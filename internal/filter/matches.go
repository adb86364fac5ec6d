// Package filter narrows lists of services and expenses against sparse,
// user supplied criteria.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

type kind int

const (
	kindText kind = iota
	kindDate
	kindJoined
)

// Value is the searchable rendering of one record field.
type Value struct {
	kind  kind
	text  string
	date  time.Time
	id    int64
	hasID bool
}

// Text is matched by case-insensitive substring.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Number is matched against its string form.
func Number(n fmt.Stringer) Value { return Text(n.String()) }

// Int is matched against its decimal string form.
func Int(n int64) Value { return Text(strconv.FormatInt(n, 10)) }

// Date is formatted as dd/MM/yyyy before substring matching. The zero time
// renders as an empty string.
func Date(t time.Time) Value { return Value{kind: kindDate, date: t} }

// Joined is the display string of a referenced entity. A filter matches it by
// substring or by equality with the raw id.
func Joined(display string, id int64) Value {
	return Value{kind: kindJoined, text: display, id: id, hasID: true}
}

// Unresolved is a joined field whose reference is absent.
func Unresolved() Value { return Value{kind: kindJoined} }

// String renders the value as it is matched.
func (v Value) String() string {
	if v.kind == kindDate {
		if v.date.IsZero() {
			return ""
		}
		return v.date.Format(models.DisplayDateLayout)
	}
	return v.text
}

func (v Value) match(query string) bool {
	if contains(v.String(), query) {
		return true
	}
	if v.kind == kindJoined && v.hasID {
		return strings.TrimSpace(query) == strconv.FormatInt(v.id, 10)
	}
	return false
}

// Fields maps filter keys to the searchable values of one record.
type Fields map[string]Value

// Matches reports whether every non-empty filter entry matches its field.
// A filter naming a field the record does not have never matches.
func Matches(fields Fields, filters map[string]string) bool {
	for key, query := range filters {
		if strings.TrimSpace(query) == "" {
			continue
		}
		v, ok := fields[key]
		if !ok || !v.match(query) {
			return false
		}
	}
	return true
}

// Search reports whether any field matches term. An empty term matches.
func Search(fields Fields, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	for _, v := range fields {
		if v.match(term) {
			return true
		}
	}
	return false
}

func contains(s, query string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(query)))
}
