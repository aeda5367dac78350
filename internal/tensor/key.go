package tensor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Key is an indexing key. The set of keys is closed: Index, Range, Keys and Whole.
// A nil Key selects the whole array, like Whole.
type Key interface {
	isKey()
	fmt.Stringer
}

// Index selects a single position along an axis and collapses that axis.
type Index int

// Range selects the contiguous positions [Begin, End) along an axis and keeps the axis.
// Either endpoint may be open: an open begin is 0 and an open end is the axis size.
type Range struct {
	begin, end       int
	hasBegin, hasEnd bool
}

// Keys applies its keys positionally to the leading axes of a tensor.
// Only Index and Range are accepted as elements.
type Keys []Key

// Whole selects the entire array.
type Whole struct{}

// Span returns the half-open range [begin, end).
func Span(begin, end int) Range {
	return Range{begin: begin, end: end, hasBegin: true, hasEnd: true}
}

// SpanFrom returns the range [begin, axis size).
func SpanFrom(begin int) Range {
	return Range{begin: begin, hasBegin: true}
}

// SpanTo returns the range [0, end).
func SpanTo(end int) Range {
	return Range{end: end, hasEnd: true}
}

// SpanAll returns the fully open range.
func SpanAll() Range {
	return Range{}
}

// Begin returns the start position and whether it was given.
func (r Range) Begin() (int, bool) { return r.begin, r.hasBegin }

// End returns the exclusive end position and whether it was given.
func (r Range) End() (int, bool) { return r.end, r.hasEnd }

// IsOpen reports whether both endpoints are absent.
func (r Range) IsOpen() bool { return !r.hasBegin && !r.hasEnd }

// Bounds resolves the open endpoints against an axis of size dim.
func (r Range) Bounds(dim int) (begin, end int) {
	begin, end = 0, dim
	if r.hasBegin {
		begin = r.begin
	}
	if r.hasEnd {
		end = r.end
	}
	return begin, end
}

func (Index) isKey() {}
func (Range) isKey() {}
func (Keys) isKey()  {}
func (Whole) isKey() {}

func (i Index) String() string { return fmt.Sprintf("%d", int(i)) }

func (r Range) String() string {
	s := ""
	if r.hasBegin {
		s = fmt.Sprintf("%d", r.begin)
	}
	s += ":"
	if r.hasEnd {
		s += fmt.Sprintf("%d", r.end)
	}
	return s
}

func (k Keys) String() string {
	s := "["
	for i, key := range k {
		if i > 0 {
			s += ", "
		}
		if key == nil {
			s += "nil"
			continue
		}
		s += key.String()
	}
	return s + "]"
}

func (Whole) String() string { return "..." }

// ParseKey parses the textual form of a key: "3" is an Index, "1:4", "2:", ":3" and ":"
// are ranges, "..." is Whole and comma-separated parts (optionally in brackets) form Keys.
func ParseKey(text string) (Key, error) {
	text = strings.TrimSpace(text)
	bracketed := strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
	if bracketed {
		text = text[1 : len(text)-1]
	}
	if !bracketed && !strings.Contains(text, ",") {
		return parseSingleKey(text)
	}
	var keys Keys
	for _, part := range strings.Split(text, ",") {
		key, err := parseSingleKey(part)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parseSingleKey(text string) (Key, error) {
	text = strings.TrimSpace(text)
	if text == "..." {
		return Whole{}, nil
	}
	beginText, endText, isRange := strings.Cut(text, ":")
	if !isRange {
		i, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedKeyType, "cannot parse key %q", text)
		}
		return Index(i), nil
	}
	var r Range
	if beginText = strings.TrimSpace(beginText); beginText != "" {
		b, err := strconv.Atoi(beginText)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedKeyType, "cannot parse range begin %q", beginText)
		}
		r.begin, r.hasBegin = b, true
	}
	if endText = strings.TrimSpace(endText); endText != "" {
		e, err := strconv.Atoi(endText)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedKeyType, "cannot parse range end %q", endText)
		}
		r.end, r.hasEnd = e, true
	}
	return r, nil
}
