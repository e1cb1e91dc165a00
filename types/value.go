package types

import (
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBool
	KindTextList
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTextList:
		return "text_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value 是负载字段的标记联合：数字、文本、布尔或文本列表。
// 零值是数字 0。
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
	list []string
}

// Number wraps a numeric payload field.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int wraps an integer payload field as a number.
func Int(i int) Value { return Value{kind: KindNumber, num: float64(i)} }

// Text wraps a free-text payload field.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a boolean payload field.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// TextList wraps a list-of-strings payload field.
func TextList(items ...string) Value {
	return Value{kind: KindTextList, list: append([]string(nil), items...)}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric value, false when the variant is not a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the text value, false when the variant is not text.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Bool returns the boolean value, false when the variant is not a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// TextList returns a copy of the list value, false when the variant is
// not a text list.
func (v Value) TextList() ([]string, bool) {
	if v.kind != KindTextList {
		return nil, false
	}
	return append([]string(nil), v.list...), true
}

// Payload 是技能调用的入站载荷：字段名到标记值的映射。
// 所有读取方法对缺失字段与类型不匹配都以默认值兜底，绝不 panic。
type Payload map[string]Value

// NumberOr reads a numeric field, returning def when the field is
// absent or not a number.
func (p Payload) NumberOr(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		if n, ok := v.Number(); ok {
			return n
		}
	}
	return def
}

// TextOr reads a text field, returning def when absent or mismatched.
func (p Payload) TextOr(key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.Text(); ok {
			return s
		}
	}
	return def
}

// Flag reads a boolean field as 0 or 1. Missing fields read as 0.
func (p Payload) Flag(key string) float64 {
	if v, ok := p[key]; ok {
		if b, ok := v.Bool(); ok && b {
			return 1
		}
	}
	return 0
}

// List reads a text-list field. Missing fields read as nil.
func (p Payload) List(key string) []string {
	if v, ok := p[key]; ok {
		if l, ok := v.TextList(); ok {
			return l
		}
	}
	return nil
}

// Has reports whether the field is present regardless of variant.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsEmpty reports whether the payload carries no fields.
func (p Payload) IsEmpty() bool { return len(p) == 0 }

// String renders the payload for debug logging with values elided to
// their kinds, so free text never leaks into logs.
func (p Payload) String() string {
	if len(p) == 0 {
		return "payload{}"
	}
	var b strings.Builder
	b.WriteString("payload{")
	first := true
	for k, v := range p {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s:%s", k, v.Kind())
	}
	b.WriteString("}")
	return b.String()
}
