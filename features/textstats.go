package features

import (
	"strconv"
	"strings"
)

// Lexical signal helpers shared by the domain builders. All of them
// reduce free text to small deterministic numbers.

// TextSignals reduces free text to a fixed-width lexical vector:
// token count, length bucket, question/imperative flags, and per-token
// length histogram folded into the remaining slots. Used by the
// text-pipeline descriptor for skills that take a raw utterance
// instead of a structured payload.
func TextSignals(text string, dim int) []float64 {
	signals := []float64{
		tokenCount(text),
		lengthBucket(text),
		keywordFlag(text, "?", "？", "why", "how", "什么", "怎么"),
		keywordFlag(text, "please", "请", "help", "帮"),
	}
	for _, tok := range strings.Fields(text) {
		signals = append(signals, float64(len([]rune(tok))))
	}
	return fit(signals, dim)
}

// tokenCount counts whitespace-separated tokens.
func tokenCount(text string) float64 {
	return float64(len(strings.Fields(text)))
}

// lengthBucket maps text length to one of five coarse buckets {0..4}.
func lengthBucket(text string) float64 {
	n := len([]rune(strings.TrimSpace(text)))
	switch {
	case n == 0:
		return 0
	case n <= 16:
		return 1
	case n <= 64:
		return 2
	case n <= 256:
		return 3
	default:
		return 4
	}
}

// keywordFlag returns 1 when the text contains any of the keywords,
// case-insensitively.
func keywordFlag(text string, keywords ...string) float64 {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return 1
		}
	}
	return 0
}

// listOverlap counts how many of the items contain any of the keywords.
func listOverlap(items []string, keywords ...string) float64 {
	var n float64
	for _, item := range items {
		if keywordFlag(item, keywords...) == 1 {
			n++
		}
	}
	return n
}

// evalFormula evaluates a flat arithmetic expression over literal
// numbers with + - * / and usual precedence, e.g. "3*4+2". Returns
// false on any token it does not understand. Payload formulas come from
// the companion app's worksheet skills; anything fancier is rejected
// rather than guessed at.
func evalFormula(expr string) (float64, bool) {
	tokens := tokenizeFormula(expr)
	if len(tokens) == 0 || len(tokens)%2 == 0 {
		return 0, false
	}

	// First pass: collapse * and /.
	nums := make([]float64, 0, len(tokens)/2+1)
	ops := make([]byte, 0, len(tokens)/2)

	cur, ok := parseNumber(tokens[0])
	if !ok {
		return 0, false
	}
	for i := 1; i < len(tokens); i += 2 {
		op := tokens[i]
		if len(op) != 1 || !strings.ContainsAny(op, "+-*/") {
			return 0, false
		}
		next, ok := parseNumber(tokens[i+1])
		if !ok {
			return 0, false
		}
		switch op[0] {
		case '*':
			cur *= next
		case '/':
			if next == 0 {
				return 0, false
			}
			cur /= next
		default:
			nums = append(nums, cur)
			ops = append(ops, op[0])
			cur = next
		}
	}
	nums = append(nums, cur)

	// Second pass: + and - left to right.
	total := nums[0]
	for i, op := range ops {
		if op == '+' {
			total += nums[i+1]
		} else {
			total -= nums[i+1]
		}
	}
	return total, true
}

func tokenizeFormula(expr string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			cur.WriteRune(r)
		case r == '+' || r == '-' || r == '*' || r == '/':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t':
			flush()
		default:
			return nil
		}
	}
	flush()
	// Reject adjacent numbers ("3 4") and leading/trailing operators;
	// eval relies on strict number-operator alternation.
	for i, tok := range tokens {
		_, isNum := parseNumber(tok)
		if (i%2 == 0) != isNum {
			return nil
		}
	}
	return tokens
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
