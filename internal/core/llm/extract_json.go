package llm

// ExtractJSON returns the first balanced JSON object or array embedded in s.
// Brackets inside string literals (including escaped quotes) do not count
// toward balance. The candidate is not validated as JSON.
func ExtractJSON(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		if end, ok := matchBalanced(s, start); ok {
			return s[start : end+1], true
		}
	}
	return "", false
}

// matchBalanced returns the index closing the bracket at s[start].
func matchBalanced(s string, start int) (int, bool) {
	stack := make([]byte, 0, 8)
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
