package usecase

import "strings"

// RenderTemplate substitutes {name} placeholders from vars. Unknown
// placeholders and lone braces are kept literal, so prompt text may freely
// contain braces without escaping.
func RenderTemplate(tmpl string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		open := strings.IndexByte(tmpl[i:], '{')
		if open < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		open += i
		b.WriteString(tmpl[i:open])

		closing := strings.IndexByte(tmpl[open:], '}')
		if closing < 0 {
			b.WriteString(tmpl[open:])
			break
		}
		closing += open

		name := tmpl[open+1 : closing]
		if !isPlaceholderName(name) {
			// Not a placeholder at all; emit the brace and rescan right
			// after it so nested tokens still resolve.
			b.WriteByte('{')
			i = open + 1
			continue
		}
		if val, ok := vars[name]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(tmpl[open : closing+1])
		}
		i = closing + 1
	}
	return b.String()
}

func isPlaceholderName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
