package prompts

import (
	"regexp"
	"sort"
	"strings"
)

// variablePattern matches {{name}} placeholders. Braces cannot nest, so
// "{{a{{b}}" yields the single name "a{{b".
var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ExtractVariables returns the distinct placeholder names in text, in order of
// first occurrence. Names are trimmed at the brace boundary only.
// For example, "Hi {{name}}, {{ name }} again, {{place}}" returns ["name", "place"].
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	vars := make([]string, 0, len(matches))

	for _, match := range matches {
		name := strings.TrimSpace(match[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		vars = append(vars, name)
	}

	return vars
}

// Render substitutes values for placeholders in a single pass.
//
// Every "{{name}}" occurrence, with optional whitespace inside the braces,
// is matched for each non-blank name in values, including occurrences
// embedded in longer brace runs such as "{{{name}}}". A non-empty value
// replaces the placeholder verbatim; an empty value collapses it to its
// canonical "{{name}}" form. Names missing from values are left exactly as
// written and inserted values are never scanned again.
func Render(text string, values map[string]string) string {
	names, lookup := renderNames(values)
	if len(names) == 0 {
		return text
	}

	alts := make([]string, len(names))
	for i, name := range names {
		alts[i] = regexp.QuoteMeta(name)
	}
	pattern := regexp.MustCompile(`\{\{\s*(?:` + strings.Join(alts, "|") + `)\s*\}\}`)

	return pattern.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		value, ok := lookup[name]
		if !ok {
			return token
		}
		if value == "" {
			return "{{" + name + "}}"
		}
		return value
	})
}

// renderNames returns the trimmed, non-blank names of values, longest first,
// and the values keyed by trimmed name. An exact key wins over a key that
// only matches after trimming.
func renderNames(values map[string]string) ([]string, map[string]string) {
	lookup := make(map[string]string, len(values))
	for key, value := range values {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if _, dup := lookup[name]; dup && key != name {
			continue
		}
		lookup[name] = value
	}

	names := make([]string, 0, len(lookup))
	for name := range lookup {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names, lookup
}
