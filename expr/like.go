package expr

import (
	"regexp"
	"strings"
)

// LikePattern compiles a LIKE pattern. Every character except '%' matches
// itself; '%' matches any sequence. The match is anchored at both ends.
func LikePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "%")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "$")
}

func (l *Like) compiled(pattern string) (*regexp.Regexp, error) {
	if l.re != nil && l.pattern == pattern {
		return l.re, nil
	}
	re, err := LikePattern(pattern)
	if err != nil {
		return nil, err
	}
	l.pattern, l.re = pattern, re
	return re, nil
}
