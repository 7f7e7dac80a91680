// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "dell'artigianato" becomes "Dell'Artigianato".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inWord := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			inWord = false
		case inWord:
			r = unicode.ToLower(r)
		default:
			r = unicode.ToUpper(r)
			inWord = true
		}

		b.WriteRune(r)
	}

	return b.String()
}

// isLower reports whether s has at least one cased letter and no upper or
// title case letters.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}

		if unicode.IsLower(r) {
			cased = true
		}
	}

	return cased
}

// capitalize upper-cases the first rune of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// startsLower reports whether the first rune of s is a lowercase letter.
func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)

	return unicode.IsLower(r)
}

// replaceSpan replaces s[loc[0]:loc[1]] with repl.
func replaceSpan(s string, loc []int, repl string) string {
	return s[:loc[0]] + repl + s[loc[1]:]
}
