package index

import (
	"fmt"
	"strings"
)

// asciiDocIndex is the Index chapter for AsciiDoc output; the AsciiDoc
// toolchain collects the indexterm macros and builds the catalogue itself.
const asciiDocIndex = "[index]\n== Index\n"

var asciiDocEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// AsciiDocRenderer emits concealed indexterm macros at each occurrence.
type AsciiDocRenderer struct {
	Rules Rules
}

// Mark puts the indexterm macro ahead of the replacement text.
func (r AsciiDocRenderer) Mark(replacement string, occ Occurrence) string {
	return fmt.Sprintf("indexterm:[%s] %s", r.indexTerm(occ.Term.Key), replacement)
}

// Index returns the AsciiDoc index section.
func (r AsciiDocRenderer) Index(*Index, string) string {
	return asciiDocIndex
}

// indexTerm builds the macro arguments for a term: the term itself, or
// "parent,child" when nested, with a see= attribute when redirected.
func (r AsciiDocRenderer) indexTerm(key string) string {
	term := textToAsciiDoc(key)

	var args string
	if parent, ok := lookupRule(r.Rules.NestUnder, key); ok {
		args = asciiDocProtect(textToAsciiDoc(parent)) + `,"` + term + `"`
	} else {
		args = asciiDocProtect(term)
	}

	if target, ok := lookupRule(r.Rules.SeeInstead, key); ok {
		args += `,see="` + textToAsciiDoc(target) + `"`
	}
	return args
}

// lookupRule finds key in rules, comparing rule keys in canonical form.
func lookupRule(rules map[string]string, key string) (string, bool) {
	if v, ok := rules[key]; ok {
		return v, true
	}
	for k, v := range rules {
		if Canonicalize(k) == key {
			return v, true
		}
	}
	return "", false
}

// textToAsciiDoc drops markdown formatting around index text and escapes
// characters AsciiDoc treats specially.
func textToAsciiDoc(text string) string {
	text = strings.ReplaceAll(text, "`", "")
	text = strings.Trim(text, "*")
	text = strings.Trim(text, "_")
	return asciiDocEscaper.Replace(text)
}

// asciiDocProtect quotes text containing commas, which would otherwise
// start a nested term, and passes "(C)" through untouched so it is not
// replaced with a copyright sign.
func asciiDocProtect(text string) string {
	if strings.Contains(text, ",") {
		text = `"` + text + `"`
	}
	if HasCopyrightMark(text) {
		text = "pass:[" + text + "]"
	}
	return text
}
