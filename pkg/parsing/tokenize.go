package parsing

import "strings"

// Tokenize splits a line into its whitespace separated fields.
func Tokenize(line string) []string {
	return strings.Fields(line)
}
