package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a lowercase LIKE pattern that matches q anywhere.
// Wildcards in q match literally; pair it with ESCAPE '\'.
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// LikeAny builds "LOWER(a) LIKE ? ESCAPE '\' OR ..." for the given columns
func LikeAny(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
	}
	return strings.Join(parts, " OR ")
}
