package activity

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Types returns the distinct activity types across all records, sorted for
// stable human-readable output.
func Types(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	types := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Type]; ok {
			continue
		}
		seen[rec.Type] = struct{}{}
		types = append(types, rec.Type)
	}
	collate.New(language.English).SortStrings(types)
	return types
}
