package ksituation

import (
	"encoding/json"
	"strings"
)

// Describe renders s for humans, most recent round first: the subtemplate
// grid followed by the JSON index -> plaquette name mapping.
func Describe(s Situation) string {
	blocks := make([]string, 0, len(s.subtemplates))
	for t := len(s.subtemplates) - 1; t >= 0; t-- {
		names, _ := json.Marshal(s.plaquettes[t].NameDict())
		blocks = append(blocks, strings.Join([]string{
			"Subtemplate:",
			s.subtemplates[t].String(),
			"Plaquettes:",
			string(names),
		}, "\n"))
	}
	return strings.Join(blocks, "\n"+strings.Repeat("-", 40)+"\n")
}
