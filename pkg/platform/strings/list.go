package strings

import (
	"encoding/json"
	"fmt"
)

// List is a string list that also decodes from a comma separated JSON string,
// which is how the registration forms send assigned areas. Either form is deduped.
type List []string

func (l *List) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = SplitList(text)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = Dedupe(items)
	if *l == nil {
		*l = List{}
	}
	return nil
}
