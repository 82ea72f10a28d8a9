package opensearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type searchResponse struct {
	Feed feed `json:"feed"`
}

type feed struct {
	TotalResults flexInt `json:"opensearch:totalResults"`
	Entries      entries `json:"entry"`
}

type entry struct {
	Title string `json:"title"`
}

// flexInt accepts a JSON number or a numeric string. DHuS sends the total as a string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("totalResults %q is not an integer", s)
	}
	*n = flexInt(v)
	return nil
}

// entries accepts an array, a single object or null. DHuS collapses one-element arrays.
type entries []entry

func (e *entries) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*e = nil
		return nil
	case data[0] == '[':
		var list []entry
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*e = list
		return nil
	default:
		var one entry
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*e = entries{one}
		return nil
	}
}
