package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleString accepts a JSON string or number. Game providers are not
// consistent about quoting ids such as account_id or game_code.
type FlexibleString string

func (fs *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	var n json.Number

	if string(data) == "null" {
		*fs = ""
		return nil
	}

	if err := json.Unmarshal(data, &s); err == nil {
		*fs = FlexibleString(strings.TrimSpace(s))
		return nil
	}

	// Numbers keep their literal text; ids can exceed int64 and float64 precision.
	if err := json.Unmarshal(data, &n); err == nil {
		*fs = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("unable to parse %s as FlexibleString", string(data))
}

func (fs FlexibleString) String() string {
	return string(fs)
}
