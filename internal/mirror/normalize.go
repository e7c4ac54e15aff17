package mirror

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SentinelParticipant marks a deleted or unassigned participant slot in
// mirror rows. Rows carrying it are excluded from every aggregation.
const SentinelParticipant = 255

// FlexInt decodes an integer that the indexer encodes inconsistently as a
// JSON number, a decimal string, or a hex string. Normalization happens
// here, once, at the boundary; downstream code only ever sees int.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := parseFlexible(s)
		if err != nil {
			return err
		}
		*f = FlexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		// Some numeric fields arrive as floats.
		var fl float64
		if ferr := json.Unmarshal(data, &fl); ferr != nil {
			return err
		}
		n = int64(fl)
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

func parseFlexible(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

// NormalizeGameID canonicalizes a game identifier to a decimal string so
// hex and decimal encodings of the same id compare equal. Unparseable ids
// are returned unchanged.
func NormalizeGameID(id string) string {
	n, err := parseFlexible(id)
	if err != nil {
		return id
	}
	return strconv.FormatInt(n, 10)
}

// SameGameID compares two game ids after normalization.
func SameGameID(a, b string) bool {
	return NormalizeGameID(a) == NormalizeGameID(b)
}
