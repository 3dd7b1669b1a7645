package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString: UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// timestampLayouts are the ISO-8601 forms accepted on decode. Layouts without
// a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time.
func ParseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way toISOString does.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// decodeCreatedAt reads a createdAt value. Strings are parsed as ISO-8601 and
// numbers as Unix milliseconds. Anything unreadable yields the zero time so
// one bad field does not invalidate the whole record.
func decodeCreatedAt(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}
		}
		t, _ := ParseTimestamp(s)
		return t
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// itemFields has Item's fields without its JSON methods.
type itemFields Item

// MarshalJSON writes createdAt in toISOString form.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		itemFields
		CreatedAt string `json:"createdAt"`
	}{
		itemFields: itemFields(i),
		CreatedAt:  FormatTimestamp(i.CreatedAt),
	})
}

// UnmarshalJSON reads an item, accepting any ISO-8601 createdAt.
func (i *Item) UnmarshalJSON(data []byte) error {
	w := struct {
		*itemFields
		CreatedAt json.RawMessage `json:"createdAt"`
	}{itemFields: (*itemFields)(i)}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	i.CreatedAt = decodeCreatedAt(w.CreatedAt)
	return nil
}
