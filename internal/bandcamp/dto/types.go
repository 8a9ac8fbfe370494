package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// BandcampTime is a custom time type that handles Bandcamp's date format.
type BandcampTime struct {
	time.Time
}

// UnmarshalJSON parses Bandcamp's date format: "01 Jan 2023 00:00:00 GMT".
// null and "" leave the time zero.
func (bt *BandcampTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		bt.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		bt.Time = time.Time{}
		return nil
	}

	formats := []string{
		"02 Jan 2006 15:04:05 MST", // "01 Jan 2023 00:00:00 GMT"
		"2 Jan 2006 15:04:05 MST",  // "1 Jan 2023 00:00:00 GMT"
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			bt.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse date: %s", s)
}

// FlexString accepts either a JSON string or a JSON number. Bandcamp is not
// consistent about which one it sends for IDs.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*fs = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*fs = FlexString(n.String())
	return nil
}

// String returns the value as a plain string.
func (fs FlexString) String() string {
	return string(fs)
}
