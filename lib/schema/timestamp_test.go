// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01T10:00:00Z", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T15:30:00+05:30", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:00:00.5", time.Date(2024, 1, 1, 10, 0, 0, 500000000, time.UTC)},
		{"2024-01-01 10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-02-01", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		got, err := ParseTimestamp(test.input)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", test.input, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", test.input, got.Time, test.want)
		}
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("ParseTimestamp(\"yesterday\") succeeded, want error")
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	original := NewTimestamp(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-05-06T07:08:09Z"` {
		t.Errorf("Marshal = %s, want %s", data, `"2024-05-06T07:08:09Z"`)
	}

	zero, err := json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("Marshal zero: %v", err)
	}
	if string(zero) != "null" {
		t.Errorf("Marshal zero = %s, want null", zero)
	}

	var decoded Timestamp
	if err := json.Unmarshal([]byte(`""`), &decoded); err != nil {
		t.Fatalf("Unmarshal empty string: %v", err)
	}
	if !decoded.IsZero() {
		t.Errorf("empty string decoded to %v, want zero", decoded)
	}

	if err := json.Unmarshal([]byte(`42`), &decoded); err == nil {
		t.Error("Unmarshal number succeeded, want error")
	}
}

func TestTimestampCompare(t *testing.T) {
	t.Parallel()

	earlier, _ := ParseTimestamp("2024-01-01")
	later, _ := ParseTimestamp("2024-02-01")
	if earlier.Compare(later) >= 0 {
		t.Errorf("Compare(earlier, later) = %d, want negative", earlier.Compare(later))
	}
	if later.Compare(earlier) <= 0 {
		t.Errorf("Compare(later, earlier) = %d, want positive", later.Compare(earlier))
	}
	if earlier.Compare(earlier) != 0 {
		t.Error("Compare(earlier, earlier) != 0")
	}
}
