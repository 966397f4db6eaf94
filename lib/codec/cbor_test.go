// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/supportdesk/supportdesk/lib/schema"
)

func sampleTickets() []schema.Ticket {
	created := schema.NewTimestamp(time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC))
	return []schema.Ticket{
		{ID: 1, TicketNumber: "TKT-20240105-AB12", Name: "Meera Nair", MobileNumber: "9876543210", Status: schema.StatusOpen, CreatedAt: created},
		{ID: 2, TicketNumber: "TKT-20240105-CD34", Name: "Arjun Menon", Status: schema.StatusInProgress, CreatedAt: created},
	}
}

func TestTicketsSurviveEncoding(t *testing.T) {
	original := sampleTickets()

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded []schema.Ticket
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(decoded) != len(original) {
		t.Fatalf("decoded %d tickets, want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i].TicketNumber != original[i].TicketNumber ||
			decoded[i].Status != original[i].Status ||
			decoded[i].CreatedAt.Compare(original[i].CreatedAt) != 0 {
			t.Errorf("ticket %d: got %+v, want %+v", i, decoded[i], original[i])
		}
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	first, err := Marshal(map[string]any{"b": 2, "a": 1, "c": []string{"x"}})
	if err != nil {
		t.Fatal(err)
	}
	for range 20 {
		again, err := Marshal(map[string]any{"c": []string{"x"}, "a": 1, "b": 2})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("same map encoded to different bytes")
		}
	}
}

func TestJSONTagsNameFields(t *testing.T) {
	data, err := Marshal(sampleTickets()[0])
	if err != nil {
		t.Fatal(err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	for _, key := range []string{`"ticket_number"`, `"mobile_number"`, `"created_at"`} {
		if !strings.Contains(diagnostic, key) {
			t.Errorf("diagnostic %s missing key %s", diagnostic, key)
		}
	}
}

func TestDuplicateKeysRejected(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	var decoded map[string]int
	if err := Unmarshal(data, &decoded); err == nil {
		t.Errorf("Unmarshal accepted duplicate keys: %v", decoded)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data, err := Marshal(map[string]any{"ticket_number": "TKT-1", "priority": "high"})
	if err != nil {
		t.Fatal(err)
	}
	var ticket schema.Ticket
	if err := Unmarshal(data, &ticket); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ticket.TicketNumber != "TKT-1" {
		t.Errorf("TicketNumber = %q", ticket.TicketNumber)
	}
}

func TestTimestampsEncodeAsText(t *testing.T) {
	ticket := sampleTickets()[0]
	data, err := Marshal(ticket)
	if err != nil {
		t.Fatal(err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if want := `"created_at": "2024-01-05T10:30:00Z"`; !strings.Contains(diagnostic, want) {
		t.Errorf("diagnostic %s does not contain %s", diagnostic, want)
	}

	var decoded schema.Ticket
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.CreatedAt.Equal(ticket.CreatedAt.Time) {
		t.Errorf("CreatedAt = %v, want %v", decoded.CreatedAt, ticket.CreatedAt)
	}
	if !decoded.UpdatedAt.IsZero() {
		t.Errorf("zero UpdatedAt decoded as %v", decoded.UpdatedAt)
	}
}
