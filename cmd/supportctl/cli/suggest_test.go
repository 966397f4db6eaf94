// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"list", "", 4},
		{"", "show", 4},
		{"status", "status", 0},
		{"staus", "status", 1},
		{"comments", "comment", 1},
		{"whoami", "whoamI", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "list"}, {Name: "show"}, {Name: "status"}, {Name: "comments"}}
	tests := []struct{ input, want string }{
		{"lsit", "list"},
		{"stauts", "status"},
		{"comment", "comments"},
		{"frobnicate", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flagSet.String("status", "", "")
	flagSet.BoolP("offline", "o", false, "")
	flagSet.String("search", "", "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--statsu", "open"}, "--status"},
		{[]string{"--status", "open", "--ofline"}, "--offline"},
		{[]string{"-o", "--serach=x"}, "--search"},
		{[]string{"--completely-different"}, ""},
		{[]string{"--", "--statsu"}, ""},
		{[]string{"TKT-1"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%q) = %q, want %q", test.args, got, test.want)
		}
	}
}
