// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"slices"
	"strings"
	"testing"
	"time"
)

type EmbeddedFlags struct {
	Server string `flag:"server" desc:"backend"`
}

type sampleParams struct {
	EmbeddedFlags
	JSONOutput
	Name     string        `flag:"name,n" desc:"name" default:"asha"`
	Count    int           `flag:"count" default:"3"`
	ID       int64         `flag:"id"`
	Force    bool          `flag:"force,f"`
	Interval time.Duration `flag:"interval" default:"30s"`
	Tags     []string      `flag:"tag" default:"a,b"`
	Ignored  string
}

type hiddenFlags struct {
	Server string `flag:"server"`
}

type unexportedEmbedding struct {
	hiddenFlags
}

func TestBindFlagsDefaultsAndParsing(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)

	if params.Name != "asha" || params.Count != 3 || params.Interval != 30*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if !slices.Equal(params.Tags, []string{"a", "b"}) {
		t.Errorf("Tags default = %v", params.Tags)
	}

	err := flagSet.Parse([]string{"-n", "ravi", "--count=7", "--id", "42", "-f",
		"--interval", "5m", "--tag", "x,y", "--server", "http://10.0.0.1", "--json", "TKT-1"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Name != "ravi" || params.Count != 7 || params.ID != 42 || !params.Force {
		t.Errorf("parsed = %+v", params)
	}
	if params.Interval != 5*time.Minute || !slices.Equal(params.Tags, []string{"x", "y"}) {
		t.Errorf("parsed = %+v", params)
	}
	if params.Server != "http://10.0.0.1" || !params.OutputJSON {
		t.Errorf("embedded flags not bound: %+v", params)
	}
	if args := flagSet.Args(); !slices.Equal(args, []string{"TKT-1"}) {
		t.Errorf("Args = %v", args)
	}
	if flagSet.Lookup("Ignored") != nil || flagSet.Lookup("ignored") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlagsRejects(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"non-pointer", sampleParams{}, "pointer to a struct"},
		{"unexported embedded", &unexportedEmbedding{}, "must be exported"},
		{"unsupported type", &struct {
			Ratio float32 `flag:"ratio"`
		}{}, "unsupported type"},
		{"bad default", &struct {
			Count int `flag:"count" default:"many"`
		}{}, "default for --count"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, FlagsFromParams("bad", &struct{}{}))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("BindFlags = %v, want error containing %q", err, test.want)
			}
		})
	}
}
