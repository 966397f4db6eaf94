// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package staff

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/cmd/supportctl/internal/consoletest"
	"github.com/supportdesk/supportdesk/lib/schema"
)

// setupAdmin logs in an admin and registers two staff accounts: an
// active one (ID 11) and one awaiting activation with an identity
// document (ID 12).
func setupAdmin(t *testing.T) *consoletest.Env {
	t.Helper()
	env := consoletest.Setup(t)
	env.LogIn(schema.User{ID: 1, Username: "asha", Name: "Asha Pillai", Role: schema.RoleAdmin})
	env.Backend.AddAccount(consoletest.Account{
		Password: "pass1234",
		User: schema.User{ID: 11, Username: "ravi", Name: "Ravi Kumar", Role: schema.RoleStaff, IsActive: true,
			Permissions: schema.Permissions{ViewTickets: true}},
	})
	env.Backend.AddAccount(consoletest.Account{
		Password: "pass1234",
		User:     schema.User{ID: 12, Username: "meena", Name: "Meena Iyer", Role: schema.RoleStaff},
		Document: []byte("\xff\xd8\xff\xe0 jpeg"),
	})
	return env
}

func TestRequiresAdmin(t *testing.T) {
	env := consoletest.Setup(t)
	err := env.Run(Command(), "list")
	if cli.CategoryOf(err) != cli.CategoryForbidden {
		t.Fatalf("anonymous: error = %v, want forbidden", err)
	}

	env.LogIn(schema.User{ID: 5, Username: "ravi", Role: schema.RoleStaff})
	err = env.Run(Command(), "activate", "12")
	if cli.CategoryOf(err) != cli.CategoryForbidden {
		t.Fatalf("staff: error = %v, want forbidden", err)
	}
	if !strings.Contains(err.Error(), "admin") {
		t.Errorf("error %q does not mention the admin requirement", err)
	}
	if requests := env.Backend.Requests(); len(requests) != 0 {
		t.Errorf("forbidden command reached the server: %v", requests)
	}
}

func TestList(t *testing.T) {
	env := setupAdmin(t)

	output := env.MustRun(Command(), "list", "--json")
	var staff []schema.Staff
	if err := json.Unmarshal([]byte(output), &staff); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if len(staff) != 3 {
		t.Fatalf("listed %d accounts, want 3", len(staff))
	}

	output = env.MustRun(Command(), "list", "--pending")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("pending table has %d lines, want 2:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[1], "meena") || !strings.HasSuffix(strings.TrimSpace(lines[1]), "yes") {
		t.Errorf("pending row = %q", lines[1])
	}
}

func TestActions(t *testing.T) {
	env := setupAdmin(t)

	output := env.MustRun(Command(), "activate", "12")
	if strings.TrimSpace(output) != "Staff activated successfully" {
		t.Errorf("activate output = %q", output)
	}
	if account := env.Backend.Account("meena"); !account.User.IsActive {
		t.Error("meena not activated")
	}

	env.MustRun(Command(), "make-admin", "12")
	if account := env.Backend.Account("meena"); account.User.Role != schema.RoleAdmin {
		t.Errorf("meena role = %q, want admin", account.User.Role)
	}

	env.MustRun(Command(), "deactivate", "11")
	if account := env.Backend.Account("ravi"); account.User.IsActive {
		t.Error("ravi still active")
	}

	err := env.Run(Command(), "activate", "99")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Errorf("unknown ID: error = %v, want not found", err)
	}
	for _, id := range []string{"abc", "0", "-3"} {
		if err := env.Run(Command(), "activate", id); cli.CategoryOf(err) != cli.CategoryValidation {
			t.Errorf("activate %q: error = %v, want validation", id, err)
		}
	}
}

func TestDelete(t *testing.T) {
	env := setupAdmin(t)

	err := env.Run(Command(), "delete", "11")
	if cli.CategoryOf(err) != cli.CategoryValidation {
		t.Fatalf("delete without --yes: error = %v, want validation", err)
	}
	if env.Backend.Account("ravi") == nil {
		t.Fatal("account deleted without confirmation")
	}

	env.MustRun(Command(), "delete", "11", "--yes")
	if env.Backend.Account("ravi") != nil {
		t.Error("account still present after delete")
	}
}

func TestPermissions(t *testing.T) {
	env := setupAdmin(t)

	output := env.MustRun(Command(), "permissions", "11")
	if strings.TrimSpace(output) != "ravi: view_tickets" {
		t.Errorf("show output = %q", output)
	}

	output = env.MustRun(Command(), "permissions", "11", "--grant", "manage_tickets,send_messages", "--revoke", "view_tickets")
	if strings.TrimSpace(output) != "ravi: manage_tickets,send_messages" {
		t.Errorf("update output = %q", output)
	}
	want := schema.Permissions{ManageTickets: true, SendMessages: true}
	if got := env.Backend.Account("ravi").User.Permissions; got != want {
		t.Errorf("server permissions = %+v, want %+v", got, want)
	}

	err := env.Run(Command(), "permissions", "99", "--grant", "view_tickets")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Errorf("unknown ID: error = %v, want not found", err)
	}
}

func TestApplyPermissions(t *testing.T) {
	base := schema.Permissions{ViewTickets: true, SendMessages: true}
	tests := []struct {
		name    string
		grant   []string
		revoke  []string
		want    schema.Permissions
		wantErr string
	}{
		{"no change", nil, nil, base, ""},
		{"grant", []string{"manage_tickets"}, nil, schema.Permissions{ViewTickets: true, ManageTickets: true, SendMessages: true}, ""},
		{"revoke", nil, []string{"view_tickets", "send_messages"}, schema.Permissions{}, ""},
		{"grant already set", []string{"view_tickets"}, nil, base, ""},
		{"unknown", []string{"delete_tickets"}, nil, base, "unknown permission"},
		{"both", []string{"view_tickets"}, []string{"view_tickets"}, base, "both granted and revoked"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := applyPermissions(base, test.grant, test.revoke)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("error = %v, want %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestIDDocument(t *testing.T) {
	env := setupAdmin(t)

	path := filepath.Join(env.Dir, "meena.jpg")
	output := env.MustRun(Command(), "id-document", "12", "-o", path)
	if !strings.Contains(output, "image/jpeg") {
		t.Errorf("output = %q", output)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\xff\xd8\xff\xe0 jpeg" {
		t.Errorf("document = %q", data)
	}

	output = env.MustRun(Command(), "id-document", "12", "-o", "-")
	if output != "\xff\xd8\xff\xe0 jpeg" {
		t.Errorf("stdout document = %q", output)
	}

	err = env.Run(Command(), "id-document", "11")
	if cli.CategoryOf(err) != cli.CategoryNotFound {
		t.Errorf("no document: error = %v, want not found", err)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":               ".jpg",
		"image/png; charset=utf-8": ".png",
		"application/pdf":          ".pdf",
		"not a type;;":             "",
	}
	for contentType, want := range tests {
		if got := extensionFor(contentType); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", contentType, got, want)
		}
	}
}
