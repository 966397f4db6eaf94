// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "strings"

// Role is a staff account's privilege level.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Permissions are the per-account feature flags an admin can toggle.
type Permissions struct {
	ViewTickets   bool `json:"view_tickets"`
	ManageTickets bool `json:"manage_tickets"`
	SendMessages  bool `json:"send_messages"`
}

// User is the identity carried by an authenticated session.
type User struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
	IsActive    bool        `json:"is_active"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Staff is a staff account as listed by the admin endpoints.
type Staff struct {
	ID              int64       `json:"id"`
	Username        string      `json:"username"`
	Name            string      `json:"name"`
	FatherName      string      `json:"father_name"`
	Address         string      `json:"address"`
	MobileNumber    string      `json:"mobile_number"`
	AadharImagePath string      `json:"aadhar_image_path,omitempty"`
	Role            Role        `json:"role"`
	Permissions     Permissions `json:"permissions"`
	IsActive        bool        `json:"is_active"`
	CreatedAt       Timestamp   `json:"created_at"`
	UpdatedAt       Timestamp   `json:"updated_at"`
}

// HasIDDocument reports whether an identity document was uploaded at
// registration.
func (s Staff) HasIDDocument() bool {
	return s.AadharImagePath != ""
}

// Registration is the staff self-registration form. New accounts are
// inactive until an admin activates them.
type Registration struct {
	Username        string
	Password        string
	ConfirmPassword string
	Name            string
	FatherName      string
	Address         string
	MobileNumber    string
}

// RegistrationMobileLength is the exact digit count required of a
// registering staff member's mobile number.
const RegistrationMobileLength = 10

// Validate applies the registration screen's checks.
func (r Registration) Validate() FieldErrors {
	errs := FieldErrors{}

	required := []struct{ field, value, label string }{
		{"username", r.Username, "Username"},
		{"password", r.Password, "Password"},
		{"name", r.Name, "Name"},
		{"father_name", r.FatherName, "Father's name"},
		{"address", r.Address, "Address"},
		{"mobile_number", r.MobileNumber, "Mobile number"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs[field.field] = field.label + " is required"
		}
	}

	if _, missing := errs["password"]; !missing && r.Password != r.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}
	if _, missing := errs["mobile_number"]; !missing {
		if digits := DigitsOnly(r.MobileNumber); len(digits) != RegistrationMobileLength || digits != strings.TrimSpace(r.MobileNumber) {
			errs["mobile_number"] = "Mobile number must be 10 digits"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
