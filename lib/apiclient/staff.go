// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/supportdesk/supportdesk/lib/schema"
)

// MaxIDDocumentSize bounds identity document downloads.
const MaxIDDocumentSize int64 = 16 << 20

// ActionResult is the acknowledgement returned by admin mutations.
type ActionResult struct {
	Message     string              `json:"message"`
	Permissions *schema.Permissions `json:"permissions,omitempty"`
}

// DocumentImage is a downloaded identity document.
type DocumentImage struct {
	ContentType string
	Data        []byte
}

func staffPath(staffID int64, suffix string) string {
	return "/api/v1/auth/admin/staff/" + strconv.FormatInt(staffID, 10) + suffix
}

// ListStaff returns every staff account. Admin only.
func (s *Session) ListStaff(ctx context.Context) ([]schema.Staff, error) {
	staff := []schema.Staff{}
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/v1/auth/admin/staff", s.accessToken, nil, nil, &staff); err != nil {
		return nil, fmt.Errorf("apiclient: list staff: %w", err)
	}
	return staff, nil
}

// ActivateStaff allows a registered account to log in.
func (s *Session) ActivateStaff(ctx context.Context, staffID int64) (*ActionResult, error) {
	return s.staffAction(ctx, http.MethodPatch, staffID, "/activate", nil, "activate")
}

// DeactivateStaff blocks an account from logging in.
func (s *Session) DeactivateStaff(ctx context.Context, staffID int64) (*ActionResult, error) {
	return s.staffAction(ctx, http.MethodPatch, staffID, "/deactivate", nil, "deactivate")
}

// MakeAdmin promotes an account to the admin role.
func (s *Session) MakeAdmin(ctx context.Context, staffID int64) (*ActionResult, error) {
	return s.staffAction(ctx, http.MethodPatch, staffID, "/make-admin", nil, "make admin")
}

// SetPermissions replaces an account's permission flags.
func (s *Session) SetPermissions(ctx context.Context, staffID int64, permissions schema.Permissions) (*ActionResult, error) {
	body := map[string]schema.Permissions{"permissions": permissions}
	return s.staffAction(ctx, http.MethodPatch, staffID, "/permissions", body, "set permissions")
}

// DeleteStaff removes an account and its uploaded document.
func (s *Session) DeleteStaff(ctx context.Context, staffID int64) (*ActionResult, error) {
	return s.staffAction(ctx, http.MethodDelete, staffID, "", nil, "delete")
}

func (s *Session) staffAction(ctx context.Context, method string, staffID int64, suffix string, body any, action string) (*ActionResult, error) {
	var result ActionResult
	if err := s.client.doJSON(ctx, method, staffPath(staffID, suffix), s.accessToken, body, nil, &result); err != nil {
		return nil, fmt.Errorf("apiclient: %s staff %d: %w", action, staffID, err)
	}
	s.client.logger.Info("staff updated",
		"action", action,
		"staff_id", staffID,
	)
	return &result, nil
}

// IDDocument downloads the identity document a staff member uploaded
// at registration. A 404 *APIError means none was uploaded.
func (s *Session) IDDocument(ctx context.Context, staffID int64) (*DocumentImage, error) {
	path := staffPath(staffID, "/aadhar")
	resp, err := s.client.send(ctx, http.MethodGet, path, s.accessToken, "", nil, nil, MaxIDDocumentSize)
	if err != nil {
		return nil, fmt.Errorf("apiclient: fetch id document of staff %d: %w", staffID, err)
	}
	contentType := resp.header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(resp.body)
	}
	return &DocumentImage{ContentType: contentType, Data: resp.body}, nil
}
