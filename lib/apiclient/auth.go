// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/supportdesk/supportdesk/lib/netutil"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        schema.User `json:"user"`
}

// RegisterResponse is the body of a successful staff registration.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

// IDDocument is an uploaded identity document image.
type IDDocument struct {
	// Filename is the name the document is uploaded under.
	Filename string
	// Content is read once during the upload.
	Content io.Reader
}

// Login exchanges a username and password for a bearer token. The
// password Buffer is read but not closed; the caller retains it.
//
// A wrong password yields a 401 *APIError; an account awaiting admin
// approval yields a 403 *APIError whose Detail explains why.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer) (*LoginResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("apiclient: username is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("apiclient: password is required for login")
	}

	request := map[string]string{
		"username": username,
		"password": password.String(),
	}
	var loginResponse LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", nil, request, nil, &loginResponse); err != nil {
		return nil, fmt.Errorf("apiclient: login failed: %w", err)
	}
	if loginResponse.AccessToken == "" {
		return nil, fmt.Errorf("apiclient: login response has no access_token")
	}

	c.logger.Info("logged in",
		"username", loginResponse.User.Username,
		"role", loginResponse.User.Role,
	)
	return &loginResponse, nil
}

// WhoAmI resolves a bare token to its account. It is a convenience for
// callers that hold a token string rather than a Session.
func (c *Client) WhoAmI(ctx context.Context, token string) (schema.User, error) {
	session, err := c.NewSession(token, schema.User{})
	if err != nil {
		return schema.User{}, err
	}
	defer session.Close()
	return session.Me(ctx)
}

// Register submits a staff self-registration as multipart form data.
// document may be nil. The new account stays inactive until an admin
// activates it.
func (c *Client) Register(ctx context.Context, registration schema.Registration, document *IDDocument) (*RegisterResponse, error) {
	if errs := registration.Validate(); errs != nil {
		return nil, errs
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := []struct{ name, value string }{
		{"username", registration.Username},
		{"password", registration.Password},
		{"name", registration.Name},
		{"father_name", registration.FatherName},
		{"address", registration.Address},
		{"mobile_number", registration.MobileNumber},
	}
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, fmt.Errorf("apiclient: writing form field %s: %w", field.name, err)
		}
	}
	if document != nil {
		part, err := writer.CreateFormFile("aadhar_image", filepath.Base(document.Filename))
		if err != nil {
			return nil, fmt.Errorf("apiclient: creating document part: %w", err)
		}
		if _, err := io.Copy(part, document.Content); err != nil {
			return nil, fmt.Errorf("apiclient: copying document: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("apiclient: closing form: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/v1/auth/register", nil, writer.FormDataContentType(), &body, nil, netutil.MaxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("apiclient: register failed: %w", err)
	}
	var registerResponse RegisterResponse
	if err := json.Unmarshal(resp.body, &registerResponse); err != nil {
		return nil, fmt.Errorf("apiclient: decoding register response: %w", err)
	}

	c.logger.Info("registered staff account",
		"username", registerResponse.Username,
		"id", registerResponse.ID,
	)
	return &registerResponse, nil
}
