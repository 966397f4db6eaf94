// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package consoletest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/supportdesk/supportdesk/lib/schema"
)

// Account is a staff login known to the Backend.
type Account struct {
	Password string
	Token    string
	User     schema.User
	Document []byte
}

// Backend is an in-memory support server.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	tickets  []schema.Ticket
	comments map[string][]schema.Comment
	accounts []*Account
	requests []string
	down     bool
	nextID   int64
}

// NewBackend starts a Backend that is stopped when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{comments: map[string][]schema.Comment{}, nextID: 100}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", b.login)
	mux.HandleFunc("GET /api/v1/auth/me", b.authenticated(false, b.me))
	mux.HandleFunc("POST /api/v1/auth/register", b.register)
	mux.HandleFunc("GET /api/v1/auth/admin/staff", b.authenticated(true, b.listStaff))
	mux.HandleFunc("PATCH /api/v1/auth/admin/staff/{id}/{action}", b.authenticated(true, b.staffAction))
	mux.HandleFunc("DELETE /api/v1/auth/admin/staff/{id}", b.authenticated(true, b.deleteStaff))
	mux.HandleFunc("GET /api/v1/auth/admin/staff/{id}/aadhar", b.authenticated(true, b.document))
	mux.HandleFunc("POST /api/v1/tickets/create", b.createTicket)
	mux.HandleFunc("GET /api/v1/tickets/list", b.listTickets)
	mux.HandleFunc("GET /api/v1/tickets/{number}", b.getTicket)
	mux.HandleFunc("PATCH /api/v1/tickets/{number}/status", b.authenticated(false, b.updateStatus))
	mux.HandleFunc("GET /api/v1/tickets/{number}/comments", b.listComments)
	mux.HandleFunc("POST /api/v1/tickets/{number}/comments", b.authenticated(false, b.addComment))

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		down := b.down
		b.mu.Unlock()
		if down {
			writeDetail(w, http.StatusServiceUnavailable, "maintenance")
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the backend's base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// AddAccount registers a login. Its token is "token-<username>" unless
// set.
func (b *Backend) AddAccount(account Account) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	if account.Token == "" {
		account.Token = "token-" + account.User.Username
	}
	stored := account
	b.accounts = append(b.accounts, &stored)
	return &stored
}

// AddTickets appends tickets to the list.
func (b *Backend) AddTickets(tickets ...schema.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = append(b.tickets, tickets...)
}

// Tickets returns a copy of the server's list.
func (b *Backend) Tickets() []schema.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tickets)
}

// Comments returns the comments stored for a ticket.
func (b *Backend) Comments(ticketNumber string) []schema.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.comments[ticketNumber])
}

// Account returns the stored account for username, or nil.
func (b *Backend) Account(username string) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, account := range b.accounts {
		if account.User.Username == username {
			copied := *account
			return &copied
		}
	}
	return nil
}

// Requests returns "METHOD /path" for every request received.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// SetDown makes every request fail with 503 while down is true.
func (b *Backend) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// authenticated resolves the bearer token before calling next.
func (b *Backend) authenticated(adminOnly bool, next func(http.ResponseWriter, *http.Request, *Account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		var account *Account
		for _, candidate := range b.accounts {
			if ok && candidate.Token == token && candidate.User.IsActive {
				account = candidate
			}
		}
		b.mu.Unlock()
		switch {
		case account == nil:
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		case adminOnly && !account.User.IsAdmin():
			writeDetail(w, http.StatusForbidden, "Admin access required")
		default:
			next(w, r, account)
		}
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, account := range b.accounts {
		if account.User.Username != request.Username || account.Password != request.Password {
			continue
		}
		if !account.User.IsActive {
			writeDetail(w, http.StatusForbidden, "Account is not active. Please wait for admin approval.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": account.Token,
			"token_type":   "bearer",
			"user":         account.User,
		})
		return
	}
	writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
}

func (b *Backend) me(w http.ResponseWriter, _ *http.Request, account *Account) {
	writeJSON(w, http.StatusOK, account.User)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	username := r.FormValue("username")

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, account := range b.accounts {
		if account.User.Username == username {
			writeDetail(w, http.StatusBadRequest, "Username already registered")
			return
		}
	}
	b.nextID++
	account := &Account{
		Password: r.FormValue("password"),
		Token:    "token-" + username,
		User: schema.User{
			ID:       b.nextID,
			Username: username,
			Name:     r.FormValue("name"),
			Role:     schema.RoleStaff,
		},
	}
	if file, _, err := r.FormFile("aadhar_image"); err == nil {
		account.Document, _ = io.ReadAll(file)
		file.Close()
	}
	b.accounts = append(b.accounts, account)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       account.User.ID,
		"username": username,
		"name":     account.User.Name,
		"message":  "Registration successful. Please wait for admin approval.",
	})
}

func (b *Backend) staffRecord(account *Account) schema.Staff {
	staff := schema.Staff{
		ID:          account.User.ID,
		Username:    account.User.Username,
		Name:        account.User.Name,
		Role:        account.User.Role,
		Permissions: account.User.Permissions,
		IsActive:    account.User.IsActive,
	}
	if account.Document != nil {
		staff.AadharImagePath = fmt.Sprintf("uploads/aadhar/%d.jpg", account.User.ID)
	}
	return staff
}

func (b *Backend) listStaff(w http.ResponseWriter, _ *http.Request, _ *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	staff := []schema.Staff{}
	for _, account := range b.accounts {
		staff = append(staff, b.staffRecord(account))
	}
	writeJSON(w, http.StatusOK, staff)
}

// findAccountLocked resolves the {id} path value.
func (b *Backend) findAccountLocked(r *http.Request) *Account {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return nil
	}
	for _, account := range b.accounts {
		if account.User.ID == id {
			return account
		}
	}
	return nil
}

func (b *Backend) staffAction(w http.ResponseWriter, r *http.Request, _ *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	account := b.findAccountLocked(r)
	if account == nil {
		writeDetail(w, http.StatusNotFound, "Staff not found")
		return
	}
	switch r.PathValue("action") {
	case "activate":
		account.User.IsActive = true
		writeJSON(w, http.StatusOK, map[string]string{"message": "Staff activated successfully"})
	case "deactivate":
		account.User.IsActive = false
		writeJSON(w, http.StatusOK, map[string]string{"message": "Staff deactivated successfully"})
	case "make-admin":
		account.User.Role = schema.RoleAdmin
		writeJSON(w, http.StatusOK, map[string]string{"message": "Staff promoted to admin successfully"})
	case "permissions":
		var body struct {
			Permissions schema.Permissions `json:"permissions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeDetail(w, http.StatusBadRequest, "malformed body")
			return
		}
		account.User.Permissions = body.Permissions
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "Permissions updated successfully",
			"permissions": body.Permissions,
		})
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func (b *Backend) deleteStaff(w http.ResponseWriter, r *http.Request, _ *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	account := b.findAccountLocked(r)
	if account == nil {
		writeDetail(w, http.StatusNotFound, "Staff not found")
		return
	}
	b.accounts = slices.DeleteFunc(b.accounts, func(candidate *Account) bool { return candidate == account })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Staff deleted successfully"})
}

func (b *Backend) document(w http.ResponseWriter, r *http.Request, _ *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	account := b.findAccountLocked(r)
	if account == nil || account.Document == nil {
		writeDetail(w, http.StatusNotFound, "Aadhar image not found")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(account.Document)
}

func (b *Backend) createTicket(w http.ResponseWriter, r *http.Request) {
	var request schema.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	now := schema.NewTimestamp(time.Now())
	ticket := schema.Ticket{
		ID:           b.nextID,
		TicketNumber: fmt.Sprintf("TKT-%s-%04d", time.Now().UTC().Format("20060102"), b.nextID),
		Name:         request.Name,
		FatherName:   request.FatherName,
		Address:      request.Address,
		Pincode:      request.Pincode,
		MobileNumber: request.MobileNumber,
		EventDate:    request.EventDate,
		Query:        request.Query,
		Status:       schema.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b.tickets = append(b.tickets, ticket)
	writeJSON(w, http.StatusOK, ticket)
}

// listTickets returns newest first, paged by skip and limit (default
// 100), like the real list endpoint.
func (b *Backend) listTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, _ := strconv.Atoi(query.Get("skip"))
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	b.mu.Lock()
	all := slices.Clone(b.tickets)
	b.mu.Unlock()

	slices.SortStableFunc(all, func(x, y schema.Ticket) int { return y.CreatedAt.Compare(x.CreatedAt) })
	if status := query.Get("status"); status != "" {
		all = slices.DeleteFunc(all, func(ticket schema.Ticket) bool { return string(ticket.Status) != status })
	}
	total := len(all)
	page := []schema.Ticket{}
	if skip < total {
		page = all[skip:min(skip+limit, total)]
	}
	writeJSON(w, http.StatusOK, schema.TicketList{Total: total, Tickets: page})
}

func (b *Backend) findTicketLocked(r *http.Request) int {
	number := r.PathValue("number")
	return slices.IndexFunc(b.tickets, func(ticket schema.Ticket) bool { return ticket.TicketNumber == number })
}

func (b *Backend) getTicket(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findTicketLocked(r)
	if index < 0 {
		writeDetail(w, http.StatusNotFound, "Ticket not found")
		return
	}
	writeJSON(w, http.StatusOK, b.tickets[index])
}

func (b *Backend) updateStatus(w http.ResponseWriter, r *http.Request, _ *Account) {
	status := schema.Status(r.URL.Query().Get("status"))
	if !status.IsKnown() {
		writeDetail(w, http.StatusBadRequest, "Invalid status")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findTicketLocked(r)
	if index < 0 {
		writeDetail(w, http.StatusNotFound, "Ticket not found")
		return
	}
	b.tickets[index].Status = status
	b.tickets[index].UpdatedAt = schema.NewTimestamp(time.Now())
	writeJSON(w, http.StatusOK, b.tickets[index])
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findTicketLocked(r) < 0 {
		writeDetail(w, http.StatusNotFound, "Ticket not found")
		return
	}
	comments := b.comments[r.PathValue("number")]
	if comments == nil {
		comments = []schema.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (b *Backend) addComment(w http.ResponseWriter, r *http.Request, _ *Account) {
	var request schema.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	index := b.findTicketLocked(r)
	if index < 0 {
		writeDetail(w, http.StatusNotFound, "Ticket not found")
		return
	}
	b.nextID++
	comment := schema.Comment{
		ID:          b.nextID,
		TicketID:    b.tickets[index].ID,
		AuthorName:  request.AuthorName,
		CommentText: request.CommentText,
		CreatedAt:   schema.NewTimestamp(time.Now()),
	}
	number := r.PathValue("number")
	b.comments[number] = append(b.comments[number], comment)
	writeJSON(w, http.StatusOK, comment)
}
