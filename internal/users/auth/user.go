// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the Sakura identity layer: credential accounts, public
profiles and the single current session of the process.

# Architecture

  - Store: accounts, profiles and the session, written through a [Repository].
  - Repository: three independent collections in the key/value storage.
  - Handler: the /auth, /me and /admin/users HTTP endpoints.

Store operations report business outcomes as a [Result] carrying the message
shown to the reader. Only infrastructure failures travel as Go errors.
*/
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/taibuivan/sakura/internal/platform/sec"
)

// # Domain Entities

// Account is the credential record of a user. It never leaves this package
// through the HTTP layer.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile is the public identity of a user. Its ID matches the [Account] ID.
type UserProfile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        sec.UserRole `json:"role"`
	Avatar      string       `json:"avatar,omitempty"`
	Description string       `json:"description,omitempty"`
	JoinedAt    time.Time    `json:"joinedAt"`
	Bookmarks   []string     `json:"bookmarks"`
}

// Clone returns a copy that shares no slices with p.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Bookmarks = slices.Clone(p.Bookmarks)
	if clone.Bookmarks == nil {
		clone.Bookmarks = []string{}
	}
	return &clone
}

// IsAdmin reports whether the profile holds the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p.Role == sec.RoleAdmin
}

// ProfileUpdate carries the editable profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Result is the outcome of a store operation as shown to the reader.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(message string) Result { return Result{Success: true, Message: message} }
func failed(message string) Result { return Result{Success: false, Message: message} }

// DefaultAvatar returns the generated avatar URL for a new username.
func DefaultAvatar(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username
}

// # Result Messages

const (
	MsgEmailRegistered    = "An account with this email already exists. Please login instead."
	MsgUsernameTaken      = "Username already taken. Please choose a different username."
	MsgRegistered         = "Account created successfully!"
	MsgInvalidCredentials = "Invalid email or password. Please sign up if you don't have an account."
	MsgProfileMissing     = "User data not found. Please contact support."
	MsgLoggedIn           = "Login successful!"
	MsgNotAuthenticated   = "User not authenticated"
	MsgEmailTaken         = "Email already exists. Please choose a different email."
	MsgProfileUpdated     = "Profile updated successfully!"
	MsgAccountMissing     = "Account not found"
	MsgWrongPassword      = "Current password is incorrect"
	MsgPasswordChanged    = "Password changed successfully!"
	MsgRegisterFailed     = "An error occurred during registration"
	MsgPasswordFailed     = "An error occurred while changing password"
	MsgCancelled          = "Request cancelled"
)

// # Domain Errors

var (
	// ErrUserNotFound is returned when deleting an unknown user.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrDeleteSelf is returned when the signed-in user tries to delete themselves.
	ErrDeleteSelf = errors.New("auth: cannot delete the signed-in user")

	// ErrDeleteAdmin is returned when deleting an admin.
	ErrDeleteAdmin = errors.New("auth: admins cannot be deleted")
)
