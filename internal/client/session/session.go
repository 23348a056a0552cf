// Package session holds the client-side authentication state: the token
// pair plus the identity of the logged-in user. The Manager is the single
// writer; every other component reads snapshots and never mutates them.
package session

import "github.com/rmachado/fleet-manager/internal/domain"

// Session is the client-held authentication state. The zero value means
// logged out. Field names match the persisted record written by earlier
// releases, so existing session files keep working.
type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
}

// Authenticated reports whether the session carries an access token.
// It says nothing about the token still being valid server-side; that is
// what Manager.Verify is for.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// IsOperator reports whether the session belongs to an operator account.
// Only operators have trips to poll for.
func (s Session) IsOperator() bool {
	return s.Role == domain.RoleOperator
}
