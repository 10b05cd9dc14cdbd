package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
)

// RoleClaim is the `role` claim of a token. Issuers emit either a single
// role name or a list of names; the shape is kept as received.
type RoleClaim struct {
	roles    []string
	multiple bool
}

func SingleRole(role string) RoleClaim {
	return RoleClaim{roles: []string{role}}
}

func MultipleRoles(roles ...string) RoleClaim {
	return RoleClaim{roles: slices.Clone(roles), multiple: true}
}

// IsMultiple reports whether the claim was a list.
func (rc RoleClaim) IsMultiple() bool { return rc.multiple }

// IsZero reports whether the token carried no role claim at all.
func (rc RoleClaim) IsZero() bool { return !rc.multiple && len(rc.roles) == 0 }

// Roles returns the role names in issue order.
func (rc RoleClaim) Roles() []string { return slices.Clone(rc.roles) }

// Contains is the single membership test for both shapes.
func (rc RoleClaim) Contains(role string) bool {
	if !rc.multiple {
		return len(rc.roles) == 1 && rc.roles[0] == role
	}
	return slices.Contains(rc.roles, role)
}

func (rc *RoleClaim) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*rc = RoleClaim{}
		return nil
	}

	switch data[0] {
	case '"':
		var role string
		if err := json.Unmarshal(data, &role); err != nil {
			return err
		}
		*rc = SingleRole(role)
		return nil
	case '[':
		var roles []string
		if err := json.Unmarshal(data, &roles); err != nil {
			return fmt.Errorf("role claim: %w", err)
		}
		if roles == nil {
			roles = []string{}
		}
		*rc = RoleClaim{roles: roles, multiple: true}
		return nil
	default:
		return fmt.Errorf("role claim: unsupported JSON value %s", data)
	}
}

func (rc RoleClaim) MarshalJSON() ([]byte, error) {
	switch {
	case rc.multiple:
		if rc.roles == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(rc.roles)
	case len(rc.roles) == 1:
		return json.Marshal(rc.roles[0])
	default:
		return []byte("null"), nil
	}
}

// Claims are the decoded facts of the currently stored token. They are only
// ever produced by Decoder.Decode.
type Claims struct {
	Subject    string    `json:"sub"`
	FullName   string    `json:"FullName,omitempty"`
	UniqueName string    `json:"unique_name,omitempty"`
	Role       RoleClaim `json:"role"`
	// ExpiresAt is in seconds since the Unix epoch, fraction included.
	ExpiresAt float64 `json:"exp"`
}

// DisplayName returns FullName, falling back to unique_name.
func (c *Claims) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.UniqueName
}

func (c *Claims) ExpiresTime() time.Time {
	sec, frac := math.Modf(c.ExpiresAt)
	return time.Unix(int64(sec), int64(frac*1e9))
}
