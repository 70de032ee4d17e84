// Package session holds the credential and profile of each actor class
// (admin, company, employee) in a storage.Storage. The three classes use
// independent keys, so a client may be signed in as several of them at once.
package session

import (
	"fmt"
	"strings"
)

// Class identifies the kind of actor a session belongs to.
type Class string

const (
	ClassAdmin    Class = "admin"
	ClassCompany  Class = "company"
	ClassEmployee Class = "employee"
)

// Classes lists every actor class in a stable order.
var Classes = []Class{ClassAdmin, ClassCompany, ClassEmployee}

// ParseClass converts user input into a Class.
func ParseClass(s string) (Class, error) {
	switch c := Class(strings.ToLower(strings.TrimSpace(s))); c {
	case ClassAdmin, ClassCompany, ClassEmployee:
		return c, nil
	default:
		return "", fmt.Errorf("unknown actor class %q", s)
	}
}

// TokenKey is the storage key of the class credential.
func (c Class) TokenKey() string {
	switch c {
	case ClassCompany:
		return "companyAuthToken"
	case ClassEmployee:
		return "employeeAuthToken"
	default:
		return "authToken"
	}
}

// ProfileKey is the storage key of the cached actor profile.
func (c Class) ProfileKey() string {
	return string(c) + "Profile"
}

// LoginRoute is where an unauthenticated actor of this class is sent.
func (c Class) LoginRoute() string {
	return "/" + string(c) + "/login"
}

// Profile is a snapshot of the authenticated identity. It is replaced as a
// whole, either from a server response or after a confirmed local edit.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
}
