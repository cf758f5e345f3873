package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// guestActor is the audit identity recorded for anonymous viewers.
const guestActor = "Guest"

// Viewer is the identity resolved for the current request. Name and Email
// are both optional (anonymous viewers are allowed); SessionID scopes the
// per-viewer first-view flag; IP and UserAgent feed the audit trail.
type Viewer struct {
	Name      string
	Email     string
	SessionID string
	IP        string
	UserAgent string
}

// Anonymous reports whether the viewer has not identified themselves.
func (v Viewer) Anonymous() bool { return v.Email == "" }

// Actor renders the audit-trail identity string: "Name <email>" when both
// are known, the bare email otherwise, or "Guest" for anonymous viewers.
func (v Viewer) Actor() string {
	if v.Email == "" {
		return guestActor
	}
	if v.Name != "" {
		return fmt.Sprintf("%s <%s>", v.Name, v.Email)
	}
	return v.Email
}

// nameCaser title-cases user-entered display names without a specific
// locale assumption.
var nameCaser = cases.Title(language.Und)

// NormalizeIdentity canonicalizes a user-entered (name, email) pair: the
// email is trimmed and lower-cased (the form responsible_email is stored
// and compared in), the name is trimmed and title-cased for display.
func NormalizeIdentity(name, email string) (string, string) {
	name = strings.TrimSpace(name)
	if name != "" {
		name = nameCaser.String(name)
	}
	return name, strings.ToLower(strings.TrimSpace(email))
}
