// Package template holds the canned, role-scoped message templates and the
// placeholder substitution used at send time.
package template

import "strings"

// Type classifies a template/notification. The set is open: callers may
// define their own values.
type Type string

const (
	TypeSubscription  Type = "subscription"
	TypeEmployeeGuide Type = "employee_guide"
	TypeCustomerInfo  Type = "customer_info"
	TypeGeneral       Type = "general"
)

// Template is a canned message body with {placeholder} tokens.
// Templates are immutable once seeded.
type Template struct {
	ID            string `json:"id"`
	Type          Type   `json:"type"`
	SenderRole    string `json:"senderRole"`
	RecipientRole string `json:"recipientRole"`
	Title         string `json:"title"`
	Message       string `json:"message"`
}

// Rendered is the resolved output of Apply.
type Rendered struct {
	Title   string
	Message string
	Type    Type
}

// Apply substitutes every {key} occurrence in the template's title and
// message with the matching value from vars.
//
// Substitution is literal: no escaping, no recursion, no validation.
// Keys missing from vars are left verbatim in the output, so an
// unresolved {token} ships to the recipient as-is.
func Apply(t Template, vars map[string]string) Rendered {
	title := t.Title
	msg := t.Message
	for k, v := range vars {
		token := "{" + k + "}"
		title = strings.ReplaceAll(title, token, v)
		msg = strings.ReplaceAll(msg, token, v)
	}
	return Rendered{Title: title, Message: msg, Type: t.Type}
}

// Match reports whether t is addressed from senderRole, optionally
// narrowed to recipientRole (empty matches any).
func Match(t Template, senderRole, recipientRole string) bool {
	if t.SenderRole != senderRole {
		return false
	}
	return recipientRole == "" || t.RecipientRole == recipientRole
}
