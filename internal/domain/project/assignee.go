package project

import "strings"

// DefaultAvatar is the placeholder picture given to assignees created from an actor.
const DefaultAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=32&h=32&fit=crop&crop=face"

// AssigneeFor derives an assignee from an actor's display name, falling back
// to the email address.
func AssigneeFor(name, email string) Assignee {
	display := strings.TrimSpace(name)
	if display == "" {
		display = strings.TrimSpace(email)
	}
	if display == "" {
		return Assignee{Name: "Unknown", Avatar: DefaultAvatar, Initials: "UN"}
	}
	return Assignee{
		Name:     display,
		Avatar:   DefaultAvatar,
		Initials: Initials(display),
	}
}

// Initials returns the upper-cased first letter of every word.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}
