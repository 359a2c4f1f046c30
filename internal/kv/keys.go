// Package kv maps domain repositories onto a flat key-value store.
package kv

// ProjectsPrefix is the key prefix shared by every project of one owner.
func ProjectsPrefix(ownerID string) string {
	return "user:" + ownerID + ":projects:"
}

// ProjectKey is the key holding a single project document.
func ProjectKey(ownerID, projectID string) string {
	return ProjectsPrefix(ownerID) + projectID
}

// PreferencesKey is the key holding an owner's preferences document.
func PreferencesKey(ownerID string) string {
	return "user:" + ownerID + ":preferences"
}
