// Package archive defines the hierarchical file-store abstraction used to
// provision per-category material folders for each issue.
package archive

// Provider is the interface for archive folder operations.
type Provider interface {
	// EnsurePath creates the folder chain for the given segments under the
	// archive root if it does not already exist, and returns its path
	// relative to the root. Ensure-or-create: safe to call repeatedly and
	// concurrently.
	EnsurePath(segments []string) (string, error)
	// ListChildren returns the names of the direct children of the folder
	// at rel (relative to the archive root).
	ListChildren(rel string) ([]string, error)
}
