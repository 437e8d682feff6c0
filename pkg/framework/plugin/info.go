package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInfo is returned by Info.Validate.
var ErrInvalidInfo = errors.New("invalid plugin info")

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx|Distortion")
}

// Validate checks that the metadata is complete enough to publish.
func (i Info) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: empty ID", ErrInvalidInfo)
	}
	if strings.ContainsAny(i.ID, " \t\n") {
		return fmt.Errorf("%w: ID %q contains whitespace", ErrInvalidInfo, i.ID)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidInfo)
	}
	return nil
}

// String formats the info for listings.
func (i Info) String() string {
	s := i.Name
	if i.Version != "" {
		s += " " + i.Version
	}
	if i.Vendor != "" {
		s += " (" + i.Vendor + ")"
	}
	return s
}
