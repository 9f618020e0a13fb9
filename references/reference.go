// Package references resolves schema references against the component registry.
package references

import (
	"fmt"
	"strings"
)

// ComponentSchemasPrefix is the conventional prefix of a reference into components.schemas.
const ComponentSchemasPrefix = "#/components/schemas/"

// Reference is a $ref string, normally of the form #/components/schemas/<Name>.
type Reference string

var _ fmt.Stringer = (*Reference)(nil)

// ComponentName returns everything after the final '/', which names the registry entry.
// The prefix is not validated, so "Other/User" and "#/components/schemas/User" both name "User".
func (r Reference) ComponentName() string {
	s := string(r)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsComponentSchema reports whether the reference uses the components.schemas prefix.
func (r Reference) IsComponentSchema() bool {
	return strings.HasPrefix(string(r), ComponentSchemasPrefix)
}

func (r Reference) String() string {
	return string(r)
}
