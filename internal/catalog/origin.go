package catalog

import "strings"

// OriginKind identifies the kind of provider an action comes from.
type OriginKind int

const (
	OriginCore      OriginKind = iota // built into the runtime
	OriginExtension                   // contributed by an installed extension
	OriginMCPServer                   // contributed by an external MCP server
)

// String returns a human-readable name for the origin kind.
func (k OriginKind) String() string {
	switch k {
	case OriginCore:
		return "core"
	case OriginExtension:
		return "extension"
	case OriginMCPServer:
		return "mcp"
	default:
		return "unknown"
	}
}

// Origin records where an action was contributed from. Core actions carry no
// ID; extension and MCP origins carry the owning extension ID or server label.
type Origin struct {
	Kind OriginKind
	ID   string
}

// Core returns the origin for runtime built-in actions.
func Core() Origin { return Origin{Kind: OriginCore} }

// Extension returns the origin for actions contributed by the given extension.
func Extension(id string) Origin { return Origin{Kind: OriginExtension, ID: id} }

// MCPServer returns the origin for actions served by the given MCP server.
func MCPServer(label string) Origin { return Origin{Kind: OriginMCPServer, ID: label} }

// ToolsetKey returns the key grouping actions of this origin into a toolset.
// Core actions never belong to a toolset; the second return is false for them.
func (o Origin) ToolsetKey() (string, bool) {
	switch o.Kind {
	case OriginCore:
		return "", false
	case OriginExtension:
		return "ext:" + o.ID, true
	case OriginMCPServer:
		return "mcp:" + o.ID, true
	default:
		return "", false
	}
}

// Prefix returns a short disambiguator derived from the origin kind, used
// when a virtual group's name collides with another entry.
func (o Origin) Prefix() string {
	switch o.Kind {
	case OriginExtension:
		return "ext_"
	case OriginMCPServer:
		return "mcp_"
	default:
		return ""
	}
}

// Slug returns the origin ID lowered and reduced to [a-z0-9_], suitable for
// embedding in a generated group name.
func (o Origin) Slug() string {
	return Slugify(o.ID)
}

// Slugify lowers s and replaces every run of non-alphanumeric characters
// with a single underscore.
func Slugify(s string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}
