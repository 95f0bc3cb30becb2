package backend

// Kind identifies which CLI a session's backend adapter drives. Mirrors
// store.AgentKind without importing internal/store, so this package stays
// free of persistence concerns.
type Kind string

const (
	KindClaude Kind = "claude"
	KindGemini Kind = "gemini"
	KindCodex  Kind = "codex"
)

// factories is populated by each adapter subpackage's init() via
// RegisterFactory, then consulted by the session manager to build a
// fresh Backend for a new session's AgentKind.
var factories = map[Kind]Factory{}

// RegisterFactory wires a Kind to its adapter constructor. Called from
// each adapter subpackage's init().
func RegisterFactory(kind Kind, f Factory) {
	factories[kind] = f
}

// ForKind returns the registered Factory for kind, or nil if none is
// registered (the manager treats this as a configuration error — cmd/root.go
// imports all three adapter packages for their init() side effects).
func ForKind(kind Kind) Factory {
	return factories[kind]
}
