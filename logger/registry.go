package logger

import "sync"

// Component names shared by the CLI and the list backends.
const (
	ComponentIterator = "iterator"
	ComponentREST     = "rest"
	ComponentServer   = "server"
)

var (
	componentsMu sync.RWMutex
	components   = make(map[string]*Logger)
)

// RegisterComponents stores a logger tagged with each name, derived from
// base. Registering a name again replaces the earlier logger.
func RegisterComponents(base *Logger, names ...string) {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	for _, name := range names {
		components[name] = base.WithComponent(name)
	}
}

// Get returns the logger registered for a component. Unregistered names get
// the global logger tagged with the name.
func Get(name string) *Logger {
	componentsMu.RLock()
	l, ok := components[name]
	componentsMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
