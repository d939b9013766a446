package logger

import (
	"slices"
	"sync"
)

// named maps package or component names to loggers installed by the
// application, usually before the package creates its first value.
var named sync.Map

// Register installs l under name. The returned func puts back whatever was
// registered before, which lets tests swap in a nop logger and restore it.
func Register(name string, l *Logger) (restore func()) {
	prev, had := named.Swap(name, l)
	return func() {
		if had {
			named.Store(name, prev)
			return
		}
		named.CompareAndDelete(name, l)
	}
}

// Registered returns the registered names in sorted order.
func Registered() []string {
	var names []string
	named.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}

// Get returns the logger registered under name. Unregistered names get the
// global logger tagged with the name as its component, resolved at call time
// so a later SetGlobalLogger is honoured.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
