package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Handler)
	mu       sync.RWMutex
)

func Register(h Handler) {
	mu.Lock()
	defer mu.Unlock()
	name := strings.ToLower(h.Name())
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("handler %s already registered", name))
	}
	registry[name] = h
}

func List() []Handler {
	mu.RLock()
	defer mu.RUnlock()
	var handlers []Handler
	for _, h := range registry {
		handlers = append(handlers, h)
	}
	sort.Slice(handlers, func(i, j int) bool {
		return handlers[i].Name() < handlers[j].Name()
	})
	return handlers
}

// Resolve returns the handler for a dependency type name. Types are matched
// case-insensitively. An unregistered type is a configuration error the
// engine reports at the dependency level.
func Resolve(typeName string) (Handler, error) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := registry[strings.ToLower(strings.TrimSpace(typeName))]
	if !ok {
		return nil, fmt.Errorf("no handler registered for dependency type %q", typeName)
	}
	return h, nil
}
