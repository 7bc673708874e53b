package render

import (
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"
)

// PartialLoader resolves a {{>name}}/{{<name}} tag's identifier to its
// template source.
type PartialLoader interface {
	Load(name string) (string, error)
}

// FSPartialLoader resolves partials from an fs.FS, caching each file's
// contents after its first successful read.
type FSPartialLoader struct {
	fsys   fs.FS
	ext    string
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewFSPartialLoader constructs a loader rooted at fsys. ext is appended to
// a partial's key to form the file name ("header" -> "header.mustache" for
// ext ".mustache"). A nil logger disables the partial-not-found diagnostic.
func NewFSPartialLoader(fsys fs.FS, ext string, logger *zap.Logger) *FSPartialLoader {
	return &FSPartialLoader{fsys: fsys, ext: ext, logger: logger, cache: make(map[string]string)}
}

// Load implements PartialLoader.
func (l *FSPartialLoader) Load(name string) (string, error) {
	l.mu.RLock()
	if src, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return src, nil
	}
	l.mu.RUnlock()

	path := name + l.ext
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("partial not found", zap.String("name", name), zap.String("path", path), zap.Error(err))
		}
		return "", fmt.Errorf("render: partial %q not found: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = string(data)
	l.mu.Unlock()
	return string(data), nil
}
