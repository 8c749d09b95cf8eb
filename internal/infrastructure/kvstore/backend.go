package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrStaleWrite la versión esperada del blob no coincide con la almacenada (otro escritor ganó).
var ErrStaleWrite = errors.New("kvstore: escritura con versión obsoleta")

// Backend almacén clave -> blob JSON con versión por clave.
// Load de una clave ausente devuelve (nil, 0, nil).
// Store solo escribe si la versión actual es expectedVersion y devuelve la nueva versión.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, int64, error)
	Store(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error)
}

type memEntry struct {
	data    []byte
	version int64
}

// MemoryBackend backend en memoria para tests y modo efímero.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memEntry)}
}

func (b *MemoryBackend) Load(ctx context.Context, key string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, 0, nil
	}
	return append([]byte(nil), e.data...), e.version, nil
}

func (b *MemoryBackend) Store(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cur := b.entries[key]
	if cur.version != expectedVersion {
		return 0, ErrStaleWrite
	}
	next := cur.version + 1
	b.entries[key] = memEntry{data: append([]byte(nil), data...), version: next}
	return next, nil
}

// FileBackend un archivo JSON por clave dentro de dir. La escritura es atómica (tmp + rename).
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

type fileEnvelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// NewFileBackend crea el directorio si no existe.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: crear directorio %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, strings.ReplaceAll(key, "/", "_")+".json")
}

func (b *FileBackend) read(key string) (*fileEnvelope, error) {
	raw, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return &fileEnvelope{}, nil
		}
		return nil, err
	}
	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("kvstore: blob %s corrupto: %w", key, err)
	}
	return &env, nil
}

func (b *FileBackend) Load(ctx context.Context, key string) ([]byte, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	env, err := b.read(key)
	if err != nil {
		return nil, 0, err
	}
	if env.Version == 0 {
		return nil, 0, nil
	}
	return env.Data, env.Version, nil
}

func (b *FileBackend) Store(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	env, err := b.read(key)
	if err != nil {
		return 0, err
	}
	if env.Version != expectedVersion {
		return 0, ErrStaleWrite
	}
	next := fileEnvelope{Version: env.Version + 1, Data: data}
	raw, err := json.Marshal(next)
	if err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return 0, err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return next.Version, nil
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileBackend)(nil)
)
