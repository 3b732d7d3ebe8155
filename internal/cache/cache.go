package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const ErrCacheMiss = cacheError("cache miss")

type cacheError string

func (e cacheError) Error() string { return string(e) }

// FileCache is a small JSON-backed cache under the user's home directory. The
// generator uses it for change detection: when the recorded input hash for a
// workflow file matches the current inputs, regeneration is skipped.
type FileCache[T any] struct {
	dur   time.Duration
	mutex sync.Mutex
	dir   string
	key   string
}

type Settings struct {
	Key       string
	Namespace string
	Duration  time.Duration
}

func New[T any](settings Settings) (*FileCache[T], error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgDir := filepath.Join(home, ".actionsmith", "cache")
	deleteExpired(cfgDir, settings.Namespace, settings.Duration)

	builder := strings.Builder{}
	builder.WriteString(settings.Namespace)
	builder.WriteString(".")
	builder.WriteString(encode(settings.Key))
	builder.WriteString(".json")

	return &FileCache[T]{
		dur: settings.Duration,
		dir: cfgDir,
		key: builder.String(),
	}, nil
}

func encode(key string) string {
	// hash it, trim it: around 8 chars is enough to avoid collisions here
	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
	return hash[:8]
}

func deleteExpired(dir string, namespace string, dur time.Duration) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), namespace) {
			continue
		}
		fileInfo, err := file.Info()
		if err != nil {
			continue
		}
		if dur > 0 && time.Since(fileInfo.ModTime()) > dur {
			os.Remove(filepath.Join(dir, file.Name()))
		}
	}
}

func (c *FileCache[T]) filePath() string {
	return filepath.Join(c.dir, c.key)
}

func (c *FileCache[T]) Get() (*T, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	filePath := c.filePath()
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, ErrCacheMiss
	}
	if c.dur > 0 && fileInfo.ModTime().Add(c.dur).Before(time.Now()) {
		_ = os.Remove(filePath)
		return nil, ErrCacheMiss
	}

	fileBytes, err := os.ReadFile(filePath)
	if err != nil {
		_ = os.Remove(filePath)
		return nil, ErrCacheMiss
	}

	value := new(T)
	if err := json.Unmarshal(fileBytes, value); err != nil {
		_ = os.Remove(filePath)
		return nil, ErrCacheMiss
	}

	return value, nil
}

func (c *FileCache[T]) Store(value *T) error {
	if c == nil {
		return nil
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(c.filePath(), data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write cache entry")
	}

	return nil
}

func (c *FileCache[T]) Delete() error {
	if c == nil {
		return nil
	}
	err := os.Remove(c.filePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry in a namespace.
func Clear(namespace string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	dir := filepath.Join(home, ".actionsmith", "cache")
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), namespace) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
			return err
		}
	}

	return nil
}
