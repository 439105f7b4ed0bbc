package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/proofcheck/internal/adapters/driven/config"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// FileName is the settings file inside the config directory.
const FileName = "config.toml"

// ConfigStore keeps settings in a TOML file. Dot keys ("diff.threshold")
// are written as tables ([diff] threshold = 10).
type ConfigStore struct {
	*config.Values

	writeMu  sync.Mutex
	filePath string
}

// NewConfigStore opens the settings file in configDir, creating the
// directory when needed. A missing file is an empty configuration.
// If configDir is empty, defaults to ~/.proofcheck.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".proofcheck")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, FileName)
	values, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{Values: config.NewValues(values), filePath: path}, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return flattenMap(tables, ""), nil
}

// Update merges values and rewrites the file. The file is replaced by
// rename so a crash never leaves it half written.
func (s *ConfigStore) Update(values map[string]any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Merged(values)
	data, err := toml.Marshal(unflattenMap(next))
	if err != nil {
		return err
	}
	if err := writeAtomic(s.filePath, data); err != nil {
		return err
	}
	s.Replace(next)
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+FileName+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error wins
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck,gosec // chmod error wins
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Path returns the settings file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flattenMap turns nested tables into dot keys: {"a": {"b": 1}} is {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		nested, ok := value.(map[string]any)
		if !ok {
			out[key] = value
			continue
		}
		for k, v := range flattenMap(nested, key) {
			out[k] = v
		}
	}
	return out
}

// unflattenMap is the inverse of flattenMap. Keys are applied in sorted
// order; a key that is both a value and a table prefix keeps the value.
func unflattenMap(m map[string]any) map[string]any {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		leaf := parts[len(parts)-1]
		if table := descend(out, parts[:len(parts)-1]); table != nil {
			if _, isTable := table[leaf].(map[string]any); !isTable {
				table[leaf] = m[key]
			}
		}
	}
	return out
}

// descend walks or creates the tables named by path. It returns nil when
// a value already sits where a table is needed.
func descend(root map[string]any, path []string) map[string]any {
	node := root
	for _, part := range path {
		child, exists := node[part]
		if !exists {
			next := make(map[string]any)
			node[part] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return nil
		}
		node = next
	}
	return node
}
