package winreg

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryAccessor is an in-memory registry. It backs tests and hosts where the
// system registry is not available.
type MemoryAccessor struct {
	mu   sync.RWMutex
	keys map[string]*memKey
}

type memKey struct {
	path   string // original casing, without hive
	values map[string]memValue
}

type memValue struct {
	name  string
	str   string
	dword uint32
	isDW  bool
}

// NewMemoryAccessor returns an empty in-memory registry.
func NewMemoryAccessor() *MemoryAccessor {
	return &MemoryAccessor{keys: make(map[string]*memKey)}
}

func memID(hive Hive, path string) string {
	return hive.String() + `\` + strings.ToLower(JoinPath(path))
}

// CreateKey creates the key and all of its parents.
func (m *MemoryAccessor) CreateKey(hive Hive, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createLocked(hive, path)
}

func (m *MemoryAccessor) createLocked(hive Hive, path string) *memKey {
	parts := strings.Split(JoinPath(path), `\`)
	var k *memKey
	for i := range parts {
		sub := strings.Join(parts[:i+1], `\`)
		id := memID(hive, sub)
		existing, ok := m.keys[id]
		if !ok {
			existing = &memKey{path: sub, values: make(map[string]memValue)}
			m.keys[id] = existing
		}
		k = existing
	}
	return k
}

// DeleteKey removes a key and its subtree.
func (m *MemoryAccessor) DeleteKey(hive Hive, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := memID(hive, path)
	for k := range m.keys {
		if k == id || strings.HasPrefix(k, id+`\`) {
			delete(m.keys, k)
		}
	}
}

func (m *MemoryAccessor) SetString(hive Hive, path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.createLocked(hive, path)
	k.values[strings.ToLower(name)] = memValue{name: name, str: value}
	return nil
}

func (m *MemoryAccessor) SetDWord(hive Hive, path, name string, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.createLocked(hive, path)
	k.values[strings.ToLower(name)] = memValue{name: name, dword: value, isDW: true}
	return nil
}

// GetDWord returns a DWORD value.
func (m *MemoryAccessor) GetDWord(hive Hive, path, name string) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.keys[memID(hive, path)]
	if !ok {
		return 0, ErrNotExist
	}
	v, ok := k.values[strings.ToLower(name)]
	if !ok || !v.isDW {
		return 0, ErrNotExist
	}
	return v.dword, nil
}

func (m *MemoryAccessor) KeyExists(hive Hive, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.keys[memID(hive, path)]
	return ok
}

func (m *MemoryAccessor) GetString(hive Hive, path, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.keys[memID(hive, path)]
	if !ok {
		return "", ErrNotExist
	}
	v, ok := k.values[strings.ToLower(name)]
	if !ok {
		return "", ErrNotExist
	}
	if v.isDW {
		return strconv.FormatUint(uint64(v.dword), 10), nil
	}
	return v.str, nil
}

func (m *MemoryAccessor) SubKeyNames(hive Hive, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parentID := memID(hive, path)
	if _, ok := m.keys[parentID]; !ok {
		return nil, ErrNotExist
	}
	var names []string
	for id, k := range m.keys {
		if !strings.HasPrefix(id, parentID+`\`) {
			continue
		}
		rest := id[len(parentID)+1:]
		if strings.Contains(rest, `\`) {
			continue
		}
		names = append(names, k.path[strings.LastIndex(k.path, `\`)+1:])
	}
	sort.Strings(names)
	return names, nil
}
