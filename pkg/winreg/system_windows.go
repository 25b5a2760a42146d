//go:build windows

package winreg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// System reads and writes the live Windows registry.
type System struct{}

// NewSystem returns the live registry accessor.
func NewSystem() ReadWriter { return System{} }

func rootKey(h Hive) (registry.Key, error) {
	switch h {
	case LocalMachine:
		return registry.LOCAL_MACHINE, nil
	case CurrentUser:
		return registry.CURRENT_USER, nil
	case ClassesRoot:
		return registry.CLASSES_ROOT, nil
	case Users:
		return registry.USERS, nil
	case PerformanceData:
		return registry.PERFORMANCE_DATA, nil
	case CurrentConfig:
		return registry.CURRENT_CONFIG, nil
	}
	return 0, fmt.Errorf("unknown hive %v", h)
}

func mapErr(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return ErrNotExist
	}
	return err
}

func (System) KeyExists(h Hive, path string) bool {
	root, err := rootKey(h)
	if err != nil {
		return false
	}
	k, err := registry.OpenKey(root, JoinPath(path), registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	k.Close()
	return true
}

func (System) GetString(h Hive, path, name string) (string, error) {
	root, err := rootKey(h)
	if err != nil {
		return "", err
	}
	k, err := registry.OpenKey(root, JoinPath(path), registry.QUERY_VALUE)
	if err != nil {
		return "", mapErr(err)
	}
	defer k.Close()

	s, _, err := k.GetStringValue(name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, registry.ErrUnexpectedType) {
		return "", mapErr(err)
	}
	if n, _, ierr := k.GetIntegerValue(name); ierr == nil {
		return strconv.FormatUint(n, 10), nil
	}
	if ss, _, serr := k.GetStringsValue(name); serr == nil {
		return strings.Join(ss, " "), nil
	}
	return "", fmt.Errorf("value %s\\%s\\%s has an unsupported type: %w", h, path, name, err)
}

func (System) SubKeyNames(h Hive, path string) ([]string, error) {
	root, err := rootKey(h)
	if err != nil {
		return nil, err
	}
	k, err := registry.OpenKey(root, JoinPath(path), registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, mapErr(err)
	}
	defer k.Close()
	return k.ReadSubKeyNames(-1)
}

func (System) SetString(h Hive, path, name, value string) error {
	root, err := rootKey(h)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(root, JoinPath(path), registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to create key %s\\%s: %w", h, path, err)
	}
	defer k.Close()
	return k.SetStringValue(name, value)
}

func (System) SetDWord(h Hive, path, name string, value uint32) error {
	root, err := rootKey(h)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(root, JoinPath(path), registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to create key %s\\%s: %w", h, path, err)
	}
	defer k.Close()
	return k.SetDWordValue(name, value)
}
