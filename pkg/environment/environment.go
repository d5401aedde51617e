// Package environment provides the koanf-backed types.Environment used to
// resolve build variables. The process environment is the normal source;
// tests and offline runs substitute a map or layer a dotenv file beneath it.
package environment

import (
	"fmt"

	"github.com/arthur-debert/stagedir/pkg/types"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Env is a snapshot of named values taken when it is built.
type Env struct {
	k *koanf.Koanf
}

var _ types.Environment = (*Env)(nil)

// FromProcess snapshots the process environment.
func FromProcess() (*Env, error) {
	k := koanf.New(".")
	if err := loadProcess(k); err != nil {
		return nil, err
	}
	return &Env{k: k}, nil
}

// FromMap builds an environment from fixed values.
func FromMap(values map[string]string) *Env {
	k := koanf.New(".")
	// confmap.Provider never fails to read a plain map
	_ = k.Load(confmap.Provider(toInterfaceMap(values), "."), nil)
	return &Env{k: k}
}

// FromDotenv loads the given dotenv files and layers the process
// environment on top, so a variable exported by the orchestrator always
// wins over one written in a file.
func FromDotenv(paths ...string) (*Env, error) {
	k := koanf.New(".")

	if len(paths) > 0 {
		values, err := godotenv.Read(paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		if err := k.Load(confmap.Provider(toInterfaceMap(values), "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env file values: %w", err)
		}
	}

	if err := loadProcess(k); err != nil {
		return nil, err
	}
	return &Env{k: k}, nil
}

// Lookup returns the value of name and whether it was set. Empty values
// count as set.
func (e *Env) Lookup(name string) (string, bool) {
	if !e.k.Exists(name) {
		return "", false
	}
	value, ok := e.k.Get(name).(string)
	return value, ok
}

// With returns a copy of e with values layered on top.
func (e *Env) With(values map[string]string) *Env {
	k := e.k.Copy()
	_ = k.Load(confmap.Provider(toInterfaceMap(values), "."), nil)
	return &Env{k: k}
}

func loadProcess(k *koanf.Koanf) error {
	err := k.Load(env.Provider("", ".", func(s string) string {
		return s
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load process environment: %w", err)
	}
	return nil
}

func toInterfaceMap(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
