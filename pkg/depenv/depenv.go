// Package depenv resolves values that upstream build units publish
// through DEP_<DEP>_<KEY> environment variables.
package depenv

import (
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/types"
)

// VarName returns the variable a dependency publishes key under
func VarName(dep, key string) string {
	return strings.Join([]string{"DEP", strings.ToUpper(dep), strings.ToUpper(key)}, "_")
}

// Value returns what dep published under key. It fails with
// ErrLookupMissing when the variable is unset or is not valid UTF-8.
func Value(env types.Environment, dep, key string) (string, error) {
	name := VarName(dep, key)

	value, ok := env.Lookup(name)
	if !ok {
		return "", errors.Newf(errors.ErrLookupMissing, "environment variable %s not found", name).
			WithDetail("variable", name).
			WithDetail("dep", dep)
	}
	if !utf8.ValidString(value) {
		return "", errors.Newf(errors.ErrLookupMissing, "environment variable %s was not valid unicode", name).
			WithDetail("variable", name).
			WithDetail("dep", dep)
	}
	return value, nil
}
