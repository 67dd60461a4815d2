package credentials

import "github.com/spf13/viper"

// Source looks up a named environment value.
type Source interface {
	// Lookup returns the value and whether it is set to something non-empty.
	Lookup(name string) (string, bool)
}

type envSource struct {
	v *viper.Viper
}

// NewEnvSource returns a Source reading the process environment on every lookup,
// so variables exported after startup (for example from a .env file) are seen.
func NewEnvSource() Source {
	v := viper.New()
	v.AutomaticEnv()
	return &envSource{v: v}
}

func (s *envSource) Lookup(name string) (string, bool) {
	val := s.v.GetString(name)
	return val, val != ""
}

// MapSource is a fixed Source, mainly for tests.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	val, ok := m[name]
	return val, ok && val != ""
}
