package catalog

import (
	_ "embed"
	"sync"
)

//go:embed data/builtin.yaml
var builtinYAML []byte

var loadBuiltin = sync.OnceValues(func() (*Catalog, error) {
	return Parse(FormatYAML, builtinYAML, "builtin.yaml")
})

// Builtin returns the catalog compiled into the binary
func Builtin() (*Catalog, error) {
	return loadBuiltin()
}

// MustBuiltin is Builtin for package initialisation and tests
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}
