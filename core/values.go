package core

import (
	"os"

	"sigs.k8s.io/yaml"

	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/errors"
)

// ErrBadValues means a values document is not an object.
var ErrBadValues = errors.New("values must be an object")

// DecodeValues decodes a YAML or JSON document into the object
// of values a program can refer to by name.
func DecodeValues(b []byte) (askcode.Object, error) {
	j, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, errors.Sub(ErrBadValues, err)
	}
	v, err := askcode.DecodeJSON(j)
	if err != nil {
		return nil, errors.Sub(ErrBadValues, err)
	}
	switch v := v.(type) {
	case askcode.Object:
		return v, nil
	case askcode.Null:
		return askcode.Object{}, nil
	}
	return nil, errors.WithDetailf(ErrBadValues, "document is %s", v.Kind())
}

// ReadValues reads and decodes the values file at path.
func ReadValues(path string) (askcode.Object, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading values file %s", path)
	}
	obj, err := DecodeValues(b)
	return obj, errors.WithData(err, "path", path)
}
