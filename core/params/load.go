package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// Load reads a YAML parameter file over the defaults.
//
//	Algorithm: MAXENT
//	Iterations: 150
//	Threads: auto
//	pos:
//	  Cutoff: 3
//
// Nested mappings become namespaced keys, so the file above sets "pos.Cutoff".
func Load(path string) (*TrainingParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read parameters %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse parameters %s", path)
	}
	return p, nil
}

// Parse decodes YAML parameters over the defaults.
func Parse(data []byte) (*TrainingParameters, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	values := make(map[string]string, len(raw))
	if err := flatten("", raw, values); err != nil {
		return nil, err
	}
	return New(values), nil
}

func flatten(prefix string, raw map[string]interface{}, out map[string]string) error {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case []interface{}:
			return errors.NewValidationError(key, "lists are not supported", val)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return nil
}
