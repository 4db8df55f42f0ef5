package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Names of the built-in codecs.
const (
	JSON = "json"
	YAML = "yaml"
	TOML = "toml"
	Env  = "env"
)

// Builtin returns the codecs that need no configuration.
func Builtin() map[string]Codec {
	return map[string]Codec{
		JSON: {Serialize: marshalJSON, Deserialize: unmarshalJSON},
		YAML: {Serialize: marshalYAML, Deserialize: unmarshalYAML},
		TOML: {Serialize: marshalTOML, Deserialize: unmarshalTOML},
		Env:  {Serialize: marshalEnv, Deserialize: unmarshalEnv},
	}
}

// Select picks the named codecs out of available. An empty names list
// selects everything. Unknown names are an error.
func Select(available map[string]Codec, names []string) (map[string]Codec, error) {
	if len(names) == 0 {
		selected := make(map[string]Codec, len(available))
		for name, c := range available {
			selected[name] = c
		}
		return selected, nil
	}

	selected := make(map[string]Codec, len(names))
	for _, name := range names {
		c, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unknown codec: %q", name)
		}
		selected[name] = c
	}
	return selected, nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func unmarshalJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func marshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func unmarshalYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func marshalTOML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalTOML(data []byte) (any, error) {
	v := map[string]any{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// marshalEnv writes KEY=VALUE lines sorted by key. Values of any type are
// formatted with fmt.Sprint.
func marshalEnv(v any) ([]byte, error) {
	var env map[string]string
	switch m := v.(type) {
	case map[string]string:
		env = m
	case map[string]any:
		env = make(map[string]string, len(m))
		for k, val := range m {
			env[k] = fmt.Sprint(val)
		}
	default:
		return nil, fmt.Errorf("env codec: cannot encode %T, want a string-keyed map", v)
	}

	out, err := godotenv.Marshal(env)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}

func unmarshalEnv(data []byte) (any, error) {
	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Names returns the keys of codecs in sorted order.
func Names(codecs map[string]Codec) []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
