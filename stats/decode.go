// Package stats loads custom browser usage statistics ("my stats").
//
// A stats document maps browser names to version → percent tables:
//
//	{"ie": {"10": 10.1, "11": 17}, "chrome": {"60": 4.5}}
//
// Documents exported from analytics tools wrap the same table in a
// "dataByBrowser" key; both layouts are accepted. JSON (comments and
// trailing commas tolerated), YAML and msgpack encodings are supported and
// picked by file extension.
package stats

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/browserslist/dataset"
)

// Encoding identifies a stats document encoding.
type Encoding string

// Supported encodings.
const (
	EncodingJSON    Encoding = "json"
	EncodingYAML    Encoding = "yaml"
	EncodingMsgpack Encoding = "msgpack"
)

// EncodingFor picks the encoding from a file name's extension.
// Unknown extensions are treated as JSON.
func EncodingFor(name string) Encoding {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return EncodingYAML
	case ".msgpack", ".mpk":
		return EncodingMsgpack
	default:
		return EncodingJSON
	}
}

// Decode parses a stats document into a usage table keyed by
// "name version". Browser names are canonicalized so aliases such as
// "Explorer" land on the same keys as the bundled data.
func Decode(name string, data []byte) (dataset.Usage, error) {
	var doc map[string]any

	switch EncodingFor(name) {
	case EncodingYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case EncodingMsgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid msgpack: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if inner, ok := doc["dataByBrowser"]; ok {
		m, ok := asMap(inner)
		if !ok {
			return nil, fmt.Errorf("dataByBrowser must be an object")
		}
		doc = m
	}

	usage := make(dataset.Usage)
	for browser, raw := range doc {
		versions, ok := asMap(raw)
		if !ok {
			return nil, fmt.Errorf("usage for %q must be an object of version to percent", browser)
		}
		canonical := dataset.CanonicalName(browser)
		for version, v := range versions {
			share, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("usage for %s %s is not a number", browser, version)
			}
			usage[canonical+" "+version] = share
		}
	}
	return usage, nil
}

// asMap normalizes decoder map types to map[string]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// toFloat converts any decoded numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
