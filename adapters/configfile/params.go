package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"quote-engine/core/params"
	"quote-engine/internal/errors"
)

// LoadParams reads a JSON parameter document into an evaluation context.
// Numbers are decoded through json.Number and carried as decimals so large
// volumes survive the trip without float rounding.
func LoadParams(path string) (*params.Context, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("failed to read parameter file %s", path), err)
	}
	return ParseParams(src, path)
}

// ParseParams decodes a JSON parameter document
func ParseParams(src []byte, name string) (*params.Context, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Parsing(fmt.Sprintf("invalid parameter document %s", name), err)
	}

	return params.NewContext(normalizeNumbers(doc).(map[string]interface{})), nil
}

// normalizeNumbers rewrites json.Number leaves into decimals
func normalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return val.String()
		}
		return d
	case map[string]interface{}:
		for k, e := range val {
			val[k] = normalizeNumbers(e)
		}
		return val
	case []interface{}:
		for i, e := range val {
			val[i] = normalizeNumbers(e)
		}
		return val
	}
	return v
}
