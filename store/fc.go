/*
Package store persists feature collections and the scan indexes over them.

A feature collection is a bag of named features, each feature a counter of
strings. Collections are stored serialised as JSON so backends only ever move
opaque bytes; index maintenance extracts feature values from the raw document.
*/
package store

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// StringCounter counts occurrences of string values within one feature.
type StringCounter map[string]int64

// Keys returns the counted values in sorted order.
func (sc StringCounter) Keys() []string {
	keys := make([]string, 0, len(sc))
	for k := range sc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FeatureCollection maps feature names to string counters.
type FeatureCollection map[string]StringCounter

// Feature returns the named counter or nil when the feature is absent.
func (fc FeatureCollection) Feature(name string) StringCounter {
	return fc[name]
}

// Add increments a value within the named feature, creating it as needed.
func (fc FeatureCollection) Add(feature, value string, n int64) {
	sc := fc[feature]
	if sc == nil {
		sc = StringCounter{}
		fc[feature] = sc
	}
	sc[value] += n
}

func MarshalFC(fc FeatureCollection) ([]byte, error) {
	return json.Marshal(fc)
}

func UnmarshalFC(raw []byte) (FeatureCollection, error) {
	fc := FeatureCollection{}
	err := json.Unmarshal(raw, &fc)
	return fc, err
}

// indexValues extracts the values of the named feature from a serialised
// collection without decoding the whole document.
func indexValues(raw []byte, feature string) []string {
	res := gjson.GetBytes(raw, feature)
	if !res.IsObject() {
		return nil
	}
	values := []string{}
	res.ForEach(func(key, _ gjson.Result) bool {
		values = append(values, key.String())
		return true
	})
	return values
}
