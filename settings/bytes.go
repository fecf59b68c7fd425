package settings

import (
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// HumanReadableBytes is a byte count that can be written as "500Ki" or "3Mi" in config.
type HumanReadableBytes int64

var byteSuffixes = []struct {
	suffix string
	scale  int64
}{
	{"Ti", 1 << 40},
	{"Gi", 1 << 30},
	{"Mi", 1 << 20},
	{"Ki", 1 << 10},
	{"T", 1e12},
	{"G", 1e9},
	{"M", 1e6},
	{"k", 1e3},
	{"B", 1},
}

func HumanToBytes(in string) (HumanReadableBytes, error) {
	s := strings.TrimSpace(in)
	for _, e := range byteSuffixes {
		if !strings.HasSuffix(s, e.suffix) {
			continue
		}
		num, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, e.suffix)), 64)
		if err != nil {
			return 0, fmt.Errorf("bad byte quantity '%s': %w", in, err)
		}
		return HumanReadableBytes(num * float64(e.scale)), nil
	}
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad byte quantity '%s': %w", in, err)
	}
	return HumanReadableBytes(num), nil
}

// HumanToBytesFatal is for static defaults where a parse failure is a programming error.
func HumanToBytesFatal(in string) HumanReadableBytes {
	val, err := HumanToBytes(in)
	if err != nil {
		log.Fatalf("bad default byte quantity: %s", err.Error())
	}
	return val
}

func HumanReadableBytesHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(HumanReadableBytes(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return HumanToBytes(v)
		default:
			return data, nil
		}
	}
}
