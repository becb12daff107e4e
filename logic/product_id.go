package logic

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductID is the canonical, string-normalized identity of a line item.
//
// Identity is compared by string equality after normalization: the integer 7,
// the float 7.0 and the string "7" all map to "7", while "007" stays "007".
type ProductID string

func (id ProductID) String() string {
	return string(id)
}

// maxExactFloat is the largest integer a float64 represents exactly.
const maxExactFloat = 1 << 53

// NormalizeProductID converts a raw identifier supplied by a caller or read
// back from storage into its canonical form. It reports false for values that
// cannot identify a product: nil, empty or blank strings, booleans,
// non-integral or out-of-range floats, and unsupported types.
func NormalizeProductID(v any) (ProductID, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case ProductID:
		s = string(t)
	case string:
		s = t
	case int:
		s = strconv.FormatInt(int64(t), 10)
	case int8:
		s = strconv.FormatInt(int64(t), 10)
	case int16:
		s = strconv.FormatInt(int64(t), 10)
	case int32:
		s = strconv.FormatInt(int64(t), 10)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint:
		s = strconv.FormatUint(uint64(t), 10)
	case uint8:
		s = strconv.FormatUint(uint64(t), 10)
	case uint16:
		s = strconv.FormatUint(uint64(t), 10)
	case uint32:
		s = strconv.FormatUint(uint64(t), 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			s = strconv.FormatInt(n, 10)
			break
		}
		f, err := t.Float64()
		if err != nil {
			return "", false
		}
		return normalizeFloat(f)
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return ProductID(s), true
}

func normalizeFloat(f float64) (ProductID, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f || math.Abs(f) > maxExactFloat {
		return "", false
	}
	return ProductID(strconv.FormatInt(int64(f), 10)), true
}
