// Package models defines data structures shared by the loader, the
// tabulators and the workbook exporter.
package models

import (
	"math"
	"strconv"
)

// Value is a single cell value. It is nil for a missing cell, otherwise one
// of int64, float64, bool or string. Values are comparable and can be used
// as map keys.
type Value = interface{}

// IsMissing reports whether v represents an empty cell.
func IsMissing(v Value) bool {
	return v == nil
}

// FormatValue renders v as text. Missing values render as "".
// Booleans render as True/False so multi-choice splitting sees the same
// text a survey export would.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.Abs(x) < 1e16 {
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// rank orders value kinds: numbers, booleans, strings, missing.
func rank(v Value) int {
	switch v.(type) {
	case int64, float64:
		return 0
	case bool:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func toFloat(v Value) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// CompareValues orders category values: numbers ascending, then false
// before true, then strings lexicographically, then missing last.
func CompareValues(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case 0:
		if ai, ok := a.(int64); ok {
			if bi, ok := b.(int64); ok {
				return compareOrdered(ai, bi)
			}
		}
		return compareOrdered(toFloat(a), toFloat(b))
	case 1:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 2:
		return compareOrdered(a.(string), b.(string))
	}
	return 0
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
