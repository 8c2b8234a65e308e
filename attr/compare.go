package attr

import (
	"strconv"
	"strings"
)

// compareNumeric orders two decimal-string numbers. It prefers exact
// int64 comparison when both operands parse as integers, falls back to
// float64 comparison, and finally to byte-wise lexicographic order if
// neither parses (which makes equality reflexive even for garbage
// input, matching N's Equal semantics).
func compareNumeric(a, b string) (int, error) {
	if ai, err := strconv.ParseInt(a, 10, 64); err == nil {
		if bi, err := strconv.ParseInt(b, 10, 64); err == nil {
			switch {
			case ai < bi:
				return -1, nil
			case ai > bi:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	if af, err := strconv.ParseFloat(a, 64); err == nil {
		if bf, err := strconv.ParseFloat(b, 64); err == nil {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return strings.Compare(a, b), nil
}

// CompareNumeric exposes compareNumeric to other packages (condition
// evaluation needs it for N vs N ordering).
func CompareNumeric(a, b N) int {
	cmp, _ := compareNumeric(string(a), string(b))
	return cmp
}

// AddNumeric returns a+b as a decimal string, using exact int64
// arithmetic when both operands parse, falling back to float64.
func AddNumeric(a, b N) (N, error) {
	if ai, err := strconv.ParseInt(string(a), 10, 64); err == nil {
		if bi, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return N(strconv.FormatInt(ai+bi, 10)), nil
		}
	}
	af, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return "", err
	}
	bf, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return "", err
	}
	return N(strconv.FormatFloat(af+bf, 'g', -1, 64)), nil
}
