package directory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
)

// SortChannels orders channels by name: names that start with digits come
// first, ordered by the integer value of that prefix and then by full name;
// all other names follow in code point order.
func SortChannels(channels []slackapi.Channel) {
	slices.SortStableFunc(channels, func(a, b slackapi.Channel) int {
		return CompareNames(a.Name, b.Name)
	})
}

// CompareNames is the comparator behind SortChannels.
func CompareNames(a, b string) int {
	pa, pb := numericPrefix(a), numericPrefix(b)
	switch {
	case pa != "" && pb == "":
		return -1
	case pa == "" && pb != "":
		return 1
	case pa != "" && pb != "":
		if c := compareDecimal(pa, pb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func numericPrefix(name string) string {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	return name[:i]
}

// compareDecimal compares two digit strings by value without overflowing.
func compareDecimal(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
