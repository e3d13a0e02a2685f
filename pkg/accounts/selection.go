package accounts

import (
	"strconv"
	"strings"
)

// Select marks and returns the accounts named by selector: "all" (or empty) for
// every account, otherwise a comma separated list of 1-based positions. A
// selector that matches nothing selects every account.
func Select(all []*Account, selector string) []*Account {
	selector = strings.TrimSpace(selector)

	wanted := make(map[int]bool)
	if selector != "" && !strings.EqualFold(selector, "all") {
		for _, part := range strings.Split(selector, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				wanted[n-1] = true
			}
		}
	}

	var selected []*Account
	for i, acc := range all {
		if len(wanted) > 0 && !wanted[i] {
			continue
		}
		selected = append(selected, acc)
	}
	if len(selected) == 0 {
		selected = append(selected, all...)
	}

	chosen := make(map[*Account]bool, len(selected))
	for _, acc := range selected {
		chosen[acc] = true
	}
	for _, acc := range all {
		acc.Selected = chosen[acc]
	}

	return selected
}
