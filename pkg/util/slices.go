package util

import "golang.org/x/exp/slices"

func ContainsString(s []string, str string) bool {
	return slices.Contains(s, str)
}
