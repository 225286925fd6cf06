package lazyload

import "strconv"

// números dos headers X-RateLimit-*, sem notação científica
func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
