package server

import (
	"html/template"
	"strconv"

	"fleamarket/internal/storage"
)

func templateFuncs(store storage.Storage) template.FuncMap {
	return template.FuncMap{
		"imageURL": func(key string) string {
			if key == "" {
				return ""
			}
			return store.URL(key)
		},
		"yen": formatYen,
	}
}

// formatYen renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func formatYen(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
