package biz

import "regexp"

// fieldPatterns is the fixed pattern set applied by the email, PDF and
// scraping collectors. Confidence for those collectors is the fraction of
// this set that matched.
var fieldPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"case_number", regexp.MustCompile(`(?i)case\s*(?:no\.?|number|#)\s*[:\s]*([0-9]{1,2}:[0-9]{2}-[a-z]{2}-[0-9]{3,6}|[A-Z0-9][A-Z0-9\-]{4,20})`)},
	{"hearing_date", regexp.MustCompile(`(?i)hearing\s*(?:date|on|scheduled)?\s*[:\s]*([0-9]{1,2}/[0-9]{1,2}/[0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`)},
	{"judge", regexp.MustCompile(`(?i)(?:judge|hon\.?|honorable)\s*[:\s]*([A-Z][a-zA-Z.\-']+(?:\s+[A-Z][a-zA-Z.\-']+){0,3})`)},
}

// ExtractCaseFields applies the fixed pattern set to free-form text. It
// returns the matched fields and the matched fraction in [0, 1]. A field
// that fails to match is simply absent.
func ExtractCaseFields(text string) (map[string]any, float64) {
	fields := make(map[string]any, len(fieldPatterns))
	matched := 0
	for _, fp := range fieldPatterns {
		m := fp.pattern.FindStringSubmatch(text)
		if len(m) > 1 && m[1] != "" {
			fields[fp.name] = m[1]
			matched++
		}
	}
	return fields, float64(matched) / float64(len(fieldPatterns))
}
