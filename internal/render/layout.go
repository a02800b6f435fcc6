package render

import "strings"

// strftime directives users carry over from older workflow settings
var strftime = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'Z': "MST",
	'z': "-0700",
	'%': "%",
}

// Layout returns a Go time layout for format. Formats without a "%" are
// assumed to be Go layouts already; unknown directives are kept verbatim.
func Layout(format string) string {
	if format == "" {
		return "2006-01-02 15:04"
	}
	if !strings.Contains(format, "%") {
		return format
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i == len(format)-1 {
			b.WriteByte(format[i])
			continue
		}
		i++
		if layout, ok := strftime[format[i]]; ok {
			b.WriteString(layout)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(format[i])
	}
	return b.String()
}
