package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// datePattern is a compiled SimpleDateFormat-style pattern. Letters repeat to
// select width or style: yyyy is a four digit year, MMM a short month name,
// EEEE a full weekday name. Text between single quotes is literal and ''
// produces one quote.
type datePattern []dateField

type dateField struct {
	letter  byte
	count   int
	literal string
}

const datePatternLetters = "GyYMLwWDdFEuaHkKhmsSzZX"

func parseDatePattern(pattern string) (datePattern, error) {
	var (
		fields  datePattern
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			fields = append(fields, dateField{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				literal.WriteByte('\'')
				i += 2
				continue
			}
			end := i + 1
			for {
				if end >= len(pattern) {
					return nil, fmt.Errorf("unterminated quote in date format %q", pattern)
				}
				if pattern[end] == '\'' {
					if end+1 < len(pattern) && pattern[end+1] == '\'' {
						literal.WriteByte('\'')
						end += 2
						continue
					}
					break
				}
				literal.WriteByte(pattern[end])
				end++
			}
			i = end + 1
		case isASCIILetter(c):
			if !strings.ContainsRune(datePatternLetters, rune(c)) {
				return nil, fmt.Errorf("illegal pattern character %q in date format %q", c, pattern)
			}
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			flush()
			fields = append(fields, dateField{letter: c, count: n})
			i += n
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()
	return fields, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p datePattern) format(t time.Time) string {
	var sb strings.Builder
	for _, f := range p {
		if f.letter == 0 {
			sb.WriteString(f.literal)
			continue
		}
		sb.WriteString(f.format(t))
	}
	return sb.String()
}

func (f dateField) format(t time.Time) string {
	switch f.letter {
	case 'G':
		if t.Year() <= 0 {
			return "BC"
		}
		return "AD"
	case 'y':
		return formatYear(t.Year(), f.count)
	case 'Y':
		year, _ := t.ISOWeek()
		return formatYear(year, f.count)
	case 'M', 'L':
		switch {
		case f.count >= 4:
			return t.Month().String()
		case f.count == 3:
			return t.Month().String()[:3]
		}
		return pad(int(t.Month()), f.count)
	case 'w':
		_, week := t.ISOWeek()
		return pad(week, f.count)
	case 'W':
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return pad((t.Day()+int(first.Weekday())-1)/7+1, f.count)
	case 'D':
		return pad(t.YearDay(), f.count)
	case 'd':
		return pad(t.Day(), f.count)
	case 'F':
		return pad((t.Day()-1)/7+1, f.count)
	case 'E':
		if f.count >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'u':
		day := int(t.Weekday())
		if day == 0 {
			day = 7
		}
		return pad(day, f.count)
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'H':
		return pad(t.Hour(), f.count)
	case 'k':
		h := t.Hour()
		if h == 0 {
			h = 24
		}
		return pad(h, f.count)
	case 'K':
		return pad(t.Hour()%12, f.count)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, f.count)
	case 'm':
		return pad(t.Minute(), f.count)
	case 's':
		return pad(t.Second(), f.count)
	case 'S':
		return pad(t.Nanosecond()/int(time.Millisecond), f.count)
	case 'z':
		return t.Format("MST")
	case 'Z':
		return t.Format("-0700")
	case 'X':
		switch f.count {
		case 1:
			return t.Format("Z07")
		case 2:
			return t.Format("Z0700")
		}
		return t.Format("Z07:00")
	}
	return ""
}

// formatYear truncates to two digits for yy and zero-pads to the field width otherwise.
func formatYear(year, count int) string {
	if count == 2 {
		return pad(((year%100)+100)%100, 2)
	}
	return pad(year, count)
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
