package template

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// decimalPattern is a compiled DecimalFormat-style pattern such as "0.00",
// "#,##0.###", "000", "0.0%" or "0.###E0". A ';' separates an optional
// negative subpattern, of which only the prefix and suffix are used.
type decimalPattern struct {
	posPrefix, posSuffix string
	negPrefix, negSuffix string
	multiplier           float64
	minInt               int
	minFrac, maxFrac     int
	grouping             int
	scientific           bool
	minExp               int
}

var errMalformedPattern = errors.New("malformed pattern")

func parseDecimalPattern(pattern string) (*decimalPattern, error) {
	positive, negative, hasNegative := splitUnquoted(pattern, ';')

	prefix, body, suffix, multiplier, err := splitAffixes(positive)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", errMalformedPattern, pattern, err)
	}
	p := &decimalPattern{
		posPrefix:  prefix,
		posSuffix:  suffix,
		negPrefix:  "-" + prefix,
		negSuffix:  suffix,
		multiplier: multiplier,
	}
	if err := p.parseBody(body); err != nil {
		return nil, fmt.Errorf("%w %q: %v", errMalformedPattern, pattern, err)
	}
	if hasNegative {
		negPrefix, _, negSuffix, _, err := splitAffixes(negative)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", errMalformedPattern, pattern, err)
		}
		p.negPrefix, p.negSuffix = negPrefix, negSuffix
	}
	return p, nil
}

// splitUnquoted splits s at the first sep outside single quotes.
func splitUnquoted(s string, sep rune) (before, after string, found bool) {
	quoted := false
	for i, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == sep && !quoted:
			return s[:i], s[i+len(string(sep)):], true
		}
	}
	return s, "", false
}

func isNumberPatternChar(r rune) bool {
	return r == '#' || r == '0' || r == ',' || r == '.'
}

// splitAffixes separates literal prefix and suffix text from the number part.
func splitAffixes(sub string) (prefix, body, suffix string, multiplier float64, err error) {
	const (
		inPrefix = iota
		inBody
		inSuffix
	)
	var (
		state        = inPrefix
		pre, num, su strings.Builder
		quoted       bool
		runes        = []rune(sub)
	)
	multiplier = 1
	affix := func(r rune) {
		if state == inPrefix {
			pre.WriteRune(r)
		} else {
			su.WriteRune(r)
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				if state == inBody {
					state = inSuffix
				}
				affix('\'')
				i++
				continue
			}
			if state == inBody {
				state = inSuffix
			}
			quoted = !quoted
			continue
		}
		if quoted {
			affix(r)
			continue
		}

		switch state {
		case inPrefix:
			if isNumberPatternChar(r) {
				state = inBody
				num.WriteRune(r)
				continue
			}
		case inBody:
			if isNumberPatternChar(r) || r == 'E' {
				num.WriteRune(r)
				continue
			}
			state = inSuffix
		case inSuffix:
			if isNumberPatternChar(r) {
				return "", "", "", 0, fmt.Errorf("unexpected %q after suffix", r)
			}
		}

		switch r {
		case '%':
			multiplier = 100
		case '‰':
			multiplier = 1000
		}
		affix(r)
	}
	if quoted {
		return "", "", "", 0, errors.New("unterminated quote")
	}
	return pre.String(), num.String(), su.String(), multiplier, nil
}

func (p *decimalPattern) parseBody(body string) error {
	mantissa, exponent, sci := strings.Cut(body, "E")
	if sci {
		if exponent == "" || strings.Trim(exponent, "0") != "" {
			return errors.New("exponent must be one or more '0'")
		}
		p.scientific = true
		p.minExp = len(exponent)
	}

	intPart, fracPart, hasDot := strings.Cut(mantissa, ".")
	if hasDot && strings.Contains(fracPart, ".") {
		return errors.New("multiple decimal separators")
	}

	sawZero, digits := false, 0
	lastComma := -1
	for i, r := range intPart {
		switch r {
		case '#':
			if sawZero {
				return errors.New("unexpected '#' after '0'")
			}
			digits++
		case '0':
			sawZero = true
			p.minInt++
			digits++
		case ',':
			lastComma = i
		}
	}
	if lastComma >= 0 {
		if p.scientific {
			return errors.New("grouping not allowed in exponential pattern")
		}
		p.grouping = len(intPart) - lastComma - 1
		if p.grouping == 0 {
			return errors.New("grouping separator at end of integer part")
		}
	}

	sawHash := false
	for _, r := range fracPart {
		switch r {
		case '0':
			if sawHash {
				return errors.New("unexpected '0' after '#'")
			}
			p.minFrac++
		case '#':
			sawHash = true
		case ',':
			return errors.New("grouping separator in fraction")
		}
		p.maxFrac++
		digits++
	}

	if digits == 0 {
		return errors.New("no digit placeholders")
	}
	return nil
}

// format renders v through the pattern. Rounding is half-even on the exact
// binary value, as strconv does.
func (p *decimalPattern) format(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	v *= p.multiplier
	negative := v < 0
	a := math.Abs(v)

	var digits string
	switch {
	case math.IsInf(a, 0):
		digits = "∞"
	case p.scientific:
		digits = p.formatScientific(a)
	default:
		digits = p.formatFixed(a)
	}

	if negative && strings.Trim(digits, "0.,") != "" {
		return p.negPrefix + digits + p.negSuffix
	}
	return p.posPrefix + digits + p.posSuffix
}

func (p *decimalPattern) formatFixed(a float64) string {
	s := strconv.FormatFloat(a, 'f', p.maxFrac, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = trimFraction(fracPart, p.minFrac)

	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) < p.minInt {
		intPart = strings.Repeat("0", p.minInt-len(intPart)) + intPart
	}
	if intPart == "" && fracPart == "" {
		intPart = "0"
	}
	intPart = group(intPart, p.grouping)

	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

func (p *decimalPattern) formatScientific(a float64) string {
	intDigits := max(p.minInt, 1)
	exp := 0
	mantissa := strings.Repeat("0", intDigits+p.maxFrac)
	if a != 0 {
		e := strconv.FormatFloat(a, 'e', intDigits-1+p.maxFrac, 64)
		m, es, _ := strings.Cut(e, "e")
		exp, _ = strconv.Atoi(es)
		exp -= intDigits - 1
		mantissa = strings.Replace(m, ".", "", 1)
	}

	out := mantissa[:intDigits]
	if frac := trimFraction(mantissa[intDigits:], p.minFrac); frac != "" {
		out += "." + frac
	}

	sign := ""
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	return out + "E" + sign + pad(exp, p.minExp)
}

// trimFraction drops trailing zeros beyond the minimum fraction width.
func trimFraction(frac string, minFrac int) string {
	end := len(frac)
	for end > minFrac && frac[end-1] == '0' {
		end--
	}
	return frac[:end]
}

// group inserts ',' every size digits from the right.
func group(intPart string, size int) string {
	if size <= 0 || len(intPart) <= size {
		return intPart
	}
	var sb strings.Builder
	lead := len(intPart) % size
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += size {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+size])
	}
	return sb.String()
}
