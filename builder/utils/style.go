package utils

import "strings"

// ANSI SGR codes used by the report renderer.
const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// Style applies terminal colors to report output. With Enabled false every
// method returns its input unchanged, which keeps tests and piped output
// free of escape sequences.
type Style struct {
	Enabled bool
}

func (s Style) wrap(code, str string) string {
	if !s.Enabled || str == "" {
		return str
	}
	return code + str + ansiReset
}

func (s Style) Dim(str string) string    { return s.wrap(ansiDim, str) }
func (s Style) Red(str string) string    { return s.wrap(ansiRed, str) }
func (s Style) Green(str string) string  { return s.wrap(ansiGreen, str) }
func (s Style) Yellow(str string) string { return s.wrap(ansiYellow, str) }
func (s Style) Cyan(str string) string   { return s.wrap(ansiCyan, str) }

// StripANSI removes SGR escape sequences from s.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] == ';' || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			if j < len(s) && s[j] == 'm' {
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// VisibleLen is the printed width of s, ignoring escape sequences.
func VisibleLen(s string) int {
	return len(StripANSI(s))
}
