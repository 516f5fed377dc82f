package x12

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Formatters in this file assume validated input. Strict format
// enforcement is the validator's job; these functions never fail, they
// produce a best-effort value for whatever they are given.

var delimiterCleaner = strings.NewReplacer(
	ElementSeparator, "",
	SegmentTerminator, "",
	ComponentSeparator, "",
	RepetitionSeparator, "",
)

// Clean strips the X12 delimiter characters from a data value so free
// text can never corrupt segment structure. Applied to every name and
// free-text field before it enters a segment.
func Clean(s string) string {
	return strings.TrimSpace(delimiterCleaner.Replace(s))
}

// EDIDate converts an ISO YYYY-MM-DD string to the 8-digit CCYYMMDD form.
// The conversion is purely textual so a date can never roll across a
// timezone boundary.
func EDIDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if len(iso) > 10 {
		iso = iso[:10]
	}
	return strings.ReplaceAll(iso, "-", "")
}

// EDIDateTime formats a time as CCYYMMDD.
func EDIDateTime(t time.Time) string {
	return t.Format("20060102")
}

// EDITime formats a time as 4-digit HHMM (24-hour).
func EDITime(t time.Time) string {
	return t.Format("1504")
}

// FixedWidth right-pads with spaces, or truncates, to exactly n
// characters. The ISA segment mandates exact element widths for the
// sender/receiver ID and security fields.
func FixedWidth(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

// FormatNPI strips non-digit characters from an NPI. A validated NPI
// yields exactly 10 digits.
func FormatNPI(npi string) string {
	return digitsOnly(npi)
}

// FormatTaxID strips non-digit characters from an EIN. A validated tax
// ID yields exactly 9 digits.
func FormatTaxID(taxID string) string {
	return digitsOnly(taxID)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Amount converts integer cents to a two-decimal dollar string, e.g.
// 35000 -> "350.00". This is the only place cents become dollars.
func Amount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Units formats a unit count without trailing zeros, e.g. 4 -> "4",
// 1.5 -> "1.5".
func Units(u float64) string {
	return strconv.FormatFloat(u, 'f', -1, 64)
}

// Segment joins a segment ID and its elements with the element
// separator and appends the segment terminator. Empty elements are
// preserved so element positions stay intact; callers decide how many
// trailing elements a segment carries.
func Segment(id string, elements ...string) string {
	if len(elements) == 0 {
		return id + SegmentTerminator
	}
	return id + ElementSeparator + strings.Join(elements, ElementSeparator) + SegmentTerminator
}

// Composite joins sub-elements with the component separator, dropping
// trailing empty components.
func Composite(parts ...string) string {
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return strings.Join(parts[:end], ComponentSeparator)
}
