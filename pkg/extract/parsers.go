package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The sub-parsers below are independent and optional: each one either
// finds its field in a paragraph or reports a miss. A miss is never an
// error.

// Amount is a parsed dollar figure, normalized to base currency units.
type Amount struct {
	Value float64
	Unit  string
	Text  string
}

var amountRe = regexp.MustCompile(`\$\s?([0-9][0-9,]*(?:\.[0-9]+)?)(?:\s*(million|billion))?`)

// ParseAmount finds the first dollar-amount pattern in the paragraph.
// "million"/"billion" suffixes scale the value by 1e6/1e9. Returns nil
// when no dollar figure is present.
func ParseAmount(para string) *Amount {
	m := amountRe.FindStringSubmatch(para)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}

	// Scaled figures are whole dollars; round away the float drift
	// that "$2.4 million" style inputs pick up under multiplication.
	switch m[2] {
	case "million":
		value = math.Round(value * 1e6)
	case "billion":
		value = math.Round(value * 1e9)
	}

	return &Amount{
		Value: value,
		Unit:  "USD",
		Text:  strings.TrimSpace(m[0]),
	}
}

// vendorDelimiters end the leading vendor-name run, earliest match wins.
var vendorDelimiters = []string{
	",",
	" of ",
	" for ",
	" $",
	" has been",
	" is being",
}

// ParseVendor extracts the leading free-text run up to the first
// delimiter phrase. Award paragraphs lead with the awardee's name, so
// the run before " of Anytown" or ", has been awarded" is the vendor.
func ParseVendor(para string) (string, bool) {
	cut := -1
	for _, delim := range vendorDelimiters {
		if idx := strings.Index(para, delim); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut <= 0 {
		return "", false
	}

	vendor := strings.TrimSpace(para[:cut])
	if vendor == "" {
		return "", false
	}
	return vendor, true
}

// Contract numbers look like W912DY-24-C-0001: 1-3 leading letters, an
// alphanumeric office code, a two-digit fiscal year, an optional type
// letter, and an alphanumeric serial.
var contractIDRe = regexp.MustCompile(`\b[A-Z]{1,3}[0-9][0-9A-Z]{2,5}-[0-9]{2}(?:-[A-Z])?-[0-9A-Z]{1,6}\b`)

// ParseContractIDs collects every contract-number-shaped substring in
// the paragraph, in order of appearance.
func ParseContractIDs(para string) []string {
	return contractIDRe.FindAllString(para, -1)
}
