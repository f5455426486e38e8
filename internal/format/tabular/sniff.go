package tabular

import (
	"strconv"
	"strings"
)

var candidateDelimiters = []rune{',', '\t', ';', '|'}

// sniffDelimiter picks the candidate delimiter with the most consistent
// per-line field count across the sample's first lines, falling back to
// comma when no candidate is consistent.
func sniffDelimiter(sample string) rune {
	lines := sampleLines(sample, 10)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := -1
	for _, d := range candidateDelimiters {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			counts = append(counts, strings.Count(line, string(d)))
		}
		if counts[0] == 0 {
			continue
		}
		consistent := true
		for _, c := range counts {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		score := counts[0]
		if !consistent {
			score = -1
		}
		if score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

func sampleLines(sample string, max int) []string {
	var lines []string
	for _, l := range strings.Split(sample, "\n") {
		l = strings.TrimRight(l, "\r")
		if l == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) >= max {
			break
		}
	}
	return lines
}

// sniffHasHeader takes the first record to be a header row when none of its
// fields parses as a number; the second record's contents are not
// inspected. Any failure to read two rows defaults to "header present", the
// safer assumption for a sampling tool whose whole job is to preserve a
// file's shape.
func sniffHasHeader(first, second []string) bool {
	if len(first) == 0 || len(second) == 0 {
		return true
	}
	firstAllNonNumeric := true
	for _, f := range first {
		if looksNumeric(f) {
			firstAllNonNumeric = false
			break
		}
	}
	// A header row reads as non-numeric labels; a first row with any
	// numeric field is taken as data. An all-text first row is treated as a
	// header even when the rows after it are all text too.
	return firstAllNonNumeric
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
