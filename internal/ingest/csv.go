package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/survey"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(r io.Reader, opt Options) (*survey.Dataset, error) {
	return ReadCSV(r, opt)
}

// ReadCSV reads a delimited export. Without an explicit delimiter the first
// line decides between comma, semicolon and tab.
func ReadCSV(r io.Reader, opt Options) (*survey.Dataset, error) {
	br := bufio.NewReader(r)
	delim := opt.Delimiter
	if delim == 0 {
		first, _ := br.Peek(4096)
		delim = sniffDelimiter(string(first))
	}
	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	name := opt.Name
	if name == "" {
		name = "survey.csv"
	}
	return fromRows(name, rows)
}

func delimiterFor(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return 0
}

// sniffDelimiter counts candidate delimiters on the header line, outside quotes.
func sniffDelimiter(sample string) rune {
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		sample = sample[:i]
	}
	counts := map[rune]int{}
	quoted := false
	for _, c := range sample {
		switch c {
		case '"':
			quoted = !quoted
		case ',', ';', '\t':
			if !quoted {
				counts[c]++
			}
		}
	}
	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
