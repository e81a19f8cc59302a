package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/blindcheck/internal/model"
)

// Column names of the HotCRP author export.
const (
	columnPaper = "paper"
	columnTitle = "title"
	columnFirst = "first"
	columnLast  = "last"
	columnEmail = "email"
)

// requiredColumns must all be present in the header.
var requiredColumns = []string{columnPaper, columnTitle, columnFirst, columnLast, columnEmail}

// fileMarker precedes the paper id in submission file names.
const fileMarker = "-paper"

// Roster holds the papers of one conference keyed by submission id.
type Roster struct {
	papers map[string]*model.Paper
	order  []string
}

// Load reads a HotCRP author CSV export.
func Load(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyRoster
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	roster := &Roster{
		papers: make(map[string]*model.Paper),
		order:  make([]string, 0),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}

		line, _ := reader.FieldPos(0)
		id := strings.TrimSpace(record[columns[columnPaper]])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d", ErrMissingPaperID, line)
		}

		paper, ok := roster.papers[id]
		if !ok {
			paper = model.NewPaper(id, strings.TrimSpace(record[columns[columnTitle]]))
			roster.papers[id] = paper
			roster.order = append(roster.order, id)
		}
		paper.AddAuthor(model.Author{
			FirstName: strings.TrimSpace(record[columns[columnFirst]]),
			LastName:  strings.TrimSpace(record[columns[columnLast]]),
			Email:     strings.TrimSpace(record[columns[columnEmail]]),
		})
	}

	return roster, nil
}

// LoadFile reads a HotCRP author CSV export from a file.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	roster, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster %s: %w", path, err)
	}
	return roster, nil
}

// indexColumns maps required column names to their position in the header.
func indexColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	columns := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		columns[name] = i
	}
	return columns, nil
}

// Paper returns the paper with the given submission id.
func (r *Roster) Paper(id string) (*model.Paper, bool) {
	paper, ok := r.papers[id]
	return paper, ok
}

// PaperFor returns the paper a submission file belongs to. The id is the
// text between the last "-paper" and ".pdf" of the file name.
func (r *Roster) PaperFor(fileName string) (*model.Paper, bool) {
	id, ok := PaperID(fileName)
	if !ok {
		return nil, false
	}
	return r.Paper(id)
}

// PaperID extracts the submission id from a file name such as
// "icse2021-paper13.pdf".
func PaperID(fileName string) (string, bool) {
	name := filepath.Base(fileName)
	start := strings.LastIndex(name, fileMarker)
	end := strings.LastIndex(strings.ToLower(name), ".pdf")
	if start < 0 || end < 0 || start+len(fileMarker) > end {
		return "", false
	}
	id := name[start+len(fileMarker) : end]
	return id, id != ""
}

// Len returns the number of papers.
func (r *Roster) Len() int {
	return len(r.order)
}

// Papers returns all papers in file order.
func (r *Roster) Papers() []*model.Paper {
	papers := make([]*model.Paper, 0, len(r.order))
	for _, id := range r.order {
		papers = append(papers, r.papers[id])
	}
	return papers
}
