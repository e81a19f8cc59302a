package document

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// headerSize is the number of leading bytes filetype needs to identify a file.
const headerSize = 261

const (
	// lineShift is the baseline change, as a fraction of the font size,
	// that starts a new line. Sub- and superscripts stay below it.
	lineShift = 0.5

	// wordGap is the horizontal gap, as a fraction of the font size,
	// that separates two words.
	wordGap = 0.15
)

// PDF is a Document backed by a PDF file.
// Page text is extracted on first access and cached.
type PDF struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	pages  []*string

	author  string
	creator string
	title   string
}

// IsPDF reports whether the file at path starts with the PDF magic bytes.
func IsPDF(path string) (bool, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, headerSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(buf[:n], "pdf"), nil
}

// OpenPDF opens a PDF file and reads its Info dictionary.
// The caller must Close the returned document.
func OpenPDF(path string) (*PDF, error) {
	ok, err := IsPDF(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, path)
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	reader, err := newReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	d := &PDF{
		path:   path,
		file:   f,
		reader: reader,
		pages:  make([]*string, reader.NumPage()),
	}
	d.readInfo()
	return d, nil
}

// newReader wraps pdf.NewReader, turning panics on malformed input into errors.
func newReader(r io.ReaderAt, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrExtraction, rec)
		}
	}()
	return pdf.NewReader(r, size)
}

// readInfo copies the author, creator and title fields of the Info dictionary.
func (d *PDF) readInfo() {
	defer func() {
		// A broken Info dictionary only means the metadata is absent.
		_ = recover()
	}()
	info := d.reader.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	d.author = normalize(info.Key("Author").Text())
	d.creator = normalize(info.Key("Creator").Text())
	d.title = normalize(info.Key("Title").Text())
}

// FileName returns the base name of the file.
func (d *PDF) FileName() string {
	return filepath.Base(d.path)
}

// PageCount returns the number of pages.
func (d *PDF) PageCount() int {
	return len(d.pages)
}

// TextAtPage extracts the text of page n.
func (d *PDF) TextAtPage(n int) (string, error) {
	if err := checkPage(n, len(d.pages)); err != nil {
		return "", err
	}
	if cached := d.pages[n-1]; cached != nil {
		return *cached, nil
	}
	text, err := d.extract(n)
	if err != nil {
		return "", err
	}
	d.pages[n-1] = &text
	return text, nil
}

// extract decodes one page. Text comes out in content stream order, which
// keeps margin line numbers ahead of the body text they number.
func (d *PDF) extract(n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: page %d of %s: %v", ErrExtraction, n, d.FileName(), rec)
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "\n", nil
	}
	return normalize(layoutLines(page.Content().Text)), nil
}

// layoutLines rebuilds the lines of a page from positioned glyphs.
//
// Design decision: Lines are split on baseline changes instead of relying on
// the text operators, because:
// 1. pdfTeX and Word move to the next line with Td, TD and Tm, not T*
// 2. Glyph positions are the same whichever operator placed them
func layoutLines(glyphs []pdf.Text) string {
	var sb strings.Builder
	var prev *pdf.Text
	for i := range glyphs {
		g := &glyphs[i]
		if g.S == "" {
			continue
		}
		if prev != nil {
			size := math.Max(math.Abs(prev.FontSize), 1)
			switch {
			case math.Abs(g.Y-prev.Y) > size*lineShift:
				sb.WriteByte('\n')
			case g.X-(prev.X+prev.W) > size*wordGap &&
				!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " "):
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.S)
		prev = g
	}
	sb.WriteByte('\n')
	return sb.String()
}

// FullText returns the text of all pages joined by newlines.
func (d *PDF) FullText() (string, error) {
	var sb strings.Builder
	for i := 1; i <= len(d.pages); i++ {
		text, err := d.TextAtPage(i)
		if err != nil {
			return "", err
		}
		if i > 1 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// MetaDataAuthor returns the author field if it is not blank.
func (d *PDF) MetaDataAuthor() (string, bool) {
	return present(d.author)
}

// MetaDataCreator returns the creator field if it is not blank.
func (d *PDF) MetaDataCreator() (string, bool) {
	return present(d.creator)
}

// MetaDataTitle returns the title field if it is not blank.
func (d *PDF) MetaDataTitle() (string, bool) {
	return present(d.title)
}

// Close closes the underlying file.
func (d *PDF) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// normalize applies NFKC, which folds ligatures and full-width forms,
// and unifies line endings.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFKC.String(s)
}
