package document

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ShowAll selects every page for Show.
const ShowAll = "all"

// ErrInvalidPageSelection is returned when a page selection is neither
// "all" nor a page number.
var ErrInvalidPageSelection = errors.New("page selection must be a page number or \"all\"")

// Show writes extracted text for inspection. An empty selection writes nothing.
// "all" writes the full text; a number writes that page between
// START-PAGE and END-PAGE markers.
func Show(w io.Writer, doc Document, selection string) error {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil
	}

	if strings.EqualFold(selection, ShowAll) {
		text, err := doc.FullText()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}

	n, err := strconv.Atoi(selection)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPageSelection, selection)
	}
	text, err := doc.TextAtPage(n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "START-PAGE %d (of %d) %s: ---\n%sEND-PAGE\n",
		n, doc.PageCount(), doc.FileName(), text)
	return err
}
