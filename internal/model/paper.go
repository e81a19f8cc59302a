package model

// Author is one author of a submission as registered in the submission system.
type Author struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Name returns the display name "First Last".
// LaTeX escapes such as {\"a} are kept as registered; matching such names
// against extracted PDF text is a known blind spot.
func (a Author) Name() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// Paper is the roster metadata of one submission.
type Paper struct {
	// ID is the submission number assigned by the submission system.
	ID string `json:"id"`

	// Title is the title as declared in the submission system.
	Title string `json:"title"`

	// Authors are kept in roster order.
	Authors []Author `json:"authors"`
}

// NewPaper creates a paper without authors.
func NewPaper(id, title string) *Paper {
	return &Paper{
		ID:      id,
		Title:   title,
		Authors: make([]Author, 0),
	}
}

// AddAuthor appends an author to the paper.
func (p *Paper) AddAuthor(author Author) {
	p.Authors = append(p.Authors, author)
}
