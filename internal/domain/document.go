package domain

import "fmt"

// Page is a single rasterized page of a Document. The image itself is out
// of scope for this core; Page only carries the opaque handle a Provider
// knows how to load.
type Page struct {
	PageNumber  int
	Image       ImageHandle
	PageSummary string
}

func NewPage(number int, image ImageHandle) (*Page, error) {
	if number <= 0 {
		return nil, fmt.Errorf("domain: page number must be positive, got %d", number)
	}
	if image.IsZero() {
		return nil, fmt.Errorf("domain: page %d has no image handle", number)
	}
	return &Page{PageNumber: number, Image: image}, nil
}

// Document is owned by the storage collaborator; the agent only ever holds
// read-only references to it for the duration of a single query.
type Document struct {
	ID      string
	Name    string
	Pages   []Page
	Summary string
}

func (d *Document) PageCount() int {
	return len(d.Pages)
}

func (d *Document) GetPage(number int) (*Page, bool) {
	for i := range d.Pages {
		if d.Pages[i].PageNumber == number {
			return &d.Pages[i], true
		}
	}
	return nil, false
}

// DocumentSummary is the lightweight catalog entry the Task Planner sees;
// it never carries page images.
type DocumentSummary struct {
	ID      string
	Name    string
	Summary string
}
