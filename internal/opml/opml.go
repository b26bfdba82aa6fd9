// Package opml handles importing and exporting the link tree as OPML.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/bryan-buckman/linkpage/internal/model"
)

// OPML represents the root of an OPML document.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head contains OPML metadata.
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body contains the outlines.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is a category, a subcategory or a link. Links carry a URL.
type Outline struct {
	Text        string    `xml:"text,attr"`
	Title       string    `xml:"title,attr,omitempty"`
	Type        string    `xml:"type,attr,omitempty"`
	ID          string    `xml:"id,attr,omitempty"`
	Icon        string    `xml:"icon,attr,omitempty"`
	Description string    `xml:"description,attr,omitempty"`
	IsPrivate   bool      `xml:"isPrivate,attr,omitempty"`
	HTMLURL     string    `xml:"htmlUrl,attr,omitempty"`
	XMLURL      string    `xml:"xmlUrl,attr,omitempty"`
	URL         string    `xml:"url,attr,omitempty"`
	Outlines    []Outline `xml:"outline,omitempty"`
}

func (o Outline) link() string {
	switch {
	case o.HTMLURL != "":
		return o.HTMLURL
	case o.URL != "":
		return o.URL
	default:
		return o.XMLURL
	}
}

func (o Outline) isLink() bool {
	return o.Type == "link" || o.link() != ""
}

func (o Outline) name() string {
	if o.Text != "" {
		return o.Text
	}
	return o.Title
}

// Parse reads an OPML document into categories. Top-level folders become
// categories, nested folders become subcategories and anything with a URL
// becomes a link. Deeper folders are flattened into their subcategory.
// Loose top-level links are collected into one extra category. Missing ids
// are generated.
func Parse(r io.Reader) ([]model.Category, error) {
	var doc OPML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode opml: %w", err)
	}

	var cats []model.Category
	var loose []model.Link
	for _, o := range doc.Body.Outlines {
		if o.isLink() {
			loose = append(loose, toLink(o))
			continue
		}
		c := model.Category{
			ID:            idOr(o.ID, "cat"),
			Name:          o.name(),
			Icon:          o.Icon,
			IsPrivate:     o.IsPrivate,
			Subcategories: []model.Subcategory{},
			Links:         []model.Link{},
		}
		for _, child := range o.Outlines {
			if child.isLink() {
				c.Links = append(c.Links, toLink(child))
				continue
			}
			c.Subcategories = append(c.Subcategories, model.Subcategory{
				ID:        idOr(child.ID, "sub"),
				Name:      child.name(),
				IsPrivate: child.IsPrivate,
				Links:     collectLinks(child.Outlines, []model.Link{}),
			})
		}
		cats = append(cats, c)
	}
	if len(loose) > 0 {
		cats = append(cats, model.Category{
			ID:            model.NewID("cat"),
			Name:          "Imported",
			Icon:          "folder",
			Subcategories: []model.Subcategory{},
			Links:         loose,
		})
	}
	for i := range cats {
		cats[i].Order = i + 1
	}
	return cats, nil
}

func collectLinks(outlines []Outline, links []model.Link) []model.Link {
	for _, o := range outlines {
		if o.isLink() {
			links = append(links, toLink(o))
		} else {
			links = collectLinks(o.Outlines, links)
		}
	}
	return links
}

func toLink(o Outline) model.Link {
	return model.Link{
		ID:          idOr(o.ID, "link"),
		Name:        o.name(),
		URL:         o.link(),
		Icon:        o.Icon,
		Description: o.Description,
	}
}

func idOr(id, prefix string) string {
	if id != "" {
		return id
	}
	return model.NewID(prefix)
}

// Export generates an OPML document from the category tree.
func Export(title string, cats []model.Category) ([]byte, error) {
	doc := OPML{
		Version: "2.0",
		Head: Head{
			Title:       title,
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
	}

	for _, c := range cats {
		co := Outline{
			Text:      c.Name,
			Title:     c.Name,
			ID:        c.ID,
			Icon:      c.Icon,
			IsPrivate: c.IsPrivate,
		}
		for _, s := range c.Subcategories {
			so := Outline{
				Text:      s.Name,
				Title:     s.Name,
				ID:        s.ID,
				IsPrivate: s.IsPrivate,
			}
			for _, l := range s.Links {
				so.Outlines = append(so.Outlines, fromLink(l))
			}
			co.Outlines = append(co.Outlines, so)
		}
		for _, l := range c.Links {
			co.Outlines = append(co.Outlines, fromLink(l))
		}
		doc.Body.Outlines = append(doc.Body.Outlines, co)
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), output...), nil
}

func fromLink(l model.Link) Outline {
	return Outline{
		Text:        l.Name,
		Title:       l.Name,
		Type:        "link",
		ID:          l.ID,
		Icon:        l.Icon,
		Description: l.Description,
		HTMLURL:     l.URL,
	}
}
