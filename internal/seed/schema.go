package seed

import "github.com/MrSnakeDoc/inbox/internal/domain"

// File is the top-level structure of a samples YAML file:
//
//	samples:
//	  - title: Reading list
//	    content_md: "- [ ] *Dune*"
//	    url: https://example.com
//	    from_source: 1
type File struct {
	Samples []Sample `yaml:"samples"`
}

// Sample is one record to insert.
type Sample struct {
	Title    string `yaml:"title"`
	Markdown string `yaml:"content_md"`
	URL      string `yaml:"url,omitempty"`
	Source   int    `yaml:"from_source,omitempty"`
}

// NewRecord maps the sample onto a create request.
func (s Sample) NewRecord() domain.NewRecord {
	return domain.NewRecord{
		Title:    s.Title,
		Markdown: s.Markdown,
		URL:      s.URL,
		Source:   s.Source,
	}
}

// Defaults are the samples inserted when no file is given.
func Defaults() []Sample {
	return []Sample{
		{
			Title:    "Sample Item 1",
			Markdown: "This is a **sample** inbox item with some *formatted* text.",
			URL:      "https://example.com/sample1",
			Source:   0,
		},
		{
			Title:    "Sample Item 2",
			Markdown: "# Sample Heading\n\nThis is another sample item with a heading and some content.",
			URL:      "https://example.com/sample2",
			Source:   1,
		},
		{
			Title:    "Sample Item 3",
			Markdown: "This item contains a [link](https://example.com) and some `code` examples.",
			URL:      "https://example.com/sample3",
			Source:   2,
		},
	}
}
