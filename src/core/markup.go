package core

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// fragment returns the outer markup of the first tag with the given class.
func fragment(s *goquery.Selection, tag, class string) (string, error) {
	sel := s.Find(tag + "." + class).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("no <%s class=%q> in document", tag, class)
	}

	return goquery.OuterHtml(sel)
}

// fragments returns the outer markup of every matching tag in document order.
func fragments(s *goquery.Selection, tag, class string) ([]string, error) {
	var (
		out []string
		err error
	)

	s.Find(tag + "." + class).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var html string
		html, err = goquery.OuterHtml(s)
		out = append(out, html)
		return err == nil
	})

	return out, err
}

// segment is the i-th part of s split on sep.
func segment(s, sep string, i int) (string, error) {
	parts := strings.Split(s, sep)
	if i >= len(parts) {
		return "", fmt.Errorf("%q occurs %d times, need %d", sep, len(parts)-1, i)
	}

	return parts[i], nil
}

// between returns the text after the first open up to the next close, cut
// at a second open if that comes first.
func between(s, open, close string) (string, error) {
	after, err := segment(s, open, 1)
	if err != nil {
		return "", err
	}

	return strings.Split(after, close)[0], nil
}
