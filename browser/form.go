package browser

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoForm = errors.New("no form in document")

// Form is the first <form> of an HTML document.
type Form struct {
	Action string
	Method string
	Fields []FormField
}

type FormField struct {
	Name  string
	Value string
}

// Values returns the fields in submission encoding.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		values.Add(field.Name, field.Value)
	}
	return values
}

func (f *Form) Get(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// ExtractForm parses doc and returns its first form with every named input.
func ExtractForm(doc []byte) (*Form, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	node := findFirst(root, atom.Form)
	if node == nil {
		return nil, ErrNoForm
	}

	form := &Form{
		Action: attr(node, "action"),
		Method: strings.ToUpper(attr(node, "method")),
	}
	if form.Method == "" {
		form.Method = "GET"
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Input {
			if name := attr(n, "name"); name != "" {
				form.Fields = append(form.Fields, FormField{Name: name, Value: attr(n, "value")})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return form, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

const autoSubmitScript = `<script>window.addEventListener("load",function(){var f=document.forms[0];if(f){f.submit();}});</script>`

// WithAutoSubmit returns doc with a script that submits its first form once
// the page has loaded.
func WithAutoSubmit(doc []byte) []byte {
	lower := bytes.ToLower(doc)
	idx := bytes.LastIndex(lower, []byte("</body>"))
	if idx < 0 {
		out := make([]byte, 0, len(doc)+len(autoSubmitScript))
		out = append(out, doc...)
		return append(out, autoSubmitScript...)
	}
	out := make([]byte, 0, len(doc)+len(autoSubmitScript))
	out = append(out, doc[:idx]...)
	out = append(out, autoSubmitScript...)
	return append(out, doc[idx:]...)
}
