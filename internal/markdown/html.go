package markdown

import (
	"bytes"

	"golang.org/x/net/html"
)

// linkAttrs maps HTML elements to the attribute that carries a reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"script": "src",
	"link":   "href",
}

// extractHTMLLinks finds href/src references inside raw HTML embedded in a
// Markdown document. The parser is tolerant, so partial fragments (an opening
// tag in one block, the closing tag in another) still yield their attributes.
func extractHTMLLinks(fragment []byte) ([]Link, error) {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{Kind: LinkKindHTML, Destination: v})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
