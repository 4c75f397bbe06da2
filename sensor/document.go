// Copyright (c) Woog.life
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"github.com/beevik/etree"

	"github.com/woog-life/temperature-scraper/pkg/errors"
)

var (
	// ErrParse indicates a malformed sensor document.
	ErrParse = errors.New("failed to parse sensor document")

	errNoRoot = errors.New("document has no root element")
)

// Document is a navigable view over the sensor XML. Lookups are
// case-sensitive exact matches with document-order first-match
// semantics and no namespace handling.
type Document struct {
	doc *etree.Document
}

// Node is a positioned element within a Document.
type Node struct {
	el *etree.Element
}

// Parse builds a Document from raw XML text.
func Parse(raw string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, errors.Wrap(ErrParse, err)
	}
	if doc.Root() == nil {
		return nil, errors.Wrap(ErrParse, errNoRoot)
	}

	return &Document{doc: doc}, nil
}

// First returns the first element with the given name in document
// order, considering the root itself and every descendant. The second
// return value reports presence: an element holding empty text is
// distinct from an absent element.
func (d *Document) First(name string) (Node, bool) {
	root := d.doc.Root()
	if root.Tag == name {
		return Node{el: root}, true
	}
	el := findFirst(root, name)
	if el == nil {
		return Node{}, false
	}

	return Node{el: el}, true
}

// First returns the text of the first descendant of the node with the
// given name in document order, with an explicit presence flag.
func (n Node) First(name string) (string, bool) {
	el := findFirst(n.el, name)
	if el == nil {
		return "", false
	}

	return el.Text(), true
}

// findFirst walks the subtree under el in document order and returns
// the first element with the given tag, or nil.
func findFirst(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			return child
		}
		if found := findFirst(child, name); found != nil {
			return found
		}
	}

	return nil
}
