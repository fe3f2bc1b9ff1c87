// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"sync"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu         sync.Mutex
	URI        string
	Version    int32
	Content    string
	exprs      []*lisp.Expr
	syntaxErrs []*parser.SyntaxError
	analysis   *analysis.Result
}

// parse parses the document content.  Lines with syntax errors are left out
// of the expressions and recorded so the rest of the document can still be
// analyzed.
func (d *Document) parse() {
	d.exprs, d.syntaxErrs = parser.ParseFile(uriToPath(d.URI), []byte(d.Content))
	d.analysis = nil
}

func (d *Document) invalidate() {
	d.mu.Lock()
	d.analysis = nil
	d.mu.Unlock()
}

// text returns the current content of the document.
func (d *Document) text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI.  Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents ordered by URI.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}
