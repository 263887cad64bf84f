// Copyright © 2024 The XCTLint authors

package lsp

import (
	"context"
	"sync"

	"github.com/luthersystems/xctlint/swift"
	"github.com/luthersystems/xctlint/syntax"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu       sync.Mutex
	URI      string
	Version  int32
	Content  string
	file     *syntax.File
	parseErr error
}

// parse parses the document content and caches the syntax tree. Files
// with syntax errors still yield a partial tree.
func (d *Document) parse() {
	file, err := swift.Parser{}.Parse(context.Background(), uriToPath(d.URI), []byte(d.Content))
	d.file = file
	d.parseErr = err
}

// snapshot returns the fields needed to lint the document.
func (d *Document) snapshot() (uri, content string, file *syntax.File, parseErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URI, d.Content, d.file, d.parseErr
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

// Change updates a document's content (full sync) and re-parses it.
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

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns every open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
