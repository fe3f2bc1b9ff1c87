// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for rlisp.
// It provides diagnostics, hover, go-to-definition, references,
// completion, document symbols, rename, signature help and formatting.
package lsp

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/formatter"
	"github.com/luthersystems/rlisp/lint"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const (
	serverName    = "rlisp-lsp"
	serverVersion = "0.1.0"
)

// Server is the rlisp language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	analyzers    []*lint.Analyzer
	formatConfig *formatter.Config
	env          *lisp.Env
	logger       logrus.FieldLogger

	// Functions defined by the .lisp files under rootPath.
	workspace     []analysis.ExternalSymbol
	workspaceMu   sync.RWMutex
	workspaceOnce sync.Once

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Notification function captured from the latest request.
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification.  Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithEnv makes the functions and variables defined in env known to the
// server, as though they were defined in every document.
func WithEnv(env *lisp.Env) Option {
	return func(s *Server) { s.env = env }
}

// WithLogger sets the logger used for server events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithAnalyzers replaces the default lint analyzers used for diagnostics.
func WithAnalyzers(analyzers []*lint.Analyzer) Option {
	return func(s *Server) { s.analyzers = analyzers }
}

// WithFormatConfig sets the formatter configuration used for document
// formatting.
func WithFormatConfig(cfg *formatter.Config) Option {
	return func(s *Server) { s.formatConfig = cfg }
}

// New creates a new rlisp LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:      NewDocumentStore(),
		analyzers: lint.DefaultAnalyzers(),
		debounce:  make(map[string]*time.Timer),
		exitFn:    os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		s.logger = logger
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentCompletion:     s.textDocumentCompletion,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentRename:         s.textDocumentRename,
		TextDocumentPrepareRename:  s.textDocumentPrepareRename,
		TextDocumentFormatting:     s.textDocumentFormatting,
		TextDocumentSignatureHelp:  s.textDocumentSignatureHelp,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.logger.WithField("root", s.rootPath).Info("initialize")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"("},
	}
	capabilities.RenameProvider = &protocol.RenameOptions{
		PrepareProvider: boolPtr(true),
	}
	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters:   []string{" "},
		RetriggerCharacters: []string{" ", ")"},
	}

	version := serverVersion
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	s.logger.Info("shutdown")
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// ensureWorkspace scans the workspace root once, on first demand.
func (s *Server) ensureWorkspace() {
	s.workspaceOnce.Do(s.scanWorkspace)
}

// scanWorkspace rebuilds the index of functions defined under rootPath and
// drops the cached analysis of every open document.
func (s *Server) scanWorkspace() {
	if s.rootPath == "" {
		return
	}
	syms, err := analysis.ScanWorkspace(s.rootPath)
	if err != nil {
		s.logger.WithError(err).Warn("workspace scan failed")
		return
	}
	s.logger.WithField("symbols", len(syms)).Debug("scanned workspace")
	s.workspaceMu.Lock()
	s.workspace = syms
	s.workspaceMu.Unlock()
	for _, doc := range s.docs.All() {
		doc.invalidate()
	}
}

// globals returns the symbols defined outside the document at path: the
// environment of the embedding program and the other workspace files.
func (s *Server) globals(path string) []analysis.ExternalSymbol {
	s.ensureWorkspace()

	var syms []analysis.ExternalSymbol
	if s.env != nil {
		syms = append(syms, analysis.EnvSymbols(s.env)...)
	}
	s.workspaceMu.RLock()
	defer s.workspaceMu.RUnlock()
	for _, sym := range s.workspace {
		if sym.Source != nil && sym.Source.File == path {
			continue
		}
		syms = append(syms, sym)
	}
	return syms
}

// ensureAnalysis returns the current analysis of doc.
func (s *Server) ensureAnalysis(doc *Document) *analysis.Result {
	globals := s.globals(uriToPath(doc.URI))
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.analysis == nil {
		doc.analysis = analysis.Analyze(doc.exprs, &analysis.Config{
			Filename:     uriToPath(doc.URI),
			ExtraGlobals: globals,
		})
	}
	return doc.analysis
}

// captureNotify stores the notification function of ctx for later
// asynchronous use.
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
