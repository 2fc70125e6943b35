// Package lsp serves CBS language features over the language server
// protocol.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Registers the commonlog backend used by glsp.
	_ "github.com/tliron/commonlog/simple"

	"github.com/yaklabco/gocbs/pkg/assist"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/funcs"
	"github.com/yaklabco/gocbs/pkg/lint"
)

const (
	serverName = "gocbs"
	logName    = "gocbs.lsp"
)

// Options configures a Server.
type Options struct {
	Config    *config.Config
	Functions *funcs.Registry
	Rules     *lint.Registry
	Version   string
}

// Server is a CBS language server.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	log     commonlog.Logger
	version string

	mu  sync.RWMutex
	cfg *config.Config

	docs      *documentStore
	engine    *lint.Engine
	completer *assist.Completer
	hoverer   *assist.Hoverer
	signer    *assist.Signer
}

// New creates a Server. Nil options fall back to defaults.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Functions == nil {
		opts.Functions = funcs.Default()
	}
	if opts.Rules == nil {
		opts.Rules = lint.DefaultRegistry
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		log:       commonlog.GetLogger(logName),
		version:   opts.Version,
		cfg:       opts.Config,
		docs:      newDocumentStore(),
		engine:    lint.NewEngine(opts.Rules, opts.Functions),
		completer: assist.NewCompleter(opts.Functions),
		hoverer:   assist.NewHoverer(opts.Functions),
		signer:    assist.NewSigner(opts.Functions),
	}

	s.handler = protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		SetTrace:                      s.setTrace,
		TextDocumentDidOpen:           s.didOpen,
		TextDocumentDidChange:         s.didChange,
		TextDocumentDidSave:           s.didSave,
		TextDocumentDidClose:          s.didClose,
		TextDocumentCompletion:        s.completion,
		TextDocumentHover:             s.hover,
		TextDocumentSignatureHelp:     s.signatureHelp,
		TextDocumentFoldingRange:      s.foldingRange,
		TextDocumentFormatting:        s.formatting,
		TextDocumentRangeFormatting:   s.rangeFormatting,
		TextDocumentDocumentHighlight: s.documentHighlight,
	}
	s.server = server.NewServer(&s.handler, logName, false)

	return s
}

// ConfigureLogging sets the commonlog verbosity for all servers: 0 logs
// errors only, 2 includes debug output. Logs go to stderr.
func ConfigureLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// Handler returns the protocol handler, for embedding the server in
// another transport.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

// RunStdio serves requests on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.log.Infof("initialize from %s", params.ClientInfo.Name)
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}

	cfg := s.config()
	if config.Bool(cfg.LSP.Completion, true) {
		capabilities.CompletionProvider = &protocol.CompletionOptions{
			TriggerCharacters: []string{"{", "#", "/", ":"},
		}
	} else {
		capabilities.CompletionProvider = nil
	}
	if config.Bool(cfg.LSP.SignatureHelp, true) {
		capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
			TriggerCharacters: []string{":"},
		}
	} else {
		capabilities.SignatureHelpProvider = nil
	}
	if !config.Bool(cfg.LSP.Hover, true) {
		capabilities.HoverProvider = nil
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	s.log.Debug("client initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.docs.clear()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
