package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/factex/blocktree"
	"github.com/factex/blocktree/goquery"
	bthtml "github.com/factex/blocktree/html"
	btslog "github.com/factex/blocktree/slog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Server exposes the extraction operations as a JSON API.
//
// POST /v1/text: text blocks of one page.
// POST /v1/groups: similar-sense groups of one page.
// POST /v1/diff: text blocks after subtracting template pages.
// GET /healthz: liveness probe.
//
// Responses for identical requests are served from an LRU cache keyed by
// a hash of the request body, since extraction is deterministic.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	converter blocktree.Converter
	cache     *lru.Cache[uint64, []byte]
	cfg       Config
}

// NewServer creates a Server. The converter is used for markdown output
// in diff responses and may be nil, in which case markdown requests are
// rejected.
func NewServer(cfg Config, logger *slog.Logger, converter blocktree.Converter) (*Server, error) {
	s := &Server{
		logger:    logger,
		converter: converter,
		cfg:       cfg,
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[uint64, []byte](cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/v1/text", s.handleText)
	r.Post("/v1/groups", s.handleGroups)
	r.Post("/v1/diff", s.handleDiff)

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server on the configured address until the
// listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type extractRequest struct {
	// Markup is the page to extract from.
	Markup string `json:"markup"`

	// Templates are pages to subtract before extraction (diff only).
	Templates []string `json:"templates,omitempty"`

	// Selector scopes parsing to a CSS selector match.
	Selector string `json:"selector,omitempty"`

	// Depth bounds the clustering signature (groups only).
	Depth int `json:"depth,omitempty"`

	// Greedy enables greedy alignment (diff only).
	Greedy bool `json:"greedy,omitempty"`

	// Classes enables class-aware alignment (diff only).
	Classes bool `json:"classes,omitempty"`

	// Cross keeps content shared with the templates instead of
	// removing it (diff only).
	Cross bool `json:"cross,omitempty"`

	// Markdown renders the diff result as Markdown (diff only).
	Markdown bool `json:"markdown,omitempty"`
}

type textResponse struct {
	Texts []string `json:"texts"`
}

type groupsResponse struct {
	Groups [][]string `json:"groups"`
}

type markdownResponse struct {
	Markdown string `json:"markdown"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(req *extractRequest) (any, error) {
		tree, err := s.buildTree(req.Markup, req.Selector)
		if err != nil {
			return nil, err
		}
		return textResponse{Texts: tree.TextNodes()}, nil
	})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(req *extractRequest) (any, error) {
		tree, err := s.buildTree(req.Markup, req.Selector)
		if err != nil {
			return nil, err
		}
		var opts []blocktree.ClusterOption
		if req.Depth > 0 {
			opts = append(opts, blocktree.WithClusterDepth(req.Depth))
		}
		return groupsResponse{Groups: tree.SimilarSenseTexts(opts...)}, nil
	})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(req *extractRequest) (any, error) {
		if len(req.Templates) == 0 {
			return nil, blocktree.Errorf(blocktree.EINVALID, "diff requires at least one template")
		}
		if req.Markdown && s.converter == nil {
			return nil, blocktree.Errorf(blocktree.EINVALID, "markdown output is not configured")
		}

		tree, err := s.buildTree(req.Markup, req.Selector)
		if err != nil {
			return nil, err
		}

		var opts []blocktree.SubtractOption
		if req.Greedy {
			opts = append(opts, blocktree.WithGreedyAlignment())
		}
		if req.Classes {
			opts = append(opts, blocktree.WithClassAwareAlignment())
		}
		for _, tmpl := range req.Templates {
			template, err := s.buildTree(tmpl, req.Selector)
			if err != nil {
				return nil, err
			}
			if req.Cross {
				tree.Cross(template, opts...)
			} else {
				tree.Subtract(template, opts...)
			}
		}

		if req.Markdown {
			md, err := s.converter.Convert(tree.HTML())
			if err != nil {
				return nil, err
			}
			return markdownResponse{Markdown: md}, nil
		}
		return textResponse{Texts: tree.TextNodes()}, nil
	})
}

// buildTree parses markup, scoped to selector when one is given, and
// builds the block tree.
func (s *Server) buildTree(markup, selector string) (*blocktree.Tree, error) {
	if markup == "" {
		return nil, blocktree.Errorf(blocktree.EINVALID, "markup is required")
	}

	var parser blocktree.Parser
	if selector != "" {
		parser = goquery.NewParser(selector)
	} else {
		parser = bthtml.NewParser()
	}
	if s.cfg.Debug {
		parser = btslog.NewLoggingParser(parser, s.logger)
	}

	raw, err := parser.Parse([]byte(markup))
	if err != nil {
		return nil, err
	}
	return blocktree.Build(raw), nil
}

// cached decodes the request, serves a cache hit if an identical request
// was answered before, and otherwise runs fn and caches its marshaled
// response. Extraction is deterministic, so cached responses never go
// stale.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, fn func(*extractRequest) (any, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, blocktree.Errorf(blocktree.EINVALID, "decode request: %v", err))
		return
	}

	var key uint64
	if s.cache != nil {
		canonical, err := json.Marshal(req)
		if err != nil {
			s.error(w, r, err)
			return
		}
		key = xxhash.Sum64(append([]byte(r.URL.Path+"\x00"), canonical...))
		if hit, ok := s.cache.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(hit)
			return
		}
	}

	resp, err := fn(&req)
	if err != nil {
		s.error(w, r, err)
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if s.cache != nil {
		s.cache.Add(key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// error writes a JSON error with a status derived from the error code.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := blocktree.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case blocktree.EINVALID, blocktree.ERANGE:
		status = http.StatusBadRequest
	case blocktree.ENOTFOUND:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": blocktree.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request with status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			begin := time.Now()
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
