package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/config"
	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// RebuildFunc builds a fresh matcher over a new vocabulary snapshot.
type RebuildFunc func(vocabulary map[string]int) (suggest.IMatcher, error)

// Server handles the IPC for fuzzy matching
type Server struct {
	matcher  suggest.IMatcher
	config   *config.Config
	dict     *dictionary.RuntimeLoader
	rebuild  RebuildFunc
	decoder  *msgpack.Decoder
	encoder  *msgpack.Encoder
	out      *bufio.Writer
	requests int
}

// NewServer creates a server speaking over stdin/stdout.
func NewServer(matcher suggest.IMatcher, cfg *config.Config) *Server {
	return NewServerIO(matcher, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a server over arbitrary streams.
func NewServerIO(matcher suggest.IMatcher, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		matcher: matcher,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(out),
		out:     out,
	}
}

// WithDictionary enables the dictionary actions. rebuild is called with the
// new snapshot after every size change.
func (s *Server) WithDictionary(dict *dictionary.RuntimeLoader, rebuild RebuildFunc) *Server {
	s.dict = dict
	s.rebuild = rebuild
	return s
}

// Start writes the ready frame and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debugf("Starting server with %s matcher", s.matcher.Name())
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			// the stream cannot be resynchronised after a bad frame
			_ = s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.requests++
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action field; only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case "":
		return s.handleMatch(req)
	case "stats":
		return s.handleStats(req)
	case "health":
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "get_info", "get_options", "set_size":
		return s.handleDictionary(req)
	}
	return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
}

func (s *Server) handleMatch(req Request) error {
	query := req.Query
	if query == "" {
		log.Debug("Query is empty in request")
		return s.sendError(req.ID, "missing 'q' parameter", 400)
	}
	if n := utf8.RuneCountInString(query); n > s.config.Server.MaxQuery {
		return s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", s.config.Server.MaxQuery), 400)
	}

	depth := s.config.Match.MaxDepth
	if req.Depth != 0 {
		if req.Depth < 1 || req.Depth > depth {
			return s.sendError(req.ID, fmt.Sprintf("depth must be between 1 and %d", depth), 400)
		}
		depth = req.Depth
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.config.CLI.DefaultLimit
	}
	limit = min(limit, s.config.Server.MaxLimit)

	start := time.Now()
	if s.config.Server.EnableFilter && !utils.IsValidInput(query) {
		log.Debugf("Filtered query %q", query)
		return s.send(MatchResponse{ID: req.ID, Suggestions: []MatchSuggestion{}, TimeTaken: time.Since(start).Microseconds()})
	}

	matches, err := s.matcher.Similar(query)
	if err != nil {
		if errors.Is(err, graph.ErrInvalidInput) {
			return s.sendError(req.ID, err.Error(), 400)
		}
		log.Errorf("Matching %q: %v", query, err)
		return s.sendError(req.ID, "internal matching error", 500)
	}
	matches, err = narrow(matches, depth, s.config.Match.MaxDepth)
	if err != nil {
		return s.sendError(req.ID, err.Error(), 500)
	}
	matches = suggest.Limit(suggest.Sorted(matches), limit)
	elapsed := time.Since(start)

	ranks, err := utils.RankList(len(matches))
	if err != nil {
		return s.sendError(req.ID, err.Error(), 500)
	}
	suggestions := make([]MatchSuggestion, len(matches))
	for i, m := range matches {
		suggestions[i] = MatchSuggestion{
			Word:       m.Word,
			Confidence: m.Confidence,
			Distance:   m.Distance,
			Rank:       ranks[i],
		}
	}
	return s.send(MatchResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// narrow keeps matches that would have been emitted at a smaller depth and
// rescales their confidence to it.
func narrow(matches []suggest.Match, depth, maxDepth int) ([]suggest.Match, error) {
	if depth == maxDepth {
		return matches, nil
	}
	kept := matches[:0]
	for _, m := range matches {
		if !score.Emittable(m.Distance, depth) {
			continue
		}
		conf, err := score.Confidence(m.Distance, depth)
		if err != nil {
			return nil, err
		}
		m.Confidence = conf
		kept = append(kept, m)
	}
	return kept, nil
}

func (s *Server) handleStats(req Request) error {
	resp := StatsResponse{ID: req.ID, Status: "ok", Strategy: s.matcher.Name()}
	for m := s.matcher; m != nil; {
		switch v := m.(type) {
		case interface{ Stats() graph.Stats }:
			st := v.Stats()
			resp.Vertices, resp.Edges, resp.Paths = st.Vertices, st.Edges, st.Paths
		case interface{ Stats() map[string]int }:
			resp.Cache = v.Stats()
		}
		u, ok := m.(interface{ Unwrap() suggest.IMatcher })
		if !ok {
			break
		}
		m = u.Unwrap()
	}
	return s.send(resp)
}

func (s *Server) handleDictionary(req Request) error {
	if s.dict == nil {
		return s.sendError(req.ID, "dictionary actions need a chunk directory", 409)
	}

	available, err := s.dict.GetAvailableChunkCount()
	if err != nil {
		return s.sendError(req.ID, err.Error(), 500)
	}
	resp := DictionaryResponse{ID: req.ID, Status: "ok", AvailableChunks: available}

	switch req.Action {
	case "get_options":
		options, err := s.dict.GetDictionarySizeOptions()
		if err != nil {
			return s.sendError(req.ID, err.Error(), 500)
		}
		for _, o := range options {
			resp.Options = append(resp.Options, DictionarySizeOption{
				ChunkCount: o.ChunkCount,
				WordCount:  o.WordCount,
				SizeLabel:  o.SizeLabel,
			})
		}
	case "set_size":
		if req.ChunkCount == nil {
			return s.sendError(req.ID, "missing 'chunk_count' parameter", 400)
		}
		if err := s.dict.SetDictionarySize(*req.ChunkCount); err != nil {
			return s.sendError(req.ID, err.Error(), 400)
		}
		vocabulary := s.dict.Loader().Vocabulary()
		matcher, err := s.rebuild(vocabulary)
		if err != nil {
			log.Errorf("Rebuilding matcher: %v", err)
			return s.sendError(req.ID, err.Error(), 500)
		}
		s.matcher = matcher
		log.Debugf("Matcher rebuilt over %d words", len(vocabulary))
	}

	resp.CurrentChunks = s.dict.CurrentChunks()
	resp.Words = s.dict.Loader().GetStats().LoadedWords
	return s.send(resp)
}

// send encodes one frame and flushes it.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.out.Flush()
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(MatchError{ID: id, Error: message, Code: code})
}
