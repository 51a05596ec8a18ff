// Package cli handles cmd line input and matches for DBG and testing the matcher
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordfix/internal/logger"
	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads queries line by line and prints the ranked matches.
type InputHandler struct {
	matcher      suggest.IMatcher
	maxQuery     int
	limit        int
	requestCount int
	noFilter     bool
	out          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(matcher suggest.IMatcher, maxQuery, limit int, noFilter bool, out io.Writer) *InputHandler {
	return &InputHandler{
		matcher:  matcher,
		maxQuery: maxQuery,
		limit:    limit,
		noFilter: noFilter,
		out:      logger.NewWithWriter(out, ""),
	}
}

// Start runs the loop until in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	h.out.Print("wordfix CLI [BETA]")
	h.out.Print("type a word and press Enter to see similar words (Ctrl+C to exit):")

	scanner := bufio.NewScanner(in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// Lookup validates query and returns its matches, best first, capped at the limit.
// A nil slice with a nil error means the query was filtered out.
func (h *InputHandler) Lookup(query string) ([]suggest.Match, error) {
	h.requestCount++
	if n := utf8.RuneCountInString(query); n > h.maxQuery {
		return nil, fmt.Errorf("query too long: %d > %d characters", n, h.maxQuery)
	}
	if !h.noFilter && !utils.IsValidInput(query) {
		return nil, nil
	}

	matches, err := h.matcher.Similar(query)
	if err != nil {
		return nil, err
	}
	return suggest.Limit(suggest.Sorted(matches), h.limit), nil
}

func (h *InputHandler) handleInput(query string) {
	start := time.Now()
	matches, err := h.Lookup(query)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s' (request %d)", elapsed, query, h.requestCount)

	if err != nil {
		h.out.Errorf("%v", err)
		return
	}
	if len(matches) == 0 {
		h.out.Warnf("No similar words found for '%s'", query)
		return
	}

	h.out.Printf("Found %d similar words for '%s':", len(matches), query)
	for i, m := range matches {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", m.Word)
		h.out.Printf("%2d. %-40s (conf: %.2f, dist: %d, freq: %8s)",
			i+1, clWord, m.Confidence, m.Distance, utils.FormatWithCommas(m.Frequency))
	}
}
