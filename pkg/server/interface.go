/*
Package server implements msgpack IPC for fuzzy word matching.

The server reads a stream of msgpack maps from stdin and writes one msgpack map per
request to stdout. Requests are processed synchronously with timing info included in
responses.

# IPC

The first frame written is a ready signal:

	{"status": "ready"}

Match requests carry an id, the query and optional depth and limit:

	{"id": "req_001", "q": "hullo", "d": 3, "l": 10}

The server responds with matches ranked by confidence:

	{"id": "req_001", "s": [{"w": "hello", "c": 0.67, "d": 1, "r": 1}], "n": 1, "t": 145}

A depth above the configured maximum is rejected; a lower one narrows the search
result and rescales confidence to that depth. Time is reported in microseconds.

Requests with an action field manage the server instead:

	{"id": "s_001", "action": "stats"}
	{"id": "d_001", "action": "set_size", "chunk_count": 5}
	{"id": "d_002", "action": "get_options"}
	{"id": "d_003", "action": "get_info"}
	{"id": "h_001", "action": "health"}

Dictionary actions need the server to be started from a chunk directory. Failures come
back as {"id": ..., "e": message, "c": code} where code follows HTTP status numbers.
*/
package server

// Request is the union of every message a client sends.
type Request struct {
	ID         string `msgpack:"id"`
	Action     string `msgpack:"action,omitempty"`
	Query      string `msgpack:"q,omitempty"`
	Depth      int    `msgpack:"d,omitempty"`
	Limit      int    `msgpack:"l,omitempty"`
	ChunkCount *int   `msgpack:"chunk_count,omitempty"`
}

// MatchSuggestion is one similar word.
type MatchSuggestion struct {
	Word       string  `msgpack:"w"`
	Confidence float64 `msgpack:"c"`
	Distance   int     `msgpack:"d"`
	Rank       uint16  `msgpack:"r"`
}

// MatchResponse answers a match request.
type MatchResponse struct {
	ID          string            `msgpack:"id"`
	Suggestions []MatchSuggestion `msgpack:"s"`
	Count       int               `msgpack:"n"`
	TimeTaken   int64             `msgpack:"t"`
}

// StatsResponse reports engine and cache statistics.
type StatsResponse struct {
	ID       string         `msgpack:"id"`
	Status   string         `msgpack:"status"`
	Strategy string         `msgpack:"strategy"`
	Vertices int            `msgpack:"vertices,omitempty"`
	Edges    int            `msgpack:"edges,omitempty"`
	Paths    int            `msgpack:"paths,omitempty"`
	Cache    map[string]int `msgpack:"cache,omitempty"`
}

// DictionarySizeOption - dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"chunk_count"`
	WordCount  int    `msgpack:"word_count"`
	SizeLabel  string `msgpack:"size_label"`
}

// DictionaryResponse - dictionary operation response
type DictionaryResponse struct {
	ID              string                 `msgpack:"id"`
	Status          string                 `msgpack:"status"`
	CurrentChunks   int                    `msgpack:"current_chunks,omitempty"`
	AvailableChunks int                    `msgpack:"available_chunks,omitempty"`
	Words           int                    `msgpack:"words,omitempty"`
	Options         []DictionarySizeOption `msgpack:"options,omitempty"`
}

// StatusResponse carries a bare status, used for ready and health frames.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// MatchError holds basic error information for failed requests
type MatchError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
