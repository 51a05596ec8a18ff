package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	// maxRankScore turns a chunk rank into a score: rank 1 becomes 65535.
	maxRankScore = 65536
	// maxChunkEntries bounds the header count; ranks are uint16.
	maxChunkEntries = utils.MaxRank
)

// Loader reads dict_NNNN.bin chunks from a directory and hands out vocabulary
// snapshots. Chunks can be loaded and evicted at runtime; a snapshot taken
// earlier is never affected.
type Loader struct {
	dirPath      string
	maxWords     int
	minFrequency int
	chunkWords   map[int]map[string]int
	mu           sync.RWMutex
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loaded chunks
type LoaderStats struct {
	LoadedWords     int
	LoadedChunks    int
	AvailableChunks int
	MaxFrequency    int
}

// NewLoader creates a chunk loader for dirPath. maxWords caps the snapshot
// size (0 means no cap); entries scoring below minFrequency are skipped.
func NewLoader(dirPath string, maxWords, minFrequency int) *Loader {
	return &Loader{
		dirPath:      dirPath,
		maxWords:     maxWords,
		minFrequency: minFrequency,
		chunkWords:   make(map[int]map[string]int),
	}
}

// ChunkFilename returns the file name used for chunk id.
func ChunkFilename(id int) string {
	return fmt.Sprintf("dict_%04d.bin", id)
}

// GetAvailable scans the directory for chunk files, ordered by id.
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(l.dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping %s: not a numbered chunk", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// LoadInitial loads chunks in id order until maxWords entries are covered,
// or all of them when maxWords is 0.
func (l *Loader) LoadInitial() error {
	chunks, err := l.GetAvailable()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", l.dirPath)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	covered := 0
	for _, chunk := range chunks {
		if l.maxWords > 0 && covered >= l.maxWords {
			break
		}
		if err := l.Load(chunk.ID); err != nil {
			return err
		}
		covered += chunk.WordCount
	}
	return nil
}

// Load reads chunk id into memory. Loading a loaded chunk is a no-op.
func (l *Loader) Load(id int) error {
	l.mu.RLock()
	_, loaded := l.chunkWords[id]
	l.mu.RUnlock()
	if loaded {
		return nil
	}

	filename := filepath.Join(l.dirPath, ChunkFilename(id))
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	words, err := ReadChunk(file)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", filename, err)
	}

	l.mu.Lock()
	l.chunkWords[id] = words
	l.mu.Unlock()
	log.Debugf("Chunk %d loaded: %d words", id, len(words))
	return nil
}

// Evict drops chunk id from memory.
func (l *Loader) Evict(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, loaded := l.chunkWords[id]; !loaded {
		return fmt.Errorf("chunk %d is not loaded", id)
	}
	delete(l.chunkWords, id)
	log.Debugf("Evicted chunk %d", id)
	return nil
}

// GetLoadedIDs returns the loaded chunk ids in ascending order.
func (l *Loader) GetLoadedIDs() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int, 0, len(l.chunkWords))
	for id := range l.chunkWords {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GetStats returns current loading statistics
func (l *Loader) GetStats() LoaderStats {
	chunks, _ := l.GetAvailable()

	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := LoaderStats{
		LoadedChunks:    len(l.chunkWords),
		AvailableChunks: len(chunks),
	}
	for _, words := range l.chunkWords {
		stats.LoadedWords += len(words)
		for _, freq := range words {
			stats.MaxFrequency = max(stats.MaxFrequency, freq)
		}
	}
	return stats
}

// Vocabulary returns a snapshot of the loaded words, highest scores first when
// maxWords trims it. A word found in several chunks keeps its best score.
func (l *Loader) Vocabulary() map[string]int {
	l.mu.RLock()
	merged := make(map[string]int)
	for _, words := range l.chunkWords {
		for word, freq := range words {
			if freq < l.minFrequency {
				continue
			}
			if prev, ok := merged[word]; !ok || freq > prev {
				merged[word] = freq
			}
		}
	}
	l.mu.RUnlock()

	return capVocabulary(merged, l.maxWords)
}

// capVocabulary keeps the maxWords best scoring entries, ties broken by word.
func capVocabulary(words map[string]int, maxWords int) map[string]int {
	if maxWords <= 0 || len(words) <= maxWords {
		return words
	}
	ranked := make([]string, 0, len(words))
	for word := range words {
		ranked = append(ranked, word)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if words[ranked[i]] != words[ranked[j]] {
			return words[ranked[i]] > words[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	capped := make(map[string]int, maxWords)
	for _, word := range ranked[:maxWords] {
		capped[word] = words[word]
	}
	return capped
}

// ReadChunk decodes one chunk: an int32 entry count, then per entry a uint16
// byte length, the UTF-8 word and a uint16 rank.
func ReadChunk(r io.Reader) (map[string]int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkEntries {
		return nil, fmt.Errorf("invalid word count %d (want 0..%d)", totalEntries, maxChunkEntries)
	}

	words := make(map[string]int, totalEntries)
	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d entries", count, totalEntries)
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}

		word := utils.NormalizeWord(string(wordBytes))
		if strings.TrimSpace(word) == "" {
			continue
		}
		words[word] = maxRankScore - int(rank)
	}
	return words, nil
}

// WriteChunk encodes words, already in rank order, as one chunk.
func WriteChunk(w io.Writer, words []string) error {
	ranks, err := utils.RankList(len(words))
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	writer := bufio.NewWriter(w)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > 0xFFFF {
			return fmt.Errorf("word %q too long for chunk format", word[:16])
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := writer.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(writer, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	return writer.Flush()
}
