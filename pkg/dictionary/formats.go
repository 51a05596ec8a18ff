// Package dictionary turns word lists on disk into vocabulary snapshots
// (word -> frequency) for the matching engine.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
)

// ErrNoVocabulary is returned when a location holds no usable word list.
var ErrNoVocabulary = errors.New("no vocabulary found")

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // Chunked binary format
	FormatText               // Plain text format
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateBinaryFormat(filename)
	}
	return nil
}

func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkEntries {
		return fmt.Errorf("word count in %s: %d exceeds the %d ranks a chunk can hold", filename, wordCount, maxChunkEntries)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".bin":
		if err := ValidateFileFormat(filename, FormatChunk); err != nil {
			return FormatUnknown, err
		}
		return FormatChunk, nil
	case ".txt":
		if err := ValidateFileFormat(filename, FormatText); err != nil {
			return FormatUnknown, err
		}
		return FormatText, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// ReadText parses a word list: one "word [frequency]" per line, blank lines
// and lines starting with # ignored. A missing frequency counts as 1.
func ReadText(r io.Reader) (map[string]int, error) {
	words := make(map[string]int)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		freq := 1
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: invalid frequency %q", lineNo, fields[1])
			}
			freq = n
		}
		word := utils.NormalizeWord(fields[0])
		if prev, ok := words[word]; !ok || freq > prev {
			words[word] = freq
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LoadText reads a word list file.
func LoadText(filename string) (map[string]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()

	words, err := ReadText(file)
	if err != nil {
		return nil, fmt.Errorf("word list %s: %w", filename, err)
	}
	return words, nil
}

// LoadVocabulary loads a snapshot from path. A file is read by its format; a
// directory is read through its dict_*.bin chunks or, failing that, every
// .txt list in it. The returned Loader is non-nil only for chunk directories.
func LoadVocabulary(path string, maxWords, minFrequency int) (map[string]int, *Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dictionary path: %w", err)
	}

	if !info.IsDir() {
		words, err := loadFile(path)
		if err != nil {
			return nil, nil, err
		}
		return capVocabulary(filterFrequency(words, minFrequency), maxWords), nil, nil
	}

	loader := NewLoader(path, maxWords, minFrequency)
	if chunks, err := loader.GetAvailable(); err == nil && len(chunks) > 0 {
		if err := loader.LoadInitial(); err != nil {
			return nil, nil, err
		}
		return loader.Vocabulary(), loader, nil
	}

	lists, err := filepath.Glob(filepath.Join(path, "*.txt"))
	if err != nil {
		return nil, nil, err
	}
	if len(lists) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", ErrNoVocabulary, path)
	}
	merged := make(map[string]int)
	for _, list := range lists {
		words, err := LoadText(list)
		if err != nil {
			return nil, nil, err
		}
		for word, freq := range words {
			if prev, ok := merged[word]; !ok || freq > prev {
				merged[word] = freq
			}
		}
	}
	log.Debugf("Loaded %d words from %d text lists in %s", len(merged), len(lists), path)
	return capVocabulary(filterFrequency(merged, minFrequency), maxWords), nil, nil
}

func loadFile(path string) (map[string]int, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return LoadText(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadChunk(file)
}

func filterFrequency(words map[string]int, minFrequency int) map[string]int {
	if minFrequency <= 0 {
		return words
	}
	for word, freq := range words {
		if freq < minFrequency {
			delete(words, word)
		}
	}
	return words
}
