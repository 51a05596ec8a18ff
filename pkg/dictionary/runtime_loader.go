package dictionary

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader manages dynamic loading/unloading of dictionary chunks during runtime
type RuntimeLoader struct {
	chunkLoader  *Loader
	targetChunks int
	mu           sync.Mutex
}

// NewRuntimeLoader creates a new runtime loader
func NewRuntimeLoader(chunkLoader *Loader) *RuntimeLoader {
	return &RuntimeLoader{
		chunkLoader:  chunkLoader,
		targetChunks: len(chunkLoader.GetLoadedIDs()),
	}
}

// Loader returns the wrapped chunk loader.
func (rl *RuntimeLoader) Loader() *Loader {
	return rl.chunkLoader
}

// GetAvailableChunkCount returns the total number of available chunk files
func (rl *RuntimeLoader) GetAvailableChunkCount() (int, error) {
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// CurrentChunks returns how many chunks are loaded.
func (rl *RuntimeLoader) CurrentChunks() int {
	return len(rl.chunkLoader.GetLoadedIDs())
}

// SetDictionarySize loads or evicts chunks until targetChunks are in memory,
// lowest ids first. The caller rebuilds its matcher from Vocabulary afterwards.
func (rl *RuntimeLoader) SetDictionarySize(targetChunks int) error {
	if targetChunks < 1 {
		return fmt.Errorf("minimum dictionary size is 1 chunk")
	}
	available, err := rl.GetAvailableChunkCount()
	if err != nil {
		return err
	}
	if targetChunks > available {
		return fmt.Errorf("requested %d chunks but only %d are available", targetChunks, available)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	currentChunks := rl.CurrentChunks()
	log.Debugf("Setting dictionary size: current=%d chunks, target=%d chunks", currentChunks, targetChunks)

	if targetChunks > currentChunks {
		if err := rl.loadAdditionalChunks(targetChunks - currentChunks); err != nil {
			return err
		}
	} else if targetChunks < currentChunks {
		rl.unloadExcessChunks(currentChunks - targetChunks)
	}
	rl.targetChunks = targetChunks
	return nil
}

// loadAdditionalChunks loads the next unloaded chunks by id.
func (rl *RuntimeLoader) loadAdditionalChunks(additionalChunks int) error {
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return err
	}
	loaded := make(map[int]bool)
	for _, id := range rl.chunkLoader.GetLoadedIDs() {
		loaded[id] = true
	}

	loadedCount := 0
	for _, chunk := range chunks {
		if loadedCount >= additionalChunks {
			break
		}
		if loaded[chunk.ID] {
			continue
		}
		if err := rl.chunkLoader.Load(chunk.ID); err != nil {
			log.Warnf("Failed to load chunk %d: %v", chunk.ID, err)
			continue
		}
		loadedCount++
	}
	if loadedCount < additionalChunks {
		return fmt.Errorf("loaded %d of %d requested chunks", loadedCount, additionalChunks)
	}
	log.Debugf("Loaded %d additional chunks", loadedCount)
	return nil
}

// unloadExcessChunks unloads the specified number of chunks from the highest numbers first
func (rl *RuntimeLoader) unloadExcessChunks(excessChunks int) {
	loadedChunkIDs := rl.chunkLoader.GetLoadedIDs()
	sort.Sort(sort.Reverse(sort.IntSlice(loadedChunkIDs)))

	unloadedCount := 0
	for _, chunkID := range loadedChunkIDs {
		if unloadedCount >= excessChunks {
			break
		}
		if err := rl.chunkLoader.Evict(chunkID); err != nil {
			log.Warnf("Failed to unload chunk %d: %v", chunkID, err)
			continue
		}
		unloadedCount++
	}
	log.Debugf("Unloaded %d chunks", unloadedCount)
}

// GetDictionarySizeOptions returns, per chunk count, how many words it covers.
func (rl *RuntimeLoader) GetDictionarySizeOptions() ([]DictionarySizeOption, error) {
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return nil, err
	}

	options := make([]DictionarySizeOption, 0, len(chunks))
	totalWords := 0
	for i, chunk := range chunks {
		totalWords += chunk.WordCount
		options = append(options, DictionarySizeOption{
			ChunkCount: i + 1,
			WordCount:  totalWords,
			SizeLabel:  fmt.Sprintf("%dK words", totalWords/1000),
		})
	}
	return options, nil
}

// DictionarySizeOption represents a dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"chunk_count"`
	WordCount  int    `msgpack:"word_count"`
	SizeLabel  string `msgpack:"size_label"`
}
