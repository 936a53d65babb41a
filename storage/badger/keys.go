package badger

import (
	"fmt"

	"github.com/veridoc/clausematch/core"
)

// Key prefixes for different data types
const (
	embeddingEntryPrefix = "embent"
	modelLabelKey        = "embmodel"
)

// makeEmbeddingEntryKey generates a key for an embedding entry by ID.
func makeEmbeddingEntryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingEntryPrefix, id))
}

// makeModelLabelKey generates the key holding the cache generation's model label.
func makeModelLabelKey() []byte {
	return []byte(modelLabelKey)
}
