package badger

import (
	"fmt"

	"github.com/poiesic/lectern/core"
)

// Key prefixes for different data types
const (
	answerRecordPrefix = "ansrec"
)

// makeAnswerKey generates a key for a cached answer by its content hash.
func makeAnswerKey(key core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", answerRecordPrefix, key))
}
