// Package tokenizer counts BPE tokens using the o200k_base encoding.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "o200k_base"

var (
	once   sync.Once
	enc    *tiktoken.Tiktoken
	encErr error
)

// encoder returns the process-wide o200k_base encoder. Loading the encoding
// is expensive, so it happens once and is reused for every file.
func encoder() (*tiktoken.Tiktoken, error) {
	once.Do(func() {
		enc, encErr = tiktoken.GetEncoding(encodingName)
	})
	return enc, encErr
}

// Count returns the number of o200k_base tokens in text. Special token
// sequences appearing in file content are encoded rather than rejected.
func Count(text string) (int, error) {
	e, err := encoder()
	if err != nil {
		return 0, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}
	return len(e.Encode(text, []string{"all"}, nil)), nil
}
