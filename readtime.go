package portfolio

import (
	"fmt"
	"strings"
)

const wordsPerMinute = 200

// EstimateReadTime computes the display read time for a post's content.
// Every block type counts identically; a block's word count is its text
// split on single spaces, unnormalized, so consecutive spaces inflate the
// count. The total is divided by 200 words per minute and rounded up.
// A post with no words reports "0 min".
func EstimateReadTime(blocks []ContentBlock) string {
	words := 0
	for _, b := range blocks {
		if b.Text == "" {
			continue
		}
		words += len(strings.Split(b.Text, " "))
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min", minutes)
}
