package gap_analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordRegexpCacheBounded(t *testing.T) {
	t.Parallel()
	for i := 0; i < 2*regexpCacheSize+10; i++ {
		kw := fmt.Sprintf("retired keyword %d", i)
		assert.True(t, keywordRe(kw).MatchString("see "+kw+" here"))
		require.NotNil(t, sentenceRe(kw).FindStringIndex("Line one. Mentions "+kw+" in passing."))
	}
	assert.LessOrEqual(t, keywordCache.Len(), regexpCacheSize)
	assert.LessOrEqual(t, sentenceCache.Len(), regexpCacheSize)
}

func TestContainsKeyword(t *testing.T) {
	t.Parallel()
	assert.True(t, containsKeyword([]string{"", "Land Acquisition"}, "status of LAND ACQUISITION is pending"))
	assert.False(t, containsKeyword([]string{"acquisition"}, "reacquisition"))
}
