package ddl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEREEscapesBracketClass(t *testing.T) {
	assert.Equal(t, `[\]\[]abc`, normalizeERE("[][]abc"))
	assert.Equal(t, "abc", normalizeERE("abc"))
}

func TestCompileConstructAnchorsAndMatches(t *testing.T) {
	re, err := compileConstruct("[A-Za-z_][A-Za-z0-9_]*")
	require.NoError(t, err)
	assert.True(t, re.MatchString("atom_1"))
	assert.False(t, re.MatchString("1atom"))
	assert.False(t, re.MatchString("atom_1 trailing"))
}

func TestCompileConstructWithBracketClass(t *testing.T) {
	re, err := compileConstruct("[][A-Z]+")
	require.NoError(t, err)
	assert.True(t, re.MatchString("]["))
	assert.True(t, re.MatchString("ABC"))
}
