package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_ContainsBuildFields(t *testing.T) {
	assert.Contains(t, Info(), "glotian")
	assert.Contains(t, Info(), Version)
	assert.Contains(t, Info(), Commit)
}

func TestParsed(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v2.1.0"
	v := Parsed()
	assert.NotNil(t, v)
	assert.Equal(t, uint64(2), v.Major())
	assert.False(t, IsPrerelease())
	assert.False(t, IsDevBuild())

	Version = "2.2.0-rc.1"
	assert.True(t, IsPrerelease())

	Version = "dev"
	assert.Nil(t, Parsed())
	assert.True(t, IsDevBuild())
}

func TestCompare(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v2.1.0"
	assert.Equal(t, 1, Compare("2.0.0"))
	assert.Equal(t, 0, Compare("v2.1.0"))
	assert.Equal(t, -1, Compare("3.0.0"))

	// Dev builds compare as newest.
	Version = "dev"
	assert.Equal(t, 1, Compare("99.0.0"))
}
