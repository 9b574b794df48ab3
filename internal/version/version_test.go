package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortUsesLinkedVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", Short())
	assert.Contains(t, Info(), "chenai v1.2.3")
}

func TestInfoIncludesCommit(t *testing.T) {
	orig := CommitSHA
	t.Cleanup(func() { CommitSHA = orig })

	CommitSHA = "abc123"
	assert.Contains(t, Info(), "commit: abc123")
}
