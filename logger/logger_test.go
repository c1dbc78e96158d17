package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedLogger(t *testing.T) {
	l := L()
	assert.Same(t, l, L(), "accessor must hand out the same logger")

	// Leveled events must be callable straight off the accessor.
	L().Debug().Str("k", "v").Msg("debug event")
	L().Info().Msg("info event")
}
