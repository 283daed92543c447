package fraud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
)

func TestFormatCaseID(t *testing.T) {
	assert.Equal(t, "a00001", fraud.FormatCaseID("a", 1))
	assert.Equal(t, "f00042", fraud.FormatCaseID("f", 42))
	assert.Equal(t, "z99999", fraud.FormatCaseID("z", fraud.MaxCaseValue))
}

func TestParseCaseID(t *testing.T) {
	code, value, err := fraud.ParseCaseID("c01234")
	require.NoError(t, err)
	assert.Equal(t, "c", code)
	assert.Equal(t, 1234, value)
}

func TestParseCaseID_Invalidos(t *testing.T) {
	for _, id := range []string{"", "a1", "a000001", "-00001", "a+0001", "a00000", "aabcde"} {
		_, _, err := fraud.ParseCaseID(id)
		assert.Error(t, err, "debe rechazar %q", id)
	}
}

func TestValidCode(t *testing.T) {
	assert.True(t, fraud.ValidCode("a"))
	assert.True(t, fraud.ValidCode("Z"))
	assert.True(t, fraud.ValidCode("7"))
	assert.False(t, fraud.ValidCode(""))
	assert.False(t, fraud.ValidCode("ab"))
	assert.False(t, fraud.ValidCode("%"))
	assert.False(t, fraud.ValidCode("刷"))
}
