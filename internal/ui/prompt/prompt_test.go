package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact match", "aws.region\n", true},
		{"surrounding whitespace", "  aws.region \r\n", true},
		{"no trailing newline", "aws.region", true},
		{"mismatch", "aws\n", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewStandardPrompter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm("Delete key aws.region?", "aws.region")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Delete key aws.region?")
			assert.Contains(t, out.String(), "type 'aws.region'")
		})
	}
}

func TestConfirm_SequentialPromptsShareInput(t *testing.T) {
	p := NewStandardPrompter(strings.NewReader("first\nsecond\n"), &bytes.Buffer{})

	ok, err := p.Confirm("one", "first")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("two", "second")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_Errors(t *testing.T) {
	_, err := NewStandardPrompter(strings.NewReader("x\n"), &bytes.Buffer{}).Confirm("m", "")
	assert.ErrorIs(t, err, ErrEmptyConfirmation)

	_, err = NewStandardPrompter(failingReader{}, &bytes.Buffer{}).Confirm("m", "x")
	assert.ErrorContains(t, err, "tty closed")
}

func TestAutoConfirm(t *testing.T) {
	ok, err := AutoConfirm{}.Confirm("anything", "")
	require.NoError(t, err)
	assert.True(t, ok)
}
