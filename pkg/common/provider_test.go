package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	assert.Equal(t, AWS, ParseProvider(" aws "))
	assert.Equal(t, GCP, ParseProvider("Gcp"))
	assert.Equal(t, Provider("AZURE"), ParseProvider("azure"))
	assert.Equal(t, "gcp", ParseProvider("GCP").Key())
}
