package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsGarbage(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Extract(context.Background(), []byte("not a pdf at all"))
	assert.Error(t, err)

	// a plausible header with a truncated body still fails
	_, err = e.Extract(context.Background(), []byte("%PDF-1.7\n"))
	assert.Error(t, err)
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	e := NewPDFExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("%PDF-1.7\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tabs and runs", in: "Jane\t\tDoe   Engineer", want: "Jane Doe Engineer"},
		{name: "non-breaking spaces", in: "Jane\u00A0\u00A0Doe", want: "Jane Doe"},
		{name: "newline runs survive as one", in: "Experience\n\n\nEducation", want: "Experience\nEducation"},
		{name: "surrounding whitespace trimmed", in: "  \n padded \n ", want: "padded"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeWhitespace(tt.in))
		})
	}
}
