package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "bare object",
			input: `{"score": 90}`,
			want:  `{"score": 90}`,
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"score\": 72, \"syntax_errors\": []}\n```",
			want:  `{"score": 72, "syntax_errors": []}`,
		},
		{
			name:  "surrounding prose",
			input: "Here is your review:\n{\"score\": 55}\nHope this helps!",
			want:  `{"score": 55}`,
		},
		{
			name:  "nested braces inside strings",
			input: `{"logic_flaws": ["if (x) { return }"], "score": 40}`,
			want:  `{"logic_flaws": ["if (x) { return }"], "score": 40}`,
		},
		{
			name:    "no braces",
			input:   "I cannot review this code.",
			wantErr: ErrNoJSONObject,
		},
		{
			name:    "closing brace before opening",
			input:   "} oops {",
			wantErr: ErrNoJSONObject,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrNoJSONObject,
		},
		{
			name:    "two objects",
			input:   `{"score": 10} {"score": 20}`,
			wantErr: ErrAmbiguousJSON,
		},
		{
			name:    "truncated object",
			input:   `{"score": 10, "syntax_errors": ["missing }`,
			wantErr: ErrMalformedJSON,
		},
		{
			name:    "prose between objects",
			input:   `{"score": 10} and also {"score": 20}`,
			wantErr: ErrMalformedJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.True(t, json.Valid(got))
		})
	}
}
