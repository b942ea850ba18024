package vertex

import (
	"context"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("ok"),
				genai.Blob{MIMEType: "image/png", Data: []byte("png")},
			}},
		}},
	}
	parts := convertParts(resp)
	require.Len(t, parts, 2)
	assert.Equal(t, "ok", parts[0].Text)
	assert.Equal(t, []byte("png"), parts[1].Data)

	assert.Nil(t, convertParts(&genai.GenerateContentResponse{}))
}

func TestDefaultsAndMissingProject(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultModel, c.cfg.Model)
	assert.Equal(t, DefaultLocation, c.cfg.Location)

	_, err := c.GenerateParts(context.Background(), "botella")
	assert.ErrorContains(t, err, "GOOGLE_PROJECT_ID")
	assert.NoError(t, c.Close())
}

func TestCloseBeforeDialStopsLaterCalls(t *testing.T) {
	c := New(Config{ProjectID: "reciclaje-dev"})
	require.NoError(t, c.Close())

	_, err := c.DescribeImage(context.Background(), "clasifica", []byte{0xff, 0xd8}, "image/jpeg")
	assert.ErrorIs(t, err, errClosed)
}
