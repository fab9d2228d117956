package sse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderDirectResponseShape(t *testing.T) {
	body := "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"hi\"}]}}]}\n\n"
	r := NewReader(strings.NewReader(body))

	chunk, err := r.Next()
	require.NoError(t, err)
	require.Len(t, chunk.Candidates, 1)
	assert.Equal(t, "hi", chunk.Candidates[0].Content.Parts[0].Text)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderWrappedResponseShape(t *testing.T) {
	body := "data: {\"response\":{\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"hey\"}]}}]},\"usageMetadata\":{\"totalTokenCount\":9}}\n\n"
	r := NewReader(strings.NewReader(body))

	chunk, err := r.Next()
	require.NoError(t, err)
	require.Len(t, chunk.Candidates, 1)
	assert.Equal(t, "hey", chunk.Candidates[0].Content.Parts[0].Text)
	require.NotNil(t, chunk.UsageMetadata)
	assert.Equal(t, 9, chunk.UsageMetadata.TotalTokenCount)
}

func TestReaderUsageOnlyShape(t *testing.T) {
	body := "data: {\"usageMetadata\":{\"totalTokenCount\":42}}\n\n"
	r := NewReader(strings.NewReader(body))

	chunk, err := r.Next()
	require.NoError(t, err)
	assert.Empty(t, chunk.Candidates)
	require.NotNil(t, chunk.UsageMetadata)
	assert.Equal(t, 42, chunk.UsageMetadata.TotalTokenCount)
}

func TestReaderSkipsNonDataLinesAndDone(t *testing.T) {
	body := ": comment\n" +
		"event: ping\n" +
		"data: [DONE]\n" +
		"data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"ok\"}]}}]}\n\n"
	r := NewReader(strings.NewReader(body))

	chunk, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ok", chunk.Candidates[0].Content.Parts[0].Text)
}

func TestReaderSkipsUnparseableFrameAndReachesEOF(t *testing.T) {
	body := "data: not json at all\n\n"
	r := NewReader(strings.NewReader(body))

	_, err := r.Next()
	assert.Equal(t, io.EOF, err, "a malformed frame must be skipped, not end the stream with a decode error")
}

func TestReaderSkipsUnparseableFrameAndContinuesToNextGoodOne(t *testing.T) {
	body := "data: not json at all\n\n" +
		"data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"recovered\"}]}}]}\n\n"
	r := NewReader(strings.NewReader(body))

	chunk, err := r.Next()
	require.NoError(t, err)
	require.Len(t, chunk.Candidates, 1)
	assert.Equal(t, "recovered", chunk.Candidates[0].Content.Parts[0].Text)
}

func TestReaderEmptyBodyReturnsEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}
