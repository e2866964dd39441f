// Package embedding generates vectors for section content and search
// queries. Vectors power the optional semantic blend in relevance scoring
// and the technical-documentation vector search.
package embedding

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// Client wraps the OpenAI client used for embedding generation.
type Client struct {
	client *openai.Client
}

// NewClient creates the embedding client. It requires OPENAI_API_KEY in the
// environment; when the key is absent callers leave semantic search disabled
// and ranking falls back to pure keyword scoring.
func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	// openai-go reads OPENAI_API_KEY from the environment on its own.
	client := openai.NewClient()

	return &Client{client: &client}, nil
}
