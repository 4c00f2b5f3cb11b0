package services

import (
	"context"
	"fmt"
)

// DocTypeATSGuidance tags guidance chunks in the vector store.
const DocTypeATSGuidance = "ats_guidance"

// GuidanceRetriever finds reference material relevant to a resume.
type GuidanceRetriever interface {
	Retrieve(ctx context.Context, resumeText string) ([]SearchResult, error)
}

type guidanceRetriever struct {
	embedder Embedder
	store    QdrantService
	topK     int
	// queryChars bounds how much of the resume is embedded.
	queryChars int
}

func NewGuidanceRetriever(embedder Embedder, store QdrantService, topK int) GuidanceRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &guidanceRetriever{
		embedder:   embedder,
		store:      store,
		topK:       topK,
		queryChars: 4000,
	}
}

func (g *guidanceRetriever) Retrieve(ctx context.Context, resumeText string) ([]SearchResult, error) {
	embedding, err := g.embedder.GenerateEmbedding(ctx, truncateRunes(resumeText, g.queryChars))
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := g.store.SearchSimilar(ctx, embedding, DocTypeATSGuidance, g.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search ATS guidance: %w", err)
	}
	return results, nil
}
