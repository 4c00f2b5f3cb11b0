package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-parser/internal/bootstrap"
	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/services"
)

const defaultGuidanceDir = "./reference_docs"

// Loads ATS guidance PDFs into Qdrant so the ATS scorer can ground its
// suggestions. Usage: go run ./scripts [file.pdf ...]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer appLog.Sync()
	appLog.Info("🚀 Starting guidance ingestion...", map[string]interface{}{"collection": cfg.Guidance.Collection})

	if strings.TrimSpace(cfg.LLM.GeminiAPIKey) == "" {
		appLog.Error("❌ GEMINI_API_KEY is required to embed guidance documents", nil)
		os.Exit(1)
	}

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout)
	if err != nil {
		appLog.WithError(err).Error("❌ Failed to initialize Gemini", nil)
		os.Exit(1)
	}

	store, err := bootstrap.OpenGuidanceStore(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Error("❌ Failed to initialize Qdrant", nil)
		os.Exit(1)
	}
	defer store.Close()

	paths, err := guidancePaths(os.Args[1:])
	if err != nil {
		appLog.WithError(err).Error("❌ Failed to list guidance documents", nil)
		os.Exit(1)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	successCount := 0
	failCount := 0

	for _, path := range paths {
		docLog := appLog.WithFields(map[string]interface{}{"path": path})
		docLog.Info("📄 Processing", nil)

		text, err := pdfParser.ExtractText(path)
		if err != nil {
			docLog.WithError(err).Warn("❌ Failed to extract text", nil)
			failCount++
			continue
		}

		chunks := chunker.ChunkText(text, 1000, 200)
		if len(chunks) == 0 {
			docLog.Warn("⚠️  No text found, skipping", nil)
			failCount++
			continue
		}

		embeddings := make([][]float32, 0, len(chunks))
		for i, chunk := range chunks {
			embedding, err := gemini.GenerateEmbedding(ctx, chunk)
			if err != nil {
				docLog.WithError(err).Warn("❌ Failed to generate embedding", map[string]interface{}{"chunk": i + 1})
				break
			}
			embeddings = append(embeddings, embedding)
		}
		if len(embeddings) != len(chunks) {
			failCount++
			continue
		}

		source := filepath.Base(path)
		if err := store.DeleteSource(ctx, source); err != nil {
			docLog.WithError(err).Warn("❌ Failed to remove previous chunks", nil)
			failCount++
			continue
		}
		if err := store.UpsertChunks(ctx, source, services.DocTypeATSGuidance, chunks, embeddings); err != nil {
			docLog.WithError(err).Warn("❌ Failed to store chunks", nil)
			failCount++
			continue
		}

		docLog.Info("✅ Ingested", map[string]interface{}{"chunks": len(chunks), "characters": len(text)})
		successCount++
	}

	appLog.Info("📊 Ingestion summary", map[string]interface{}{
		"successful": successCount,
		"failed":     failCount,
	})

	if failCount > 0 {
		os.Exit(1)
	}
}

func guidancePaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	entries, err := os.ReadDir(defaultGuidanceDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && services.IsPDFName(e.Name()) {
			paths = append(paths, filepath.Join(defaultGuidanceDir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
