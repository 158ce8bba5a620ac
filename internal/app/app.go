package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookchat/internal/config"
	"bookchat/internal/domain"
	"bookchat/internal/embedding/openai"
	"bookchat/internal/llm/gemini"
	llmopenai "bookchat/internal/llm/openai"
	"bookchat/internal/service"
	"bookchat/internal/vectorstore"
	"bookchat/internal/vectorstore/memory"
	"bookchat/internal/vectorstore/pinecone"
	"bookchat/internal/vectorstore/qdrant"
)

// App holds the assembled book service and the resources it owns.
type App struct {
	Service *service.BookService
	closers []func() error
}

// Close releases collaborator connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Build assembles the collaborators selected in cfg into a BookService.
func Build(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{}

	emb, embTimeout, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	st, idxTimeout, dim, err := newStorage(cfg.VectorStore)
	if err != nil {
		return nil, err
	}

	var comp domain.Completer
	var compTimeout time.Duration
	switch cfg.LLM.Type {
	case "openai":
		if cfg.LLM.OpenAI == nil {
			return nil, errors.New("openai llm config missing")
		}
		compTimeout = seconds(cfg.LLM.OpenAI.TimeoutSecs)
		c, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:   cfg.LLM.OpenAI.BaseURL,
			APIKeyEnv: cfg.LLM.OpenAI.APIKeyEnv,
			Model:     cfg.LLM.OpenAI.Model,
			Timeout:   compTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai llm init failed: %w", err)
		}
		comp = c
	case "gemini":
		if cfg.LLM.Gemini == nil {
			return nil, errors.New("gemini llm config missing")
		}
		compTimeout = seconds(cfg.LLM.Gemini.TimeoutSecs)
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKeyEnv:   cfg.LLM.Gemini.APIKeyEnv,
			Model:       cfg.LLM.Gemini.Model,
			Temperature: cfg.LLM.Gemini.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini llm init failed: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		comp = c
	default:
		return nil, fmt.Errorf("unknown llm: %s", cfg.LLM.Type)
	}

	a.Service = service.NewBookService(emb, st, comp, service.Options{
		EmbedTimeout:    embTimeout,
		IndexTimeout:    idxTimeout,
		CompleteTimeout: compTimeout,
		Dimension:       dim,
		MaxPromptChars:  cfg.LLM.MaxPromptChars,
	}, logger)

	logger.Info("Book service ready",
		zap.String("embedder", cfg.Embedder.Type),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.String("llm", cfg.LLM.Type),
		zap.Int("dimension", dim),
	)
	return a, nil
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, time.Duration, error) {
	switch cfg.Type {
	case "openai":
		if cfg.OpenAI == nil {
			return nil, 0, errors.New("openai embedder config missing")
		}
		timeout := seconds(cfg.OpenAI.TimeoutSecs)
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, timeout, nil
	default:
		return nil, 0, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// newStorage also reports the index dimension; for the memory store it is
// taken from the seed file when the config leaves it unset.
func newStorage(cfg config.VectorStoreConfig) (vectorstore.Storage, time.Duration, int, error) {
	switch cfg.Type {
	case "pinecone":
		if cfg.Pinecone == nil {
			return nil, 0, 0, errors.New("pinecone config missing")
		}
		timeout := seconds(cfg.Pinecone.TimeoutSecs)
		st, err := pinecone.NewStorage(pinecone.Config{
			Host:       cfg.Pinecone.Host,
			APIKeyEnv:  cfg.Pinecone.APIKeyEnv,
			Namespace:  cfg.Pinecone.Namespace,
			APIVersion: cfg.Pinecone.APIVersion,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, 0, 0, fmt.Errorf("pinecone init failed: %w", err)
		}
		return st, timeout, cfg.Dimension, nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, 0, 0, errors.New("qdrant config missing")
		}
		timeout := seconds(cfg.Qdrant.TimeoutSecs)
		st := qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    timeout,
		})
		return st, timeout, cfg.Dimension, nil
	case "memory":
		if cfg.Memory == nil {
			return nil, 0, 0, errors.New("memory index config missing")
		}
		st, err := memory.LoadFile(cfg.Memory.Path)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("memory index init failed: %w", err)
		}
		dim := cfg.Dimension
		if dim == 0 {
			dim = st.Dimension()
		}
		return st, 0, dim, nil
	default:
		return nil, 0, 0, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
