package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/internal/domain/converse"
	"github.com/yanqian/content-digest/internal/domain/pipeline"
	"github.com/yanqian/content-digest/internal/domain/summarizer"
	"github.com/yanqian/content-digest/internal/domain/trust"
	"github.com/yanqian/content-digest/internal/infra/config"
	"github.com/yanqian/content-digest/internal/infra/extract"
	"github.com/yanqian/content-digest/internal/infra/llm/chatgpt"
	"github.com/yanqian/content-digest/internal/infra/llm/summarybackend"
	"github.com/yanqian/content-digest/internal/infra/summarycache"
	"github.com/yanqian/content-digest/internal/infra/youtube"
)

// ServiceSet builds the domain services shared by the HTTP app and the CLI.
var ServiceSet = wire.NewSet(
	ProvideChatGPTClient,
	ProvideSummaryBackend,
	ProvideRemoteSummarizer,
	ProvideVideoCatalog,
	ProvideExtractors,
	ProvideResultCache,
	ProvidePipelineConfig,
	ProvideTrustConfig,
	ProvideTrustedSources,
	ProvideConverseConfig,
	pipeline.NewService,
	trust.NewService,
	converse.NewService,
	NewServices,
	wire.Bind(new(trust.ChatClient), new(*chatgpt.Client)),
	wire.Bind(new(converse.ChatClient), new(*chatgpt.Client)),
)

// Services groups the three entry points of the core.
type Services struct {
	Pipeline pipeline.Service
	Trust    trust.Service
	Chat     converse.Service
}

// NewServices is a wire provider.
func NewServices(p pipeline.Service, t trust.Service, c converse.Service) *Services {
	return &Services{Pipeline: p, Trust: t, Chat: c}
}

// ProvideChatGPTClient returns a nil client when no API key is configured.
// The nil client fails every call, which routes summaries to the extractive
// strategy and chat to its unavailable reply.
func ProvideChatGPTClient(cfg *config.Config, logger *slog.Logger) (*chatgpt.Client, error) {
	if !cfg.RemoteEnabled() {
		logger.Warn("llm api key not set, remote features disabled")
		return nil, nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
	if err != nil {
		return nil, err
	}
	client.WarmTokenizer()
	return client, nil
}

func ProvideSummaryBackend(cfg *config.Config, client *chatgpt.Client) *summarybackend.Backend {
	return summarybackend.New(summarybackend.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Prompt:      cfg.Pipeline.SummaryPrompt,
	}, client)
}

// ProvideRemoteSummarizer returns nil when the chat client is unavailable.
func ProvideRemoteSummarizer(cfg *config.Config, backend *summarybackend.Backend, client *chatgpt.Client, logger *slog.Logger) *summarizer.Remote {
	if client == nil {
		return nil
	}
	return summarizer.NewRemote(summarizer.RemoteConfig{
		MaxWords:       cfg.Pipeline.MaxWords,
		MaxDepth:       cfg.Pipeline.MaxDepth,
		CallTimeout:    cfg.Pipeline.CallTimeout,
		CallsPerSecond: cfg.Pipeline.CallsPerSecond,
	}, backend, logger)
}

// ProvideVideoCatalog returns a nil catalog when no API key is configured.
func ProvideVideoCatalog(cfg *config.Config, logger *slog.Logger) content.VideoCatalog {
	if strings.TrimSpace(cfg.Video.APIKey) == "" {
		logger.Warn("video api key not set, video lookups disabled")
		return nil
	}
	client, err := youtube.NewClient(context.Background(), youtube.Config{
		APIKey:   cfg.Video.APIKey,
		Endpoint: cfg.Video.Endpoint,
		Timeout:  cfg.Video.Timeout,
	})
	if err != nil {
		logger.Error("failed to create video catalog client, video lookups disabled", "error", err)
		return nil
	}
	return client
}

func ProvideExtractors(cfg *config.Config, catalog content.VideoCatalog, logger *slog.Logger) pipeline.Extractors {
	return pipeline.Extractors{
		PlainText: extract.NewPlainText(),
		WebPage: extract.NewWebPage(extract.WebPageConfig{
			Timeout:       cfg.Web.Timeout,
			MaxBytes:      cfg.Web.MaxBytes,
			UserAgent:     cfg.Web.UserAgent,
			RespectRobots: cfg.Web.RespectRobots,
		}, logger),
		Document: extract.NewDocument(cfg.Document.MaxBytes),
		Video:    extract.NewVideo(catalog, logger),
	}
}

// ProvideResultCache prefers valkey when configured and reachable, and falls
// back to process memory otherwise.
func ProvideResultCache(cfg *config.Config, logger *slog.Logger) (pipeline.ResultCache, func()) {
	noop := func() {}
	if !cfg.Cache.Enabled {
		return nil, noop
	}
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return summarycache.NewMemoryCache(cfg.Cache.TTL), noop
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return summarycache.NewMemoryCache(cfg.Cache.TTL), noop
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("summary valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
			cache := summarycache.NewValkeyCache(client, cfg.Cache.Valkey.Prefix)
			return cache, cache.Close
		}
	}
	return summarycache.NewMemoryCache(cfg.Cache.TTL), noop
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func ProvidePipelineConfig(cfg *config.Config) pipeline.Config {
	return pipeline.Config{
		Strategy: cfg.Pipeline.Strategy,
		CacheTTL: cfg.Cache.TTL,
	}
}

func ProvideTrustConfig(cfg *config.Config) trust.Config {
	return trust.Config{
		Mode:        cfg.Trust.Mode,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Prompt:      cfg.Trust.Prompt,
		Timeout:     cfg.Trust.Timeout,
	}
}

func ProvideTrustedSources(cfg *config.Config) *trust.TrustedSources {
	return trust.NewTrustedSources(cfg.Trust.ExtraSources...)
}

func ProvideConverseConfig(cfg *config.Config) converse.Config {
	return converse.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		SystemPrompt: cfg.Chat.SystemPrompt,
		Timeout:      cfg.Chat.Timeout,
	}
}
