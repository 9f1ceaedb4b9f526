package translation

import (
	"context"
	"fmt"

	"bilingual-chat-demo/backend/pkg/cache"
	"bilingual-chat-demo/backend/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_requests_total",
		Help: "Translation requests by outcome (success or soft_fail).",
	}, []string{"outcome"})

	detectRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_detect_requests_total",
		Help: "Language detection requests by outcome.",
	}, []string{"outcome"})
)

const languagesCacheKey = "translation:languages"

// Provider is the remote-service surface the orchestrator composes. *Client
// implements it; tests substitute fakes.
type Provider interface {
	Detect(ctx context.Context, text string) string
	Translate(ctx context.Context, text, target, source string) (TranslateReply, error)
	Languages(ctx context.Context) map[string]string
}

// Result is what callers of TranslateMessage receive. Success=false is a soft
// failure: TranslatedText still carries the original input so the caller
// always has something to display.
type Result struct {
	Success          bool     `json:"success"`
	TranslatedText   string   `json:"translatedText"`
	DetectedLanguage string   `json:"detectedLanguage,omitempty"`
	Confidence       float64  `json:"confidence,omitempty"`
	Alternatives     []string `json:"alternatives,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// DetectResult is the outcome of a standalone detection request
type DetectResult struct {
	Success  bool   `json:"success"`
	Language string `json:"language"`
}

// Service is the single entry point for the translation pipeline. It chains
// detection (remote with heuristic fallback) and translation (remote with
// source-language fallback) and guarantees a non-panicking, always-usable
// result under every failure mode.
type Service struct {
	provider Provider
	cache    *cache.Cache
	log      *logger.Logger
}

// NewService creates the translation orchestrator. The cache is optional and
// only ever holds the supported-languages listing; translation results are
// recomputed on every request.
func NewService(provider Provider, languageCache *cache.Cache, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Service{
		provider: provider,
		cache:    languageCache,
		log:      log,
	}
}

// TranslateMessage translates text into targetLanguage. A sourceLanguage of
// "auto" (or empty) triggers detection first. The returned Result is always
// usable; a panic anywhere in the chain degrades to a soft failure carrying
// the original text.
func (s *Service) TranslateMessage(ctx context.Context, text, targetLanguage, sourceLanguage string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("translation pipeline panic", "panic", fmt.Sprintf("%v", r))
			result = Result{
				Success:        false,
				TranslatedText: text,
				Error:          fmt.Sprintf("translation failed: %v", r),
			}
			translateRequests.WithLabelValues("soft_fail").Inc()
		}
	}()

	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	if sourceLanguage == "auto" {
		sourceLanguage = s.provider.Detect(ctx, text)
	}

	reply, err := s.provider.Translate(ctx, text, targetLanguage, sourceLanguage)

	// A returned error means every source-language fallback was exhausted
	// and the reply is just an echo; report a soft failure, never an
	// exception.
	if err != nil {
		translateRequests.WithLabelValues("soft_fail").Inc()
		return Result{
			Success:        false,
			TranslatedText: reply.TranslatedText,
			Error:          "translation unavailable",
		}
	}

	translateRequests.WithLabelValues("success").Inc()
	return Result{
		Success:          true,
		TranslatedText:   reply.TranslatedText,
		DetectedLanguage: reply.DetectedLanguage,
		Confidence:       reply.DetectedConfidence,
		Alternatives:     reply.Alternatives,
	}
}

// DetectLanguage reports the language of text. It cannot fail: any problem
// in the provider chain falls back to the default code with Success=false.
func (s *Service) DetectLanguage(ctx context.Context, text string) (result DetectResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("language detection panic", "panic", fmt.Sprintf("%v", r))
			result = DetectResult{Success: false, Language: LangEnglish}
			detectRequests.WithLabelValues("soft_fail").Inc()
		}
	}()

	language := s.provider.Detect(ctx, text)
	detectRequests.WithLabelValues("success").Inc()
	return DetectResult{Success: true, Language: language}
}

// GetSupportedLanguages returns the language listing as code → display name.
// The live listing is cached briefly; any failure yields the fixed built-in
// two-language map.
func (s *Service) GetSupportedLanguages(ctx context.Context) (languages map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("language listing panic", "panic", fmt.Sprintf("%v", r))
			languages = BuiltinLanguages()
		}
	}()

	if s.cache != nil {
		if cached, found := s.cache.Get(languagesCacheKey); found {
			if listing, ok := cached.(map[string]string); ok {
				return listing
			}
		}
	}

	listing := s.provider.Languages(ctx)
	if s.cache != nil {
		s.cache.Set(languagesCacheKey, listing)
	}
	return listing
}
