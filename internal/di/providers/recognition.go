package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/recognition"
)

// ProvideRecognizer provides the cover recognition client.
// Returns a nil Recognizer when recognition is not configured; uploads
// still work, only the recognize endpoint reports failure.
func ProvideRecognizer(i do.Injector) (recognition.Recognizer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Recognition.URL == "" {
		log.Info("Cover recognition disabled")
		return nil, nil
	}

	log.Info("Cover recognition enabled", "url", cfg.Recognition.URL)

	return recognition.NewClient(
		cfg.Recognition.URL,
		cfg.Recognition.APIKey,
		cfg.Recognition.Timeout,
		log.Logger,
	), nil
}
