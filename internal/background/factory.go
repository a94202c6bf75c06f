package background

import (
	"fmt"
	"log/slog"

	"silhouette/internal/config"
	"silhouette/internal/services"
)

// FromConfig assembles the configured primary model and its optional fallback.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Remover, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, stage, "build remover", "config is nil", nil)
	}
	bg := cfg.Background
	primary, err := build(cfg, bg.Primary, bg.PrimaryModel)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, services.Wrap(services.ErrConfiguration, stage, "build remover", "background.primary must select a model", nil)
	}
	secondary, err := build(cfg, bg.Secondary, bg.SecondaryModel)
	if err != nil {
		return nil, err
	}
	return WithFallback(primary, secondary, logger), nil
}

func build(cfg *config.Config, kind, model string) (Remover, error) {
	switch kind {
	case config.ModelHTTP:
		return NewHTTPRemover(cfg.Background.Endpoint, model, cfg.ModelTimeout()), nil
	case config.ModelChroma:
		return NewChromaRemover(ChromaOptions{
			Tolerance: cfg.Background.ChromaTolerance,
			Softness:  cfg.Background.ChromaSoftness,
			BlurSigma: cfg.Background.ChromaBlurSigma,
		}), nil
	case config.ModelNone, "":
		return nil, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, stage, "build remover", fmt.Sprintf("unknown model kind %q", kind), nil)
	}
}
