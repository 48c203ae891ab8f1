package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/courtdesk/internal/models"
)

// LogoUploader hosts an inline image and returns its public URL.
type LogoUploader interface {
	UploadLogo(ctx context.Context, dataURI string) (string, error)
}

// ConfigurationInput is a partial update of the business settings.
type ConfigurationInput struct {
	BusinessName    *string           `json:"business_name" validate:"omitempty,min=1,max=100"`
	Logo            *string           `json:"logo"`
	PrimaryColor    *string           `json:"primary_color" validate:"omitempty,hexcolor"`
	BackgroundColor *string           `json:"background_color" validate:"omitempty,hexcolor"`
	TextColor       *string           `json:"text_color" validate:"omitempty,hexcolor"`
	Currency        *string           `json:"currency" validate:"omitempty,min=1,max=5"`
	TaxRate         *float64          `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	OpeningTime     *string           `json:"opening_time" validate:"omitempty,hhmm"`
	ClosingTime     *string           `json:"closing_time" validate:"omitempty,hhmm"`
	OperatingDays   models.WeekdaySet `json:"operating_days"`
}

type ConfigurationService struct {
	settings models.ConfigurationRepo
	uploader LogoUploader
	logger   *slog.Logger
}

// NewConfigurationService accepts a nil uploader; inline logos are then stored as sent.
func NewConfigurationService(settings models.ConfigurationRepo, uploader LogoUploader, logger *slog.Logger) *ConfigurationService {
	return &ConfigurationService{
		settings: settings,
		uploader: uploader,
		logger:   logger,
	}
}

func (cs *ConfigurationService) GetConfiguration(ctx context.Context) (*models.Configuration, error) {
	cfg, err := cs.settings.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func (cs *ConfigurationService) UpdateConfiguration(ctx context.Context, in ConfigurationInput) (*models.Configuration, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	cfg, err := cs.settings.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if in.BusinessName != nil {
		cfg.BusinessName = strings.TrimSpace(*in.BusinessName)
	}
	if in.PrimaryColor != nil {
		cfg.PrimaryColor = *in.PrimaryColor
	}
	if in.BackgroundColor != nil {
		cfg.BackgroundColor = *in.BackgroundColor
	}
	if in.TextColor != nil {
		cfg.TextColor = *in.TextColor
	}
	if in.Currency != nil {
		cfg.Currency = strings.TrimSpace(*in.Currency)
	}
	if in.TaxRate != nil {
		cfg.TaxRate = *in.TaxRate
	}
	if in.OpeningTime != nil {
		cfg.OpeningTime = *in.OpeningTime
	}
	if in.ClosingTime != nil {
		cfg.ClosingTime = *in.ClosingTime
	}
	if in.OperatingDays != nil {
		cfg.OperatingDays = in.OperatingDays
	}
	if cfg.ClosingTime <= cfg.OpeningTime {
		return nil, invalidField("closing_time", "must be after opening_time")
	}
	if in.Logo != nil {
		logo, err := cs.resolveLogo(ctx, strings.TrimSpace(*in.Logo))
		if err != nil {
			return nil, err
		}
		cfg.Logo = logo
	}

	saved, err := cs.settings.SaveConfiguration(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}
	return saved, nil
}

func (cs *ConfigurationService) ResetConfiguration(ctx context.Context) (*models.Configuration, error) {
	cfg, err := cs.settings.ResetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset configuration: %w", err)
	}
	cs.logger.Info("configuration reset to defaults")
	return cfg, nil
}

func (cs *ConfigurationService) resolveLogo(ctx context.Context, logo string) (string, error) {
	if !strings.HasPrefix(logo, "data:") || cs.uploader == nil {
		return logo, nil
	}
	if !strings.HasPrefix(logo, "data:image/") {
		return "", invalidField("logo", "must be an image")
	}
	url, err := cs.uploader.UploadLogo(ctx, logo)
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	cs.logger.Info("logo uploaded", "url", url)
	return url, nil
}
