package service

import (
	"context"
	"time"

	apperrors "myworld/backend/internal/errors"
	"myworld/backend/internal/model"
	"myworld/backend/internal/settings"
)

type SettingsService struct {
	theme    *settings.Theme
	observer UseCaseObserver
}

type ThemeView struct {
	Theme model.Theme `json:"theme"`
}

func NewSettingsService(theme *settings.Theme, observer UseCaseObserver) *SettingsService {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return &SettingsService{theme: theme, observer: observer}
}

func (s *SettingsService) GetTheme(ctx context.Context) (*ThemeView, *apperrors.APIError) {
	return &ThemeView{Theme: s.theme.Current()}, nil
}

func (s *SettingsService) SetTheme(ctx context.Context, raw string) (*ThemeView, *apperrors.APIError) {
	start := time.Now()
	theme, err := settings.ParseTheme(raw)
	if err != nil {
		apiErr := apperrors.BadRequest(apperrors.CodeInvalidTheme, err.Error())
		observe(ctx, s.observer, "settings.set_theme", start, apiErr, map[string]any{"theme": raw})
		return nil, apiErr
	}
	if err := s.theme.Set(ctx, theme); err != nil {
		apiErr := apperrors.BadRequest(apperrors.CodeInvalidTheme, err.Error())
		observe(ctx, s.observer, "settings.set_theme", start, apiErr, map[string]any{"theme": raw})
		return nil, apiErr
	}

	observe(ctx, s.observer, "settings.set_theme", start, nil, map[string]any{"theme": theme})
	return &ThemeView{Theme: theme}, nil
}

// ToggleTheme flips between dark and light.
func (s *SettingsService) ToggleTheme(ctx context.Context) (*ThemeView, *apperrors.APIError) {
	return s.SetTheme(ctx, string(s.theme.Current().Toggle()))
}
