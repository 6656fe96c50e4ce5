package service

import (
	"context"
	"errors"
	"time"

	apperrors "myworld/backend/internal/errors"
	"myworld/backend/internal/panel"
)

type PanelService struct {
	panels   *panel.Registry
	observer UseCaseObserver
}

func NewPanelService(panels *panel.Registry, observer UseCaseObserver) *PanelService {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return &PanelService{panels: panels, observer: observer}
}

func (s *PanelService) Names() []string {
	return s.panels.Names()
}

func (s *PanelService) List(ctx context.Context, name string) ([]panel.Record, *apperrors.APIError) {
	collection, apiErr := s.collection(name)
	if apiErr != nil {
		return nil, apiErr
	}
	return collection.List(), nil
}

func (s *PanelService) Create(ctx context.Context, name string, fields map[string]any) (panel.Record, *apperrors.APIError) {
	start := time.Now()
	collection, apiErr := s.collection(name)
	if apiErr != nil {
		observe(ctx, s.observer, "panel.create", start, apiErr, map[string]any{"panel": name})
		return nil, apiErr
	}

	record := collection.Create(ctx, fields)
	observe(ctx, s.observer, "panel.create", start, nil, map[string]any{"panel": name, "id": record.ID()})
	return record, nil
}

func (s *PanelService) Update(ctx context.Context, name, id string, fields map[string]any) (panel.Record, *apperrors.APIError) {
	start := time.Now()
	collection, apiErr := s.collection(name)
	if apiErr != nil {
		observe(ctx, s.observer, "panel.update", start, apiErr, map[string]any{"panel": name, "id": id})
		return nil, apiErr
	}

	record, err := collection.Update(ctx, id, fields)
	if err != nil {
		apiErr = recordError(err)
		observe(ctx, s.observer, "panel.update", start, apiErr, map[string]any{"panel": name, "id": id})
		return nil, apiErr
	}
	observe(ctx, s.observer, "panel.update", start, nil, map[string]any{"panel": name, "id": id})
	return record, nil
}

func (s *PanelService) Delete(ctx context.Context, name, id string) *apperrors.APIError {
	start := time.Now()
	collection, apiErr := s.collection(name)
	if apiErr != nil {
		observe(ctx, s.observer, "panel.delete", start, apiErr, map[string]any{"panel": name, "id": id})
		return apiErr
	}

	if err := collection.Delete(ctx, id); err != nil {
		apiErr = recordError(err)
		observe(ctx, s.observer, "panel.delete", start, apiErr, map[string]any{"panel": name, "id": id})
		return apiErr
	}
	observe(ctx, s.observer, "panel.delete", start, nil, map[string]any{"panel": name, "id": id})
	return nil
}

// ToggleCheck marks or unmarks one day (YYYY-MM-DD) on a habit.
func (s *PanelService) ToggleCheck(ctx context.Context, name, id, date string) (panel.Record, *apperrors.APIError) {
	start := time.Now()
	fields := map[string]any{"panel": name, "id": id, "date": date}
	collection, apiErr := s.collection(name)
	if apiErr == nil && name != panel.Habits {
		apiErr = apperrors.BadRequest(apperrors.CodeNotToggleable, "only habits have daily checks")
	}
	if apiErr == nil {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			apiErr = apperrors.BadRequest(apperrors.CodeInvalidDate, "date must be YYYY-MM-DD")
		}
	}
	if apiErr != nil {
		observe(ctx, s.observer, "panel.toggle_check", start, apiErr, fields)
		return nil, apiErr
	}

	record, err := collection.ToggleMember(ctx, id, "checks", date)
	if err != nil {
		apiErr = recordError(err)
		observe(ctx, s.observer, "panel.toggle_check", start, apiErr, fields)
		return nil, apiErr
	}
	observe(ctx, s.observer, "panel.toggle_check", start, nil, fields)
	return record, nil
}

func (s *PanelService) collection(name string) (*panel.Collection, *apperrors.APIError) {
	collection, ok := s.panels.Get(name)
	if !ok {
		return nil, apperrors.NotFound(apperrors.CodePanelNotFound, "unknown panel: "+name)
	}
	return collection, nil
}

func recordError(err error) *apperrors.APIError {
	if errors.Is(err, panel.ErrRecordNotFound) {
		return apperrors.NotFound(apperrors.CodeRecordNotFound, "record not found")
	}
	return apperrors.Internal("")
}
