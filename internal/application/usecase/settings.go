package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// GetSettingsUseCase reads the application settings.
type GetSettingsUseCase struct {
	settingsRepo port.SettingsRepository
}

// NewGetSettingsUseCase wires dependencies.
func NewGetSettingsUseCase(settingsRepo port.SettingsRepository) *GetSettingsUseCase {
	return &GetSettingsUseCase{settingsRepo: settingsRepo}
}

// Execute returns the current settings.
func (uc *GetSettingsUseCase) Execute(ctx context.Context) (dto.SettingsResponse, error) {
	workingCapital, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return dto.SettingsResponse{}, fmt.Errorf("get settings: %w", err)
	}
	return dto.SettingsResponse{WorkingCapital: money.FormatAmount(workingCapital)}, nil
}

// UpdateSettingsUseCase changes the working-capital figure.
type UpdateSettingsUseCase struct {
	settingsRepo port.SettingsRepository
	auditRepo    port.AuditLogRepository
	tx           port.TxManager
}

// NewUpdateSettingsUseCase wires dependencies.
func NewUpdateSettingsUseCase(settingsRepo port.SettingsRepository, auditRepo port.AuditLogRepository, tx port.TxManager) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{settingsRepo: settingsRepo, auditRepo: auditRepo, tx: tx}
}

// Execute validates and stores the new working capital, with an audit record
// carrying the before/after values.
func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, req dto.UpdateSettingsRequest) (dto.SettingsResponse, error) {
	workingCapital, err := money.ParseAmount(req.WorkingCapital)
	if err != nil {
		return dto.SettingsResponse{}, fmt.Errorf("parse working capital: %w", err)
	}
	if workingCapital < 0 {
		return dto.SettingsResponse{}, fmt.Errorf("working capital must not be negative")
	}

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		previous, err := uc.settingsRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		if err := uc.settingsRepo.UpsertWorkingCapital(ctx, workingCapital); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     req.UserID,
			Action:     "SETTINGS_UPDATED",
			EntityType: "settings",
			EntityID:   uuid.Nil,
			Metadata: map[string]any{
				"before": money.FormatAmount(previous),
				"after":  money.FormatAmount(workingCapital),
			},
		})
	})
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	return dto.SettingsResponse{WorkingCapital: money.FormatAmount(workingCapital)}, nil
}
