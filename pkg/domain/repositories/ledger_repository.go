package repositories

import (
	"context"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

// LedgerRepository provides access to the project ledger and the process palette
type LedgerRepository interface {
	LoadLedger(ctx context.Context) (*entities.Ledger, error)
	SaveLedger(ctx context.Context, ledger *entities.Ledger) error
	LoadPalette(ctx context.Context) (entities.Palette, error)
	SavePalette(ctx context.Context, palette entities.Palette) error
}
