package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage"
)

// ImportAccountsFromFile seeds the repository from a {"accounts":[...]} JSON
// file. Nothing is imported when the repository already holds accounts.
// Returns the number of accounts imported.
func ImportAccountsFromFile(ctx context.Context, repo interfaces.AccountRepository, logger *common.Logger, filePath string) (int, error) {
	existing, err := repo.GetAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read existing accounts: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug().Int("accounts", len(existing)).Msg("Repository not empty, skipping account import")
		return 0, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read accounts file %s: %w", filePath, err)
	}

	accounts, err := storage.DecodeAccounts(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse accounts file %s: %w", filePath, err)
	}
	if len(accounts) == 0 {
		return 0, nil
	}

	for i, acc := range accounts {
		if acc.ID == "" {
			return 0, fmt.Errorf("account %d in %s has no id", i, filePath)
		}
	}

	if err := repo.SaveAccounts(ctx, accounts); err != nil {
		return 0, fmt.Errorf("failed to save imported accounts: %w", err)
	}
	return len(accounts), nil
}
