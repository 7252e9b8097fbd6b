// Package supplier manages wholesaler account registration and credentials.
package supplier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/supplier"
)

// AccountService handles wholesaler account management
type AccountService struct {
	accounts supplier.AccountRepository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts supplier.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		logger:   logger,
	}
}

// Register creates a wholesaler account. One account per source.
func (s *AccountService) Register(ctx context.Context, req RegisterAccountRequest) (*AccountResponse, error) {
	source := integration.SourceCode(req.SourceCode)

	existing, err := s.accounts.FindBySource(ctx, source)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage(
			fmt.Sprintf("an account for %s is already registered", source))
	}

	account, err := supplier.NewAccount(source, req.Label, req.APIKey, req.APISecret)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Wholesaler account registered",
		zap.String("source", source.String()),
		zap.String("label", req.Label),
	)

	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves all wholesaler accounts
func (s *AccountService) List(ctx context.Context) ([]AccountResponse, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToAccountResponses(accounts), nil
}

// UpdateCredentials replaces the API credentials of an account
func (s *AccountService) UpdateCredentials(ctx context.Context, accountID uuid.UUID, req UpdateCredentialsRequest) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.UpdateCredentials(req.APIKey, req.APISecret); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Wholesaler credentials updated",
		zap.String("source", account.SourceCode.String()),
	)

	response := ToAccountResponse(account)
	return &response, nil
}

// Enable re-enables a disabled or auth-failed account
func (s *AccountService) Enable(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	return s.transition(ctx, accountID, (*supplier.Account).Enable)
}

// Disable excludes an account from collection runs
func (s *AccountService) Disable(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	return s.transition(ctx, accountID, (*supplier.Account).Disable)
}

// Delete removes a wholesaler account. Only disabled accounts can be
// deleted so a collection run cannot race the removal.
func (s *AccountService) Delete(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != supplier.AccountStatusDisabled {
		return shared.ErrInvalidState.WithMessage("disable the account before deleting it")
	}
	return s.accounts.Delete(ctx, accountID)
}

func (s *AccountService) transition(ctx context.Context, accountID uuid.UUID, fn func(*supplier.Account) error) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := fn(account); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}
