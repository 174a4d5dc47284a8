package services

import (
	"context"
	"fmt"
	"strconv"

	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/patrickmn/go-cache"
)

type managedAccountService struct {
	BaseService
	repo  portsrepo.ManagedAccountRepository
	cache *cache.Cache
}

// NewManagedAccountService creates the managed account predicate. Answers are cached
// in c, which may be nil to always ask the repository.
func NewManagedAccountService(repo portsrepo.ManagedAccountRepository, c *cache.Cache) portssvc.ManagedAccountSvc {
	return &managedAccountService{repo: repo, cache: c}
}

var _ portssvc.ManagedAccountSvc = (*managedAccountService)(nil)

func (s *managedAccountService) IsManagedBankAccount(ctx context.Context, account int) (bool, error) {
	key := strconv.Itoa(account)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(bool), nil
		}
	}

	managed, err := s.repo.IsManagedBankAccount(ctx, account)
	if err != nil {
		return false, fmt.Errorf("failed to check whether account %d is managed: %w", account, err)
	}
	if s.cache != nil {
		s.cache.SetDefault(key, managed)
	}
	return managed, nil
}
