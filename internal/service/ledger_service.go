package service

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"time"

	"delivery-escrow/internal/core/address"
	"delivery-escrow/internal/core/domain"
	"delivery-escrow/internal/core/ports"
	"delivery-escrow/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// accountBook moves balances between ledger accounts inside an open transaction.
// Every account it touches is locked with FOR UPDATE first.
type accountBook struct {
	accountRepo ports.AccountRepository
	entryRepo   ports.LedgerEntryRepository
	encSvc      ports.EncryptionService
}

func (b *accountBook) decode(acc *domain.Account) (uint64, error) {
	plain, err := b.encSvc.Decrypt(acc.EncryptedBalance)
	if err != nil {
		return 0, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt balance: %w", err))
	}
	balance, err := strconv.ParseUint(plain, 10, 64)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("parse balance: %w", err))
	}
	return balance, nil
}

func (b *accountBook) encode(balance uint64) (string, error) {
	enc, err := b.encSvc.Encrypt(strconv.FormatUint(balance, 10))
	if err != nil {
		return "", apperror.ErrEncryptionFailure(fmt.Errorf("encrypt balance: %w", err))
	}
	return enc, nil
}

// insert creates a fresh account holding amount. It returns
// domain.ErrRecordExists when addr is already taken.
func (b *accountBook) insert(ctx context.Context, tx pgx.Tx, addr string, kind domain.AccountKind, amount uint64, now time.Time) error {
	enc, err := b.encode(amount)
	if err != nil {
		return err
	}
	err = b.accountRepo.Create(ctx, tx, &domain.Account{
		Address:          addr,
		Kind:             kind,
		EncryptedBalance: enc,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, domain.ErrRecordExists) {
		return err
	}
	if err != nil {
		return apperror.InternalError(fmt.Errorf("create account: %w", err))
	}
	return nil
}

// open creates a fresh account holding amount and fails if addr is taken.
func (b *accountBook) open(ctx context.Context, tx pgx.Tx, addr string, kind domain.AccountKind, amount uint64, now time.Time) error {
	err := b.insert(ctx, tx, addr, kind, amount, now)
	if errors.Is(err, domain.ErrRecordExists) {
		return apperror.ErrAlreadyInitialized("account")
	}
	return err
}

// debit removes amount from addr. A missing account has nothing to give.
func (b *accountBook) debit(ctx context.Context, tx pgx.Tx, addr string, amount uint64) (uint64, error) {
	acc, err := b.accountRepo.GetByAddressForUpdate(ctx, tx, addr)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		return 0, apperror.ErrInsufficientFunds()
	}

	balance, err := b.decode(acc)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, apperror.ErrInsufficientFunds()
	}

	remaining := balance - amount
	if err := b.store(ctx, tx, addr, remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}

// credit adds amount to addr, opening the account with kind on first credit.
// When a concurrent transaction opens addr first, the committed row is locked
// and credited instead.
func (b *accountBook) credit(ctx context.Context, tx pgx.Tx, addr string, kind domain.AccountKind, amount uint64, now time.Time) error {
	acc, err := b.accountRepo.GetByAddressForUpdate(ctx, tx, addr)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acc == nil {
		err = b.insert(ctx, tx, addr, kind, amount, now)
		if !errors.Is(err, domain.ErrRecordExists) {
			return err
		}
		acc, err = b.accountRepo.GetByAddressForUpdate(ctx, tx, addr)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock account: %w", err))
		}
		if acc == nil {
			return apperror.InternalError(fmt.Errorf("account %s vanished after conflicting insert", addr))
		}
	}
	if acc.Kind == domain.AccountKindEscrow {
		// escrow balance must equal the delivery payment until completion
		return apperror.ErrInvalidParameter("escrow accounts cannot be credited directly")
	}

	balance, err := b.decode(acc)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(balance, amount, 0)
	if carry != 0 {
		return apperror.ErrMathOverflow()
	}
	return b.store(ctx, tx, addr, sum)
}

func (b *accountBook) store(ctx context.Context, tx pgx.Tx, addr string, balance uint64) error {
	enc, err := b.encode(balance)
	if err != nil {
		return err
	}
	if err := b.accountRepo.UpdateBalance(ctx, tx, addr, enc); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	return nil
}

func (b *accountBook) record(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	if err := b.entryRepo.Create(ctx, tx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}
	return nil
}

// requireOperational locks the config row for share and checks it accepts
// state changes.
func requireOperational(ctx context.Context, tx pgx.Tx, repo ports.ConfigRepository) (*domain.PlatformConfig, error) {
	cfg, err := repo.GetForShare(ctx, tx, address.ConfigKey())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock config: %w", err))
	}
	if cfg == nil || !cfg.IsOperational() {
		return nil, apperror.ErrConfigInactive()
	}
	return cfg, nil
}

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	book       *accountBook
	configRepo ports.ConfigRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	entryRepo ports.LedgerEntryRepository,
	configRepo ports.ConfigRepository,
	encSvc ports.EncryptionService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		book:       &accountBook{accountRepo: accountRepo, entryRepo: entryRepo, encSvc: encSvc},
		configRepo: configRepo,
		transactor: transactor,
		log:        log,
		now:        utcNow,
	}
}

// Deposit credits a wallet from outside the ledger. Only the platform
// authority may mint balance.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.LedgerEntry, error) {
	if req.Amount == 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	target, err := domain.ParseIdentity(req.Address)
	if err != nil {
		return nil, apperror.ErrInvalidParameter("address must be a hex encoded ed25519 public key")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	cfg, err := requireOperational(ctx, dbTx, s.configRepo)
	if err != nil {
		return nil, err
	}
	if req.Caller != cfg.Authority {
		return nil, apperror.ErrUnauthorized()
	}

	kind := domain.AccountKindWallet
	if target == cfg.Treasury {
		kind = domain.AccountKindTreasury
	}

	now := s.now()
	if err := s.book.credit(ctx, dbTx, target.String(), kind, req.Amount, now); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:        uuid.New(),
		EntryType: domain.EntryTypeDeposit,
		ToAddress: target.String(),
		Amount:    req.Amount,
		CreatedAt: now,
	}
	if err := s.book.record(ctx, dbTx, entry); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("entry_id", entry.ID.String()).
		Str("address", entry.ToAddress).
		Uint64("amount", entry.Amount).
		Msg("deposit credited")

	return entry, nil
}

// GetBalance returns the decrypted balance of an account.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, addr string) (uint64, domain.AccountKind, error) {
	acc, err := s.book.accountRepo.GetByAddress(ctx, addr)
	if err != nil {
		return 0, "", apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acc == nil {
		return 0, "", apperror.ErrNotFound("account")
	}

	balance, err := s.book.decode(acc)
	if err != nil {
		return 0, "", err
	}
	return balance, acc.Kind, nil
}

// ListEntries returns the ledger entries touching an address, newest first.
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	entries, total, err := s.book.entryRepo.ListByAddress(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list ledger entries: %w", err))
	}
	return entries, total, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
