package services_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory implementation of every repository port. WithinTx
// snapshots the state and restores it when the unit of work fails.
type memStore struct {
	mu    sync.Mutex
	state memState
	locks map[string]bool

	// failMailEnqueue makes EnqueueMail fail.
	failMailEnqueue error
}

type memState struct {
	reports     map[string]domain.Report
	statuses    map[string]domain.TransactionStatus
	entries     map[string]domain.LedgerEntry
	entryOrder  []string
	matchers    map[string]domain.PendingBankMatcher
	bankTxns    []domain.PendingBankTransaction
	refunds     map[int64]domain.InvoiceRefund
	managed     map[int]bool
	wiseTxns    map[int64]domain.WiseTransaction
	nextWiseID  int64
	wiseRefunds map[string]domain.WiseRefund
	payouts     map[string]domain.WisePayout
	logs        []domain.ProviderLogEntry
	mails       []domain.QueuedMail
}

var (
	_ portsrepo.TransactionManager                = (*memStore)(nil)
	_ portsrepo.JobLocker                         = (*memStore)(nil)
	_ portsrepo.ReportRepositoryFacade            = (*memStore)(nil)
	_ portsrepo.TransactionStatusRepositoryFacade = (*memStore)(nil)
	_ portsrepo.LedgerRepositoryFacade            = (*memStore)(nil)
	_ portsrepo.BankMatcherRepositoryFacade       = (*memStore)(nil)
	_ portsrepo.BankTransactionRepositoryFacade   = (*memStore)(nil)
	_ portsrepo.InvoiceRefundRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.ManagedAccountRepository          = (*memStore)(nil)
	_ portsrepo.WiseRepositoryFacade              = (*memStore)(nil)
	_ portsrepo.ProviderLogRepository             = (*memStore)(nil)
	_ portsrepo.MailQueueRepository               = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			reports:     map[string]domain.Report{},
			statuses:    map[string]domain.TransactionStatus{},
			entries:     map[string]domain.LedgerEntry{},
			matchers:    map[string]domain.PendingBankMatcher{},
			refunds:     map[int64]domain.InvoiceRefund{},
			managed:     map[int]bool{},
			wiseTxns:    map[int64]domain.WiseTransaction{},
			nextWiseID:  1,
			wiseRefunds: map[string]domain.WiseRefund{},
			payouts:     map[string]domain.WisePayout{},
		},
		locks: map[string]bool{},
	}
}

func (s memState) clone() memState {
	c := s
	c.reports = cloneMap(s.reports)
	c.statuses = cloneMap(s.statuses)
	c.entries = cloneMap(s.entries)
	c.entryOrder = append([]string(nil), s.entryOrder...)
	c.matchers = cloneMap(s.matchers)
	c.bankTxns = append([]domain.PendingBankTransaction(nil), s.bankTxns...)
	c.refunds = cloneMap(s.refunds)
	c.managed = cloneMap(s.managed)
	c.wiseTxns = cloneMap(s.wiseTxns)
	c.wiseRefunds = cloneMap(s.wiseRefunds)
	c.payouts = cloneMap(s.payouts)
	c.logs = append([]domain.ProviderLogEntry(nil), s.logs...)
	c.mails = append([]domain.QueuedMail(nil), s.mails...)
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func (m *memStore) repos() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         m,
		Locker:            m,
		ReportRepo:        m,
		TransactionRepo:   m,
		LedgerRepo:        m,
		MatcherRepo:       m,
		BankTxnRepo:       m,
		InvoiceRefundRepo: m,
		ManagedAcctRepo:   m,
		WiseRepo:          m,
		ProviderLogRepo:   m,
		MailRepo:          m,
	}
}

type memTxKey struct{}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) TryLock(_ context.Context, key string) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return nil, false, nil
	}
	m.locks[key] = true
	return func() {
		m.mu.Lock()
		delete(m.locks, key)
		m.mu.Unlock()
	}, true, nil
}

// --- reports ---

func (m *memStore) CreateReport(_ context.Context, report domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.state.reports {
		if r.URL == report.URL {
			return apperrors.ErrDuplicate
		}
	}
	m.state.reports[report.ID] = report
	return nil
}

func (m *memStore) UpdateReport(_ context.Context, report domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.reports[report.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.state.reports[report.ID] = report
	return nil
}

func (m *memStore) FindReportsPendingDownload(_ context.Context, methodID int) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Report
	for _, r := range m.state.reports {
		if r.PaymentMethodID == methodID && r.DownloadedAt == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (m *memStore) FindReportsPendingProcessing(_ context.Context, methodID int) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Report
	for _, r := range m.state.reports {
		if r.PaymentMethodID == methodID && r.DownloadedAt != nil && r.ProcessedAt == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DownloadedAt.Before(*out[j].DownloadedAt) })
	return out, nil
}

func (m *memStore) report(url string) domain.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.state.reports {
		if r.URL == url {
			return r
		}
	}
	panic("no report " + url)
}

// --- transaction statuses ---

func statusKey(methodID int, psp string) string {
	return strconv.Itoa(methodID) + "|" + psp
}

func (m *memStore) FindByPSPReference(_ context.Context, methodID int, psp string) (*domain.TransactionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.state.statuses[statusKey(methodID, psp)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) UpdateTransactionStatus(_ context.Context, t domain.TransactionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.statuses[statusKey(t.PaymentMethodID, t.PSPReference)] = t
	return nil
}

func (m *memStore) status(methodID int, psp string) domain.TransactionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.statuses[statusKey(methodID, psp)]
}

// --- ledger ---

func (m *memStore) SaveEntry(_ context.Context, entry domain.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.entries[entry.ID] = entry
	m.state.entryOrder = append(m.state.entryOrder, entry.ID)
	return nil
}

func (m *memStore) FindEntryByID(_ context.Context, id string) (*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.entries[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) CloseEntry(_ context.Context, id string, closedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.entries[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Closed = true
	e.ClosedAt = &closedAt
	m.state.entries[id] = e
	return nil
}

func (m *memStore) AccountBalance(_ context.Context, account int) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, e := range m.state.entries {
		for _, r := range e.Rows {
			if r.Account == account {
				sum = sum.Add(r.Amount)
			}
		}
	}
	return sum, nil
}

// ledgerEntries returns all entries in posting order.
func (m *memStore) ledgerEntries() []domain.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LedgerEntry, 0, len(m.state.entryOrder))
	for _, id := range m.state.entryOrder {
		out = append(out, m.state.entries[id])
	}
	return out
}

// --- matchers ---

func (m *memStore) SaveMatcher(_ context.Context, matcher domain.PendingBankMatcher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.matchers[matcher.ID] = matcher
	return nil
}

func (m *memStore) FindMatchersByAccount(_ context.Context, account int) ([]domain.PendingBankMatcher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PendingBankMatcher
	for _, x := range m.state.matchers {
		if x.Account == account {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) FindMatcherByEntryID(_ context.Context, entryID string) (*domain.PendingBankMatcher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.state.matchers {
		if x.EntryID == entryID {
			return &x, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) DeleteMatcher(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.matchers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.state.matchers, id)
	return nil
}

func (m *memStore) allMatchers() []domain.PendingBankMatcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PendingBankMatcher, 0, len(m.state.matchers))
	for _, x := range m.state.matchers {
		out = append(out, x)
	}
	return out
}

// --- bank transactions, refunds, managed accounts ---

func (m *memStore) SavePendingBankTransaction(_ context.Context, txn domain.PendingBankTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.bankTxns = append(m.state.bankTxns, txn)
	return nil
}

func (m *memStore) SumPendingByMethod(_ context.Context, methodID int) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, t := range m.state.bankTxns {
		if t.PaymentMethodID == methodID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (m *memStore) pendingBankTransactions() []domain.PendingBankTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PendingBankTransaction(nil), m.state.bankTxns...)
}

func (m *memStore) FindInvoiceRefundByID(_ context.Context, id int64) (*domain.InvoiceRefund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.state.refunds[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) UpdateInvoiceRefund(_ context.Context, r domain.InvoiceRefund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.refunds[r.ID] = r
	return nil
}

func (m *memStore) IsManagedBankAccount(_ context.Context, account int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.managed[account], nil
}

// --- wise ---

func (m *memStore) FindTransactionByReference(_ context.Context, methodID int, reference string) (*domain.WiseTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.state.wiseTxns {
		if t.PaymentMethodID == methodID && t.Reference == reference {
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindTransactionByID(_ context.Context, id int64) (*domain.WiseTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.state.wiseTxns[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) CreateTransaction(_ context.Context, t domain.WiseTransaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.state.nextWiseID
	m.state.nextWiseID++
	m.state.wiseTxns[t.ID] = t
	return t.ID, nil
}

func (m *memStore) FindRefundByTransferID(_ context.Context, transferID string) (*domain.WiseRefund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.state.wiseRefunds[transferID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) UpdateRefund(_ context.Context, r domain.WiseRefund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.wiseRefunds[r.TransferID] = r
	return nil
}

func (m *memStore) FindPayoutByReference(_ context.Context, reference string) (*domain.WisePayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.payouts[reference]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) UpdatePayout(_ context.Context, p domain.WisePayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.payouts[p.Reference] = p
	return nil
}

func (m *memStore) wiseTransactions() []domain.WiseTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WiseTransaction, 0, len(m.state.wiseTxns))
	for id := int64(1); id < m.state.nextWiseID; id++ {
		if t, ok := m.state.wiseTxns[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// --- audit, mail ---

func (m *memStore) AppendLog(_ context.Context, entry domain.ProviderLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.logs = append(m.state.logs, entry)
	return nil
}

func (m *memStore) EnqueueMail(_ context.Context, mail domain.QueuedMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMailEnqueue != nil {
		return m.failMailEnqueue
	}
	m.state.mails = append(m.state.mails, mail)
	return nil
}

func (m *memStore) providerLogs() []domain.ProviderLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ProviderLogEntry(nil), m.state.logs...)
}

func (m *memStore) queuedMails() []domain.QueuedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.QueuedMail(nil), m.state.mails...)
}

// --- seeding ---

func (m *memStore) seed(fn func(s *memState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
}
