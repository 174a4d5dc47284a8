package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/core/services"
	"github.com/SscSPs/payment_reconciler/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ReportSource ---
type MockReportSource struct {
	mock.Mock
}

var _ providers.ReportSource = (*MockReportSource)(nil)

func (m *MockReportSource) FetchReport(ctx context.Context, url, user, password string) (string, error) {
	args := m.Called(ctx, url, user, password)
	return args.String(0), args.Error(1)
}

// --- Mock WiseFeed ---
type MockWiseFeed struct {
	mock.Mock
}

var _ providers.WiseFeed = (*MockWiseFeed)(nil)

func (m *MockWiseFeed) Transactions(ctx context.Context, method domain.WiseMethod, since *time.Time) ([]domain.WiseFeedTransaction, error) {
	args := m.Called(ctx, method, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WiseFeedTransaction), args.Error(1)
}

// --- Mock BalanceSource ---
type MockBalanceSource struct {
	mock.Mock
}

var _ providers.BalanceSource = (*MockBalanceSource)(nil)

func (m *MockBalanceSource) AccountBalance(ctx context.Context, method domain.GoCardlessMethod) (decimal.Decimal, error) {
	args := m.Called(ctx, method)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock InvoicePaymentMatcher ---
type MockInvoiceMatcher struct {
	mock.Mock
}

var _ portssvc.InvoicePaymentMatcher = (*MockInvoiceMatcher)(nil)

func (m *MockInvoiceMatcher) MatchInvoicePayment(ctx context.Context, methodID int, amount decimal.Decimal, reference string) (bool, error) {
	args := m.Called(ctx, methodID, amount, reference)
	return args.Bool(0), args.Error(1)
}

// Account numbers used across the tests.
const (
	acctAuthorized = 1621
	acctPayable    = 1622
	acctFee        = 6040
	acctPayout     = 1930
	acctMerchant   = 1971
	acctRefunds    = 2498
	acctWiseBank   = 1934
	acctWiseFee    = 6041
	acctRefundDebt = 2499
)

func testConfig() *config.Config {
	return &config.Config{
		OrgShortname:           "PGEU",
		InvoiceSenderEmail:     "invoices@example.org",
		CurrencyCode:           "EUR",
		RefundAccount:          acctRefundDebt,
		ManagedAccountCacheTTL: time.Minute,
	}
}

func testAdyenMethod() domain.AdyenMethod {
	return domain.AdyenMethod{
		ID:                   1,
		Name:                 "Adyen",
		ReportUser:           "report",
		ReportPassword:       "secret",
		AuthorizedAccount:    acctAuthorized,
		PayableAccount:       acctPayable,
		FeeAccount:           acctFee,
		PayoutAccount:        acctPayout,
		MerchantAccount:      acctMerchant,
		RefundAccount:        acctRefunds,
		NotificationReceiver: "treasurer@example.org",
	}
}

func testWiseMethod() domain.WiseMethod {
	return domain.WiseMethod{
		ID:                   2,
		Name:                 "Wise EUR",
		Currency:             "EUR",
		BankAccount:          acctWiseBank,
		FeeAccount:           acctWiseFee,
		PayoutAccount:        acctPayout,
		NotificationReceiver: "treasurer@example.org",
	}
}

type testEnv struct {
	store     *memStore
	reports   *MockReportSource
	wise      *MockWiseFeed
	balances  *MockBalanceSource
	invoices  *MockInvoiceMatcher
	container *portssvc.ServiceContainer
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:    newMemStore(),
		reports:  new(MockReportSource),
		wise:     new(MockWiseFeed),
		balances: new(MockBalanceSource),
		invoices: new(MockInvoiceMatcher),
	}
	env.container = services.NewServiceContainer(testConfig(), env.store.repos(), services.ProviderClients{
		Reports:  env.reports,
		Wise:     env.wise,
		Balances: env.balances,
	}, env.invoices)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
