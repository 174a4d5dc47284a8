package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const methodsYAML = `
adyen:
  - id: 1
    name: Adyen creditcard
    reportUser: report@Company.Example
    reportPassword: secret
    accountingAuthorized: 1621
    accountingPayable: 1622
    accountingFee: 6040
    accountingPayout: 1930
    accountingMerchant: 1971
    accountingRefunds: 2498
    notificationReceiver: treasurer@example.org
wise:
  - id: 2
    name: Wise EUR
    apiToken: token
    profileId: 100
    balanceId: 200
    currency: EUR
    bankAccount: 1934
    feeAccount: 6041
    accountingPayout: 1930
gocardless:
  - id: 3
    name: Bank
    secretId: sid
    secretKey: skey
    accountId: acc-1
    bankAccount: 1930
    verifyBalances: true
    notificationReceiver: treasurer@example.org
`

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadPaymentMethods(t *testing.T) {
	methods, err := LoadPaymentMethods(writeFile(t, methodsYAML))
	require.NoError(t, err)

	adyen := methods.AdyenMethods()
	require.Len(t, adyen, 1)
	assert.Equal(t, 1, adyen[0].ID)
	assert.Equal(t, "report@Company.Example", adyen[0].ReportUser)
	assert.Equal(t, 1622, adyen[0].PayableAccount)
	assert.Equal(t, 2498, adyen[0].RefundAccount)

	wise := methods.WiseMethods()
	require.Len(t, wise, 1)
	assert.Equal(t, int64(200), wise[0].BalanceID)
	assert.Equal(t, "EUR", wise[0].Currency)

	gc := methods.GoCardlessMethods()
	require.Len(t, gc, 1)
	assert.True(t, gc[0].VerifyBalances)

	m, ok := methods.AdyenMethodByID(1)
	assert.True(t, ok)
	assert.Equal(t, "Adyen creditcard", m.Name)
	_, ok = methods.AdyenMethodByID(2)
	assert.False(t, ok)
}

func TestLoadPaymentMethods_MissingFile(t *testing.T) {
	methods, err := LoadPaymentMethods(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, methods.AdyenMethods())
}

func TestLoadPaymentMethods_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing accounts", "adyen:\n  - id: 1\n    name: x\n    reportUser: u\n    reportPassword: p\n    notificationReceiver: a@example.org\n"},
		{"bad currency", "wise:\n  - id: 2\n    name: w\n    apiToken: t\n    profileId: 1\n    balanceId: 1\n    currency: EURO\n    bankAccount: 1\n    feeAccount: 2\n    accountingPayout: 3\n"},
		{"verify without receiver", "gocardless:\n  - id: 3\n    name: g\n    secretId: a\n    secretKey: b\n    accountId: c\n    bankAccount: 1\n    verifyBalances: true\n"},
		{"duplicate ids", "wise:\n  - id: 2\n    name: w\n    apiToken: t\n    profileId: 1\n    balanceId: 1\n    currency: EUR\n    bankAccount: 1\n    feeAccount: 2\n    accountingPayout: 3\ngocardless:\n  - id: 2\n    name: g\n    secretId: a\n    secretKey: b\n    accountId: c\n    bankAccount: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPaymentMethods(writeFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://recon@localhost/recon")
	t.Setenv("ORG_SHORTNAME", "PGEU")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("MANAGED_ACCOUNT_CACHE_TTL", "not-a-duration")
	t.Setenv("REFUND_ACCOUNT", "2498")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://recon@localhost/recon", cfg.DatabaseURL)
	assert.Equal(t, "PGEU", cfg.OrgShortname)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10*time.Minute, cfg.ManagedAccountCacheTTL)
	assert.Equal(t, 2498, cfg.RefundAccount)
	assert.Equal(t, "EUR", cfg.CurrencyCode)
}
