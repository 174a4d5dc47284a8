package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AdyenMethod is the file representation of an Adyen payment method.
type AdyenMethod struct {
	ID                   int    `mapstructure:"id" validate:"required,gt=0"`
	Name                 string `mapstructure:"name" validate:"required"`
	ReportUser           string `mapstructure:"reportUser" validate:"required"`
	ReportPassword       string `mapstructure:"reportPassword" validate:"required"`
	AuthorizedAccount    int    `mapstructure:"accountingAuthorized" validate:"required,gt=0"`
	PayableAccount       int    `mapstructure:"accountingPayable" validate:"required,gt=0"`
	FeeAccount           int    `mapstructure:"accountingFee" validate:"required,gt=0"`
	PayoutAccount        int    `mapstructure:"accountingPayout" validate:"required,gt=0"`
	MerchantAccount      int    `mapstructure:"accountingMerchant" validate:"required,gt=0"`
	RefundAccount        int    `mapstructure:"accountingRefunds" validate:"required,gt=0"`
	NotificationReceiver string `mapstructure:"notificationReceiver" validate:"required,email"`
}

// WiseMethod is the file representation of a Wise payment method.
type WiseMethod struct {
	ID                   int    `mapstructure:"id" validate:"required,gt=0"`
	Name                 string `mapstructure:"name" validate:"required"`
	APIToken             string `mapstructure:"apiToken" validate:"required"`
	ProfileID            int64  `mapstructure:"profileId" validate:"required,gt=0"`
	BalanceID            int64  `mapstructure:"balanceId" validate:"required,gt=0"`
	Currency             string `mapstructure:"currency" validate:"required,len=3"`
	BankAccount          int    `mapstructure:"bankAccount" validate:"required,gt=0"`
	FeeAccount           int    `mapstructure:"feeAccount" validate:"required,gt=0"`
	PayoutAccount        int    `mapstructure:"accountingPayout" validate:"required,gt=0"`
	NotificationReceiver string `mapstructure:"notificationReceiver" validate:"omitempty,email"`
}

// GoCardlessMethod is the file representation of a GoCardless payment method.
type GoCardlessMethod struct {
	ID                   int    `mapstructure:"id" validate:"required,gt=0"`
	Name                 string `mapstructure:"name" validate:"required"`
	SecretID             string `mapstructure:"secretId" validate:"required"`
	SecretKey            string `mapstructure:"secretKey" validate:"required"`
	AccountID            string `mapstructure:"accountId" validate:"required"`
	BankAccount          int    `mapstructure:"bankAccount" validate:"required,gt=0"`
	VerifyBalances       bool   `mapstructure:"verifyBalances"`
	NotificationReceiver string `mapstructure:"notificationReceiver" validate:"omitempty,email"`
}

// PaymentMethods lists all configured payment methods by provider.
type PaymentMethods struct {
	Adyen      []AdyenMethod      `mapstructure:"adyen" validate:"dive"`
	Wise       []WiseMethod       `mapstructure:"wise" validate:"dive"`
	GoCardless []GoCardlessMethod `mapstructure:"gocardless" validate:"dive"`
}

// LoadPaymentMethods reads and validates the payment method file. A missing file
// means no payment methods are configured.
func LoadPaymentMethods(path string) (*PaymentMethods, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	methods := &PaymentMethods{}
	if err := v.ReadInConfig(); err != nil {
		if isNotExist(err) {
			return methods, nil
		}
		return nil, fmt.Errorf("failed to read payment method config %s: %w", path, err)
	}
	if err := v.Unmarshal(methods); err != nil {
		return nil, fmt.Errorf("failed to decode payment method config %s: %w", path, err)
	}
	if err := methods.Validate(); err != nil {
		return nil, err
	}
	return methods, nil
}

// Validate checks field constraints and that method IDs are unique.
func (m *PaymentMethods) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("invalid payment method config: %w", err)
	}
	seen := make(map[int]bool)
	ids := make([]int, 0, len(m.Adyen)+len(m.Wise)+len(m.GoCardless))
	for _, a := range m.Adyen {
		ids = append(ids, a.ID)
	}
	for _, w := range m.Wise {
		ids = append(ids, w.ID)
	}
	for _, g := range m.GoCardless {
		if g.VerifyBalances && g.NotificationReceiver == "" {
			return fmt.Errorf("invalid payment method config: gocardless method %d verifies balances but has no notification receiver", g.ID)
		}
		ids = append(ids, g.ID)
	}
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("invalid payment method config: duplicate payment method id %d", id)
		}
		seen[id] = true
	}
	return nil
}

// AdyenMethods returns the configured Adyen methods as domain values.
func (m *PaymentMethods) AdyenMethods() []domain.AdyenMethod {
	out := make([]domain.AdyenMethod, 0, len(m.Adyen))
	for _, a := range m.Adyen {
		out = append(out, domain.AdyenMethod(a))
	}
	return out
}

// WiseMethods returns the configured Wise methods as domain values.
func (m *PaymentMethods) WiseMethods() []domain.WiseMethod {
	out := make([]domain.WiseMethod, 0, len(m.Wise))
	for _, w := range m.Wise {
		out = append(out, domain.WiseMethod(w))
	}
	return out
}

// GoCardlessMethods returns the configured GoCardless methods as domain values.
func (m *PaymentMethods) GoCardlessMethods() []domain.GoCardlessMethod {
	out := make([]domain.GoCardlessMethod, 0, len(m.GoCardless))
	for _, g := range m.GoCardless {
		out = append(out, domain.GoCardlessMethod(g))
	}
	return out
}

// AdyenMethodByID returns the Adyen method with the given ID.
func (m *PaymentMethods) AdyenMethodByID(id int) (domain.AdyenMethod, bool) {
	for _, a := range m.Adyen {
		if a.ID == id {
			return domain.AdyenMethod(a), true
		}
	}
	return domain.AdyenMethod{}, false
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
