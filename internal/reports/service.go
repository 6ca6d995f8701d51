package reports

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"tourdesk_backend/internal/identity"
	"tourdesk_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service assembles the finance reports and guards the export credential.
type Service struct {
	repo     *Repository
	settings identity.SettingsProvider
	key      []byte
}

func NewService(repo *Repository, settings identity.SettingsProvider) *Service {
	return &Service{repo: repo, settings: settings}
}

// SetEncryptionKey sets the AES-256 key protecting export secrets at rest.
func (s *Service) SetEncryptionKey(key []byte) {
	s.key = key
}

// SummaryRow is the per-currency slice of a finance summary. Base holds the
// same figures converted into the organization base currency, nil when no
// rate is stored for the pair.
type SummaryRow struct {
	Currency         string
	InvoicedMinor    int64
	CollectedMinor   int64
	RefundedMinor    int64
	OutstandingMinor int64
	Base             *ConvertedTotals
}

// ConvertedTotals mirrors a summary row in the base currency.
type ConvertedTotals struct {
	Currency         string
	InvoicedMinor    int64
	CollectedMinor   int64
	RefundedMinor    int64
	OutstandingMinor int64
}

// FinanceSummary is the per-currency money flow for a date range.
type FinanceSummary struct {
	BaseCurrency string
	From         time.Time
	To           time.Time
	Rows         []SummaryRow
}

// FinanceSummary aggregates invoiced, collected, refunded and outstanding
// totals per currency and converts each row into the organization base
// currency where a stored rate allows it.
func (s *Service) FinanceSummary(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (FinanceSummary, error) {
	settings, err := s.settings.GetSettings(ctx, organizationID)
	if err != nil {
		return FinanceSummary{}, err
	}

	invoiced, err := s.repo.InvoicedByCurrency(ctx, organizationID, from, to)
	if err != nil {
		return FinanceSummary{}, err
	}
	collected, err := s.repo.CollectedByCurrency(ctx, organizationID, from, to)
	if err != nil {
		return FinanceSummary{}, err
	}
	refunded, err := s.repo.RefundedByCurrency(ctx, organizationID, from, to)
	if err != nil {
		return FinanceSummary{}, err
	}
	outstanding, err := s.repo.OutstandingByCurrency(ctx, organizationID)
	if err != nil {
		return FinanceSummary{}, err
	}
	rates, err := s.repo.RatesForBase(ctx, organizationID, settings.BaseCurrency)
	if err != nil {
		return FinanceSummary{}, err
	}

	return FinanceSummary{
		BaseCurrency: settings.BaseCurrency,
		From:         from,
		To:           to,
		Rows:         buildSummaryRows(settings.BaseCurrency, invoiced, collected, refunded, outstanding, rates),
	}, nil
}

// buildSummaryRows merges the per-currency aggregates into sorted rows and
// attaches the base-currency conversion where possible.
func buildSummaryRows(base string, invoiced, collected, refunded, outstanding map[string]int64, rates map[string]decimal.Decimal) []SummaryRow {
	currencies := make(map[string]struct{})
	for c := range invoiced {
		currencies[c] = struct{}{}
	}
	for c := range collected {
		currencies[c] = struct{}{}
	}
	for c := range refunded {
		currencies[c] = struct{}{}
	}
	for c := range outstanding {
		currencies[c] = struct{}{}
	}

	ordered := make([]string, 0, len(currencies))
	for c := range currencies {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	rows := make([]SummaryRow, 0, len(ordered))
	for _, currency := range ordered {
		row := SummaryRow{
			Currency:         currency,
			InvoicedMinor:    invoiced[currency],
			CollectedMinor:   collected[currency],
			RefundedMinor:    refunded[currency],
			OutstandingMinor: outstanding[currency],
		}
		if rate, ok := conversionRate(base, currency, rates); ok {
			row.Base = &ConvertedTotals{
				Currency:         base,
				InvoicedMinor:    convertMinor(row.InvoicedMinor, rate),
				CollectedMinor:   convertMinor(row.CollectedMinor, rate),
				RefundedMinor:    convertMinor(row.RefundedMinor, rate),
				OutstandingMinor: convertMinor(row.OutstandingMinor, rate),
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// conversionRate returns the base-per-quote rate for a row currency. The
// base currency itself converts at one; any other currency needs a stored
// positive rate.
func conversionRate(base, currency string, rates map[string]decimal.Decimal) (decimal.Decimal, bool) {
	if currency == base {
		return decimal.NewFromInt(1), true
	}
	rate, ok := rates[currency]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, false
	}
	return rate, true
}

// convertMinor converts a quote-currency amount into the base currency.
// Rates price one base unit in quote units, so conversion divides. Rounds
// half away from zero like the pricing composition.
func convertMinor(amountMinor int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amountMinor).
		Div(rate).
		Round(0).
		IntPart()
}

// AgingBuckets slots open balances of one currency by how far past due
// they are.
type AgingBuckets struct {
	Currency        string
	CurrentMinor    int64
	Days1To30Minor  int64
	Days31To60Minor int64
	Days61To90Minor int64
	Over90Minor     int64
	TotalMinor      int64
}

// AgingReport is the receivables aging snapshot per currency.
type AgingReport struct {
	AsOf    time.Time
	Buckets []AgingBuckets
}

// ARAging buckets every open receivable balance by days past due.
func (s *Service) ARAging(ctx context.Context, organizationID uuid.UUID, asOf time.Time) (AgingReport, error) {
	open, err := s.repo.OpenReceivables(ctx, organizationID)
	if err != nil {
		return AgingReport{}, err
	}

	byCurrency := make(map[string]*AgingBuckets)
	for _, item := range open {
		bucket, ok := byCurrency[item.Currency]
		if !ok {
			bucket = &AgingBuckets{Currency: item.Currency}
			byCurrency[item.Currency] = bucket
		}
		switch agingBucketIndex(asOf, item.DueDate) {
		case 0:
			bucket.CurrentMinor += item.OutstandingMinor
		case 1:
			bucket.Days1To30Minor += item.OutstandingMinor
		case 2:
			bucket.Days31To60Minor += item.OutstandingMinor
		case 3:
			bucket.Days61To90Minor += item.OutstandingMinor
		default:
			bucket.Over90Minor += item.OutstandingMinor
		}
		bucket.TotalMinor += item.OutstandingMinor
	}

	ordered := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		ordered = append(ordered, c)
	}
	sort.Strings(ordered)

	buckets := make([]AgingBuckets, 0, len(ordered))
	for _, c := range ordered {
		buckets = append(buckets, *byCurrency[c])
	}
	return AgingReport{AsOf: asOf, Buckets: buckets}, nil
}

// agingBucketIndex maps an invoice due date to its aging bucket: 0 current,
// 1 for 1-30 days past due, 2 for 31-60, 3 for 61-90, 4 beyond.
func agingBucketIndex(asOf, dueDate time.Time) int {
	days := int(asOf.Sub(dueDate).Hours() / 24)
	switch {
	case days <= 0:
		return 0
	case days <= 30:
		return 1
	case days <= 60:
		return 2
	case days <= 90:
		return 3
	default:
		return 4
	}
}

// UpsertExchangeRate stores the rate for one base/quote pair after basic
// sanity checks.
func (s *Service) UpsertExchangeRate(ctx context.Context, organizationID uuid.UUID, base, quote string, rate decimal.Decimal, asOf time.Time) (ExchangeRate, error) {
	if base == quote {
		return ExchangeRate{}, apperr.Validation("base and quote currencies must differ")
	}
	if !rate.IsPositive() {
		return ExchangeRate{}, apperr.Validation("rate must be positive")
	}
	return s.repo.UpsertExchangeRate(ctx, organizationID, base, quote, rate, asOf)
}

func (s *Service) ListExchangeRates(ctx context.Context, organizationID uuid.UUID) ([]ExchangeRate, error) {
	return s.repo.ListExchangeRates(ctx, organizationID)
}

func (s *Service) ExportInvoices(ctx context.Context, organizationID uuid.UUID, from, to time.Time) ([]ExportInvoiceRow, error) {
	return s.repo.ExportInvoices(ctx, organizationID, from, to)
}

const exportSecretBytes = 24

// UpsertCredential rotates the organization export login: a fresh secret is
// generated on every call and returned in plaintext exactly here and in
// RevealSecret.
func (s *Service) UpsertCredential(ctx context.Context, organizationID uuid.UUID, username string, createdBy uuid.UUID) (Credential, string, error) {
	if len(s.key) == 0 {
		return Credential{}, "", apperr.Internal("export encryption key is not configured")
	}

	raw := make([]byte, exportSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return Credential{}, "", fmt.Errorf("generate export secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	encrypted, err := encryptSecret(secret, s.key)
	if err != nil {
		return Credential{}, "", fmt.Errorf("encrypt export secret: %w", err)
	}

	cred, err := s.repo.UpsertCredential(ctx, organizationID, username, encrypted, &createdBy)
	if err != nil {
		return Credential{}, "", err
	}
	return cred, secret, nil
}

func (s *Service) GetCredential(ctx context.Context, organizationID uuid.UUID) (Credential, error) {
	return s.repo.GetCredential(ctx, organizationID)
}

// RevealSecret decrypts the stored export secret for the admin surface.
func (s *Service) RevealSecret(ctx context.Context, organizationID uuid.UUID) (string, error) {
	if len(s.key) == 0 {
		return "", apperr.Internal("export encryption key is not configured")
	}
	cred, err := s.repo.GetCredential(ctx, organizationID)
	if err != nil {
		return "", err
	}
	secret, err := decryptSecret(cred.SecretEncrypted, s.key)
	if err != nil {
		return "", fmt.Errorf("decrypt export secret: %w", err)
	}
	return secret, nil
}

func (s *Service) DeleteCredential(ctx context.Context, organizationID uuid.UUID) error {
	return s.repo.DeleteCredential(ctx, organizationID)
}

// VerifyCredential checks a Basic-Auth login and returns the organization
// it unlocks. The comparison is constant time.
func (s *Service) VerifyCredential(ctx context.Context, username, secret string) (uuid.UUID, error) {
	if len(s.key) == 0 {
		return uuid.UUID{}, apperr.Internal("export encryption key is not configured")
	}
	cred, err := s.repo.GetCredentialByUsername(ctx, username)
	if err != nil {
		return uuid.UUID{}, err
	}
	stored, err := decryptSecret(cred.SecretEncrypted, s.key)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("decrypt export secret: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) != 1 {
		return uuid.UUID{}, apperr.Unauthorized("invalid export credentials")
	}
	return cred.OrganizationID, nil
}
