package services

import (
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"
)

// ReceptionPrefix is the fixed establishment-emission prefix of reception
// numbers. Invoice numbers use the enterprise's own codes instead.
const ReceptionPrefix = "001-001"

var docNumberRe = regexp.MustCompile(`^\d{3}-\d{3}-(\d{9})$`)

// FormatDocNumber renders a formatted document number: prefix plus the
// sequential zero-padded to 9 digits.
func FormatDocNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%09d", prefix, seq)
}

// ParseDocNumber extracts the numeric suffix of a formatted document number.
func ParseDocNumber(number string) (int, error) {
	m := docNumberRe.FindStringSubmatch(number)
	if m == nil {
		return 0, fmt.Errorf("malformed document number: %q", number)
	}
	return strconv.Atoi(m[1])
}

// NextDocNumber derives the successor of the highest existing number. An
// empty last number starts the sequence at 1.
func NextDocNumber(prefix, last string) (string, error) {
	if last == "" {
		return FormatDocNumber(prefix, 1), nil
	}
	seq, err := ParseDocNumber(last)
	if err != nil {
		return "", err
	}
	return FormatDocNumber(prefix, seq+1), nil
}

// lockSequence serializes sequence generation per tenant and counter. The
// advisory lock is transaction-scoped, so it releases on commit/rollback; the
// unique index on the number column backs it up should two sessions still
// collide.
func lockSequence(tx *gorm.DB, counter string) error {
	return tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(current_schema() || ?))`, ":"+counter).Error
}

// NextReceptionNumber allocates the next reception number for the tenant the
// transaction is pinned to. It derives from the maximum formatted number, not
// the most recent row, so backfilled documents cannot step the sequence back.
func NextReceptionNumber(tx *gorm.DB) (string, error) {
	if err := lockSequence(tx, "reception_number"); err != nil {
		return "", err
	}
	var last string
	err := tx.Raw(
		`SELECT COALESCE(MAX(number), '') FROM receptions WHERE number LIKE ?`,
		ReceptionPrefix+"-%",
	).Scan(&last).Error
	if err != nil {
		return "", err
	}
	return NextDocNumber(ReceptionPrefix, last)
}

// NextInvoiceSequential allocates the next invoice sequential for the tenant
// the transaction is pinned to.
func NextInvoiceSequential(tx *gorm.DB) (int, error) {
	if err := lockSequence(tx, "invoice_sequential"); err != nil {
		return 0, err
	}
	var max int
	if err := tx.Raw(`SELECT COALESCE(MAX(sequential), 0) FROM invoices`).Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}
