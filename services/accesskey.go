package services

import (
	"fmt"
	"time"

	"encomiendas-backend/models"
)

// Document type and emission type codes used in the access key.
const (
	docTypeFactura = "01"
	emissionNormal = "1"
)

// AccessKey builds the 49-digit SRI access key for an invoice:
// ddmmyyyy + document type + RUC + environment + establishment/emission point
// + 9-digit sequential + 8-digit numeric code + emission type + mod-11 check
// digit. The numeric code is derived from the sequential so regeneration of
// the same invoice always yields the same key.
func AccessKey(issue time.Time, e *models.Enterprise, sequential int) string {
	key := fmt.Sprintf("%s%s%s%d%s%s%09d%08d%s",
		issue.Format("02012006"),
		docTypeFactura,
		e.Ruc,
		e.Environment,
		e.Establishment,
		e.EmissionPoint,
		sequential,
		sequential%100000000,
		emissionNormal,
	)
	return key + string(rune('0'+mod11CheckDigit(key)))
}

// mod11CheckDigit computes the SRI modulo-11 verifier: weights 2..7 cycling
// from the rightmost digit; 11 folds to 0 and 10 folds to 1.
func mod11CheckDigit(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return check
	}
}

// InvoiceNumber renders the fiscal number EEE-PPP-NNNNNNNNN from the
// enterprise's establishment and emission point codes.
func InvoiceNumber(e *models.Enterprise, sequential int) string {
	return FormatDocNumber(e.Establishment+"-"+e.EmissionPoint, sequential)
}
