package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// quotePrefix is fixed; only the invoice prefix is configurable in settings.
const quotePrefix = "Q-"

// nextDocumentNumber produces the next zero-padded document number for the
// given model (e.g. INV-0042). Count-based with a probe loop so numbers
// freed by deletions do not collide with surviving rows.
func nextDocumentNumber(tx *gorm.DB, model interface{}, prefix string) (string, error) {
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		return "", fmt.Errorf("counting documents: %w", err)
	}
	for probe := 0; probe < 1000; probe++ {
		candidate := fmt.Sprintf("%s%04d", prefix, n+1+int64(probe))
		var taken int64
		if err := tx.Model(model).Where("number = ?", candidate).Count(&taken).Error; err != nil {
			return "", fmt.Errorf("probing document number: %w", err)
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("could not allocate a document number")
}
