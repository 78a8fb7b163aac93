package helpers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateWithdrawTxnID returns WD + UTC date + 12 random hex characters.
func GenerateWithdrawTxnID() string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "WD" + time.Now().UTC().Format("20060102") + strings.ToUpper(random[:12])
}
