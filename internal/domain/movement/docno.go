package movement

import (
	"fmt"
	"time"
)

// DayKey fecha de referencia en formato YYYYMMDD (UTC).
func DayKey(ref time.Time) string {
	return ref.UTC().Format("20060102")
}

// FormatDocNo arma {PREFIX}-{YYYYMMDD}-{seq4}. seq es 1-based y se rellena con ceros a 4 dígitos.
func FormatDocNo(prefix string, ref time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, DayKey(ref), seq)
}
