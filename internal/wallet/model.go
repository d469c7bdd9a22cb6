package wallet

import "time"

// Balance encapsulates available funds for a wallet as of a committed read.
type Balance struct {
	WalletID string
	Amount   int64
	AsOf     time.Time
}
