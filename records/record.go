package records

import (
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"github.com/DrewWhite51/blockchain-poc/common"

	"github.com/btcsuite/btcutil/base58"
)

// Record is a single value transfer. Id is derived once at construction
// and never recomputed implicitly.
type Record struct {
	Sender    string
	Recipient string
	Amount    float64
	Timestamp int64
	Id        string
}

func NewRecord(sender string, recipient string, amount float64) Record {
	return NewRecordAt(sender, recipient, amount, time.Now().UnixNano())
}

func NewRecordAt(
	sender string, recipient string, amount float64, timestamp int64,
) Record {
	rec := Record{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: timestamp,
	}
	rec.Id = rec.CalculateId()
	return rec
}

func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// CalculateId digests sender, recipient, amount and timestamp in that order.
func (r *Record) CalculateId() string {
	return common.HashHex(
		r.Sender,
		r.Recipient,
		FormatAmount(r.Amount),
		strconv.FormatInt(r.Timestamp, 10),
	)
}

// ShortId renders the id as base58 for logs and tables.
func (r *Record) ShortId() string {
	raw, err := hex.DecodeString(r.Id)
	if err != nil || len(raw) == 0 {
		return r.Id
	}
	return base58.Encode(raw)
}

func (r *Record) ContentsCheck() error {
	if len(r.Sender) == 0 {
		return &ValidationError{Field: "sender", Reason: "is empty"}
	}
	if len(r.Recipient) == 0 {
		return &ValidationError{Field: "recipient", Reason: "is empty"}
	}
	if !(r.Amount > 0) || math.IsInf(r.Amount, 0) {
		return &ValidationError{
			Field:  "amount",
			Reason: "must be positive and finite, got " + FormatAmount(r.Amount),
		}
	}
	if r.Id != r.CalculateId() {
		return &ValidationError{Field: "id", Reason: "does not match contents"}
	}
	return nil
}
