// internal/models/price.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var ErrInvalidPriceFormat = errors.New("invalid price format: expected a non-negative integer in decimal digits")

// ErrPriceOutOfRange matches ErrInvalidPriceFormat under errors.Is.
var ErrPriceOutOfRange = fmt.Errorf("%w: value exceeds %d bits", ErrInvalidPriceFormat, MaxPriceBits)

const (
	// MaxPriceBits matches an EVM uint256 amount.
	MaxPriceBits = 256
	// MaxPriceTextLength bounds the input, leading zeros included.
	MaxPriceTextLength = 100
)

// Price is a non-negative integer amount in the smallest unit of an asset
// (wei for ETH). The zero value is a valid zero price.
type Price struct {
	v *big.Int
}

func ZeroPrice() Price {
	return Price{}
}

// ParsePrice accepts decimal digits only. Leading zeros are allowed and
// dropped from the canonical form. Values above 2^256-1 are rejected.
func ParsePrice(text string) (Price, error) {
	if text == "" || len(text) > MaxPriceTextLength {
		return Price{}, ErrInvalidPriceFormat
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return Price{}, ErrInvalidPriceFormat
		}
	}

	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return Price{}, ErrInvalidPriceFormat
	}
	if v.Sign() == 0 {
		return Price{}, nil
	}
	if v.BitLen() > MaxPriceBits {
		return Price{}, ErrPriceOutOfRange
	}
	return Price{v: v}, nil
}

// PriceFromBigInt copies v. Negative values and values wider than
// MaxPriceBits are rejected.
func PriceFromBigInt(v *big.Int) (Price, error) {
	if v == nil || v.Sign() == 0 {
		return Price{}, nil
	}
	if v.Sign() < 0 {
		return Price{}, ErrInvalidPriceFormat
	}
	if v.BitLen() > MaxPriceBits {
		return Price{}, ErrPriceOutOfRange
	}
	return Price{v: new(big.Int).Set(v)}, nil
}

func MustParsePrice(text string) Price {
	p, err := ParsePrice(text)
	if err != nil {
		panic(fmt.Sprintf("models: %q: %v", text, err))
	}
	return p
}

func (p Price) IsZero() bool {
	return p.v == nil || p.v.Sign() == 0
}

// Cmp returns -1, 0 or +1.
func (p Price) Cmp(other Price) int {
	return p.int().Cmp(other.int())
}

func (p Price) Equal(other Price) bool {
	return p.Cmp(other) == 0
}

func (p Price) Add(other Price) Price {
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}
	return Price{v: new(big.Int).Add(p.v, other.v)}
}

// BigInt returns a copy; callers may mutate it freely.
func (p Price) BigInt() *big.Int {
	return new(big.Int).Set(p.int())
}

func (p Price) String() string {
	return p.int().String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return ErrInvalidPriceFormat
	}
	parsed, err := ParsePrice(text)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores the price as text so numeric columns keep full precision.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Price) Scan(value interface{}) error {
	var text string
	switch v := value.(type) {
	case nil:
		*p = Price{}
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	case int64:
		parsed, err := PriceFromBigInt(big.NewInt(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Price", value)
	}

	// numeric columns may come back with a zero fraction, e.g. "12.000"
	if dot := strings.IndexByte(text, '.'); dot >= 0 && strings.Trim(text[dot+1:], "0") == "" {
		text = text[:dot]
	}

	parsed, err := ParsePrice(text)
	if err != nil {
		return fmt.Errorf("scan price %q: %w", text, err)
	}
	*p = parsed
	return nil
}

var bigZero = new(big.Int)

func (p Price) int() *big.Int {
	if p.v == nil {
		return bigZero
	}
	return p.v
}
