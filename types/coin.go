package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/holiman/uint256"
)

// Coin is a single denomination with a strictly positive amount.
type Coin struct {
	Denom  string       `json:"denom"`
	Amount *uint256.Int `json:"amount"`
}

func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: uint256.NewInt(amount)}
}

func (c Coin) String() string {
	return fmt.Sprintf("%s:%s", c.Denom, c.Amount.Dec())
}

// Coins is a duplicate-free mapping from denomination to a strictly positive
// amount, ordered by denomination. A denomination whose amount would drop to
// zero is purged immediately; zero-amount entries are never stored.
//
// Mutate only through Increase and Decrease. Coins serializes to a JSON array
// of Coin records sorted by denom, not a JSON object.
type Coins struct {
	amounts map[string]*uint256.Int
}

// NewCoins builds a Coins map from individual coins, rejecting duplicate
// denominations and zero amounts.
func NewCoins(coins ...Coin) (Coins, error) {
	out := Coins{amounts: make(map[string]*uint256.Int, len(coins))}
	for _, coin := range coins {
		if coin.Amount == nil || coin.Amount.IsZero() {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("denom `%s` has zero amount", coin.Denom)}
		}
		if _, ok := out.amounts[coin.Denom]; ok {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("duplicate denom `%s`", coin.Denom)}
		}
		out.amounts[coin.Denom] = coin.Amount.Clone()
	}
	return out, nil
}

func EmptyCoins() Coins {
	return Coins{amounts: make(map[string]*uint256.Int)}
}

func (c Coins) IsEmpty() bool {
	return len(c.amounts) == 0
}

func (c Coins) Len() int {
	return len(c.amounts)
}

// Has reports whether a non-zero amount of the denom is present.
func (c Coins) Has(denom string) bool {
	_, ok := c.amounts[denom]
	return ok
}

// AmountOf returns the amount of the denom, or zero if absent.
func (c Coins) AmountOf(denom string) *uint256.Int {
	if amount, ok := c.amounts[denom]; ok {
		return amount.Clone()
	}
	return uint256.NewInt(0)
}

// Increase adds to the amount of a denom, creating the record if absent.
func (c *Coins) Increase(denom string, by *uint256.Int) error {
	if by == nil || by.IsZero() {
		return nil
	}
	if c.amounts == nil {
		c.amounts = make(map[string]*uint256.Int)
	}
	amount, ok := c.amounts[denom]
	if !ok {
		c.amounts[denom] = by.Clone()
		return nil
	}
	sum, overflow := new(uint256.Int).AddOverflow(amount, by)
	if overflow {
		return ErrOverflow
	}
	c.amounts[denom] = sum
	return nil
}

// Decrease subtracts from the amount of a denom. The amount cannot be reduced
// below zero; a denom reduced to exactly zero is purged. On error the map is
// left unchanged.
func (c *Coins) Decrease(denom string, by *uint256.Int) error {
	amount, ok := c.amounts[denom]
	if !ok {
		return DenomNotFoundError{Denom: denom}
	}
	if by == nil {
		return nil
	}
	diff, underflow := new(uint256.Int).SubOverflow(amount, by)
	if underflow {
		return ErrUnderflow
	}
	if diff.IsZero() {
		delete(c.amounts, denom)
		return nil
	}
	c.amounts[denom] = diff
	return nil
}

// Clone returns a deep copy sharing no state with the receiver.
func (c Coins) Clone() Coins {
	out := Coins{amounts: make(map[string]*uint256.Int, len(c.amounts))}
	for denom, amount := range c.amounts {
		out.amounts[denom] = amount.Clone()
	}
	return out
}

// ToSlice returns the coins as a slice sorted by denom.
func (c Coins) ToSlice() []Coin {
	denoms := make([]string, 0, len(c.amounts))
	for denom := range c.amounts {
		denoms = append(denoms, denom)
	}
	sort.Strings(denoms)
	out := make([]Coin, 0, len(denoms))
	for _, denom := range denoms {
		out = append(out, Coin{Denom: denom, Amount: c.amounts[denom].Clone()})
	}
	return out
}

// String formats as denom1:amount1,denom2:amount2 ordered by denom.
func (c Coins) String() string {
	coins := c.ToSlice()
	parts := make([]string, len(coins))
	for i, coin := range coins {
		parts[i] = coin.String()
	}
	return strings.Join(parts, ",")
}

// ParseCoins parses a denom1:amount1,denom2:amount2 string. Denoms may be out
// of order, but duplicates and zero amounts are rejected.
func ParseCoins(s string) (Coins, error) {
	if s == "" {
		return EmptyCoins(), nil
	}
	out := EmptyCoins()
	for _, part := range strings.Split(s, ",") {
		denom, amountStr, found := strings.Cut(part, ":")
		if !found {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("invalid coin `%s`: must be in the format {denom}:{amount}", part)}
		}
		amount, err := uint256.FromDecimal(amountStr)
		if err != nil {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("invalid amount `%s`", amountStr)}
		}
		if amount.IsZero() {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("denom `%s` has zero amount", denom)}
		}
		if out.Has(denom) {
			return Coins{}, ParseCoinsError{Reason: fmt.Sprintf("duplicate denom `%s`", denom)}
		}
		out.amounts[denom] = amount
	}
	return out, nil
}

func (c Coins) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToSlice())
}

func (c *Coins) UnmarshalJSON(data []byte) error {
	var coins []Coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return err
	}
	parsed, err := NewCoins(coins...)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
