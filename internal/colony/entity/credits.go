package entity

import (
	"math"

	"SpaceColony/internal/colony/entity/domain"
)

// CreditsLedger 余额 + 投资。投资额按锚点连续复利，存取时重置锚点。
type CreditsLedger struct {
	acc           domain.CreditsAccount
	ratePerSecond float64
}

func NewCreditsLedger(balance, investRatePerHour float64, nowMs int64) *CreditsLedger {
	return &CreditsLedger{
		acc:           domain.CreditsAccount{Balance: balance, AnchorMs: nowMs},
		ratePerSecond: investRatePerHour / 3600,
	}
}

// Tick balance += netRatePerHour/3600 * dt，余额允许因维护费变成负数。
func (c *CreditsLedger) Tick(dt, netRatePerHour float64) {
	c.acc.Balance += netRatePerHour / 3600 * dt
}

// Compound 把投资额刷新到 nowMs 时刻的值，锚点不变。
func (c *CreditsLedger) Compound(nowMs int64) {
	c.acc.Invested = c.investedAt(nowMs)
}

func (c *CreditsLedger) investedAt(nowMs int64) float64 {
	if c.acc.InvestedAnchor == 0 {
		return 0
	}
	elapsed := float64(nowMs-c.acc.AnchorMs) / 1000
	if elapsed <= 0 {
		return c.acc.InvestedAnchor
	}
	return c.acc.InvestedAnchor * math.Pow(1+c.ratePerSecond, elapsed)
}

func (c *CreditsLedger) Spend(amount float64) bool {
	if !domain.ValidAmount(amount) || c.acc.Balance < amount {
		return false
	}
	c.acc.Balance -= amount
	return true
}

func (c *CreditsLedger) Earn(amount float64) {
	if amount > 0 {
		c.acc.Balance += amount
	}
}

// Deposit 余额转入投资，先结算到 now 再重置锚点。
func (c *CreditsLedger) Deposit(amount float64, nowMs int64) bool {
	if !domain.ValidAmount(amount) || amount == 0 || c.acc.Balance < amount {
		return false
	}
	cur := c.investedAt(nowMs)
	c.acc.Balance -= amount
	c.rebase(cur+amount, nowMs)
	return true
}

func (c *CreditsLedger) Withdraw(amount float64, nowMs int64) bool {
	if !domain.ValidAmount(amount) || amount == 0 {
		return false
	}
	cur := c.investedAt(nowMs)
	if cur < amount {
		return false
	}
	c.acc.Balance += amount
	c.rebase(cur-amount, nowMs)
	return true
}

func (c *CreditsLedger) rebase(invested float64, nowMs int64) {
	c.acc.Invested = invested
	c.acc.InvestedAnchor = invested
	c.acc.AnchorMs = nowMs
}

func (c *CreditsLedger) Balance() float64 {
	return c.acc.Balance
}

func (c *CreditsLedger) Invested() float64 {
	return c.acc.Invested
}

func (c *CreditsLedger) Account() domain.CreditsAccount {
	return c.acc
}

func (c *CreditsLedger) restore(acc domain.CreditsAccount) {
	c.acc = acc
}
