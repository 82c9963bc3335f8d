package expiry

import (
	"time"

	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
)

const DefaultExpiringSoonDays = 30

// Classifier computes a batch's freshness as of a given date. Pure and total:
// no side effects, no failure modes.
type Classifier struct {
	expiringSoonDays int
}

func NewClassifier(expiringSoonDays int) *Classifier {
	if expiringSoonDays <= 0 {
		expiringSoonDays = DefaultExpiringSoonDays
	}
	return &Classifier{expiringSoonDays: expiringSoonDays}
}

// Classify returns the freshness of a batch as of asOf. A batch without an
// expiry date is always healthy.
func (c *Classifier) Classify(b *model.Batch, asOf time.Time) constant.Freshness {
	if b.ExpiryDate == nil {
		return constant.FreshnessHealthy
	}
	if b.ExpiryDate.Before(asOf) {
		return constant.FreshnessExpired
	}
	days := int(b.ExpiryDate.Sub(asOf).Hours() / 24)
	if days <= c.expiringSoonDays {
		return constant.FreshnessExpiringSoon
	}
	return constant.FreshnessHealthy
}
