package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/budget/internal/logger"
)

// Feed is what automated collectors report: balance snapshots and transactions.
type Feed struct {
	Snapshots    []Snapshot    `json:"snapshots"`
	Transactions []Transaction `json:"transactions"`
}

// Collector is a source of automated snapshots and transactions.
//
// Collectors are read once per run, the core never writes back to them.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (Feed, error)
}

// MissingPolicy decides what Gather does with collectors whose backing source
// does not exist.
type MissingPolicy int

const (
	// FailOnMissing reports a missing source as an error.
	FailOnMissing MissingPolicy = iota
	// SkipMissing treats a missing source as an empty feed, and logs a warning.
	SkipMissing
)

// Gather collects all collectors in order and concatenates their feeds.
//
// Every failure is reported, joined in a single error.
func Gather(ctx context.Context, missing MissingPolicy, collectors ...Collector) (Feed, error) {
	log := logger.FromContext(ctx)
	var all Feed
	var errs error
	for _, c := range collectors {
		feed, err := c.Collect(ctx)
		var nf *NotFoundError
		if errors.As(err, &nf) && missing == SkipMissing {
			log.Warn().Str(logger.FieldCollector, c.Name()).Str(logger.FieldPath, nf.Path).Msg("collector source does not exist, using an empty feed")
			continue
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("collector %s: %w", c.Name(), err))
			continue
		}
		log.Debug().Str(logger.FieldCollector, c.Name()).
			Int("snapshots", len(feed.Snapshots)).
			Int("transactions", len(feed.Transactions)).
			Msg("collected")
		all.Snapshots = append(all.Snapshots, feed.Snapshots...)
		all.Transactions = append(all.Transactions, feed.Transactions...)
	}
	if errs != nil {
		return Feed{}, errs
	}
	return all, nil
}
