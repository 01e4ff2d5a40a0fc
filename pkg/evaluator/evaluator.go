// Package evaluator turns a location, a timezone and a date range into per-night
// moon and sun conditions, and rates each night for hiking by moonlight and for
// star gazing.
package evaluator

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/moonhike/pkg/ephemeris"
)

// Options tunes an Evaluator. The zero value evaluates days one at a time with
// no range limit and the default zenith step.
type Options struct {
	// Workers is the number of days evaluated concurrently.
	Workers int
	// MaxDays rejects longer ranges with ErrRangeTooLarge. Zero means no limit.
	MaxDays    int
	ZenithStep time.Duration
	Logger     *zap.SugaredLogger
}

// Evaluator drives the daily computation and both classifiers over a range of
// days. It holds no mutable state and may be shared between goroutines.
type Evaluator struct {
	daily  *DailyComputer
	opts   Options
	logger *zap.SugaredLogger
}

// Request describes one range evaluation. Only the calendar dates of Start and
// End are used; they are read as given and placed in the hiking timezone.
// A nil StarGazing skips star-gazing classification.
type Request struct {
	Start      time.Time
	End        time.Time
	Hiking     HikingConditions
	StarGazing *StarGazingConditions
}

func New(p ephemeris.Provider, opts Options) *Evaluator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Evaluator{
		daily:  NewDailyComputer(p, NewZenithFinder(p, opts.ZenithStep)),
		opts:   opts,
		logger: logger,
	}
}

// plan is a validated Request.
type plan struct {
	hiking hikingPlan
	gaze   *gazePlan
	first  time.Time
	days   int
}

func (e *Evaluator) plan(req Request) (plan, error) {
	var p plan
	var err error

	if p.hiking, err = req.Hiking.plan(); err != nil {
		return p, err
	}
	if req.StarGazing != nil {
		g, err := req.StarGazing.plan(req.Hiking.Timezone)
		if err != nil {
			return p, err
		}
		p.gaze = &g
	}

	sy, sm, sd := req.Start.Date()
	ey, em, ed := req.End.Date()
	p.first = time.Date(sy, sm, sd, 0, 0, 0, 0, p.hiking.loc)
	span := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Sub(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC))
	p.days = int(span/(24*time.Hour)) + 1
	if p.days < 0 {
		p.days = 0
	}
	if e.opts.MaxDays > 0 && p.days > e.opts.MaxDays {
		return p, configErr("end", strconv.Itoa(p.days)+" days", ErrRangeTooLarge)
	}
	return p, nil
}

// day returns local midnight of the i-th day of the range.
func (p plan) day(i int) time.Time {
	y, m, d := p.first.Date()
	return time.Date(y, m, d+i, 0, 0, 0, 0, p.hiking.loc)
}

// EvaluateRange evaluates every local day from Start to End inclusive and
// returns the results in ascending date order. An inverted range yields an
// empty slice. Inputs are validated before any day is computed.
func (e *Evaluator) EvaluateRange(ctx context.Context, req Request) ([]DailyResult, error) {
	p, err := e.plan(req)
	if err != nil {
		return nil, err
	}

	results := make([]DailyResult, p.days)
	if p.days == 0 {
		return results, nil
	}

	e.logger.Debugw("evaluating range",
		"start", p.day(0).Format(time.DateOnly),
		"days", p.days,
		"timezone", p.hiking.loc.String(),
		"workers", e.opts.Workers,
		"stargazing", p.gaze != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := 0; i < p.days; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.evaluateDay(p, p.day(i))
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// EvaluateDay evaluates a single local day.
func (e *Evaluator) EvaluateDay(day time.Time, hiking HikingConditions, stargazing *StarGazingConditions) (DailyResult, error) {
	y, m, d := day.Date()
	p, err := e.plan(Request{
		Start:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		End:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Hiking:     hiking,
		StarGazing: stargazing,
	})
	if err != nil {
		return DailyResult{}, err
	}
	return e.evaluateDay(p, p.day(0))
}

func (e *Evaluator) evaluateDay(p plan, day time.Time) (DailyResult, error) {
	rec, err := e.daily.Compute(p.hiking.obs, day, p.hiking.loc)
	if err != nil {
		return DailyResult{}, err
	}

	r := DailyResult{
		DailyRecord: rec,
		Hiking:      classifyHiking(rec, p.hiking),
		StarGazing:  NotEvaluated,
	}
	if p.gaze != nil {
		r.StarGazing = classifyStarGazing(rec, *p.gaze)
	}
	r.BestHikingWindow = BestHikingWindow(rec, r.Hiking)

	e.logger.Debugw("evaluated day",
		"date", rec.Date.Format(time.DateOnly),
		"illumination", rec.MoonIllumination,
		"hiking", r.Hiking.Verdict.String(),
		"stargazing", r.StarGazing.Verdict.String(),
	)
	return r, nil
}
