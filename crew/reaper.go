/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
	"go.uber.org/zap"
)

// Reaper evicts idle conversations on a cron schedule.
type Reaper struct {
	Crew *Crew

	// Idle is how long a conversation can do nothing before
	// it's evicted.
	Idle time.Duration

	schedule *cronexpr.Expression
}

// NewReaper parses the cron expression.  Expressions with seven
// fields have a leading seconds field.
func NewReaper(c *Crew, schedule string, idle time.Duration) (*Reaper, error) {
	x, err := cronexpr.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("bad evict schedule %q: %w", schedule, err)
	}
	return &Reaper{
		Crew:     c,
		Idle:     idle,
		schedule: x,
	}, nil
}

// Next returns the next time the Reaper will run after the given
// time.  The zero time means never.
func (r *Reaper) Next(after time.Time) time.Time {
	return r.schedule.Next(after)
}

// Reap evicts once.
func (r *Reaper) Reap(ctx context.Context) ([]string, error) {
	return r.Crew.Evict(ctx, r.Idle)
}

// Run reaps on schedule until the context is done.
func (r *Reaper) Run(ctx context.Context) error {
	for {
		now := r.Crew.Now()
		next := r.Next(now)
		if next.IsZero() {
			return nil
		}
		t := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if _, err := r.Reap(ctx); err != nil {
			r.Crew.logger.Error("reap", zap.Error(err))
		}
	}
}
