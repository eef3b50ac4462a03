package dynamo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent simulation. Each Job must own its Simulator.
type Job struct {
	Name string
	Sim  *Simulator
	X0   State
	Cfg  Config
}

// RunAll runs jobs concurrently and returns their trajectories in job order.
// The first failing job cancels the rest.
func RunAll(ctx context.Context, jobs []Job) ([]*Trajectory, error) {
	results := make([]*Trajectory, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			traj, err := job.Sim.Run(ctx, job.X0, job.Cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
