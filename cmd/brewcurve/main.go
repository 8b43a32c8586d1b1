// Command brewcurve prints the target weight curve of a recipe, or follows
// it live in the terminal while brewing.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"pourover/internal/adapter/memory"
	recipefile "pourover/internal/adapter/yaml"
	"pourover/internal/app"
	"pourover/internal/domain"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
)

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	preset := pflag.String("preset", "Classic V60", "name of a built-in recipe")
	file := pflag.String("file", "", "YAML recipe file (overrides --preset)")
	scaleArg := pflag.String("scale", "1", "batch size multiplier")
	step := pflag.Float64("step", 15, "seconds between table rows")
	live := pflag.Bool("live", false, "follow the recipe in real time")
	tick := pflag.Duration("tick", time.Second, "refresh interval in live mode")
	list := pflag.Bool("list", false, "list the built-in recipes and exit")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *list {
		for _, p := range recipefile.Presets() {
			fmt.Printf("%-12s %s\n", p.Name, p.Description)
		}
		return
	}

	scale, err := app.ParseScale(*scaleArg)
	assertNoError(err)

	recipe, err := loadRecipe(ctx, *preset, *file)
	assertNoError(err)
	scaled := recipe.Scaled(scale)

	if !*live {
		assertNoError(printTable(os.Stdout, scaled, *step))
		return
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	follow(ctx, os.Stdout, scaled, domain.NewTimer(nil), *tick)
}

// loadRecipe validates the chosen recipe through the same service the server
// uses, so file input gets sorted points and field errors.
func loadRecipe(ctx context.Context, preset, file string) (*domain.Recipe, error) {
	var in domain.RecipeInput
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if in, err = recipefile.ParseRecipe(data); err != nil {
			return nil, err
		}
	} else {
		found := false
		for _, p := range recipefile.Presets() {
			if strings.EqualFold(p.Name, preset) {
				in, found = p, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no preset named %q", preset)
		}
	}

	r, err := app.NewRecipeService(memory.New()).Create(ctx, in)
	if err != nil {
		if msgs := app.ValidationMessages(err); len(msgs) > 0 {
			return nil, fmt.Errorf("%w:\n  %s", app.ErrInvalidRecipe, strings.Join(msgs, "\n  "))
		}
		return nil, err
	}
	logger.Debugf(ctx, "loaded recipe %q with %d points", r.Name, len(r.TargetPoints))
	return r, nil
}

func printTable(w io.Writer, r domain.Recipe, step float64) error {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return fmt.Errorf("step must be a positive finite number, got %v", step)
	}
	fmt.Fprintf(w, "%s (%s, max %.0f g)\n", r.Name, domain.FormatClock(float64(r.TotalTime)), r.MaxWeight())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "time\tseconds\ttarget (g)\t")
	total := float64(r.TotalTime)
	for t := 0.0; ; t += step {
		if t > total {
			t = total
		}
		target, err := domain.TargetWeight(r.TargetPoints, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t\n", domain.FormatClock(t), t, target)
		if t >= total {
			break
		}
	}
	return tw.Flush()
}

// follow prints the live target weight every tick until the brew is done or
// ctx is cancelled.
func follow(ctx context.Context, w io.Writer, r domain.Recipe, timer *domain.Timer, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	timer.Start()
	for {
		snap, err := domain.Snapshot(r, timer.Elapsed().Seconds())
		if err != nil {
			logger.Errorf(ctx, "%v", err)
			return
		}
		fmt.Fprintf(w, "\r%s  target %6.1f g  %3.0f%%", snap.Clock, snap.Target, snap.Progress)
		if snap.Done {
			fmt.Fprintln(w, "\ndone")
			return
		}

		select {
		case <-ctx.Done():
			timer.Pause()
			fmt.Fprintf(w, "\nstopped at %s\n", domain.FormatClock(timer.Elapsed().Seconds()))
			return
		case <-ticker.C:
		}
	}
}

func assertNoError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
