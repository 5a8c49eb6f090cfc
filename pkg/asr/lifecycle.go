package asr

import "context"

// Loader is the five-step template method an Engine's LoadModel is built
// from: check_deps -> prepare_dir -> download_if_missing -> load_from_path
// -> configure. Each concrete engine implements these five steps; RunLoad
// drives them with ascending progress and cooperative cancellation checked
// between steps.
type Loader interface {
	CheckDeps(ctx context.Context) error
	PrepareDir(ctx context.Context) error
	DownloadIfMissing(ctx context.Context, progress ProgressFunc) error
	LoadFromPath(ctx context.Context) error
	Configure(ctx context.Context) error
}

// RunLoad drives a Loader's five steps in order, reporting progress at 0,
// 25, 50, 75 and 90 (before each step, with the download step's own
// progress scaled into 50-75) and 100 after the last one, and checking ctx
// for cancellation between steps. Shared by every concrete engine's LoadModel
// so the template-method shape lives in one place instead of being
// duplicated per engine.
func RunLoad(ctx context.Context, l Loader, progress ProgressFunc) error {
	report := func(pct int, msg string) {
		if progress != nil {
			progress(pct, msg)
		}
	}

	steps := []struct {
		pct  int
		name string
		run  func(context.Context) error
	}{
		{0, "checking dependencies", l.CheckDeps},
		{25, "preparing model directory", l.PrepareDir},
		{50, "downloading model if missing", func(ctx context.Context) error {
			return l.DownloadIfMissing(ctx, func(p int, msg string) {
				// Sub-progress within the download step is scaled into
				// the 50-75 band so the overall call still moves
				// monotonically from 0 to 100.
				scaled := 50 + (p*25)/100
				report(scaled, msg)
			})
		}},
		{75, "loading model", l.LoadFromPath},
		{90, "configuring", l.Configure},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return &Error{Kind: KindModelLoad, Message: "load_model cancelled", Err: ctx.Err()}
		default:
		}

		report(step.pct, step.name)
		if err := step.run(ctx); err != nil {
			return err
		}
	}

	report(100, "ready")
	return nil
}
