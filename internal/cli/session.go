package cli

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/AIDetect/internal/chart"
	"github.com/yildizm/AIDetect/internal/client"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/controller"
	"github.com/yildizm/AIDetect/internal/detect"
	"github.com/yildizm/AIDetect/internal/dispatch"
	"github.com/yildizm/AIDetect/internal/logger"
	"github.com/yildizm/AIDetect/internal/monitor"
	"github.com/yildizm/AIDetect/internal/page"
	"github.com/yildizm/AIDetect/internal/ui"
)

// session wires one controller to the service described by cfg
type session struct {
	cfg   *config.Config
	slot  *chart.Slot
	ctrl  *controller.Controller
	stats *monitor.Stats
	log   *logger.Logger
}

func newSession(cfg *config.Config, ocrModel string, log *logger.Logger, observers ...func(detect.State)) *session {
	if ocrModel == "" {
		ocrModel = cfg.Upload.OCRModel
	}

	theme := ui.GetTheme()
	palette := theme.ChartPalette()
	if noColor {
		palette = chart.Palette{Human: lipgloss.NoColor{}, AI: lipgloss.NoColor{}}
	}

	slot := chart.NewSlot()
	renderer := chart.NewProbabilityRenderer(slot, palette, cfg.Output.ChartWidth)
	stats := monitor.NewStats()
	svc := stats.Track(client.New(cfg, client.WithLogger(log)))

	opts := []controller.Option{
		controller.WithLogger(log),
		controller.WithImageExtensions(cfg.Upload.ImageExtensions),
		controller.WithOCRModel(ocrModel),
		controller.WithObserver(stats.Observe),
	}
	for _, fn := range observers {
		opts = append(opts, controller.WithObserver(fn))
	}

	return &session{
		cfg:   cfg,
		slot:  slot,
		ctrl:  controller.New(page.New(), renderer, svc, opts...),
		stats: stats,
		log:   log,
	}
}

// chartView returns the live chart when charts are enabled
func (s *session) chartView() string {
	if !s.cfg.Output.ShowChart {
		return ""
	}
	return s.slot.View()
}

// startLoop runs a dispatch loop for the session until the returned stop
// function is called
func (s *session) startLoop(ctx context.Context) (*dispatch.Loop, func()) {
	loop := dispatch.New(s.ctrl.Apply, 0, s.log)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(runCtx)
	}()
	return loop, func() {
		cancel()
		<-done
	}
}

// submit posts in to the loop; the controller enters Loading on the loop
// goroutine and the request runs on its own
func (s *session) submit(ctx context.Context, loop *dispatch.Loop, in *input) error {
	return loop.Post(func() {
		var task controller.Task
		if in.kind == detect.KindText {
			task = s.ctrl.SubmitText(ctx, in.text)
		} else {
			task = s.ctrl.SubmitFile(ctx, in.name, in.content)
		}
		loop.Go(task)
	})
}
