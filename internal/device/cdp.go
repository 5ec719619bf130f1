// File: internal/device/cdp.go
package device

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// scrollTickPixels is how many pixels one scroll tick moves the viewport.
const scrollTickPixels = 100

// dragSteps is the number of intermediate move events emitted during a drag.
const dragSteps = 20

// CDPSurface drives a browser page over the Chrome DevTools Protocol as the
// controlled device surface. All input is injected as raw trusted input
// events, so the page cannot distinguish it from a physical user.
type CDPSurface struct {
	cfg    Config
	logger *zap.Logger

	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// CDPSurface is the production implementation of Surface.
var _ Surface = (*CDPSurface)(nil)

// NewCDPSurface launches a browser sized to the configured display and
// navigates it to the start URL. The returned surface must be closed.
func NewCDPSurface(ctx context.Context, cfg Config, logger *zap.Logger) (*CDPSurface, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid display dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.Width, cfg.Height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	s := &CDPSurface{
		cfg:         cfg,
		logger:      logger.Named("device"),
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}

	startURL := cfg.StartURL
	if startURL == "" {
		startURL = "about:blank"
	}
	if err := chromedp.Run(browserCtx, chromedp.Navigate(startURL)); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser surface: %w", err)
	}

	s.logger.Info("Device surface ready",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.String("start_url", startURL),
		zap.Bool("headless", cfg.Headless),
	)
	return s, nil
}

// Close tears down the browser session.
func (s *CDPSurface) Close() {
	if s.cancelCtx != nil {
		s.cancelCtx()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// run executes actions against the browser context, honoring cancellation of
// the caller's context before starting.
func (s *CDPSurface) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.browserCtx, actions...)
}

// pause is the configured settle delay after each input event.
func (s *CDPSurface) pause() chromedp.Action {
	if s.cfg.ActionPause <= 0 {
		return chromedp.ActionFunc(func(context.Context) error { return nil })
	}
	return chromedp.Sleep(s.cfg.ActionPause)
}

func (s *CDPSurface) Capture(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	quality := s.cfg.CaptureQuality
	if quality <= 0 {
		quality = 80
	}
	mediaType := "image/jpeg"
	if quality >= 100 {
		mediaType = "image/png"
	}

	captureCtx := s.browserCtx
	if s.cfg.CaptureTimeout > 0 {
		var cancel context.CancelFunc
		captureCtx, cancel = context.WithTimeout(s.browserCtx, s.cfg.CaptureTimeout)
		defer cancel()
	}

	var buf []byte
	if err := chromedp.Run(captureCtx, chromedp.FullScreenshot(&buf, quality)); err != nil {
		return nil, "", fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, mediaType, nil
}

func (s *CDPSurface) Click(ctx context.Context, button MouseButton, clickCount int, x, y int) error {
	if clickCount < 1 {
		clickCount = 1
	}
	fx, fy := float64(x), float64(y)

	actions := []chromedp.Action{
		chromedp.MouseEvent(input.MouseMoved, fx, fy),
	}
	// Browsers report consecutive clicks through an incrementing clickCount
	// on each press/release pair.
	for i := 1; i <= clickCount; i++ {
		actions = append(actions,
			chromedp.MouseEvent(input.MousePressed, fx, fy,
				chromedp.Button(string(button)), chromedp.ClickCount(i)),
			chromedp.MouseEvent(input.MouseReleased, fx, fy,
				chromedp.Button(string(button)), chromedp.ClickCount(i)),
		)
	}
	actions = append(actions, s.pause())
	return s.run(ctx, actions...)
}

func (s *CDPSurface) Move(ctx context.Context, x, y int) error {
	return s.run(ctx,
		chromedp.MouseEvent(input.MouseMoved, float64(x), float64(y)),
		s.pause(),
	)
}

func (s *CDPSurface) Drag(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	fx1, fy1 := float64(x1), float64(y1)
	fx2, fy2 := float64(x2), float64(y2)
	stepPause := duration / dragSteps

	// Left buttons bitmask must stay set on the intermediate moves or the
	// page will treat the gesture as a plain hover.
	heldButtons := func(p *input.DispatchMouseEventParams) *input.DispatchMouseEventParams {
		return p.WithButtons(1)
	}

	actions := []chromedp.Action{
		chromedp.MouseEvent(input.MouseMoved, fx1, fy1),
		chromedp.MouseEvent(input.MousePressed, fx1, fy1,
			chromedp.Button("left"), chromedp.ClickCount(1)),
	}
	for i := 1; i <= dragSteps; i++ {
		t := float64(i) / dragSteps
		mx := fx1 + (fx2-fx1)*t
		my := fy1 + (fy2-fy1)*t
		actions = append(actions,
			chromedp.MouseEvent(input.MouseMoved, mx, my, heldButtons),
		)
		if stepPause > 0 {
			actions = append(actions, chromedp.Sleep(stepPause))
		}
	}
	actions = append(actions,
		chromedp.MouseEvent(input.MouseReleased, fx2, fy2,
			chromedp.Button("left"), chromedp.ClickCount(1)),
		s.pause(),
	)
	return s.run(ctx, actions...)
}

func (s *CDPSurface) Type(ctx context.Context, text string) error {
	return s.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.InsertText(text).Do(ctx)
		}),
		s.pause(),
	)
}

func (s *CDPSurface) Press(ctx context.Context, combo string) error {
	mods, key, err := parseCombo(combo, s.cfg.MacKeymap)
	if err != nil {
		return err
	}
	return s.run(ctx,
		chromedp.KeyEvent(key, chromedp.KeyModifiers(mods)),
		s.pause(),
	)
}

func (s *CDPSurface) Scroll(ctx context.Context, x, y int, direction ScrollDirection, amount int) error {
	if amount < 1 {
		amount = 1
	}
	var deltaX, deltaY float64
	switch direction {
	case ScrollUp:
		deltaY = -float64(amount * scrollTickPixels)
	case ScrollDown:
		deltaY = float64(amount * scrollTickPixels)
	case ScrollLeft:
		deltaX = -float64(amount * scrollTickPixels)
	case ScrollRight:
		deltaX = float64(amount * scrollTickPixels)
	default:
		return fmt.Errorf("invalid scroll direction: %s", direction)
	}

	withDeltas := func(p *input.DispatchMouseEventParams) *input.DispatchMouseEventParams {
		return p.WithDeltaX(deltaX).WithDeltaY(deltaY)
	}
	return s.run(ctx,
		chromedp.MouseEvent(input.MouseMoved, float64(x), float64(y)),
		chromedp.MouseEvent(input.MouseWheel, float64(x), float64(y), withDeltas),
		s.pause(),
	)
}

func (s *CDPSurface) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
