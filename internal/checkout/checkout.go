package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"genvid/internal/api"
	"genvid/internal/logging"
)

// Outcome classifies the return from a hosted checkout session.
type Outcome int

const (
	// OutcomeUnknown means the return carried no recognizable payment
	// status. Callers should fall back to the dashboard rather than guess.
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// SuccessProceedDelay is how long a successful return is displayed before the
// caller proceeds automatically.
const SuccessProceedDelay = 3 * time.Second

// Opener launches a URL in the user's browser.
type Opener interface {
	Open(url string) error
}

// BrowserOpener shells out to the platform's URL handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// PrintOpener writes the URL through a callback instead of launching a
// browser, for headless sessions.
type PrintOpener struct {
	Print func(url string)
}

func (p PrintOpener) Open(url string) error {
	if p.Print != nil {
		p.Print(url)
	}
	return nil
}

// Session drives one checkout: create the hosted session, hand the URL to the
// browser, and wait for the processor to redirect back to a local listener.
type Session struct {
	client *api.Client
	opener Opener
	bind   string
	logger *slog.Logger
}

// NewSession builds a checkout session. bind is the listen address for the
// return redirect, typically 127.0.0.1:0.
func NewSession(client *api.Client, opener Opener, bind string, logger *slog.Logger) *Session {
	if opener == nil {
		opener = BrowserOpener{}
	}
	if bind == "" {
		bind = "127.0.0.1:0"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		client: client,
		opener: opener,
		bind:   bind,
		logger: logger.With(logging.String(logging.FieldComponent, "checkout")),
	}
}

// Run executes the full checkout flow for a plan and blocks until the return
// redirect arrives or the context ends. A missing token fails locally before
// any listener or request is started.
func (s *Session) Run(ctx context.Context, planID string) (Outcome, error) {
	plan, err := FindPlan(planID)
	if err != nil {
		return OutcomeUnknown, err
	}
	if !plan.RequiresPayment {
		return OutcomeUnknown, fmt.Errorf("checkout: plan %q has no checkout flow", plan.ID)
	}
	if s.client.Token() == "" {
		return OutcomeUnknown, api.ErrNoToken
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("listen for checkout return: %w", err)
	}
	base := "http://" + listener.Addr().String()

	sessionURL, err := s.client.CreateCheckout(ctx, api.CheckoutRequest{
		PlanID:     plan.ID,
		SuccessURL: base + "/return?payment=success",
		CancelURL:  base + "/return?payment=canceled",
	})
	if err != nil {
		listener.Close()
		return OutcomeUnknown, err
	}
	s.logger.Info("checkout session created", logging.String("plan", plan.ID))

	outcome, err := s.await(ctx, listener, sessionURL)
	if err != nil {
		return OutcomeUnknown, err
	}
	return outcome, nil
}

// await serves the one-shot return endpoint and reports the parsed outcome.
func (s *Session) await(ctx context.Context, listener net.Listener, sessionURL string) (Outcome, error) {
	results := make(chan Outcome, 1)
	var once sync.Once

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			outcome := ParseReturn(r.URL.Query().Get("payment"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, returnPage, returnMessage(outcome))
			once.Do(func() { results <- outcome })
		}),
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("callback server stopped", logging.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := s.opener.Open(sessionURL); err != nil {
		return OutcomeUnknown, err
	}

	select {
	case outcome := <-results:
		s.logger.Info("checkout returned", logging.String("outcome", outcome.String()))
		return outcome, nil
	case <-ctx.Done():
		return OutcomeUnknown, ctx.Err()
	}
}

// ParseReturn maps the redirect's payment parameter to an outcome. Only the
// two values this client puts in its own return URLs are recognized; anything
// else is unknown.
func ParseReturn(payment string) Outcome {
	switch payment {
	case "success":
		return OutcomeSuccess
	case "canceled":
		return OutcomeCanceled
	default:
		return OutcomeUnknown
	}
}

const returnPage = `<!doctype html><html><head><title>Genvid</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>%s</h1><p>You can close this tab and return to the terminal.</p>
</body></html>`

func returnMessage(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return "Payment successful"
	case OutcomeCanceled:
		return "Payment canceled"
	default:
		return "Payment status unknown"
	}
}
