package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"genvid/internal/api"
	"genvid/internal/logging"
)

// Step identifies a wizard position. The flow is strictly linear.
type Step int

const (
	StepProduct Step = iota + 1
	StepAvatar
	StepScript
	StepGenerate
)

func (s Step) String() string {
	switch s {
	case StepProduct:
		return "product"
	case StepAvatar:
		return "avatar"
	case StepScript:
		return "script"
	case StepGenerate:
		return "generate"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Validation gates, reported before any network call is attempted.
var (
	ErrProductNameRequired = errors.New("wizard: product name is required")
	ErrAvatarRequired      = errors.New("wizard: an avatar must be selected")
	ErrScriptTooShort      = errors.New("wizard: script must be at least 10 characters")
	ErrNotReady            = errors.New("wizard: project, avatar, and script are required before generating")
	ErrBusy                = errors.New("wizard: a transition is already in flight")
	ErrDone                = errors.New("wizard: flow already completed")
)

// StepError tags a failed side-effecting transition with the step it belongs
// to, so callers can surface a recoverable per-step error instead of silently
// staying put.
type StepError struct {
	Step Step
	Op   string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("wizard: %s: %s: %v", e.Step, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Defaults seed the flow's language, format, and duration before the user
// touches them.
type Defaults struct {
	Language      string
	Format        string
	VideoDuration int
}

// Flow drives the four-step creation wizard: product details, avatar
// selection, script authoring, and generation. Backward navigation is always
// permitted; forward navigation is gated per step, and leaving step one
// creates the project server-side.
type Flow struct {
	client *api.Client
	logger *slog.Logger

	mu   sync.Mutex
	step Step
	busy bool
	done bool

	productName        string
	productDescription string
	productURL         string
	image              imageState

	projectID string
	avatar    *api.Avatar
	script    string
	language  string
	format    string
	duration  int
}

// New builds a flow at the product step.
func New(client *api.Client, defaults Defaults, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = logging.NewNop()
	}
	if defaults.Language == "" {
		defaults.Language = "en"
	}
	if defaults.Format == "" {
		defaults.Format = string(api.FormatVertical)
	}
	if defaults.VideoDuration <= 0 {
		defaults.VideoDuration = 5
	}
	return &Flow{
		client:   client,
		logger:   logger.With(logging.String(logging.FieldComponent, "wizard")),
		step:     StepProduct,
		language: defaults.Language,
		format:   defaults.Format,
		duration: defaults.VideoDuration,
	}
}

// Step returns the current position.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// ProjectID returns the id stored by the step-one submission, empty before it.
func (f *Flow) ProjectID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projectID
}

// Done reports whether generation has been triggered successfully.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// SetProduct records the step-one form fields.
func (f *Flow) SetProduct(name, description, url string) {
	f.mu.Lock()
	f.productName = name
	f.productDescription = description
	f.productURL = url
	f.mu.Unlock()
}

// SetAvatar records the selected avatar.
func (f *Flow) SetAvatar(avatar *api.Avatar) {
	f.mu.Lock()
	f.avatar = avatar
	f.mu.Unlock()
}

// Avatar returns the selected avatar, nil when none.
func (f *Flow) Avatar() *api.Avatar {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.avatar
}

// SetScript records the script text.
func (f *Flow) SetScript(text string) {
	f.mu.Lock()
	f.script = text
	f.mu.Unlock()
}

// Script returns the current script text.
func (f *Flow) Script() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.script
}

// ProductName returns the step-one product name.
func (f *Flow) ProductName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productName
}

// ProductDescription returns the step-one product description.
func (f *Flow) ProductDescription() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productDescription
}

// SetLanguage overrides the generation language.
func (f *Flow) SetLanguage(code string) {
	f.mu.Lock()
	f.language = code
	f.mu.Unlock()
}

// SetFormat overrides the aspect ratio.
func (f *Flow) SetFormat(format string) {
	f.mu.Lock()
	f.format = format
	f.mu.Unlock()
}

// SetDuration overrides the video duration in seconds.
func (f *Flow) SetDuration(seconds int) {
	f.mu.Lock()
	f.duration = seconds
	f.mu.Unlock()
}

// CanAdvance reports whether the current step's gate passes. It never touches
// the network; a validation failure costs no round trip.
func (f *Flow) CanAdvance() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gateLocked()
}

func (f *Flow) gateLocked() error {
	switch f.step {
	case StepProduct:
		if f.productName == "" {
			return ErrProductNameRequired
		}
	case StepAvatar:
		if f.avatar == nil {
			return ErrAvatarRequired
		}
	case StepScript:
		if len([]rune(f.script)) < 10 {
			return ErrScriptTooShort
		}
	case StepGenerate:
		return ErrDone
	}
	return nil
}

// Back moves one step backwards. It always succeeds and clamps at the first
// step.
func (f *Flow) Back() {
	f.mu.Lock()
	if f.step > StepProduct {
		f.step--
	}
	f.mu.Unlock()
}

// Advance moves one step forward after the current gate passes. Leaving the
// product step creates the project and stores its id; exactly one create call
// is issued per submission, and a failure leaves the flow on the same step
// with a tagged error.
func (f *Flow) Advance(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.step >= StepGenerate {
		f.mu.Unlock()
		return ErrDone
	}
	if err := f.gateLocked(); err != nil {
		f.mu.Unlock()
		return err
	}

	step := f.step
	if step != StepProduct {
		// Avatar and script transitions are local-only.
		f.step++
		f.mu.Unlock()
		return nil
	}

	req := api.CreateProjectRequest{
		ProductName:        f.productName,
		ProductDescription: f.productDescription,
		ProductURL:         f.productURL,
		ProductImageURL:    f.image.remoteURL,
	}
	f.busy = true
	f.mu.Unlock()

	project, err := f.client.CreateProject(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.logger.Warn("create project failed", logging.Error(err))
		return &StepError{Step: StepProduct, Op: "create project", Err: err}
	}
	f.projectID = project.ID
	f.step = StepAvatar
	f.logger.Info("project created", logging.String(logging.FieldProjectID, project.ID))
	return nil
}

// Generate triggers video generation from the final step. It requires the
// stored project id, a selected avatar, and a script; on success the flow is
// done and the caller should return to the dashboard.
func (f *Flow) Generate(ctx context.Context) (*api.Project, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.done {
		f.mu.Unlock()
		return nil, ErrDone
	}
	if f.projectID == "" || f.avatar == nil || f.script == "" {
		f.mu.Unlock()
		return nil, ErrNotReady
	}
	req := api.GenerateRequest{
		AvatarID:      f.avatar.ID,
		Script:        f.script,
		Language:      f.language,
		Format:        f.format,
		VideoDuration: f.duration,
	}
	projectID := f.projectID
	f.busy = true
	f.mu.Unlock()

	project, err := f.client.Generate(ctx, projectID, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.logger.Warn("generate failed",
			logging.String(logging.FieldProjectID, projectID),
			logging.Error(err),
		)
		return nil, &StepError{Step: StepGenerate, Op: "generate video", Err: err}
	}
	f.done = true
	f.logger.Info("generation queued", logging.String(logging.FieldProjectID, projectID))
	return project, nil
}
