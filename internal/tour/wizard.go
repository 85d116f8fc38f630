package tour

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tourigo/tourigo-client/internal/tourapi"
	"github.com/tourigo/tourigo-client/internal/uploads"
	"github.com/tourigo/tourigo-client/pkg/logger"
	"github.com/tourigo/tourigo-client/pkg/metrics"
)

// DefaultTotalSteps matches the full multi-section wizard; the condensed
// variant runs with three.
const DefaultTotalSteps = 6

// Options configure a wizard instance.
type Options struct {
	TotalSteps int
	Uploader   uploads.Uploader
	Tours      tourapi.Creator
	Logger     *logger.Logger
	Metrics    *metrics.SubmitMetrics
	Now        func() time.Time
}

// Wizard accumulates a tour-creation draft across sequential steps and submits
// it once. Step state, the composition, and staged files are volatile: a fresh
// wizard starts empty.
type Wizard struct {
	mu          sync.Mutex
	draftID     string
	step        int
	totalSteps  int
	comp        Composition
	pendingTour []uploads.File
	pendingDest map[int][]uploads.File
	submitting  bool

	uploader uploads.Uploader
	tours    tourapi.Creator
	logg     *logger.Logger
	metr     *metrics.SubmitMetrics
	now      func() time.Time
}

// NewWizard builds a wizard with the given collaborators.
func NewWizard(opts Options) (*Wizard, error) {
	if opts.Uploader == nil {
		return nil, fmt.Errorf("uploader required")
	}
	if opts.Tours == nil {
		return nil, fmt.Errorf("tour creator required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.TotalSteps <= 0 {
		opts.TotalSteps = DefaultTotalSteps
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Wizard{
		draftID:     uuid.NewString(),
		step:        1,
		totalSteps:  opts.TotalSteps,
		pendingDest: map[int][]uploads.File{},
		uploader:    opts.Uploader,
		tours:       opts.Tours,
		logg:        opts.Logger,
		metr:        opts.Metrics,
		now:         opts.Now,
	}, nil
}

// DraftID identifies this draft in logs.
func (w *Wizard) DraftID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draftID
}

// Step returns the current step pointer.
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// TotalSteps returns the configured step count.
func (w *Wizard) TotalSteps() int {
	return w.totalSteps
}

// NextStep advances the pointer by one, clamped to the last step.
func (w *Wizard) NextStep() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step < w.totalSteps {
		w.step++
	}
}

// PreviousStep retreats the pointer by one, clamped to the first step.
func (w *Wizard) PreviousStep() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > 1 {
		w.step--
	}
}

// SetStep jumps directly to the given step, clamped into [1, TotalSteps].
func (w *Wizard) SetStep(step int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < 1 {
		step = 1
	}
	if step > w.totalSteps {
		step = w.totalSteps
	}
	w.step = step
}

// SetBasicInfo merges the basic-info step's fields into the draft.
func (w *Wizard) SetBasicInfo(patch BasicInfoPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if patch.Title != nil {
		w.comp.Title = *patch.Title
	}
	if patch.CategoryID != nil {
		w.comp.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		w.comp.Description = *patch.Description
	}
}

// SetScheduleInfo merges the schedule step's fields into the draft.
func (w *Wizard) SetScheduleInfo(patch ScheduleInfoPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if patch.OpenDay != nil {
		w.comp.OpenDay = *patch.OpenDay
	}
	if patch.CloseDay != nil {
		w.comp.CloseDay = *patch.CloseDay
	}
	if patch.ScheduleFrequency != nil {
		w.comp.ScheduleFrequency = *patch.ScheduleFrequency
	}
}

// SetAdditionalInfo merges the descriptive fields into the draft.
func (w *Wizard) SetAdditionalInfo(patch AdditionalInfoPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if patch.About != nil {
		w.comp.About = *patch.About
	}
	if patch.Include != nil {
		w.comp.Include = *patch.Include
	}
	if patch.PickupInfo != nil {
		w.comp.PickupInfo = *patch.PickupInfo
	}
}

// SetDestinations replaces the destination list.
func (w *Wizard) SetDestinations(patch DestinationsPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.comp.Destinations = cloneDestinations(patch.Destinations)
}

// SetTickets replaces the ticket tiers.
func (w *Wizard) SetTickets(patch TicketsPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.comp.Tickets = append([]TicketSpec(nil), patch.Tickets...)
}

// SetExistingImages seeds already-uploaded tour image URLs, used by the edit
// flow.
func (w *Wizard) SetExistingImages(urls []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.comp.Images = append([]string(nil), urls...)
}

// StageTourImages appends local files to the tour-level pending batch. Purely
// local bookkeeping; nothing is uploaded until Submit.
func (w *Wizard) StageTourImages(files ...uploads.File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingTour = append(w.pendingTour, files...)
}

// UnstageTourImage removes the staged tour file at the given position. Out of
// range positions are ignored.
func (w *Wizard) UnstageTourImage(index int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.pendingTour) {
		return
	}
	w.pendingTour = append(w.pendingTour[:index], w.pendingTour[index+1:]...)
}

// StageDestinationImages appends local files for the destination at the given
// index. The index may point past the current destination list; it is checked
// again at submit time.
func (w *Wizard) StageDestinationImages(destinationIndex int, files ...uploads.File) {
	if destinationIndex < 0 || len(files) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingDest[destinationIndex] = append(w.pendingDest[destinationIndex], files...)
}

// UnstageDestinationImage removes one staged file for a destination. Unknown
// indexes are ignored.
func (w *Wizard) UnstageDestinationImage(destinationIndex, fileIndex int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	staged, ok := w.pendingDest[destinationIndex]
	if !ok || fileIndex < 0 || fileIndex >= len(staged) {
		return
	}
	staged = append(staged[:fileIndex], staged[fileIndex+1:]...)
	if len(staged) == 0 {
		delete(w.pendingDest, destinationIndex)
		return
	}
	w.pendingDest[destinationIndex] = staged
}

// Composition returns a copy of the current draft.
func (w *Wizard) Composition() Composition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.comp.clone()
}

// PendingTourImages returns a copy of the staged tour-level files.
func (w *Wizard) PendingTourImages() []uploads.File {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]uploads.File(nil), w.pendingTour...)
}

// PendingDestinationImages returns a copy of the staged per-destination files.
func (w *Wizard) PendingDestinationImages() map[int][]uploads.File {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[int][]uploads.File, len(w.pendingDest))
	for idx, files := range w.pendingDest {
		out[idx] = append([]uploads.File(nil), files...)
	}
	return out
}

// IsSubmitting reports whether a submission is in flight.
func (w *Wizard) IsSubmitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Reset discards the draft and staged files and returns to the first step.
// Called on explicit cancellation and after a successful submission.
func (w *Wizard) Reset(ctx context.Context) {
	w.mu.Lock()
	discarded := w.draftID
	w.resetLocked()
	w.mu.Unlock()
	w.logg.Info(w.logg.WithDraftID(ctx, discarded), "wizard draft reset")
}

func (w *Wizard) resetLocked() {
	w.comp = Composition{}
	w.pendingTour = nil
	w.pendingDest = map[int][]uploads.File{}
	w.step = 1
	w.draftID = uuid.NewString()
}
