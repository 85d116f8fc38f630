package tour

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/tourigo/tourigo-client/internal/tourapi"
	"github.com/tourigo/tourigo-client/internal/uploads"
	"github.com/tourigo/tourigo-client/pkg/enums"
	pkgerrors "github.com/tourigo/tourigo-client/pkg/errors"
)

const wizardName = "tour_create"

// SubmitResult reports the outcome of a successful submission. UploadWarnings
// aggregates per-destination batches that failed to upload; those failures do
// not block creation. SkippedIndexes lists staged destination indexes that no
// longer resolved to a destination at submit time.
type SubmitResult struct {
	Tour           *tourapi.CreatedTour
	UploadWarnings error
	SkippedIndexes []int
}

// Submit resolves pending uploads, validates the assembled tour, and issues
// the creation request.
//
// Tour-level image uploads are all-or-nothing: a failure aborts the whole
// submission with the draft untouched. Per-destination batches are best-effort:
// failures are aggregated into the result and submission continues. The
// creation call is only issued after every upload attempt has resolved. On
// creation failure the draft and staged files are kept so the user can retry.
//
// A second call while one is in flight is ignored and returns (nil, nil).
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	w.mu.Lock()
	if w.submitting {
		draftID := w.draftID
		w.mu.Unlock()
		w.logg.Warn(w.logg.WithDraftID(ctx, draftID), "submission already in flight, ignoring")
		return nil, nil
	}
	w.submitting = true
	draftID := w.draftID
	step := w.step
	comp := w.comp.clone()
	pendingTour := append([]uploads.File(nil), w.pendingTour...)
	pendingDest := make(map[int][]uploads.File, len(w.pendingDest))
	for idx, files := range w.pendingDest {
		pendingDest[idx] = append([]uploads.File(nil), files...)
	}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	start := w.now()
	ctx = w.logg.WithStep(w.logg.WithDraftID(ctx, draftID), step)

	finalImages := append([]string(nil), comp.Images...)
	if len(pendingTour) > 0 {
		urls, err := w.uploader.UploadBatch(ctx, pendingTour, enums.ImageTypeTour, enums.ResourceTypeTour)
		if err != nil {
			w.metr.IncUploadBatch(enums.ImageTypeTour.String(), "failure")
			w.failed(start, "tour_images")
			w.logg.Error(ctx, "tour image batch upload failed", err)
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "uploading tour images")
		}
		w.metr.IncUploadBatch(enums.ImageTypeTour.String(), "success")
		finalImages = append(finalImages, urls...)
	}

	destinations := cloneDestinations(comp.Destinations)
	var skipped []int
	var warnings error
	for _, idx := range sortedIndexes(pendingDest) {
		files := pendingDest[idx]
		if len(files) == 0 {
			continue
		}
		if idx >= len(destinations) {
			w.logg.Warn(w.logg.WithField(ctx, "destination_index", idx), "staged images reference a missing destination, skipping")
			skipped = append(skipped, idx)
			continue
		}
		urls, err := w.uploader.UploadBatch(ctx, files, enums.ImageTypeDestination, enums.ResourceTypeTour)
		if err != nil {
			w.metr.IncUploadBatch(enums.ImageTypeDestination.String(), "failure")
			warnings = multierr.Append(warnings, fmt.Errorf("destination %d: %w", idx, err))
			continue
		}
		w.metr.IncUploadBatch(enums.ImageTypeDestination.String(), "success")
		destinations[idx].Images = append(destinations[idx].Images, urls...)
	}
	if warnings != nil {
		w.logg.Warn(ctx, "one or more destination image batches failed to upload")
	}

	payload := assemble(comp, finalImages, destinations)
	if err := validateTour(payload); err != nil {
		w.failed(start, "validation")
		return nil, err
	}

	created, err := w.tours.Create(ctx, payload)
	if err != nil {
		w.failed(start, "create")
		failCtx := w.logg.WithField(ctx, "retryable", pkgerrors.Retryable(err))
		w.logg.Error(failCtx, "tour creation failed, draft kept for retry", err)
		return nil, err
	}

	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()

	w.metr.IncSuccess(wizardName)
	w.metr.ObserveDuration("success", w.now().Sub(start))
	w.logg.Info(ctx, "tour created")
	return &SubmitResult{Tour: created, UploadWarnings: warnings, SkippedIndexes: skipped}, nil
}

func (w *Wizard) failed(start time.Time, stage string) {
	w.metr.IncFailure(wizardName, stage)
	w.metr.ObserveDuration("failure", w.now().Sub(start))
}

func sortedIndexes(pending map[int][]uploads.File) []int {
	indexes := make([]int, 0, len(pending))
	for idx := range pending {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// normalizeDay converts the supported date inputs to the canonical YYYY-MM-DD
// form. Unknown formats pass through trimmed and are caught by validation.
func normalizeDay(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dayLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return trimmed
}

// assemble builds the final API payload, applying defensive defaults for any
// field the steps left unset.
func assemble(comp Composition, images []string, destinations []Destination) *tourapi.CreateTourInput {
	if images == nil {
		images = []string{}
	}

	destInputs := make([]tourapi.DestinationInput, 0, len(destinations))
	for _, dest := range destinations {
		destImages := dest.Images
		if destImages == nil {
			destImages = []string{}
		}
		activities := make([]tourapi.ActivityInput, 0, len(dest.Activities))
		for _, act := range dest.Activities {
			activities = append(activities, tourapi.ActivityInput{
				Name:      strings.TrimSpace(act.Name),
				StartTime: act.StartTime,
				EndTime:   act.EndTime,
				SortOrder: act.SortOrder,
			})
		}
		destInputs = append(destInputs, tourapi.DestinationInput{
			DestinationID:   dest.DestinationID,
			StartTime:       dest.StartTime,
			EndTime:         dest.EndTime,
			SortOrder:       dest.SortOrder,
			SortOrderByDate: dest.SortOrderByDate,
			Images:          destImages,
			Activities:      activities,
		})
	}

	tickets := make([]tourapi.TicketInput, 0, len(comp.Tickets))
	for _, ticket := range comp.Tickets {
		tickets = append(tickets, tourapi.TicketInput{
			DefaultNetCost:          ticket.DefaultNetCost,
			MinimumPurchaseQuantity: ticket.MinimumPurchaseQuantity,
			Kind:                    ticket.Kind.String(),
		})
	}

	return &tourapi.CreateTourInput{
		Title:             strings.TrimSpace(comp.Title),
		CategoryID:        strings.TrimSpace(comp.CategoryID),
		Description:       strings.TrimSpace(comp.Description),
		OpenDay:           normalizeDay(comp.OpenDay),
		CloseDay:          normalizeDay(comp.CloseDay),
		ScheduleFrequency: comp.ScheduleFrequency.String(),
		About:             comp.About,
		Include:           comp.Include,
		PickupInfo:        comp.PickupInfo,
		Images:            images,
		Destinations:      destInputs,
		Tickets:           tickets,
	}
}
