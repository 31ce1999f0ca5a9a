package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/2beens/fitdiet/internal/backup"
	"github.com/2beens/fitdiet/internal/catalog"
	"github.com/2beens/fitdiet/internal/dietplan"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/tracker"
)

// userError carries the message shown to the user; Err is only logged.
type userError struct {
	Msg string
	Err error
}

func (e *userError) Error() string {
	return e.Msg
}

func (e *userError) Unwrap() error {
	return e.Err
}

func errorDetail(err error) string {
	var ue *userError
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

// domain errors whose message is already fit for the user
var plainErrors = []error{
	profile.ErrInvalidProfile,
	ledger.ErrInvalidEntry,
	ledger.ErrEntryNotFound,
	dietplan.ErrCapacityReached,
	dietplan.ErrPlanNotFound,
	dietplan.ErrProfileRequired,
	catalog.ErrFoodNotFound,
	generation.ErrEmptyQuery,
	tracker.ErrNoFood,
	backup.ErrEmptySnapshot,
	backup.ErrInvalidCollection,
	backup.ErrUnsupportedVersion,
	backup.ErrMissingCredentials,
	errAmbiguousID,
}

func isPlain(err error) bool {
	for _, plain := range plainErrors {
		if errors.Is(err, plain) {
			return true
		}
	}
	return false
}

// userFacing maps any error to what the CLI prints.
func userFacing(err error) error {
	if err == nil {
		return nil
	}

	var ue *userError
	switch {
	case errors.As(err, &ue):
		return ue
	case errors.Is(err, context.Canceled):
		return &userError{Msg: "interrupted", Err: err}
	case errors.Is(err, generation.ErrMissingAPIKey):
		return &userError{Msg: "generation API key not set, use FITDIET_GEMINI_API_KEY", Err: err}
	case generation.KindOf(err) != 0:
		return &userError{Msg: "failed to generate/fetch data, please try again", Err: err}
	default:
		return err
	}
}

// storageFailed keeps validation messages and hides storage details.
func storageFailed(action string, err error) error {
	if err == nil {
		return nil
	}
	if isPlain(err) {
		return err
	}
	return &userError{Msg: fmt.Sprintf("failed to %s, please try again", action), Err: err}
}

var errAmbiguousID = errors.New("id prefix matches more than one entry, use more characters")

// resolveID accepts a full id or a unique prefix of one.
func resolveID(ids []string, ref string, notFound error) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", notFound
	}

	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", notFound
	case 1:
		return matches[0], nil
	default:
		return "", errAmbiguousID
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatGrams(v float64) string {
	return fmt.Sprintf("%.1fg", v)
}
