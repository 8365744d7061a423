package views

import (
	"errors"

	"github.com/warp/sheet-editor/sheet"
)

var (
	// ErrTitleRequired is returned by Upload when no title was entered.
	ErrTitleRequired = sheet.ErrTitleRequired

	// ErrFileRequired is returned by Upload when no file was selected.
	ErrFileRequired = errors.New("file is required")

	// ErrEditInProgress is returned by BeginEdit while another row is open.
	ErrEditInProgress = errors.New("another row is being edited")

	// ErrNotEditing is returned when an edit operation targets a row that
	// is not the one being edited.
	ErrNotEditing = errors.New("row is not being edited")

	// ErrRowNotFound is returned for an unknown row identifier.
	ErrRowNotFound = errors.New("row not found")

	// ErrNoPendingConfirmation is returned by Confirm and Dismiss when
	// nothing is awaiting confirmation.
	ErrNoPendingConfirmation = errors.New("nothing to confirm")

	// ErrStale is returned when a response arrives after a newer request was
	// issued (or the view was closed). The response is discarded.
	ErrStale = errors.New("stale response discarded")
)
