package tui

import "github.com/warp/sheet-editor/views"

// listRefreshedMsg is sent when a list fetch finishes.
type listRefreshedMsg struct {
	Err error
}

// sheetDeletedMsg is sent when a sheet delete finishes.
type sheetDeletedMsg struct {
	Title string
	Err   error
}

// uploadedMsg is sent when an upload (and its re-fetch) finishes.
type uploadedMsg struct {
	Err error
}

// fileReadErrorMsg is sent when the file chosen for upload cannot be read.
type fileReadErrorMsg struct {
	Path string
	Err  error
}

// editorLoadedMsg is sent when an editor's rows arrive. Editor identifies
// which editor asked, so a late load for a closed editor is ignored.
type editorLoadedMsg struct {
	Editor *views.Editor
	Err    error
}

// submittedMsg is sent when a bulk replace finishes.
type submittedMsg struct {
	Err error
}
