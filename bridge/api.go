// Package bridge implements the call surface the hosted editor page uses to
// reach native file and settings operations, and the transports that carry it.
package bridge

import (
	"errors"
	"log/slog"
	"sync"

	"quillgo/docio"
	"quillgo/logging"
	"quillgo/session"
	"quillgo/settings"
)

// DefaultSaveName is offered by the save dialog when the document has no path.
const DefaultSaveName = "Untitled.md"

// ErrDialogCancelled is returned by Dialogs when the user dismisses a dialog.
var ErrDialogCancelled = errors.New("dialog cancelled")

// FileFilter is one entry in a native file dialog's type list.
type FileFilter struct {
	Name       string
	Extensions []string
}

// DocumentFilters is the filter list used by the open and save dialogs.
var DocumentFilters = []FileFilter{
	{Name: "Markdown files", Extensions: []string{"md", "markdown"}},
	{Name: "Text files", Extensions: []string{"txt"}},
	{Name: "All files", Extensions: []string{"*"}},
}

// Window is the part of the native window the API touches.
type Window interface {
	SetTitle(title string)
}

// Dialogs provides native file choosers. Both methods return
// ErrDialogCancelled when nothing was chosen.
type Dialogs interface {
	OpenFile(filters []FileFilter) (string, error)
	SaveFile(defaultName string, filters []FileFilter) (string, error)
}

// StartupSource hands out the launch file at most once.
type StartupSource interface {
	Take() (string, bool)
}

// CloseConfirmer receives force_close.
type CloseConfirmer interface {
	ConfirmClose()
}

// Options wires an API to its collaborators. Window, Dialogs, Startup and
// Closer may be nil; the matching operations then degrade to no-ops.
type Options struct {
	AppName  string
	Settings *settings.Store
	Session  *session.Session
	Window   Window
	Dialogs  Dialogs
	Startup  StartupSource
	Closer   CloseConfirmer
	Logger   *slog.Logger
}

// API is the Bridge API. Every exported operation holds the API mutex, so
// calls arriving from several transport connections are serialized.
type API struct {
	mu sync.Mutex

	appName  string
	settings *settings.Store
	session  *session.Session
	window   Window
	dialogs  Dialogs
	startup  StartupSource
	closer   CloseConfirmer
	logger   *slog.Logger
}

// NewAPI builds an API. Settings is required.
func NewAPI(opts Options) *API {
	if opts.AppName == "" {
		opts.AppName = "Quill"
	}
	if opts.Session == nil {
		opts.Session = session.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &API{
		appName:  opts.AppName,
		settings: opts.Settings,
		session:  opts.Session,
		window:   opts.Window,
		dialogs:  opts.Dialogs,
		startup:  opts.Startup,
		closer:   opts.Closer,
		logger:   opts.Logger,
	}
}

// NewFile clears the session and hands back an empty document.
func (a *API) NewFile() FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.Clear()
	a.updateTitle()
	return opened("", "")
}

// OpenFile asks the user for a document and opens it.
func (a *API) OpenFile() FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dialogs == nil {
		return cancelled()
	}
	path, err := a.dialogs.OpenFile(DocumentFilters)
	if errors.Is(err, ErrDialogCancelled) || (err == nil && path == "") {
		return cancelled()
	}
	if err != nil {
		a.logger.Warn("open dialog failed", slog.Any("error", err))
		return failed(err)
	}
	return a.openPath(path)
}

// OpenRecentFile opens an entry from the recent list, pruning it when the
// file has gone away.
func (a *API) OpenRecentFile(path string) FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	content, err := docio.Read(path)
	if errors.Is(err, docio.ErrNotExist) {
		a.settings.RemoveRecentFile(path)
		a.logger.Info("removed stale recent file", slog.String("path", path))
		return failed(docio.ErrNotExist)
	}
	if err != nil {
		return failed(err)
	}
	a.adopt(path)
	return opened(path, content)
}

// SetCurrentFile records path as the open document without reading it. An
// empty path detaches the session from any file.
func (a *API) SetCurrentFile(path string) FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if path == "" {
		a.session.Clear()
		a.updateTitle()
		return FileResult{Success: true}
	}
	a.adopt(path)
	return saved(path)
}

// SaveFile writes to the current path, or behaves like SaveFileAs when the
// document has never been saved.
func (a *API) SaveFile(content string) FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session.HasPath() {
		return a.saveTo(a.session.Path(), content)
	}
	return a.saveAs(content)
}

// SaveFileAs asks for a destination and writes content there.
func (a *API) SaveFileAs(content string) FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveAs(content)
}

// SetModified updates the dirty flag and the title.
func (a *API) SetModified(modified bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session.SetModified(modified)
	a.updateTitle()
}

// FileState reports the session.
func (a *API) FileState() session.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.State()
}

// RecentFiles lists recent paths, most recent first.
func (a *API) RecentFiles() []string {
	return a.settings.RecentFiles()
}

// AddRecentFile promotes path in the recent list.
func (a *API) AddRecentFile(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.AddRecentFile(path)
}

// ClearRecentFiles empties the recent list.
func (a *API) ClearRecentFiles() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.ClearRecentFiles()
}

// StartupFile consumes the launch file. It returns nil when there is none,
// when it was already taken, or when reading it failed; the token is spent
// in every case.
func (a *API) StartupFile() *StartupFile {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.startup == nil {
		return nil
	}
	path, ok := a.startup.Take()
	if !ok {
		return nil
	}
	content, err := docio.Read(path)
	if err != nil {
		a.logger.Warn("could not load startup file", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	a.adopt(path)
	return &StartupFile{Content: content, Path: path}
}

// Settings returns the editor-facing preferences.
func (a *API) Settings() SettingsView {
	return SettingsView{
		Theme:    a.settings.Theme(),
		FontSize: a.settings.FontSize(),
		WordWrap: a.settings.WordWrap(),
	}
}

// Theme returns the current theme name.
func (a *API) Theme() string {
	return a.settings.Theme()
}

// SetTheme validates and stores the theme.
func (a *API) SetTheme(theme string) ThemeResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.settings.SetTheme(theme); err != nil {
		return ThemeResult{Error: err.Error()}
	}
	return ThemeResult{Success: true, Theme: a.settings.Theme()}
}

// SetFontSize stores the clamped font size.
func (a *API) SetFontSize(size int) FontSizeResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return FontSizeResult{Success: true, FontSize: a.settings.SetFontSize(size)}
}

// ToggleWordWrap flips word wrap.
func (a *API) ToggleWordWrap() WordWrapResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return WordWrapResult{Success: true, WordWrap: a.settings.ToggleWordWrap()}
}

// SetWordWrap stores word wrap.
func (a *API) SetWordWrap(enabled bool) WordWrapResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.SetWordWrap(enabled)
	return WordWrapResult{Success: true, WordWrap: a.settings.WordWrap()}
}

// WindowSize returns the saved window size.
func (a *API) WindowSize() WindowSize {
	w, h := a.settings.WindowSize()
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize stores the window size.
func (a *API) SaveWindowSize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.SetWindowSize(width, height)
}

// WindowPosition returns the saved window position.
func (a *API) WindowPosition() WindowPosition {
	x, y := a.settings.WindowPosition()
	return WindowPosition{X: x, Y: y}
}

// SaveWindowPosition stores the window position.
func (a *API) SaveWindowPosition(x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings.SetWindowPosition(x, y)
}

// ForceClose tells the close controller the page has settled unsaved work.
func (a *API) ForceClose() {
	if a.closer == nil {
		return
	}
	a.closer.ConfirmClose()
}

func (a *API) openPath(path string) FileResult {
	content, err := docio.Read(path)
	if err != nil {
		return failed(err)
	}
	a.adopt(path)
	return opened(path, content)
}

func (a *API) saveAs(content string) FileResult {
	if a.dialogs == nil {
		return cancelled()
	}
	path, err := a.dialogs.SaveFile(DefaultSaveName, DocumentFilters)
	if errors.Is(err, ErrDialogCancelled) || (err == nil && path == "") {
		return cancelled()
	}
	if err != nil {
		a.logger.Warn("save dialog failed", slog.Any("error", err))
		return failed(err)
	}
	return a.saveTo(path, content)
}

func (a *API) saveTo(path, content string) FileResult {
	if err := docio.Write(path, content); err != nil {
		a.logger.Warn("save failed", slog.String("path", path), slog.Any("error", err))
		return failed(err)
	}
	a.adopt(path)
	return saved(path)
}

// adopt makes path the clean current document and promotes it in recents.
func (a *API) adopt(path string) {
	a.session.Reset(path)
	a.updateTitle()
	a.settings.AddRecentFile(path)
}

func (a *API) updateTitle() {
	if a.window == nil {
		return
	}
	a.window.SetTitle(a.session.Title(a.appName))
}
