package bridge

// FileResult is the shape every file operation returns to the UI. A dialog
// dismissal is Cancelled, not an error.
type FileResult struct {
	Success   bool    `json:"success"`
	Cancelled bool    `json:"cancelled,omitempty"`
	Content   *string `json:"content,omitempty"`
	Path      string  `json:"path,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// StartupFile is the payload of get_startup_file.
type StartupFile struct {
	Content string `json:"content"`
	Path    string `json:"path"`
}

// SettingsView is what get_settings exposes to the page.
type SettingsView struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"font_size"`
	WordWrap bool   `json:"word_wrap"`
}

// ThemeResult answers set_theme.
type ThemeResult struct {
	Success bool   `json:"success"`
	Theme   string `json:"theme,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FontSizeResult answers set_font_size with the clamped value.
type FontSizeResult struct {
	Success  bool `json:"success"`
	FontSize int  `json:"font_size"`
}

// WordWrapResult answers toggle_word_wrap and set_word_wrap.
type WordWrapResult struct {
	Success  bool `json:"success"`
	WordWrap bool `json:"word_wrap"`
}

// WindowSize is the saved outer size.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowPosition is the saved position; nil coordinates mean "OS default".
type WindowPosition struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

func opened(path, content string) FileResult {
	return FileResult{Success: true, Content: &content, Path: path}
}

func saved(path string) FileResult {
	return FileResult{Success: true, Path: path}
}

func cancelled() FileResult {
	return FileResult{Cancelled: true}
}

func failed(err error) FileResult {
	return FileResult{Error: err.Error()}
}
