package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type (
	pathParams     struct{ Path string `json:"path"` }
	contentParams  struct{ Content string `json:"content"` }
	modifiedParams struct{ Modified bool `json:"modified"` }
	themeParams    struct{ Theme string `json:"theme"` }
	sizeParams     struct{ Size int `json:"size"` }
	enabledParams  struct{ Enabled bool `json:"enabled"` }
	dimsParams     struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	pointParams struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
)

type handler func(a *API, params json.RawMessage) (any, error)

var methods = map[string]handler{
	"new_file":  func(a *API, _ json.RawMessage) (any, error) { return a.NewFile(), nil },
	"open_file": func(a *API, _ json.RawMessage) (any, error) { return a.OpenFile(), nil },
	"open_recent_file": func(a *API, raw json.RawMessage) (any, error) {
		var p pathParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.OpenRecentFile(p.Path), nil
	},
	"set_current_file": func(a *API, raw json.RawMessage) (any, error) {
		var p pathParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SetCurrentFile(p.Path), nil
	},
	"save_file": func(a *API, raw json.RawMessage) (any, error) {
		var p contentParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SaveFile(p.Content), nil
	},
	"save_file_as": func(a *API, raw json.RawMessage) (any, error) {
		var p contentParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SaveFileAs(p.Content), nil
	},
	"set_modified": func(a *API, raw json.RawMessage) (any, error) {
		var p modifiedParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		a.SetModified(p.Modified)
		return nil, nil
	},
	"get_file_state":   func(a *API, _ json.RawMessage) (any, error) { return a.FileState(), nil },
	"get_recent_files": func(a *API, _ json.RawMessage) (any, error) { return a.RecentFiles(), nil },
	"add_recent_file": func(a *API, raw json.RawMessage) (any, error) {
		var p pathParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		a.AddRecentFile(p.Path)
		return nil, nil
	},
	"clear_recent_files": func(a *API, _ json.RawMessage) (any, error) {
		a.ClearRecentFiles()
		return nil, nil
	},
	"get_startup_file": func(a *API, _ json.RawMessage) (any, error) { return a.StartupFile(), nil },
	"get_settings":     func(a *API, _ json.RawMessage) (any, error) { return a.Settings(), nil },
	"get_theme":        func(a *API, _ json.RawMessage) (any, error) { return a.Theme(), nil },
	"set_theme": func(a *API, raw json.RawMessage) (any, error) {
		var p themeParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SetTheme(p.Theme), nil
	},
	"set_font_size": func(a *API, raw json.RawMessage) (any, error) {
		var p sizeParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SetFontSize(p.Size), nil
	},
	"toggle_word_wrap": func(a *API, _ json.RawMessage) (any, error) { return a.ToggleWordWrap(), nil },
	"set_word_wrap": func(a *API, raw json.RawMessage) (any, error) {
		var p enabledParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return a.SetWordWrap(p.Enabled), nil
	},
	"get_window_size": func(a *API, _ json.RawMessage) (any, error) { return a.WindowSize(), nil },
	"save_window_size": func(a *API, raw json.RawMessage) (any, error) {
		var p dimsParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		a.SaveWindowSize(p.Width, p.Height)
		return nil, nil
	},
	"get_window_position": func(a *API, _ json.RawMessage) (any, error) { return a.WindowPosition(), nil },
	"save_window_position": func(a *API, raw json.RawMessage) (any, error) {
		var p pointParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		a.SaveWindowPosition(p.X, p.Y)
		return nil, nil
	},
	"force_close": func(a *API, _ json.RawMessage) (any, error) {
		a.ForceClose()
		return nil, nil
	},
}

// Methods lists every callable method name, sorted.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches a named method with JSON object params. Unknown methods
// and malformed params yield an *Error; operation failures are results.
func (a *API) Call(method string, params json.RawMessage) (any, error) {
	h, ok := methods[method]
	if !ok {
		return nil, &Error{Code: CodeMethodNotFound, Message: "unknown method: " + method}
	}
	return h(a, params)
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
