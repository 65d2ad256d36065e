// Package ui is the fyne front end of InkBoard: the canvas widget, the
// toolbar and the application window.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/analysis"
	"InkBoard/internal/board"
	"InkBoard/internal/clipboard"
	"InkBoard/internal/config"
	"InkBoard/internal/event"
	"InkBoard/internal/export"
	"InkBoard/internal/logging"
	"InkBoard/internal/recognizer"
	"InkBoard/internal/render"
	"InkBoard/internal/transform"
)

// App is the running board window.
type App struct {
	fyneApp    fyne.App
	window     fyne.Window
	canvas     *BoardWidget
	board      *board.Board
	engines    *recognizer.Engines
	cfg        *config.Config
	status     *widget.Label
	commands   *commands
	lassoCheck *widget.Check
	subs       event.Group
	ctx        context.Context
	cancel     context.CancelFunc
	log        *slog.Logger
}

// StyleOf returns the typeset style cfg describes.
func StyleOf(cfg *config.Config) render.Style {
	return render.Style{
		TextColor:      cfg.Style.TextColor,
		ShapeColor:     cfg.Style.ShapeColor,
		ShapeThickness: cfg.Style.ShapeThickness,
	}
}

// Run opens the board window and blocks until it is closed. watcher may be
// nil; when set, style, lasso and device changes in the config file apply
// to the running board.
func Run(cfg *config.Config, watcher *config.Watcher) error {
	a := &App{
		fyneApp: app.NewWithID("io.inkboard"),
		cfg:     cfg,
		status:  widget.NewLabel("Ready"),
		log:     logging.For("ui"),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	defer a.cancel()
	a.window = a.fyneApp.NewWindow("InkBoard")
	a.window.Resize(fyne.NewSize(1200, 800))

	engines, err := recognizer.Open(a.ctx, cfg, fyne.Do)
	if err != nil {
		if !errors.Is(err, recognizer.ErrNoRecognizer) {
			return err
		}
		a.log.Warn("remote recognizer unavailable, using local recognizer", "error", err)
		local := *cfg
		local.Recognizer.Mode = config.RecognizerLocal
		if engines, err = recognizer.Open(a.ctx, &local, fyne.Do); err != nil {
			return err
		}
		a.setStatus("Remote recognizer unavailable, recognizing locally")
	} else if engines.URL != "" {
		a.setStatus("Recognizer: " + engines.URL)
	}
	a.engines = engines
	defer a.engines.Close()

	a.canvas = NewBoardWidget()
	a.board = board.New(board.Options{
		Clipboard:     clipboard.System{},
		Engine:        engines.Analysis,
		TypesetEngine: engines.Typeset,
		Surface:       a.canvas,
		Style:         StyleOf(cfg),
		Interval:      cfg.Debounce(),
		Clock:         analysis.SystemClock{Dispatch: fyne.Do},
		Lasso:         cfg.Selection.Lasso,
		Devices:       board.NewDevices(cfg.Input.Mouse, cfg.Input.Pen, cfg.Input.Touch),
	})
	defer a.board.Close()
	a.canvas.Bind(a.board)
	defer a.canvas.Unbind()

	toolbar, cmds := newToolbar(a)
	a.commands = cmds
	a.commands.update(a.board)
	a.subs.Add(a.board.Changes().Subscribe(func(struct{}) { a.commands.update(a.board) }))
	defer a.subs.Close()

	if watcher != nil {
		watcher.OnChange(func(old, cfg *config.Config) {
			fyne.Do(func() { a.applyConfig(old, cfg) })
		})
	}

	a.addShortcuts()
	content := container.NewBorder(toolbar, a.status, nil, nil, a.canvas)
	a.window.SetContent(content)
	a.window.ShowAndRun()
	return nil
}

// applyConfig takes the settings that can change while running.
func (a *App) applyConfig(old, cfg *config.Config) {
	a.cfg = cfg
	a.board.Pipeline.SetStyle(StyleOf(cfg))
	a.lassoCheck.SetChecked(cfg.Selection.Lasso)
	a.board.Devices.Set(board.DeviceMouse, cfg.Input.Mouse)
	a.board.Devices.Set(board.DevicePen, cfg.Input.Pen)
	a.board.Devices.Set(board.DeviceTouch, cfg.Input.Touch)
	if old.Recognizer != cfg.Recognizer || old.Analysis != cfg.Analysis {
		a.setStatus("Recognizer settings apply after restart")
	} else {
		a.setStatus("Configuration reloaded")
	}
	a.log.Info("configuration applied")
}

func (a *App) addShortcuts() {
	c := a.window.Canvas()
	c.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { a.copySelection() })
	c.AddShortcut(&fyne.ShortcutCut{}, func(fyne.Shortcut) { a.cutSelection() })
	c.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { a.paste() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEscape},
		func(fyne.Shortcut) { a.board.Selection.ClearSelection() })
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

// Commands

func (a *App) undo() {
	if a.board.Undo() {
		a.setStatus("Undone")
	}
}

func (a *App) redo() {
	if a.board.Redo() {
		a.setStatus("Redone")
	}
}

func (a *App) typeset() {
	a.setStatus("Typesetting...")
	a.board.Typeset(a.ctx, func(res transform.Result, err error) {
		switch {
		case err != nil:
			a.setStatus(fmt.Sprintf("Typeset failed: %v", err))
		case res.Empty():
			a.setStatus("Nothing to typeset")
		default:
			a.setStatus(fmt.Sprintf("Typeset %d strokes into %d elements", len(res.Strokes), len(res.Elements)))
		}
		a.commands.update(a.board)
	})
}

func (a *App) clearAll() {
	if a.board.ClearAll() {
		a.setStatus("Canvas cleared")
	}
}

func (a *App) copySelection() {
	rect, err := a.board.Copy()
	switch {
	case err != nil:
		a.setStatus(err.Error())
	case rect.IsEmpty():
		a.setStatus("Nothing selected")
	default:
		a.setStatus("Copied")
	}
}

func (a *App) cutSelection() {
	rect, err := a.board.Cut()
	switch {
	case err != nil:
		a.setStatus(err.Error())
	case rect.IsEmpty():
		a.setStatus("Nothing selected")
	default:
		a.setStatus("Cut")
	}
}

func (a *App) paste() {
	if a.board.Paste(a.canvas.Pointer()).IsEmpty() {
		a.setStatus("Clipboard holds no ink")
		return
	}
	a.setStatus("Pasted")
}

// export saves the canvas as PDF or text, chosen by the file extension.
func (a *App) export() {
	page := export.Page{Strokes: a.board.Store.Strokes(), Elements: a.board.Surface.Elements()}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.setStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		if w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				a.log.Warn("close export file", "error", err)
			}
		}()
		ext := strings.ToLower(w.URI().Extension())
		if ext == "" {
			ext = ".pdf"
		}
		if err := export.Write(w, ext, page); err != nil {
			a.log.Warn("export failed", "uri", w.URI().String(), "error", err)
			a.setStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		a.log.Info("exported", "uri", w.URI().String(), "strokes", len(page.Strokes), "elements", len(page.Elements))
		a.setStatus("Exported " + w.URI().Name())
	}, a.window)
	d.SetFileName(export.FileName(time.Now(), ".pdf"))
	if dir := a.cfg.Export.Directory; dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}
